package main

import "github.com/nsitu/artasia-atlas/cmd"

func main() {
	cmd.Execute()
}

package cmd

import (
	"fmt"
	"io"

	"github.com/nsitu/artasia-atlas/internal/graph"
	"github.com/nsitu/artasia-atlas/internal/sites"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <dataset>",
	Short: "Summarize groups, representatives and links without rendering",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, rows, err := loadGraph(cmd.Context(), args[0], nil)
		if err != nil {
			return err
		}
		printInspect(cmd.OutOrStdout(), args[0], g)
		printCoverage(cmd.OutOrStdout(), sites.Coverage(rows))
		return nil
	},
}

func printInspect(w io.Writer, source string, g *graph.Graph) {
	st := g.Stats()
	fmt.Fprintf(w, "Dataset: %s\n", source)
	fmt.Fprintf(w, "Sites: %d (%d located, %d without GPS)\n", st.Nodes, st.LocatedNodes, st.Nodes-st.LocatedNodes)
	fmt.Fprintf(w, "Links: %d (%d member, %d hub, %d distance unavailable)\n", st.Edges, st.MemberEdges, st.HubEdges, st.UnavailableEdges)
	fmt.Fprintf(w, "Groups: %d\n", st.Groups)
	if g.IsEmpty() {
		fmt.Fprintln(w, "(no sites)")
		return
	}
	for _, grp := range g.Groups {
		rep, _ := g.Node(grp.Representative)
		fmt.Fprintf(w, "- %s: %d site(s), representative #%d %s (participation %g)\n",
			grp.Key, len(grp.Members), rep.ID, rep.Label, rep.Participation)
	}

	var unlocated []graph.Node
	for _, n := range g.Nodes {
		if !n.HasLocation() {
			unlocated = append(unlocated, n)
		}
	}
	if len(unlocated) == 0 {
		return
	}
	fmt.Fprintln(w, "Without GPS:")
	for _, n := range unlocated {
		fmt.Fprintf(w, "- #%d %s\n", n.ID, n.Label)
	}
}

func printCoverage(w io.Writer, cov []sites.ColumnCoverage) {
	fmt.Fprintln(w, "Columns:")
	for _, c := range cov {
		fmt.Fprintf(w, "- %s: %d filled, %d blank\n", c.Name, c.NonNull, c.Missing)
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

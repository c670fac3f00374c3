package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/nsitu/artasia-atlas/internal/config"
	"github.com/nsitu/artasia-atlas/internal/graph"
	"github.com/nsitu/artasia-atlas/internal/logger"
	"github.com/nsitu/artasia-atlas/internal/render"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Atlas configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "group_by: %s\n", c.GroupBy)
		fmt.Fprintf(w, "edge_labels: %t\n", c.EdgeLabels)
		fmt.Fprintf(w, "format: %s\n", c.Format)
		fmt.Fprintf(w, "title: %s\n", c.Title)
		fmt.Fprintf(w, "renderer_url: %s\n", c.RendererURL)
		fmt.Fprintf(w, "physics_gravitational_constant: %g\n", c.PhysicsGravitationalConstant)
		fmt.Fprintf(w, "physics_spring_length: %g\n", c.PhysicsSpringLength)
		fmt.Fprintf(w, "physics_spring_constant: %g\n", c.PhysicsSpringConstant)
		fmt.Fprintf(w, "physics_stabilization_iterations: %d\n", c.PhysicsStabilizationIterations)
		fmt.Fprintf(w, "http_timeout_sec: %d\n", c.HTTPTimeoutSec)
		fmt.Fprintf(w, "log_level: %s\n", c.LogLevel)
		if c.MetricsFile != "" {
			fmt.Fprintf(w, "metrics_file: %s\n", c.MetricsFile)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c := currentConfig()
		if err := setConfigValue(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		logger.Named("config").Debug(cmd.Context(), "config saved", logger.String("key", key))
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "group_by":
		k, err := graph.ParseGroupKey(val)
		if err != nil {
			return err
		}
		c.GroupBy = string(k)
	case "edge_labels":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for edge_labels: %v", val)
		}
		c.EdgeLabels = b
	case "format":
		f, err := render.ValidateFormat(val)
		if err != nil {
			return err
		}
		c.Format = f
	case "title":
		c.Title = val
	case "renderer_url":
		if !strings.HasPrefix(val, "http://") && !strings.HasPrefix(val, "https://") {
			return fmt.Errorf("invalid renderer_url: %s (must be http or https)", val)
		}
		c.RendererURL = val
	case "physics_gravitational_constant":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for physics_gravitational_constant: %w", err)
		}
		c.PhysicsGravitationalConstant = f
	case "physics_spring_length":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid float for physics_spring_length: %v", val)
		}
		c.PhysicsSpringLength = f
	case "physics_spring_constant":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid float for physics_spring_constant: %v", val)
		}
		c.PhysicsSpringConstant = f
	case "physics_stabilization_iterations":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for physics_stabilization_iterations: %v", val)
		}
		c.PhysicsStabilizationIterations = i
	case "http_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
		}
		c.HTTPTimeoutSec = i
	case "log_level":
		if err := logger.SetLevelString(val); err != nil {
			return err
		}
		c.LogLevel = strings.ToLower(val)
	case "metrics_file":
		c.MetricsFile = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

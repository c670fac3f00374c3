package cmd

import (
	"fmt"
	"time"

	cfgpkg "github.com/nsitu/artasia-atlas/internal/config"
	"github.com/nsitu/artasia-atlas/internal/graph"
	"github.com/nsitu/artasia-atlas/internal/logger"
	"github.com/nsitu/artasia-atlas/internal/metrics"
	"github.com/nsitu/artasia-atlas/internal/render"
	"github.com/nsitu/artasia-atlas/internal/utils"
	"github.com/spf13/cobra"
)

var (
	buildOut         string
	buildFormat      string
	buildGroupBy     string
	buildEdgeLabels  bool
	buildTitle       string
	buildMetricsFile string
)

var buildCmd = &cobra.Command{
	Use:   "build <dataset>",
	Short: "Build the site graph and write HTML, JSON, or YAML",
	Long: `Build reads a CSV, TSV, or XLSX dataset (local path or http(s) URL),
builds the force-directed site graph and writes it out.

Without -o the result goes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		flags := cmd.Flags()

		format := c.Format
		if flags.Changed("format") {
			format = buildFormat
		}
		format, err := render.ValidateFormat(format)
		if err != nil {
			return err
		}
		groupBy := c.GroupBy
		if flags.Changed("group-by") {
			groupBy = buildGroupBy
		}
		key, err := graph.ParseGroupKey(groupBy)
		if err != nil {
			return err
		}
		edgeLabels := c.EdgeLabels
		if flags.Changed("edge-labels") {
			edgeLabels = buildEdgeLabels
		}
		metricsFile := c.MetricsFile
		if flags.Changed("metrics-file") {
			metricsFile = buildMetricsFile
		}

		ctx := cmd.Context()
		m := metrics.NewManager()
		g, _, err := loadGraph(ctx, args[0], m)
		if err != nil {
			return err
		}
		state := graph.NewState(g, key, edgeLabels)

		opts := htmlOptions(c)
		if flags.Changed("title") {
			opts.Title = buildTitle
		}
		out, err := render.Render(format, args[0], state, opts, time.Now())
		if err != nil {
			return err
		}

		if buildOut == "" {
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		} else {
			if err := utils.SafeWriteFile(buildOut, out); err != nil {
				return err
			}
			st := g.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (%d sites, %d links, %d groups)\n", buildOut, st.Nodes, st.Edges, st.Groups)
		}
		logger.Named("build").Debug(ctx, "output written",
			logger.String("format", format),
			logger.String("group_by", string(key)),
			logger.Bool("edge_labels", edgeLabels),
			logger.Int("bytes", len(out)),
		)
		return writeMetrics(ctx, m, metricsFile)
	},
}

// htmlOptions maps renderer settings from config.
func htmlOptions(c *cfgpkg.Global) render.HTMLOptions {
	return render.HTMLOptions{
		Title:       c.Title,
		RendererURL: c.RendererURL,
		Physics: render.Physics{
			GravitationalConstant:   c.PhysicsGravitationalConstant,
			SpringLength:            c.PhysicsSpringLength,
			SpringConstant:          c.PhysicsSpringConstant,
			StabilizationIterations: c.PhysicsStabilizationIterations,
		},
	}
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildOut, "output", "o", "", "output file (default stdout)")
	buildCmd.Flags().StringVar(&buildFormat, "format", "html", "output format: html, json, or yaml")
	buildCmd.Flags().StringVar(&buildGroupBy, "group-by", "partner", "initial grouping: partner, educator, or earlyon")
	buildCmd.Flags().BoolVar(&buildEdgeLabels, "edge-labels", false, "show distance labels on edges")
	buildCmd.Flags().StringVar(&buildTitle, "title", "", "page title (html only)")
	buildCmd.Flags().StringVar(&buildMetricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
}

package cmd

import (
	"fmt"

	"github.com/nsitu/artasia-atlas/internal/graph"
	"github.com/nsitu/artasia-atlas/internal/metrics"
	"github.com/nsitu/artasia-atlas/internal/utils"
	"github.com/spf13/cobra"
)

var (
	regroupBy   string
	regroupJSON bool
)

var regroupCmd = &cobra.Command{
	Use:   "regroup <dataset>",
	Short: "Print the group assignment of every site for a grouping key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := graph.ParseGroupKey(regroupBy)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		m := metrics.NewManager()
		g, _, err := loadGraph(ctx, args[0], m)
		if err != nil {
			return err
		}
		state := graph.NewState(g, key, false)
		m.RecordRegroup(key)

		out := cmd.OutOrStdout()
		if regroupJSON {
			b, err := utils.PrettyJSON(graph.Assignments(g.Nodes, key))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		} else {
			for _, n := range state.Graph.Nodes {
				if _, err := fmt.Fprintf(out, "%d\t%s\t%s\n", n.ID, n.Label, n.Group); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}
		}
		return writeMetrics(ctx, m, currentConfig().MetricsFile)
	},
}

func init() {
	rootCmd.AddCommand(regroupCmd)
	regroupCmd.Flags().StringVar(&regroupBy, "by", "", "grouping key: partner, educator, or earlyon")
	regroupCmd.Flags().BoolVar(&regroupJSON, "json", false, "print assignments as JSON")
	_ = regroupCmd.MarkFlagRequired("by")
}

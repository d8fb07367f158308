package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/hospiviz-cli/internal/pipeline"
	"github.com/KaramelBytes/hospiviz-cli/internal/render"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render a static PNG chart",
}

func chartSubcommand(use, short string, build func(*pipeline.Result, render.ChartOptions) artifact) *cobra.Command {
	sub := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, c, err := runPipeline(cmd)
			if err != nil {
				return err
			}
			_, err = writeArtifacts(c, build(res, chartOptions()))
			return err
		},
	}
	addDataFlags(sub)
	addOutDirFlag(sub)
	addChartSizeFlags(sub)
	return sub
}

func addChartSizeFlags(c *cobra.Command) {
	c.Flags().Float64Var(&flagChartWidth, "width", 0, "chart width in inches (default per chart)")
	c.Flags().Float64Var(&flagChartHeight, "height", 0, "chart height in inches (default per chart)")
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.AddCommand(
		chartSubcommand("bar", "Patients per facility, sorted (bar_chart.png)", barArtifact),
		chartSubcommand("heatmap", "Correlation of patients and rating (heatmap.png)", heatmapArtifact),
		chartSubcommand("violin", "Rating distribution per facility (violin_plot.png)", violinArtifact),
	)
}

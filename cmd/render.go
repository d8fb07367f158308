package cmd

import (
	"github.com/spf13/cobra"
)

var renderRating bool

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the map and every chart in one run",
	Long: `Render runs the pipeline once and writes hospitals_map.html, bar_chart.png,
heatmap.png and violin_plot.png. The map uses chart_radius_scale for marker size
and shows ratings in its popups unless chart_popup_include_rating or --rating=false
turns them off.
If any artifact fails, no file is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, c, err := runPipeline(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("rating") {
			c.ChartPopupIncludeRating = renderRating
		}
		mopt := mapOptions(c, c.ChartRadiusScale)
		mopt.IncludeRating = c.ChartPopupIncludeRating
		opt := chartOptions()
		_, err = writeArtifacts(c,
			mapArtifact(res, mopt),
			barArtifact(res, opt),
			heatmapArtifact(res, opt),
			violinArtifact(res, opt),
		)
		return err
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addDataFlags(renderCmd)
	addOutDirFlag(renderCmd)
	addChartSizeFlags(renderCmd)
	renderCmd.Flags().BoolVar(&renderRating, "rating", true, "include the rating in marker popups (overrides chart_popup_include_rating)")
}

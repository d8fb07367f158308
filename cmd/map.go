package cmd

import (
	"github.com/spf13/cobra"
)

var (
	mapRadiusScale float64
	mapZoom        int
	mapRating      bool
	mapFitBounds   bool
	mapTitle       string
	mapTileURL     string
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Render the interactive facility map (hospitals_map.html)",
	Example: `  hospiviz map
  hospiviz map -i hospitals.csv --rating --radius-scale 20 -o out/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, c, err := runPipeline(cmd)
		if err != nil {
			return err
		}
		f := cmd.Flags()
		if f.Changed("radius-scale") {
			c.MapRadiusScale = mapRadiusScale
		}
		if f.Changed("zoom") {
			c.MapZoom = mapZoom
		}
		if f.Changed("rating") {
			c.PopupIncludeRating = mapRating
		}
		opt := mapOptions(c, c.MapRadiusScale)
		opt.FitBounds = mapFitBounds
		opt.Title = mapTitle
		opt.TileURL = mapTileURL
		_, err = writeArtifacts(c, mapArtifact(res, opt))
		return err
	},
}

func init() {
	rootCmd.AddCommand(mapCmd)
	addDataFlags(mapCmd)
	addOutDirFlag(mapCmd)
	mapCmd.Flags().Float64Var(&mapRadiusScale, "radius-scale", 0, "marker radius of the busiest facility (overrides map_radius_scale)")
	mapCmd.Flags().IntVar(&mapZoom, "zoom", 0, "initial zoom level (overrides map_zoom)")
	mapCmd.Flags().BoolVar(&mapRating, "rating", false, "include the rating in marker popups")
	mapCmd.Flags().BoolVar(&mapFitBounds, "fit", false, "zoom to fit all markers")
	mapCmd.Flags().StringVar(&mapTitle, "title", "", "page title")
	mapCmd.Flags().StringVar(&mapTileURL, "tiles", "", "tile URL template (default OpenStreetMap)")
}

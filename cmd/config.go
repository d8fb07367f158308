package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/hospiviz-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set HospiViz configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "data_url: %s\n", c.DataURL)
		if c.NameColumn != "" {
			fmt.Fprintf(out, "name_column: %s\n", c.NameColumn)
		}
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		if c.Decimal != "" || c.Thousands != "" {
			fmt.Fprintf(out, "decimal: %q\n", c.Decimal)
			fmt.Fprintf(out, "thousands: %q\n", c.Thousands)
		}
		if c.Sheet != "" {
			fmt.Fprintf(out, "sheet: %s\n", c.Sheet)
		}
		fmt.Fprintf(out, "seed: %d\n", c.Seed)
		fmt.Fprintf(out, "output_dir: %s\n", c.OutputDir)
		fmt.Fprintf(out, "map_radius_scale: %.1f\n", c.MapRadiusScale)
		fmt.Fprintf(out, "chart_radius_scale: %.1f\n", c.ChartRadiusScale)
		fmt.Fprintf(out, "popup_include_rating: %t\n", c.PopupIncludeRating)
		fmt.Fprintf(out, "chart_popup_include_rating: %t\n", c.ChartPopupIncludeRating)
		fmt.Fprintf(out, "map_zoom: %d\n", c.MapZoom)
		fmt.Fprintf(out, "http_timeout_sec: %d\n", c.HTTPTimeoutSec)
		fmt.Fprintf(out, "retry_max_attempts: %d\n", c.RetryMaxAttempts)
		fmt.Fprintf(out, "retry_base_delay_ms: %d\n", c.RetryBaseDelayMs)
		fmt.Fprintf(out, "retry_max_delay_ms: %d\n", c.RetryMaxDelayMs)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "serve_addr: %s\n", c.ServeAddr)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if _, err := c.NumberFormat(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

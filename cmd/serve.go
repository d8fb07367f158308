package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/hospiviz-cli/internal/analysis"
	"github.com/KaramelBytes/hospiviz-cli/internal/logging"
	"github.com/KaramelBytes/hospiviz-cli/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the map, charts, summary and data over HTTP",
	Example: `  hospiviz serve
  hospiviz serve -i hospitals.csv --addr 127.0.0.1:9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, c, err := runPipeline(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			c.ServeAddr = serveAddr
		}
		srv := server.New(res, server.Options{
			Map:       mapOptions(c, c.MapRadiusScale),
			Chart:     chartOptions(),
			Summary:   analysis.DefaultOptions(),
			Log:       logger,
			AccessLog: logger.Level() >= logging.LevelDebug,
		})
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		logger.Infof("Serving %d facilities from %s on %s", len(res.Facilities), res.Report.Source, c.ServeAddr)
		return srv.ListenAndServe(ctx, c.ServeAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addDataFlags(serveCmd)
	addChartSizeFlags(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides serve_addr)")
}

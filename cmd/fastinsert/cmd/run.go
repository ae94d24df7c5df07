package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/weaveworks/promrus"

	"github.com/armadaproject/fastinsert/internal/common"
	"github.com/armadaproject/fastinsert/internal/fastinsertctl"
)

func runCmd(app *fastinsertctl.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run ./path/to/request.yaml...",
		Short: "Insert the rows of one or more requests",
		Long: `Insert the rows of one or more requests, in order.

All requests are validated before any is executed. Execution stops at the first failure;
groups inserted before it remain in the database.

Example request.yaml:

	table: attendees
	static_columns:
	  event_id: 12
	variable_column: user_id
	values: [1, 2, 3]
	options:
	  check_for_existing: true
	  timestamps: true`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initParams(cmd, app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cleanup := makeContext()
			defer cleanup()

			if port := app.Params.Config.MetricsPort; port > 0 {
				app.Registry = prometheus.NewRegistry()
				logHook, err := promrus.NewPrometheusHook()
				if err != nil {
					return err
				}
				log.AddHook(logHook)
				shutdownMetricServer := common.ServeMetricsFor(port, prometheus.Gatherers{app.Registry, prometheus.DefaultGatherer})
				defer shutdownMetricServer()
			}
			return app.Run(ctx, args...)
		},
	}
	return cmd
}

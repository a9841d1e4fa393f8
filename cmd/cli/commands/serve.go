package commands

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-coordinator/pkg/api"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	var (
		addr  string
		debug bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the admin JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Cfg.API.ListenAddr
			}
			if debug {
				gin.SetMode(gin.DebugMode)
			} else {
				gin.SetMode(gin.ReleaseMode)
			}

			app.Logger.Debug("serve command", zap.String("addr", addr), zap.Bool("debug", debug))

			server := api.NewServer(app.Database, app.Logger, api.DefaultMetrics(), api.Options{
				ReportSchedule: app.Cfg.ReportSchedule,
			})
			return server.Run(app.Ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to api.listenAddr from the config)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Run gin in debug mode")

	return cmd
}

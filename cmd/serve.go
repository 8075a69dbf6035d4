package cmd

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/httpapi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves annual stats over HTTP",
	Long:  `Starts an HTTP server exposing GET /v1/users/:username/stats and a /health probe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = a.cfg.HTTPAddr
		}
		if a.cfg.Env == "prod" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		router := httpapi.NewRouter(&httpapi.Handler{
			Stats: a.aggregator,
			Log:   a.logger.With(zap.String("component", "http")),
		})
		return httpapi.Serve(ctx, addr, router, a.cfg.ShutdownGrace, a.logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (defaults to HTTP_ADDR)")
}

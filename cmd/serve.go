package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/harrisonrobin/auditboard/pkg/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API",
	Long: `Serve the dashboard JSON API on the configured host and port.
The server stops gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if host, _ := cmd.Flags().GetString("host"); host != "" {
			current.cfg.Server.Host = host
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			current.cfg.Server.Port = port
		}

		d, err := current.Dashboard(ctx)
		if err != nil {
			return fmt.Errorf("failed to open %s backend: %w", current.cfg.Backend, err)
		}

		if current.log.IsLevelEnabled(logrus.DebugLevel) {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
		addr := fmt.Sprintf("%s:%d", current.cfg.Server.Host, current.cfg.Server.Port)
		return server.New(d, current.log).Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("host", "", "listen host (overrides config)")
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

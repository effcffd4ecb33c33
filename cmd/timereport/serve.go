package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(configPath)
		if err != nil {
			return err
		}
		defer application.Shutdown()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return application.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

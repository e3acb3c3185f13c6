package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/fluxapi/internal/client/cli"
	"github.com/dmitrijs2005/fluxapi/internal/client/config"
	"github.com/dmitrijs2005/fluxapi/internal/logging"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fluxapi",
		Short: "fluxapi - an HTTP API client in your terminal",
		Long: `fluxapi keeps collections of HTTP requests in a local SQLite database,
edits them in tabs that save themselves as you type, and sends them with
a band-colored view of the response.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := cli.NewApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			return app.Run(ctx)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

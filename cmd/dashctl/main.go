package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stremthru/dashctl/internal/client/cli"
	"github.com/stremthru/dashctl/internal/client/config"
	"github.com/stremthru/dashctl/internal/logging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dashctl",
		Short: "Interactive shell for the StremThru admin dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("base-url", "", "StremThru instance root URL")
	rootCmd.PersistentFlags().String("base-path", "", "dashboard API prefix")
	rootCmd.PersistentFlags().Duration("timeout", 0, "request timeout")
	rootCmd.PersistentFlags().Duration("poll-interval", 0, "download queue refresh interval")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("theme", "", "theme (dark, light, system)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.PersistentFlags())
	if err != nil {
		return err
	}

	logger, err := logging.NewZapLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Run(ctx)
	return nil
}

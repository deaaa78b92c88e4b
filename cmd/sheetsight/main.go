package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sheetsight/internal/config"
	"sheetsight/internal/infrastructure"
)

// cli holds the state shared by every subcommand
type cli struct {
	cfg    *config.Config
	logger *slog.Logger

	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "sheetsight",
		Short: "Normalize spreadsheets and compute report analytics",
		Long: `sheetsight reads CSV and Excel workbooks, normalizes horizontal tables and
vertical label/value sheets, and prints report payloads, comparisons and
trend analysis as JSON.`,
		Version:           config.AppVersion,
		SilenceUsage:      true,
		PersistentPreRunE: c.init,
	}

	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&c.logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(c.reportCmd())
	root.AddCommand(c.compareCmd())
	root.AddCommand(c.rankCmd())
	root.AddCommand(c.trendCmd())
	root.AddCommand(c.templatesCmd())
	root.AddCommand(c.versionCmd())

	return root
}

// init loads the configuration and builds a stderr logger. Flags override
// the configured log level and format.
func (c *cli) init(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.Logging.Level = c.logLevel
	cfg.Logging.Format = c.logFormat
	cfg.Logging.Output = "console"

	logger, err := infrastructure.NewLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	c.cfg = cfg
	c.logger = logger
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

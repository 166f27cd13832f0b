package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rewards-workers/internal/common/config"
	"rewards-workers/internal/common/logger"
)

// globalOptions carries the persistent flags shared by every subcommand.
type globalOptions struct {
	configFile string
	logLevel   string
}

// appConfig loads the worker configuration when --config is given. Without
// it every worker runs on its built-in defaults.
func (o *globalOptions) appConfig() (*config.Config, error) {
	if o.configFile == "" {
		return nil, nil
	}
	cfg, err := config.LoadFromFile(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// logger writes console logs to stderr so that stdout stays parseable.
func (o *globalOptions) logger() logger.Logger {
	return logger.NewStructured(o.logLevel, "console")
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "rewardsctl",
		Short: "Run the personalization workers against local fixtures",
		Long: `rewardsctl drives the ranking and proximity workers without a Zeebe broker.

A fixture file holds the catalog, users, purchase history, enrichment and
business directory; the same handlers the workers use do the work.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "worker config file (default: built-in defaults)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(rankCmd(opts))
	root.AddCommand(nearbyCmd(opts))
	root.AddCommand(registryCmd())

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

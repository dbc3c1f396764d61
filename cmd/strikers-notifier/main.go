package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dgnsrekt/strikers-notifier/internal/config"
)

// Set with -ldflags "-X main.version=..."
var version = "dev"

var (
	cfgFile string
	logger  *zap.Logger
	cfg     *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "strikers-notifier",
		Short: "Notify when an Omega Strikers match is found",
		Long: `Watches the Omega Strikers log file and sends a notification every time
matchmaking finds a game, so you can step away while queued.

The log file is discovered automatically on Windows and on Linux under
Proton. Use --log-path when it lives somewhere else.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip config loading for help commands
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				var err error
				logger, err = setupLogger(false, nil)
				return err
			}

			// Load config
			var err error
			cfg, err = config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			// Setup logger with config
			logger, err = setupLogger(cfg.Debug, &cfg.Logging)
			if err != nil {
				return err
			}

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runMonitor,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", os.Getenv("STRIKERS_NOTIFIER_CONFIG"), "config file path (or set STRIKERS_NOTIFIER_CONFIG)")
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(locateCmd())
	rootCmd.AddCommand(testNotifyCmd())

	// Setup signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dgnsrekt/strikers-notifier/internal/notify"
)

func testNotifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send one match notification through the configured transports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := notify.New(cfg.Notify, logger)
			if err := n.NotifyMatch(cmd.Context()); err != nil {
				return fmt.Errorf("test notification: %w", err)
			}

			logger.Info("test notification sent",
				zap.Bool("desktop", cfg.Notify.Desktop.Enabled),
				zap.Bool("ntfy", cfg.Notify.Ntfy.Enabled),
			)
			return nil
		},
	}
}

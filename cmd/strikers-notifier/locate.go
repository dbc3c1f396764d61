package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func locateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Print the log file path that would be watched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveLogPath(cfg.LogPath, findLog)
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				logger.Warn("log file does not exist yet, start the game once to create it", zap.String("path", path))
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}

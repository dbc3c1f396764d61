package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dgnsrekt/strikers-notifier/internal/locator"
	"github.com/dgnsrekt/strikers-notifier/internal/match"
	"github.com/dgnsrekt/strikers-notifier/internal/monitor"
	"github.com/dgnsrekt/strikers-notifier/internal/notify"
	"github.com/dgnsrekt/strikers-notifier/internal/watch"
)

var errAlreadyRunning = errors.New("another strikers-notifier instance is already running")

// runMonitor is the root command: tail the log until interrupted.
func runMonitor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	path, err := resolveLogPath(cfg.LogPath, findLog)
	if err != nil {
		logger.Error("failed to locate log file", zap.Error(err))
		return err
	}

	lock, err := acquireLock(cfg.LockFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release instance lock", zap.Error(err))
		}
	}()

	target := monitor.Target{Path: path, PollInterval: cfg.PollInterval()}
	logger.Info("starting strikers-notifier",
		zap.String("version", version),
		zap.String("logPath", target.Path),
		zap.Duration("pollInterval", target.PollInterval),
		zap.Bool("structuredFallback", cfg.Match.StructuredFallback),
		zap.String("lock", cfg.LockFile),
	)

	m := monitor.New(
		target,
		watch.New(target.Path, target.PollInterval, logger),
		match.New(cfg.Match.StructuredFallback),
		notify.New(cfg.Notify, logger),
		logger,
	)

	if err := m.Run(ctx); err != nil {
		logger.Error("monitor stopped", zap.Error(err))
		return err
	}

	stats := m.Stats()
	logger.Info("shutdown complete",
		zap.Int64("lines", stats.Lines),
		zap.Int64("matches", stats.Matches),
		zap.Int64("notifications", stats.Notifications),
		zap.Int64("notificationFailures", stats.NotificationFailures),
		zap.Int64("rotations", stats.Rotations),
	)
	return nil
}

func findLog() (string, error) {
	l, err := locator.Default()
	if err != nil {
		return "", err
	}
	return l.Find()
}

// resolveLogPath prefers an explicit path and otherwise asks find.
func resolveLogPath(override string, find func() (string, error)) (string, error) {
	if override != "" {
		logger.Debug("attempting with configured log file path", zap.String("path", override))
		return override, nil
	}

	path, err := find()
	if err != nil {
		return "", fmt.Errorf("%w (pass --log-path /path/to/OmegaStrikers.log)", err)
	}
	logger.Debug("attempting with discovered log file path", zap.String("path", path))
	return path, nil
}

// acquireLock takes the single-instance lock without blocking.
func acquireLock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", errAlreadyRunning, path)
	}
	return lock, nil
}

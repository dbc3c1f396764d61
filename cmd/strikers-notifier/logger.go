package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dgnsrekt/strikers-notifier/internal/config"
)

// setupLogger builds the process logger. Debug switches to the console
// encoder at debug level; stack traces are kept for errors only.
func setupLogger(debug bool, logCfg *config.LoggingConfig) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	var opts []zap.Option
	if debug {
		zapConfig = zap.NewDevelopmentConfig()
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	zapConfig.DisableStacktrace = true
	zapConfig.Level = zap.NewAtomicLevelAt(logLevel(debug, logCfg))

	if logCfg != nil && logCfg.Enabled {
		path, err := logFilePath(logCfg.Directory, time.Now())
		if err != nil {
			return nil, err
		}
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, path)
	}

	return zapConfig.Build(opts...)
}

// logLevel resolves logging.level; --debug always logs everything.
func logLevel(debug bool, logCfg *config.LoggingConfig) zapcore.Level {
	if debug {
		return zapcore.DebugLevel
	}
	level := zapcore.InfoLevel
	if logCfg != nil && logCfg.Level != "" {
		if err := level.UnmarshalText([]byte(logCfg.Level)); err != nil {
			return zapcore.InfoLevel
		}
	}
	return level
}

// logFilePath creates dir and names a per-run log file inside it.
func logFilePath(dir string, started time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating logs directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s.log", config.AppName, started.Format("2006-01-02_15-04-05"))
	return filepath.Join(dir, name), nil
}

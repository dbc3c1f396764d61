package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrInvalidInterval is returned by Start when the poll interval is not positive.
var ErrInvalidInterval = errors.New("poll interval must be positive")

// Source identifies what produced a Signal.
type Source string

const (
	SourceFilesystem Source = "filesystem"
	SourcePoll       Source = "poll"
)

// Signal is a wakeup hint that the watched file may have changed. Its
// contents are informational only.
type Signal struct {
	Source Source
	Kind   string
}

// Watcher merges filesystem events for one file and a polling ticker into a
// single signal channel.
type Watcher struct {
	path     string
	interval time.Duration
	logger   *zap.Logger
}

// New creates a watcher for path that also ticks every interval.
func New(path string, interval time.Duration, logger *zap.Logger) *Watcher {
	return &Watcher{
		path:     path,
		interval: interval,
		logger:   logger,
	}
}

// Start begins watching. The parent directory is watched so rename and
// recreate of the file are seen. Both channels are closed once ctx is done.
//
// The signal channel holds at most one pending wakeup; further wakeups are
// coalesced into it.
func (w *Watcher) Start(ctx context.Context) (<-chan Signal, <-chan error, error) {
	if w.interval <= 0 {
		return nil, nil, ErrInvalidInterval
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	signals := make(chan Signal, 1)
	errs := make(chan error, 1)

	go w.loop(ctx, fsw, signals, errs)

	w.logger.Debug("watching for changes",
		zap.String("path", w.path),
		zap.String("dir", dir),
		zap.Duration("pollInterval", w.interval),
	)

	return signals, errs, nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, signals chan<- Signal, errs chan<- error) {
	defer close(errs)
	defer close(signals)
	defer func() {
		if err := fsw.Close(); err != nil {
			w.logger.Warn("failed to close filesystem watcher", zap.Error(err))
		}
	}()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	name := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			offer(signals, Signal{Source: SourcePoll, Kind: "tick"})

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			w.logger.Debug("received file event", zap.String("op", event.Op.String()))
			offer(signals, Signal{Source: SourceFilesystem, Kind: event.Op.String()})

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			select {
			case errs <- err:
			case <-ctx.Done():
			}
			return
		}
	}
}

// offer delivers s unless a wakeup is already pending.
func offer(signals chan<- Signal, s Signal) {
	select {
	case signals <- s:
	default:
	}
}

package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/strikers-notifier/internal/match"
	"github.com/dgnsrekt/strikers-notifier/internal/notify"
	"github.com/dgnsrekt/strikers-notifier/internal/tail"
	"github.com/dgnsrekt/strikers-notifier/internal/watch"
)

var (
	ErrOpenLog      = errors.New("cannot open log file")
	ErrSignalSource = errors.New("change signal source failed")
)

// State is the monitor's lifecycle state.
type State int32

const (
	StateInitializing State = iota
	StateListening
	StateDraining
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateListening:
		return "listening"
	case StateDraining:
		return "draining"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Target is the file being watched and its poll fallback interval.
type Target struct {
	Path         string
	PollInterval time.Duration
}

// SignalSource produces wakeups for the monitor. Both channels must be
// closed once ctx is done.
type SignalSource interface {
	Start(ctx context.Context) (<-chan watch.Signal, <-chan error, error)
}

// Stats counts what the monitor has processed since Run started.
type Stats struct {
	Lines                int64
	Matches              int64
	Notifications        int64
	NotificationFailures int64
	ReadErrors           int64
	Rotations            int64
}

// Monitor tails the target and notifies once per matching line.
type Monitor struct {
	target   Target
	source   SignalSource
	matcher  match.Matcher
	notifier notify.Notifier
	logger   *zap.Logger

	state atomic.Int32
	stats struct {
		lines, matches, notifications, notificationFailures, readErrors, rotations atomic.Int64
	}

	// readWarn throttles repeated read failure warnings
	readWarn rate.Sometimes
}

// New creates a monitor for target.
func New(target Target, source SignalSource, matcher match.Matcher, notifier notify.Notifier, logger *zap.Logger) *Monitor {
	return &Monitor{
		target:   target,
		source:   source,
		matcher:  matcher,
		notifier: notifier,
		logger:   logger.With(zap.String("path", target.Path)),
		readWarn: rate.Sometimes{First: 1, Interval: 30 * time.Second},
	}
}

// State returns the current lifecycle state.
func (m *Monitor) State() State {
	return State(m.state.Load())
}

// Stats returns a snapshot of the processing counters.
func (m *Monitor) Stats() Stats {
	return Stats{
		Lines:                m.stats.lines.Load(),
		Matches:              m.stats.matches.Load(),
		Notifications:        m.stats.notifications.Load(),
		NotificationFailures: m.stats.notificationFailures.Load(),
		ReadErrors:           m.stats.readErrors.Load(),
		Rotations:            m.stats.rotations.Load(),
	}
}

func (m *Monitor) setState(s State) {
	m.state.Store(int32(s))
}

// Run tails the target until ctx is cancelled, which returns nil, or until a
// fatal error. Opening the log and change signal failures are fatal; read
// and notification failures are logged and the loop carries on.
func (m *Monitor) Run(ctx context.Context) error {
	m.setState(StateInitializing)
	defer m.setState(StateTerminated)

	reader, err := tail.Open(m.target.Path, m.logger)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpenLog, err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			m.logger.Warn("failed to close log file", zap.Error(err))
		}
	}()

	sourceCtx, cancelSource := context.WithCancel(ctx)
	defer cancelSource()

	signals, sourceErrs, err := m.source.Start(sourceCtx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSignalSource, err)
	}

	m.logger.Info("listening to events",
		zap.Int64("offset", reader.Cursor().Offset),
		zap.Duration("pollInterval", m.target.PollInterval),
	)

	for {
		m.setState(StateListening)

		select {
		case <-ctx.Done():
			m.logger.Info("context cancelled, shutting down")
			return nil

		case err, ok := <-sourceErrs:
			if !ok {
				sourceErrs = nil
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%w: %w", ErrSignalSource, err)

		case sig, ok := <-signals:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("%w: signal channel closed", ErrSignalSource)
			}
			m.logger.Debug("received change signal",
				zap.String("source", string(sig.Source)),
				zap.String("kind", sig.Kind),
			)

			m.setState(StateDraining)
			m.drain(ctx, reader)
		}
	}
}

// drain reads everything appended since the last call and dispatches a
// notification for each matching line.
func (m *Monitor) drain(ctx context.Context, reader *tail.Reader) {
	rotation, err := reader.Sync()
	if err != nil {
		m.readFailed("checking log file", err)
		return
	}
	if rotation != tail.RotationNone {
		m.stats.rotations.Add(1)
	}

	lines, err := reader.Drain()
	// Lines read before a failure are still valid and already consumed
	for _, line := range lines {
		m.handleLine(ctx, line)
	}
	m.stats.lines.Add(int64(len(lines)))

	if err != nil {
		m.readFailed("reading log file", err)
		return
	}

	m.logger.Debug("read lines",
		zap.Int("count", len(lines)),
		zap.Int64("offset", reader.Cursor().Offset),
	)
}

func (m *Monitor) handleLine(ctx context.Context, line tail.Line) {
	if diag := match.Diagnose(line); diag != "" {
		m.logger.Debug("line looks like a status change", zap.String("detail", diag), zap.Int64("offset", line.Offset))
	}

	if !m.matcher.Match(line) {
		return
	}
	m.stats.matches.Add(1)
	m.logger.Info("match found", zap.Int64("offset", line.Offset))

	if err := m.notifier.NotifyMatch(ctx); err != nil {
		m.stats.notificationFailures.Add(1)
		m.logger.Warn("failed to send notification", zap.Error(err))
		return
	}
	m.stats.notifications.Add(1)
}

func (m *Monitor) readFailed(what string, err error) {
	m.stats.readErrors.Add(1)
	m.readWarn.Do(func() {
		m.logger.Warn("log read failed, retrying on next change", zap.String("op", what), zap.Error(err))
	})
	m.logger.Debug("log read failed", zap.String("op", what), zap.Error(err))
}

package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrDispatch wraps every failure to deliver a notification.
var ErrDispatch = errors.New("notification dispatch failed")

// Notifier is the interface for sending match notifications.
type Notifier interface {
	NotifyMatch(ctx context.Context) error
}

// NoopNotifier is a no-op implementation for when notifications are disabled.
type NoopNotifier struct{}

// NotifyMatch is a no-op.
func (NoopNotifier) NotifyMatch(_ context.Context) error {
	return nil
}

// Multi dispatches to every transport, so one failing transport does not
// suppress the others.
type Multi []Notifier

// NotifyMatch sends through all transports and joins their errors.
func (m Multi) NotifyMatch(ctx context.Context) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyMatch(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New creates the appropriate notifier based on config.
func New(cfg Config, logger *zap.Logger) Notifier {
	var transports Multi

	if cfg.Desktop.Enabled {
		transports = append(transports, NewDesktop(cfg.Message(), cfg.Desktop.TimeoutMs, logger))
	}
	if cfg.Ntfy.Enabled {
		transports = append(transports, NewNtfyClient(cfg.Ntfy, cfg.Message(), logger))
	}

	switch len(transports) {
	case 0:
		logger.Warn("all notification transports disabled")
		return NoopNotifier{}
	case 1:
		return transports[0]
	default:
		return transports
	}
}

func dispatchError(transport string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDispatch, transport, err)
}

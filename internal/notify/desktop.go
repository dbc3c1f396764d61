package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsMethod = notificationsDest + ".Notify"
)

// busObject is the part of dbus.BusObject the desktop notifier uses.
type busObject interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Desktop shows a notification through the freedesktop notification service
// on the D-Bus session bus.
type Desktop struct {
	message   Message
	timeoutMs int32
	logger    *zap.Logger

	// connect opens the session bus on first use
	connect func() (busObject, error)
	mu      sync.Mutex
	obj     busObject
}

// NewDesktop creates a desktop notifier. The bus connection is opened lazily.
func NewDesktop(msg Message, timeoutMs int, logger *zap.Logger) *Desktop {
	return &Desktop{
		message:   msg,
		timeoutMs: int32(timeoutMs),
		logger:    logger,
		connect:   sessionNotifications,
	}
}

func sessionNotifications() (busObject, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	return conn.Object(notificationsDest, notificationsPath), nil
}

func (d *Desktop) object() (busObject, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.obj != nil {
		return d.obj, nil
	}
	obj, err := d.connect()
	if err != nil {
		return nil, err
	}
	d.obj = obj
	return obj, nil
}

// NotifyMatch shows the match notification.
func (d *Desktop) NotifyMatch(ctx context.Context) error {
	obj, err := d.object()
	if err != nil {
		return dispatchError("desktop", err)
	}

	call := obj.CallWithContext(ctx, notificationsMethod, 0,
		d.message.AppName,
		uint32(0), // replaces_id
		d.message.Icon,
		d.message.Summary,
		d.message.Body,
		[]string{},
		map[string]dbus.Variant{},
		d.timeoutMs,
	)

	var id uint32
	if err := call.Store(&id); err != nil {
		return dispatchError("desktop", err)
	}

	d.logger.Debug("notification sent", zap.Uint32("id", id), zap.String("transport", "desktop"))
	return nil
}

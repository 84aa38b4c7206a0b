//go:build linux

package notify

import (
	"fmt"
	"path/filepath"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest   = "org.freedesktop.Notifications"
	notifyPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	methodNotify = notifyDest + ".Notify"
	methodClose  = notifyDest + ".CloseNotification"
)

type dbusNotifier struct {
	app string
	obj dbus.BusObject
}

// New connects to the session bus. app is shown as the sending application.
func New(app string) (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return &dbusNotifier{app: app, obj: conn.Object(notifyDest, notifyPath)}, nil
}

func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	var id uint32
	err := n.obj.Call(methodNotify, 0,
		n.app,
		notif.Replaces,
		notif.Icon,
		notif.Summary,
		notif.Body,
		[]string{},
		hints(n.app, notif),
		expireTimeout(notif.Timeout),
	).Store(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (n *dbusNotifier) Close(id uint32) error {
	return n.obj.Call(methodClose, 0, id).Err
}

func hints(app string, n Notification) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(app),
		// Track changes are not worth keeping in the notification history
		"transient": dbus.MakeVariant(true),
	}
	if filepath.IsAbs(n.Icon) {
		h["image-path"] = dbus.MakeVariant("file://" + n.Icon)
	}
	return h
}

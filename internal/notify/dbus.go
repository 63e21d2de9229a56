//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	notifyDest   = "org.freedesktop.Notifications"
	notifyPath   = "/org/freedesktop/Notifications"
	notifyMethod = "org.freedesktop.Notifications.Notify"

	appName  = "Scrobbled"
	appIcon  = "emblem-music-symbolic"
	expireMs = int32(5000)
)

// dbusNotifier talks to the freedesktop notification daemon on the
// session bus. lastID makes every scrobble replace the previous
// bubble.
type dbusNotifier struct {
	obj    dbus.BusObject
	lastID uint32
}

// New connects to the session bus. When no bus is reachable (headless
// hosts, stripped-down sessions) it degrades to a silent notifier.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return stubNotifier{}, nil //nolint:nilerr // degrade silently without a session bus
	}
	return &dbusNotifier{obj: conn.Object(notifyDest, notifyPath)}, nil
}

func (n *dbusNotifier) Scrobbled(artist, title, speaker string) error {
	summary, body := scrobbleText(artist, title, speaker)
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(0)), // low
		"desktop-entry": dbus.MakeVariant("scrobbled"),
	}
	call := n.obj.Call(notifyMethod, 0,
		appName, n.lastID, appIcon, summary, body,
		[]string{}, hints, expireMs)
	if call.Err != nil {
		return call.Err
	}
	return call.Store(&n.lastID)
}

// stubNotifier covers sessions with no notification daemon.
type stubNotifier struct{}

func (stubNotifier) Scrobbled(_, _, _ string) error { return nil }

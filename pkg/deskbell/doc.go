// Package deskbell shows desktop notifications through whichever native
// mechanism the host exposes, behind one stable API.
//
// The host is probed once, at Init, walking a fixed precedence order:
// freedesktop D-Bus notifications, notify-send, osascript, then the tray
// icon overlay. Hosts with none of these are reported as unsupported and
// refused cleanly; nothing is emulated.
//
//	n := deskbell.New(deskbell.WithAppName("myapp"))
//	n.Init()
//	if !n.IsSupported() {
//		return
//	}
//	h := n.Create("Build finished", kit.Options{
//		Body:    "all tests green",
//		Timeout: 5 * time.Second,
//		OnClick: openLogs,
//	})
//	defer h.Close()
//
// Create sequences permission itself: when the host has not granted
// notification permission yet, the request is issued and the notification
// is displayed only after it resolves granted. The returned handle is
// valid either way and Close is always a safe no-op on a notification
// that never materialized.
package deskbell

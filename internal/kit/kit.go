package kit

import "time"

// Variant identifies one concrete native notification mechanism.
//
// The set is closed: adding a variant means adding a driver AND a table
// entry in internal/driver, in precedence order. Values are stable and
// may appear in logs and the event bus.
type Variant string

const (
	// VariantDBus is the org.freedesktop.Notifications session service.
	// The only variant with real notification objects and events.
	VariantDBus Variant = "dbus"

	// VariantNotifySend shells out to notify-send(1).
	VariantNotifySend Variant = "notify-send"

	// VariantOSAScript uses macOS `osascript -e 'display notification ...'`.
	VariantOSAScript Variant = "osascript"

	// VariantTray is the StatusNotifierItem icon-overlay surrogate.
	// There is a single overlay slot and no notification object behind it.
	VariantTray Variant = "tray"

	// VariantNone means no known capability was detected.
	VariantNone Variant = "none"
)

func (v Variant) String() string {
	if v == "" {
		return string(VariantNone)
	}
	return string(v)
}

// Icon references a notification icon, either as a single path/name or as
// sized refs. Drivers resolve the size they can actually show:
// dbus prefers Path32, tray prefers Path16, the exec drivers take Path.
type Icon struct {
	Path   string `json:"path,omitempty"`
	Path32 string `json:"path32,omitempty"`
	Path16 string `json:"path16,omitempty"`
}

// Large resolves the big-icon reference (32px preferred).
func (ic Icon) Large() string {
	if ic.Path32 != "" {
		return ic.Path32
	}
	return ic.Path
}

// Small resolves the small-icon reference (16px preferred).
func (ic Icon) Small() string {
	if ic.Path16 != "" {
		return ic.Path16
	}
	return ic.Path
}

// IsZero reports whether no icon reference is set at all.
func (ic Icon) IsZero() bool {
	return ic.Path == "" && ic.Path32 == "" && ic.Path16 == ""
}

// Options configures a single notification.
//
// Every field is optional; the zero value means "inert": no icon, no body,
// no grouping tag, no auto-close, no callbacks. Nil callbacks are never an
// error, they are simply not invoked.
type Options struct {
	Icon Icon
	Body string

	// Tag groups/replaces notifications. On the dbus variant a repeated tag
	// reuses the server-side id (replaces_id), so the popup is updated in
	// place instead of stacking.
	Tag string

	// Timeout auto-closes the notification this long after its show event.
	// Ignored on variants without events; zero disables auto-close.
	Timeout time.Duration

	OnShow  func()
	OnClick func()
	OnError func()
	OnClose func()
}

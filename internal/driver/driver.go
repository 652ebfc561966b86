package driver

import (
	"os"
	"os/exec"

	"github.com/godbus/dbus/v5"

	"deskbell/internal/kit"
)

// Native event names. Different variants use different names for the same
// semantic close action, which is why both "close" and "cancel" exist.
const (
	EventShow   = "show"
	EventClick  = "click"
	EventClose  = "close"
	EventCancel = "cancel"
	EventError  = "error"
)

// Native is the per-notification object behind a handle.
//
// Close must be safe to call when the variant has no close primitive and
// safe to call more than once. On reports whether the listener was actually
// registered; variants without events always return false.
type Native interface {
	Close() error
	On(event string, fn func()) bool
}

// Driver adapts one capability variant.
//
// Permission and RequestPermission never panic; signals the driver cannot
// read map to kit.PermissionDefault. Display assumes the caller already
// checked support and permission.
type Driver interface {
	Variant() kit.Variant
	Permission() kit.Permission

	// RequestPermission invokes the variant's permission-request mechanism
	// and calls done exactly once with the resulting state. Variants that
	// treat capability presence as consent call done synchronously.
	RequestPermission(done func(kit.Permission))

	Display(title string, o kit.Options) (Native, error)

	// SupportsEvents reports whether natives from this driver deliver
	// lifecycle events. Consulted once per notification by the binder.
	SupportsEvents() bool
}

// Env is the host surface drivers probe and operate through. Tests inject
// fakes; production code uses SystemEnv.
type Env struct {
	AppName string

	LookPath   func(file string) (string, error)
	Getenv     func(key string) string
	SessionBus func() (*dbus.Conn, error)
}

// SystemEnv returns the real host environment.
func SystemEnv(appName string) *Env {
	return &Env{
		AppName:    appName,
		LookPath:   exec.LookPath,
		Getenv:     os.Getenv,
		SessionBus: dbus.SessionBus,
	}
}

func (e *Env) lookPath(file string) (string, error) {
	if e.LookPath == nil {
		return "", exec.ErrNotFound
	}
	return e.LookPath(file)
}

func (e *Env) getenv(key string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(key)
}

// hasDisplay reports whether a graphical session is reachable at all.
// Shared by the exec-based variants.
func (e *Env) hasDisplay() bool {
	return e.getenv("DISPLAY") != "" || e.getenv("WAYLAND_DISPLAY") != ""
}

// noEvents is embedded by variants without native lifecycle events.
type noEvents struct{}

func (noEvents) SupportsEvents() bool { return false }

// inertNative is a Native with no close primitive and no events.
type inertNative struct{}

func (inertNative) Close() error           { return nil }
func (inertNative) On(string, func()) bool { return false }

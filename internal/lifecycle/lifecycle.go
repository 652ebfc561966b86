// Package lifecycle owns the caller-facing notification handle and the
// best-effort wiring of user callbacks and the auto-close timer onto a
// native notification.
package lifecycle

import (
	"sync"
	"time"

	"deskbell/internal/driver"
	"deskbell/internal/kit"
)

// Handle is the uniform per-notification value returned to callers. It
// owns exactly one native notification for its lifetime.
//
// A handle may exist before its native does: when display waits on an
// asynchronous permission grant, the caller already holds the handle and
// Attach links the native in later. Closing first wins; a handle closed
// before Attach never displays anything.
type Handle struct {
	mu     sync.Mutex
	native driver.Native
	timer  *time.Timer
	closed bool
}

// NewHandle returns an empty handle awaiting Attach.
func NewHandle() *Handle { return &Handle{} }

// ClosedHandle returns a handle that is already closed and inert. Used for
// the unsupported-environment path so callers always get a usable value.
func ClosedHandle() *Handle { return &Handle{closed: true} }

// Attach links the native notification. It reports false when the handle
// was closed in the meantime, in which case the caller should retract the
// native it just created.
func (h *Handle) Attach(n driver.Native) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.native = n
	h.mu.Unlock()
	return true
}

// Close retracts the notification. It is idempotent: the native close
// primitive runs at most once, the pending auto-close timer is cancelled,
// and closing a handle whose variant has no close primitive (or whose
// notification the host already dismissed) is a no-op.
func (h *Handle) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	n := h.native
	t := h.timer
	h.timer = nil
	h.mu.Unlock()

	if t != nil {
		t.Stop()
	}
	if n != nil {
		_ = n.Close() // best-effort; host-side dismissal already happened is fine
	}
}

// Closed reports whether Close has run (or the handle was born closed).
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// armTimer schedules an auto-close. A handle closed in between discards
// the timer immediately.
func (h *Handle) armTimer(d time.Duration) {
	t := time.AfterFunc(d, h.Close)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		t.Stop()
		return
	}
	h.timer = t
	h.mu.Unlock()
}

// Bind wires the optional callbacks and the auto-close timeout from o onto
// the native notification.
//
// Binding is best-effort by contract: when the active variant has no event
// support, every callback is simply never invoked and the timeout is
// silently ignored (no substitute timing mechanism). supportsEvents comes
// from the driver and is consulted exactly once here.
func Bind(h *Handle, n driver.Native, o kit.Options, supportsEvents bool) {
	if h == nil || n == nil || !supportsEvents {
		return
	}

	if o.Timeout > 0 {
		// One-shot: the timer starts counting at the show event, not at
		// bind time.
		var once sync.Once
		n.On(driver.EventShow, func() {
			once.Do(func() { h.armTimer(o.Timeout) })
		})
	}

	if o.OnShow != nil {
		n.On(driver.EventShow, o.OnShow)
	}
	if o.OnClick != nil {
		n.On(driver.EventClick, o.OnClick)
	}
	if o.OnError != nil {
		n.On(driver.EventError, o.OnError)
	}
	if o.OnClose != nil {
		// Variants disagree on the name of the semantic close event.
		n.On(driver.EventClose, o.OnClose)
		n.On(driver.EventCancel, o.OnClose)
	}
}

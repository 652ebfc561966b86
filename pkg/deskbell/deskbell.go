package deskbell

import (
	"sync"

	"deskbell/internal/driver"
	"deskbell/internal/eventbus"
	"deskbell/internal/kit"
	"deskbell/internal/lifecycle"
	"deskbell/pkg/logx"
)

// Re-exported so library users don't import internal packages.
type (
	Options    = kit.Options
	Icon       = kit.Icon
	Variant    = kit.Variant
	Permission = kit.Permission
	Handle     = lifecycle.Handle
)

const (
	PermissionGranted = kit.PermissionGranted
	PermissionDefault = kit.PermissionDefault
	PermissionDenied  = kit.PermissionDenied
)

// Notifier is the single entry point. Construct with New, call Init once
// (Create and the queries do it lazily), then use it from any goroutine.
type Notifier struct {
	log      logx.Logger
	bus      eventbus.Bus
	env      *driver.Env
	disabled []kit.Variant

	// probe result; fixed for the life of the process. A host that gains
	// a notification server later is not observed until restart.
	once sync.Once
	drv  driver.Driver
}

type Option func(*Notifier)

// WithAppName sets the name reported to host notification services.
func WithAppName(name string) Option {
	return func(n *Notifier) { n.env = driver.SystemEnv(name) }
}

// WithLogger sets the diagnostic sink. Default is a no-op logger.
func WithLogger(log logx.Logger) Option {
	return func(n *Notifier) { n.log = log }
}

// WithBus publishes lifecycle events onto bus.
func WithBus(bus eventbus.Bus) Option {
	return func(n *Notifier) { n.bus = bus }
}

// WithEnv overrides the probed host surface. Mostly for tests.
func WithEnv(env *driver.Env) Option {
	return func(n *Notifier) { n.env = env }
}

// WithDisabledVariants removes variants from the probe walk.
func WithDisabledVariants(vs []kit.Variant) Option {
	return func(n *Notifier) { n.disabled = vs }
}

// WithDriver pins the driver, skipping probing entirely. For tests and
// callers that already know their host.
func WithDriver(d driver.Driver) Option {
	return func(n *Notifier) {
		n.once.Do(func() {})
		n.drv = d
	}
}

func New(opts ...Option) *Notifier {
	n := &Notifier{
		log: logx.Nop(),
		bus: eventbus.New(),
		env: driver.SystemEnv("deskbell"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Init probes the host. Runs at most once; all other methods call it
// lazily, so explicit Init is only about controlling when the probe cost
// is paid.
func (n *Notifier) Init() {
	n.once.Do(func() {
		n.drv = driver.Probe(n.env, n.disabled)
		if n.drv == nil {
			n.log.Debug("no notification capability detected")
			return
		}
		n.log.Debug("notification capability detected",
			logx.String("variant", n.drv.Variant().String()))
	})
}

// IsSupported reports whether any known capability variant is present.
func (n *Notifier) IsSupported() bool {
	n.Init()
	return n.drv != nil
}

// Variant returns the active capability variant (VariantNone when
// unsupported).
func (n *Notifier) Variant() kit.Variant {
	n.Init()
	if n.drv == nil {
		return kit.VariantNone
	}
	return n.drv.Variant()
}

// Bus exposes the lifecycle event stream.
func (n *Notifier) Bus() eventbus.Bus { return n.bus }

// Permission returns the normalized permission state. ok is false when the
// host is unsupported, in which case no state exists to report.
func (n *Notifier) Permission() (kit.Permission, bool) {
	n.Init()
	if n.drv == nil {
		return "", false
	}
	return n.drv.Permission(), true
}

// RequestPermission triggers the active variant's permission request; done
// is invoked exactly once with the result. No-op on unsupported hosts
// (done is not called). A nil done is substituted with a no-op.
func (n *Notifier) RequestPermission(done func(kit.Permission)) {
	n.Init()
	if n.drv == nil {
		return
	}
	if done == nil {
		done = func(kit.Permission) {}
	}
	n.drv.RequestPermission(done)
}

// Create shows a notification, requesting permission first when needed.
//
// The handle is returned immediately in every case. When permission
// resolves asynchronously, the native notification attaches to the handle
// once display happens; a handle closed before that point suppresses the
// display. On unsupported hosts Create emits one diagnostic and returns an
// already-closed inert handle.
func (n *Notifier) Create(title string, o kit.Options) *lifecycle.Handle {
	n.Init()
	if n.drv == nil {
		n.log.Warn("notification dropped: no supported capability on this host",
			logx.String("title", title))
		return lifecycle.ClosedHandle()
	}

	h := lifecycle.NewHandle()
	if n.drv.Permission() == kit.PermissionGranted {
		n.display(h, title, o)
		return h
	}

	// Not granted yet: exactly one request, display in its continuation.
	n.drv.RequestPermission(func(state kit.Permission) {
		if state != kit.PermissionGranted {
			n.log.Debug("notification dropped: permission not granted",
				logx.String("state", state.String()), logx.String("title", title))
			return
		}
		n.display(h, title, o)
	})
	return h
}

func (n *Notifier) display(h *lifecycle.Handle, title string, o kit.Options) {
	variant := n.drv.Variant().String()

	nv, err := n.drv.Display(title, o)
	if err != nil {
		n.log.Warn("notification display failed",
			logx.String("variant", variant), logx.String("title", title), logx.Err(err))
		n.bus.Publish(eventbus.Event{
			Topic: eventbus.TopicFailed, Variant: variant, Title: title, Tag: o.Tag, Err: err.Error(),
		})
		if o.OnError != nil {
			o.OnError()
		}
		h.Close()
		return
	}

	if !h.Attach(nv) {
		// Closed while the permission request was in flight; retract.
		_ = nv.Close()
		return
	}

	lifecycle.Bind(h, nv, o, n.drv.SupportsEvents())

	// Bus observers ride the same native events as user callbacks.
	nv.On(driver.EventShow, func() {
		n.bus.Publish(eventbus.Event{Topic: eventbus.TopicShown, Variant: variant, Title: title, Tag: o.Tag})
	})
	nv.On(driver.EventClick, func() {
		n.bus.Publish(eventbus.Event{Topic: eventbus.TopicClicked, Variant: variant, Title: title, Tag: o.Tag})
	})
	nv.On(driver.EventClose, func() {
		n.bus.Publish(eventbus.Event{Topic: eventbus.TopicClosed, Variant: variant, Title: title, Tag: o.Tag})
	})

	n.bus.Publish(eventbus.Event{Topic: eventbus.TopicCreated, Variant: variant, Title: title, Tag: o.Tag})
	n.log.Debug("notification created",
		logx.String("variant", variant), logx.String("title", title), logx.String("tag", o.Tag))
}

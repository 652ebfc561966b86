package driver

import (
	"sync"

	"github.com/godbus/dbus/v5"

	"deskbell/internal/kit"
)

const (
	dbusNotifyDest  = "org.freedesktop.Notifications"
	dbusNotifyPath  = "/org/freedesktop/Notifications"
	dbusNotifyIface = "org.freedesktop.Notifications"
)

// dbusDriver talks to the freedesktop notification server. It is the only
// variant with real notification objects: the server allocates a uint32 id
// per popup and reports clicks and closes back as signals.
type dbusDriver struct {
	env  *Env
	conn *dbus.Conn
	obj  dbus.BusObject

	sigOnce sync.Once

	mu      sync.Mutex
	byTag   map[string]uint32      // tag -> last server id (replaces_id)
	natives map[uint32]*dbusNative // live notifications by server id
}

func probeDBus(env *Env) Driver {
	if env.SessionBus == nil {
		return nil
	}
	conn, err := env.SessionBus()
	if err != nil || conn == nil {
		return nil
	}
	if !nameHasOwner(conn, dbusNotifyDest) {
		return nil
	}
	return &dbusDriver{
		env:     env,
		conn:    conn,
		obj:     conn.Object(dbusNotifyDest, dbusNotifyPath),
		byTag:   map[string]uint32{},
		natives: map[uint32]*dbusNative{},
	}
}

func nameHasOwner(conn *dbus.Conn, name string) bool {
	var owned bool
	err := conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, name).Store(&owned)
	return err == nil && owned
}

func (d *dbusDriver) Variant() kit.Variant { return kit.VariantDBus }

func (d *dbusDriver) SupportsEvents() bool { return true }

// Permission reads the server's state as a direct property: reachable and
// not inhibited means granted, an active do-not-disturb inhibition means
// denied, and an unreachable server (it was there at probe time) means we
// can no longer tell, so default.
func (d *dbusDriver) Permission() kit.Permission {
	if !nameHasOwner(d.conn, dbusNotifyDest) {
		return kit.PermissionDefault
	}
	// Inhibited is exposed by KDE and recent GNOME servers. Servers without
	// it simply fail the property read, which is not a denial.
	v, err := d.obj.GetProperty(dbusNotifyIface + ".Inhibited")
	if err == nil {
		if inhibited, ok := v.Value().(bool); ok && inhibited {
			return kit.PermissionDenied
		}
	}
	return kit.PermissionGranted
}

// RequestPermission resolves asynchronously: when the current state is
// indeterminate, a capabilities round-trip decides whether the server is
// actually willing to talk to us.
func (d *dbusDriver) RequestPermission(done func(kit.Permission)) {
	go func() {
		state := d.Permission()
		if state == kit.PermissionDefault {
			var caps []string
			if err := d.obj.Call(dbusNotifyIface+".GetCapabilities", 0).Store(&caps); err == nil {
				state = kit.PermissionGranted
			}
		}
		done(state)
	}()
}

func (d *dbusDriver) Display(title string, o kit.Options) (Native, error) {
	d.sigOnce.Do(d.startSignalLoop)

	hints := map[string]dbus.Variant{}
	if d.env.AppName != "" {
		hints["desktop-entry"] = dbus.MakeVariant(d.env.AppName)
	}

	d.mu.Lock()
	replaces := d.byTag[o.Tag] // zero when untagged or first use of the tag
	d.mu.Unlock()

	// Notify(app_name, replaces_id, app_icon, summary, body, actions,
	// hints, expire_timeout) -> id. Expiry is left to the server default;
	// auto-close is the lifecycle binder's job, not the server's.
	var id uint32
	call := d.obj.Call(dbusNotifyIface+".Notify", 0,
		d.env.AppName, replaces, o.Icon.Large(), title, o.Body,
		[]string{"default", "Open"}, hints, int32(-1))
	if call.Err != nil {
		return nil, call.Err
	}
	if err := call.Store(&id); err != nil {
		return nil, err
	}

	n := &dbusNative{drv: d, id: id, shown: true, listeners: map[string][]func(){}}

	d.mu.Lock()
	if o.Tag != "" {
		d.byTag[o.Tag] = id
	}
	if replaces != 0 {
		// The replaced popup is gone; its native stays valid but inert.
		delete(d.natives, replaces)
	}
	d.natives[id] = n
	d.mu.Unlock()

	return n, nil
}

func (d *dbusDriver) startSignalLoop() {
	if err := d.conn.AddMatchSignal(
		dbus.WithMatchObjectPath(dbusNotifyPath),
		dbus.WithMatchInterface(dbusNotifyIface),
	); err != nil {
		return
	}
	ch := make(chan *dbus.Signal, 16)
	d.conn.Signal(ch)
	go func() {
		for sig := range ch {
			switch sig.Name {
			case dbusNotifyIface + ".NotificationClosed":
				if len(sig.Body) >= 1 {
					if id, ok := sig.Body[0].(uint32); ok {
						d.dispatch(id, EventClose, true)
					}
				}
			case dbusNotifyIface + ".ActionInvoked":
				if len(sig.Body) >= 1 {
					if id, ok := sig.Body[0].(uint32); ok {
						d.dispatch(id, EventClick, false)
					}
				}
			}
		}
	}()
}

// dispatch fires the listeners registered for one event on one live
// notification. Terminal events drop the native from the routing table so
// a close never fires twice.
func (d *dbusDriver) dispatch(id uint32, event string, terminal bool) {
	d.mu.Lock()
	n := d.natives[id]
	if terminal {
		delete(d.natives, id)
	}
	d.mu.Unlock()
	if n != nil {
		n.fire(event)
	}
}

func (d *dbusDriver) closeNotification(id uint32) error {
	call := d.obj.Call(dbusNotifyIface+".CloseNotification", 0, id)
	return call.Err
}

// dbusNative is one live (or dismissed) server-side notification.
type dbusNative struct {
	drv *dbusDriver
	id  uint32

	mu        sync.Mutex
	shown     bool
	closed    bool
	listeners map[string][]func()
}

// On registers a listener. The show moment has necessarily already passed
// once Display returned, so show listeners run immediately.
func (n *dbusNative) On(event string, fn func()) bool {
	if fn == nil {
		return false
	}
	if event == EventShow {
		n.mu.Lock()
		shown := n.shown
		n.mu.Unlock()
		if shown {
			fn()
			return true
		}
	}
	n.mu.Lock()
	n.listeners[event] = append(n.listeners[event], fn)
	n.mu.Unlock()
	return true
}

func (n *dbusNative) fire(event string) {
	n.mu.Lock()
	fns := append([]func(){}, n.listeners[event]...)
	n.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Close asks the server to retract the popup. The matching
// NotificationClosed signal (reason 3) is what fires close listeners; a
// notification the user already dismissed makes this a best-effort no-op.
func (n *dbusNative) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	n.mu.Unlock()
	return n.drv.closeNotification(n.id)
}

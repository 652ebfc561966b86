package driver

import (
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"

	"deskbell/internal/kit"
)

const (
	trayWatcherDest  = "org.kde.StatusNotifierWatcher"
	trayWatcherPath  = "/StatusNotifierWatcher"
	trayWatcherIface = "org.kde.StatusNotifierWatcher"

	trayItemPath  = "/StatusNotifierItem"
	trayItemIface = "org.kde.StatusNotifierItem"
)

// trayDriver is the icon-overlay surrogate: a StatusNotifierItem whose
// small icon and title stand in for a popup on hosts where only a tray is
// available. There is exactly one overlay slot; showing a new notification
// clears the previous one first. No notification object exists behind it,
// so natives are inert placeholders.
type trayDriver struct {
	noEvents
	env  *Env
	conn *dbus.Conn

	mu         sync.Mutex
	props      *prop.Properties
	registered bool
}

func probeTray(env *Env) Driver {
	if env.SessionBus == nil {
		return nil
	}
	conn, err := env.SessionBus()
	if err != nil || conn == nil {
		return nil
	}
	if !nameHasOwner(conn, trayWatcherDest) {
		return nil
	}
	return &trayDriver{env: env, conn: conn}
}

func (d *trayDriver) Variant() kit.Variant { return kit.VariantTray }

// Permission is binary on this variant: a watcher we can register with
// means granted, anything else means default. The tray has no way to say
// "the user refused".
func (d *trayDriver) Permission() kit.Permission {
	return kit.PermissionFromPresence(nameHasOwner(d.conn, trayWatcherDest))
}

func (d *trayDriver) RequestPermission(done func(kit.Permission)) {
	done(d.Permission())
}

func (d *trayDriver) Display(title string, o kit.Options) (Native, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Clear-before-set: the slot is shared, never stack two overlays.
	d.clearLocked()

	if err := d.exportLocked(); err != nil {
		return nil, err
	}
	d.props.SetMust(trayItemIface, "IconName", o.Icon.Small())
	d.props.SetMust(trayItemIface, "Title", title)
	d.props.SetMust(trayItemIface, "Status", "Active")

	if !d.registered {
		call := d.conn.Object(trayWatcherDest, trayWatcherPath).Call(
			trayWatcherIface+".RegisterStatusNotifierItem", 0, d.conn.Names()[0])
		if call.Err != nil {
			return nil, call.Err
		}
		d.registered = true
	}
	return &trayNative{drv: d}, nil
}

// exportLocked exports the item properties once. Callers hold d.mu.
func (d *trayDriver) exportLocked() error {
	if d.props != nil {
		return nil
	}
	props, err := prop.Export(d.conn, trayItemPath, map[string]map[string]*prop.Prop{
		trayItemIface: {
			"Category": {Value: "ApplicationStatus", Emit: prop.EmitTrue},
			"Id":       {Value: d.env.AppName, Emit: prop.EmitTrue},
			"Title":    {Value: "", Emit: prop.EmitTrue},
			"Status":   {Value: "Passive", Emit: prop.EmitTrue},
			"IconName": {Value: "", Emit: prop.EmitTrue},
		},
	})
	if err != nil {
		return err
	}
	d.props = props
	return nil
}

func (d *trayDriver) clearLocked() {
	if d.props == nil {
		return
	}
	d.props.SetMust(trayItemIface, "Status", "Passive")
	d.props.SetMust(trayItemIface, "Title", "")
	d.props.SetMust(trayItemIface, "IconName", "")
}

func (d *trayDriver) clear() {
	d.mu.Lock()
	d.clearLocked()
	d.mu.Unlock()
}

// trayNative has no object to close; Close clears the shared overlay slot.
// Closing after a later notification replaced the slot is indistinguishable
// from a normal clear and stays harmless.
type trayNative struct {
	drv  *trayDriver
	once sync.Once
}

func (n *trayNative) Close() error {
	n.once.Do(n.drv.clear)
	return nil
}

func (n *trayNative) On(string, func()) bool { return false }

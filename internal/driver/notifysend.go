package driver

import (
	"os/exec"

	"deskbell/internal/kit"
)

// notifySendDriver shells out to notify-send(1). It predates the richer
// session-bus path here and keeps the old tool's shape: positional
// construction (icon, title, body) and an explicit run step. No events, no
// close primitive.
type notifySendDriver struct {
	noEvents
	env  *Env
	path string
}

func probeNotifySend(env *Env) Driver {
	path, err := env.lookPath("notify-send")
	if err != nil || path == "" {
		return nil
	}
	return &notifySendDriver{env: env, path: path}
}

func (d *notifySendDriver) Variant() kit.Variant { return kit.VariantNotifySend }

// Permission runs the variant's checker and maps its index through the
// fixed granted/default/denied ordering.
func (d *notifySendDriver) Permission() kit.Permission {
	return kit.PermissionFromIndex(d.checkPermission())
}

// checkPermission: 0 = a display is reachable, 1 = tool present but no
// graphical session yet, 2 = the tool itself is broken.
func (d *notifySendDriver) checkPermission() int {
	if _, err := d.env.lookPath("notify-send"); err != nil {
		return 2
	}
	if !d.env.hasDisplay() {
		return 1
	}
	return 0
}

// RequestPermission re-runs the checker asynchronously; there is no host
// prompt to wait for, but callers still get the callback-style completion
// the richer variants have.
func (d *notifySendDriver) RequestPermission(done func(kit.Permission)) {
	go func() {
		done(d.Permission())
	}()
}

func (d *notifySendDriver) Display(title string, o kit.Options) (Native, error) {
	cmd := exec.Command(d.path, notifySendArgs(title, o)...)
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return inertNative{}, nil
}

// notifySendArgs builds the positional argv: icon first (as a flag, the
// CLI's closest equivalent), then title, then body. "--" guards titles
// that start with a dash.
func notifySendArgs(title string, o kit.Options) []string {
	args := make([]string, 0, 5)
	if icon := o.Icon.Large(); icon != "" {
		args = append(args, "--icon="+icon)
	}
	args = append(args, "--", title)
	if o.Body != "" {
		args = append(args, o.Body)
	}
	return args
}

package driver

import (
	"fmt"
	"os/exec"

	"deskbell/internal/kit"
)

// osaScriptDriver drives the macOS notification center through osascript.
// Positional construction (title, body, icon) with an explicit run step;
// Notification Center keeps the object, so there are no events and no
// close primitive on our side.
type osaScriptDriver struct {
	noEvents
	env  *Env
	path string
}

func probeOSAScript(env *Env) Driver {
	path, err := env.lookPath("osascript")
	if err != nil || path == "" {
		return nil
	}
	return &osaScriptDriver{env: env, path: path}
}

func (d *osaScriptDriver) Variant() kit.Variant { return kit.VariantOSAScript }

// Permission: having osascript at all means the host will show the
// notification (macOS gates per-app consent itself on first delivery), so
// presence is interpreted as granted.
func (d *osaScriptDriver) Permission() kit.Permission {
	_, err := d.env.lookPath("osascript")
	return kit.PermissionFromPresence(err == nil)
}

// RequestPermission completes immediately: there is no separate request
// gate on this variant.
func (d *osaScriptDriver) RequestPermission(done func(kit.Permission)) {
	done(d.Permission())
}

func (d *osaScriptDriver) Display(title string, o kit.Options) (Native, error) {
	cmd := exec.Command(d.path, "-e", osaScript(title, o))
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return inertNative{}, nil
}

// osaScript renders the AppleScript source. %q quoting keeps embedded
// quotes and control characters out of script syntax. display notification
// cannot show a custom image, so the icon reference is dropped here.
func osaScript(title string, o kit.Options) string {
	return fmt.Sprintf("display notification %q with title %q", o.Body, title)
}

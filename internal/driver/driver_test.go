package driver

import (
	"os/exec"
	"reflect"
	"testing"

	"github.com/godbus/dbus/v5"

	"deskbell/internal/kit"
)

// fakeEnv builds an Env where only the named binaries exist and only the
// given environment variables are set. SessionBus fails unless overridden.
func fakeEnv(binaries map[string]string, envVars map[string]string) *Env {
	return &Env{
		AppName: "test",
		LookPath: func(file string) (string, error) {
			if p, ok := binaries[file]; ok {
				return p, nil
			}
			return "", exec.ErrNotFound
		},
		Getenv: func(key string) string {
			return envVars[key]
		},
		SessionBus: func() (*dbus.Conn, error) {
			return nil, exec.ErrNotFound
		},
	}
}

func TestProbeNilEnv(t *testing.T) {
	t.Parallel()
	if drv := Probe(nil, nil); drv != nil {
		t.Fatalf("Probe(nil) = %v, want nil", drv)
	}
}

func TestProbeBareHost(t *testing.T) {
	t.Parallel()
	env := fakeEnv(nil, nil)
	if drv := Probe(env, nil); drv != nil {
		t.Fatalf("Probe on bare host = %v, want nil", drv)
	}
}

func TestProbePrecedence(t *testing.T) {
	t.Parallel()
	// Both exec tools present; notify-send outranks osascript.
	env := fakeEnv(map[string]string{
		"notify-send": "/usr/bin/notify-send",
		"osascript":   "/usr/bin/osascript",
	}, nil)

	drv := Probe(env, nil)
	if drv == nil {
		t.Fatal("Probe = nil, want notify-send driver")
	}
	if got := drv.Variant(); got != kit.VariantNotifySend {
		t.Fatalf("Variant = %s, want %s", got, kit.VariantNotifySend)
	}
}

func TestProbeDisabledSkips(t *testing.T) {
	t.Parallel()
	env := fakeEnv(map[string]string{
		"notify-send": "/usr/bin/notify-send",
		"osascript":   "/usr/bin/osascript",
	}, nil)

	drv := Probe(env, []kit.Variant{kit.VariantNotifySend})
	if drv == nil {
		t.Fatal("Probe = nil, want osascript driver")
	}
	if got := drv.Variant(); got != kit.VariantOSAScript {
		t.Fatalf("Variant = %s, want %s", got, kit.VariantOSAScript)
	}
}

func TestProbeSurvivesPanickingProbe(t *testing.T) {
	t.Parallel()
	env := fakeEnv(map[string]string{
		"osascript": "/usr/bin/osascript",
	}, nil)
	env.SessionBus = func() (*dbus.Conn, error) {
		panic("broken bus socket")
	}

	drv := Probe(env, nil)
	if drv == nil {
		t.Fatal("Probe = nil, want fallthrough past the panicking variant")
	}
	if got := drv.Variant(); got != kit.VariantOSAScript {
		t.Fatalf("Variant = %s, want %s", got, kit.VariantOSAScript)
	}
}

func TestVariantsOrder(t *testing.T) {
	t.Parallel()
	want := []kit.Variant{
		kit.VariantDBus, kit.VariantNotifySend, kit.VariantOSAScript, kit.VariantTray,
	}
	if got := Variants(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Variants() = %v, want %v", got, want)
	}
}

func TestNotifySendPermissionMapping(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		binaries map[string]string
		envVars  map[string]string
		want     kit.Permission
	}{
		{
			name: "display reachable",
			binaries: map[string]string{
				"notify-send": "/usr/bin/notify-send",
			},
			envVars: map[string]string{"DISPLAY": ":0"},
			want:    kit.PermissionGranted,
		},
		{
			name: "wayland counts as a display",
			binaries: map[string]string{
				"notify-send": "/usr/bin/notify-send",
			},
			envVars: map[string]string{"WAYLAND_DISPLAY": "wayland-0"},
			want:    kit.PermissionGranted,
		},
		{
			name: "tool present, headless",
			binaries: map[string]string{
				"notify-send": "/usr/bin/notify-send",
			},
			want: kit.PermissionDefault,
		},
		{
			name: "tool gone after probe",
			want: kit.PermissionDenied,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := &notifySendDriver{env: fakeEnv(tt.binaries, tt.envVars), path: "/usr/bin/notify-send"}
			if got := d.Permission(); got != tt.want {
				t.Fatalf("Permission = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNotifySendRequestPermissionCallsDoneOnce(t *testing.T) {
	t.Parallel()
	env := fakeEnv(map[string]string{"notify-send": "/usr/bin/notify-send"},
		map[string]string{"DISPLAY": ":0"})
	d := &notifySendDriver{env: env, path: "/usr/bin/notify-send"}

	ch := make(chan kit.Permission, 2)
	d.RequestPermission(func(state kit.Permission) { ch <- state })

	if got := <-ch; got != kit.PermissionGranted {
		t.Fatalf("done called with %s, want %s", got, kit.PermissionGranted)
	}
	select {
	case extra := <-ch:
		t.Fatalf("done called again with %s", extra)
	default:
	}
}

func TestNotifySendArgs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		title string
		o     kit.Options
		want  []string
	}{
		{
			name:  "title only",
			title: "hello",
			want:  []string{"--", "hello"},
		},
		{
			name:  "title and body",
			title: "hello",
			o:     kit.Options{Body: "world"},
			want:  []string{"--", "hello", "world"},
		},
		{
			name:  "icon prefers the 32px ref",
			title: "hi",
			o:     kit.Options{Icon: kit.Icon{Path: "/i.png", Path32: "/i32.png", Path16: "/i16.png"}},
			want:  []string{"--icon=/i32.png", "--", "hi"},
		},
		{
			name:  "icon falls back to the unsized path",
			title: "hi",
			o:     kit.Options{Icon: kit.Icon{Path: "/i.png", Path16: "/i16.png"}},
			want:  []string{"--icon=/i.png", "--", "hi"},
		},
		{
			name:  "dash title cannot become a flag",
			title: "--version",
			want:  []string{"--", "--version"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := notifySendArgs(tt.title, tt.o); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("notifySendArgs = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOSAScriptSource(t *testing.T) {
	t.Parallel()
	got := osaScript("Build done", kit.Options{Body: `all "green"`})
	want := `display notification "all \"green\"" with title "Build done"`
	if got != want {
		t.Fatalf("osaScript = %s, want %s", got, want)
	}
}

func TestOSAScriptRequestPermissionSynchronous(t *testing.T) {
	t.Parallel()
	d := &osaScriptDriver{env: fakeEnv(map[string]string{"osascript": "/usr/bin/osascript"}, nil)}

	called := false
	d.RequestPermission(func(state kit.Permission) {
		called = true
		if state != kit.PermissionGranted {
			t.Fatalf("done called with %s, want %s", state, kit.PermissionGranted)
		}
	})
	if !called {
		t.Fatal("done not called synchronously")
	}
}

func TestInertNative(t *testing.T) {
	t.Parallel()
	var n Native = inertNative{}
	if err := n.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if n.On(EventShow, func() {}) {
		t.Fatal("On = true on an inert native")
	}
}

package deskbell

import (
	"testing"

	"deskbell/internal/kit"
)

// Not parallel: exercises the package-level instance.
func TestPackageLevelAPI(t *testing.T) {
	drv := &fakeDriver{
		permission:     kit.PermissionGranted,
		grantOnRequest: kit.PermissionGranted,
		events:         true,
	}
	n := Init(WithDriver(drv))
	if Default() != n {
		t.Fatal("Default did not return the Init result")
	}

	if !IsSupported() {
		t.Fatal("IsSupported = false with a pinned driver")
	}

	h := Create("hello", Options{})
	defer h.Close()
	if got := drv.displayCount(); got != 1 {
		t.Fatalf("Display called %d times, want 1", got)
	}

	got := make(chan Permission, 1)
	RequestPermission(func(state Permission) { got <- state })
	if state := <-got; state != PermissionGranted {
		t.Fatalf("state = %s, want granted", state)
	}
}

func TestDefaultLazilyConstructs(t *testing.T) {
	defMu.Lock()
	def = nil
	defMu.Unlock()

	if Default() == nil {
		t.Fatal("Default returned nil")
	}
}

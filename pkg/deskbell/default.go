package deskbell

import "sync"

// Package-level notifier for callers that don't want to thread a *Notifier
// around. Init replaces it; everything else reaches it through Default.
var (
	defMu sync.Mutex
	def   *Notifier
)

// Init builds the package-level notifier from opts and probes the host
// immediately. It returns the notifier so callers can keep a reference.
func Init(opts ...Option) *Notifier {
	n := New(opts...)
	n.Init()
	defMu.Lock()
	def = n
	defMu.Unlock()
	return n
}

// Default returns the package-level notifier, creating an option-less one
// on first use.
func Default() *Notifier {
	defMu.Lock()
	defer defMu.Unlock()
	if def == nil {
		def = New()
	}
	return def
}

// IsSupported reports support on the package-level notifier.
func IsSupported() bool { return Default().IsSupported() }

// RequestPermission requests permission on the package-level notifier.
func RequestPermission(done func(Permission)) { Default().RequestPermission(done) }

// Create shows a notification through the package-level notifier.
func Create(title string, o Options) *Handle { return Default().Create(title, o) }

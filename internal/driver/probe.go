package driver

import (
	"deskbell/internal/kit"
)

// descriptor pairs a variant with its detection probe. probe returns a
// ready Driver, or nil when the mechanism is absent. probe may panic on
// hostile hosts (guarded properties, broken bus sockets); Probe treats
// that the same as "absent".
type descriptor struct {
	variant kit.Variant
	probe   func(env *Env) Driver
}

// table is the single source of truth for variant precedence. First match
// wins, everywhere: support detection, permission, display, and close all
// dispatch through the driver this order selects.
var table = []descriptor{
	{kit.VariantDBus, probeDBus},
	{kit.VariantNotifySend, probeNotifySend},
	{kit.VariantOSAScript, probeOSAScript},
	{kit.VariantTray, probeTray},
}

// Probe walks the variant table and returns the first available driver, or
// nil when the host exposes no known notification capability. Disabled
// lists variants to skip (config-driven).
func Probe(env *Env, disabled []kit.Variant) Driver {
	if env == nil {
		return nil
	}
	for _, d := range table {
		if variantDisabled(d.variant, disabled) {
			continue
		}
		if drv := tryProbe(d, env); drv != nil {
			return drv
		}
	}
	return nil
}

// Variants returns the precedence-ordered variant list. Exposed for
// status reporting; mutating the result does not affect probing.
func Variants() []kit.Variant {
	out := make([]kit.Variant, 0, len(table))
	for _, d := range table {
		out = append(out, d.variant)
	}
	return out
}

func tryProbe(d descriptor, env *Env) (drv Driver) {
	// A probe that blows up means the capability is unusable, not that the
	// whole process should die.
	defer func() {
		if recover() != nil {
			drv = nil
		}
	}()
	return d.probe(env)
}

func variantDisabled(v kit.Variant, disabled []kit.Variant) bool {
	for _, d := range disabled {
		if d == v {
			return true
		}
	}
	return false
}

// Package driver detects and adapts the host's native notification
// mechanisms.
//
// Each known mechanism (variant) is described by one table entry pairing a
// detection probe with that variant's permission, display, and close
// strategies. The table order is the precedence order; Probe walks it once
// and the winning Driver is what every later call dispatches through, so
// "is anything supported" and "which variant is active" can never disagree.
//
// Probing is defensive: a panicking or failing probe folds into "this
// variant is not present" and the walk continues. A host where every probe
// fails yields no driver, which callers surface as an unsupported
// environment rather than an error.
package driver

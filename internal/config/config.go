// Package config loads and watches the deskbell configuration file.
//
// Files may be YAML or JSON; YAML is coerced to JSON so both formats go
// through the same strict decoder (unknown fields rejected). All durations
// are Go duration strings (e.g. "500ms", "10s", "1m").
package config

import (
	"fmt"
	"time"

	"deskbell/internal/kit"
)

type Config struct {
	App      AppConfig      `json:"app,omitempty"`
	Icon     IconConfig     `json:"icon,omitempty"`
	Defaults DefaultsConfig `json:"defaults,omitempty"`
	Drivers  DriversConfig  `json:"drivers,omitempty"`
	Logging  LoggingConfig  `json:"logging,omitempty"`
	Dispatch DispatchConfig `json:"dispatch,omitempty"`
}

// AppConfig identifies this process to the host notification services.
type AppConfig struct {
	// Name is used as the notification app name and the desktop-entry hint.
	Name string `json:"name,omitempty"`
}

// IconConfig is the default icon applied when a send has none. Path32 and
// Path16 are the sized refs (large popups vs. the tray overlay); Path is
// the unsized fallback.
type IconConfig struct {
	Path   string `json:"path,omitempty"`
	Path32 string `json:"path32,omitempty"`
	Path16 string `json:"path16,omitempty"`
}

type DefaultsConfig struct {
	// Timeout auto-closes notifications this long after they are shown.
	// Empty or "0s" disables auto-close. Only honored on variants with
	// native show events.
	Timeout string `json:"timeout,omitempty"`
}

// DriversConfig tunes capability detection. Disabling a variant removes it
// from the probe walk; it cannot reorder precedence.
type DriversConfig struct {
	Disable []string `json:"disable,omitempty"`
}

type LoggingConfig struct {
	Level   string           `json:"level,omitempty"`
	Console *bool            `json:"console,omitempty"`
	File    LogFileConfig    `json:"file,omitempty"`
	Journal LogJournalConfig `json:"journal,omitempty"`
}

type LogFileConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

type LogJournalConfig struct {
	Enabled  bool   `json:"enabled,omitempty"`
	MinLevel string `json:"min_level,omitempty"`
}

// DispatchConfig controls the async batch pipeline (queue + workers + rate
// limit + dedup).
type DispatchConfig struct {
	Workers         int    `json:"workers,omitempty"`
	QueueSize       int    `json:"queue_size,omitempty"`
	RatePerSec      int    `json:"rate_per_sec,omitempty"`
	DedupWindow     string `json:"dedup_window,omitempty"`
	DedupMaxEntries int    `json:"dedup_max_entries,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		App: AppConfig{Name: "deskbell"},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ConsoleEnabled defaults to true: a CLI that logs nowhere is useless.
func (l LoggingConfig) ConsoleEnabled() bool {
	return l.Console == nil || *l.Console
}

// DefaultTimeout parses Defaults.Timeout; invalid values were already
// rejected by Validate.
func (c *Config) DefaultTimeout() time.Duration {
	d, _ := ParseDurationField("defaults.timeout", c.Defaults.Timeout)
	return d
}

// DefaultIcon converts the icon section into the kit value.
func (c *Config) DefaultIcon() kit.Icon {
	return kit.Icon{Path: c.Icon.Path, Path32: c.Icon.Path32, Path16: c.Icon.Path16}
}

// DisabledVariants maps the drivers.disable list onto variant values.
// Unknown names are a config error, not a silent skip.
func (c *Config) DisabledVariants() ([]kit.Variant, error) {
	known := map[string]kit.Variant{
		string(kit.VariantDBus):       kit.VariantDBus,
		string(kit.VariantNotifySend): kit.VariantNotifySend,
		string(kit.VariantOSAScript):  kit.VariantOSAScript,
		string(kit.VariantTray):       kit.VariantTray,
	}
	out := make([]kit.Variant, 0, len(c.Drivers.Disable))
	for _, name := range c.Drivers.Disable {
		v, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("drivers.disable: unknown variant %q", name)
		}
		out = append(out, v)
	}
	return out, nil
}

// Validate rejects configurations the runtime could not honor.
func (c *Config) Validate() error {
	if _, err := ParseDurationField("defaults.timeout", c.Defaults.Timeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("dispatch.dedup_window", c.Dispatch.DedupWindow); err != nil {
		return err
	}
	if _, err := c.DisabledVariants(); err != nil {
		return err
	}
	if c.Dispatch.Workers < 0 {
		return fmt.Errorf("dispatch.workers: must be >= 0")
	}
	if c.Dispatch.QueueSize < 0 {
		return fmt.Errorf("dispatch.queue_size: must be >= 0")
	}
	return nil
}

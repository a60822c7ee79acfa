package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/bitdogg/EOC-NetProfiler/internal/timefilter"
)

// Output formats accepted by report commands.
var Formats = []string{"table", "csv", "json"}

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "default-device").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a validated value to the given Config (in memory only;
	// the caller is responsible for calling Save).
	Set func(cfg *Config, value string)

	// Validate rejects values Set must never see. Nil accepts anything.
	Validate func(cfg *Config, value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "default-device",
		Description: "NetProfiler device used when --device is not specified",
		Get:         func(cfg *Config) string { return cfg.DefaultDevice },
		Set:         func(cfg *Config, v string) { cfg.DefaultDevice = strings.ToLower(v) },
		Validate: func(cfg *Config, v string) error {
			_, err := cfg.Lookup(v)
			return err
		},
	},
	{
		Name:        "default-timefilter",
		Description: "Time window used when --timefilter is not specified (e.g. \"last 1 hour\")",
		Get:         func(cfg *Config) string { return cfg.DefaultTimeFilter },
		Set:         func(cfg *Config, v string) { cfg.DefaultTimeFilter = v },
		Validate: func(_ *Config, v string) error {
			_, err := timefilter.Parse(v, time.Now())
			return err
		},
	},
	{
		Name:        "default-format",
		Description: "Report output format: table, csv or json",
		Get:         func(cfg *Config) string { return cfg.DefaultFormat },
		Set:         func(cfg *Config, v string) { cfg.DefaultFormat = strings.ToLower(v) },
		Validate: func(_ *Config, v string) error {
			return ValidateFormat(v)
		},
	},
}

// ValidateFormat checks an output format name.
func ValidateFormat(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, f := range Formats {
		if f == v {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (valid: %s)", v, strings.Join(Formats, ", "))
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		maxLen = max(maxLen, len(k.Name))
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}

// Package config handles persistent user configuration for nprof.
//
// Configuration is stored as JSON at ~/.config/nprof/config.json (or the
// platform-equivalent path returned by os.UserConfigDir). It holds the
// configured NetProfiler devices and a few defaults; passwords live in the
// OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/util"
)

const (
	appDir   = "nprof"
	fileName = "config.json"

	// EnvDefaultDevice overrides DefaultDevice when set.
	EnvDefaultDevice = "NPROF_DEVICE"
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds user preferences that persist across invocations.
type Config struct {
	DefaultDevice     string `json:"default_device,omitempty"`
	DefaultTimeFilter string `json:"default_timefilter,omitempty"`
	DefaultFormat     string `json:"default_format,omitempty"`

	// Devices maps a normalized device name to its connection details.
	Devices map[string]domain.Device `json:"devices,omitempty"`
}

// Path returns the absolute path to the config file.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file from disk and returns the parsed Config.
// If the file does not exist, a zero-value Config is returned (not an error).
func Load() (*Config, error) {
	return loadFrom("")
}

func loadFrom(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config to disk, creating the parent directory if needed.
func (c *Config) Save() error {
	return c.saveTo("")
}

func (c *Config) saveTo(path string) error {
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	return nil
}

// LoadFrom reads the config from the given path. Intended for testing.
func LoadFrom(path string) (*Config, error) {
	return loadFrom(path)
}

// SaveTo writes the config to the given path. Intended for testing.
func (c *Config) SaveTo(path string) error {
	return c.saveTo(path)
}

// ResolveDevice picks the device for a run: the explicit flag value, then
// $NPROF_DEVICE, then the configured default. It returns "" when none is set.
func (c *Config) ResolveDevice(flag string) string {
	if v := strings.TrimSpace(flag); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDefaultDevice)); v != "" {
		return v
	}
	return c.DefaultDevice
}

// PutDevice adds or replaces a device.
func (c *Config) PutDevice(d domain.Device) {
	if c.Devices == nil {
		c.Devices = make(map[string]domain.Device)
	}
	d.Name = util.NormalizeKey(d.Name)
	c.Devices[d.Name] = d
}

// RemoveDevice deletes a device and clears it as the default. It reports
// whether the device existed.
func (c *Config) RemoveDevice(name string) bool {
	key := util.NormalizeKey(name)
	if _, ok := c.Devices[key]; !ok {
		return false
	}
	delete(c.Devices, key)
	if util.NormalizeKey(c.DefaultDevice) == key {
		c.DefaultDevice = ""
	}
	return true
}

// Lookup returns the named device or an error wrapping
// domain.ErrDeviceNotFound.
func (c *Config) Lookup(name string) (domain.Device, error) {
	d, ok := c.Devices[util.NormalizeKey(name)]
	if !ok {
		return domain.Device{}, fmt.Errorf("device %q is not configured (run 'nprof device add %s'): %w",
			name, name, domain.ErrDeviceNotFound)
	}
	return d, nil
}

// DeviceList returns the configured devices sorted by name.
func (c *Config) DeviceList() []domain.Device {
	list := make([]domain.Device, 0, len(c.Devices))
	for _, d := range c.Devices {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

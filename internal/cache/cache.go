// Package cache is a file-backed JSON cache for appliance metadata such as
// groupbys and host group types. Entries expire by file modification time.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

const appDir = "nprof"

// Cache stores one JSON file per key under dir.
type Cache struct {
	dir   string
	clock clockwork.Clock
}

// New returns a cache rooted at dir.
func New(dir string) *Cache {
	return &Cache{dir: dir, clock: clockwork.NewRealClock()}
}

// NewDefault returns a cache rooted at the OS user cache dir.
func NewDefault() *Cache {
	return New(defaultDir())
}

// WithClock returns a copy of c that judges expiry against clk.
func (c *Cache) WithClock(clk clockwork.Clock) *Cache {
	return &Cache{dir: c.dir, clock: clk}
}

// Get decodes the entry for key into dest. It reports false when the entry
// is missing, older than ttl, or unreadable.
func (c *Cache) Get(key string, ttl time.Duration, dest any) (bool, error) {
	if c == nil || c.dir == "" || ttl <= 0 {
		return false, nil
	}

	path := c.pathForKey(key)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	if c.clock.Now().After(info.ModTime().Add(ttl)) {
		_ = os.Remove(path)
		return false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, nil
	}
	return true, nil
}

// Set atomically stores data under key.
func (c *Cache) Set(key string, data any) error {
	if c == nil || c.dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, sanitizeKey(key)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, c.pathForKey(key))
}

// InvalidatePrefix removes every entry whose key starts with prefix, e.g.
// all metadata for one device after it is reconfigured.
func (c *Cache) InvalidatePrefix(prefix string) error {
	if c == nil || c.dir == "" {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	p := sanitizeKey(prefix)
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), p) {
			if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}
	return nil
}

func (c *Cache) pathForKey(key string) string {
	return filepath.Join(c.dir, sanitizeKey(key)+".json")
}

func defaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, appDir)
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "cache"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, key)
}

// Package devices turns configured NetProfiler devices into authenticated
// API clients, reusing one client per device for the life of the process.
package devices

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bitdogg/EOC-NetProfiler/internal/cache"
	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/netprofiler"
	"github.com/bitdogg/EOC-NetProfiler/internal/services/auth"
	"github.com/bitdogg/EOC-NetProfiler/internal/util"
)

// Resolver looks up connection details by device name.
type Resolver interface {
	Lookup(name string) (domain.Device, error)
}

// Factory builds a client for a device. Tests replace it to point clients
// at an httptest server.
type Factory func(dev domain.Device, password string, opts ...netprofiler.Option) *netprofiler.Client

// Manager hands out one client per device.
type Manager struct {
	resolver Resolver
	store    auth.Store
	cache    *cache.Cache
	factory  Factory

	mu       sync.RWMutex
	sessions map[string]*netprofiler.Client
}

// NewManager creates a manager. c may be nil to disable metadata caching.
func NewManager(resolver Resolver, store auth.Store, c *cache.Cache) *Manager {
	return &Manager{
		resolver: resolver,
		store:    store,
		cache:    c,
		factory:  netprofiler.NewClient,
		sessions: map[string]*netprofiler.Client{},
	}
}

// WithFactory replaces the client constructor.
func (m *Manager) WithFactory(f Factory) *Manager {
	m.factory = f
	return m
}

// Lookup returns the configured device without connecting.
func (m *Manager) Lookup(name string) (domain.Device, error) {
	return m.resolver.Lookup(name)
}

// Client returns the cached client for name, creating it on first use.
func (m *Manager) Client(name string) (*netprofiler.Client, error) {
	key := util.NormalizeKey(name)
	if key == "" {
		return nil, fmt.Errorf("%w: no device given (use --device or set default-device)", domain.ErrConfig)
	}

	m.mu.RLock()
	c, ok := m.sessions[key]
	m.mu.RUnlock()
	if ok {
		return c, nil
	}

	dev, err := m.resolver.Lookup(key)
	if err != nil {
		return nil, err
	}
	password, err := m.store.GetPassword(dev.Name)
	if errors.Is(err, auth.ErrPasswordNotFound) {
		return nil, fmt.Errorf("%w: no password stored for device %q, run 'nprof auth login %s'",
			domain.ErrUnauthorized, dev.Name, dev.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("devices: reading password for %q: %w", dev.Name, err)
	}

	var opts []netprofiler.Option
	if m.cache != nil {
		opts = append(opts, netprofiler.WithCache(m.cache))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.sessions[key]; ok {
		return c, nil
	}
	c = m.factory(dev, password, opts...)
	m.sessions[key] = c
	return c, nil
}

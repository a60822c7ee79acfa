package devices

import (
	"errors"
	"testing"

	"github.com/bitdogg/EOC-NetProfiler/internal/config"
	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/netprofiler"
	"github.com/bitdogg/EOC-NetProfiler/internal/services/auth"
)

func newTestManager(t *testing.T) (*Manager, *auth.MockStore, *int) {
	t.Helper()
	cfg := &config.Config{}
	cfg.PutDevice(domain.Device{Name: "np1", Host: "np1.example.com", Username: "admin"})

	store := auth.NewMockStore()
	calls := 0
	m := NewManager(cfg, store, nil).WithFactory(func(dev domain.Device, password string, opts ...netprofiler.Option) *netprofiler.Client {
		calls++
		if password != "secret" {
			t.Errorf("factory got password %q, want secret", password)
		}
		return netprofiler.NewClient(dev, password, opts...)
	})
	return m, store, &calls
}

func TestClient_ReusesSession(t *testing.T) {
	m, store, calls := newTestManager(t)
	_ = store.SetPassword("np1", "secret")

	c1, err := m.Client("np1")
	if err != nil {
		t.Fatalf("Client: %v", err)
	}
	c2, err := m.Client("NP1")
	if err != nil {
		t.Fatalf("Client: %v", err)
	}
	if c1 != c2 {
		t.Error("expected the same client for repeated lookups")
	}
	if *calls != 1 {
		t.Errorf("factory called %d times, want 1", *calls)
	}
	if got := c1.Device().Host; got != "np1.example.com" {
		t.Errorf("Device().Host = %q", got)
	}
}

func TestClient_RetriesAfterLogin(t *testing.T) {
	m, store, calls := newTestManager(t)

	if _, err := m.Client("np1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("before login: error = %v, want ErrUnauthorized", err)
	}
	_ = store.SetPassword("np1", "secret")
	if _, err := m.Client("np1"); err != nil {
		t.Fatalf("after login: %v", err)
	}
	if *calls != 1 {
		t.Errorf("factory called %d times, want 1", *calls)
	}
}

func TestClient_Errors(t *testing.T) {
	m, _, _ := newTestManager(t)

	if _, err := m.Client(""); !errors.Is(err, domain.ErrConfig) {
		t.Errorf("empty name: error = %v, want ErrConfig", err)
	}
	if _, err := m.Client("missing"); !errors.Is(err, domain.ErrDeviceNotFound) {
		t.Errorf("unknown device: error = %v, want ErrDeviceNotFound", err)
	}
	if _, err := m.Client("np1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("no password: error = %v, want ErrUnauthorized", err)
	}
}

func TestLookup(t *testing.T) {
	m, _, _ := newTestManager(t)
	dev, err := m.Lookup("np1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if dev.Username != "admin" {
		t.Errorf("Username = %q, want admin", dev.Username)
	}
}

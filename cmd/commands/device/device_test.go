package device

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bitdogg/EOC-NetProfiler/internal/cache"
	"github.com/bitdogg/EOC-NetProfiler/internal/config"
	"github.com/bitdogg/EOC-NetProfiler/internal/devices"
	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/netprofiler"
	"github.com/bitdogg/EOC-NetProfiler/internal/services/auth"
)

// setup points config, password store and cache at test doubles and
// returns the config path and store.
func setup(t *testing.T) (string, *auth.MockStore, *cache.Cache) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "config.json")
	config.SetPath(cfgPath)
	t.Cleanup(config.ResetPath)

	store := auth.NewMockStore()
	c := cache.New(t.TempDir())

	origStore, origCache, origManager := authStore, newCache, newManager
	t.Cleanup(func() { authStore, newCache, newManager = origStore, origCache, origManager })
	authStore = func() auth.Store { return store }
	newCache = func() *cache.Cache { return c }

	return cfgPath, store, c
}

func execDevice(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAdd_FirstDeviceBecomesDefault(t *testing.T) {
	cfgPath, _, _ := setup(t)

	out, _, err := execDevice(t, "add", "NP1", "--host", "np1.example.com")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Saved device np1 (np1.example.com)") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "nprof auth login np1") {
		t.Errorf("expected login hint, got %q", out)
	}

	cfg, err := config.LoadFrom(cfgPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultDevice != "np1" {
		t.Errorf("DefaultDevice = %q, want np1", cfg.DefaultDevice)
	}
	dev, err := cfg.Lookup("np1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if dev.Port != domain.DefaultPort || dev.Username != "admin" {
		t.Errorf("device = %+v", dev)
	}

	if _, _, err := execDevice(t, "add", "np2", "--host", "np2.example.com"); err != nil {
		t.Fatalf("add np2: %v", err)
	}
	cfg, _ = config.LoadFrom(cfgPath)
	if cfg.DefaultDevice != "np1" {
		t.Errorf("DefaultDevice changed to %q", cfg.DefaultDevice)
	}
}

func TestAdd_Validation(t *testing.T) {
	setup(t)

	tests := map[string][]string{
		"missing host": {"add", "np1"},
		"bad name":     {"add", "np/1", "--host", "h"},
		"bad port":     {"add", "np1", "--host", "h", "--port", "70000"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := execDevice(t, args...)
			if !errors.Is(err, domain.ErrConfig) {
				t.Errorf("error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestList(t *testing.T) {
	cfgPath, _, _ := setup(t)
	cfg := &config.Config{DefaultDevice: "np2"}
	cfg.PutDevice(domain.Device{Name: "np1", Host: "10.0.0.1", Port: 443, Username: "admin"})
	cfg.PutDevice(domain.Device{Name: "np2", Host: "10.0.0.2", Port: 8443, Username: "ops", Insecure: true})
	if err := cfg.SaveTo(cfgPath); err != nil {
		t.Fatal(err)
	}

	out, _, err := execDevice(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, rule and 2 rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[2], "np1") || !strings.HasPrefix(lines[3], "np2") {
		t.Errorf("rows not sorted by name:\n%s", out)
	}
	if !strings.Contains(lines[3], "10.0.0.2:8443") || !strings.Contains(lines[3], "insecure") || !strings.HasSuffix(lines[3], "*") {
		t.Errorf("np2 row = %q", lines[3])
	}
}

func TestRemove(t *testing.T) {
	cfgPath, store, c := setup(t)
	cfg := &config.Config{DefaultDevice: "np1"}
	cfg.PutDevice(domain.Device{Name: "np1", Host: "10.0.0.1"})
	if err := cfg.SaveTo(cfgPath); err != nil {
		t.Fatal(err)
	}
	_ = store.SetPassword("np1", "secret")
	if err := c.Set("netprofiler_np1_groupbys", []string{"hos"}); err != nil {
		t.Fatal(err)
	}

	out, _, err := execDevice(t, "remove", "np1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !strings.Contains(out, "Removed device np1") {
		t.Errorf("output = %q", out)
	}

	cfg, _ = config.LoadFrom(cfgPath)
	if len(cfg.Devices) != 0 || cfg.DefaultDevice != "" {
		t.Errorf("config after remove = %+v", cfg)
	}
	if _, err := store.GetPassword("np1"); !errors.Is(err, auth.ErrPasswordNotFound) {
		t.Errorf("password still stored: %v", err)
	}
	var got []string
	if hit, _ := c.Get("netprofiler_np1_groupbys", time.Hour, &got); hit {
		t.Error("cached metadata survived remove")
	}

	if _, _, err := execDevice(t, "remove", "np1"); !errors.Is(err, domain.ErrDeviceNotFound) {
		t.Errorf("second remove error = %v, want ErrDeviceNotFound", err)
	}
}

func TestCheck(t *testing.T) {
	cfgPath, store, _ := setup(t)
	cfg := &config.Config{DefaultDevice: "np1"}
	cfg.PutDevice(domain.Device{Name: "np1", Host: "np1.example.com", Username: "admin"})
	if err := cfg.SaveTo(cfgPath); err != nil {
		t.Fatal(err)
	}
	_ = store.SetPassword("np1", "secret")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/common/1.0/info":
			_ = json.NewEncoder(w).Encode(map[string]string{"model": "CascadeProfiler", "sw_version": "10.23"})
		case "/api/profiler/1.12/reporting/group_bys":
			_ = json.NewEncoder(w).Encode([]map[string]string{{"id": "hos", "name": "host"}, {"id": "por", "name": "port"}})
		case "/api/profiler/1.12/host_group_types":
			_ = json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "name": "ByLocation"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	newManager = func(cfg *config.Config) *devices.Manager {
		return devices.NewManager(cfg, store, nil).WithFactory(
			func(dev domain.Device, password string, opts ...netprofiler.Option) *netprofiler.Client {
				return netprofiler.NewClient(dev, password, append(opts, netprofiler.WithBaseURL(srv.URL))...)
			})
	}

	out, _, err := execDevice(t, "check")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, want := range []string{"np1 OK", "CascadeProfiler 10.23", "Groupbys: 2", "ByLocation"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheck_NotLoggedIn(t *testing.T) {
	cfgPath, _, _ := setup(t)
	cfg := &config.Config{}
	cfg.PutDevice(domain.Device{Name: "np1", Host: "np1.example.com"})
	if err := cfg.SaveTo(cfgPath); err != nil {
		t.Fatal(err)
	}

	if _, _, err := execDevice(t, "check", "np1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
	if _, _, err := execDevice(t, "check"); !errors.Is(err, domain.ErrConfig) {
		t.Errorf("no default: error = %v, want ErrConfig", err)
	}
}

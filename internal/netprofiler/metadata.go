package netprofiler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
	"github.com/bitdogg/EOC-NetProfiler/internal/retry"
)

const metadataCacheTTL = 24 * time.Hour

// GroupBy is one reporting groupby, e.g. {ID: "hos", Name: "host"}.
type GroupBy struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HostGroupType is a host grouping scheme such as ByLocation.
type HostGroupType struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Favorite    bool   `json:"favorite,omitempty"`
}

// ApplianceDevice is a flow source known to the appliance.
type ApplianceDevice struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	IPAddr string `json:"ipaddr"`
	Type   string `json:"type"`
}

// Info describes the appliance itself.
type Info struct {
	DeviceName string `json:"device_name"`
	SWVersion  string `json:"sw_version"`
	Model      string `json:"model"`
	SerialNum  string `json:"serialnum,omitempty"`
}

// Info returns the appliance's identity. It is the cheapest authenticated
// call and doubles as a connectivity check.
func (c *Client) Info(ctx context.Context) (*Info, error) {
	var out Info
	err := retry.Do(ctx, retry.DefaultConfig(), retry.IsRetryable, func() error {
		_, err := c.doJSON(ctx, http.MethodGet, commonPrefix+"/info", nil, &out)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get appliance info: %w", err)
	}
	return &out, nil
}

// GroupBys lists the reporting groupbys.
func (c *Client) GroupBys(ctx context.Context) ([]GroupBy, error) {
	var out []GroupBy
	if err := c.cachedGet(ctx, "groupbys", apiPrefix+"/reporting/group_bys", &out); err != nil {
		return nil, fmt.Errorf("failed to list groupbys: %w", err)
	}
	return out, nil
}

// HostGroupTypes lists the configured host group types.
func (c *Client) HostGroupTypes(ctx context.Context) ([]HostGroupType, error) {
	var out []HostGroupType
	if err := c.cachedGet(ctx, "host_group_types", apiPrefix+"/host_group_types", &out); err != nil {
		return nil, fmt.Errorf("failed to list host group types: %w", err)
	}
	return out, nil
}

// Devices lists the flow sources known to the appliance. The list changes
// often enough that it is never cached.
func (c *Client) Devices(ctx context.Context) ([]ApplianceDevice, error) {
	var out []ApplianceDevice
	err := retry.Do(ctx, retry.DefaultConfig(), retry.IsRetryable, func() error {
		_, err := c.doJSON(ctx, http.MethodGet, apiPrefix+"/devices", nil, &out)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return out, nil
}

// FindDevice returns the first device whose name contains name,
// case-insensitively.
func FindDevice(devices []ApplianceDevice, name string) (ApplianceDevice, bool) {
	needle := strings.ToLower(name)
	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			return d, true
		}
	}
	return ApplianceDevice{}, false
}

// ResolveGroupby maps a groupby name ("host") to its id ("hos"). Known ids
// pass through unchanged; anything else is a domain.ErrConfig.
func (c *Client) ResolveGroupby(ctx context.Context, name string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.groupbys == nil {
		gbs, err := c.GroupBys(ctx)
		if err != nil {
			return "", err
		}
		c.groupbys = make(map[string]string, 2*len(gbs))
		for _, g := range gbs {
			c.groupbys[strings.ToLower(g.ID)] = g.ID
		}
		for _, g := range gbs {
			if _, isID := c.groupbys[strings.ToLower(g.Name)]; !isID {
				c.groupbys[strings.ToLower(g.Name)] = g.ID
			}
		}
	}
	if id, ok := c.groupbys[strings.ToLower(strings.TrimSpace(name))]; ok {
		return id, nil
	}
	return "", fmt.Errorf("invalid groupby %q: %w", name, domain.ErrConfig)
}

// cachedGet fetches path into out, serving from and refreshing the
// metadata cache when one is configured.
func (c *Client) cachedGet(ctx context.Context, name, path string, out any) error {
	key := c.cacheKey(name)
	if c.cache != nil {
		if hit, err := c.cache.Get(key, metadataCacheTTL, out); err == nil && hit {
			return nil
		}
	}

	err := retry.Do(ctx, retry.DefaultConfig(), retry.IsRetryable, func() error {
		_, err := c.doJSON(ctx, http.MethodGet, path, nil, out)
		return err
	})
	if err != nil {
		return err
	}

	if c.cache != nil {
		_ = c.cache.Set(key, out)
	}
	return nil
}

func (c *Client) cacheKey(name string) string {
	return "netprofiler_" + c.device.Name + "_" + name
}

// Package region is the static registry of log-service regions. Each region
// has its own auth endpoint, log endpoint and virtual-region routing string.
package region

import (
	"sort"
	"strings"
)

// Region describes one independently deployed log-service region.
// Values are immutable; Lookup returns copies.
type Region struct {
	Key         string
	DisplayName string
	// SessionVar is the region-specific environment variable holding the
	// CAS_SESSION cookie value.
	SessionVar string
	AuthURL    string
	LogURL     string
	// VRegion is passed through to the log endpoint as-is.
	VRegion string
	Zones   []string
	// Configured is false for regions that are recognized but have no log
	// endpoint wired yet.
	Configured bool
}

// GenericSessionVar is consulted when a region's own variable is unset or empty.
const GenericSessionVar = "CAS_SESSION"

const (
	CN   = "cn"
	I18N = "i18n"
	US   = "us"
)

var builtin = []Region{
	{
		Key:         CN,
		DisplayName: "China",
		SessionVar:  "CAS_SESSION_CN",
		AuthURL:     "https://cloud.bytedance.net/auth/api/v1/jwt",
	},
	{
		Key:         I18N,
		DisplayName: "International (Singapore)",
		SessionVar:  "CAS_SESSION_I18n",
		AuthURL:     "https://cloud-i18n.bytedance.net/auth/api/v1/jwt",
		LogURL:      "https://logservice-sg.tiktok-row.org/streamlog/platform/microservice/v1/query/trace",
		VRegion:     "Singapore-Common,US-East,Singapore-Central",
		Zones:       []string{"Singapore-Common", "US-East", "Singapore-Central"},
		Configured:  true,
	},
	{
		Key:         US,
		DisplayName: "United States",
		SessionVar:  "CAS_SESSION_US",
		AuthURL:     "https://cloud-ttp-us.bytedance.net/auth/api/v1/jwt",
		LogURL:      "https://logservice-tx.tiktok-us.org/streamlog/platform/microservice/v1/query/trace",
		VRegion:     "US-TTP,US-TTP2",
		Zones:       []string{"US-TTP", "US-TTP2"},
		Configured:  true,
	},
}

// Registry maps region keys to regions. The zero value is empty.
type Registry struct {
	regions map[string]Region
}

// NewRegistry builds a registry from regions, keyed by lower-cased Key.
func NewRegistry(regions ...Region) *Registry {
	reg := &Registry{regions: make(map[string]Region, len(regions))}
	for _, r := range regions {
		r.Key = strings.ToLower(r.Key)
		reg.regions[r.Key] = r
	}
	return reg
}

var defaultRegistry = NewRegistry(builtin...)

// Default returns the registry of built-in regions.
func Default() *Registry {
	return defaultRegistry
}

// Lookup returns the region for key. Keys are case-insensitive.
func (reg *Registry) Lookup(key string) (Region, bool) {
	r, ok := reg.regions[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return Region{}, false
	}
	r.Zones = append([]string(nil), r.Zones...)
	return r, true
}

// Keys returns all region keys in sorted order.
func (reg *Registry) Keys() []string {
	keys := make([]string, 0, len(reg.regions))
	for k := range reg.regions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns every region, sorted by key.
func (reg *Registry) All() []Region {
	regions := make([]Region, 0, len(reg.regions))
	for _, k := range reg.Keys() {
		r, _ := reg.Lookup(k)
		regions = append(regions, r)
	}
	return regions
}

// Configured returns the keys of regions that can be queried, sorted.
func (reg *Registry) Configured() []string {
	var keys []string
	for _, r := range reg.All() {
		if r.IsConfigured() {
			keys = append(keys, r.Key)
		}
	}
	return keys
}

// Lookup finds key in the default registry.
func Lookup(key string) (Region, bool) { return defaultRegistry.Lookup(key) }

// Keys lists the default registry's keys.
func Keys() []string { return defaultRegistry.Keys() }

// All lists the default registry's regions.
func All() []Region { return defaultRegistry.All() }

// IsConfigured reports whether the region can be queried.
func (r Region) IsConfigured() bool {
	return r.Configured && r.LogURL != ""
}

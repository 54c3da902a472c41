package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/adpulse/adpulse-go/internal/filters"
	"github.com/adpulse/adpulse-go/internal/models"
)

// Cache holds resolved snapshots keyed by tenant and filter signature. It is
// an explicit object with caller-owned lifecycle: create it at startup, clear
// a tenant on upload or logout. Never a package-global map.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]models.ResolvedTenantMetrics
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]models.ResolvedTenantMetrics)}
}

// CacheKey builds the lookup key for a snapshot. It hashes the resolved
// range rather than the raw preset so a cached "7d" window expires naturally
// when the calendar day rolls over.
func CacheKey(tenantID string, f filters.State, now time.Time) string {
	rng := filters.ResolveRange(f, now)
	channels := make([]string, 0, len(f.Channels))
	for _, c := range f.Channels {
		if n := filters.NormalizeChannel(c); n != "" {
			channels = append(channels, n)
		}
	}
	sort.Strings(channels)
	query := strings.ToLower(strings.TrimSpace(f.CampaignQuery))
	return fmt.Sprintf("%s|%s|%s|%s|%s", tenantID, rng.Start, rng.End, strings.Join(channels, ","), query)
}

func (c *Cache) Get(key string) (models.ResolvedTenantMetrics, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.entries[key]
	return m, ok
}

func (c *Cache) Put(key string, m models.ResolvedTenantMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = m
}

// Clear drops every entry for one tenant.
func (c *Cache) Clear(tenantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := tenantID + "|"
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// Package resources provides the typed services for every backend resource
// family. All services follow one shape: key builders, cache-aware reads,
// and mutations that invalidate the list scope, so the invalidation rules
// hold uniformly without per-resource special cases.
package resources

import (
	"sort"
	"time"

	"github.com/arashgl/darabctl/internal/config"
)

// Policy is the per-resource caching and retry contract. Staleness and
// retry budgets are configuration, not hardcoded constants: config-file
// overrides merge over these defaults.
type Policy struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	BasePath    string        `json:"base_path"`
	StaleTime   time.Duration `json:"stale_time"`
}

// defaultPolicies contains the predefined resource policies. Windows
// reflect how quickly each family goes out of date: tickets arrive from
// visitors at any time, landing settings change rarely.
var defaultPolicies = []Policy{
	{
		Name:        "posts",
		Description: "Weblog posts",
		BasePath:    "/posts",
		StaleTime:   5 * time.Minute,
	},
	{
		Name:        "categories",
		Description: "Content categories",
		BasePath:    "/categories",
		StaleTime:   10 * time.Minute,
	},
	{
		Name:        "products",
		Description: "Product catalogue",
		BasePath:    "/products",
		StaleTime:   5 * time.Minute,
	},
	{
		Name:        "personnel",
		Description: "Personnel profiles",
		BasePath:    "/personnel",
		StaleTime:   10 * time.Minute,
	},
	{
		Name:        "media",
		Description: "Uploaded media library",
		BasePath:    "/media",
		StaleTime:   5 * time.Minute,
	},
	{
		Name:        "tickets",
		Description: "Support tickets",
		BasePath:    "/tickets",
		StaleTime:   2 * time.Minute,
	},
	{
		Name:        "landing",
		Description: "Landing page settings",
		BasePath:    "/landing-settings",
		StaleTime:   10 * time.Minute,
	},
}

// Registry holds the effective policy for every resource family
type Registry struct {
	policies map[string]Policy
}

// NewRegistry builds the policy table, applying config overrides.
// Precedence per resource: cache.resources.<name>, then the global
// cache.stale_time, then the built-in window above.
func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{policies: make(map[string]Policy, len(defaultPolicies))}
	for _, p := range defaultPolicies {
		if cfg != nil {
			if d := cfg.StaleTimeFor(p.Name); d > 0 {
				p.StaleTime = d
			}
		}
		r.policies[p.Name] = p
	}
	return r
}

// Get returns the policy for a resource name. Unknown names fall back to
// a conservative default rather than panicking.
func (r *Registry) Get(name string) Policy {
	if p, ok := r.policies[name]; ok {
		return p
	}
	return Policy{Name: name, StaleTime: 2 * time.Minute}
}

// All returns every policy sorted by resource name
func (r *Registry) All() []Policy {
	out := make([]Policy, 0, len(r.policies))
	for _, p := range r.policies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

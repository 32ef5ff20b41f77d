// Package flags provides read-only feature flags loaded from configuration.
// Unknown flags are disabled.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/abikit/internal/log"
)

// FlagUnversionedSDK lets manifests select the UNVERSIONED development SDK.
const FlagUnversionedSDK = "unversioned-sdk"

// Known lists every flag abikit reads.
var Known = []string{FlagUnversionedSDK}

// Registry holds feature flag state.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from the config map. The map is copied.
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: maps.Clone(flags)}
	if r.flags == nil {
		r.flags = make(map[string]bool)
	}
	for name := range r.flags {
		if !slices.Contains(Known, name) {
			log.Warn(log.CatConfig, "Unknown feature flag in config", "flag", name)
		}
	}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(r.flags))
	return r
}

// Enabled reports whether name is on. Unknown flags and a nil Registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of all configured flags.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}

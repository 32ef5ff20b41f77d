package versions

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

// Set is an immutable, validated collection of bundled SDK versions.
type Set struct {
	byVersion      map[string]Descriptor
	newestFirst    []string
	defaultVersion string
}

// NewSet validates descriptors and returns the Set. Empty prefixes are derived
// from the version. An empty defaultVersion selects the newest version.
//
// Construction fails when the set is empty, a version is not a semantic
// version, or a version or prefix repeats. A prefix may be a string prefix of
// another (ABI1_0_1 and ABI1_0_10); Registry.VersionOfSymbol resolves those by
// longest match.
func NewSet(descriptors []Descriptor, defaultVersion string) (*Set, error) {
	if len(descriptors) == 0 {
		return nil, ErrEmptySet
	}

	byVersion := make(map[string]Descriptor, len(descriptors))
	symbolOwners := make(map[string]string, len(descriptors))
	packageOwners := make(map[string]string, len(descriptors))

	for _, d := range descriptors {
		d = d.withDefaults()
		if !semver.IsValid(canonical(d.Version)) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, d.Version)
		}
		if _, ok := byVersion[d.Version]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVersion, d.Version)
		}
		if owner, ok := symbolOwners[d.SymbolPrefix]; ok {
			return nil, fmt.Errorf("%w: %s used by %s and %s", ErrDuplicatePrefix, d.SymbolPrefix, owner, d.Version)
		}
		if owner, ok := packageOwners[d.PackagePrefix]; ok {
			return nil, fmt.Errorf("%w: %s used by %s and %s", ErrDuplicatePrefix, d.PackagePrefix, owner, d.Version)
		}
		byVersion[d.Version] = d
		symbolOwners[d.SymbolPrefix] = d.Version
		packageOwners[d.PackagePrefix] = d.Version
	}

	order := slices.Collect(maps.Keys(byVersion))
	slices.SortFunc(order, func(a, b string) int {
		return semver.Compare(canonical(b), canonical(a))
	})

	if defaultVersion == "" {
		defaultVersion = order[0]
	}
	if _, ok := byVersion[defaultVersion]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDefault, defaultVersion)
	}

	return &Set{
		byVersion:      byVersion,
		newestFirst:    order,
		defaultVersion: defaultVersion,
	}, nil
}

// canonical adapts a bare "7.0.0" to the "v7.0.0" form x/mod/semver expects.
func canonical(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// Len returns the number of versions in the set.
func (s *Set) Len() int {
	return len(s.byVersion)
}

// Default returns the version used for manifests that do not name one.
func (s *Set) Default() string {
	return s.defaultVersion
}

// Lookup returns the descriptor for version.
func (s *Set) Lookup(version string) (Descriptor, bool) {
	d, ok := s.byVersion[version]
	return d, ok
}

// Versions returns the version identifiers, newest first.
func (s *Set) Versions() []string {
	return slices.Clone(s.newestFirst)
}

// Descriptors returns a copy of the version -> descriptor mapping.
func (s *Set) Descriptors() map[string]Descriptor {
	return maps.Clone(s.byVersion)
}

// WithDefault returns a copy of s whose default is version.
func (s *Set) WithDefault(version string) (*Set, error) {
	if _, ok := s.byVersion[version]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDefault, version)
	}
	return &Set{
		byVersion:      s.byVersion,
		newestFirst:    s.newestFirst,
		defaultVersion: version,
	}, nil
}

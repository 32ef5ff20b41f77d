package versions

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/zjrosen/abikit/internal/bundled"
	"github.com/zjrosen/abikit/internal/log"
)

// Registry is the read-only view over the bundled SDK versions. It is safe for
// concurrent use without locking; nothing in it changes after New returns.
type Registry struct {
	set                *Set
	allowUnversioned   bool
	symbolPrefixLookup []Descriptor
}

// Option configures a Registry.
type Option func(*Registry)

// WithUnversioned lets manifests request the Unversioned development SDK.
func WithUnversioned(allow bool) Option {
	return func(r *Registry) {
		r.allowUnversioned = allow
	}
}

// New builds a registry over set.
func New(set *Set, opts ...Option) (*Registry, error) {
	if set == nil || set.Len() == 0 {
		return nil, ErrEmptySet
	}
	r := &Registry{set: set}
	for _, opt := range opts {
		opt(r)
	}
	for _, v := range set.Versions() {
		d, _ := set.Lookup(v)
		r.symbolPrefixLookup = append(r.symbolPrefixLookup, d)
	}
	// longest prefix first, so ABI1_0_10 wins over ABI1_0_1
	slices.SortStableFunc(r.symbolPrefixLookup, func(a, b Descriptor) int {
		return len(b.SymbolPrefix) - len(a.SymbolPrefix)
	})
	log.Debug(log.CatVersions, "registry built",
		"versions", strings.Join(set.Versions(), ","),
		"default", set.Default(),
		"unversioned", r.allowUnversioned)
	return r, nil
}

var sharedRegistry = sync.OnceValue(func() *Registry {
	set, err := LoadSet(bundled.FS(), bundled.VersionsFile)
	if err != nil {
		// The embedded file is part of the build; a bad one is a broken binary.
		panic(fmt.Sprintf("versions: bundled version set is invalid: %v", err))
	}
	r, err := New(set)
	if err != nil {
		panic(fmt.Sprintf("versions: %v", err))
	}
	return r
})

// Shared returns the process-wide registry built from the bundled version
// file. It is constructed exactly once, on first use, no matter how many
// goroutines call Shared concurrently.
func Shared() *Registry {
	return sharedRegistry()
}

// Versions returns a copy of the version -> descriptor mapping.
func (r *Registry) Versions() map[string]Descriptor {
	return r.set.Descriptors()
}

// SortedVersions returns the bundled versions, newest first.
func (r *Registry) SortedVersions() []string {
	return r.set.Versions()
}

// DefaultVersion returns the version used when a manifest names none.
func (r *Registry) DefaultVersion() string {
	return r.set.Default()
}

// Lookup returns the descriptor registered for version.
func (r *Registry) Lookup(version string) (Descriptor, bool) {
	return r.set.Lookup(version)
}

// SymbolPrefixForSDKVersion returns the symbol prefix registered for version.
// Returns "" for an empty, unversioned or unknown version; callers fall back
// to the un-namespaced symbol.
func (r *Registry) SymbolPrefixForSDKVersion(version string) string {
	d, ok := r.set.Lookup(version)
	if !ok {
		return ""
	}
	return d.SymbolPrefix
}

// PackagePrefixForSDKVersion returns the java package prefix registered for
// version, or "" on a miss.
func (r *Registry) PackagePrefixForSDKVersion(version string) string {
	d, ok := r.set.Lookup(version)
	if !ok {
		return ""
	}
	return d.PackagePrefix
}

// AvailableSDKVersionForManifest selects the SDK version manifest runs on.
//
// A nil manifest, or one whose sdkVersion field is missing or not a string,
// gets the default version. A registered version is returned as-is. Anything
// else returns "" and an *UnsupportedVersionError.
func (r *Registry) AvailableSDKVersionForManifest(manifest Manifest) (string, error) {
	requested, ok := manifest.SDKVersion()
	if !ok {
		if manifest.hasMalformedSDKVersion() {
			log.Warn(log.CatVersions, "malformed sdkVersion in manifest, using default",
				"value", fmt.Sprintf("%v", manifest[ManifestSDKVersionKey]),
				"default", r.set.Default())
		}
		return r.set.Default(), nil
	}

	if requested == Unversioned && r.allowUnversioned {
		return Unversioned, nil
	}

	if _, ok := r.set.Lookup(requested); ok {
		return requested, nil
	}

	log.Warn(log.CatVersions, "manifest requires unsupported sdk version", "requested", requested)
	return "", &UnsupportedVersionError{
		Requested: requested,
		Available: r.set.Versions(),
	}
}

// Resolve selects the SDK version for manifest and returns its descriptor.
// The unversioned SDK resolves to a descriptor with empty prefixes.
func (r *Registry) Resolve(manifest Manifest) (Descriptor, error) {
	version, err := r.AvailableSDKVersionForManifest(manifest)
	if err != nil {
		return Descriptor{}, err
	}
	if version == Unversioned {
		return Descriptor{Version: Unversioned}, nil
	}
	d, _ := r.set.Lookup(version)
	return d, nil
}

// VersionOfSymbol reports which bundled version's prefix name carries. When
// prefixes overlap the longest matching one wins.
func (r *Registry) VersionOfSymbol(name string) (string, bool) {
	for _, d := range r.symbolPrefixLookup {
		if strings.HasPrefix(name, d.SymbolPrefix) {
			return d.Version, true
		}
	}
	return "", false
}

// VersionedSymbol namespaces name for version. Unknown versions leave name
// unchanged, and a name that already carries version's prefix is returned
// as-is.
func (r *Registry) VersionedSymbol(name, version string) string {
	prefix := r.SymbolPrefixForSDKVersion(version)
	if name == "" || prefix == "" {
		return name
	}
	if owner, ok := r.VersionOfSymbol(name); ok && owner == version {
		return name
	}
	return prefix + name
}

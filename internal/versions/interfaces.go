package versions

// Provider defines read-only access to the bundled SDK versions.
// Consumers depend on Provider so tests can substitute a registry built from a
// hand-made Set.
type Provider interface {
	// Versions returns a copy of the version -> descriptor mapping.
	Versions() map[string]Descriptor

	// SymbolPrefixForSDKVersion returns the symbol prefix for version, or ""
	// when version is empty, unversioned or unknown.
	SymbolPrefixForSDKVersion(version string) string

	// AvailableSDKVersionForManifest selects the SDK version a manifest runs on.
	// Returns *UnsupportedVersionError when the requested version is not bundled.
	AvailableSDKVersionForManifest(manifest Manifest) (string, error)

	// DefaultVersion returns the version used when a manifest names none.
	DefaultVersion() string
}

// Compile-time check that Registry implements Provider.
var _ Provider = (*Registry)(nil)

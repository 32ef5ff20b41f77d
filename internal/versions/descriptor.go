package versions

import "strings"

// Unversioned is the pseudo-version of the development SDK. Its symbols are not
// namespaced, so its prefix is always empty.
const Unversioned = "UNVERSIONED"

const (
	symbolPrefixStem  = "ABI"
	packagePrefixStem = "abi"
)

// Descriptor describes one bundled SDK version.
type Descriptor struct {
	Version       string `json:"version"`
	SymbolPrefix  string `json:"symbol_prefix"`  // e.g. ABI7_0_0
	PackagePrefix string `json:"package_prefix"` // e.g. abi7_0_0
}

// NewDescriptor derives both prefixes from version.
func NewDescriptor(version string) Descriptor {
	return Descriptor{
		Version:       version,
		SymbolPrefix:  DeriveSymbolPrefix(version),
		PackagePrefix: DerivePackagePrefix(version),
	}
}

// DeriveSymbolPrefix returns the conventional symbol prefix for version:
// "7.0.0" -> "ABI7_0_0". Characters that cannot appear in an identifier become "_".
func DeriveSymbolPrefix(version string) string {
	if version == "" || version == Unversioned {
		return ""
	}
	return symbolPrefixStem + identifierSafe(version)
}

// DerivePackagePrefix returns the conventional java package prefix for version:
// "6.0.0" -> "abi6_0_0".
func DerivePackagePrefix(version string) string {
	if version == "" || version == Unversioned {
		return ""
	}
	return packagePrefixStem + strings.ToLower(identifierSafe(version))
}

func identifierSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// withDefaults fills empty prefixes from the version.
func (d Descriptor) withDefaults() Descriptor {
	if d.SymbolPrefix == "" {
		d.SymbolPrefix = DeriveSymbolPrefix(d.Version)
	}
	if d.PackagePrefix == "" {
		d.PackagePrefix = DerivePackagePrefix(d.Version)
	}
	return d
}

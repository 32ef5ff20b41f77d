package testutil

import "github.com/zjrosen/abikit/internal/versions"

// VersionOption customizes a descriptor added with WithVersion.
type VersionOption func(*versions.Descriptor)

// SymbolPrefix overrides the derived symbol prefix.
func SymbolPrefix(prefix string) VersionOption {
	return func(d *versions.Descriptor) { d.SymbolPrefix = prefix }
}

// PackagePrefix overrides the derived java package prefix.
func PackagePrefix(prefix string) VersionOption {
	return func(d *versions.Descriptor) { d.PackagePrefix = prefix }
}

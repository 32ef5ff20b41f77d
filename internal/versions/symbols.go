package versions

import "strings"

// VersionedString namespaces a symbol name with prefix: ("RCTFoo", "ABI7_0_0")
// -> "ABI7_0_0RCTFoo".
//
// An empty name yields "". An empty prefix (unversioned SDK) returns name
// unchanged. A name that already carries prefix is returned as-is, so applying
// the same prefix twice is harmless.
func VersionedString(name, prefix string) string {
	if name == "" {
		return ""
	}
	if prefix == "" || strings.HasPrefix(name, prefix) {
		return name
	}
	return prefix + name
}

// UnversionedString strips prefix from a namespaced symbol. Names not carrying
// prefix are returned unchanged.
func UnversionedString(name, prefix string) string {
	if prefix == "" {
		return name
	}
	return strings.TrimPrefix(name, prefix)
}

// VersionedPackage namespaces a java package with a package prefix:
// ("host.exp.exponent", "abi6_0_0") -> "abi6_0_0.host.exp.exponent".
// Same degrade rules as VersionedString.
func VersionedPackage(pkg, prefix string) string {
	if pkg == "" {
		return ""
	}
	if prefix == "" || pkg == prefix || strings.HasPrefix(pkg, prefix+".") {
		return pkg
	}
	return prefix + "." + pkg
}

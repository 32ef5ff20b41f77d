// Package versions holds the set of SDK versions bundled into the host and the
// rules for choosing between them.
//
// Several SDK revisions coexist in one process. Each revision's native symbols
// are namespaced with a prefix unique to that revision, so "RCTImageStore"
// becomes "ABI7_0_0RCTImageStore" for SDK 7.0.0 and "ABI8_0_0RCTImageStore"
// for SDK 8.0.0.
//
// # Core Types
//
// Descriptor names one bundled version and its symbol and java package prefixes.
//
// Set is the immutable, validated collection of descriptors plus the default
// version used when a manifest does not ask for one. NewSet rejects duplicate
// versions, duplicate prefixes and prefixes that are string prefixes of one
// another, so a namespaced symbol always maps back to exactly one version.
//
// Registry is the read-only view over a Set. It is built once and shared; Shared
// returns the process-wide instance built from the bundled version file, New
// builds one from any Set for callers that inject their own.
//
// Manifest is the untyped document an application ships with. Only the
// "sdkVersion" and "isVerified" fields are read.
//
// # Failure Semantics
//
// Lookup misses return "" and never an error. The only runtime error is a
// manifest naming a version that is not bundled, reported as
// *UnsupportedVersionError (errors.Is ErrUnsupportedVersion).
package versions

// Package modules maps logical native module names to their per-SDK-version
// implementations.
//
// Instead of building a versioned class name at runtime and hoping a class by
// that name exists, every (module, version) pair is registered up front in a
// Table. A lookup for a version that does not provide a module is a plain
// ErrModuleNotFound.
//
// BuildPackage assembles the module list an application gets, following the
// kernel / experience and verified / unverified rules of the host.
package modules

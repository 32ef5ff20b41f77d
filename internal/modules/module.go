package modules

import (
	"github.com/zjrosen/abikit/internal/versions"
)

// Context carries what a module factory may depend on.
type Context struct {
	SDK      versions.Descriptor
	Kernel   bool // the host's own UI rather than third-party content
	Manifest versions.Manifest
}

// Verified reports whether the content is a verified experience. The kernel is
// never treated as verified content.
func (c Context) Verified() bool {
	return !c.Kernel && c.Manifest.IsVerified()
}

// Module is an instantiated native module bound to one SDK version.
type Module interface {
	// Name is the logical module name, identical across versions.
	Name() string
	// SDKVersion is the SDK version the module was built for.
	SDKVersion() string
	// ClassName is the version-namespaced native class symbol.
	ClassName() string
	// JavaClass is the version-namespaced java class.
	JavaClass() string
}

// Factory creates a module for ctx.
type Factory func(ctx Context) Module

// Spec describes a native module independent of any version.
type Spec struct {
	Name        string // logical name, e.g. "FileSystem"
	Class       string // unversioned native class, e.g. "EXFileSystem"
	JavaPackage string // unversioned java package
	JavaName    string // java class name inside JavaPackage
}

// nativeModule is the Module produced by SpecFactory.
type nativeModule struct {
	spec Spec
	sdk  versions.Descriptor
}

// SpecFactory returns a factory that namespaces spec for the context's SDK.
func SpecFactory(spec Spec) Factory {
	return func(ctx Context) Module {
		return &nativeModule{spec: spec, sdk: ctx.SDK}
	}
}

func (m *nativeModule) Name() string       { return m.spec.Name }
func (m *nativeModule) SDKVersion() string { return m.sdk.Version }

func (m *nativeModule) ClassName() string {
	return versions.VersionedString(m.spec.Class, m.sdk.SymbolPrefix)
}

func (m *nativeModule) JavaClass() string {
	if m.spec.JavaPackage == "" {
		return m.spec.JavaName
	}
	return versions.VersionedPackage(m.spec.JavaPackage, m.sdk.PackagePrefix) + "." + m.spec.JavaName
}

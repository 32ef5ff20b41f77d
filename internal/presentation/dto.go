package presentation

import (
	"github.com/zjrosen/abikit/internal/modules"
	"github.com/zjrosen/abikit/internal/versions"
)

// VersionDTO is one bundled SDK version.
type VersionDTO struct {
	Version       string `json:"version" yaml:"version"`
	SymbolPrefix  string `json:"symbol_prefix" yaml:"symbol_prefix"`
	PackagePrefix string `json:"package_prefix" yaml:"package_prefix"`
	Default       bool   `json:"default,omitempty" yaml:"default,omitempty"`
}

// ResolutionDTO is the outcome of resolving a manifest.
type ResolutionDTO struct {
	Manifest      string `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	SDKVersion    string `json:"sdk_version" yaml:"sdk_version"`
	SymbolPrefix  string `json:"symbol_prefix" yaml:"symbol_prefix"`
	PackagePrefix string `json:"package_prefix" yaml:"package_prefix"`
	Verified      bool   `json:"verified" yaml:"verified"`
}

// SymbolDTO is a rewritten symbol.
type SymbolDTO struct {
	Input      string `json:"input" yaml:"input"`
	Output     string `json:"output" yaml:"output"`
	SDKVersion string `json:"sdk_version" yaml:"sdk_version"`
}

// ModuleDTO is one native module of a package.
type ModuleDTO struct {
	Name       string `json:"name" yaml:"name"`
	SDKVersion string `json:"sdk_version" yaml:"sdk_version"`
	Class      string `json:"class" yaml:"class"`
	JavaClass  string `json:"java_class" yaml:"java_class"`
}

// BlobDTO describes a stored blob.
type BlobDTO struct {
	Key  string `json:"key" yaml:"key"`
	Size int    `json:"size" yaml:"size"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// FromRegistry lists the registry's versions, newest first.
func FromRegistry(reg *versions.Registry) []VersionDTO {
	sorted := reg.SortedVersions()
	out := make([]VersionDTO, 0, len(sorted))
	for _, v := range sorted {
		d, _ := reg.Lookup(v)
		out = append(out, FromDescriptor(d, v == reg.DefaultVersion()))
	}
	return out
}

// FromDescriptor converts one descriptor.
func FromDescriptor(d versions.Descriptor, isDefault bool) VersionDTO {
	return VersionDTO{
		Version:       d.Version,
		SymbolPrefix:  d.SymbolPrefix,
		PackagePrefix: d.PackagePrefix,
		Default:       isDefault,
	}
}

// FromResolution converts a resolved manifest.
func FromResolution(path string, d versions.Descriptor, m versions.Manifest) ResolutionDTO {
	return ResolutionDTO{
		Manifest:      path,
		SDKVersion:    d.Version,
		SymbolPrefix:  d.SymbolPrefix,
		PackagePrefix: d.PackagePrefix,
		Verified:      m.IsVerified(),
	}
}

// FromModules converts a built package.
func FromModules(mods []modules.Module) []ModuleDTO {
	out := make([]ModuleDTO, 0, len(mods))
	for _, m := range mods {
		out = append(out, ModuleDTO{
			Name:       m.Name(),
			SDKVersion: m.SDKVersion(),
			Class:      m.ClassName(),
			JavaClass:  m.JavaClass(),
		})
	}
	return out
}

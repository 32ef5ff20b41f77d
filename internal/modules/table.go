package modules

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/zjrosen/abikit/internal/versions"
)

// Table errors
var (
	ErrModuleNotFound  = errors.New("module not registered for sdk version")
	ErrDuplicateModule = errors.New("module already registered for sdk version")
	ErrUnknownVersion  = errors.New("sdk version not bundled")
	ErrEmptyModuleName = errors.New("module name cannot be empty")
	ErrNilFactory      = errors.New("module factory cannot be nil")
)

// Table is the immutable name -> version -> factory mapping.
type Table struct {
	entries map[string]map[string]Factory
}

// Builder collects registrations and validates them into a Table.
type Builder struct {
	registry versions.Provider
	entries  map[string]map[string]Factory
	errs     []error
}

// NewBuilder creates a builder that accepts only versions known to registry.
func NewBuilder(registry versions.Provider) *Builder {
	return &Builder{
		registry: registry,
		entries:  make(map[string]map[string]Factory),
	}
}

// Register adds the factory implementing module name for sdkVersion.
// Problems are collected and reported by Build.
func (b *Builder) Register(name, sdkVersion string, factory Factory) *Builder {
	return b.put(name, sdkVersion, factory, false)
}

// Override is Register, but replaces a factory already registered for name
// and sdkVersion instead of reporting ErrDuplicateModule.
func (b *Builder) Override(name, sdkVersion string, factory Factory) *Builder {
	return b.put(name, sdkVersion, factory, true)
}

func (b *Builder) put(name, sdkVersion string, factory Factory, replace bool) *Builder {
	switch {
	case name == "":
		b.errs = append(b.errs, ErrEmptyModuleName)
		return b
	case factory == nil:
		b.errs = append(b.errs, fmt.Errorf("%w: %s", ErrNilFactory, name))
		return b
	}
	if _, ok := b.registry.Versions()[sdkVersion]; !ok && sdkVersion != versions.Unversioned {
		b.errs = append(b.errs, fmt.Errorf("%w: %s (module %s)", ErrUnknownVersion, sdkVersion, name))
		return b
	}

	byVersion, ok := b.entries[name]
	if !ok {
		byVersion = make(map[string]Factory)
		b.entries[name] = byVersion
	}
	if _, dup := byVersion[sdkVersion]; dup && !replace {
		b.errs = append(b.errs, fmt.Errorf("%w: %s@%s", ErrDuplicateModule, name, sdkVersion))
		return b
	}
	byVersion[sdkVersion] = factory
	return b
}

// RegisterAll registers factory for name under every given version.
func (b *Builder) RegisterAll(name string, sdkVersions []string, factory Factory) *Builder {
	for _, v := range sdkVersions {
		b.Register(name, v, factory)
	}
	return b
}

// Build returns the table or every registration error joined.
func (b *Builder) Build() (*Table, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	entries := make(map[string]map[string]Factory, len(b.entries))
	for name, byVersion := range b.entries {
		entries[name] = maps.Clone(byVersion)
	}
	return &Table{entries: entries}, nil
}

// Resolve returns the factory implementing name for sdkVersion.
func (t *Table) Resolve(sdkVersion, name string) (Factory, error) {
	if f, ok := t.entries[name][sdkVersion]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %s@%s", ErrModuleNotFound, name, sdkVersion)
}

// Has reports whether name is registered for sdkVersion.
func (t *Table) Has(sdkVersion, name string) bool {
	_, ok := t.entries[name][sdkVersion]
	return ok
}

// Names returns the module names registered for sdkVersion, sorted.
func (t *Table) Names(sdkVersion string) []string {
	names := make([]string, 0, len(t.entries))
	for name, byVersion := range t.entries {
		if _, ok := byVersion[sdkVersion]; ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// VersionsOf returns the versions that provide name, sorted.
func (t *Table) VersionsOf(name string) []string {
	out := slices.Collect(maps.Keys(t.entries[name]))
	slices.Sort(out)
	return out
}

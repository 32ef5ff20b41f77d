package versions

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// VersionFile is the root structure of a version file.
type VersionFile struct {
	Default  string       `yaml:"default"`
	Versions []VersionDef `yaml:"versions"`
}

// VersionDef defines one bundled SDK version in YAML.
type VersionDef struct {
	Version       string `yaml:"version"`        // e.g. "7.0.0"
	SymbolPrefix  string `yaml:"symbol_prefix"`  // optional, derived when empty
	PackagePrefix string `yaml:"package_prefix"` // optional, derived when empty
}

// LoadSet reads and validates the version file at path inside fsys.
func LoadSet(fsys fs.FS, path string) (*Set, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseSet(content)
}

// LoadSetFile reads and validates a version file from disk.
func LoadSetFile(path string) (*Set, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	set, err := ParseSet(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// ParseSet parses version file content.
func ParseSet(content []byte) (*Set, error) {
	var file VersionFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse version file: %w", err)
	}

	descriptors := make([]Descriptor, 0, len(file.Versions))
	for _, def := range file.Versions {
		descriptors = append(descriptors, Descriptor{
			Version:       def.Version,
			SymbolPrefix:  def.SymbolPrefix,
			PackagePrefix: def.PackagePrefix,
		})
	}
	return NewSet(descriptors, file.Default)
}

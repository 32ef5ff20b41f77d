// Package paths resolves abikit's on-disk locations.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names abikit's directories under the user config dir.
const AppName = "abikit"

// ConfigDir returns ~/.config/abikit, or "" when the home directory is unknown.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

// InConfigDir joins name onto ConfigDir. It returns "" when ConfigDir does.
func InConfigDir(name string) string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, name)
}

// ProjectConfig returns the project-local config file path under dir.
func ProjectConfig(dir string) string {
	return filepath.Join(dir, "."+AppName, "config.yaml")
}

// ExpandHome replaces a leading "~" with the user's home directory.
// Paths without one, or an unknown home directory, are returned cleaned.
func ExpandHome(path string) string {
	if path == "" {
		return ""
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return filepath.Clean(path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

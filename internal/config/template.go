package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/abikit/internal/log"
)

// DefaultConfigTemplate returns the default config as commented YAML.
func DefaultConfigTemplate() string {
	return `# abikit configuration

# SDK version file (default: the versions bundled with abikit)
# versions_file: ~/sdk/versions.yaml

# Override the default SDK version from the version file
# default_version: "7.0.0"

# Debug logging (also enabled by ABIKIT_DEBUG=1)
debug: false
# log_file: ~/.config/abikit/debug.log

blob:
  key_strategy: uuid      # "uuid" (default) or "cid" (content addressed)
  ttl: 0s                 # how long blobs stay in memory (0: until removed)
  cleanup_interval: 30m   # how often expired memory entries are swept
  persist: false          # keep blobs in sqlite so other processes can read them
  # persist_ttl: 24h      # lifetime of persisted blobs (default: until removed)
  # db_path: ~/.config/abikit/blobs.db

server:
  addr: "127.0.0.1:8089"

# Tracing (OpenTelemetry)
# tracing:
#   enabled: true
#   exporter: file        # "none", "file", "stdout", or "otlp"
#   file_path: ~/.config/abikit/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0

# Feature flags
# flags:
#   unversioned-sdk: true # accept the UNVERSIONED development SDK
`
}

// WriteDefaultConfig creates a config file at configPath from the default
// template, creating its directory.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

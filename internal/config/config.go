// Package config provides configuration types and defaults for abikit.
package config

import (
	"fmt"
	"net"
	"time"

	"github.com/zjrosen/abikit/internal/paths"
	"github.com/zjrosen/abikit/internal/tracing"
)

// Config holds all configuration options for abikit.
type Config struct {
	VersionsFile   string          `mapstructure:"versions_file"`   // empty uses the bundled set
	DefaultVersion string          `mapstructure:"default_version"` // overrides the version file default
	Debug          bool            `mapstructure:"debug"`
	LogFile        string          `mapstructure:"log_file"`
	Blob           BlobConfig      `mapstructure:"blob"`
	Server         ServerConfig    `mapstructure:"server"`
	Tracing        tracing.Config  `mapstructure:"tracing"`
	Flags          map[string]bool `mapstructure:"flags"`
}

// BlobConfig configures the blob store.
type BlobConfig struct {
	KeyStrategy     string        `mapstructure:"key_strategy"` // "uuid" (default) or "cid"
	TTL             time.Duration `mapstructure:"ttl"`          // zero keeps blobs in memory until removed
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Persist         bool          `mapstructure:"persist"`
	PersistTTL      time.Duration `mapstructure:"persist_ttl"` // zero keeps persisted blobs until removed
	DBPath          string        `mapstructure:"db_path"`
}

// ServerConfig configures `abikit serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// DefaultServerAddr is where `abikit serve` listens by default.
const DefaultServerAddr = "127.0.0.1:8089"

// DefaultLogFilePath returns ~/.config/abikit/debug.log.
func DefaultLogFilePath() string {
	return paths.InConfigDir("debug.log")
}

// DefaultDBPath returns ~/.config/abikit/blobs.db.
func DefaultDBPath() string {
	return paths.InConfigDir("blobs.db")
}

// DefaultTracesFilePath returns ~/.config/abikit/traces/traces.jsonl.
func DefaultTracesFilePath() string {
	return paths.InConfigDir("traces/traces.jsonl")
}

// Defaults returns a Config with default values.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()
	return Config{
		LogFile: DefaultLogFilePath(),
		Blob: BlobConfig{
			KeyStrategy:     "uuid",
			CleanupInterval: 30 * time.Minute,
			DBPath:          DefaultDBPath(),
		},
		Server:  ServerConfig{Addr: DefaultServerAddr},
		Tracing: tr,
		Flags:   map[string]bool{},
	}
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if err := ValidateBlob(cfg.Blob); err != nil {
		return err
	}
	if err := ValidateServer(cfg.Server); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateBlob checks blob store configuration. Zero durations use defaults.
func ValidateBlob(blob BlobConfig) error {
	switch blob.KeyStrategy {
	case "", "uuid", "cid":
	default:
		return fmt.Errorf("blob.key_strategy must be \"uuid\" or \"cid\", got %q", blob.KeyStrategy)
	}
	if blob.TTL < 0 {
		return fmt.Errorf("blob.ttl must not be negative, got %v", blob.TTL)
	}
	if blob.CleanupInterval < 0 {
		return fmt.Errorf("blob.cleanup_interval must not be negative, got %v", blob.CleanupInterval)
	}
	if blob.PersistTTL < 0 {
		return fmt.Errorf("blob.persist_ttl must not be negative, got %v", blob.PersistTTL)
	}
	if blob.Persist && blob.DBPath == "" {
		return fmt.Errorf("blob.db_path is required when blob.persist is true")
	}
	return nil
}

// ValidateServer checks server configuration.
func ValidateServer(server ServerConfig) error {
	if server.Addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(server.Addr); err != nil {
		return fmt.Errorf("server.addr %q: %w", server.Addr, err)
	}
	return nil
}

// ValidateTracing checks tracing configuration. Empty values use defaults.
func ValidateTracing(tr tracing.Config) error {
	if tr.SampleRate < 0.0 || tr.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tr.SampleRate)
	}

	switch tr.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tr.Exporter)
	}

	if tr.Enabled {
		if tr.Exporter == tracing.ExporterFile && tr.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tr.Exporter == tracing.ExporterOTLP && tr.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

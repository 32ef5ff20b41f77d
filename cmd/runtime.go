package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/abikit/internal/blobstore"
	"github.com/zjrosen/abikit/internal/bundled"
	"github.com/zjrosen/abikit/internal/config"
	"github.com/zjrosen/abikit/internal/flags"
	"github.com/zjrosen/abikit/internal/infrastructure/sqlite"
	"github.com/zjrosen/abikit/internal/log"
	"github.com/zjrosen/abikit/internal/paths"
	"github.com/zjrosen/abikit/internal/presentation"
	"github.com/zjrosen/abikit/internal/tracing"
	"github.com/zjrosen/abikit/internal/versions"
)

// runtime holds what commands share for one invocation.
type runtime struct {
	registry *versions.Registry
	flags    *flags.Registry
	tracer   *tracing.Provider
	closers  []func()
}

var rt *runtime

func setupRuntime() error {
	if rt != nil {
		return nil
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	r := &runtime{}
	if cfg.Debug || debugFlag {
		logPath := paths.ExpandHome(cfg.LogFile)
		if logPath == "" {
			logPath = "debug.log"
		}
		if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		cleanup, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		r.closers = append(r.closers, cleanup)
		log.Info(log.CatConfig, "abikit starting", "version", version, "config", configFilePath())
	}

	tracingCfg := cfg.Tracing
	tracingCfg.FilePath = paths.ExpandHome(tracingCfg.FilePath)
	provider, err := tracing.NewProvider(tracingCfg)
	if err != nil {
		r.close()
		return fmt.Errorf("initializing tracing: %w", err)
	}
	r.tracer = provider
	r.closers = append(r.closers, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatConfig, "tracing shutdown failed", err)
		}
	})

	r.flags = flags.New(cfg.Flags)
	r.registry, err = loadRegistry(cfg, r.flags)
	if err != nil {
		r.close()
		return err
	}

	rt = r
	return nil
}

func shutdownRuntime() {
	if rt != nil {
		rt.close()
		rt = nil
	}
}

func (r *runtime) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

// loadRegistry builds the registry from the configured version file, or the
// bundled one, honoring default_version and the unversioned-sdk flag.
func loadRegistry(cfg config.Config, fl *flags.Registry) (*versions.Registry, error) {
	unversioned := fl.Enabled(flags.FlagUnversionedSDK)
	if cfg.VersionsFile == "" && cfg.DefaultVersion == "" && !unversioned {
		return versions.Shared(), nil
	}

	var (
		set *versions.Set
		err error
	)
	if cfg.VersionsFile != "" {
		set, err = versions.LoadSetFile(paths.ExpandHome(cfg.VersionsFile))
	} else {
		set, err = versions.LoadSet(bundled.FS(), bundled.VersionsFile)
	}
	if err != nil {
		return nil, fmt.Errorf("loading versions: %w", err)
	}
	if cfg.DefaultVersion != "" {
		if set, err = set.WithDefault(cfg.DefaultVersion); err != nil {
			return nil, fmt.Errorf("default_version: %w", err)
		}
	}
	return versions.New(set, versions.WithUnversioned(unversioned))
}

// openBlobStore builds the blob store. With persist, or when a command needs
// blobs to outlive the process, it is backed by the sqlite database.
func openBlobStore(persist bool) (*blobstore.Store, func(), error) {
	keys, err := blobstore.NewKeyGenerator(blobstore.KeyStrategy(cfg.Blob.KeyStrategy))
	if err != nil {
		return nil, nil, err
	}
	opts := blobstore.Options{
		Keys:            keys,
		TTL:             cfg.Blob.TTL,
		CleanupInterval: cfg.Blob.CleanupInterval,
		PersistTTL:      cfg.Blob.PersistTTL,
		Tracer:          rt.tracer.Tracer(),
	}

	var db *sqlite.DB
	if persist || cfg.Blob.Persist {
		db, err = sqlite.NewDB(paths.ExpandHome(cfg.Blob.DBPath))
		if err != nil {
			return nil, nil, fmt.Errorf("opening blob database: %w", err)
		}
		opts.Repository = db.BlobRepository()
	}

	store := blobstore.New(opts)
	return store, func() {
		store.Close()
		if db != nil {
			_ = db.Close()
		}
	}, nil
}

func formatter(w io.Writer) (*presentation.Formatter, error) {
	return presentation.NewFormatterFor(w, outputFormat)
}

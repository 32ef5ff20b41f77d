package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/abikit/internal/log"
	"github.com/zjrosen/abikit/internal/paths"
	"github.com/zjrosen/abikit/internal/presentation"
	"github.com/zjrosen/abikit/internal/tracing"
	"github.com/zjrosen/abikit/internal/versions"
	"github.com/zjrosen/abikit/internal/watcher"
)

var resolveWatch bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <manifest>",
	Short: "Select the SDK version for an application manifest",
	Long: `Read an application manifest (JSON, or YAML for .yaml/.yml files) and print
the SDK version it runs on. A manifest without sdkVersion runs on the default
version. A manifest naming a version that is not bundled cannot be run and
makes the command fail.

With --watch the manifest is re-resolved whenever it changes.

Examples:
  abikit resolve app.json
  abikit resolve app.yaml --watch`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resolveWatch {
			return resolveOnce(cmd.Context(), args[0], cmd.OutOrStdout())
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchResolve(ctx, args[0], cmd.OutOrStdout())
	},
}

func init() {
	resolveCmd.Flags().BoolVarP(&resolveWatch, "watch", "w", false, "re-resolve when the manifest changes")
	rootCmd.AddCommand(resolveCmd)
}

func resolveOnce(ctx context.Context, path string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_, span := rt.tracer.Tracer().Start(ctx, tracing.SpanResolve)
	defer span.End()
	span.SetAttributes(attribute.String(tracing.AttrManifestPath, path))

	manifest, err := readManifest(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	d, err := rt.registry.Resolve(manifest)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var unsupported *versions.UnsupportedVersionError
		if errors.As(err, &unsupported) {
			return fmt.Errorf("cannot run this content: %w", err)
		}
		return err
	}
	span.SetAttributes(
		attribute.String(tracing.AttrSDKVersion, d.Version),
		attribute.String(tracing.AttrSymbolPrefix, d.SymbolPrefix),
	)

	f, err := formatter(out)
	if err != nil {
		return err
	}
	return f.Format(presentation.FromResolution(path, d, manifest))
}

// watchResolve resolves path now and after every change until ctx ends.
// Resolution errors while watching are reported and do not stop the loop.
func watchResolve(ctx context.Context, path string, out io.Writer) error {
	watched := []string{path}
	if cfg.VersionsFile != "" {
		watched = append(watched, paths.ExpandHome(cfg.VersionsFile))
	}
	w, err := watcher.New(watcher.DefaultConfig(watched...))
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}

	report := func() {
		if err := resolveOnce(ctx, path, out); err != nil {
			log.ErrorErr(log.CatWatcher, "resolve failed", err, "manifest", path)
			_, _ = fmt.Fprintf(out, "error: %v\n", err)
		}
	}

	report()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			if cfg.VersionsFile != "" {
				reg, err := loadRegistry(cfg, rt.flags)
				if err != nil {
					_, _ = fmt.Fprintf(out, "error: %v\n", err)
					continue
				}
				rt.registry = reg
			}
			log.Debug(log.CatWatcher, "manifest changed", "path", path)
			report()
		}
	}
}

func readManifest(path string) (versions.Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is a command argument
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var manifest versions.Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &manifest)
	default:
		err = json.Unmarshal(data, &manifest)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return manifest, nil
}

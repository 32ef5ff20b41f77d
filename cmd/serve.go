package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/abikit/internal/blobstore"
	"github.com/zjrosen/abikit/internal/cachemanager"
	"github.com/zjrosen/abikit/internal/log"
	"github.com/zjrosen/abikit/internal/pubsub"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the blob store over HTTP",
	Long: `Serve the blob store over HTTP so blob-store:// keys can be loaded by URL.

  POST   /blobs       store the request body
  GET    /blobs/{id}  fetch a blob
  DELETE /blobs/{id}  remove a blob

Blobs stay in memory until removed, or for blob.ttl when it is set. With
blob.persist they are also kept in the sqlite database and expired ones are
purged every blob.cleanup_interval. Store, remove and expiry events are
logged; with --debug the log is also echoed to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", addr, err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		mirrorLog(ctx, cmd.ErrOrStderr())
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "abikit serving blobs on http://%s\n", ln.Addr())
		return serveBlobs(ctx, ln)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "address to listen on (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

// serveBlobs serves the blob handler on ln until ctx ends.
func serveBlobs(ctx context.Context, ln net.Listener) error {
	store, closeStore, err := openBlobStore(false)
	if err != nil {
		_ = ln.Close()
		return err
	}
	events := pubsub.Listen(ctx, store.Events(), func(e pubsub.Event[blobstore.Event]) {
		log.Info(log.CatServer, "blob "+string(e.Type), "key", e.Payload.Key, "size", e.Payload.Size)
	})
	defer func() {
		closeStore()
		<-events.Done()
	}()

	server := &http.Server{
		Handler:           blobstore.NewHandler(store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()
	log.Info(log.CatServer, "blob server started", "addr", ln.Addr().String())

	interval := cfg.Blob.CleanupInterval
	if interval <= 0 {
		interval = cachemanager.DefaultCleanupInterval
	}
	purge := time.NewTicker(interval)
	defer purge.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.ErrorErr(log.CatServer, "blob server shutdown failed", err)
			}
			log.Info(log.CatServer, "blob server stopped")
			return nil
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case <-purge.C:
			if _, err := store.PurgeExpired(ctx); err != nil {
				log.ErrorErr(log.CatServer, "purging expired blobs failed", err)
			}
		}
	}
}

// mirrorLog copies log lines to w until ctx ends. The returned channel is
// closed when copying stops; it is nil when logging is off.
func mirrorLog(ctx context.Context, w io.Writer) <-chan struct{} {
	lines := log.Subscribe(ctx)
	if lines == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for line := range lines {
			_, _ = io.WriteString(w, line.Payload)
		}
	}()
	return done
}

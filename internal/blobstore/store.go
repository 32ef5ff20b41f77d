package blobstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/abikit/internal/cachemanager"
	"github.com/zjrosen/abikit/internal/log"
	"github.com/zjrosen/abikit/internal/pubsub"
	"github.com/zjrosen/abikit/internal/tracing"
)

// Blobs is the keyed blob cache contract.
type Blobs interface {
	Store(ctx context.Context, blob []byte) (string, error)
	Fetch(ctx context.Context, key string) ([]byte, bool)
	Remove(ctx context.Context, key string) error
}

// Event describes a change to the store.
type Event struct {
	Key  string
	Size int
}

// Options configures a Store.
type Options struct {
	// Keys generates blob ids. Defaults to uuid keys.
	Keys KeyGenerator
	// TTL is how long blobs stay in memory. Zero or negative keeps them
	// until removed.
	TTL time.Duration
	// CleanupInterval is how often expired memory entries are swept.
	CleanupInterval time.Duration
	// Repository, when set, persists blobs and backs memory misses.
	Repository Repository
	// PersistTTL is the lifetime of persisted blobs. Zero keeps them until removed.
	PersistTTL time.Duration
	// Tracer records a span per operation. Defaults to a no-op tracer.
	Tracer trace.Tracer
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// entry is a blob held in memory. data is never mutated after the entry is
// created; refs is guarded by Store.mu and only counted without a repository.
type entry struct {
	data    []byte
	refs    int
	removed atomic.Bool
}

// Store is the synchronous blob cache. All methods are safe for concurrent use.
//
// Every Store of a key takes a reference and every Remove releases one; the
// blob is dropped when the last reference goes. With uuid keys each blob has
// exactly one holder. With cid keys equal content shares a key, so two
// callers storing the same bytes each keep their blob until they remove it.
type Store struct {
	mu     sync.Mutex // serializes Store and Remove
	memory *cachemanager.InMemoryCacheManager[string, *entry]
	reader *cachemanager.ReadThroughCache[string, *entry, string]
	repo   Repository
	keys   KeyGenerator
	ttl    time.Duration
	pttl   time.Duration
	tracer trace.Tracer
	now    func() time.Time
	events *pubsub.Broker[Event]
}

var _ Blobs = (*Store)(nil)

// New creates a Store.
func New(opts Options) *Store {
	if opts.Keys == nil {
		opts.Keys = uuidKeys{}
	}
	if opts.TTL <= 0 {
		opts.TTL = cachemanager.NoExpiration
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = cachemanager.DefaultCleanupInterval
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("blobstore")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		memory: cachemanager.NewInMemoryCacheManager[string, *entry]("blobs", opts.TTL, opts.CleanupInterval),
		repo:   opts.Repository,
		keys:   opts.Keys,
		ttl:    opts.TTL,
		pttl:   opts.PersistTTL,
		tracer: opts.Tracer,
		now:    opts.Now,
		events: pubsub.NewBroker[Event](),
	}
	s.reader = cachemanager.NewReadThroughCache[string, *entry, string](s.memory, s.load, false)
	s.memory.OnEvicted(func(key string, e *entry) {
		if e == nil || e.removed.Load() {
			return
		}
		log.Debug(log.CatCache, "blob expired from memory", "key", key, "size", len(e.data))
		s.events.Publish(pubsub.ExpiredEvent, Event{Key: key, Size: len(e.data)})
	})
	return s
}

// Store saves a copy of blob and returns its key.
func (s *Store) Store(ctx context.Context, blob []byte) (string, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanBlobStore, trace.WithAttributes(
		attribute.Int(tracing.AttrBlobSize, len(blob)),
	))
	defer span.End()

	id, err := s.keys.NewID(blob)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	key := FormatKey(id)
	data := clone(blob)

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := &entry{data: data, refs: 1}
	if s.repo != nil {
		record := Record{Key: key, Data: data, CreatedAt: s.now()}
		if s.pttl > 0 {
			record.ExpiresAt = record.CreatedAt.Add(s.pttl)
		}
		if err := s.repo.Save(ctx, record); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.ErrorErr(log.CatCache, "persist blob failed", err, "key", key)
			return "", fmt.Errorf("persist blob: %w", err)
		}
	} else if prev, ok := s.memory.Get(ctx, key); ok {
		stored.refs = prev.refs + 1
	}

	s.memory.Set(ctx, key, stored, s.ttl)
	span.SetAttributes(attribute.String(tracing.AttrBlobKey, key))
	log.Debug(log.CatCache, "blob stored", "key", key, "size", len(data))
	s.events.Publish(pubsub.StoredEvent, Event{Key: key, Size: len(data)})
	return key, nil
}

// Fetch returns a copy of the blob stored under key. A miss, an expired blob
// or a malformed key all report ok == false.
func (s *Store) Fetch(ctx context.Context, key string) ([]byte, bool) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanBlobFetch, trace.WithAttributes(
		attribute.String(tracing.AttrBlobKey, key),
	))
	defer span.End()

	if _, err := ParseKey(key); err != nil {
		span.SetAttributes(attribute.Bool(tracing.AttrBlobHit, false))
		return nil, false
	}

	e, err := s.reader.Get(ctx, key, key, s.ttl)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.ErrorErr(log.CatCache, "load blob failed", err, "key", key)
		}
		span.SetAttributes(attribute.Bool(tracing.AttrBlobHit, false))
		return nil, false
	}

	span.SetAttributes(attribute.Bool(tracing.AttrBlobHit, true), attribute.Int(tracing.AttrBlobSize, len(e.data)))
	return clone(e.data), true
}

// load backs memory misses with the repository.
func (s *Store) load(ctx context.Context, key string) (*entry, error) {
	if s.repo == nil {
		return nil, ErrNotFound
	}
	now := s.now()
	record, err := s.repo.Find(ctx, key, now)
	if err != nil {
		return nil, err
	}
	if record.Expired(now) {
		return nil, ErrNotFound
	}
	return &entry{data: record.Data}, nil
}

// Remove releases one reference to key and deletes the blob once none are
// left. Removing a missing key is a no-op.
func (s *Store) Remove(ctx context.Context, key string) error {
	ctx, span := s.tracer.Start(ctx, tracing.SpanBlobRemove, trace.WithAttributes(
		attribute.String(tracing.AttrBlobKey, key),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	var remaining int64
	if s.repo != nil {
		n, err := s.repo.Release(ctx, key)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("release persisted blob: %w", err)
		}
		remaining = n
	} else if e, ok := s.memory.Get(ctx, key); ok && e.refs > 1 {
		e.refs--
		remaining = int64(e.refs)
	}

	if remaining > 0 {
		log.Debug(log.CatCache, "blob reference released", "key", key, "refs", remaining)
		return nil
	}

	s.evict(ctx, key)
	log.Debug(log.CatCache, "blob removed", "key", key)
	s.events.Publish(pubsub.RemovedEvent, Event{Key: key})
	return nil
}

// evict drops key from memory without reporting it as expired.
func (s *Store) evict(ctx context.Context, key string) {
	if e, ok := s.memory.Get(ctx, key); ok {
		e.removed.Store(true)
	}
	_ = s.memory.Delete(ctx, key)
}

// PurgeExpired drops expired persisted blobs. Without a repository it is a no-op.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	if s.repo == nil {
		return 0, nil
	}
	n, err := s.repo.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge expired blobs: %w", err)
	}
	if n > 0 {
		log.Info(log.CatCache, "purged expired blobs", "count", n)
	}
	return n, nil
}

// Events returns the subscriber side of the store's change feed: stored and
// removed blobs, and blobs dropped from memory when their TTL ran out.
func (s *Store) Events() pubsub.Subscriber[Event] {
	return s.events
}

// Len returns the number of blobs held in memory.
func (s *Store) Len() int {
	return s.memory.Len()
}

// Close stops the change feed.
func (s *Store) Close() {
	s.events.Close()
}

func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

package blobstore

import (
	"context"
	"sync"
)

// Async exposes Blobs through completion callbacks. Every call returns
// immediately; the work runs on its own goroutine and the callback fires on
// that goroutine once it finishes. Calls are not ordered relative to each
// other, so a caller that needs store-then-fetch ordering on one key waits for
// the store callback before issuing the fetch. Operations cannot be cancelled:
// cancelling the context passed in does not stop them.
type Async struct {
	blobs Blobs
	wg    sync.WaitGroup
}

// NewAsync wraps blobs.
func NewAsync(blobs Blobs) *Async {
	return &Async{blobs: blobs}
}

// StoreAsync stores blob and calls done with its key, or with the error.
func (a *Async) StoreAsync(ctx context.Context, blob []byte, done func(key string, err error)) {
	a.run(ctx, func(ctx context.Context) {
		key, err := a.blobs.Store(ctx, blob)
		if done != nil {
			done(key, err)
		}
	})
}

// FetchAsync calls done with the blob stored under key, or nil on a miss.
func (a *Async) FetchAsync(ctx context.Context, key string, done func(blob []byte)) {
	a.run(ctx, func(ctx context.Context) {
		blob, ok := a.blobs.Fetch(ctx, key)
		if !ok {
			blob = nil
		}
		if done != nil {
			done(blob)
		}
	})
}

// RemoveAsync removes key and calls done when finished. done may be nil.
func (a *Async) RemoveAsync(ctx context.Context, key string, done func(err error)) {
	a.run(ctx, func(ctx context.Context) {
		err := a.blobs.Remove(ctx, key)
		if done != nil {
			done(err)
		}
	})
}

// Wait blocks until every operation issued so far has completed.
func (a *Async) Wait() {
	a.wg.Wait()
}

func (a *Async) run(ctx context.Context, fn func(context.Context)) {
	ctx = context.WithoutCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn(ctx)
	}()
}

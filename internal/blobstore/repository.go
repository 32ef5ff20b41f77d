package blobstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Repository for unknown or expired keys.
var ErrNotFound = errors.New("blob not found")

// Record is a persisted blob.
type Record struct {
	Key       string
	Data      []byte
	CreatedAt time.Time
	ExpiresAt time.Time // zero: never expires
	Refs      int64     // live references, set by Find
}

// Expired reports whether r has expired at now.
func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// Repository persists blobs beyond the memory cache.
type Repository interface {
	// Save inserts r with one reference. If a live record for r.Key exists
	// its data is replaced and it gains a reference; an expired one starts
	// over at one.
	Save(ctx context.Context, r Record) error
	// Find returns the record for key that is live at now, or ErrNotFound.
	Find(ctx context.Context, key string, now time.Time) (Record, error)
	// Release drops one reference to key, deletes the record when none are
	// left, and returns the references remaining. Releasing a missing key
	// returns zero.
	Release(ctx context.Context, key string) (int64, error)
	// PurgeExpired deletes records expired at now and returns how many.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

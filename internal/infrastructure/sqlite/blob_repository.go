package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/abikit/internal/blobstore"
)

// blobRepository implements blobstore.Repository using SQLite.
type blobRepository struct {
	db *sql.DB
}

func newBlobRepository(db *sql.DB) *blobRepository {
	return &blobRepository{db: db}
}

var _ blobstore.Repository = (*blobRepository)(nil)

// Save inserts the record with one reference. Saving over a live record
// replaces its data and adds a reference; a record already expired at
// record.CreatedAt starts over at one.
func (r *blobRepository) Save(ctx context.Context, record blobstore.Record) error {
	m := toBlobModel(record)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO blobs (key, data, size, created_at, expires_at, refs) VALUES (?, ?, ?, ?, ?, 1)
		ON CONFLICT (key) DO UPDATE SET
			refs = CASE
				WHEN blobs.expires_at IS NOT NULL AND blobs.expires_at <= excluded.created_at THEN 1
				ELSE blobs.refs + 1
			END,
			data = excluded.data, size = excluded.size,
			created_at = excluded.created_at, expires_at = excluded.expires_at`,
		m.Key, m.Data, m.Size, m.CreatedAt, m.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save blob: %w", err)
	}
	return nil
}

// Find returns the record for key. Records expired at now are reported as
// blobstore.ErrNotFound even before they are purged.
func (r *blobRepository) Find(ctx context.Context, key string, now time.Time) (blobstore.Record, error) {
	var m BlobModel
	err := r.db.QueryRowContext(ctx,
		`SELECT key, data, size, created_at, expires_at, refs FROM blobs
		WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)`,
		key, now.UnixNano(),
	).Scan(&m.Key, &m.Data, &m.Size, &m.CreatedAt, &m.ExpiresAt, &m.Refs)
	if errors.Is(err, sql.ErrNoRows) {
		return blobstore.Record{}, blobstore.ErrNotFound
	}
	if err != nil {
		return blobstore.Record{}, fmt.Errorf("failed to find blob: %w", err)
	}
	return m.toRecord(), nil
}

// Release drops one reference to key and deletes the row once none are left.
// A missing key releases nothing and reports zero.
func (r *blobRepository) Release(ctx context.Context, key string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin release: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var refs int64
	err = tx.QueryRowContext(ctx,
		`UPDATE blobs SET refs = refs - 1 WHERE key = ? RETURNING refs`, key,
	).Scan(&refs)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to release blob: %w", err)
	}

	if refs <= 0 {
		refs = 0
		if _, err := tx.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
			return 0, fmt.Errorf("failed to delete blob: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit release: %w", err)
	}
	return refs, nil
}

// PurgeExpired deletes every record that expired at or before now.
func (r *blobRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM blobs WHERE expires_at IS NOT NULL AND expires_at <= ?`, now.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired blobs: %w", err)
	}
	return result.RowsAffected()
}

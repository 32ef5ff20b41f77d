package sqlite

import (
	"time"

	"github.com/zjrosen/abikit/internal/blobstore"
)

// BlobModel represents the database row for the blobs table.
type BlobModel struct {
	Key       string
	Data      []byte
	Size      int64
	CreatedAt int64  // Unix nanoseconds
	ExpiresAt *int64 // Unix nanoseconds, nullable
	Refs      int64
}

func toBlobModel(r blobstore.Record) *BlobModel {
	m := &BlobModel{
		Key:       r.Key,
		Data:      r.Data,
		Size:      int64(len(r.Data)),
		CreatedAt: r.CreatedAt.UnixNano(),
	}
	if m.Data == nil {
		m.Data = []byte{}
	}
	if !r.ExpiresAt.IsZero() {
		expiresAt := r.ExpiresAt.UnixNano()
		m.ExpiresAt = &expiresAt
	}
	return m
}

func (m *BlobModel) toRecord() blobstore.Record {
	r := blobstore.Record{
		Key:       m.Key,
		Data:      m.Data,
		CreatedAt: time.Unix(0, m.CreatedAt),
		Refs:      m.Refs,
	}
	if r.Data == nil {
		r.Data = []byte{}
	}
	if m.ExpiresAt != nil {
		r.ExpiresAt = time.Unix(0, *m.ExpiresAt)
	}
	return r
}

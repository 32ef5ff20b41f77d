package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // decode jpeg blobs stored by other producers
	"image/png"
)

// ImageStore stores images as PNG blobs under ordinary blob keys.
// Encoding drops anything PNG cannot carry (scale, orientation, EXIF).
type ImageStore struct {
	blobs Blobs
}

// NewImageStore wraps blobs.
func NewImageStore(blobs Blobs) *ImageStore {
	return &ImageStore{blobs: blobs}
}

// StoreImage encodes img as PNG and stores it.
func (s *ImageStore) StoreImage(ctx context.Context, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return s.blobs.Store(ctx, buf.Bytes())
}

// Image decodes the blob stored under key. A miss or an undecodable blob
// reports ok == false.
func (s *ImageStore) Image(ctx context.Context, key string) (image.Image, bool) {
	data, ok := s.blobs.Fetch(ctx, key)
	if !ok {
		return nil, false
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	return img, true
}

package blobstore

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/require"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return img
}

func TestImageStore_RoundTrip(t *testing.T) {
	s := New(Options{})
	defer s.Close()
	images := NewImageStore(s)
	ctx := context.Background()

	key, err := images.StoreImage(ctx, testImage())
	require.NoError(t, err)

	raw, ok := s.Fetch(ctx, key)
	require.True(t, ok)
	require.True(t, bytes.HasPrefix(raw, []byte("\x89PNG")), "stored as png")

	img, ok := images.Image(ctx, key)
	require.True(t, ok)
	require.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
	r, _, _, a := img.At(1, 1).RGBA()
	require.Equal(t, uint32(0xffff), r)
	require.Equal(t, uint32(0xffff), a)
}

func TestImageStore_DecodesJPEGBlobs(t *testing.T) {
	s := New(Options{})
	defer s.Close()
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(), nil))
	key, err := s.Store(ctx, buf.Bytes())
	require.NoError(t, err)

	img, ok := NewImageStore(s).Image(ctx, key)
	require.True(t, ok)
	require.Equal(t, 4, img.Bounds().Dx())
}

func TestImageStore_Misses(t *testing.T) {
	s := New(Options{})
	defer s.Close()
	images := NewImageStore(s)
	ctx := context.Background()

	_, ok := images.Image(ctx, FormatKey("missing"))
	require.False(t, ok)

	key, err := s.Store(ctx, []byte("not an image"))
	require.NoError(t, err)
	_, ok = images.Image(ctx, key)
	require.False(t, ok)
}

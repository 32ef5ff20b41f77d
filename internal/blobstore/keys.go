package blobstore

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Scheme is the URL scheme of blob keys.
const Scheme = "blob-store"

const keyPrefix = Scheme + "://"

// ErrInvalidKey is returned for strings that are not blob keys.
var ErrInvalidKey = errors.New("invalid blob key")

// KeyStrategy selects how blob ids are generated.
type KeyStrategy string

const (
	// KeyStrategyUUID gives every stored blob a fresh random id.
	KeyStrategyUUID KeyStrategy = "uuid"
	// KeyStrategyCID derives the id from the content (CIDv1, raw, sha2-256);
	// identical blobs share one key.
	KeyStrategyCID KeyStrategy = "cid"
)

// KeyGenerator produces the id part of a blob key.
type KeyGenerator interface {
	NewID(blob []byte) (string, error)
}

// NewKeyGenerator returns the generator for strategy. Empty means uuid.
func NewKeyGenerator(strategy KeyStrategy) (KeyGenerator, error) {
	switch strategy {
	case KeyStrategyUUID, "":
		return uuidKeys{}, nil
	case KeyStrategyCID:
		return cidKeys{}, nil
	default:
		return nil, fmt.Errorf("unsupported key strategy: %q", strategy)
	}
}

type uuidKeys struct{}

func (uuidKeys) NewID([]byte) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return id.String(), nil
}

type cidKeys struct{}

func (cidKeys) NewID(blob []byte) (string, error) {
	sum, err := multihash.Sum(blob, multihash.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("hash blob: %w", err)
	}
	return cid.NewCidV1(cid.Raw, sum).String(), nil
}

// FormatKey builds the key for id.
func FormatKey(id string) string {
	return keyPrefix + id
}

// ParseKey returns the id part of key.
func ParseKey(key string) (string, error) {
	id, ok := strings.CutPrefix(key, keyPrefix)
	if !ok || id == "" || strings.ContainsAny(id, "/?#") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return id, nil
}

// CanHandleURL reports whether raw is a blob-store URL.
func CanHandleURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, Scheme)
}

package blobstore

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/require"
)

func TestNewKeyGenerator(t *testing.T) {
	for _, strategy := range []KeyStrategy{"", KeyStrategyUUID, KeyStrategyCID} {
		gen, err := NewKeyGenerator(strategy)
		require.NoError(t, err, "strategy %q", strategy)
		require.NotNil(t, gen)
	}

	_, err := NewKeyGenerator("sequential")
	require.Error(t, err)
}

func TestUUIDKeys_Unique(t *testing.T) {
	gen := uuidKeys{}
	a, err := gen.NewID([]byte("same"))
	require.NoError(t, err)
	b, err := gen.NewID([]byte("same"))
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	_, err = uuid.Parse(a)
	require.NoError(t, err)
}

func TestCIDKeys_ContentAddressed(t *testing.T) {
	gen := cidKeys{}
	a, err := gen.NewID([]byte("same"))
	require.NoError(t, err)
	b, err := gen.NewID([]byte("same"))
	require.NoError(t, err)
	c, err := gen.NewID([]byte("different"))
	require.NoError(t, err)

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)

	parsed, err := cid.Decode(a)
	require.NoError(t, err)
	require.Equal(t, uint64(cid.Raw), parsed.Prefix().Codec)
}

func TestParseKey(t *testing.T) {
	id, err := ParseKey(FormatKey("abc"))
	require.NoError(t, err)
	require.Equal(t, "abc", id)

	for _, bad := range []string{"", "abc", "blob-store://", "http://abc", "blob-store://a/b", "blob-store://a?x=1"} {
		_, err := ParseKey(bad)
		require.ErrorIs(t, err, ErrInvalidKey, "key %q", bad)
	}
}

func TestCanHandleURL(t *testing.T) {
	require.True(t, CanHandleURL("blob-store://abc"))
	require.True(t, CanHandleURL("BLOB-STORE://abc"))
	require.False(t, CanHandleURL("https://example.com/a.png"))
	require.False(t, CanHandleURL("::not a url"))
	require.True(t, strings.HasPrefix(FormatKey("x"), Scheme+"://"))
}

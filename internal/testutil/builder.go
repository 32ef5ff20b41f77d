// Package testutil builds version sets, registries and databases for tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/abikit/internal/infrastructure/sqlite"
	"github.com/zjrosen/abikit/internal/versions"
)

// SetBuilder accumulates version descriptors for a test Set.
type SetBuilder struct {
	t           *testing.T
	descriptors []versions.Descriptor
	defaultV    string
}

// NewSetBuilder creates an empty builder.
func NewSetBuilder(t *testing.T) *SetBuilder {
	t.Helper()
	return &SetBuilder{t: t}
}

// WithVersion adds a version. Prefixes are derived unless set by opts.
func (b *SetBuilder) WithVersion(version string, opts ...VersionOption) *SetBuilder {
	d := versions.Descriptor{Version: version}
	for _, opt := range opts {
		opt(&d)
	}
	b.descriptors = append(b.descriptors, d)
	return b
}

// WithDefault sets the default version.
func (b *SetBuilder) WithDefault(version string) *SetBuilder {
	b.defaultV = version
	return b
}

// Set builds the Set, failing the test on invalid input.
func (b *SetBuilder) Set() *versions.Set {
	b.t.Helper()
	set, err := versions.NewSet(b.descriptors, b.defaultV)
	require.NoError(b.t, err)
	return set
}

// Registry builds a Registry over the Set.
func (b *SetBuilder) Registry(opts ...versions.Option) *versions.Registry {
	b.t.Helper()
	reg, err := versions.New(b.Set(), opts...)
	require.NoError(b.t, err)
	return reg
}

// NewTestDB opens a migrated blob database in a temp dir, closed on cleanup.
func NewTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "blobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

package testutil

// WithBundledVersions adds the three versions shipped in the bundled file.
func (b *SetBuilder) WithBundledVersions() *SetBuilder {
	return b.
		WithVersion("6.0.0").
		WithVersion("7.0.0").
		WithVersion("8.0.0").
		WithDefault("8.0.0")
}

// WithTwoVersions adds 6.0.0 and 7.0.0; the default is the newest.
func (b *SetBuilder) WithTwoVersions() *SetBuilder {
	return b.WithVersion("6.0.0").WithVersion("7.0.0")
}

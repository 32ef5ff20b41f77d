package tracing

// Span names.
const (
	SpanBlobStore  = "blobstore.store"
	SpanBlobFetch  = "blobstore.fetch"
	SpanBlobRemove = "blobstore.remove"
	SpanResolve    = "versions.resolve"
)

// Span attribute keys.
const (
	AttrBlobKey  = "blob.key"
	AttrBlobSize = "blob.size"
	AttrBlobHit  = "blob.hit"

	AttrSDKVersion   = "sdk.version"
	AttrSymbolPrefix = "sdk.symbol_prefix"
	AttrManifestPath = "manifest.path"
)

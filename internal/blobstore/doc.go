// Package blobstore is the keyed blob cache UI code uses for transient binary
// payloads such as decoded images.
//
// A caller stores a blob and receives a generated key ("blob-store://<id>"),
// fetches it back any number of times, and removes it when done. Store is the
// synchronous, concurrency-safe core; Async layers the callback contract on
// top, with callbacks running on an unspecified goroutine. ImageStore offers
// image.Image convenience over the same keys, and Handler serves blobs over
// HTTP so URL-based consumers can load them.
//
// Blobs stay in memory until their last holder removes them; a TTL is opt-in.
// Storing equal content under a content-addressed key adds a reference rather
// than a second copy. When a Repository is configured blobs are also
// persisted, and fetches read through memory to the repository.
package blobstore

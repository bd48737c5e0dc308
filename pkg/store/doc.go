// Package store implements the content-addressed object store.
//
// Objects are opaque byte sequences named by the SHA-1 of their raw
// content. The store compresses each object on disk (zlib by default,
// zstd when core.compression says so) and verifies the content hash on
// every read.
package store

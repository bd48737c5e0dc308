package store

import "github.com/utkarsh5026/rgit/pkg/objects"

// ObjectStore is durable, deduplicated, content-addressed storage for
// immutable byte sequences. It does not interpret the bytes: file
// contents, trees and commits are all just objects.
type ObjectStore interface {
	// Put stores data and returns its digest. If an object with that
	// digest already exists nothing is written. The object is durable
	// when Put returns.
	Put(data []byte) (objects.Digest, error)

	// Get returns the exact bytes previously stored under digest, or an
	// error matching errs.ErrObjectNotFound.
	Get(digest objects.Digest) ([]byte, error)

	// Exists reports whether digest is stored, without reading it.
	Exists(digest objects.Digest) (bool, error)
}

package index

import (
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

// Kind says what a staged path refers to.
type Kind string

const (
	// KindFile is a regular file; the digest names its blob.
	KindFile Kind = "file"

	// KindDirectory exists for completeness of the model. Directories are
	// derived from file paths and are never stored in the index.
	KindDirectory Kind = "directory"
)

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Entry is one staged path.
type Entry struct {
	// Path is repository-relative with forward slashes.
	Path scpath.RelativePath

	// Digest names the blob recorded when the path was staged.
	Digest objects.Digest

	// Kind is always KindFile for entries read from disk.
	Kind Kind
}

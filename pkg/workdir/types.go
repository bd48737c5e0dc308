package workdir

import (
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/repository/refs"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

// ChangeType describes how a staged file relates to the HEAD snapshot.
type ChangeType int

const (
	// ChangeNew is a staged path HEAD does not have.
	ChangeNew ChangeType = iota
	// ChangeModified is a staged path whose digest differs from HEAD.
	ChangeModified
	// ChangeUnchanged is a staged path identical to HEAD.
	ChangeUnchanged
)

// String returns the string representation of the change type
func (c ChangeType) String() string {
	switch c {
	case ChangeNew:
		return "new file"
	case ChangeModified:
		return "modified"
	case ChangeUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// StagedFile is an index entry as the next commit will record it.
type StagedFile struct {
	Path   scpath.RelativePath
	Digest objects.Digest
	Change ChangeType
}

// Status represents the state of the working directory relative to the
// staging index and the HEAD commit. Every list is sorted by path.
type Status struct {
	Branch refs.RefPath
	Head   objects.Digest // zero before the first commit

	Staged    []StagedFile
	Modified  []scpath.RelativePath // working content differs from the index, or from HEAD when unstaged
	Deleted   []scpath.RelativePath // tracked but gone from the working tree
	Untracked []scpath.RelativePath // unknown paths whose content was never stored
}

// IsClean reports whether there is nothing staged and nothing changed.
func (s *Status) IsClean() bool {
	return len(s.Staged) == 0 && len(s.Modified) == 0 &&
		len(s.Deleted) == 0 && len(s.Untracked) == 0
}

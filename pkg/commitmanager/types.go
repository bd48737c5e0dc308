package commitmanager

import (
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/objects/commit"
	"github.com/utkarsh5026/rgit/pkg/repository/refs"
)

// CommitOptions contains configuration for creating a commit
type CommitOptions struct {
	// Message is the commit message (required)
	Message string

	// Author is who the commit is attributed to (required). Callers fill
	// it from configuration or a command-line override.
	Author commit.Identity
}

// CommitResult describes a commit that was just created.
type CommitResult struct {
	Digest objects.Digest
	Commit *commit.Commit

	// Branch is the ref that now points at the commit.
	Branch refs.RefPath

	// Files is the number of staged files the snapshot contains.
	Files int
}

// IsRoot reports whether the commit has no parent.
func (r *CommitResult) IsRoot() bool {
	return !r.Commit.HasParent()
}

// HistoryEntry is one commit in a history walk.
type HistoryEntry struct {
	Digest objects.Digest
	Commit *commit.Commit
}

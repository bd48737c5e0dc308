package branch

import (
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/repository/refs"
)

// BranchInfo describes one branch.
type BranchInfo struct {
	// Name is the short branch name, e.g. "feature/x".
	Name string

	// Ref is the full reference path, e.g. "refs/heads/feature/x".
	Ref refs.RefPath

	// Head is the commit the branch points to. It is zero for the
	// current branch before its first commit.
	Head objects.Digest

	// IsCurrent reports whether HEAD points at this branch.
	IsCurrent bool

	// Subject is the first line of the tip commit's message.
	Subject string
}

// CreateConfig holds configuration for branch creation
type CreateConfig struct {
	// StartPoint is a branch name or commit digest. Empty means HEAD.
	StartPoint string

	// Force overwrites the branch if it already exists
	Force bool
}

// CreateOption is a functional option for configuring branch creation
type CreateOption func(*CreateConfig)

// WithStartPoint sets the starting point for the new branch
func WithStartPoint(ref string) CreateOption {
	return func(c *CreateConfig) {
		c.StartPoint = ref
	}
}

// WithForceCreate forces creation even if the branch exists
func WithForceCreate() CreateOption {
	return func(c *CreateConfig) {
		c.Force = true
	}
}

// DeleteConfig holds configuration for branch deletion
type DeleteConfig struct {
	// Force deletes the branch even if its tip is not reachable from HEAD
	Force bool
}

// DeleteOption is a functional option for configuring branch deletion
type DeleteOption func(*DeleteConfig)

// WithForceDelete deletes unmerged branches too
func WithForceDelete() DeleteOption {
	return func(c *DeleteConfig) {
		c.Force = true
	}
}

// RenameConfig holds configuration for branch renaming
type RenameConfig struct {
	// Force overwrites an existing branch with the new name
	Force bool
}

// RenameOption is a functional option for configuring branch renaming
type RenameOption func(*RenameConfig)

// WithForceRename overwrites the target branch if it exists
func WithForceRename() RenameOption {
	return func(c *RenameConfig) {
		c.Force = true
	}
}

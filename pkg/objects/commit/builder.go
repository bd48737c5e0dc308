package commit

import (
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/objects"
)

// CommitBuilder assembles a Commit field by field, collecting every
// validation failure so Build can report them together.
type CommitBuilder struct {
	commit *Commit
	errs   *multierror.Error
}

// NewCommitBuilder creates a new CommitBuilder
func NewCommitBuilder() *CommitBuilder {
	return &CommitBuilder{commit: &Commit{}}
}

// Tree sets the root tree digest
func (b *CommitBuilder) Tree(tree objects.Digest) *CommitBuilder {
	if err := tree.Validate(); err != nil {
		b.errs = multierror.Append(b.errs, errs.Wrap(err, "commit", "tree"))
	} else {
		b.commit.Tree = tree
	}
	return b
}

// Parent sets the parent commit. The zero digest means a root commit.
func (b *CommitBuilder) Parent(parent objects.Digest) *CommitBuilder {
	if parent.IsZero() {
		b.commit.Parent = ""
		return b
	}
	if err := parent.Validate(); err != nil {
		b.errs = multierror.Append(b.errs, errs.Wrap(err, "commit", "parent"))
	} else {
		b.commit.Parent = parent
	}
	return b
}

// Author sets the author identity
func (b *CommitBuilder) Author(author Identity) *CommitBuilder {
	if err := author.Validate(); err != nil {
		b.errs = multierror.Append(b.errs, err)
	} else {
		b.commit.Author = author
	}
	return b
}

// Date sets the commit timestamp, truncated to the second precision of
// the serialized form.
func (b *CommitBuilder) Date(when time.Time) *CommitBuilder {
	b.commit.Date = when.Truncate(time.Second)
	return b
}

// Message sets the commit message
func (b *CommitBuilder) Message(message string) *CommitBuilder {
	b.commit.Message = message
	return b
}

// Build returns the commit, or every field error collected along the way.
func (b *CommitBuilder) Build() (*Commit, error) {
	if err := b.errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	if err := b.commit.Validate(); err != nil {
		return nil, err
	}

	c := *b.commit
	return &c, nil
}

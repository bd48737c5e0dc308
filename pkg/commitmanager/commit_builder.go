package commitmanager

import (
	"fmt"
	"log/slog"

	"github.com/utkarsh5026/rgit/pkg/common/clock"
	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/common/logger"
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/objects/commit"
	"github.com/utkarsh5026/rgit/pkg/store"
)

// CommitRequest is everything a commit records except its timestamp,
// which comes from the builder's clock.
type CommitRequest struct {
	// Tree is the root tree digest; it must already be stored.
	Tree objects.Digest

	// Parent is the previous commit, or zero for a root commit.
	Parent objects.Digest

	Author  commit.Identity
	Message string
}

// CommitBuilder serializes and stores commit objects.
type CommitBuilder struct {
	store  store.ObjectStore
	clock  clock.Clock
	logger *slog.Logger
}

// NewCommitBuilder creates a CommitBuilder that stamps commits with clk.
func NewCommitBuilder(objectStore store.ObjectStore, clk clock.Clock) *CommitBuilder {
	return &CommitBuilder{
		store:  objectStore,
		clock:  clk,
		logger: logger.With("component", "commitbuilder"),
	}
}

// Commit builds and stores a commit and returns its digest.
func (cb *CommitBuilder) Commit(req CommitRequest) (objects.Digest, error) {
	c, err := cb.Build(req)
	if err != nil {
		return "", err
	}
	return cb.Write(c)
}

// Build validates req and returns the commit it describes without storing
// anything. The message is checked first, then the identity, then that
// the tree and parent are stored.
func (cb *CommitBuilder) Build(req CommitRequest) (*commit.Commit, error) {
	if err := commit.ValidateMessage(req.Message); err != nil {
		return nil, errs.Wrap(err, "commitmanager", "commit")
	}

	c, err := commit.NewCommitBuilder().
		Tree(req.Tree).
		Parent(req.Parent).
		Author(req.Author).
		Date(cb.clock.Now()).
		Message(req.Message).
		Build()
	if err != nil {
		return nil, errs.Wrap(err, "commitmanager", "commit")
	}

	if err := cb.requireStored(c.Tree, "tree"); err != nil {
		return nil, err
	}
	if c.HasParent() {
		if err := cb.requireStored(c.Parent, "parent commit"); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Write stores c and returns its digest.
func (cb *CommitBuilder) Write(c *commit.Commit) (objects.Digest, error) {
	digest, err := cb.store.Put(c.Serialize())
	if err != nil {
		return "", errs.Wrap(err, "commitmanager", "write commit")
	}

	cb.logger.Debug("stored commit", "digest", digest.Short(), "tree", c.Tree.Short(), "parent", c.Parent.Short())
	return digest, nil
}

func (cb *CommitBuilder) requireStored(digest objects.Digest, what string) error {
	exists, err := cb.store.Exists(digest)
	if err != nil {
		return errs.Wrap(err, "commitmanager", "commit")
	}
	if !exists {
		return errs.New("commitmanager", errs.CodeObjectNotFound, "commit",
			fmt.Sprintf("%s %s is not stored", what, digest), nil)
	}
	return nil
}

package commitmanager

import (
	"context"
	"log/slog"

	"github.com/utkarsh5026/rgit/pkg/common/clock"
	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/common/logger"
	"github.com/utkarsh5026/rgit/pkg/index"
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/objects/commit"
	"github.com/utkarsh5026/rgit/pkg/repository/refs"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
	"github.com/utkarsh5026/rgit/pkg/store"
)

// Manager turns the staging index into commits.
//
// The commit creation process follows these steps:
//  1. Reject an empty message or an invalid author
//  2. Load the index and reject an empty one
//  3. Build the tree hierarchy from the staged files
//  4. Read the current HEAD commit (parent)
//  5. Create and store the commit object
//  6. Move the branch HEAD points at
//  7. Clear the index
//
// Nothing is written before step 3, so a rejected commit leaves no
// objects behind. Manager is not safe for concurrent use.
type Manager struct {
	repo    scpath.RepositoryPath
	store   store.ObjectStore
	staging *index.StagingIndex
	trees   *TreeBuilder
	commits *CommitBuilder
	refs    *refs.RefManager
	logger  *slog.Logger
}

// NewManager creates a commit manager for repo. clk stamps new commits.
func NewManager(repo scpath.RepositoryPath, objectStore store.ObjectStore, clk clock.Clock) *Manager {
	source := repo.SourcePath()
	return &Manager{
		repo:    repo,
		store:   objectStore,
		staging: index.NewStagingIndex(source),
		trees:   NewTreeBuilder(objectStore),
		commits: NewCommitBuilder(objectStore, clk),
		refs:    refs.NewRefManager(source),
		logger:  logger.With("component", "commitmanager"),
	}
}

// CreateCommit snapshots the staged files as a new commit on the current
// branch.
func (m *Manager) CreateCommit(ctx context.Context, options CommitOptions) (*CommitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := commit.ValidateMessage(options.Message); err != nil {
		return nil, errs.Wrap(err, "commitmanager", "create commit")
	}
	if err := options.Author.Validate(); err != nil {
		return nil, errs.Wrap(err, "commitmanager", "create commit")
	}

	idx, err := m.staging.Load()
	if err != nil {
		m.logger.Error("failed to read index", "error", err, "path", m.staging.Path())
		return nil, err
	}
	if idx.IsEmpty() {
		return nil, errs.New("commitmanager", errs.CodeNothingStaged, "create commit",
			"nothing staged for commit", nil)
	}

	entries := idx.Entries()
	treeDigest, err := m.trees.Build(ctx, m.repo, entries)
	if err != nil {
		return nil, err
	}

	branch, parent, err := m.refs.ResolveHead()
	if err != nil {
		return nil, err
	}

	c, err := m.commits.Build(CommitRequest{
		Tree:    treeDigest,
		Parent:  parent,
		Author:  options.Author,
		Message: options.Message,
	})
	if err != nil {
		return nil, err
	}

	digest, err := m.commits.Write(c)
	if err != nil {
		return nil, err
	}

	if err := m.refs.UpdateRef(branch, digest); err != nil {
		return nil, err
	}

	if err := m.staging.Clear(); err != nil {
		return nil, err
	}

	m.logger.Info("created commit",
		"digest", digest.Short(),
		"branch", branch.ShortName(),
		"files", len(entries),
		"root", parent.IsZero())

	return &CommitResult{Digest: digest, Commit: c, Branch: branch, Files: len(entries)}, nil
}

// GetCommit reads and decodes a stored commit.
func (m *Manager) GetCommit(ctx context.Context, digest objects.Digest) (*commit.Commit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := m.store.Get(digest)
	if err != nil {
		return nil, err
	}

	c, err := commit.ParseCommit(data)
	if err != nil {
		return nil, errs.Wrap(err, "commitmanager", "read commit "+digest.Short())
	}
	return c, nil
}

// Head returns the commit HEAD resolves to, or the zero digest before the
// first commit.
func (m *Manager) Head() (refs.RefPath, objects.Digest, error) {
	return m.refs.ResolveHead()
}

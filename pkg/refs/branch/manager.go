package branch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/common/logger"
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/objects/commit"
	"github.com/utkarsh5026/rgit/pkg/repository/refs"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

// CommitReader reads stored commits. *commitmanager.Manager satisfies it.
type CommitReader interface {
	GetCommit(ctx context.Context, digest objects.Digest) (*commit.Commit, error)
}

// Manager handles branch creation, deletion, renaming, switching and
// listing.
//
// Branches are plain refs under refs/heads; history may fork but is
// never merged. Switching moves HEAD only: the working tree and staging
// index are left as they are, so the next commit on the new branch
// snapshots whatever is staged.
//
// Manager is not safe for concurrent use.
type Manager struct {
	refs    *refs.RefManager
	commits CommitReader
	logger  *slog.Logger
}

// NewManager creates a branch manager for the metadata directory sourceDir.
func NewManager(sourceDir scpath.SourcePath, commits CommitReader) *Manager {
	return &Manager{
		refs:    refs.NewRefManager(sourceDir),
		commits: commits,
		logger:  logger.With("component", "branch"),
	}
}

// CreateBranch creates a new branch pointing at the configured start point,
// HEAD by default.
func (m *Manager) CreateBranch(ctx context.Context, name string, opts ...CreateOption) (BranchInfo, error) {
	config := &CreateConfig{}
	for _, opt := range opts {
		opt(config)
	}

	if err := ctx.Err(); err != nil {
		return BranchInfo{}, err
	}
	if err := ValidateBranchName(name); err != nil {
		return BranchInfo{}, err
	}

	ref, _ := refs.NewBranchRef(name)
	exists, err := m.refs.Exists(ref)
	if err != nil {
		return BranchInfo{}, errs.StorageIO(pkgName, "create", err)
	}
	if exists && !config.Force {
		return BranchInfo{}, NewAlreadyExistsError(name)
	}

	target, err := m.resolveStartPoint(ctx, config.StartPoint)
	if err != nil {
		return BranchInfo{}, err
	}

	if err := m.refs.UpdateRef(ref, target); err != nil {
		return BranchInfo{}, err
	}

	m.logger.Info("created branch", "branch", name, "head", target.Short())
	return m.GetBranch(ctx, name)
}

// Switch points HEAD at an existing branch.
func (m *Manager) Switch(ctx context.Context, name string) (BranchInfo, error) {
	if err := ctx.Err(); err != nil {
		return BranchInfo{}, err
	}
	if err := ValidateBranchName(name); err != nil {
		return BranchInfo{}, err
	}

	ref, _ := refs.NewBranchRef(name)
	if err := m.validateExists(ref); err != nil {
		return BranchInfo{}, err
	}
	if err := m.refs.SetSymbolic(refs.RefHEAD, ref); err != nil {
		return BranchInfo{}, err
	}

	m.logger.Info("switched branch", "branch", name)
	return m.GetBranch(ctx, name)
}

// DeleteBranch removes a branch. Without force, the branch tip must be
// reachable from HEAD.
func (m *Manager) DeleteBranch(ctx context.Context, name string, opts ...DeleteOption) error {
	config := &DeleteConfig{}
	for _, opt := range opts {
		opt(config)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateBranchName(name); err != nil {
		return err
	}

	ref, _ := refs.NewBranchRef(name)
	if err := m.validateExists(ref); err != nil {
		return err
	}

	current, head, err := m.refs.ResolveHead()
	if err != nil {
		return err
	}
	if current == ref {
		return NewIsCurrentError(name)
	}

	if !config.Force {
		_, tip, err := m.refs.Resolve(ref)
		if err != nil {
			return err
		}
		merged, err := m.isReachable(ctx, tip, head)
		if err != nil {
			return err
		}
		if !merged {
			return NewNotMergedError(name)
		}
	}

	if err := m.refs.DeleteRef(ref); err != nil {
		return fmt.Errorf("delete branch %s: %w", name, err)
	}

	m.logger.Info("deleted branch", "branch", name)
	return nil
}

// RenameBranch renames oldName to newName and keeps HEAD on it if it was
// current. The current branch may be renamed before its first commit.
func (m *Manager) RenameBranch(ctx context.Context, oldName, newName string, opts ...RenameOption) error {
	config := &RenameConfig{}
	for _, opt := range opts {
		opt(config)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	for _, name := range []string{oldName, newName} {
		if err := ValidateBranchName(name); err != nil {
			return err
		}
	}

	oldRef, _ := refs.NewBranchRef(oldName)
	newRef, _ := refs.NewBranchRef(newName)
	if oldRef == newRef {
		return nil
	}

	current, _, err := m.refs.ResolveHead()
	if err != nil {
		return err
	}
	isCurrent := current == oldRef

	oldExists, err := m.refs.Exists(oldRef)
	if err != nil {
		return errs.StorageIO(pkgName, "rename", err)
	}
	if !oldExists && !isCurrent {
		return NewNotFoundError(oldName)
	}

	newExists, err := m.refs.Exists(newRef)
	if err != nil {
		return errs.StorageIO(pkgName, "rename", err)
	}
	if newExists && !config.Force {
		return NewAlreadyExistsError(newName)
	}

	if oldExists {
		_, tip, err := m.refs.Resolve(oldRef)
		if err != nil {
			return err
		}
		if err := m.refs.UpdateRef(newRef, tip); err != nil {
			return err
		}
	}

	if isCurrent {
		if err := m.refs.SetSymbolic(refs.RefHEAD, newRef); err != nil {
			return err
		}
	}

	if oldExists {
		if err := m.refs.DeleteRef(oldRef); err != nil {
			return err
		}
	}

	m.logger.Info("renamed branch", "from", oldName, "to", newName)
	return nil
}

// GetBranch returns information about one branch. The current branch is
// reported even before its first commit.
func (m *Manager) GetBranch(ctx context.Context, name string) (BranchInfo, error) {
	if err := ValidateBranchName(name); err != nil {
		return BranchInfo{}, err
	}
	ref, _ := refs.NewBranchRef(name)

	current, _, err := m.refs.ResolveHead()
	if err != nil {
		return BranchInfo{}, err
	}

	exists, err := m.refs.Exists(ref)
	if err != nil {
		return BranchInfo{}, errs.StorageIO(pkgName, "get", err)
	}
	if !exists && current != ref {
		return BranchInfo{}, NewNotFoundError(name)
	}

	return m.describe(ctx, ref, current)
}

// ListBranches returns every branch sorted by name, including the current
// branch before its first commit.
func (m *Manager) ListBranches(ctx context.Context) ([]BranchInfo, error) {
	current, _, err := m.refs.ResolveHead()
	if err != nil {
		return nil, err
	}

	branchRefs, err := m.refs.ListBranches()
	if err != nil {
		return nil, err
	}

	seenCurrent := false
	infos := make([]BranchInfo, 0, len(branchRefs)+1)
	for _, ref := range branchRefs {
		info, err := m.describe(ctx, ref, current)
		if err != nil {
			return nil, err
		}
		seenCurrent = seenCurrent || info.IsCurrent
		infos = append(infos, info)
	}

	if !seenCurrent && current.IsBranch() {
		info, err := m.describe(ctx, current, current)
		if err != nil {
			return nil, err
		}
		infos = insertSorted(infos, info)
	}

	return infos, nil
}

// CurrentBranch returns the short name of the branch HEAD points at.
func (m *Manager) CurrentBranch() (string, error) {
	current, _, err := m.refs.ResolveHead()
	if err != nil {
		return "", fmt.Errorf("get current branch: %w", err)
	}
	return current.ShortName(), nil
}

// BranchExists checks if a branch ref exists.
func (m *Manager) BranchExists(name string) (bool, error) {
	if err := ValidateBranchName(name); err != nil {
		return false, err
	}
	ref, _ := refs.NewBranchRef(name)
	return m.refs.Exists(ref)
}

func (m *Manager) describe(ctx context.Context, ref, current refs.RefPath) (BranchInfo, error) {
	_, tip, err := m.refs.Resolve(ref)
	if err != nil {
		return BranchInfo{}, err
	}

	info := BranchInfo{
		Name:      ref.ShortName(),
		Ref:       ref,
		Head:      tip,
		IsCurrent: ref == current,
	}
	if tip.IsZero() {
		return info, nil
	}

	c, err := m.commits.GetCommit(ctx, tip)
	if err != nil {
		return BranchInfo{}, err
	}
	info.Subject = c.Subject()
	return info, nil
}

func (m *Manager) validateExists(ref refs.RefPath) error {
	exists, err := m.refs.Exists(ref)
	if err != nil {
		return errs.StorageIO(pkgName, "lookup", err)
	}
	if !exists {
		return NewNotFoundError(ref.ShortName())
	}
	return nil
}

// resolveStartPoint accepts an existing branch name or a commit digest.
func (m *Manager) resolveStartPoint(ctx context.Context, target string) (objects.Digest, error) {
	if target == "" {
		_, head, err := m.refs.ResolveHead()
		if err != nil {
			return "", err
		}
		if head.IsZero() {
			return "", errs.InvalidInput(pkgName, "create", "no commits yet: commit before creating a branch")
		}
		return head, nil
	}

	if ValidateBranchName(target) == nil {
		ref, _ := refs.NewBranchRef(target)
		exists, err := m.refs.Exists(ref)
		if err != nil {
			return "", errs.StorageIO(pkgName, "create", err)
		}
		if exists {
			_, tip, err := m.refs.Resolve(ref)
			return tip, err
		}
	}

	digest, err := objects.ParseDigest(target)
	if err != nil {
		return "", errs.InvalidInput(pkgName, "create",
			fmt.Sprintf("'%s' is not a branch name or commit digest", target))
	}
	if _, err := m.commits.GetCommit(ctx, digest); err != nil {
		return "", errs.Wrap(err, pkgName, "create")
	}
	return digest, nil
}

// isReachable reports whether target is from, or an ancestor of it.
func (m *Manager) isReachable(ctx context.Context, target, from objects.Digest) (bool, error) {
	visited := make(map[objects.Digest]bool)
	for current := from; !current.IsZero(); {
		if current == target {
			return true, nil
		}
		if visited[current] {
			return false, errs.New(pkgName, errs.CodeObjectCorrupt, "reachable",
				fmt.Sprintf("commit %s reached twice in history", current.Short()), nil)
		}
		visited[current] = true

		c, err := m.commits.GetCommit(ctx, current)
		if err != nil {
			return false, err
		}
		current = c.Parent
	}
	return false, nil
}

func insertSorted(infos []BranchInfo, info BranchInfo) []BranchInfo {
	i := 0
	for i < len(infos) && infos[i].Ref < info.Ref {
		i++
	}
	infos = append(infos, BranchInfo{})
	copy(infos[i+1:], infos[i:])
	infos[i] = info
	return infos
}

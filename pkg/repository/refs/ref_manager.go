package refs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/common/fileops"
	"github.com/utkarsh5026/rgit/pkg/common/logger"
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

const (
	// SymbolicRefPrefix marks a ref whose content names another ref.
	SymbolicRefPrefix = "ref: "

	// MaxRefDepth bounds symbolic ref chains.
	MaxRefDepth = 10

	pkgName = "refs"
)

// RefManager reads and writes references under the metadata directory.
//
// HEAD is normally symbolic ("ref: refs/heads/main"); the branch file it
// names holds a commit digest, or does not exist before the first commit.
type RefManager struct {
	refsPath scpath.SourcePath
	headPath scpath.SourcePath
	logger   *slog.Logger
}

// NewRefManager creates a reference manager for the metadata directory
// sourceDir.
func NewRefManager(sourceDir scpath.SourcePath) *RefManager {
	return &RefManager{
		refsPath: sourceDir.RefsPath(),
		headPath: sourceDir.HeadPath(),
		logger:   logger.With("component", "refs"),
	}
}

// Init creates refs/heads and refs/tags and points HEAD at the default
// branch.
func (rm *RefManager) Init() error {
	for _, dir := range []RefPath{RefHeads, RefTags} {
		if err := fileops.EnsureDir(rm.resolveReferencePath(dir).ToAbsolutePath()); err != nil {
			return errs.StorageIO(pkgName, "init", err)
		}
	}

	branch, _ := NewBranchRef(DefaultBranch)
	return rm.SetSymbolic(RefHEAD, branch)
}

// ReadRef returns the trimmed content of ref. A missing ref yields "".
func (rm *RefManager) ReadRef(ref RefPath) (string, error) {
	content, err := fileops.ReadString(rm.resolveReferencePath(ref).ToAbsolutePath())
	if err != nil {
		return "", errs.StorageIO(pkgName, "read "+ref.String(), err)
	}
	return content, nil
}

// SetSymbolic makes ref point at target.
func (rm *RefManager) SetSymbolic(ref, target RefPath) error {
	if !target.IsValid() {
		return errs.InvalidInput(pkgName, "set symbolic", fmt.Sprintf("invalid ref %q", target))
	}
	path := rm.resolveReferencePath(ref).ToAbsolutePath()
	if err := fileops.WriteConfigString(path, SymbolicRefPrefix+target.String()+"\n"); err != nil {
		return errs.StorageIO(pkgName, "set symbolic", err)
	}
	return nil
}

// UpdateRef points ref directly at digest.
func (rm *RefManager) UpdateRef(ref RefPath, digest objects.Digest) error {
	if err := digest.Validate(); err != nil {
		return errs.Wrap(err, pkgName, "update")
	}
	if !ref.IsValid() {
		return errs.InvalidInput(pkgName, "update", fmt.Sprintf("invalid ref %q", ref))
	}

	path := rm.resolveReferencePath(ref).ToAbsolutePath()
	if err := fileops.WriteConfigString(path, digest.String()+"\n"); err != nil {
		return errs.StorageIO(pkgName, "update", err)
	}

	rm.logger.Debug("updated ref", "ref", ref, "digest", digest.Short())
	return nil
}

// Resolve follows symbolic refs from ref to a digest. It returns the last
// ref in the chain, which is the one a new commit must update, and the
// zero digest if that ref does not exist yet.
func (rm *RefManager) Resolve(ref RefPath) (RefPath, objects.Digest, error) {
	current := ref

	for range MaxRefDepth {
		content, err := rm.ReadRef(current)
		if err != nil {
			return "", "", err
		}

		if target, ok := strings.CutPrefix(content, SymbolicRefPrefix); ok {
			current = RefPath(strings.TrimSpace(target))
			if !current.IsValid() {
				return "", "", errs.New(pkgName, errs.CodeObjectCorrupt, "resolve",
					fmt.Sprintf("%s points at invalid ref %q", ref, current), nil)
			}
			continue
		}

		if content == "" {
			return current, "", nil
		}

		digest, err := objects.ParseDigest(content)
		if err != nil {
			return "", "", errs.New(pkgName, errs.CodeObjectCorrupt, "resolve",
				fmt.Sprintf("%s does not hold a digest", current), err)
		}
		return current, digest, nil
	}

	return "", "", errs.New(pkgName, errs.CodeObjectCorrupt, "resolve",
		fmt.Sprintf("reference depth exceeded for %s", ref), nil)
}

// ResolveHead returns the branch HEAD points at and its commit, or the
// zero digest before the first commit.
func (rm *RefManager) ResolveHead() (RefPath, objects.Digest, error) {
	return rm.Resolve(RefHEAD)
}

// UpdateHead moves whatever HEAD points at to digest.
func (rm *RefManager) UpdateHead(digest objects.Digest) error {
	target, _, err := rm.ResolveHead()
	if err != nil {
		return err
	}
	return rm.UpdateRef(target, digest)
}

// Exists checks if a reference exists
func (rm *RefManager) Exists(ref RefPath) (bool, error) {
	return fileops.Exists(rm.resolveReferencePath(ref).ToAbsolutePath())
}

// DeleteRef removes ref. Deleting a ref that does not exist is not an error.
func (rm *RefManager) DeleteRef(ref RefPath) error {
	if !ref.IsValid() || ref.IsHEAD() {
		return errs.InvalidInput(pkgName, "delete", fmt.Sprintf("invalid ref %q", ref))
	}

	path := rm.resolveReferencePath(ref).String()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errs.StorageIO(pkgName, "delete", err)
	}

	rm.logger.Debug("deleted ref", "ref", ref)
	return nil
}

// ListBranches returns every branch ref under refs/heads, sorted. Names
// with slashes live in nested directories.
func (rm *RefManager) ListBranches() ([]RefPath, error) {
	root := rm.resolveReferencePath(RefHeads).String()

	var branches []RefPath
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		ref := RefPath(string(RefHeads) + "/" + filepath.ToSlash(rel))
		if ref.IsValid() {
			branches = append(branches, ref)
		}
		return nil
	})
	if err != nil {
		return nil, errs.StorageIO(pkgName, "list", err)
	}

	sort.Slice(branches, func(i, j int) bool { return branches[i] < branches[j] })
	return branches, nil
}

// resolveReferencePath maps a RefPath to its file.
func (rm *RefManager) resolveReferencePath(ref RefPath) scpath.SourcePath {
	refStr := strings.TrimSpace(ref.String())

	if refStr == scpath.HeadFile {
		return rm.headPath
	}

	if after, ok := strings.CutPrefix(refStr, scpath.RefsDir+"/"); ok {
		return rm.refsPath.Join(after)
	}

	return rm.refsPath.Join(refStr)
}

package workdir

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/common/logger"
	"github.com/utkarsh5026/rgit/pkg/index"
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/repository/ignore"
	"github.com/utkarsh5026/rgit/pkg/repository/refs"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

const pkgName = "workdir"

// ObjectReader is the part of the object store Status needs.
type ObjectReader interface {
	Get(digest objects.Digest) ([]byte, error)
	Exists(digest objects.Digest) (bool, error)
}

// Manager compares the working tree with the staging index and HEAD.
type Manager struct {
	repo    scpath.RepositoryPath
	store   ObjectReader
	staging *index.StagingIndex
	refs    *refs.RefManager
	workers int
	logger  *slog.Logger
}

// NewManager creates a working directory manager for repo.
func NewManager(repo scpath.RepositoryPath, objectStore ObjectReader) *Manager {
	return &Manager{
		repo:    repo,
		store:   objectStore,
		staging: index.NewStagingIndex(repo.SourcePath()),
		refs:    refs.NewRefManager(repo.SourcePath()),
		workers: runtime.NumCPU(),
		logger:  logger.With("component", "workdir"),
	}
}

// SetWorkers bounds the number of files hashed at once.
func (m *Manager) SetWorkers(n int) {
	if n > 0 {
		m.workers = n
	}
}

// workingFile is one candidate path and what was found on disk.
type workingFile struct {
	path    scpath.RelativePath
	present bool
	digest  objects.Digest
}

// Status reports staged, modified, deleted and untracked files. Nothing is
// written: content is hashed, never stored.
func (m *Manager) Status(ctx context.Context) (*Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rules, err := ignore.Load(m.repo)
	if err != nil {
		return nil, errs.WrapWithCode(err, pkgName, errs.CodeInvalidInput, "status")
	}

	idx, err := m.staging.Load()
	if err != nil {
		return nil, err
	}

	branch, head, err := m.refs.ResolveHead()
	if err != nil {
		return nil, err
	}
	headFiles := FileMap{}
	if !head.IsZero() {
		if headFiles, err = m.commitFiles(head); err != nil {
			return nil, err
		}
	}

	candidates, err := m.candidates(idx, headFiles, rules)
	if err != nil {
		return nil, err
	}

	files, err := m.hashAll(ctx, candidates)
	if err != nil {
		return nil, err
	}

	status := &Status{Branch: branch, Head: head}
	for _, entry := range idx.Entries() {
		change := ChangeNew
		if d, ok := headFiles[entry.Path]; ok {
			change = ChangeModified
			if d == entry.Digest {
				change = ChangeUnchanged
			}
		}
		status.Staged = append(status.Staged, StagedFile{Path: entry.Path, Digest: entry.Digest, Change: change})
	}

	for _, f := range files {
		if err := m.classify(status, f, idx, headFiles); err != nil {
			return nil, err
		}
	}

	m.logger.Debug("computed status",
		"staged", len(status.Staged),
		"modified", len(status.Modified),
		"deleted", len(status.Deleted),
		"untracked", len(status.Untracked))

	return status, nil
}

func (m *Manager) classify(status *Status, f workingFile, idx *index.Index, headFiles FileMap) error {
	expected, tracked := headFiles[f.path]
	if entry, ok := idx.Get(f.path); ok {
		expected, tracked = entry.Digest, true
	}

	switch {
	case !f.present:
		if tracked {
			status.Deleted = append(status.Deleted, f.path)
		}
	case tracked:
		if f.digest != expected {
			status.Modified = append(status.Modified, f.path)
		}
	default:
		stored, err := m.store.Exists(f.digest)
		if err != nil {
			return err
		}
		if !stored {
			status.Untracked = append(status.Untracked, f.path)
		}
	}
	return nil
}

// candidates returns every path status must look at, sorted: non-ignored
// files in the working tree plus every indexed or committed path, even
// when it is now ignored or missing.
func (m *Manager) candidates(idx *index.Index, headFiles FileMap, rules *ignore.PatternSet) ([]scpath.RelativePath, error) {
	seen := make(map[scpath.RelativePath]bool)
	for _, entry := range idx.Entries() {
		seen[entry.Path] = true
	}
	for path := range headFiles {
		seen[path] = true
	}

	root := m.repo.String()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := m.repo.Rel(path)
		if err != nil {
			m.logger.Warn("skipping unrepresentable path", "path", path, "error", err)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if rel.IsMetadata() || rules.IsIgnored(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && !rules.IsIgnored(rel, false) {
			seen[rel] = true
		}
		return nil
	})
	if err != nil {
		return nil, errs.StorageIO(pkgName, "status", err)
	}

	paths := make([]scpath.RelativePath, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths, nil
}

// hashAll reads and hashes candidates concurrently. A path that is gone
// or no longer a regular file is reported as not present.
func (m *Manager) hashAll(ctx context.Context, paths []scpath.RelativePath) ([]workingFile, error) {
	files := make([]workingFile, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			files[i] = workingFile{path: path}

			abs := m.repo.JoinRelative(path).String()
			info, err := os.Lstat(abs)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
					return nil
				}
				return errs.StorageIO(pkgName, "status", err)
			}
			if !info.Mode().IsRegular() {
				return nil
			}

			data, err := os.ReadFile(abs)
			if err != nil {
				return errs.StorageIO(pkgName, "status", err)
			}
			files[i].present = true
			files[i].digest = objects.ComputeDigest(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

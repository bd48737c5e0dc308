package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/common/logger"
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/repository/ignore"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

// ObjectWriter is the part of the object store the add flow needs.
type ObjectWriter interface {
	Put(data []byte) (objects.Digest, error)
}

// Manager stages working-tree files: it resolves the paths given on the
// command line, stores their content and records them in the index.
type Manager struct {
	repo    scpath.RepositoryPath
	staging *StagingIndex
	objects ObjectWriter
	workers int
	logger  *slog.Logger
}

// NewManager creates a new index manager for repo.
func NewManager(repo scpath.RepositoryPath, objectStore ObjectWriter) *Manager {
	return &Manager{
		repo:    repo,
		staging: NewStagingIndex(repo.SourcePath()),
		objects: objectStore,
		workers: runtime.NumCPU(),
		logger:  logger.With("component", "index"),
	}
}

// SetWorkers bounds the number of files hashed at once.
func (m *Manager) SetWorkers(n int) {
	if n > 0 {
		m.workers = n
	}
}

// Staging returns the underlying staging index.
func (m *Manager) Staging() *StagingIndex {
	return m.staging
}

// AddResult reports what an add did to each file it considered.
type AddResult struct {
	Added     []scpath.RelativePath // newly staged
	Modified  []scpath.RelativePath // staged before with different content
	Unchanged []scpath.RelativePath // staged before with the same content
	Ignored   []scpath.RelativePath // named explicitly but matched by .rgitignore
}

// Total returns the number of files staged, changed or not.
func (r *AddResult) Total() int {
	return len(r.Added) + len(r.Modified) + len(r.Unchanged)
}

// Add stages the given paths (like git add).
//
// Each argument is absolute or relative to the working directory.
// Directories are expanded recursively, skipping ignored paths and the
// metadata directory. Arguments that cannot be resolved are reported
// together and nothing is written. Otherwise every file is read, stored
// and recorded, and the index is persisted once at the end.
func (m *Manager) Add(ctx context.Context, paths []string) (*AddResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rules, err := ignore.Load(m.repo)
	if err != nil {
		return nil, errs.WrapWithCode(err, pkgName, errs.CodeInvalidInput, "add")
	}

	result := &AddResult{}
	files, err := m.resolve(paths, rules, result)
	if err != nil {
		return nil, err
	}

	idx, err := m.staging.Load()
	if err != nil {
		return nil, err
	}

	outcomes := make([]addOutcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome, err := m.stageFile(idx, rel)
			if err != nil {
				return err
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, rel := range files {
		switch outcomes[i] {
		case outcomeAdded:
			result.Added = append(result.Added, rel)
		case outcomeModified:
			result.Modified = append(result.Modified, rel)
		default:
			result.Unchanged = append(result.Unchanged, rel)
		}
	}

	if err := m.staging.Persist(idx); err != nil {
		return nil, err
	}

	m.logger.Info("staged files",
		"added", len(result.Added),
		"modified", len(result.Modified),
		"unchanged", len(result.Unchanged))
	return result, nil
}

type addOutcome int

const (
	outcomeUnchanged addOutcome = iota
	outcomeAdded
	outcomeModified
)

// stageFile stores one file's content and records it.
func (m *Manager) stageFile(idx *Index, rel scpath.RelativePath) (addOutcome, error) {
	data, err := os.ReadFile(m.repo.JoinRelative(rel).String())
	if err != nil {
		return 0, errs.StorageIO(pkgName, "add", fmt.Errorf("read %s: %w", rel, err))
	}

	digest, err := m.objects.Put(data)
	if err != nil {
		return 0, errs.Wrap(err, pkgName, "add")
	}

	prev, existed := idx.Get(rel)
	if err := idx.Record(rel, digest, KindFile); err != nil {
		return 0, err
	}

	m.logger.Debug("staged file", "path", rel, "digest", digest.Short())
	switch {
	case !existed:
		return outcomeAdded, nil
	case prev.Digest != digest:
		return outcomeModified, nil
	default:
		return outcomeUnchanged, nil
	}
}

// resolve turns command-line arguments into a sorted, de-duplicated list
// of regular files. Every bad argument is collected before returning.
func (m *Manager) resolve(paths []string, rules *ignore.PatternSet, result *AddResult) ([]scpath.RelativePath, error) {
	var failures *multierror.Error
	seen := make(map[scpath.RelativePath]bool)
	visited := make(map[string]bool)

	collect := func(rel scpath.RelativePath) {
		seen[rel] = true
	}

	for _, arg := range paths {
		rel, err := m.repo.Rel(arg)
		if err != nil {
			failures = multierror.Append(failures, errs.WrapWithCode(err, pkgName, errs.CodeInvalidInput, "add"))
			continue
		}
		if rel.IsMetadata() {
			failures = multierror.Append(failures, errs.InvalidInput(pkgName, "add",
				fmt.Sprintf("%q is inside the %s directory", arg, scpath.MetaDir)))
			continue
		}

		abs := m.repo.JoinRelative(rel)
		info, err := os.Lstat(abs.String())
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				failures = multierror.Append(failures, errs.InvalidInput(pkgName, "add",
					fmt.Sprintf("pathspec %q did not match any files", arg)))
			} else {
				failures = multierror.Append(failures, errs.StorageIO(pkgName, "add", err))
			}
			continue
		}

		switch {
		case info.IsDir():
			if err := m.walk(rel, rules, visited, collect); err != nil {
				failures = multierror.Append(failures, err)
			}
		case info.Mode().IsRegular():
			if rules.IsIgnored(rel, false) {
				result.Ignored = append(result.Ignored, rel)
				continue
			}
			collect(rel)
		default:
			failures = multierror.Append(failures, errs.InvalidInput(pkgName, "add",
				fmt.Sprintf("%q is not a regular file", arg)))
		}
	}

	if err := failures.ErrorOrNil(); err != nil {
		return nil, err
	}

	files := make([]scpath.RelativePath, 0, len(seen))
	for rel := range seen {
		files = append(files, rel)
	}
	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })
	return files, nil
}

// walk collects every non-ignored regular file under dir. Symlinks are
// never followed, so a snapshot holds only real files inside the working
// root. visited holds resolved directories so overlapping arguments are
// walked once.
func (m *Manager) walk(dir scpath.RelativePath, rules *ignore.PatternSet, visited map[string]bool, collect func(scpath.RelativePath)) error {
	abs := m.repo.JoinRelative(dir).String()

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return errs.StorageIO(pkgName, "add", err)
	}
	if visited[resolved] {
		m.logger.Debug("skipping already visited directory", "path", dir, "resolved", resolved)
		return nil
	}
	visited[resolved] = true

	entries, err := os.ReadDir(abs)
	if err != nil {
		return errs.StorageIO(pkgName, "add", err)
	}

	for _, entry := range entries {
		child := dir.Join(entry.Name())
		if !child.IsValid() {
			m.logger.Warn("skipping unstageable name", "path", child)
			continue
		}

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			m.logger.Debug("skipping symlink", "path", child)
			continue
		}

		switch {
		case mode.IsDir():
			if rules.IsIgnored(child, true) {
				continue
			}
			if err := m.walk(child, rules, visited, collect); err != nil {
				return err
			}
		case mode.IsRegular():
			if !rules.IsIgnored(child, false) {
				collect(child)
			}
		}
	}
	return nil
}

// RemoveResult reports the outcome of Remove.
type RemoveResult struct {
	Removed   []scpath.RelativePath
	NotStaged []string
}

// Remove unstages paths without touching the working tree. A directory
// argument unstages everything beneath it.
func (m *Manager) Remove(paths []string) (*RemoveResult, error) {
	idx, err := m.staging.Load()
	if err != nil {
		return nil, err
	}

	result := &RemoveResult{}
	for _, arg := range paths {
		rel, err := m.repo.Rel(arg)
		if err != nil {
			return nil, errs.WrapWithCode(err, pkgName, errs.CodeInvalidInput, "remove")
		}

		removed := idx.RemoveUnder(rel)
		if len(removed) == 0 {
			result.NotStaged = append(result.NotStaged, arg)
			continue
		}
		result.Removed = append(result.Removed, removed...)
	}

	if len(result.Removed) > 0 {
		if err := m.staging.Persist(idx); err != nil {
			return nil, err
		}
	}

	m.logger.Info("unstaged files", "removed", len(result.Removed))
	return result, nil
}

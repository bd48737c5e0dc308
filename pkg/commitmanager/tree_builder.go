package commitmanager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/common/logger"
	"github.com/utkarsh5026/rgit/pkg/index"
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/objects/tree"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
	"github.com/utkarsh5026/rgit/pkg/store"
)

const (
	// concurrencyThreshold is the minimum number of subdirectories
	// required before sibling subtrees are built concurrently.
	concurrencyThreshold = 3
)

// TreeBuilder turns the flat staged set into nested tree objects.
//
//	README.md
//	src/main.go             root/
//	src/utils/helper.go  →    ├── README.md (file)
//	                          └── src/ (tree)
//	                              ├── main.go (file)
//	                              └── utils/ (tree)
//	                                  └── helper.go (file)
//
// Children are written before their parents, so every digest a tree
// refers to is already stored when the tree itself is stored.
type TreeBuilder struct {
	store  store.ObjectStore
	logger *slog.Logger
}

// NewTreeBuilder creates a TreeBuilder writing into objects.
func NewTreeBuilder(objectStore store.ObjectStore) *TreeBuilder {
	return &TreeBuilder{
		store:  objectStore,
		logger: logger.With("component", "treebuilder"),
	}
}

// Build stores a tree for every directory implied by entries and returns
// the root tree's digest. root is the working directory the entries were
// staged from; each staged file is checked against it before use.
//
// An empty entry set stores and returns the empty tree.
func (tb *TreeBuilder) Build(ctx context.Context, root scpath.RepositoryPath, entries []index.Entry) (objects.Digest, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rootNode := newDirectoryNode("", "")
	for _, entry := range entries {
		if entry.Kind != index.KindFile {
			return "", errs.InvalidInput("commitmanager", "build tree",
				fmt.Sprintf("cannot snapshot %s entry %q", entry.Kind, entry.Path))
		}
		if entry.Path == "" || !entry.Path.IsValid() {
			return "", errs.InvalidInput("commitmanager", "build tree",
				fmt.Sprintf("invalid staged path %q", entry.Path))
		}
		rootNode.addEntry(entry)
	}

	b := &treeBuild{
		TreeBuilder: tb,
		root:        root,
		visited:     make(map[scpath.RelativePath]bool),
	}

	digest, err := b.buildTree(ctx, rootNode)
	if err != nil {
		return "", err
	}

	tb.logger.Debug("built tree", "root", digest.Short(), "files", len(entries))
	return digest, nil
}

// treeBuild holds the state of one Build call.
type treeBuild struct {
	*TreeBuilder
	root scpath.RepositoryPath

	mu      sync.Mutex
	visited map[scpath.RelativePath]bool
}

// markVisited records that node is being built. A node reached twice
// would mean the hierarchy is not a tree.
func (b *treeBuild) markVisited(node *directoryNode) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.visited[node.path] {
		return fmt.Errorf("directory %q reached twice while building trees", node.path)
	}
	b.visited[node.path] = true
	return nil
}

// buildTree writes the tree for node after writing all of its subtrees.
func (b *treeBuild) buildTree(ctx context.Context, node *directoryNode) (objects.Digest, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := b.markVisited(node); err != nil {
		return "", err
	}

	entries := make([]*tree.TreeEntry, 0, len(node.files)+len(node.subdirs))

	fileEntries, err := b.buildFileEntries(node)
	if err != nil {
		return "", err
	}
	entries = append(entries, fileEntries...)

	subdirEntries, err := b.buildSubdirectoryEntries(ctx, node)
	if err != nil {
		return "", err
	}
	entries = append(entries, subdirEntries...)

	t, err := tree.NewTree(entries)
	if err != nil {
		return "", errs.Wrap(err, "commitmanager", "build tree "+displayPath(node.path))
	}

	digest, err := b.store.Put(t.Serialize())
	if err != nil {
		return "", errs.Wrap(err, "commitmanager", "write tree "+displayPath(node.path))
	}
	return digest, nil
}

// buildFileEntries creates tree entries for the files directly in node,
// making sure each one still has content to point at.
func (b *treeBuild) buildFileEntries(node *directoryNode) ([]*tree.TreeEntry, error) {
	entries := make([]*tree.TreeEntry, 0, len(node.files))

	for name, staged := range node.files {
		if err := b.checkStaged(staged); err != nil {
			return nil, err
		}

		entry, err := tree.NewTreeEntry(objects.FileModeRegular, name, staged.Digest)
		if err != nil {
			return nil, errs.Wrap(err, "commitmanager", "create tree entry for "+staged.Path.String())
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// checkStaged verifies that a staged path still refers to a regular file
// and that its blob is stored. A missing blob is restored from the file
// if the file still has the staged content.
func (b *treeBuild) checkStaged(staged index.Entry) error {
	abs := b.root.JoinRelative(staged.Path)

	info, err := os.Lstat(abs.String())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stale(staged.Path, "file no longer exists", nil)
		}
		return errs.StorageIO("commitmanager", "check "+staged.Path.String(), err)
	}
	if !info.Mode().IsRegular() {
		return stale(staged.Path, "no longer a regular file", nil)
	}

	exists, err := b.store.Exists(staged.Digest)
	if err != nil {
		return errs.Wrap(err, "commitmanager", "check "+staged.Path.String())
	}
	if exists {
		return nil
	}

	data, err := os.ReadFile(abs.String())
	if err != nil {
		return errs.StorageIO("commitmanager", "check "+staged.Path.String(), err)
	}
	if objects.ComputeDigest(data) != staged.Digest {
		return stale(staged.Path, "content changed since it was staged and the staged blob is missing", nil)
	}
	if _, err := b.store.Put(data); err != nil {
		return errs.Wrap(err, "commitmanager", "restore blob for "+staged.Path.String())
	}

	b.logger.Debug("restored missing blob", "path", staged.Path, "digest", staged.Digest.Short())
	return nil
}

// buildSubdirectoryEntries builds every subtree of node. Below
// concurrencyThreshold subtrees are built one after another; at or above
// it they are built concurrently. NewTree sorts the result either way.
func (b *treeBuild) buildSubdirectoryEntries(ctx context.Context, node *directoryNode) ([]*tree.TreeEntry, error) {
	if len(node.subdirs) == 0 {
		return nil, nil
	}

	if len(node.subdirs) < concurrencyThreshold {
		return b.buildSubdirectoriesSequential(ctx, node)
	}
	return b.buildSubdirectoriesConcurrent(ctx, node)
}

func (b *treeBuild) buildSubdirectoriesSequential(ctx context.Context, node *directoryNode) ([]*tree.TreeEntry, error) {
	entries := make([]*tree.TreeEntry, 0, len(node.subdirs))

	for _, subdir := range node.subdirs {
		entry, err := b.buildSubdirectoryEntry(ctx, subdir)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (b *treeBuild) buildSubdirectoriesConcurrent(ctx context.Context, node *directoryNode) ([]*tree.TreeEntry, error) {
	subdirs := make([]*directoryNode, 0, len(node.subdirs))
	for _, subdir := range node.subdirs {
		subdirs = append(subdirs, subdir)
	}

	entries := make([]*tree.TreeEntry, len(subdirs))
	g, gctx := errgroup.WithContext(ctx)
	for i, subdir := range subdirs {
		g.Go(func() error {
			entry, err := b.buildSubdirectoryEntry(gctx, subdir)
			if err != nil {
				return err
			}
			entries[i] = entry
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// buildSubdirectoryEntry builds one subtree and returns its entry in the
// parent.
func (b *treeBuild) buildSubdirectoryEntry(ctx context.Context, subdir *directoryNode) (*tree.TreeEntry, error) {
	digest, err := b.buildTree(ctx, subdir)
	if err != nil {
		return nil, err
	}

	entry, err := tree.NewTreeEntry(objects.FileModeDirectory, subdir.name, digest)
	if err != nil {
		return nil, errs.Wrap(err, "commitmanager", "create tree entry for "+subdir.path.String())
	}
	return entry, nil
}

func stale(path scpath.RelativePath, reason string, cause error) error {
	return errs.New("commitmanager", errs.CodeStaleStagingEntry, "check staged",
		fmt.Sprintf("%s: %s", path, reason), cause).WithContext("path", path)
}

func displayPath(p scpath.RelativePath) string {
	if p == "" {
		return "/"
	}
	return p.String()
}

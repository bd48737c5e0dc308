package commitmanager

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/rgit/pkg/common/clock"
	"github.com/utkarsh5026/rgit/pkg/common/logger"
	"github.com/utkarsh5026/rgit/pkg/index"
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/objects/commit"
	"github.com/utkarsh5026/rgit/pkg/objects/tree"
	"github.com/utkarsh5026/rgit/pkg/repository/refs"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
	"github.com/utkarsh5026/rgit/pkg/store"
)

var testTime = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

type testRepo struct {
	root    string
	repo    scpath.RepositoryPath
	store   *store.FileObjectStore
	stager  *index.Manager
	manager *Manager
}

// setupTestRepo creates an initialized repository in a temporary directory
func setupTestRepo(t *testing.T) *testRepo {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	repo, err := scpath.NewRepositoryPath(root)
	require.NoError(t, err)

	require.NoError(t, refs.NewRefManager(repo.SourcePath()).Init())

	s := store.NewFileObjectStore(repo.SourcePath().ObjectsPath(), store.WithLogger(logger.Discard()))
	m := NewManager(repo, s, clock.Fixed(testTime))
	m.logger = logger.Discard()

	return &testRepo{
		root:    root,
		repo:    repo,
		store:   s,
		stager:  index.NewManager(repo, s),
		manager: m,
	}
}

func (r *testRepo) write(t *testing.T, rel, content string) {
	t.Helper()
	p := filepath.Join(r.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func (r *testRepo) add(t *testing.T, rels ...string) {
	t.Helper()
	paths := make([]string, len(rels))
	for i, rel := range rels {
		paths[i] = filepath.Join(r.root, filepath.FromSlash(rel))
	}
	_, err := r.stager.Add(context.Background(), paths)
	require.NoError(t, err)
}

func (r *testRepo) readTree(t *testing.T, d objects.Digest) *tree.Tree {
	t.Helper()
	data, err := r.store.Get(d)
	require.NoError(t, err)
	tr, err := tree.ParseTree(data)
	require.NoError(t, err)
	return tr
}

func (r *testRepo) countObjects(t *testing.T) int {
	t.Helper()
	n, _, err := r.store.Count()
	require.NoError(t, err)
	return n
}

func testAuthor(t *testing.T) commit.Identity {
	t.Helper()
	id, err := commit.NewIdentity("Ada Lovelace", "ada@example.com")
	require.NoError(t, err)
	return id
}

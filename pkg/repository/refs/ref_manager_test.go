package refs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

func setupRefManager(t *testing.T) (*RefManager, scpath.SourcePath) {
	t.Helper()
	repo, err := scpath.NewRepositoryPath(t.TempDir())
	require.NoError(t, err)
	source := repo.SourcePath()
	rm := NewRefManager(source)
	require.NoError(t, rm.Init())
	return rm, source
}

func TestRefManager_Init(t *testing.T) {
	_, source := setupRefManager(t)

	head, err := os.ReadFile(source.HeadPath().String())
	require.NoError(t, err)
	assert.Equal(t, "ref: refs/heads/main\n", string(head))

	for _, dir := range []string{"refs/heads", "refs/tags"} {
		info, err := os.Stat(filepath.Join(source.String(), dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestRefManager_ResolveHeadBeforeFirstCommit(t *testing.T) {
	rm, _ := setupRefManager(t)

	branch, digest, err := rm.ResolveHead()
	require.NoError(t, err)
	assert.Equal(t, RefPath("refs/heads/main"), branch)
	assert.True(t, digest.IsZero())
}

func TestRefManager_UpdateHead(t *testing.T) {
	rm, source := setupRefManager(t)
	first := objects.ComputeDigest([]byte("first"))
	second := objects.ComputeDigest([]byte("second"))

	require.NoError(t, rm.UpdateHead(first))
	_, digest, err := rm.ResolveHead()
	require.NoError(t, err)
	assert.Equal(t, first, digest)

	require.NoError(t, rm.UpdateHead(second))
	branch, digest, err := rm.ResolveHead()
	require.NoError(t, err)
	assert.Equal(t, RefPath("refs/heads/main"), branch)
	assert.Equal(t, second, digest)

	content, err := os.ReadFile(filepath.Join(source.String(), "refs", "heads", "main"))
	require.NoError(t, err)
	assert.Equal(t, second.String()+"\n", string(content))

	head, err := os.ReadFile(source.HeadPath().String())
	require.NoError(t, err)
	assert.Equal(t, "ref: refs/heads/main\n", string(head), "HEAD stays symbolic")
}

func TestRefManager_ResolveCorrupt(t *testing.T) {
	rm, source := setupRefManager(t)

	require.NoError(t, os.WriteFile(filepath.Join(source.String(), "refs", "heads", "main"), []byte("not a digest\n"), 0o644))

	_, _, err := rm.ResolveHead()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrObjectCorrupt))
}

func TestRefManager_ResolveCycle(t *testing.T) {
	rm, _ := setupRefManager(t)

	require.NoError(t, rm.SetSymbolic("refs/heads/a", "refs/heads/b"))
	require.NoError(t, rm.SetSymbolic("refs/heads/b", "refs/heads/a"))

	_, _, err := rm.Resolve("refs/heads/a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depth exceeded")
}

func TestRefManager_UpdateRefRejectsBadInput(t *testing.T) {
	rm, _ := setupRefManager(t)

	err := rm.UpdateRef("refs/heads/main", "nope")
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))

	err = rm.UpdateRef("refs/heads/bad..name", objects.ComputeDigest(nil))
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestRefManager_Exists(t *testing.T) {
	rm, _ := setupRefManager(t)

	exists, err := rm.Exists("refs/heads/main")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, rm.UpdateRef("refs/heads/main", objects.ComputeDigest(nil)))
	exists, err = rm.Exists("refs/heads/main")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRefPath(t *testing.T) {
	tests := []struct {
		ref      RefPath
		valid    bool
		isBranch bool
		isTag    bool
		short    string
	}{
		{"refs/heads/main", true, true, false, "main"},
		{"refs/heads/feature/x", true, true, false, "feature/x"},
		{"refs/tags/v1.0.0", true, false, true, "v1.0.0"},
		{"HEAD", true, false, false, "HEAD"},
		{"", false, false, false, ""},
		{"refs/heads/a b", false, true, false, "a b"},
		{"refs/heads/x.lock", false, true, false, "x.lock"},
		{".hidden", false, false, false, ".hidden"},
		{"refs/heads/", false, true, false, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.ref), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.ref.IsValid())
			assert.Equal(t, tt.isBranch, tt.ref.IsBranch())
			assert.Equal(t, tt.isTag, tt.ref.IsTag())
			assert.Equal(t, tt.short, tt.ref.ShortName())
		})
	}

	assert.True(t, RefHEAD.IsHEAD())

	_, err := NewBranchRef("")
	assert.Error(t, err)
	ref, err := NewBranchRef("main")
	require.NoError(t, err)
	assert.Equal(t, RefPath("refs/heads/main"), ref)
}

func TestRefManager_ListAndDeleteBranches(t *testing.T) {
	rm, _ := setupRefManager(t)
	digest := objects.ComputeDigest([]byte("commit"))

	branches, err := rm.ListBranches()
	require.NoError(t, err)
	assert.Empty(t, branches, "an unborn main has no ref file")

	for _, ref := range []RefPath{"refs/heads/main", "refs/heads/feature/x", "refs/heads/dev"} {
		require.NoError(t, rm.UpdateRef(ref, digest))
	}

	branches, err = rm.ListBranches()
	require.NoError(t, err)
	assert.Equal(t, []RefPath{"refs/heads/dev", "refs/heads/feature/x", "refs/heads/main"}, branches)

	require.NoError(t, rm.DeleteRef("refs/heads/feature/x"))
	require.NoError(t, rm.DeleteRef("refs/heads/feature/x"), "deleting twice is fine")

	exists, err := rm.Exists("refs/heads/feature/x")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, rm.DeleteRef(RefHEAD), errs.ErrInvalidInput)
}

package index

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

func setupStaging(t *testing.T) *StagingIndex {
	t.Helper()
	repo, err := scpath.NewRepositoryPath(t.TempDir())
	require.NoError(t, err)
	return NewStagingIndex(repo.SourcePath())
}

func TestStagingIndex_LoadMissing(t *testing.T) {
	s := setupStaging(t)

	idx, err := s.Load()
	require.NoError(t, err)
	assert.True(t, idx.IsEmpty())
}

func TestStagingIndex_LoadBlankFile(t *testing.T) {
	s := setupStaging(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path().String()), 0o755))
	require.NoError(t, os.WriteFile(s.Path().String(), []byte("\n"), 0o644))

	idx, err := s.Load()
	require.NoError(t, err)
	assert.True(t, idx.IsEmpty())
}

func TestStagingIndex_PersistLoadRoundTrip(t *testing.T) {
	s := setupStaging(t)

	idx := NewIndex()
	require.NoError(t, idx.Record("src/main", digestMain, KindFile))
	require.NoError(t, idx.Record("README", digestHello, KindFile))
	require.NoError(t, s.Persist(idx))

	first, err := os.ReadFile(s.Path().String())
	require.NoError(t, err)

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, idx.Entries(), loaded.Entries())

	require.NoError(t, s.Persist(loaded))
	second, err := os.ReadFile(s.Path().String())
	require.NoError(t, err)

	assert.Equal(t, first, second, "persist(load()) must be byte-identical")
}

func TestStagingIndex_Clear(t *testing.T) {
	s := setupStaging(t)

	idx := NewIndex()
	require.NoError(t, idx.Record("README", digestHello, KindFile))
	require.NoError(t, s.Persist(idx))
	require.NoError(t, s.Clear())

	info, err := os.Stat(s.Path().String())
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())

	leftovers, err := filepath.Glob(filepath.Join(s.Path().Dir().String(), ".tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestStagingIndex_LoadCorrupt(t *testing.T) {
	s := setupStaging(t)

	require.NoError(t, os.MkdirAll(s.Path().Dir().String(), 0o755))
	require.NoError(t, os.WriteFile(s.Path().String(), []byte("garbage\n"), 0o644))

	_, err := s.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrIndexCorrupt))
}

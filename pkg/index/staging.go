package index

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/common/fileops"
	"github.com/utkarsh5026/rgit/pkg/common/logger"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

const indexFileMode os.FileMode = 0o644

// StagingIndex persists an Index at .rgit/index. Every write goes through
// a temp file and a rename, so a crash leaves either the old or the new
// index on disk.
type StagingIndex struct {
	path   scpath.AbsolutePath
	logger *slog.Logger
}

// NewStagingIndex returns the staging index of the repository whose
// metadata directory is sourceDir.
func NewStagingIndex(sourceDir scpath.SourcePath) *StagingIndex {
	return &StagingIndex{
		path:   sourceDir.IndexPath().ToAbsolutePath(),
		logger: logger.With("component", "index"),
	}
}

// Path returns the index file location.
func (s *StagingIndex) Path() scpath.AbsolutePath {
	return s.path
}

// Load reads the index. A missing or empty file is an empty index.
func (s *StagingIndex) Load() (*Index, error) {
	data, err := os.ReadFile(s.path.String())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewIndex(), nil
		}
		return nil, errs.StorageIO(pkgName, "load", err)
	}

	idx, err := Parse(data)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("loaded index", "entries", idx.Count())
	return idx, nil
}

// Persist atomically overwrites the index file with idx.
func (s *StagingIndex) Persist(idx *Index) error {
	if err := s.write(idx.Serialize()); err != nil {
		return errs.StorageIO(pkgName, "persist", err)
	}
	s.logger.Debug("persisted index", "entries", idx.Count())
	return nil
}

// Clear atomically replaces the index file with an empty one.
func (s *StagingIndex) Clear() error {
	if err := s.write(nil); err != nil {
		return errs.StorageIO(pkgName, "clear", err)
	}
	s.logger.Debug("cleared index")
	return nil
}

func (s *StagingIndex) write(data []byte) error {
	if err := fileops.EnsureParentDir(s.path); err != nil {
		return err
	}
	return fileops.AtomicWrite(s.path, data, indexFileMode)
}

package sourcerepo

import (
	"log/slog"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/common/fileops"
	"github.com/utkarsh5026/rgit/pkg/common/logger"
	"github.com/utkarsh5026/rgit/pkg/config"
	"github.com/utkarsh5026/rgit/pkg/repository/ignore"
	"github.com/utkarsh5026/rgit/pkg/repository/refs"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
	"github.com/utkarsh5026/rgit/pkg/store"
)

const pkgName = "sourcerepo"

const defaultDescription = "Unnamed repository; edit this file 'description' to name the repository.\n"

// SourceRepository manages the repository layout on disk and hands out
// the object store and config bound to it.
//
//	<working-directory>/
//	├─ .rgit/
//	│  ├─ objects/       content-addressed objects, sharded by digest
//	│  │  ├─ info/
//	│  │  └─ pack/
//	│  ├─ refs/
//	│  │  ├─ heads/      branch tips
//	│  │  └─ tags/
//	│  ├─ hooks/  info/  logs/
//	│  ├─ HEAD           "ref: refs/heads/main"
//	│  ├─ config         TOML
//	│  ├─ description
//	│  ├─ index          staging index
//	│  ├─ COMMIT_MSG
//	│  └─ packed-refs
//	├─ .rgitignore       optional
//	└─ ...               working tree files
type SourceRepository struct {
	workingDir  scpath.RepositoryPath
	sourceDir   scpath.SourcePath
	objectStore *store.FileObjectStore
	config      *config.Manager
	logger      *slog.Logger
}

// InitOptions tunes Initialize.
type InitOptions struct {
	// Compression is recorded as core.compression. Empty means zlib.
	Compression store.Compression

	// WriteIgnore writes the starter .rgitignore unless one exists.
	WriteIgnore bool
}

func newSourceRepository(path scpath.RepositoryPath) *SourceRepository {
	return &SourceRepository{
		workingDir: path,
		sourceDir:  path.SourcePath(),
		logger:     logger.With("component", "repository"),
	}
}

// Initialize creates a new repository at the given path. It fails with
// ErrAlreadyExists when the metadata directory is already there.
func (sr *SourceRepository) Initialize(opts InitOptions) error {
	exists, err := RepositoryExists(sr.workingDir)
	if err != nil {
		return err
	}
	if exists {
		return errs.New(pkgName, errs.CodeAlreadyExists, "init",
			"already an rgit repository", nil).WithContext("path", sr.workingDir.String())
	}

	if err := sr.createDirectories(); err != nil {
		return err
	}
	if err := refs.NewRefManager(sr.sourceDir).Init(); err != nil {
		return err
	}
	if err := sr.createInitialFiles(opts); err != nil {
		return err
	}
	if opts.WriteIgnore {
		if err := sr.writeIgnoreFile(); err != nil {
			return err
		}
	}

	sr.logger.Info("initialized repository", "path", sr.workingDir.String())
	return sr.load()
}

// load reads the config and opens the object store with the configured
// compression.
func (sr *SourceRepository) load() error {
	cfg, err := config.NewManager(sr.sourceDir)
	if err != nil {
		return err
	}
	if err := cfg.Load(); err != nil {
		return err
	}
	compression, err := cfg.Compression()
	if err != nil {
		return err
	}

	sr.config = cfg
	sr.objectStore = store.NewFileObjectStore(sr.sourceDir.ObjectsPath(), store.WithCompression(compression))
	return nil
}

// WorkingDirectory returns the path to the repository's working directory
func (sr *SourceRepository) WorkingDirectory() scpath.RepositoryPath {
	return sr.workingDir
}

// SourceDirectory returns the path to the .rgit directory
func (sr *SourceRepository) SourceDirectory() scpath.SourcePath {
	return sr.sourceDir
}

// ObjectStore returns the object store for this repository
func (sr *SourceRepository) ObjectStore() store.ObjectStore {
	return sr.objectStore
}

// FileStore returns the concrete store, for operations such as Count
// that are not part of the ObjectStore contract.
func (sr *SourceRepository) FileStore() *store.FileObjectStore {
	return sr.objectStore
}

// Config returns the loaded configuration
func (sr *SourceRepository) Config() *config.Manager {
	return sr.config
}

func (sr *SourceRepository) createDirectories() error {
	objectsDir := sr.sourceDir.ObjectsPath()
	directories := []scpath.SourcePath{
		sr.sourceDir,
		sr.sourceDir.Join(scpath.HooksDir),
		sr.sourceDir.Join(scpath.InfoDir),
		sr.sourceDir.Join(scpath.LogsDir),
		objectsDir,
		objectsDir.Join(scpath.InfoDir),
		objectsDir.Join(scpath.PackDir),
		sr.sourceDir.RefsPath(),
	}

	for _, dir := range directories {
		if err := fileops.EnsureDir(dir.ToAbsolutePath()); err != nil {
			return errs.StorageIO(pkgName, "init", err)
		}
	}
	return nil
}

func (sr *SourceRepository) createInitialFiles(opts InitOptions) error {
	cfg := config.DefaultRepositoryFile()
	if opts.Compression != "" {
		cfg.Core.Compression = opts.Compression.String()
	}
	if err := config.SaveFile(sr.sourceDir.ConfigPath().ToAbsolutePath(), cfg); err != nil {
		return err
	}

	files := []struct {
		path    scpath.SourcePath
		content string
	}{
		{sr.sourceDir.Join(scpath.DescriptionFile), defaultDescription},
		{sr.sourceDir.IndexPath(), ""},
		{sr.sourceDir.Join(scpath.CommitMsgFile), ""},
		{sr.sourceDir.Join(scpath.PackedRefsFile), ""},
	}

	for _, file := range files {
		if err := fileops.WriteConfigString(file.path.ToAbsolutePath(), file.content); err != nil {
			return errs.StorageIO(pkgName, "init", err)
		}
	}
	return nil
}

func (sr *SourceRepository) writeIgnoreFile() error {
	path := sr.workingDir.Join(scpath.IgnoreFile)
	exists, err := fileops.Exists(path)
	if err != nil {
		return errs.StorageIO(pkgName, "init", err)
	}
	if exists {
		sr.logger.Debug("keeping existing ignore file", "path", path.String())
		return nil
	}
	if err := fileops.WriteConfigString(path, ignore.DefaultIgnore); err != nil {
		return errs.StorageIO(pkgName, "init", err)
	}
	return nil
}

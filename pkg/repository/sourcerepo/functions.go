package sourcerepo

import (
	"path/filepath"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/common/fileops"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

// FindRepository walks up from startPath to the nearest directory that
// holds a metadata directory and opens it. It returns ErrNotRepository
// when the filesystem root is reached first.
func FindRepository(startPath string) (*SourceRepository, error) {
	abs, err := filepath.Abs(startPath)
	if err != nil {
		return nil, errs.InvalidInput(pkgName, "find", err.Error())
	}
	currentPath := abs

	for {
		repoPath, err := scpath.NewRepositoryPath(currentPath)
		if err != nil {
			return nil, err
		}

		exists, err := RepositoryExists(repoPath)
		if err != nil {
			return nil, err
		}
		if exists {
			return Open(repoPath)
		}

		parentPath := filepath.Dir(currentPath)
		if parentPath == currentPath {
			return nil, notRepository(abs)
		}
		currentPath = parentPath
	}
}

// RepositoryExists reports whether path has a metadata directory.
func RepositoryExists(path scpath.RepositoryPath) (bool, error) {
	exists, err := fileops.IsDirectory(path.SourcePath().ToAbsolutePath())
	if err != nil {
		return false, errs.StorageIO(pkgName, "exists", err)
	}
	return exists, nil
}

// Open opens an existing repository rooted at path.
func Open(path scpath.RepositoryPath) (*SourceRepository, error) {
	exists, err := RepositoryExists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notRepository(path.String())
	}

	repo := newSourceRepository(path)
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

// InitializeRepository creates a repository at path and returns it opened.
func InitializeRepository(path scpath.RepositoryPath, opts InitOptions) (*SourceRepository, error) {
	repo := newSourceRepository(path)
	if err := repo.Initialize(opts); err != nil {
		return nil, err
	}
	return repo, nil
}

func notRepository(path string) error {
	return errs.New(pkgName, errs.CodeNotRepository, "open",
		"not an rgit repository (or any of the parent directories): "+scpath.MetaDir, nil).
		WithContext("path", path)
}

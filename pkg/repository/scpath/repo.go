package scpath

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NewRepositoryPath resolves path to an absolute RepositoryPath.
func NewRepositoryPath(path string) (RepositoryPath, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return RepositoryPath(absPath), nil
}

// String returns the path as a string
func (rp RepositoryPath) String() string {
	return string(rp)
}

// IsValid checks if this is a valid absolute path
func (rp RepositoryPath) IsValid() bool {
	return filepath.IsAbs(string(rp))
}

// Join joins path elements to the repository path
func (rp RepositoryPath) Join(elem ...string) AbsolutePath {
	parts := append([]string{string(rp)}, elem...)
	return AbsolutePath(filepath.Join(parts...))
}

// SourcePath returns the path to the metadata directory
func (rp RepositoryPath) SourcePath() SourcePath {
	return SourcePath(filepath.Join(string(rp), MetaDir))
}

// JoinRelative maps a repository-relative path onto the filesystem.
func (rp RepositoryPath) JoinRelative(rel RelativePath) AbsolutePath {
	return AbsolutePath(filepath.Join(string(rp), filepath.FromSlash(string(rel))))
}

// Rel converts an absolute or working-directory-relative path into a
// RelativePath under this repository. Paths that escape the repository
// are rejected. The repository root itself maps to "".
func (rp RepositoryPath) Rel(path string) (RelativePath, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}

	rel, err := filepath.Rel(string(rp), abs)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	if rel == "." {
		return "", nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errInvalidPath(path, "outside repository "+rp.String())
	}

	return NewRelativePath(rel)
}

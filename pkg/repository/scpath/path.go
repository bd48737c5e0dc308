package scpath

import (
	"fmt"
	"path/filepath"
	"strings"
)

// RepositoryPath is the absolute path of a working tree root.
// Example: "/home/user/project"
type RepositoryPath string

// SourcePath is an absolute path inside the metadata directory.
// Example: "/home/user/project/.rgit/objects"
type SourcePath string

// AbsolutePath is any absolute filesystem path.
type AbsolutePath string

// RelativePath is a cleaned, slash-separated path relative to the
// working tree root. It never starts with "/" and has no ".." component.
// Example: "src/main.go"
type RelativePath string

// String returns the path as a string
func (ap AbsolutePath) String() string {
	return string(ap)
}

// Dir returns all but the last element of the path
func (ap AbsolutePath) Dir() AbsolutePath {
	return AbsolutePath(filepath.Dir(string(ap)))
}

// Base returns the last element of the path
func (ap AbsolutePath) Base() string {
	return filepath.Base(string(ap))
}

// Join joins path elements to the path
func (ap AbsolutePath) Join(elem ...string) AbsolutePath {
	parts := append([]string{string(ap)}, elem...)
	return AbsolutePath(filepath.Join(parts...))
}

// IsPathSafe reports whether p can be used as a RelativePath: not
// absolute, no ".." component, no backslashes and no control characters
// that would break the line-oriented index format.
func IsPathSafe(p string) bool {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return false
	}
	if strings.ContainsAny(p, "\\\n\r\x00") {
		return false
	}
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

// NormalizePath converts p to forward slashes, cleans it and strips a
// leading "./".
func NormalizePath(p string) string {
	p = filepath.ToSlash(filepath.Clean(p))
	return strings.TrimPrefix(p, "./")
}

func errInvalidPath(p string, reason string) error {
	return fmt.Errorf("invalid path %q: %s", p, reason)
}

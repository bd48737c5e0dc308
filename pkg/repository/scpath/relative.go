package scpath

import "strings"

// NewRelativePath normalizes and validates a repository-relative path.
func NewRelativePath(path string) (RelativePath, error) {
	normalized := NormalizePath(path)
	if normalized == "." || normalized == "" {
		return "", errInvalidPath(path, "empty")
	}
	if !IsPathSafe(normalized) {
		return "", errInvalidPath(path, "must be relative and stay inside the repository")
	}
	return RelativePath(normalized), nil
}

// String returns the path as a string
func (rp RelativePath) String() string {
	return string(rp)
}

// IsValid reports whether rp is already in normalized, safe form.
func (rp RelativePath) IsValid() bool {
	s := string(rp)
	return IsPathSafe(s) && NormalizePath(s) == s
}

// Components returns the slash-separated components
func (rp RelativePath) Components() []string {
	if rp == "" {
		return nil
	}
	return strings.Split(string(rp), "/")
}

// Base returns the last element of the path
func (rp RelativePath) Base() string {
	s := string(rp)
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Dir returns the parent directory, or "" at the top level.
func (rp RelativePath) Dir() RelativePath {
	s := string(rp)
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return RelativePath(s[:i])
	}
	return ""
}

// Join appends a single name to the path.
func (rp RelativePath) Join(name string) RelativePath {
	if rp == "" {
		return RelativePath(name)
	}
	return RelativePath(string(rp) + "/" + name)
}

// IsInSubdir reports whether rp is dir or lies beneath it.
func (rp RelativePath) IsInSubdir(dir RelativePath) bool {
	if dir == "" {
		return true
	}
	return rp == dir || strings.HasPrefix(string(rp), string(dir)+"/")
}

// IsMetadata reports whether rp points into the metadata directory.
func (rp RelativePath) IsMetadata() bool {
	return rp.IsInSubdir(MetaDir)
}

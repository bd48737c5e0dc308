package refs

import (
	"fmt"
	"strings"
)

// RefPath is a reference name relative to the metadata directory.
// Examples: "refs/heads/main", "refs/tags/v1.0.0", "HEAD"
type RefPath string

// String returns the reference path as a string
func (rp RefPath) String() string {
	return string(rp)
}

// IsValid applies the usual ref naming rules: no spaces or glob
// characters, no "..", no leading dot and no ".lock" suffix.
func (rp RefPath) IsValid() bool {
	s := string(rp)
	if len(s) == 0 {
		return false
	}

	invalidChars := []string{" ", "~", "^", ":", "?", "*", "[", "\\", "..", "@{", "//", "\n", "\r", "\x00"}
	for _, invalid := range invalidChars {
		if strings.Contains(s, invalid) {
			return false
		}
	}

	if strings.HasSuffix(s, ".lock") || strings.HasSuffix(s, ".") || strings.HasSuffix(s, "/") {
		return false
	}

	return !strings.HasPrefix(s, ".") && !strings.HasPrefix(s, "/")
}

// IsBranch checks if this is a branch reference
func (rp RefPath) IsBranch() bool {
	return strings.HasPrefix(string(rp), string(RefHeads)+"/")
}

// IsTag checks if this is a tag reference
func (rp RefPath) IsTag() bool {
	return strings.HasPrefix(string(rp), string(RefTags)+"/")
}

// IsHEAD checks if this is the HEAD reference
func (rp RefPath) IsHEAD() bool {
	return rp == RefHEAD
}

// ShortName strips the namespace: "refs/heads/main" → "main".
func (rp RefPath) ShortName() string {
	s := string(rp)
	if rp.IsBranch() {
		return strings.TrimPrefix(s, string(RefHeads)+"/")
	}
	if rp.IsTag() {
		return strings.TrimPrefix(s, string(RefTags)+"/")
	}
	return s
}

// NewBranchRef creates a branch reference path
func NewBranchRef(name string) (RefPath, error) {
	if len(name) == 0 {
		return "", fmt.Errorf("branch name cannot be empty")
	}
	refPath := RefPath(string(RefHeads) + "/" + name)
	if !refPath.IsValid() {
		return "", fmt.Errorf("invalid branch name: %s", name)
	}
	return refPath, nil
}

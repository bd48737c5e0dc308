package objects

import (
	"fmt"
	"strconv"
)

// FileMode is the mode recorded for a tree entry. Only two kinds exist:
// a regular file and a subdirectory (a nested tree).
type FileMode uint32

const (
	FileModeRegular   FileMode = 0o100644 // Regular file, rw-r--r--
	FileModeDirectory FileMode = 0o040000 // Directory (nested tree)
)

// Entry kinds as written in serialized trees.
const (
	KindFile = "file"
	KindTree = "tree"
)

// IsDirectory reports whether the mode denotes a nested tree.
func (m FileMode) IsDirectory() bool {
	return m == FileModeDirectory
}

// Kind returns the word written after the mode in a tree line.
func (m FileMode) Kind() string {
	if m.IsDirectory() {
		return KindTree
	}
	return KindFile
}

// ToOctalString returns the six-digit octal form, e.g. "100644", "040000".
func (m FileMode) ToOctalString() string {
	return fmt.Sprintf("%06o", uint32(m))
}

// String implements fmt.Stringer.
func (m FileMode) String() string {
	return m.ToOctalString()
}

// FromOctalString parses a mode written by ToOctalString. Only the modes
// this package defines are accepted.
func FromOctalString(s string) (FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid file mode %q: %w", s, err)
	}
	m := FileMode(v)
	switch m {
	case FileModeRegular, FileModeDirectory:
		return m, nil
	default:
		return 0, fmt.Errorf("unsupported file mode %q", s)
	}
}

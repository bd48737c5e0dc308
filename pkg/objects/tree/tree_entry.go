package tree

import (
	"fmt"
	"strings"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/objects"
)

// TreeEntry is one member of a directory snapshot: a file or a nested
// tree, its name within the directory and the digest of its content.
//
// Serialized form (one line):
//
//	<mode> <file|tree> <digest>\t<name>\n
//
// e.g. "100644 file aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d\tREADME"
type TreeEntry struct {
	mode   objects.FileMode
	name   string
	digest objects.Digest
}

// NewTreeEntry creates a validated entry.
func NewTreeEntry(mode objects.FileMode, name string, digest objects.Digest) (*TreeEntry, error) {
	if mode != objects.FileModeRegular && mode != objects.FileModeDirectory {
		return nil, errs.InvalidInput("tree", "new entry", fmt.Sprintf("unsupported mode %s", mode))
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := digest.Validate(); err != nil {
		return nil, errs.Wrap(err, "tree", "new entry")
	}
	return &TreeEntry{mode: mode, name: name, digest: digest}, nil
}

// Mode returns the entry mode
func (e *TreeEntry) Mode() objects.FileMode {
	return e.mode
}

// Name returns the entry name
func (e *TreeEntry) Name() string {
	return e.name
}

// Digest returns the digest of the referenced object
func (e *TreeEntry) Digest() objects.Digest {
	return e.digest
}

// IsDirectory returns true if this entry is a nested tree
func (e *TreeEntry) IsDirectory() bool {
	return e.mode.IsDirectory()
}

// Serialize returns the entry's line, including the trailing newline.
func (e *TreeEntry) Serialize() string {
	return fmt.Sprintf("%s %s %s\t%s\n", e.mode.ToOctalString(), e.mode.Kind(), e.digest, e.name)
}

// parseEntryLine is the inverse of Serialize for a line without its
// trailing newline.
func parseEntryLine(line string) (*TreeEntry, error) {
	header, name, ok := strings.Cut(line, "\t")
	if !ok {
		return nil, fmt.Errorf("missing tab separator")
	}

	fields := strings.Split(header, " ")
	if len(fields) != 3 {
		return nil, fmt.Errorf("expected \"<mode> <kind> <digest>\", got %q", header)
	}

	mode, err := objects.FromOctalString(fields[0])
	if err != nil {
		return nil, err
	}
	if fields[1] != mode.Kind() {
		return nil, fmt.Errorf("kind %q does not match mode %s", fields[1], mode)
	}

	return NewTreeEntry(mode, name, objects.Digest(fields[2]))
}

// validateName rejects names that cannot be a single path component or
// that would break the line format.
func validateName(name string) error {
	switch {
	case name == "":
		return errs.InvalidInput("tree", "validate name", "entry name cannot be empty")
	case name == "." || name == "..":
		return errs.InvalidInput("tree", "validate name", fmt.Sprintf("invalid entry name %q", name))
	case strings.ContainsAny(name, "/\t\n\r\x00"):
		return errs.InvalidInput("tree", "validate name", fmt.Sprintf("entry name %q contains a separator or control character", name))
	}
	return nil
}

package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/objects"
)

// Tree is a directory snapshot: a set of uniquely named entries kept in
// byte-wise name order.
//
// The serialized form is the concatenation of the entries' lines, so two
// directories with the same names and digests always serialize, and
// therefore hash, identically no matter how they were enumerated:
//
//	100644 file aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d	README
//	040000 tree 3f786850e387550fdab836ed7e6dc881de23001b	src
//
// The empty tree serializes to zero bytes.
type Tree struct {
	entries []*TreeEntry
}

// NewTree builds a tree from entries in any order. Duplicate names are
// rejected.
func NewTree(entries []*TreeEntry) (*Tree, error) {
	sorted := make([]*TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].name < sorted[j].name
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].name == sorted[i-1].name {
			return nil, errs.InvalidInput("tree", "new tree", fmt.Sprintf("duplicate entry name %q", sorted[i].name))
		}
	}

	return &Tree{entries: sorted}, nil
}

// ParseTree decodes a stored tree. Input that is not in canonical form
// (unsorted, duplicated, malformed) is reported as a corrupt object.
func ParseTree(data []byte) (*Tree, error) {
	content := string(data)
	if content == "" {
		return &Tree{}, nil
	}
	if !strings.HasSuffix(content, "\n") {
		return nil, corrupt("missing trailing newline")
	}

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	entries := make([]*TreeEntry, 0, len(lines))
	for i, line := range lines {
		entry, err := parseEntryLine(line)
		if err != nil {
			return nil, corrupt(fmt.Sprintf("line %d: %v", i+1, err))
		}
		if i > 0 && entries[i-1].name >= entry.name {
			return nil, corrupt(fmt.Sprintf("line %d: entries not in sorted order", i+1))
		}
		entries = append(entries, entry)
	}

	return &Tree{entries: entries}, nil
}

// Serialize returns the canonical bytes of the tree.
func (t *Tree) Serialize() []byte {
	var sb strings.Builder
	for _, entry := range t.entries {
		sb.WriteString(entry.Serialize())
	}
	return []byte(sb.String())
}

// Digest returns the content address of the serialized tree.
func (t *Tree) Digest() objects.Digest {
	return objects.ComputeDigest(t.Serialize())
}

// Entries returns a copy of the sorted entries.
func (t *Tree) Entries() []*TreeEntry {
	entries := make([]*TreeEntry, len(t.entries))
	copy(entries, t.entries)
	return entries
}

// Len returns the number of entries.
func (t *Tree) Len() int {
	return len(t.entries)
}

// IsEmpty returns true if the tree has no entries
func (t *Tree) IsEmpty() bool {
	return len(t.entries) == 0
}

// Find returns the entry with the given name, or nil.
func (t *Tree) Find(name string) *TreeEntry {
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].name >= name
	})
	if i < len(t.entries) && t.entries[i].name == name {
		return t.entries[i]
	}
	return nil
}

// String returns a human-readable representation
func (t *Tree) String() string {
	return fmt.Sprintf("Tree{entries: %d, digest: %s}", len(t.entries), t.Digest().Short())
}

func corrupt(msg string) error {
	return errs.New("tree", errs.CodeObjectCorrupt, "parse", msg, nil)
}

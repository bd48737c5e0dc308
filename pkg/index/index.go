package index

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

const pkgName = "index"

// Index is the in-memory staging set: path → Entry.
//
// On disk it is a text file with one line per staged file, sorted by path:
//
//	<digest-hex> <path>\n
//
// The digest is always 40 characters followed by one space, so the path
// is everything after column 41 and may itself contain spaces. An empty
// file is an empty set.
//
// Index is safe for concurrent use; the add flow records from several
// goroutines at once.
type Index struct {
	mu      sync.Mutex
	entries map[scpath.RelativePath]Entry
}

// NewIndex creates a new empty index.
func NewIndex() *Index {
	return &Index{entries: make(map[scpath.RelativePath]Entry)}
}

// Record stages path with digest, replacing any previous entry for the
// same path. A file cannot also be a directory, so recording "a/b" drops
// a staged file "a" and recording "a" drops everything staged under "a/".
func (idx *Index) Record(path scpath.RelativePath, digest objects.Digest, kind Kind) error {
	if err := validateEntry(path, digest, kind); err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for dir := path.Dir(); dir != ""; dir = dir.Dir() {
		delete(idx.entries, dir)
	}
	for p := range idx.entries {
		if p != path && p.IsInSubdir(path) {
			delete(idx.entries, p)
		}
	}

	idx.entries[path] = Entry{Path: path, Digest: digest, Kind: kind}
	return nil
}

func validateEntry(path scpath.RelativePath, digest objects.Digest, kind Kind) error {
	if kind != KindFile {
		return errs.InvalidInput(pkgName, "record",
			fmt.Sprintf("cannot stage %s %q: only files are staged", kind, path))
	}
	if path == "" || !path.IsValid() {
		return errs.InvalidInput(pkgName, "record", fmt.Sprintf("invalid path %q", path))
	}
	if path.IsMetadata() {
		return errs.InvalidInput(pkgName, "record",
			fmt.Sprintf("cannot stage %q inside %s", path, scpath.MetaDir))
	}
	if err := digest.Validate(); err != nil {
		return errs.Wrap(err, pkgName, "record")
	}
	return nil
}

// Get returns the entry for path.
func (idx *Index) Get(path scpath.RelativePath) (Entry, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	e, ok := idx.entries[path]
	return e, ok
}

// Has reports whether path is staged.
func (idx *Index) Has(path scpath.RelativePath) bool {
	_, ok := idx.Get(path)
	return ok
}

// Remove unstages path and reports whether it was staged.
func (idx *Index) Remove(path scpath.RelativePath) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, ok := idx.entries[path]; !ok {
		return false
	}
	delete(idx.entries, path)
	return true
}

// RemoveUnder unstages path and everything beneath it, returning the
// removed paths in order.
func (idx *Index) RemoveUnder(dir scpath.RelativePath) []scpath.RelativePath {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	var removed []scpath.RelativePath
	for p := range idx.entries {
		if p.IsInSubdir(dir) {
			removed = append(removed, p)
			delete(idx.entries, p)
		}
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	return removed
}

// Entries returns a snapshot of the staged entries sorted by path.
func (idx *Index) Entries() []Entry {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	out := make([]Entry, 0, len(idx.entries))
	for _, e := range idx.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Count returns the number of staged entries.
func (idx *Index) Count() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.entries)
}

// IsEmpty reports whether nothing is staged.
func (idx *Index) IsEmpty() bool {
	return idx.Count() == 0
}

// Clear unstages everything.
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = make(map[scpath.RelativePath]Entry)
}

// Serialize encodes the index in its on-disk form.
func (idx *Index) Serialize() []byte {
	var buf bytes.Buffer
	for _, e := range idx.Entries() {
		buf.WriteString(e.Digest.String())
		buf.WriteByte(' ')
		buf.WriteString(e.Path.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Parse decodes the on-disk form. Empty or whitespace-only content is an
// empty set. Any malformed line, duplicate path or path that is both a
// file and a directory makes the whole index corrupt.
func Parse(data []byte) (*Index, error) {
	idx := NewIndex()
	if len(bytes.TrimSpace(data)) == 0 {
		return idx, nil
	}

	text := strings.TrimSuffix(string(data), "\n")
	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1

		if len(line) < objects.DigestLength+2 || line[objects.DigestLength] != ' ' {
			return nil, corrupt(lineNo, "expected \"<digest> <path>\"", nil)
		}

		digest := objects.Digest(line[:objects.DigestLength])
		if err := digest.Validate(); err != nil {
			return nil, corrupt(lineNo, "bad digest", err)
		}

		path := scpath.RelativePath(line[objects.DigestLength+1:])
		if !path.IsValid() || path.IsMetadata() {
			return nil, corrupt(lineNo, fmt.Sprintf("bad path %q", path), nil)
		}
		if _, dup := idx.entries[path]; dup {
			return nil, corrupt(lineNo, fmt.Sprintf("duplicate path %q", path), nil)
		}

		idx.entries[path] = Entry{Path: path, Digest: digest, Kind: KindFile}
	}

	if p, ok := idx.fileDirConflict(); ok {
		return nil, corrupt(0, fmt.Sprintf("%q is staged as both a file and a directory", p), nil)
	}
	return idx, nil
}

// fileDirConflict finds a staged path that is also a parent of another.
func (idx *Index) fileDirConflict() (scpath.RelativePath, bool) {
	for p := range idx.entries {
		for dir := p.Dir(); dir != ""; dir = dir.Dir() {
			if _, ok := idx.entries[dir]; ok {
				return dir, true
			}
		}
	}
	return "", false
}

// corrupt builds an IndexCorrupt error. line 0 means the file as a whole.
func corrupt(line int, message string, cause error) error {
	if line > 0 {
		message = fmt.Sprintf("line %d: %s", line, message)
	}
	return errs.New(pkgName, errs.CodeIndexCorrupt, "parse", message, cause)
}

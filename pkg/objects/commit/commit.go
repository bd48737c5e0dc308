package commit

import (
	"fmt"
	"strings"
	"time"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/objects"
)

// DateLayout is the timestamp format on the date line (ISO-8601).
const DateLayout = time.RFC3339

// Commit is an immutable snapshot record: a root tree, an optional parent
// commit, who made it, when, and why.
//
// Serialized form:
//
//	tree <digest>
//	parent <digest>          (omitted for a root commit)
//	author <name> <<email>>
//	date <RFC 3339 timestamp>
//
//	<message>
//
// The message is followed by exactly one newline. The commit's digest is
// the digest of these bytes, so any change produces a different commit.
type Commit struct {
	Tree    objects.Digest
	Parent  objects.Digest
	Author  Identity
	Date    time.Time
	Message string
}

// HasParent reports whether this is not a root commit.
func (c *Commit) HasParent() bool {
	return !c.Parent.IsZero()
}

// Serialize returns the canonical bytes.
func (c *Commit) Serialize() []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "tree %s\n", c.Tree)
	if c.HasParent() {
		fmt.Fprintf(&sb, "parent %s\n", c.Parent)
	}
	fmt.Fprintf(&sb, "author %s\n", c.Author)
	fmt.Fprintf(&sb, "date %s\n", c.Date.Format(DateLayout))
	sb.WriteString("\n")
	sb.WriteString(c.Message)
	sb.WriteString("\n")
	return []byte(sb.String())
}

// Digest returns the content address of the serialized commit.
func (c *Commit) Digest() objects.Digest {
	return objects.ComputeDigest(c.Serialize())
}

// Subject returns the first line of the message.
func (c *Commit) Subject() string {
	subject, _, _ := strings.Cut(c.Message, "\n")
	return subject
}

// Validate checks the fields Serialize relies on.
func (c *Commit) Validate() error {
	if err := c.Tree.Validate(); err != nil {
		return errs.Wrap(err, "commit", "validate tree")
	}
	if c.HasParent() {
		if err := c.Parent.Validate(); err != nil {
			return errs.Wrap(err, "commit", "validate parent")
		}
	}
	if err := c.Author.Validate(); err != nil {
		return err
	}
	if c.Date.IsZero() {
		return errs.InvalidInput("commit", "validate", "commit date is not set")
	}
	return ValidateMessage(c.Message)
}

// ValidateMessage rejects a message that is empty or only whitespace.
func ValidateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return errs.New("commit", errs.CodeEmptyMessage, "validate", "commit message cannot be empty", nil)
	}
	return nil
}

// ParseCommit decodes a stored commit. Anything other than the canonical
// layout is reported as a corrupt object.
func ParseCommit(data []byte) (*Commit, error) {
	header, message, ok := strings.Cut(string(data), "\n\n")
	if !ok {
		return nil, corrupt("missing blank line between header and message")
	}
	if !strings.HasSuffix(message, "\n") {
		return nil, corrupt("message is not newline terminated")
	}

	c := &Commit{Message: strings.TrimSuffix(message, "\n")}
	lines := strings.Split(header, "\n")

	next := func(key string) (string, bool) {
		if len(lines) == 0 {
			return "", false
		}
		value, found := strings.CutPrefix(lines[0], key+" ")
		if !found {
			return "", false
		}
		lines = lines[1:]
		return value, true
	}

	treeHex, ok := next("tree")
	if !ok {
		return nil, corrupt("missing tree line")
	}
	tree, err := objects.ParseDigest(treeHex)
	if err != nil {
		return nil, corrupt(fmt.Sprintf("tree: %v", err))
	}
	c.Tree = tree

	if parentHex, ok := next("parent"); ok {
		parent, err := objects.ParseDigest(parentHex)
		if err != nil {
			return nil, corrupt(fmt.Sprintf("parent: %v", err))
		}
		c.Parent = parent
	}

	author, ok := next("author")
	if !ok {
		return nil, corrupt("missing author line")
	}
	if c.Author, err = ParseIdentity(author); err != nil {
		return nil, corrupt(fmt.Sprintf("author: %v", err))
	}

	date, ok := next("date")
	if !ok {
		return nil, corrupt("missing date line")
	}
	if c.Date, err = time.Parse(DateLayout, date); err != nil {
		return nil, corrupt(fmt.Sprintf("date: %v", err))
	}

	if len(lines) != 0 {
		return nil, corrupt(fmt.Sprintf("unexpected header line %q", lines[0]))
	}

	return c, nil
}

func corrupt(msg string) error {
	return errs.New("commit", errs.CodeObjectCorrupt, "parse", msg, nil)
}

package commit

import (
	"fmt"
	"strings"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
)

// Identity is the author recorded on a commit.
//
// Format on the author line: "Name <email>"
type Identity struct {
	Name  string
	Email string
}

// NewIdentity trims and validates name and email.
func NewIdentity(name, email string) (Identity, error) {
	id := Identity{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if err := id.Validate(); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// ParseIdentity parses "Name <email>".
func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	open := strings.LastIndex(s, " <")
	if open < 0 || !strings.HasSuffix(s, ">") {
		return Identity{}, errs.InvalidInput("commit", "parse identity", fmt.Sprintf("expected \"Name <email>\", got %q", s))
	}
	return NewIdentity(s[:open], s[open+2:len(s)-1])
}

// Validate rejects empty fields and characters that would make the author
// line ambiguous.
func (id Identity) Validate() error {
	if id.Name == "" {
		return errs.InvalidInput("commit", "validate identity", "author name cannot be empty")
	}
	if id.Email == "" {
		return errs.InvalidInput("commit", "validate identity", "author email cannot be empty")
	}
	for _, field := range []string{id.Name, id.Email} {
		if strings.ContainsAny(field, "<>\n\r\x00") {
			return errs.InvalidInput("commit", "validate identity", fmt.Sprintf("invalid character in %q", field))
		}
	}
	return nil
}

// String returns "Name <email>".
func (id Identity) String() string {
	return fmt.Sprintf("%s <%s>", id.Name, id.Email)
}

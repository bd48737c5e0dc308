package objects

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
)

// Digest is the content address of a stored object: the SHA-1 of its
// raw bytes as 40 lowercase hex characters.
// Example: "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"
//
// The zero value means "no digest", e.g. the parent of a root commit.
type Digest string

const (
	// DigestLength is the length of a digest in hex characters.
	DigestLength = 2 * sha1.Size

	// ShortLength is the default abbreviation length for display.
	ShortLength = 7
)

// ComputeDigest hashes data. It is total and deterministic; the empty
// input has its own digest like any other.
func ComputeDigest(data []byte) Digest {
	sum := sha1.Sum(data)
	return Digest(hex.EncodeToString(sum[:]))
}

// ParseDigest validates a hex digest from user input or disk. Upper-case
// hex is accepted and folded to lower case.
func ParseDigest(s string) (Digest, error) {
	d := Digest(strings.ToLower(strings.TrimSpace(s)))
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// String returns the hex form.
func (d Digest) String() string {
	return string(d)
}

// IsZero reports whether d is the "no digest" value.
func (d Digest) IsZero() bool {
	return d == ""
}

// Validate checks length and alphabet.
func (d Digest) Validate() error {
	if len(d) != DigestLength {
		return errs.InvalidInput("objects", "validate digest",
			fmt.Sprintf("digest must be %d hex characters, got %d", DigestLength, len(d)))
	}
	for i := 0; i < len(d); i++ {
		c := d[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return errs.InvalidInput("objects", "validate digest",
				fmt.Sprintf("invalid character %q in digest", c))
		}
	}
	return nil
}

// Short returns the abbreviated form used in CLI output.
func (d Digest) Short() string {
	if len(d) > ShortLength {
		return string(d[:ShortLength])
	}
	return string(d)
}

// MarshalText implements encoding.TextMarshaler.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

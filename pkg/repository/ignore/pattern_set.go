package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

// PatternSet is a collection of ignore patterns
type PatternSet struct {
	patterns         []*IgnorePattern
	negationPatterns []*IgnorePattern
}

// NewPatternSet creates a new empty pattern set
func NewPatternSet() *PatternSet {
	return &PatternSet{}
}

// Load reads the ignore file at the repository root. A missing file gives
// an empty set.
func Load(repo scpath.RepositoryPath) (*PatternSet, error) {
	ps := NewPatternSet()

	data, err := os.ReadFile(repo.Join(scpath.IgnoreFile).String())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ps, nil
		}
		return nil, fmt.Errorf("read %s: %w", scpath.IgnoreFile, err)
	}

	if err := ps.AddPatternsFromText(string(data), scpath.IgnoreFile); err != nil {
		return nil, err
	}
	return ps, nil
}

// Add adds a pattern to the set
func (ps *PatternSet) Add(pattern *IgnorePattern) {
	if pattern.IsNegation {
		ps.negationPatterns = append(ps.negationPatterns, pattern)
	} else {
		ps.patterns = append(ps.patterns, pattern)
	}
}

// AddPatternsFromText compiles every line of text. Valid lines are added
// even when others fail; the failures are returned together.
func (ps *PatternSet) AddPatternsFromText(text, source string) error {
	var result *multierror.Error

	for i, line := range strings.Split(text, "\n") {
		pattern, err := FromLine(line, source, i+1)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if pattern != nil {
			ps.Add(pattern)
		}
	}

	return result.ErrorOrNil()
}

// IsIgnored reports whether path should be skipped. The metadata
// directory is always ignored. A path is ignored when it or one of its
// parent directories matches an ignore pattern, unless a negation pattern
// matches the path itself.
func (ps *PatternSet) IsIgnored(path scpath.RelativePath, isDirectory bool) bool {
	if path == "" {
		return false
	}
	if path.IsMetadata() {
		return true
	}

	ignored := ps.matchAny(ps.patterns, path, isDirectory)
	for dir := path.Dir(); !ignored && dir != ""; dir = dir.Dir() {
		ignored = ps.matchAny(ps.patterns, dir, true)
	}
	if !ignored {
		return false
	}

	return !ps.matchAny(ps.negationPatterns, path, isDirectory)
}

func (ps *PatternSet) matchAny(patterns []*IgnorePattern, path scpath.RelativePath, isDirectory bool) bool {
	for _, p := range patterns {
		if p.Matches(path, isDirectory) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns, negations included.
func (ps *PatternSet) Len() int {
	return len(ps.patterns) + len(ps.negationPatterns)
}

// IgnoredPatterns returns all ignore patterns (non-negation patterns)
func (ps *PatternSet) IgnoredPatterns() []*IgnorePattern {
	return ps.patterns
}

// UnignoredPatterns returns all negation patterns (patterns that un-ignore files)
func (ps *PatternSet) UnignoredPatterns() []*IgnorePattern {
	return ps.negationPatterns
}

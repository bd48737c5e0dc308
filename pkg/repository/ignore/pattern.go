package ignore

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

const (
	NegationPrefix  = '!'
	DirectorySuffix = '/'
	RootedPrefix    = '/'
	CommentPrefix   = '#'
	DefaultSource   = scpath.IgnoreFile

	separator = '/'
)

// PatternConfig holds the parsed configuration of an ignore pattern
type PatternConfig struct {
	IsNegation     bool
	IsDirOnly      bool
	IsRooted       bool
	CleanedPattern string
}

// NewPatternConfig strips the negation, directory and rooted markers from
// pattern and records which were present.
func NewPatternConfig(pattern string) PatternConfig {
	var config PatternConfig

	if after, found := strings.CutPrefix(pattern, string(NegationPrefix)); found {
		config.IsNegation = true
		pattern = after
	}

	if before, found := strings.CutSuffix(pattern, string(DirectorySuffix)); found {
		config.IsDirOnly = true
		pattern = before
	}

	if after, found := strings.CutPrefix(pattern, string(RootedPrefix)); found {
		config.IsRooted = true
		pattern = after
	}

	config.CleanedPattern = strings.TrimSpace(pattern)
	return config
}

// IgnorePattern is a single compiled line of an ignore file.
//
// Pattern Rules:
//   - Blank lines and lines starting with # are comments
//   - ! prefix negates the pattern (re-includes files)
//   - / suffix matches only directories
//   - / prefix anchors the pattern at the repository root
//   - a pattern without any other / matches the base name at any depth
//   - ** matches across directories, * and ? stay within one
//
// Examples:
//   - *.log          → every .log file
//   - build/         → every directory named build
//   - /TODO          → TODO at the root only
//   - **/temp        → temp at any depth, including the root
//   - docs/*.pdf     → PDFs directly inside docs
type IgnorePattern struct {
	Pattern    string
	IsNegation bool
	IsDirOnly  bool
	IsAnchored bool
	Source     string
	LineNumber int

	globs []glob.Glob
}

// FromLine compiles one line of an ignore file. It returns nil, nil for
// blank lines and comments.
func FromLine(line, source string, lineNumber int) (*IgnorePattern, error) {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || line[0] == CommentPrefix {
		return nil, nil
	}
	if source == "" {
		source = DefaultSource
	}

	config := NewPatternConfig(line)
	if config.CleanedPattern == "" {
		return nil, nil
	}

	p := &IgnorePattern{
		Pattern:    config.CleanedPattern,
		IsNegation: config.IsNegation,
		IsDirOnly:  config.IsDirOnly,
		IsAnchored: config.IsRooted || strings.ContainsRune(config.CleanedPattern, separator),
		Source:     source,
		LineNumber: lineNumber,
	}

	exprs := []string{p.Pattern}
	if rest, ok := strings.CutPrefix(p.Pattern, "**/"); ok {
		exprs = append(exprs, rest)
	}

	for _, expr := range exprs {
		g, err := glob.Compile(expr, separator)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid pattern %q: %w", source, lineNumber, line, err)
		}
		p.globs = append(p.globs, g)
	}
	return p, nil
}

// Matches reports whether the pattern applies to path itself. Ancestor
// directories are handled by PatternSet.
func (ip *IgnorePattern) Matches(path scpath.RelativePath, isDirectory bool) bool {
	if ip.IsDirOnly && !isDirectory {
		return false
	}

	subject := path.String()
	if !ip.IsAnchored {
		subject = path.Base()
	}

	for _, g := range ip.globs {
		if g.Match(subject) {
			return true
		}
	}
	return false
}

// String returns the pattern as written, minus surrounding whitespace.
func (ip *IgnorePattern) String() string {
	var b strings.Builder
	if ip.IsNegation {
		b.WriteByte(NegationPrefix)
	}
	b.WriteString(ip.Pattern)
	if ip.IsDirOnly {
		b.WriteByte(DirectorySuffix)
	}
	return b.String()
}

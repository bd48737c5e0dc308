package config

import (
	"fmt"
	"strings"
)

// ConfigLevel represents the precedence level of a configuration value.
// Higher levels override lower ones.
type ConfigLevel int

const (
	// UserLevel is the per-user file, ~/.rgitconfig or $RGIT_CONFIG_GLOBAL.
	UserLevel ConfigLevel = iota

	// RepositoryLevel is the repository's .rgit/config.
	RepositoryLevel

	// EnvironmentLevel comes from RGIT_AUTHOR_* variables.
	EnvironmentLevel
)

// String returns the string representation of the config level
func (l ConfigLevel) String() string {
	switch l {
	case UserLevel:
		return "global"
	case RepositoryLevel:
		return "repository"
	case EnvironmentLevel:
		return "environment"
	default:
		return "unknown"
	}
}

// IsValid checks if the config level is valid
func (l ConfigLevel) IsValid() bool {
	return l >= UserLevel && l <= EnvironmentLevel
}

// CanWrite reports whether values at this level are stored in a file.
func (l ConfigLevel) CanWrite() bool {
	return l == UserLevel || l == RepositoryLevel
}

// ParseLevel parses a level name as accepted on the command line.
func ParseLevel(s string) (ConfigLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "global", "user":
		return UserLevel, nil
	case "repository", "local", "":
		return RepositoryLevel, nil
	case "environment", "env":
		return EnvironmentLevel, nil
	default:
		return 0, fmt.Errorf("invalid config level: %q", s)
	}
}

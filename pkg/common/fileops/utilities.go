package fileops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

// Exists checks if a file or directory exists at the given path.
// Returns an error only for filesystem failures other than non-existence.
func Exists(p scpath.AbsolutePath) (bool, error) {
	_, err := os.Stat(p.String())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("check existence: %w", err)
}

// IsDirectory checks if the path exists and is a directory.
func IsDirectory(p scpath.AbsolutePath) (bool, error) {
	info, err := os.Stat(p.String())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat path: %w", err)
	}
	return info.IsDir(), nil
}

// EnsureDir creates the directory and any missing parents.
func EnsureDir(p scpath.AbsolutePath) error {
	if err := os.MkdirAll(p.String(), 0o755); err != nil {
		return fmt.Errorf("ensure directory %s: %w", p, err)
	}
	return nil
}

// EnsureParentDir creates the parent directory of p if needed.
func EnsureParentDir(p scpath.AbsolutePath) error {
	return EnsureDir(p.Dir())
}

// ReadString reads a file and returns its content trimmed of surrounding
// whitespace. A missing file yields "" and no error.
func ReadString(p scpath.AbsolutePath) (string, error) {
	data, err := os.ReadFile(p.String())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteConfig atomically writes a 0644 metadata file, creating its
// parent directory first.
func WriteConfig(p scpath.AbsolutePath, data []byte) error {
	if err := EnsureParentDir(p); err != nil {
		return err
	}
	if err := AtomicWrite(p, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p.Base(), err)
	}
	return nil
}

// WriteConfigString is WriteConfig for string content.
func WriteConfigString(p scpath.AbsolutePath, content string) error {
	return WriteConfig(p, []byte(content))
}

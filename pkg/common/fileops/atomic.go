package fileops

import (
	"fmt"
	"os"

	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

// AtomicWrite writes data to targetPath so that readers only ever observe
// the old content or the complete new content.
//
// The data goes to a temporary file in the target's directory, is fsynced
// and closed, then renamed over the target. The temporary file is removed
// on every failure path; the parent directory must already exist.
func AtomicWrite(targetPath scpath.AbsolutePath, data []byte, mode os.FileMode) error {
	tmpFile, err := os.CreateTemp(targetPath.Dir().String(), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmpFile.Name()

	renamed := false
	defer func() {
		if !renamed {
			tmpFile.Close()
			os.Remove(tmpName)
		}
	}()

	if err := writeTempFile(data, tmpFile); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := renameTempFile(tmpName, targetPath.String(), mode); err != nil {
		return err
	}
	renamed = true
	return nil
}

// writeTempFile writes data, fsyncs and closes the file.
func writeTempFile(data []byte, tmpFile *os.File) error {
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

// renameTempFile applies mode to the temp file and moves it into place.
func renameTempFile(tmpPath string, targetPath string, mode os.FileMode) error {
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}

	if err := os.Rename(tmpPath, targetPath); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/utkarsh5026/rgit/pkg/common/clock"
	"github.com/utkarsh5026/rgit/pkg/config"
	"github.com/utkarsh5026/rgit/pkg/objects"
)

// TestHelper runs CLI commands inside an isolated temporary directory.
type TestHelper struct {
	t       *testing.T
	tempDir string
}

// NewTestHelper changes into a fresh directory, isolates the user-level
// config and pins the commit clock.
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	t.Setenv(config.GlobalConfigEnv, filepath.Join(t.TempDir(), config.GlobalConfigName))
	t.Setenv(config.AuthorNameEnv, "")
	t.Setenv(config.AuthorEmailEnv, "")

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	previous := commitClock
	commitClock = clock.Fixed(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC))
	t.Cleanup(func() { commitClock = previous })

	return &TestHelper{t: t, tempDir: dir}
}

// Run executes the root command with args and returns its output.
func (th *TestHelper) Run(args ...string) (string, error) {
	th.t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// MustRun is Run that fails the test on error.
func (th *TestHelper) MustRun(args ...string) string {
	th.t.Helper()

	out, err := th.Run(args...)
	if err != nil {
		th.t.Fatalf("rgit %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// InitRepo runs init and sets an identity.
func (th *TestHelper) InitRepo() {
	th.t.Helper()
	th.MustRun("init")
	th.MustRun("config", "user.name", "Ada Lovelace")
	th.MustRun("config", "user.email", "ada@example.com")
}

// WriteFile creates a test file with content
func (th *TestHelper) WriteFile(name, content string) string {
	th.t.Helper()

	filePath := filepath.Join(th.tempDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		th.t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		th.t.Fatalf("failed to write file %s: %v", filePath, err)
	}
	return filePath
}

// Head returns the commit the default branch points at.
func (th *TestHelper) Head() objects.Digest {
	th.t.Helper()

	data, err := os.ReadFile(filepath.Join(th.tempDir, ".rgit", "refs", "heads", "main"))
	if err != nil {
		th.t.Fatalf("read branch: %v", err)
	}
	return objects.Digest(strings.TrimSpace(string(data)))
}

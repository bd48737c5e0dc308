package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

func TestInitCommand(t *testing.T) {
	h := NewTestHelper(t)

	out := h.MustRun("init")
	assert.Contains(t, out, "Initialized empty rgit repository in")
	assert.DirExists(t, filepath.Join(h.tempDir, ".rgit", "objects"))
	assert.NoFileExists(t, filepath.Join(h.tempDir, scpath.IgnoreFile))

	_, err := h.Run("init")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)
	assert.Equal(t, exitFailure, exitCode(err))
}

func TestInitCommand_Options(t *testing.T) {
	h := NewTestHelper(t)

	h.MustRun("init", "--ignore", "--compression", "zstd", "project")
	assert.FileExists(t, filepath.Join(h.tempDir, "project", scpath.IgnoreFile))

	cfg, err := os.ReadFile(filepath.Join(h.tempDir, "project", ".rgit", "config"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), `compression = "zstd"`)

	_, err = h.Run("init", "--compression", "lz4", "other")
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestEndToEnd(t *testing.T) {
	h := NewTestHelper(t)
	h.InitRepo()

	h.WriteFile("README", "hello")
	h.WriteFile("src/main.rs", "fn main(){}")

	out := h.MustRun("add", ".")
	assert.Contains(t, out, "README")
	assert.Contains(t, out, "src/main.rs")

	out = h.MustRun("status")
	assert.Contains(t, out, "Changes to be committed:")
	assert.Contains(t, out, "No commits yet")

	out = h.MustRun("commit", "-m", "initial snapshot")
	head := h.Head()
	assert.Contains(t, out, "main (root-commit)")
	assert.Contains(t, out, head.Short())
	assert.Contains(t, out, "initial snapshot")
	assert.Contains(t, out, "2 file(s)")

	out = h.MustRun("status")
	assert.Contains(t, out, "nothing to commit, working tree clean")

	catOut := h.MustRun("cat-file", head.String())
	assert.True(t, strings.HasPrefix(catOut, "tree "), catOut)
	assert.Contains(t, catOut, "author Ada Lovelace <ada@example.com>\n")
	assert.Contains(t, catOut, "date 2024-03-01T12:30:00Z\n")
	assert.True(t, strings.HasSuffix(catOut, "\n\ninitial snapshot\n"))

	lsOut := h.MustRun("ls-tree", head.String())
	assert.Contains(t, lsOut, "100644 file aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d\tREADME\n")
	assert.Contains(t, lsOut, "040000 tree ")
	assert.Contains(t, lsOut, "\tsrc\n")

	// README blob, main.rs blob, src tree, root tree, commit
	out = h.MustRun("count-objects")
	assert.Contains(t, out, "5 objects")

	h.WriteFile("README", "hello again")
	h.MustRun("add", "README")
	h.MustRun("commit", "-m", "second")
	second := h.Head()
	assert.NotEqual(t, head, second)

	secondBody := h.MustRun("cat-file", second.String())
	assert.Contains(t, secondBody, "parent "+head.String()+"\n")

	out = h.MustRun("log")
	assert.Contains(t, out, second.String())
	assert.Contains(t, out, head.String())
	assert.Less(t, strings.Index(out, second.String()), strings.Index(out, head.String()))
	assert.Contains(t, out, "Fri Mar 1 12:30:00 2024 +0000")

	out = h.MustRun("log", "-n", "1", "--table")
	assert.Contains(t, out, second.Short())
	assert.NotContains(t, out, head.Short())
	assert.Contains(t, out, "Ada Lovelace")
}

func TestCommitCommand_Errors(t *testing.T) {
	h := NewTestHelper(t)
	h.InitRepo()

	_, err := h.Run("commit", "-m", "nothing here")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNothingStaged)
	assert.Equal(t, exitNothingToDo, exitCode(err))
	assert.Contains(t, userMessage(err), "nothing to commit")

	h.WriteFile("a.txt", "a")
	h.MustRun("add", "a.txt")

	_, err = h.Run("commit", "-m", "   ")
	assert.ErrorIs(t, err, errs.ErrEmptyMessage)
	assert.Equal(t, exitUsage, exitCode(err))

	_, err = h.Run("commit", "-m", "ok", "--author", "no email")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	// Failed commits leave the staged file in place.
	out := h.MustRun("status")
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "Changes to be committed:")
}

func TestCommitCommand_Identity(t *testing.T) {
	h := NewTestHelper(t)
	h.MustRun("init")
	h.WriteFile("a.txt", "a")
	h.MustRun("add", "a.txt")

	_, err := h.Run("commit", "-m", "who am i")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user.name and user.email")

	out := h.MustRun("commit", "-m", "override", "--author", "Grace Hopper <grace@example.com>")
	assert.Contains(t, out, "Grace Hopper <grace@example.com>")
}

func TestCommitCommand_StaleEntry(t *testing.T) {
	h := NewTestHelper(t)
	h.InitRepo()
	h.WriteFile("a.txt", "a")
	h.MustRun("add", "a.txt")
	require.NoError(t, os.Remove(filepath.Join(h.tempDir, "a.txt")))

	_, err := h.Run("commit", "-m", "stale")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrStaleStagingEntry)
	assert.Equal(t, exitStaleIndex, exitCode(err))
}

func TestAddCommand_Failures(t *testing.T) {
	h := NewTestHelper(t)
	h.InitRepo()

	_, err := h.Run("add", "missing.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")

	h.WriteFile(scpath.IgnoreFile, "*.log\n")
	h.WriteFile("debug.log", "noise")
	out := h.MustRun("add", "debug.log")
	assert.Contains(t, out, "ignored: debug.log")
}

func TestResetCommand(t *testing.T) {
	h := NewTestHelper(t)
	h.InitRepo()
	h.WriteFile("src/a.go", "package a")
	h.WriteFile("src/b.go", "package b")
	h.MustRun("add", "src")

	out := h.MustRun("reset", "src/a.go", "nope.txt")
	assert.Contains(t, out, "unstaged: src/a.go")
	assert.Contains(t, out, "not staged: nope.txt")

	// a.go's content was stored by add, so it is not reported as untracked.
	out = h.MustRun("status")
	assert.Contains(t, out, "src/b.go")
	assert.NotContains(t, out, "src/a.go")
}

func TestHashObjectCommand(t *testing.T) {
	h := NewTestHelper(t)
	file := h.WriteFile("hello.txt", "hello")

	out := h.MustRun("hash-object", file)
	assert.Equal(t, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d\n", out)

	_, err := h.Run("hash-object", "-w", file)
	assert.ErrorIs(t, err, errs.ErrNotRepository)

	h.MustRun("init")
	h.MustRun("hash-object", "-w", file)
	out = h.MustRun("cat-file", "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d")
	assert.Equal(t, "hello", out)
}

func TestCatFileCommand_Errors(t *testing.T) {
	h := NewTestHelper(t)
	h.MustRun("init")

	_, err := h.Run("cat-file", "xyz")
	assert.Equal(t, exitUsage, exitCode(err))

	_, err = h.Run("cat-file", "0000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Equal(t, exitNoInput, exitCode(err))

	file := h.WriteFile("blob.txt", "not a tree\n")
	digest := strings.TrimSpace(h.MustRun("hash-object", "-w", file))
	_, err = h.Run("ls-tree", digest)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestConfigCommand(t *testing.T) {
	h := NewTestHelper(t)
	h.InitRepo()

	assert.Equal(t, "Ada Lovelace\n", h.MustRun("config", "user.name"))

	out := h.MustRun("config", "--list")
	assert.Contains(t, out, "user.email=ada@example.com")
	assert.Contains(t, out, "core.compression=zlib")

	_, err := h.Run("config", "core.editor", "vim")
	assert.Equal(t, exitUsage, exitCode(err))

	h.MustRun("config", "--unset", "user.email")
	_, err = h.Run("config", "user.email")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	t.Setenv("RGIT_AUTHOR_EMAIL", "env@example.com")
	assert.Equal(t, "env@example.com\n", h.MustRun("config", "user.email"))
}

func TestConfigCommand_GlobalOutsideRepository(t *testing.T) {
	h := NewTestHelper(t)

	_, err := h.Run("config", "user.name", "Ada")
	assert.Equal(t, exitNotRepo, exitCode(err))

	h.MustRun("config", "--global", "user.name", "Ada")
	assert.Equal(t, "Ada\n", h.MustRun("config", "--global", "user.name"))
}

func TestStatusCommand_NotRepository(t *testing.T) {
	h := NewTestHelper(t)

	_, err := h.Run("status")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNotRepository)
	assert.Equal(t, exitNotRepo, exitCode(err))
}

func TestStatusCommand_Changes(t *testing.T) {
	h := NewTestHelper(t)
	h.InitRepo()
	h.WriteFile("a.txt", "a")
	h.WriteFile("b.txt", "b")
	h.MustRun("add", ".")
	h.MustRun("commit", "-m", "base")

	h.WriteFile("a.txt", "changed")
	require.NoError(t, os.Remove(filepath.Join(h.tempDir, "b.txt")))
	h.WriteFile("c.txt", "new")

	out := h.MustRun("status")
	assert.Contains(t, out, "Changes not staged for commit:")
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "b.txt")
	assert.Contains(t, out, "Untracked files:")
	assert.Contains(t, out, "c.txt")
}

func TestLogCommand_Empty(t *testing.T) {
	h := NewTestHelper(t)
	h.MustRun("init")

	assert.Contains(t, h.MustRun("log"), "No commits yet")
}

func TestLogLevelFlag(t *testing.T) {
	h := NewTestHelper(t)

	_, err := h.Run("--log-level", "loud", "status")
	assert.Equal(t, exitUsage, exitCode(err))

	h.MustRun("init")
	h.MustRun("--log-format", "json", "-v", "status")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.New("store", errs.CodeStorageIO, "put", "", nil), exitIOErr},
		{errs.New("store", errs.CodeObjectCorrupt, "get", "", nil), exitDataErr},
		{errs.New("index", errs.CodeIndexCorrupt, "parse", "", nil), exitDataErr},
		{errs.Wrap(errs.New("commit", errs.CodeEmptyMessage, "validate", "", nil), "cli", "commit"), exitUsage},
		{errors.New("plain"), exitFailure},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), tt.err.Error())
	}

	corrupt := errs.New("index", errs.CodeIndexCorrupt, "parse", "line 3", nil)
	msg := userMessage(corrupt)
	assert.True(t, strings.HasPrefix(msg, corrupt.Error()+"\n"), msg)
	assert.Contains(t, msg, "hint: ")
	assert.Contains(t, msg, "remove .rgit/index")

	plain := errs.New("store", errs.CodeStorageIO, "put", "disk full", nil)
	assert.Equal(t, plain.Error(), userMessage(plain))
}

func TestBranchAndSwitchCommands(t *testing.T) {
	h := NewTestHelper(t)
	h.InitRepo()

	out := h.MustRun("branch")
	assert.Contains(t, out, "main")
	assert.Contains(t, out, "(no commits yet)")

	_, err := h.Run("branch", "feature")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	h.WriteFile("a.txt", "a")
	h.MustRun("add", "a.txt")
	h.MustRun("commit", "-m", "base")
	base := h.Head()

	out = h.MustRun("branch", "feature")
	assert.Contains(t, out, "Created branch")
	assert.Contains(t, out, base.Short())

	out = h.MustRun("switch", "feature")
	assert.Contains(t, out, "feature")

	h.WriteFile("b.txt", "b")
	h.MustRun("add", "b.txt")
	out = h.MustRun("commit", "-m", "on feature")
	assert.Contains(t, out, "feature")
	assert.NotContains(t, out, "root-commit")

	// main still points at the base commit.
	assert.Equal(t, base, h.Head())

	out = h.MustRun("branch")
	assert.Contains(t, out, "on feature")
	assert.Contains(t, out, "base")

	h.MustRun("switch", "main")
	_, err = h.Run("branch", "-d", "feature")
	assert.ErrorIs(t, err, errs.ErrInvalidInput, "feature is not merged into main")
	h.MustRun("branch", "-D", "feature")

	h.MustRun("switch", "-c", "topic")
	out = h.MustRun("branch", "-m", "renamed")
	assert.Contains(t, out, "topic -> renamed")

	_, err = h.Run("switch", "nowhere")
	assert.Equal(t, exitUsage, exitCode(err))
}

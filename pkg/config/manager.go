package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/common/logger"
	"github.com/utkarsh5026/rgit/pkg/objects/commit"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
	"github.com/utkarsh5026/rgit/pkg/store"
)

const pkgName = "config"

// Environment variables consulted at EnvironmentLevel.
const (
	AuthorNameEnv  = "RGIT_AUTHOR_NAME"
	AuthorEmailEnv = "RGIT_AUTHOR_EMAIL"
)

var envKeys = map[string]string{
	KeyUserName:  AuthorNameEnv,
	KeyUserEmail: AuthorEmailEnv,
}

// Entry is a resolved configuration value and where it came from.
type Entry struct {
	Key    string
	Value  string
	Level  ConfigLevel
	Source string
}

// Manager merges the user file, the repository file and the environment.
// Values at a higher ConfigLevel win.
type Manager struct {
	mu     sync.RWMutex
	paths  map[ConfigLevel]scpath.AbsolutePath
	files  map[ConfigLevel]*File
	logger *slog.Logger
}

// NewManager creates a manager for the repository whose metadata directory
// is sourceDir. An empty sourceDir means no repository level, which is how
// commands running outside a repository read the user file.
func NewManager(sourceDir scpath.SourcePath) (*Manager, error) {
	global, err := GlobalPath()
	if err != nil {
		return nil, err
	}

	paths := map[ConfigLevel]scpath.AbsolutePath{UserLevel: global}
	if sourceDir != "" {
		paths[RepositoryLevel] = sourceDir.ConfigPath().ToAbsolutePath()
	}

	return &Manager{
		paths:  paths,
		files:  make(map[ConfigLevel]*File),
		logger: logger.With("component", "config"),
	}, nil
}

// Path returns the file backing a writable level.
func (m *Manager) Path(level ConfigLevel) (scpath.AbsolutePath, bool) {
	p, ok := m.paths[level]
	return p, ok
}

// Load reads every file level. It may be called again to pick up changes.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for level, path := range m.paths {
		f, err := LoadFile(path)
		if err != nil {
			return err
		}
		m.files[level] = f
		m.logger.Debug("loaded config", "level", level.String(), "path", path.String())
	}
	return nil
}

// Get returns the effective value for key.
func (m *Manager) Get(key string) (Entry, bool) {
	if !IsKnownKey(key) {
		return Entry{}, false
	}

	if env, ok := envKeys[key]; ok {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return Entry{Key: key, Value: v, Level: EnvironmentLevel, Source: "$" + env}, true
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, level := range []ConfigLevel{RepositoryLevel, UserLevel} {
		f, ok := m.files[level]
		if !ok {
			continue
		}
		if v := f.get(key); v != "" {
			return Entry{Key: key, Value: v, Level: level, Source: m.paths[level].String()}, true
		}
	}
	return Entry{}, false
}

// List returns the effective value of every key that is set.
func (m *Manager) List() []Entry {
	var entries []Entry
	for _, key := range Keys {
		if e, ok := m.Get(key); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// Set validates value and writes it to the file at level.
func (m *Manager) Set(level ConfigLevel, key, value string) error {
	if !level.CanWrite() {
		return errs.InvalidInput(pkgName, "set", fmt.Sprintf("cannot write to %s level", level))
	}
	value = strings.TrimSpace(value)
	if err := ValidateKeyValue(key, value); err != nil {
		return err
	}
	return m.update(level, func(f *File) { f.set(key, value) })
}

// Unset removes key from the file at level.
func (m *Manager) Unset(level ConfigLevel, key string) error {
	if !level.CanWrite() {
		return errs.InvalidInput(pkgName, "unset", fmt.Sprintf("cannot write to %s level", level))
	}
	if !IsKnownKey(key) {
		return invalidKey(key)
	}
	return m.update(level, func(f *File) { f.set(key, "") })
}

func (m *Manager) update(level ConfigLevel, mutate func(*File)) error {
	path, ok := m.paths[level]
	if !ok {
		return errs.New(pkgName, errs.CodeNotRepository, "set",
			"repository config requires a repository", nil)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := LoadFile(path)
	if err != nil {
		return err
	}
	mutate(f)
	if err := SaveFile(path, f); err != nil {
		return err
	}
	m.files[level] = f
	m.logger.Debug("saved config", "level", level.String(), "path", path.String())
	return nil
}

// Identity returns the commit author from user.name and user.email.
func (m *Manager) Identity() (commit.Identity, error) {
	name, hasName := m.Get(KeyUserName)
	email, hasEmail := m.Get(KeyUserEmail)

	var missing []string
	if !hasName {
		missing = append(missing, KeyUserName)
	}
	if !hasEmail {
		missing = append(missing, KeyUserEmail)
	}
	if len(missing) > 0 {
		return commit.Identity{}, errs.InvalidInput(pkgName, "identity",
			fmt.Sprintf("author identity unknown: set %s with 'rgit config <key> <value>' or %s/%s",
				strings.Join(missing, " and "), AuthorNameEnv, AuthorEmailEnv))
	}

	return commit.NewIdentity(name.Value, email.Value)
}

// Compression returns the configured object framing, zlib when unset.
func (m *Manager) Compression() (store.Compression, error) {
	e, _ := m.Get(KeyCoreCompression)
	c, err := store.ParseCompression(e.Value)
	if err != nil {
		return "", errs.InvalidInput(pkgName, "compression", err.Error())
	}
	return c, nil
}

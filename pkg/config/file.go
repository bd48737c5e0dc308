package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/common/fileops"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

const (
	// GlobalConfigEnv overrides the location of the user-level file.
	GlobalConfigEnv = "RGIT_CONFIG_GLOBAL"

	// GlobalConfigName is the user-level file name under the home directory.
	GlobalConfigName = ".rgitconfig"
)

// File is the on-disk shape of a configuration file.
//
//	[user]
//	name = "Ada Lovelace"
//	email = "ada@example.com"
//
//	[core]
//	compression = "zlib"
type File struct {
	User UserSection `toml:"user"`
	Core CoreSection `toml:"core"`
}

// UserSection holds the commit identity.
type UserSection struct {
	Name  string `toml:"name,omitempty"`
	Email string `toml:"email,omitempty"`
}

// CoreSection holds storage settings.
type CoreSection struct {
	Compression string `toml:"compression,omitempty"`
}

// DefaultRepositoryFile is the config written by init.
func DefaultRepositoryFile() *File {
	return &File{Core: CoreSection{Compression: "zlib"}}
}

// GlobalPath returns the user-level config file location.
func GlobalPath() (scpath.AbsolutePath, error) {
	if p := strings.TrimSpace(os.Getenv(GlobalConfigEnv)); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", errs.InvalidInput(pkgName, "global path", err.Error())
		}
		return scpath.AbsolutePath(abs), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errs.StorageIO(pkgName, "global path", err)
	}
	return scpath.AbsolutePath(filepath.Join(home, GlobalConfigName)), nil
}

// LoadFile decodes a TOML config file. A missing file is an empty config.
// Keys this package does not know are rejected so typos surface early.
func LoadFile(path scpath.AbsolutePath) (*File, error) {
	f := &File{}
	md, err := toml.DecodeFile(path.String(), f)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &File{}, nil
		}
		var parseErr toml.ParseError
		if errors.As(err, &parseErr) {
			return nil, errs.New(pkgName, errs.CodeInvalidInput, "load",
				parseErr.Error(), err).WithContext("path", path.String())
		}
		return nil, errs.StorageIO(pkgName, "load", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(pkgName, errs.CodeInvalidInput, "load",
			"unknown key "+undecoded[0].String(), nil).WithContext("path", path.String())
	}
	return f, nil
}

// SaveFile encodes f as TOML and writes it atomically.
func SaveFile(path scpath.AbsolutePath, f *File) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return errs.Wrap(err, pkgName, "encode")
	}
	if err := fileops.WriteConfig(path, buf.Bytes()); err != nil {
		return errs.StorageIO(pkgName, "save", err)
	}
	return nil
}

func (f *File) get(key string) string {
	switch key {
	case KeyUserName:
		return f.User.Name
	case KeyUserEmail:
		return f.User.Email
	case KeyCoreCompression:
		return f.Core.Compression
	default:
		return ""
	}
}

func (f *File) set(key, value string) {
	switch key {
	case KeyUserName:
		f.User.Name = value
	case KeyUserEmail:
		f.User.Email = value
	case KeyCoreCompression:
		f.Core.Compression = value
	}
}

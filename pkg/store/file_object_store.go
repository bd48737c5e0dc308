package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/common/fileops"
	"github.com/utkarsh5026/rgit/pkg/common/logger"
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

const (
	// objectFileMode keeps stored objects read-only; they are never
	// rewritten in place.
	objectFileMode os.FileMode = 0o444

	pkgName = "store"
)

// FileObjectStore keeps each object in its own compressed file, sharded
// by the first two hex characters of the digest:
//
//	.rgit/objects/
//	├── aa/
//	│   └── f4c61ddcc5e8a2dabede0f3b482cd9aea9434d
//	└── 64/
//	    └── 1e85b264a2499875422ed3b35b232a3cc710ab
//
// Files are written through a temp file and a rename, so a reader never
// observes a partial object. Concurrent Puts of the same content are safe:
// whichever rename lands last replaces identical bytes.
type FileObjectStore struct {
	objectsPath scpath.SourcePath
	compression Compression
	logger      *slog.Logger
}

// Option configures a FileObjectStore.
type Option func(*FileObjectStore)

// WithCompression selects the framing for newly written objects.
func WithCompression(c Compression) Option {
	return func(s *FileObjectStore) {
		s.compression = c
	}
}

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *FileObjectStore) {
		s.logger = l
	}
}

// NewFileObjectStore returns a store rooted at objectsPath, usually
// <repo>/.rgit/objects. The directory is created lazily by Put.
func NewFileObjectStore(objectsPath scpath.SourcePath, opts ...Option) *FileObjectStore {
	s := &FileObjectStore{
		objectsPath: objectsPath,
		compression: CompressionZlib,
		logger:      logger.With("component", "store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ObjectsPath returns the root directory of the store.
func (s *FileObjectStore) ObjectsPath() scpath.SourcePath {
	return s.objectsPath
}

// Compression returns the framing used for new objects.
func (s *FileObjectStore) Compression() Compression {
	return s.compression
}

// Put implements ObjectStore.
func (s *FileObjectStore) Put(data []byte) (objects.Digest, error) {
	digest := objects.ComputeDigest(data)
	objectPath := s.resolveObjectPath(digest)

	exists, err := fileops.Exists(objectPath)
	if err != nil {
		return "", errs.StorageIO(pkgName, "put", err)
	}
	if exists {
		s.logger.Debug("object already stored", "digest", digest.Short())
		return digest, nil
	}

	compressed, err := compress(s.compression, data)
	if err != nil {
		return "", errs.StorageIO(pkgName, "put", err)
	}

	if err := fileops.EnsureParentDir(objectPath); err != nil {
		return "", errs.StorageIO(pkgName, "put", err)
	}

	if err := fileops.AtomicWrite(objectPath, compressed, objectFileMode); err != nil {
		s.logger.Error("failed to write object", "digest", digest.Short(), "error", err)
		return "", errs.StorageIO(pkgName, "put", err)
	}

	s.logger.Debug("stored object",
		"digest", digest.Short(),
		"size", len(data),
		"compressed", len(compressed),
		"compression", s.compression)
	return digest, nil
}

// Get implements ObjectStore. The decompressed bytes are re-hashed and an
// object whose content no longer matches its name is reported as
// errs.ErrObjectCorrupt.
func (s *FileObjectStore) Get(digest objects.Digest) ([]byte, error) {
	if err := digest.Validate(); err != nil {
		return nil, errs.Wrap(err, pkgName, "get")
	}

	raw, err := os.ReadFile(s.resolveObjectPath(digest).String())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.New(pkgName, errs.CodeObjectNotFound, "get",
				"no object "+digest.String(), nil).WithContext("digest", digest)
		}
		return nil, errs.StorageIO(pkgName, "get", err)
	}

	data, err := decompress(raw)
	if err != nil {
		return nil, errs.New(pkgName, errs.CodeObjectCorrupt, "get",
			"cannot decode object "+digest.String(), err).WithContext("digest", digest)
	}

	if actual := objects.ComputeDigest(data); actual != digest {
		s.logger.Warn("object content does not match its name", "digest", digest, "actual", actual)
		return nil, errs.New(pkgName, errs.CodeObjectCorrupt, "get",
			fmt.Sprintf("object %s hashes to %s", digest, actual), nil).WithContext("digest", digest)
	}

	return data, nil
}

// Exists implements ObjectStore.
func (s *FileObjectStore) Exists(digest objects.Digest) (bool, error) {
	if err := digest.Validate(); err != nil {
		return false, errs.Wrap(err, pkgName, "exists")
	}

	exists, err := fileops.Exists(s.resolveObjectPath(digest))
	if err != nil {
		return false, errs.StorageIO(pkgName, "exists", err)
	}
	return exists, nil
}

// Count returns the number of stored objects and their total size on disk.
// A store that was never written to counts as empty.
func (s *FileObjectStore) Count() (count int, size int64, err error) {
	root := s.objectsPath.String()
	if _, statErr := os.Stat(root); errors.Is(statErr, fs.ErrNotExist) {
		return 0, 0, nil
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !isShardDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isObjectFile(filepath.Base(filepath.Dir(path)), d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		count++
		size += info.Size()
		return nil
	})
	if walkErr != nil {
		return 0, 0, errs.StorageIO(pkgName, "count", walkErr)
	}
	return count, size, nil
}

// resolveObjectPath maps a digest to its file. The digest must already be
// valid.
func (s *FileObjectStore) resolveObjectPath(digest objects.Digest) scpath.AbsolutePath {
	return s.objectsPath.ObjectFilePath(digest.String()).ToAbsolutePath()
}

func isShardDir(name string) bool {
	return len(name) == 2 && isHex(name)
}

// isObjectFile filters out temp files and the info/ and pack/ directories.
func isObjectFile(shard, name string) bool {
	return isShardDir(shard) && len(name) == objects.DigestLength-2 && isHex(name)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/common/logger"
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

// setupTestStore creates a store under a fresh temporary repository
func setupTestStore(t *testing.T, opts ...Option) *FileObjectStore {
	t.Helper()

	repoPath, err := scpath.NewRepositoryPath(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create repository path: %v", err)
	}

	opts = append([]Option{WithLogger(logger.Discard())}, opts...)
	return NewFileObjectStore(repoPath.SourcePath().ObjectsPath(), opts...)
}

// objectFiles lists every regular file under the store root
func objectFiles(t *testing.T, s *FileObjectStore) []string {
	t.Helper()

	var files []string
	err := filepath.WalkDir(s.ObjectsPath().String(), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("walk objects: %v", err)
	}
	return files
}

func TestFileObjectStore_PutGet(t *testing.T) {
	for _, c := range []Compression{CompressionZlib, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			s := setupTestStore(t, WithCompression(c))

			inputs := [][]byte{
				[]byte("hello"),
				{},
				bytes.Repeat([]byte("rgit "), 10000),
				{0x00, 0xff, 0x28, 0xb5, 0x2f, 0xfd},
			}

			for _, data := range inputs {
				digest, err := s.Put(data)
				if err != nil {
					t.Fatalf("Put() failed: %v", err)
				}
				if digest != objects.ComputeDigest(data) {
					t.Errorf("Put() digest = %s, want %s", digest, objects.ComputeDigest(data))
				}

				got, err := s.Get(digest)
				if err != nil {
					t.Fatalf("Get(%s) failed: %v", digest, err)
				}
				if !bytes.Equal(got, data) {
					t.Errorf("Get(%s) returned %d bytes, want %d", digest, len(got), len(data))
				}
			}
		})
	}
}

func TestFileObjectStore_KnownDigest(t *testing.T) {
	s := setupTestStore(t)

	digest, err := s.Put([]byte("hello"))
	if err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	want := objects.Digest("aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d")
	if digest != want {
		t.Fatalf("Put() digest = %s, want %s", digest, want)
	}

	expectedPath := filepath.Join(s.ObjectsPath().String(), "aa", "f4c61ddcc5e8a2dabede0f3b482cd9aea9434d")
	info, err := os.Stat(expectedPath)
	if err != nil {
		t.Fatalf("object file missing at %s: %v", expectedPath, err)
	}
	if info.Mode().Perm() != objectFileMode {
		t.Errorf("object mode = %v, want %v", info.Mode().Perm(), objectFileMode)
	}
}

func TestFileObjectStore_Deduplicates(t *testing.T) {
	s := setupTestStore(t)

	first, err := s.Put([]byte("fn main(){}"))
	if err != nil {
		t.Fatalf("first Put() failed: %v", err)
	}
	second, err := s.Put([]byte("fn main(){}"))
	if err != nil {
		t.Fatalf("second Put() failed: %v", err)
	}

	if first != second {
		t.Errorf("digests differ: %s vs %s", first, second)
	}
	if files := objectFiles(t, s); len(files) != 1 {
		t.Errorf("expected exactly one object file, got %v", files)
	}
}

func TestFileObjectStore_ConcurrentPut(t *testing.T) {
	s := setupTestStore(t)
	data := []byte("written by many goroutines")

	var wg sync.WaitGroup
	errCh := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Put(data); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("concurrent Put() failed: %v", err)
	}

	files := objectFiles(t, s)
	if len(files) != 1 {
		t.Fatalf("expected one object file and no temp files, got %v", files)
	}

	got, err := s.Get(objects.ComputeDigest(data))
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Get() = %q, want %q", got, data)
	}
}

func TestFileObjectStore_GetMissing(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Get(objects.ComputeDigest([]byte("never stored")))
	if !errors.Is(err, errs.ErrObjectNotFound) {
		t.Fatalf("Get() error = %v, want ObjectNotFound", err)
	}
}

func TestFileObjectStore_GetInvalidDigest(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Get("not-a-digest")
	if !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("Get() error = %v, want InvalidInput", err)
	}

	_, err = s.Exists("abc")
	if !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("Exists() error = %v, want InvalidInput", err)
	}
}

func TestFileObjectStore_Exists(t *testing.T) {
	s := setupTestStore(t)
	digest := objects.ComputeDigest([]byte("hello"))

	exists, err := s.Exists(digest)
	if err != nil {
		t.Fatalf("Exists() failed: %v", err)
	}
	if exists {
		t.Error("Exists() = true before Put")
	}

	if _, err := s.Put([]byte("hello")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	exists, err = s.Exists(digest)
	if err != nil {
		t.Fatalf("Exists() failed: %v", err)
	}
	if !exists {
		t.Error("Exists() = false after Put")
	}
}

func TestFileObjectStore_DetectsCorruption(t *testing.T) {
	s := setupTestStore(t)

	digest, err := s.Put([]byte("original content"))
	if err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	path := s.resolveObjectPath(digest).String()

	t.Run("content swapped", func(t *testing.T) {
		tampered, err := compress(CompressionZlib, []byte("tampered content"))
		if err != nil {
			t.Fatalf("compress() failed: %v", err)
		}
		replaceFile(t, path, tampered)

		_, err = s.Get(digest)
		if !errors.Is(err, errs.ErrObjectCorrupt) {
			t.Fatalf("Get() error = %v, want ObjectCorrupt", err)
		}
	})

	t.Run("garbage bytes", func(t *testing.T) {
		replaceFile(t, path, []byte("definitely not compressed"))

		_, err := s.Get(digest)
		if !errors.Is(err, errs.ErrObjectCorrupt) {
			t.Fatalf("Get() error = %v, want ObjectCorrupt", err)
		}
	})
}

func replaceFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFileObjectStore_ReadsEitherCompression(t *testing.T) {
	repoPath, err := scpath.NewRepositoryPath(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create repository path: %v", err)
	}
	objectsPath := repoPath.SourcePath().ObjectsPath()

	zlibStore := NewFileObjectStore(objectsPath, WithLogger(logger.Discard()))
	zstdStore := NewFileObjectStore(objectsPath, WithLogger(logger.Discard()), WithCompression(CompressionZstd))

	a, err := zlibStore.Put([]byte("written as zlib"))
	if err != nil {
		t.Fatalf("zlib Put() failed: %v", err)
	}
	b, err := zstdStore.Put([]byte("written as zstd"))
	if err != nil {
		t.Fatalf("zstd Put() failed: %v", err)
	}

	for _, s := range []*FileObjectStore{zlibStore, zstdStore} {
		if got, err := s.Get(a); err != nil || string(got) != "written as zlib" {
			t.Errorf("%s store Get(zlib object) = %q, %v", s.Compression(), got, err)
		}
		if got, err := s.Get(b); err != nil || string(got) != "written as zstd" {
			t.Errorf("%s store Get(zstd object) = %q, %v", s.Compression(), got, err)
		}
	}
}

func TestFileObjectStore_Count(t *testing.T) {
	s := setupTestStore(t)

	count, size, err := s.Count()
	if err != nil {
		t.Fatalf("Count() on empty store failed: %v", err)
	}
	if count != 0 || size != 0 {
		t.Errorf("Count() = %d, %d on empty store", count, size)
	}

	for _, content := range []string{"one", "two", "three", "two"} {
		if _, err := s.Put([]byte(content)); err != nil {
			t.Fatalf("Put(%q) failed: %v", content, err)
		}
	}

	// Stray files are not objects.
	if err := os.MkdirAll(filepath.Join(s.ObjectsPath().String(), "info"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.ObjectsPath().String(), "info", "packs"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	count, size, err = s.Count()
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d objects, want 3", count)
	}
	if size <= 0 {
		t.Errorf("Count() size = %d, want > 0", size)
	}
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		input   string
		want    Compression
		wantErr bool
	}{
		{"", CompressionZlib, false},
		{"zlib", CompressionZlib, false},
		{" ZSTD ", CompressionZstd, false},
		{"lz4", "", true},
	}

	for _, tt := range tests {
		got, err := ParseCompression(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCompression(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCompression(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDecompress_DetectsFraming(t *testing.T) {
	data := []byte(strings.Repeat("abc", 100))

	for _, c := range []Compression{CompressionZlib, CompressionZstd} {
		framed, err := compress(c, data)
		if err != nil {
			t.Fatalf("compress(%s) failed: %v", c, err)
		}
		if got := bytes.HasPrefix(framed, zstdMagic); got != (c == CompressionZstd) {
			t.Errorf("compress(%s) zstd magic present = %v", c, got)
		}

		out, err := decompress(framed)
		if err != nil {
			t.Fatalf("decompress(%s) failed: %v", c, err)
		}
		if !bytes.Equal(out, data) {
			t.Errorf("decompress(%s) mismatch", c)
		}
	}
}

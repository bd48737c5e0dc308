package store

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Compression selects the framing used when writing new objects.
// Reading never depends on it: the framing of a stored object is detected
// from its first bytes, so a repository may mix both.
type Compression string

const (
	// CompressionZlib is the default, matching the format other rgit
	// builds write.
	CompressionZlib Compression = "zlib"

	// CompressionZstd trades format compatibility for speed and ratio.
	CompressionZstd Compression = "zstd"
)

// zstdMagic starts every zstd frame. A zlib stream starts with a CMF byte
// whose low nibble is 8, so the two never collide.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// String returns the config name of the compression.
func (c Compression) String() string {
	return string(c)
}

// ParseCompression parses a core.compression config value. The empty
// string selects the default.
func ParseCompression(name string) (Compression, error) {
	switch Compression(strings.ToLower(strings.TrimSpace(name))) {
	case "", CompressionZlib:
		return CompressionZlib, nil
	case CompressionZstd:
		return CompressionZstd, nil
	default:
		return "", fmt.Errorf("unknown compression %q (want zlib or zstd)", name)
	}
}

var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdErr     error
)

// zstdCodecs returns process-wide encoder and decoder instances. Both are
// safe for concurrent EncodeAll/DecodeAll calls. Zero frames are enabled so
// the empty object still carries the magic bytes.
func zstdCodecs() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil, zstd.WithZeroFrames(true))
		if zstdErr != nil {
			return
		}
		zstdDecoder, zstdErr = zstd.NewReader(nil)
	})
	return zstdEncoder, zstdDecoder, zstdErr
}

// compress frames data with the chosen compression.
func compress(c Compression, data []byte) ([]byte, error) {
	switch c {
	case CompressionZstd:
		enc, _, err := zstdCodecs()
		if err != nil {
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		return enc.EncodeAll(data, make([]byte, 0, len(data)/2+16)), nil

	case CompressionZlib, "":
		var buf bytes.Buffer
		w, err := zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
		if err != nil {
			return nil, fmt.Errorf("zlib writer: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			w.Close()
			return nil, fmt.Errorf("zlib write: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("zlib close: %w", err)
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}

// decompress reverses compress for either framing.
func decompress(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		_, dec, err := zstdCodecs()
		if err != nil {
			return nil, fmt.Errorf("zstd decoder: %w", err)
		}
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decode: %w", err)
		}
		return out, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib reader: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib read: %w", err)
	}
	return out, nil
}

package structure

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Extensions lists the file suffixes tried when looking up a structure file,
// in order of preference.
var Extensions = []string{".pdb", ".pdb.gz", ".pdb.zst", ".pdb.lz4"}

// FileNames returns the candidate file names for key.
func FileNames(key Key) []string {
	names := make([]string, len(Extensions))
	for i, ext := range Extensions {
		names[i] = key.String() + ext
	}
	return names
}

// NewReader wraps r with the decompressor matching name's extension.
func NewReader(name string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("structure: gzip %s: %w", name, err)
		}
		return zr, nil
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("structure: zstd %s: %w", name, err)
		}
		return zr.IOReadCloser(), nil
	case ".lz4":
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

// Decode decompresses and parses a structure file. When keepRaw is set the
// decompressed bytes are retained on the returned Structure.
func Decode(name string, r io.Reader, key Key, keepRaw bool) (*Structure, error) {
	rc, err := NewReader(name, r)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	if !keepRaw {
		return Parse(rc, key)
	}

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("structure: read %s: %w", name, err)
	}
	s, err := Parse(bytes.NewReader(raw), key)
	if err != nil {
		return nil, err
	}
	s.Raw = raw
	return s, nil
}

package mmap

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// ErrInvalidOffset is returned by ReadAt for negative offsets.
var ErrInvalidOffset = errors.New("mmap: invalid offset")

// File is a read-only view of a file's contents.
type File struct {
	data   []byte
	unmap  func([]byte) error
	closed bool
}

// Open maps the file at path into memory.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size < 0 {
		return nil, errors.New("mmap: file size is negative")
	}
	if size == 0 {
		return &File{}, nil
	}

	data, unmap, err := mapFile(f, int(size))
	if err != nil {
		return nil, err
	}

	return &File{data: data, unmap: unmap}, nil
}

// Bytes returns the mapped contents. The slice must not be used after Close.
func (m *File) Bytes() []byte { return m.data }

// Size returns the length of the mapping in bytes.
func (m *File) Size() int { return len(m.data) }

// Reader returns a reader over the mapped contents that unmaps on Close.
func (m *File) Reader() io.ReadCloser {
	return &reader{Reader: bytes.NewReader(m.data), file: m}
}

// ReadAt implements io.ReaderAt.
func (m *File) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close releases the mapping. It is safe to call more than once.
func (m *File) Close() error {
	if m == nil || m.closed {
		return nil
	}
	m.closed = true
	data := m.data
	m.data = nil
	if data == nil || m.unmap == nil {
		return nil
	}
	return m.unmap(data)
}

type reader struct {
	*bytes.Reader
	file *File
}

func (r *reader) Close() error { return r.file.Close() }

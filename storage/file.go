//go:build !(rp2040 || rp2350)

package storage

import (
	"errors"
	"io"
	"os"
)

// File is a host Medium backed by an image file of fixed size. Missing files
// are created and filled with 0xFF.
type File struct {
	f    *os.File
	size int
}

func OpenFile(path string, size int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.Size() < int64(size) {
		pad := make([]byte, int64(size)-st.Size())
		for i := range pad {
			pad[i] = 0xFF
		}
		if _, err := f.WriteAt(pad, st.Size()); err != nil {
			f.Close()
			return nil, err
		}
	}
	return &File{f: f, size: size}, nil
}

func (m *File) Size() int { return m.size }

func (m *File) ReadAt(p []byte, off int64) (int, error) {
	if !inBounds(m, len(p), off) {
		return 0, ErrOutOfBounds
	}
	n, err := m.f.ReadAt(p, off)
	if errors.Is(err, io.EOF) && n == len(p) {
		err = nil
	}
	return n, err
}

func (m *File) WriteAt(p []byte, off int64) (int, error) {
	if !inBounds(m, len(p), off) {
		return 0, ErrOutOfBounds
	}
	return m.f.WriteAt(p, off)
}

func (m *File) Sync() error  { return m.f.Sync() }
func (m *File) Close() error { return m.f.Close() }

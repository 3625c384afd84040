// Package storage abstracts the persistent medium that holds registry
// snapshots. Reads and writes are synchronous and immediately visible.
package storage

import "errors"

var (
	ErrOutOfBounds = errors.New("storage: access out of bounds")
	ErrShortWrite  = errors.New("storage: short write")
)

// Medium is a fixed-size, byte addressable region.
type Medium interface {
	Size() int
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
}

func inBounds(m Medium, n int, off int64) bool {
	return off >= 0 && off+int64(n) <= int64(m.Size())
}

// RAM is a Medium backed by memory. The zero value has size zero.
type RAM struct {
	b []byte
}

// NewRAM returns a RAM medium of n bytes filled with fill (0xFF mimics erased
// EEPROM).
func NewRAM(n int, fill byte) *RAM {
	b := make([]byte, n)
	for i := range b {
		b[i] = fill
	}
	return &RAM{b: b}
}

func (r *RAM) Size() int { return len(r.b) }

func (r *RAM) ReadAt(p []byte, off int64) (int, error) {
	if !inBounds(r, len(p), off) {
		return 0, ErrOutOfBounds
	}
	return copy(p, r.b[off:]), nil
}

func (r *RAM) WriteAt(p []byte, off int64) (int, error) {
	if !inBounds(r, len(p), off) {
		return 0, ErrOutOfBounds
	}
	return copy(r.b[off:], p), nil
}

// Bytes exposes the backing store. Tests use it to inject corruption.
func (r *RAM) Bytes() []byte { return r.b }

// Region is a window [base, base+size) of a larger Medium. It lets the primary
// and backup snapshots share one physical device.
type Region struct {
	m    Medium
	base int64
	size int
}

func NewRegion(m Medium, base int64, size int) (*Region, error) {
	if base < 0 || size < 0 || base+int64(size) > int64(m.Size()) {
		return nil, ErrOutOfBounds
	}
	return &Region{m: m, base: base, size: size}, nil
}

func (r *Region) Size() int { return r.size }

func (r *Region) ReadAt(p []byte, off int64) (int, error) {
	if !inBounds(r, len(p), off) {
		return 0, ErrOutOfBounds
	}
	return r.m.ReadAt(p, r.base+off)
}

func (r *Region) WriteAt(p []byte, off int64) (int, error) {
	if !inBounds(r, len(p), off) {
		return 0, ErrOutOfBounds
	}
	return r.m.WriteAt(p, r.base+off)
}

// ReadFull reads len(p) bytes at off or returns an error.
func ReadFull(m Medium, p []byte, off int64) error {
	n, err := m.ReadAt(p, off)
	if err != nil {
		return err
	}
	if n != len(p) {
		return ErrOutOfBounds
	}
	return nil
}

// WriteFull writes all of p at off or returns an error.
func WriteFull(m Medium, p []byte, off int64) error {
	n, err := m.WriteAt(p, off)
	if err != nil {
		return err
	}
	if n != len(p) {
		return ErrShortWrite
	}
	return nil
}

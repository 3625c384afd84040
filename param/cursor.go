package param

// Cursor is a forward-only position in a byte slice. Writes past the end are
// dropped and reads past the end return zero; in both cases the offset still
// advances so field widths never depend on the buffer.
type Cursor struct {
	buf []byte
	off int
}

func NewCursor(buf []byte) *Cursor { return &Cursor{buf: buf} }

// Offset is the number of bytes consumed or produced so far.
func (c *Cursor) Offset() int { return c.off }

// Overrun reports whether any access went beyond the underlying buffer.
func (c *Cursor) Overrun() bool { return c.off > len(c.buf) }

func (c *Cursor) put(b byte) {
	if c.off < len(c.buf) {
		c.buf[c.off] = b
	}
	c.off++
}

func (c *Cursor) get() byte {
	var b byte
	if c.off < len(c.buf) {
		b = c.buf[c.off]
	}
	c.off++
	return b
}

func (c *Cursor) PutU8(v uint8) { c.put(v) }

func (c *Cursor) PutU16(v uint16) {
	c.put(byte(v))
	c.put(byte(v >> 8))
}

func (c *Cursor) PutI16(v int16) { c.PutU16(uint16(v)) }

func (c *Cursor) PutU32(v uint32) {
	c.put(byte(v))
	c.put(byte(v >> 8))
	c.put(byte(v >> 16))
	c.put(byte(v >> 24))
}

func (c *Cursor) PutI32(v int32) { c.PutU32(uint32(v)) }

// PutBytes writes exactly n bytes: p truncated or zero padded to width.
func (c *Cursor) PutBytes(p []byte, n int) {
	for i := 0; i < n; i++ {
		var b byte
		if i < len(p) {
			b = p[i]
		}
		c.put(b)
	}
}

func (c *Cursor) U8() uint8 { return c.get() }

func (c *Cursor) U16() uint16 {
	lo := uint16(c.get())
	return lo | uint16(c.get())<<8
}

func (c *Cursor) I16() int16 { return int16(c.U16()) }

func (c *Cursor) U32() uint32 {
	v := uint32(c.get())
	v |= uint32(c.get()) << 8
	v |= uint32(c.get()) << 16
	v |= uint32(c.get()) << 24
	return v
}

func (c *Cursor) I32() int32 { return int32(c.U32()) }

// Bytes fills dst completely.
func (c *Cursor) Bytes(dst []byte) {
	for i := range dst {
		dst[i] = c.get()
	}
}

// Skip advances over n bytes without touching them.
func (c *Cursor) Skip(n int) { c.off += n }

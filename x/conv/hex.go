package conv

const hexd = "0123456789abcdef"

// AppendHex8 appends b as two lowercase hex digits.
func AppendHex8(dst []byte, b byte) []byte {
	return append(dst, hexd[b>>4], hexd[b&0xF])
}

// AppendHex16 appends v as four lowercase hex digits.
func AppendHex16(dst []byte, v uint16) []byte {
	return AppendHex8(AppendHex8(dst, byte(v>>8)), byte(v))
}

// DumpWidth is the number of bytes per dump row.
const DumpWidth = 16

// AppendDumpLine appends one dump row: the offset, up to DumpWidth bytes in
// hex, then the printable ASCII rendering. Short rows are padded so the ASCII
// column lines up.
func AppendDumpLine(dst []byte, off int, row []byte) []byte {
	if len(row) > DumpWidth {
		row = row[:DumpWidth]
	}
	dst = AppendHex16(dst, uint16(off))
	dst = append(dst, ':')
	for i := 0; i < DumpWidth; i++ {
		if i == DumpWidth/2 {
			dst = append(dst, ' ')
		}
		if i < len(row) {
			dst = append(dst, ' ')
			dst = AppendHex8(dst, row[i])
		} else {
			dst = append(dst, ' ', ' ', ' ')
		}
	}
	dst = append(dst, ' ', ' ', '|')
	for _, c := range row {
		if c < 0x20 || c > 0x7E {
			c = '.'
		}
		dst = append(dst, c)
	}
	return append(dst, '|')
}

// Dump calls fn once per row of b. The line buffer is reused between calls.
func Dump(b []byte, fn func(line []byte)) {
	line := make([]byte, 0, 80)
	for off := 0; off < len(b); off += DumpWidth {
		end := off + DumpWidth
		if end > len(b) {
			end = len(b)
		}
		line = AppendDumpLine(line[:0], off, b[off:end])
		fn(line)
	}
}

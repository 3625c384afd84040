package registry

import (
	"pulp-go/checksum"
	"pulp-go/param"
)

// Snapshot layout: 4 byte header, records at their fixed addresses, then the
// 16-bit integrity code over the record bytes only.
const (
	FormatTag     = 0x5050
	LayoutVersion = 1

	tagOffset     = 0
	versionOffset = 2
	CodeOffset    = param.RecordsEnd
	SnapshotSize  = CodeOffset + 2

	codeSeed = 0xFFFF
)

// Code computes the integrity code over the record region of b.
func Code(b []byte) uint16 {
	return checksum.CRCPostprocess(checksum.CRC(b[param.RecordsOffset:CodeOffset], codeSeed))
}

func storedCode(b []byte) uint16 {
	return uint16(b[CodeOffset]) | uint16(b[CodeOffset+1])<<8
}

func putCode(b []byte) {
	c := Code(b)
	b[CodeOffset] = byte(c)
	b[CodeOffset+1] = byte(c >> 8)
}

func putHeader(b []byte) {
	b[tagOffset] = byte(FormatTag & 0xFF)
	b[tagOffset+1] = byte(FormatTag >> 8)
	b[versionOffset] = LayoutVersion
	b[versionOffset+1] = 0
}

// Verify reports whether b is a snapshot of this layout with a matching code.
func Verify(b []byte) bool {
	if len(b) < SnapshotSize {
		return false
	}
	tag := uint16(b[tagOffset]) | uint16(b[tagOffset+1])<<8
	if tag != FormatTag || b[versionOffset] != LayoutVersion || b[versionOffset+1] != 0 {
		return false
	}
	return Code(b) == storedCode(b)
}

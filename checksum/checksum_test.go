package checksum

import "testing"

var vector = []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a}

const initialValue = 0

func TestSum(t *testing.T) {
	if got := Sum(vector, initialValue); got != 55 {
		t.Fatalf("Sum() = %d, want 55", got)
	}
	if got := Sum(nil, 7); got != 7 {
		t.Fatalf("Sum(nil, 7) = %d, want 7", got)
	}
}

func TestCRC(t *testing.T) {
	if got := CRC(vector, initialValue); got != 0xcd4b {
		t.Fatalf("CRC() = 0x%04X, want 0xCD4B", got)
	}
}

func TestCRC_ByteByByteMatchesBlock(t *testing.T) {
	crc := uint16(initialValue)
	for _, b := range vector {
		crc = CRCByte(b, crc)
	}
	if crc != 0xcd4b {
		t.Fatalf("CRCByte loop = 0x%04X, want 0xCD4B", crc)
	}
}

func TestCRC_KnownCheckValues(t *testing.T) {
	check := []byte("123456789")
	tests := []struct {
		name string
		got  uint16
		want uint16
	}{
		{"xmodem", CRC(check, 0x0000), 0x31C3},
		{"ccitt-false", CRC(check, 0xFFFF), 0x29B1},
		{"kermit", CRCReflected(check, 0x0000), 0x2189},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got 0x%04X, want 0x%04X", tt.got, tt.want)
			}
		})
	}
}

func TestCRCReflected(t *testing.T) {
	if got := CRCReflected(vector, initialValue); got != 0x94c5 {
		t.Fatalf("CRCReflected() = 0x%04X, want 0x94C5", got)
	}
}

func TestCRCPostprocess(t *testing.T) {
	if got := CRCPostprocess(CRC(vector, initialValue)); got != 0xcd4b {
		t.Fatalf("CRCPostprocess(crc) = 0x%04X, want 0xCD4B", got)
	}
	if got := CRCPostprocess(CRCReflected(vector, initialValue)); got != 0x94c5 {
		t.Fatalf("CRCPostprocess(reflected) = 0x%04X, want 0x94C5", got)
	}
}

func TestHash(t *testing.T) {
	if got := Hash(vector); got != 0xe42b53b2 {
		t.Fatalf("Hash() = 0x%08X, want 0xE42B53B2", got)
	}
	if got := Hash(nil); got != hashOffsetBasis {
		t.Fatalf("Hash(nil) = 0x%08X, want offset basis", got)
	}
}

func TestCRC_DetectsEverySingleByteChange(t *testing.T) {
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = byte(i * 7)
	}
	ref := CRC(buf, 0xFFFF)
	for i := range buf {
		for _, flip := range []byte{0x01, 0x80, 0xFF} {
			buf[i] ^= flip
			if CRC(buf, 0xFFFF) == ref {
				t.Fatalf("corruption at %d (xor 0x%02X) not detected", i, flip)
			}
			buf[i] ^= flip
		}
	}
}

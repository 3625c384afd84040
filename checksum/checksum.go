// Package checksum provides the integrity functions used by the parameter
// registry and the random sequence service. All functions are pure and
// allocation-free.
package checksum

const (
	// CRCPolynomial is the CCITT polynomial x^16 + x^12 + x^5 + 1.
	CRCPolynomial = 0x1021

	// CRCReflectedPolynomial is CRCPolynomial with its bit order reversed.
	CRCReflectedPolynomial = 0x8408

	// CRCFinalXor is applied by CRCPostprocess. Zero leaves the register as is.
	CRCFinalXor = 0x0000

	crcHighBit  = 0x8000
	bitsPerByte = 8

	hashOffsetBasis = 0x811c9dc5
	hashPrime       = 0x01000193
)

// Sum adds every byte of data to seed, modulo 2^16.
func Sum(data []byte, seed uint16) uint16 {
	sum := seed
	for _, b := range data {
		sum += uint16(b)
	}
	return sum
}

// CRCByte folds a single byte into a running MSB-first CRC register.
func CRCByte(b byte, crc uint16) uint16 {
	crc ^= uint16(b) << bitsPerByte
	for i := 0; i < bitsPerByte; i++ {
		if crc&crcHighBit != 0 {
			crc = (crc << 1) ^ CRCPolynomial
		} else {
			crc <<= 1
		}
	}
	return crc
}

// CRC computes the MSB-first CRC-16 of data starting from seed.
// With seed 0 this is CRC-16/XMODEM; with 0xFFFF it is CRC-16/CCITT-FALSE.
func CRC(data []byte, seed uint16) uint16 {
	crc := seed
	for _, b := range data {
		crc = CRCByte(b, crc)
	}
	return crc
}

// CRCReflected computes the LSB-first CRC-16 of data starting from seed
// (CRC-16/KERMIT).
func CRCReflected(data []byte, seed uint16) uint16 {
	crc := seed
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < bitsPerByte; i++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ CRCReflectedPolynomial
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

// CRCPostprocess applies the final XOR step to a CRC register value.
func CRCPostprocess(v uint16) uint16 { return v ^ CRCFinalXor }

// Hash returns the 32-bit FNV-1a hash of data.
func Hash(data []byte) uint32 {
	h := uint32(hashOffsetBasis)
	for _, b := range data {
		h ^= uint32(b)
		h *= hashPrime
	}
	return h
}

// Package entropy adapts on-board temperature sensors to random.EntropySource.
package entropy

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/shtc3"
)

var ErrSHTC3CRC = errors.New("shtc3: frame crc mismatch")

const shtcWakeDelay = time.Millisecond

// SHTC3 samples the SHTC3 temperature channel. The sensor is woken for each
// read and put back to sleep afterwards. Every transaction is checked, so a
// missing sensor fails instead of reading as a constant.
type SHTC3 struct {
	bus drivers.I2C
	buf [6]byte
	// sleep is swapped in tests.
	sleep func(time.Duration)
}

// NewSHTC3 wraps an already configured I2C bus.
func NewSHTC3(bus drivers.I2C) *SHTC3 {
	return &SHTC3{bus: bus, sleep: time.Sleep}
}

func (s *SHTC3) ReadMilliC() (int32, error) {
	if err := s.bus.Tx(shtc3.SHTC3_ADDRESS, []byte(shtc3.SHTC3_CMD_WAKEUP), nil); err != nil {
		return 0, err
	}
	s.sleep(shtcWakeDelay)
	defer func() { _ = s.bus.Tx(shtc3.SHTC3_ADDRESS, []byte(shtc3.SHTC3_CMD_SLEEP), nil) }()

	d := s.buf[:]
	if err := s.bus.Tx(shtc3.SHTC3_ADDRESS, []byte(shtc3.SHTC3_CMD_MEASURE_HP), d); err != nil {
		return 0, err
	}
	if crc8(d[0:2]) != d[2] || crc8(d[3:5]) != d[5] {
		return 0, ErrSHTC3CRC
	}
	traw := int32(d[0])<<8 | int32(d[1])
	hraw := int32(d[3])<<8 | int32(d[4])
	mc := ((21875 * traw) >> 13) - 45000
	rh := (1250 * hraw) >> 13
	// Humidity jitter is folded into the sub-degree bits.
	return mc ^ (rh & 0xFF), nil
}

// crc8 is the Sensirion word CRC: poly 0x31, init 0xFF.
func crc8(b []byte) byte {
	c := byte(0xFF)
	for _, v := range b {
		c ^= v
		for i := 0; i < 8; i++ {
			if c&0x80 != 0 {
				c = c<<1 ^ 0x31
			} else {
				c <<= 1
			}
		}
	}
	return c
}

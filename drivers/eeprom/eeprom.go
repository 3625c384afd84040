// Package eeprom drives 24xx-series I2C EEPROMs (24LC256 and friends) and
// exposes them as a storage.Medium.
//
// Writes are split on page boundaries; after each page the driver waits for
// the internal write cycle before issuing the next transaction.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when both
// w and r are provided.
package eeprom

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// Address is the 7-bit address with A2..A0 strapped low.
const Address = 0x50

var (
	ErrOutOfBounds = errors.New("eeprom: access out of bounds")
	ErrConfig      = errors.New("eeprom: invalid config")
)

// Config describes the part. Zero fields take 24LC256 defaults.
type Config struct {
	Address uint16
	// Capacity in bytes. Default 32768.
	Capacity int
	// PageSize in bytes. Default 64.
	PageSize int
	// AddrBytes is the memory address width, 1 or 2. Default 2.
	AddrBytes int
	// WriteCycle is the page programming time. Default 5 ms.
	WriteCycle time.Duration
	// ReadChunk bounds a single read transaction. Default 32.
	ReadChunk int
}

type Device struct {
	bus drivers.I2C
	cfg Config
	w   []byte // address + one page
}

// New creates the driver; it does not touch the bus.
func New(bus drivers.I2C, cfgs ...Config) (*Device, error) {
	var c Config
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.Address == 0 {
		c.Address = Address
	}
	if c.Capacity == 0 {
		c.Capacity = 32768
	}
	if c.PageSize == 0 {
		c.PageSize = 64
	}
	if c.AddrBytes == 0 {
		c.AddrBytes = 2
	}
	if c.WriteCycle == 0 {
		c.WriteCycle = 5 * time.Millisecond
	}
	if c.ReadChunk == 0 {
		c.ReadChunk = 32
	}
	if c.AddrBytes != 1 && c.AddrBytes != 2 {
		return nil, ErrConfig
	}
	if c.AddrBytes == 1 && c.Capacity > 256 {
		return nil, ErrConfig
	}
	if c.PageSize <= 0 || c.Capacity%c.PageSize != 0 || c.ReadChunk <= 0 {
		return nil, ErrConfig
	}
	return &Device{
		bus: bus,
		cfg: c,
		w:   make([]byte, c.AddrBytes+c.PageSize),
	}, nil
}

func (d *Device) Size() int { return d.cfg.Capacity }

func (d *Device) putAddr(off int) int {
	if d.cfg.AddrBytes == 2 {
		d.w[0] = byte(off >> 8)
		d.w[1] = byte(off)
		return 2
	}
	d.w[0] = byte(off)
	return 1
}

func (d *Device) check(n int, off int64) error {
	if off < 0 || off+int64(n) > int64(d.cfg.Capacity) {
		return ErrOutOfBounds
	}
	return nil
}

// ReadAt reads sequentially in ReadChunk sized transactions.
func (d *Device) ReadAt(p []byte, off int64) (int, error) {
	if err := d.check(len(p), off); err != nil {
		return 0, err
	}
	done := 0
	for done < len(p) {
		n := len(p) - done
		if n > d.cfg.ReadChunk {
			n = d.cfg.ReadChunk
		}
		a := d.putAddr(int(off) + done)
		if err := d.bus.Tx(d.cfg.Address, d.w[:a], p[done:done+n]); err != nil {
			return done, err
		}
		done += n
	}
	return done, nil
}

// WriteAt programs p page by page.
func (d *Device) WriteAt(p []byte, off int64) (int, error) {
	if err := d.check(len(p), off); err != nil {
		return 0, err
	}
	done := 0
	for done < len(p) {
		at := int(off) + done
		room := d.cfg.PageSize - at%d.cfg.PageSize
		n := len(p) - done
		if n > room {
			n = room
		}
		a := d.putAddr(at)
		copy(d.w[a:], p[done:done+n])
		if err := d.bus.Tx(d.cfg.Address, d.w[:a+n], nil); err != nil {
			return done, err
		}
		time.Sleep(d.cfg.WriteCycle)
		done += n
	}
	return done, nil
}

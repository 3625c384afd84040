package entropy

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

const (
	AHT20Address = 0x38

	ahtTrigger    = 0xAC
	ahtInitialize = 0xBE
	ahtStatus     = 0x71

	ahtBusy       = 0x80
	ahtCalibrated = 0x08

	ahtPolls        = 16
	ahtPollInterval = 10 * time.Millisecond
)

var ErrAHT20Timeout = errors.New("aht20: measurement timeout")

// AHT20 samples an AHT20 temperature/humidity sensor. One ReadMilliC is a
// full trigger and poll cycle.
//
// I2C.Tx must do a repeated-start read when given both w and r.
type AHT20 struct {
	bus   drivers.I2C
	addr  uint16
	ready bool
	buf   [7]byte
	// sleep is swapped in tests.
	sleep func(time.Duration)
}

func NewAHT20(bus drivers.I2C) *AHT20 {
	return &AHT20{bus: bus, addr: AHT20Address, sleep: time.Sleep}
}

func (a *AHT20) calibrate() error {
	st := []byte{0}
	if err := a.bus.Tx(a.addr, []byte{ahtStatus}, st); err != nil {
		return err
	}
	if st[0]&ahtCalibrated == 0 {
		if err := a.bus.Tx(a.addr, []byte{ahtInitialize, 0x08, 0x00}, nil); err != nil {
			return err
		}
		a.sleep(ahtPollInterval)
	}
	a.ready = true
	return nil
}

func (a *AHT20) ReadMilliC() (int32, error) {
	if !a.ready {
		if err := a.calibrate(); err != nil {
			return 0, err
		}
	}
	if err := a.bus.Tx(a.addr, []byte{ahtTrigger, 0x33, 0x00}, nil); err != nil {
		return 0, err
	}
	for i := 0; i < ahtPolls; i++ {
		a.sleep(ahtPollInterval)
		d := a.buf[:]
		if err := a.bus.Tx(a.addr, nil, d); err != nil {
			return 0, err
		}
		if d[0]&ahtBusy != 0 {
			continue
		}
		hraw := uint32(d[1])<<12 | uint32(d[2])<<4 | uint32(d[3])>>4
		traw := uint32(d[3]&0x0F)<<16 | uint32(d[4])<<8 | uint32(d[5])
		// T = raw * 200 / 2^20 - 50 degC
		mc := int32(int64(traw)*200_000>>20) - 50_000
		return mc ^ int32(hraw&0xFF), nil
	}
	return 0, ErrAHT20Timeout
}

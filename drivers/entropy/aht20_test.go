package entropy

import (
	"errors"
	"testing"
	"time"
)

// fakeAHT answers status reads and serves frames for measurement reads.
type fakeAHT struct {
	status byte
	frames [][]byte
	writes [][]byte
	err    error
}

func (f *fakeAHT) Tx(addr uint16, w, r []byte) error {
	if f.err != nil {
		return f.err
	}
	if addr != AHT20Address {
		return errors.New("wrong address")
	}
	if len(w) > 0 {
		f.writes = append(f.writes, append([]byte(nil), w...))
	}
	switch {
	case len(w) == 1 && w[0] == ahtStatus:
		r[0] = f.status
	case len(w) == 0 && len(r) > 0:
		if len(f.frames) == 0 {
			r[0] = ahtBusy | ahtCalibrated
			return nil
		}
		copy(r, f.frames[0])
		f.frames = f.frames[1:]
	}
	return nil
}

func newTestAHT(f *fakeAHT) *AHT20 {
	a := NewAHT20(f)
	a.sleep = func(time.Duration) {}
	return a
}

func TestAHT20_DecodesAfterBusy(t *testing.T) {
	// traw = 0x66666 -> 80 degC * 0.4 - 50 = 30 degC; hraw low byte 0x00.
	f := &fakeAHT{
		status: ahtCalibrated,
		frames: [][]byte{
			{ahtBusy | ahtCalibrated},
			{ahtCalibrated, 0x80, 0x00, 0x06, 0x66, 0x66, 0x00},
		},
	}
	got, err := newTestAHT(f).ReadMilliC()
	if err != nil {
		t.Fatal(err)
	}
	want := int32(int64(0x66666)*200_000>>20) - 50_000
	if got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
	if got < 29_000 || got > 31_000 {
		t.Fatalf("got %d mC, want about 30 degC", got)
	}
}

func TestAHT20_InitializesUncalibratedSensor(t *testing.T) {
	f := &fakeAHT{frames: [][]byte{{ahtCalibrated, 0, 0, 0, 0, 0, 0}}}
	a := newTestAHT(f)
	if _, err := a.ReadMilliC(); err != nil {
		t.Fatal(err)
	}
	if len(f.writes) < 3 || f.writes[1][0] != ahtInitialize {
		t.Fatalf("writes = %x, want status, initialize, trigger", f.writes)
	}
	// Calibration runs once.
	f.writes = nil
	f.frames = [][]byte{{ahtCalibrated, 0, 0, 0, 0, 0, 0}}
	a.ReadMilliC()
	if len(f.writes) != 1 || f.writes[0][0] != ahtTrigger {
		t.Fatalf("second read writes = %x, want trigger only", f.writes)
	}
}

func TestAHT20_TimeoutAndBusError(t *testing.T) {
	f := &fakeAHT{status: ahtCalibrated}
	if _, err := newTestAHT(f).ReadMilliC(); err != ErrAHT20Timeout {
		t.Fatalf("err = %v, want ErrAHT20Timeout", err)
	}
	nack := errors.New("nack")
	if _, err := newTestAHT(&fakeAHT{err: nack}).ReadMilliC(); err != nack {
		t.Fatalf("err = %v, want nack", err)
	}
}

// Package random produces byte sequences seeded and re-stirred from a physical
// entropy source (a temperature sensor's noisy low bits).
//
// Output is suitable for identifiers and nonces on the device, not for
// cryptographic keys.
package random

import "pulp-go/checksum"

// EntropySource yields temperature samples in milli-degrees Celsius. Only the
// jitter in the low bits matters; the absolute value is irrelevant.
type EntropySource interface {
	ReadMilliC() (int32, error)
}

const (
	initSamples  = 16
	fallbackSeed = 0x2545F491
)

// Sequence is not safe for concurrent use.
type Sequence struct {
	src     EntropySource
	state   uint32
	counter uint32
	ready   bool
}

func New(src EntropySource) *Sequence {
	return &Sequence{src: src}
}

// Init seeds the generator. Failed samples are skipped; a source that never
// answers still yields a usable (if predictable) sequence.
func (s *Sequence) Init() {
	seed := checksum.Hash(nil)
	for i := 0; i < initSamples; i++ {
		v, err := s.src.ReadMilliC()
		if err != nil {
			continue
		}
		seed = xorshift(seed ^ stir(v))
	}
	if seed == 0 {
		seed = fallbackSeed
	}
	s.state = seed
	s.counter = 0
	s.ready = true
}

// Create fills buf. One sensor sample is folded in for every four bytes.
func (s *Sequence) Create(buf []byte) {
	if !s.ready {
		s.Init()
	}
	for i := range buf {
		if i%4 == 0 {
			s.step()
		}
		buf[i] = byte(s.state >> (8 * uint(i%4)))
	}
}

func (s *Sequence) step() {
	var v int32
	if x, err := s.src.ReadMilliC(); err == nil {
		v = x
	}
	s.counter++
	s.state ^= stir(v) ^ s.counter
	if s.state == 0 {
		s.state = fallbackSeed
	}
	s.state = xorshift(s.state)
}

func stir(v int32) uint32 {
	u := uint32(v)
	b := [4]byte{byte(u), byte(u >> 8), byte(u >> 16), byte(u >> 24)}
	return checksum.Hash(b[:])
}

func xorshift(x uint32) uint32 {
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return x
}

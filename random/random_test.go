package random

import (
	"bytes"
	"errors"
	"testing"
)

type constSource struct{ v int32 }

func (c constSource) ReadMilliC() (int32, error) { return c.v, nil }

type rampSource struct{ n int32 }

func (r *rampSource) ReadMilliC() (int32, error) {
	r.n++
	return 21000 + r.n%7, nil
}

type deadSource struct{}

func (deadSource) ReadMilliC() (int32, error) { return 0, errors.New("no sensor") }

const numberOfSequences = 100

func countEqual(t *testing.T, src EntropySource, size int) int {
	t.Helper()
	s := New(src)
	s.Init()
	pool := make([][]byte, numberOfSequences)
	for i := range pool {
		pool[i] = make([]byte, size)
		s.Create(pool[i])
	}
	equal := 0
	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			if bytes.Equal(pool[i], pool[j]) {
				equal++
			}
		}
	}
	return equal
}

func TestCreate_ManySequencesDoNotCollide(t *testing.T) {
	sources := map[string]EntropySource{
		"constant": constSource{v: 25000},
		"zero":     constSource{v: 0},
		"ramp":     &rampSource{},
		"dead":     deadSource{},
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			if n := countEqual(t, src, 8); n != 0 {
				t.Fatalf("equal sequences: %d", n)
			}
		})
	}
}

func TestCreate_ArbitraryLengths(t *testing.T) {
	s := New(&rampSource{})
	s.Init()
	for _, n := range []int{0, 1, 8, 11, 32} {
		buf := make([]byte, n)
		s.Create(buf)
		if n >= 8 && bytes.Equal(buf, make([]byte, n)) {
			t.Fatalf("sequence of %d bytes is all zero", n)
		}
	}
}

func TestCreate_InitsLazily(t *testing.T) {
	s := New(constSource{v: 1})
	a := make([]byte, 8)
	s.Create(a)
	if !s.ready {
		t.Fatal("Create should seed an uninitialised sequence")
	}
}

func TestCreate_SeedDependsOnSource(t *testing.T) {
	a, b := New(constSource{v: 20000}), New(constSource{v: 20001})
	a.Init()
	b.Init()
	x, y := make([]byte, 16), make([]byte, 16)
	a.Create(x)
	b.Create(y)
	if bytes.Equal(x, y) {
		t.Fatal("different entropy produced identical output")
	}
}

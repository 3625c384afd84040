package errcode

import (
	"errors"
	"testing"

	"pulp-go/registry"
)

func TestFromResult_CoversEveryResult(t *testing.T) {
	for r := registry.Success; r <= registry.ShutDown; r++ {
		c := FromResult(r)
		if c == Error {
			t.Fatalf("result %v has no code", r)
		}
		if r != registry.Success && string(c) != r.String() {
			t.Fatalf("code for %v = %q, want %q", r, c, r.String())
		}
	}
	if FromResult(registry.Result(200)) != Error {
		t.Fatal("unknown result should map to Error")
	}
}

func TestOf(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{nil, OK},
		{Timeout, Timeout},
		{&E{C: InvalidValue, Op: "set"}, InvalidValue},
		{errors.New("boom"), Error},
	}
	for _, c := range cases {
		if got := Of(c.err); got != c.want {
			t.Fatalf("Of(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

func TestE_Error(t *testing.T) {
	cause := errors.New("nack")
	e := &E{C: StorageFailure, Op: "backup", Msg: "eeprom", Err: cause}
	if got := e.Error(); got != "backup: storage_failure: eeprom" {
		t.Fatalf("got %q", got)
	}
	if !errors.Is(e, cause) {
		t.Fatal("cause not unwrapped")
	}
}

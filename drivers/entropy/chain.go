package entropy

import "errors"

// Source is anything that yields a temperature in milli-degrees Celsius.
type Source interface {
	ReadMilliC() (int32, error)
}

var ErrNoSource = errors.New("entropy: no source answered")

// Chain reads from the first source that answers. Boards list the external
// sensor first and the die sensor last.
type Chain []Source

func (c Chain) ReadMilliC() (int32, error) {
	for _, s := range c {
		if v, err := s.ReadMilliC(); err == nil {
			return v, nil
		}
	}
	return 0, ErrNoSource
}

//go:build rp2040 || rp2350

package entropy

import "machine"

// Die reads the RP2 on-die temperature sensor through the ADC.
type Die struct{}

func (Die) ReadMilliC() (int32, error) { return machine.ReadTemperature(), nil }

package param

import "pulp-go/x/mathx"

const (
	ChargerSize = 8
	LoadSize    = 6

	// Gains are Q12 fixed point (4096 == 1.0) limited to +-10 %.
	GainUnity = 4096
	GainMin   = 3686
	GainMax   = 4506

	ChargerOffsetLimit = 500
	LoadOffsetLimit    = 1000
	LoadLimitMax       = 10000
)

// Charger holds the charger ADC calibration.
type Charger struct {
	VoltageGain   uint16 `yaml:"voltage_gain"`
	VoltageOffset int16  `yaml:"voltage_offset_mv"`
	CurrentGain   uint16 `yaml:"current_gain"`
	CurrentOffset int16  `yaml:"current_offset_ma"`
}

func (r *Charger) Kind() Kind   { return KindChargerCalibration }
func (r *Charger) Address() int { return ChargerAddress }
func (r *Charger) Size() int    { return ChargerSize }

func (r *Charger) Initialize() {
	*r = Charger{VoltageGain: GainUnity, CurrentGain: GainUnity}
}

func (r *Charger) Serialize(c *Cursor) {
	c.PutU16(r.VoltageGain)
	c.PutI16(r.VoltageOffset)
	c.PutU16(r.CurrentGain)
	c.PutI16(r.CurrentOffset)
}

func (r *Charger) Deserialize(c *Cursor) {
	r.VoltageGain = mathx.Clamp(c.U16(), GainMin, GainMax)
	r.VoltageOffset = mathx.Clamp(c.I16(), -ChargerOffsetLimit, ChargerOffsetLimit)
	r.CurrentGain = mathx.Clamp(c.U16(), GainMin, GainMax)
	r.CurrentOffset = mathx.Clamp(c.I16(), -ChargerOffsetLimit, ChargerOffsetLimit)
}

func (r *Charger) Validate() bool {
	return mathx.Between(r.VoltageGain, GainMin, GainMax) &&
		mathx.Between(r.VoltageOffset, -ChargerOffsetLimit, ChargerOffsetLimit) &&
		mathx.Between(r.CurrentGain, GainMin, GainMax) &&
		mathx.Between(r.CurrentOffset, -ChargerOffsetLimit, ChargerOffsetLimit)
}

func (r *Charger) Clone() Record { c := *r; return &c }

func (r *Charger) SetField(name, value string) error {
	switch name {
	case "voltage_gain", "current_gain":
		v, err := parseInt(value, GainMin, GainMax)
		if err != nil {
			return err
		}
		if name == "voltage_gain" {
			r.VoltageGain = uint16(v)
		} else {
			r.CurrentGain = uint16(v)
		}
	case "voltage_offset", "current_offset":
		v, err := parseInt(value, -ChargerOffsetLimit, ChargerOffsetLimit)
		if err != nil {
			return err
		}
		if name == "voltage_offset" {
			r.VoltageOffset = int16(v)
		} else {
			r.CurrentOffset = int16(v)
		}
	default:
		return ErrUnknownField
	}
	return nil
}

func (r *Charger) VisitFields(fn func(name, value string)) {
	fn("voltage_gain", itoa(int64(r.VoltageGain)))
	fn("voltage_offset", itoa(int64(r.VoltageOffset)))
	fn("current_gain", itoa(int64(r.CurrentGain)))
	fn("current_offset", itoa(int64(r.CurrentOffset)))
}

// Load holds the load output calibration and current limit.
type Load struct {
	Gain   uint16 `yaml:"gain"`
	Offset int16  `yaml:"offset_ma"`
	Limit  uint16 `yaml:"limit_ma"`
}

func (r *Load) Kind() Kind   { return KindLoadCalibration }
func (r *Load) Address() int { return LoadAddress }
func (r *Load) Size() int    { return LoadSize }

func (r *Load) Initialize() {
	*r = Load{Gain: GainUnity, Limit: 2000}
}

func (r *Load) Serialize(c *Cursor) {
	c.PutU16(r.Gain)
	c.PutI16(r.Offset)
	c.PutU16(r.Limit)
}

func (r *Load) Deserialize(c *Cursor) {
	r.Gain = mathx.Clamp(c.U16(), GainMin, GainMax)
	r.Offset = mathx.Clamp(c.I16(), -LoadOffsetLimit, LoadOffsetLimit)
	r.Limit = mathx.Clamp(c.U16(), 0, LoadLimitMax)
}

func (r *Load) Validate() bool {
	return mathx.Between(r.Gain, GainMin, GainMax) &&
		mathx.Between(r.Offset, -LoadOffsetLimit, LoadOffsetLimit) &&
		r.Limit <= LoadLimitMax
}

func (r *Load) Clone() Record { c := *r; return &c }

func (r *Load) SetField(name, value string) error {
	switch name {
	case "gain":
		v, err := parseInt(value, GainMin, GainMax)
		if err != nil {
			return err
		}
		r.Gain = uint16(v)
	case "offset":
		v, err := parseInt(value, -LoadOffsetLimit, LoadOffsetLimit)
		if err != nil {
			return err
		}
		r.Offset = int16(v)
	case "limit":
		v, err := parseUint(value, LoadLimitMax)
		if err != nil {
			return err
		}
		r.Limit = uint16(v)
	default:
		return ErrUnknownField
	}
	return nil
}

func (r *Load) VisitFields(fn func(name, value string)) {
	fn("gain", itoa(int64(r.Gain)))
	fn("offset", itoa(int64(r.Offset)))
	fn("limit", itoa(int64(r.Limit)))
}

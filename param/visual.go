package param

import "pulp-go/x/mathx"

const (
	VisualSize = 6

	BrightnessMax = 100
	ProgramMask   = 0x0F
)

// Visual holds the LED feedback settings.
type Visual struct {
	Brightness uint8 `yaml:"brightness"`
	Verbosity  uint8 `yaml:"verbosity"`
	Program    uint8 `yaml:"program"`
	Red        uint8 `yaml:"red"`
	Green      uint8 `yaml:"green"`
	Blue       uint8 `yaml:"blue"`
}

func (v *Visual) Kind() Kind   { return KindVisualFeedback }
func (v *Visual) Address() int { return VisualAddress }
func (v *Visual) Size() int    { return VisualSize }

func (v *Visual) Initialize() {
	*v = Visual{Brightness: 60, Verbosity: 3, Red: 0xFF, Green: 0xFF, Blue: 0xFF}
}

func (v *Visual) Serialize(c *Cursor) {
	c.PutU8(v.Brightness)
	c.PutU8(v.Verbosity)
	c.PutU8(v.Program)
	c.PutU8(v.Red)
	c.PutU8(v.Green)
	c.PutU8(v.Blue)
}

func (v *Visual) Deserialize(c *Cursor) {
	v.Brightness = mathx.Clamp(c.U8(), 0, BrightnessMax)
	v.Verbosity = mathx.Mask(c.U8(), VerbosityMask)
	v.Program = mathx.Mask(c.U8(), ProgramMask)
	v.Red = c.U8()
	v.Green = c.U8()
	v.Blue = c.U8()
}

func (v *Visual) Validate() bool {
	return v.Brightness <= BrightnessMax &&
		mathx.FitsMask(v.Verbosity, VerbosityMask) &&
		mathx.FitsMask(v.Program, ProgramMask)
}

func (v *Visual) Clone() Record { c := *v; return &c }

func (v *Visual) SetField(name, value string) error {
	var (
		x   uint64
		err error
	)
	switch name {
	case "brightness":
		x, err = parseUint(value, BrightnessMax)
	case "verbosity":
		x, err = parseMasked(value, VerbosityMask)
	case "program":
		x, err = parseMasked(value, ProgramMask)
	case "red", "green", "blue":
		x, err = parseUint(value, 0xFF)
	default:
		return ErrUnknownField
	}
	if err != nil {
		return err
	}
	switch name {
	case "brightness":
		v.Brightness = uint8(x)
	case "verbosity":
		v.Verbosity = uint8(x)
	case "program":
		v.Program = uint8(x)
	case "red":
		v.Red = uint8(x)
	case "green":
		v.Green = uint8(x)
	case "blue":
		v.Blue = uint8(x)
	}
	return nil
}

func (v *Visual) VisitFields(fn func(name, value string)) {
	fn("brightness", itoa(int64(v.Brightness)))
	fn("verbosity", itoa(int64(v.Verbosity)))
	fn("program", itoa(int64(v.Program)))
	fn("red", itoa(int64(v.Red)))
	fn("green", itoa(int64(v.Green)))
	fn("blue", itoa(int64(v.Blue)))
}

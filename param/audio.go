package param

import "pulp-go/x/mathx"

const (
	AudioSize = 4

	LoudnessMax   = 100
	VerbosityMask = 0x07
	AudioThemes   = 0x03
)

// Audio holds the tone feedback settings.
type Audio struct {
	Loudness  uint8 `yaml:"loudness"`
	Verbosity uint8 `yaml:"verbosity"`
	Theme     uint8 `yaml:"theme"`
}

func (a *Audio) Kind() Kind   { return KindAudioFeedback }
func (a *Audio) Address() int { return AudioAddress }
func (a *Audio) Size() int    { return AudioSize }

func (a *Audio) Initialize() {
	*a = Audio{Loudness: 50, Verbosity: 3, Theme: 0}
}

func (a *Audio) Serialize(c *Cursor) {
	c.PutU8(a.Loudness)
	c.PutU8(a.Verbosity)
	c.PutU8(a.Theme)
	c.PutU8(0)
}

func (a *Audio) Deserialize(c *Cursor) {
	a.Loudness = mathx.Clamp(c.U8(), 0, LoudnessMax)
	a.Verbosity = mathx.Mask(c.U8(), VerbosityMask)
	a.Theme = mathx.Mask(c.U8(), AudioThemes)
	c.Skip(1)
}

func (a *Audio) Validate() bool {
	return a.Loudness <= LoudnessMax &&
		mathx.FitsMask(a.Verbosity, VerbosityMask) &&
		mathx.FitsMask(a.Theme, AudioThemes)
}

func (a *Audio) Clone() Record { c := *a; return &c }

func (a *Audio) SetField(name, value string) error {
	switch name {
	case "loudness":
		v, err := parseUint(value, LoudnessMax)
		if err != nil {
			return err
		}
		a.Loudness = uint8(v)
	case "verbosity":
		v, err := parseMasked(value, VerbosityMask)
		if err != nil {
			return err
		}
		a.Verbosity = uint8(v)
	case "theme":
		v, err := parseMasked(value, AudioThemes)
		if err != nil {
			return err
		}
		a.Theme = uint8(v)
	default:
		return ErrUnknownField
	}
	return nil
}

func (a *Audio) VisitFields(fn func(name, value string)) {
	fn("loudness", itoa(int64(a.Loudness)))
	fn("verbosity", itoa(int64(a.Verbosity)))
	fn("theme", itoa(int64(a.Theme)))
}

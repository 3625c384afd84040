package param

import "pulp-go/x/mathx"

const (
	FeaturesSize = 4
	PositionSize = 10
)

// Feature bits.
const (
	FeatureAudio uint32 = 1 << iota
	FeatureVisual
	FeatureCharger
	FeatureLoad
	FeaturePosition
	FeatureConsole

	FeatureMask = FeatureAudio | FeatureVisual | FeatureCharger |
		FeatureLoad | FeaturePosition | FeatureConsole
)

// Features enables optional subsystems.
type Features struct {
	Flags uint32 `yaml:"flags"`
}

func (r *Features) Kind() Kind   { return KindFeatures }
func (r *Features) Address() int { return FeaturesAddress }
func (r *Features) Size() int    { return FeaturesSize }

func (r *Features) Initialize() {
	r.Flags = FeatureAudio | FeatureVisual | FeatureCharger | FeatureLoad | FeatureConsole
}

func (r *Features) Serialize(c *Cursor)   { c.PutU32(r.Flags) }
func (r *Features) Deserialize(c *Cursor) { r.Flags = mathx.Mask(c.U32(), FeatureMask) }
func (r *Features) Validate() bool        { return mathx.FitsMask(r.Flags, FeatureMask) }
func (r *Features) Clone() Record         { c := *r; return &c }

// Enabled reports whether every bit in f is set.
func (r *Features) Enabled(f uint32) bool { return r.Flags&f == f }

func (r *Features) SetField(name, value string) error {
	if name != "flags" {
		return ErrUnknownField
	}
	v, err := parseMasked(value, uint64(FeatureMask))
	if err != nil {
		return err
	}
	r.Flags = uint32(v)
	return nil
}

func (r *Features) VisitFields(fn func(name, value string)) {
	fn("flags", hex32(r.Flags))
}

const (
	LatitudeLimit  = 90_000_000  // micro-degrees
	LongitudeLimit = 180_000_000 // micro-degrees
	AltitudeMin    = -500
	AltitudeMax    = 9000
)

// Position is the installation site.
type Position struct {
	Latitude  int32 `yaml:"latitude_udeg"`
	Longitude int32 `yaml:"longitude_udeg"`
	Altitude  int16 `yaml:"altitude_m"`
}

func (r *Position) Kind() Kind   { return KindPosition }
func (r *Position) Address() int { return PositionAddress }
func (r *Position) Size() int    { return PositionSize }

func (r *Position) Initialize() { *r = Position{} }

func (r *Position) Serialize(c *Cursor) {
	c.PutI32(r.Latitude)
	c.PutI32(r.Longitude)
	c.PutI16(r.Altitude)
}

func (r *Position) Deserialize(c *Cursor) {
	r.Latitude = mathx.Clamp(c.I32(), -LatitudeLimit, LatitudeLimit)
	r.Longitude = mathx.Clamp(c.I32(), -LongitudeLimit, LongitudeLimit)
	r.Altitude = mathx.Clamp(c.I16(), AltitudeMin, AltitudeMax)
}

func (r *Position) Validate() bool {
	return mathx.Between(r.Latitude, -LatitudeLimit, LatitudeLimit) &&
		mathx.Between(r.Longitude, -LongitudeLimit, LongitudeLimit) &&
		mathx.Between(r.Altitude, AltitudeMin, AltitudeMax)
}

func (r *Position) Clone() Record { c := *r; return &c }

func (r *Position) SetField(name, value string) error {
	switch name {
	case "latitude":
		v, err := parseInt(value, -LatitudeLimit, LatitudeLimit)
		if err != nil {
			return err
		}
		r.Latitude = int32(v)
	case "longitude":
		v, err := parseInt(value, -LongitudeLimit, LongitudeLimit)
		if err != nil {
			return err
		}
		r.Longitude = int32(v)
	case "altitude":
		v, err := parseInt(value, AltitudeMin, AltitudeMax)
		if err != nil {
			return err
		}
		r.Altitude = int16(v)
	default:
		return ErrUnknownField
	}
	return nil
}

func (r *Position) VisitFields(fn func(name, value string)) {
	fn("latitude", itoa(int64(r.Latitude)))
	fn("longitude", itoa(int64(r.Longitude)))
	fn("altitude", itoa(int64(r.Altitude)))
}

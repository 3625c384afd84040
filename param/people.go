package param

import "pulp-go/x/mathx"

const (
	MaintainerSize = 2*personTextSize + 2
	UserSize       = personTextSize + 1 + 2

	personTextSize = 24

	IntervalMin  = 1
	IntervalMax  = 3650
	LanguageMask = 0x0F
	PinMax       = 9999
)

// Maintainer identifies who services the device and how often.
type Maintainer struct {
	Name     string `yaml:"name"`
	Contact  string `yaml:"contact"`
	Interval uint16 `yaml:"interval_days"`
}

func (r *Maintainer) Kind() Kind   { return KindMaintainer }
func (r *Maintainer) Address() int { return MaintainerAddress }
func (r *Maintainer) Size() int    { return MaintainerSize }

func (r *Maintainer) Initialize() {
	*r = Maintainer{Interval: 365}
}

func (r *Maintainer) Serialize(c *Cursor) {
	putText(c, r.Name, personTextSize)
	putText(c, r.Contact, personTextSize)
	c.PutU16(r.Interval)
}

func (r *Maintainer) Deserialize(c *Cursor) {
	r.Name = getText(c, personTextSize)
	r.Contact = getText(c, personTextSize)
	r.Interval = mathx.Clamp(c.U16(), IntervalMin, IntervalMax)
}

func (r *Maintainer) Validate() bool {
	return validText(r.Name, personTextSize) &&
		validText(r.Contact, personTextSize) &&
		mathx.Between(r.Interval, IntervalMin, IntervalMax)
}

func (r *Maintainer) Clone() Record { c := *r; return &c }

func (r *Maintainer) SetField(name, value string) error {
	switch name {
	case "name", "contact":
		if err := checkText(value, personTextSize); err != nil {
			return err
		}
		if name == "name" {
			r.Name = value
		} else {
			r.Contact = value
		}
	case "interval":
		v, err := parseInt(value, IntervalMin, IntervalMax)
		if err != nil {
			return err
		}
		r.Interval = uint16(v)
	default:
		return ErrUnknownField
	}
	return nil
}

func (r *Maintainer) VisitFields(fn func(name, value string)) {
	fn("name", r.Name)
	fn("contact", r.Contact)
	fn("interval", itoa(int64(r.Interval)))
}

// User holds the operator profile.
type User struct {
	Name     string `yaml:"name"`
	Language uint8  `yaml:"language"`
	Pin      uint16 `yaml:"pin"`
}

func (r *User) Kind() Kind   { return KindUser }
func (r *User) Address() int { return UserAddress }
func (r *User) Size() int    { return UserSize }

func (r *User) Initialize() { *r = User{} }

func (r *User) Serialize(c *Cursor) {
	putText(c, r.Name, personTextSize)
	c.PutU8(r.Language)
	c.PutU16(r.Pin)
}

func (r *User) Deserialize(c *Cursor) {
	r.Name = getText(c, personTextSize)
	r.Language = mathx.Mask(c.U8(), LanguageMask)
	r.Pin = mathx.Clamp(c.U16(), 0, PinMax)
}

func (r *User) Validate() bool {
	return validText(r.Name, personTextSize) &&
		mathx.FitsMask(r.Language, LanguageMask) &&
		r.Pin <= PinMax
}

func (r *User) Clone() Record { c := *r; return &c }

func (r *User) SetField(name, value string) error {
	switch name {
	case "name":
		if err := checkText(value, personTextSize); err != nil {
			return err
		}
		r.Name = value
	case "language":
		v, err := parseMasked(value, LanguageMask)
		if err != nil {
			return err
		}
		r.Language = uint8(v)
	case "pin":
		v, err := parseUint(value, PinMax)
		if err != nil {
			return err
		}
		r.Pin = uint16(v)
	default:
		return ErrUnknownField
	}
	return nil
}

func (r *User) VisitFields(fn func(name, value string)) {
	fn("name", r.Name)
	fn("language", itoa(int64(r.Language)))
	fn("pin", itoa(int64(r.Pin)))
}

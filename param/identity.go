package param

import (
	"encoding/hex"
	"errors"
)

const (
	NameSize   = 32
	SerialSize = 16
	UIDSize    = 16
)

// Name is the user visible device name.
type Name struct {
	Text string `yaml:"text"`
}

func (r *Name) Kind() Kind   { return KindDeviceName }
func (r *Name) Address() int { return NameAddress }
func (r *Name) Size() int    { return NameSize }

func (r *Name) Initialize()           { r.Text = "pulp" }
func (r *Name) Serialize(c *Cursor)   { putText(c, r.Text, NameSize) }
func (r *Name) Deserialize(c *Cursor) { r.Text = getText(c, NameSize) }
func (r *Name) Validate() bool        { return validText(r.Text, NameSize) }
func (r *Name) Clone() Record         { c := *r; return &c }

func (r *Name) VisitFields(fn func(name, value string)) {
	fn("text", r.Text)
}

func (r *Name) SetField(name, value string) error {
	if name != "text" {
		return ErrUnknownField
	}
	if err := checkText(value, NameSize); err != nil {
		return err
	}
	r.Text = value
	return nil
}

// SerialNumber is the factory serial, printable ASCII.
type SerialNumber struct {
	Text string `yaml:"text"`
}

func (r *SerialNumber) Kind() Kind   { return KindSerialNumber }
func (r *SerialNumber) Address() int { return SerialAddress }
func (r *SerialNumber) Size() int    { return SerialSize }

func (r *SerialNumber) Initialize()           { r.Text = "" }
func (r *SerialNumber) Serialize(c *Cursor)   { putText(c, r.Text, SerialSize) }
func (r *SerialNumber) Deserialize(c *Cursor) { r.Text = getText(c, SerialSize) }
func (r *SerialNumber) Validate() bool        { return validText(r.Text, SerialSize) }
func (r *SerialNumber) Clone() Record         { c := *r; return &c }

func (r *SerialNumber) VisitFields(fn func(name, value string)) {
	fn("text", r.Text)
}

func (r *SerialNumber) SetField(name, value string) error {
	if name != "text" {
		return ErrUnknownField
	}
	if err := checkText(value, SerialSize); err != nil {
		return err
	}
	r.Text = value
	return nil
}

// UID is a 128-bit identifier. It marshals as 32 lowercase hex digits.
type UID [UIDSize]byte

var ErrUIDFormat = errors.New("param: uid must be 32 hex digits")

func (u UID) String() string { return hex.EncodeToString(u[:]) }

func (u UID) IsZero() bool { return u == UID{} }

func (u UID) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

func (u *UID) UnmarshalText(b []byte) error {
	if len(b) != 2*UIDSize {
		return ErrUIDFormat
	}
	var tmp UID
	if _, err := hex.Decode(tmp[:], b); err != nil {
		return ErrUIDFormat
	}
	*u = tmp
	return nil
}

// UniqueIdentifier is generated once per format from the random sequence
// service. Every bit pattern is valid.
type UniqueIdentifier struct {
	Value UID `yaml:"value"`
}

func (r *UniqueIdentifier) Kind() Kind   { return KindUniqueIdentifier }
func (r *UniqueIdentifier) Address() int { return UIDAddress }
func (r *UniqueIdentifier) Size() int    { return UIDSize }

func (r *UniqueIdentifier) Initialize()           { r.Value = UID{} }
func (r *UniqueIdentifier) Serialize(c *Cursor)   { c.PutBytes(r.Value[:], UIDSize) }
func (r *UniqueIdentifier) Deserialize(c *Cursor) { c.Bytes(r.Value[:]) }
func (r *UniqueIdentifier) Validate() bool        { return true }
func (r *UniqueIdentifier) Clone() Record         { c := *r; return &c }

func (r *UniqueIdentifier) VisitFields(fn func(name, value string)) {
	fn("value", r.Value.String())
}

func (r *UniqueIdentifier) SetField(name, value string) error {
	if name != "value" {
		return ErrUnknownField
	}
	return r.Value.UnmarshalText([]byte(value))
}

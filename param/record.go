package param

import (
	"errors"
	"strconv"
)

// Record is the capability set shared by every parameter kind.
type Record interface {
	Kind() Kind
	// Address is the byte offset of the record inside the snapshot.
	Address() int
	// Size is the fixed encoded length; Serialize always writes exactly Size bytes.
	Size() int
	// Initialize resets the record to its compiled-in defaults.
	Initialize()
	Serialize(c *Cursor)
	// Deserialize reads Size bytes and coerces every field into its domain.
	Deserialize(c *Cursor)
	// Validate reports whether every field is inside its domain.
	Validate() bool
	Clone() Record

	// SetField parses value into the named field. It rejects out-of-domain
	// input rather than coercing it.
	SetField(name, value string) error
	// VisitFields calls fn for every field in wire order.
	VisitFields(fn func(name, value string))
}

// Snapshot layout. Records follow a 4 byte header in canonical order.
const (
	RecordsOffset = 4

	AudioAddress      = RecordsOffset
	ChargerAddress    = AudioAddress + AudioSize
	NameAddress       = ChargerAddress + ChargerSize
	FeaturesAddress   = NameAddress + NameSize
	LoadAddress       = FeaturesAddress + FeaturesSize
	MaintainerAddress = LoadAddress + LoadSize
	PositionAddress   = MaintainerAddress + MaintainerSize
	SerialAddress     = PositionAddress + PositionSize
	UIDAddress        = SerialAddress + SerialSize
	UserAddress       = UIDAddress + UIDSize
	VisualAddress     = UserAddress + UserSize

	// RecordsEnd is one past the last record byte.
	RecordsEnd = VisualAddress + VisualSize
)

var (
	ErrUnknownField = errors.New("param: unknown field")
	ErrBadValue     = errors.New("param: bad value")
	ErrOutOfRange   = errors.New("param: value out of range")
	ErrTextTooLong  = errors.New("param: text too long")
	ErrTextInvalid  = errors.New("param: text must be printable ascii")
)

// New returns a record of the given kind holding its defaults, or nil for an
// unknown kind.
func New(k Kind) Record {
	var r Record
	switch k {
	case KindAudioFeedback:
		r = &Audio{}
	case KindChargerCalibration:
		r = &Charger{}
	case KindDeviceName:
		r = &Name{}
	case KindFeatures:
		r = &Features{}
	case KindLoadCalibration:
		r = &Load{}
	case KindMaintainer:
		r = &Maintainer{}
	case KindPosition:
		r = &Position{}
	case KindSerialNumber:
		r = &SerialNumber{}
	case KindUniqueIdentifier:
		r = &UniqueIdentifier{}
	case KindUser:
		r = &User{}
	case KindVisualFeedback:
		r = &Visual{}
	default:
		return nil
	}
	r.Initialize()
	return r
}

// ---- text fields ----

const (
	textMin = 0x20
	textMax = 0x7E
)

func putText(c *Cursor, s string, n int) {
	for i := 0; i < n; i++ {
		var b byte
		if i < len(s) {
			b = s[i]
		}
		c.PutU8(b)
	}
}

// getText stops at the first NUL and replaces non-printable bytes with '?'.
func getText(c *Cursor, n int) string {
	b := make([]byte, 0, n)
	done := false
	for i := 0; i < n; i++ {
		ch := c.U8()
		if done {
			continue
		}
		if ch == 0 {
			done = true
			continue
		}
		if ch < textMin || ch > textMax {
			ch = '?'
		}
		b = append(b, ch)
	}
	return string(b)
}

func validText(s string, n int) bool { return checkText(s, n) == nil }

func checkText(s string, n int) error {
	if len(s) > n {
		return ErrTextTooLong
	}
	for i := 0; i < len(s); i++ {
		if s[i] < textMin || s[i] > textMax {
			return ErrTextInvalid
		}
	}
	return nil
}

// ---- field parsing ----

func parseInt(s string, lo, hi int64) (int64, error) {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, ErrBadValue
	}
	if v < lo || v > hi {
		return 0, ErrOutOfRange
	}
	return v, nil
}

func parseUint(s string, hi uint64) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, ErrBadValue
	}
	if v > hi {
		return 0, ErrOutOfRange
	}
	return v, nil
}

// parseMasked accepts only values whose bits all fall inside mask.
func parseMasked(s string, mask uint64) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, ErrBadValue
	}
	if v&^mask != 0 {
		return 0, ErrOutOfRange
	}
	return v, nil
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func hex32(v uint32) string { return "0x" + strconv.FormatUint(uint64(v), 16) }

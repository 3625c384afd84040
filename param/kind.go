// Package param defines the fixed catalogue of persisted parameter records.
//
// Each record has a fixed ADDRESS inside the registry snapshot and a fixed
// SIZE. Records are packed field by field through a Cursor in little-endian
// order; Deserialize never fails and coerces every bounded field back into its
// domain (clamp for ranges, mask for bit fields).
package param

// Kind identifies one record in the catalogue. The numeric order is the
// canonical snapshot order.
type Kind uint8

const (
	KindAudioFeedback Kind = iota
	KindChargerCalibration
	KindDeviceName
	KindFeatures
	KindLoadCalibration
	KindMaintainer
	KindPosition
	KindSerialNumber
	KindUniqueIdentifier
	KindUser
	KindVisualFeedback

	kindCount
)

// Count is the number of record kinds.
const Count = int(kindCount)

var kindNames = [kindCount]string{
	KindAudioFeedback:      "audio",
	KindChargerCalibration: "charger",
	KindDeviceName:         "name",
	KindFeatures:           "features",
	KindLoadCalibration:    "load",
	KindMaintainer:         "maintainer",
	KindPosition:           "position",
	KindSerialNumber:       "serial",
	KindUniqueIdentifier:   "uid",
	KindUser:               "user",
	KindVisualFeedback:     "visual",
}

func (k Kind) Valid() bool { return k < kindCount }

func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind maps a short name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Kinds returns every kind in canonical order.
func Kinds() []Kind {
	ks := make([]Kind, Count)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

package param

import (
	"bytes"
	"testing"
)

func encode(r Record) []byte {
	buf := make([]byte, r.Size())
	r.Serialize(NewCursor(buf))
	return buf
}

func TestKinds_NamesRoundTrip(t *testing.T) {
	if len(Kinds()) != 11 {
		t.Fatalf("got %d kinds, want 11", len(Kinds()))
	}
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Fatalf("ParseKind(%q) = %v,%v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("bogus"); ok {
		t.Fatal("ParseKind accepted unknown name")
	}
	if Kind(200).Valid() || Kind(200).String() != "unknown" {
		t.Fatal("out of range kind should be invalid")
	}
}

func TestLayout_AddressesAreContiguous(t *testing.T) {
	next := RecordsOffset
	for _, k := range Kinds() {
		r := New(k)
		if r == nil {
			t.Fatalf("New(%v) = nil", k)
		}
		if r.Kind() != k {
			t.Fatalf("New(%v).Kind() = %v", k, r.Kind())
		}
		if r.Address() != next {
			t.Fatalf("%v address = %d, want %d", k, r.Address(), next)
		}
		next += r.Size()
	}
	if next != RecordsEnd {
		t.Fatalf("records end at %d, want %d", next, RecordsEnd)
	}
}

func TestSerialize_WritesExactlySize(t *testing.T) {
	for _, k := range Kinds() {
		r := New(k)
		buf := bytes.Repeat([]byte{0xA5}, r.Size()+8)
		c := NewCursor(buf)
		r.Serialize(c)
		if c.Offset() != r.Size() {
			t.Fatalf("%v: serialize advanced %d, want %d", k, c.Offset(), r.Size())
		}
		for i := r.Size(); i < len(buf); i++ {
			if buf[i] != 0xA5 {
				t.Fatalf("%v: byte %d past record was overwritten", k, i)
			}
		}
		d := New(k)
		dc := NewCursor(buf)
		d.Deserialize(dc)
		if dc.Offset() != r.Size() {
			t.Fatalf("%v: deserialize consumed %d, want %d", k, dc.Offset(), r.Size())
		}
	}
}

func TestDefaults_AreValid(t *testing.T) {
	for _, k := range Kinds() {
		if !New(k).Validate() {
			t.Fatalf("%v defaults do not validate", k)
		}
	}
	if New(Kind(99)) != nil {
		t.Fatal("New(unknown) should be nil")
	}
}

func TestRoundTrip_ValidValues(t *testing.T) {
	records := []Record{
		&Audio{Loudness: 100, Verbosity: 7, Theme: 2},
		&Charger{VoltageGain: GainMin, VoltageOffset: -500, CurrentGain: GainMax, CurrentOffset: 123},
		&Name{Text: "station-7 north"},
		&Features{Flags: FeatureConsole | FeatureAudio},
		&Load{Gain: 4000, Offset: -1000, Limit: 10000},
		&Maintainer{Name: "R. Service", Contact: "+49 30 1234", Interval: 3650},
		&Position{Latitude: -33_868_820, Longitude: 151_209_290, Altitude: 58},
		&SerialNumber{Text: "PLP-000123"},
		&UniqueIdentifier{Value: UID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}},
		&User{Name: "ops", Language: 15, Pin: 9999},
		&Visual{Brightness: 0, Verbosity: 1, Program: 15, Red: 1, Green: 2, Blue: 3},
	}
	for _, r := range records {
		if !r.Validate() {
			t.Fatalf("%v fixture is not valid", r.Kind())
		}
		got := New(r.Kind())
		got.Deserialize(NewCursor(encode(r)))
		if !bytes.Equal(encode(got), encode(r)) {
			t.Fatalf("%v: round trip changed the record", r.Kind())
		}
		if fields(got) != fields(r) {
			t.Fatalf("%v: got %s, want %s", r.Kind(), fields(got), fields(r))
		}
	}
}

func fields(r Record) string {
	var b bytes.Buffer
	r.VisitFields(func(name, value string) {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(value)
		b.WriteByte(' ')
	})
	return b.String()
}

func TestDeserialize_ClampsAudio(t *testing.T) {
	var audio Audio
	audio.Initialize()
	audio.Loudness = 200
	audio.Verbosity = 0xFF

	space := encode(&audio)
	audio.Deserialize(NewCursor(space))

	if audio.Loudness > 100 {
		t.Fatalf("loudness = %d, want <= 100", audio.Loudness)
	}
	if audio.Verbosity > 0x07 {
		t.Fatalf("verbosity = %d, want <= 7", audio.Verbosity)
	}
}

func TestDeserialize_AnyBytesYieldValidRecords(t *testing.T) {
	patterns := [][]byte{
		bytes.Repeat([]byte{0x00}, 64),
		bytes.Repeat([]byte{0xFF}, 64),
		bytes.Repeat([]byte{0x80}, 64),
		bytes.Repeat([]byte{0x7F}, 64),
	}
	// Deterministic pseudo-random fill.
	x := uint32(0x1234567)
	for n := 0; n < 32; n++ {
		p := make([]byte, 64)
		for i := range p {
			x = x*1664525 + 1013904223
			p[i] = byte(x >> 24)
		}
		patterns = append(patterns, p)
	}
	for _, k := range Kinds() {
		for i, p := range patterns {
			r := New(k)
			r.Deserialize(NewCursor(p))
			if !r.Validate() {
				t.Fatalf("%v: pattern %d produced invalid record %s", k, i, fields(r))
			}
		}
	}
}

func TestDeserialize_TextIsSanitised(t *testing.T) {
	raw := make([]byte, NameSize)
	copy(raw, []byte{'a', 0x01, 'b', 0xC3, 'c', 0x00, 'x', 'y'})
	var n Name
	n.Deserialize(NewCursor(raw))
	if n.Text != "a?b?c" {
		t.Fatalf("text = %q, want %q", n.Text, "a?b?c")
	}
	out := encode(&n)
	if out[6] != 0 || out[7] != 0 {
		t.Fatal("bytes after the terminator should be zeroed on re-encode")
	}
}

func TestDeserialize_ShortBufferReadsZero(t *testing.T) {
	var p Position
	c := NewCursor([]byte{0x01})
	p.Deserialize(c)
	if !c.Overrun() {
		t.Fatal("expected overrun on short buffer")
	}
	if p.Latitude != 1 || p.Longitude != 0 || p.Altitude != 0 {
		t.Fatalf("got %+v", p)
	}
}

func TestSetField(t *testing.T) {
	tests := []struct {
		kind    Kind
		field   string
		value   string
		wantErr error
	}{
		{KindAudioFeedback, "loudness", "80", nil},
		{KindAudioFeedback, "loudness", "101", ErrOutOfRange},
		{KindAudioFeedback, "verbosity", "8", ErrOutOfRange},
		{KindAudioFeedback, "volume", "1", ErrUnknownField},
		{KindAudioFeedback, "loudness", "loud", ErrBadValue},
		{KindFeatures, "flags", "0x21", nil},
		{KindFeatures, "flags", "0x40", ErrOutOfRange},
		{KindDeviceName, "text", "shed", nil},
		{KindDeviceName, "text", "tab\there", ErrTextInvalid},
		{KindSerialNumber, "text", "0123456789abcdefX", ErrTextTooLong},
		{KindPosition, "latitude", "-90000000", nil},
		{KindPosition, "latitude", "-90000001", ErrOutOfRange},
		{KindChargerCalibration, "current_offset", "-500", nil},
		{KindLoadCalibration, "gain", "5000", ErrOutOfRange},
		{KindMaintainer, "interval", "0", ErrOutOfRange},
		{KindUser, "pin", "1234", nil},
		{KindUniqueIdentifier, "value", "00112233445566778899aabbccddeeff", nil},
		{KindUniqueIdentifier, "value", "0011", ErrUIDFormat},
		{KindVisualFeedback, "blue", "256", ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.field+"="+tt.value, func(t *testing.T) {
			r := New(tt.kind)
			err := r.SetField(tt.field, tt.value)
			if err != tt.wantErr {
				t.Fatalf("SetField err = %v, want %v", err, tt.wantErr)
			}
			if !r.Validate() {
				t.Fatal("record invalid after SetField")
			}
		})
	}
}

func TestUID_Text(t *testing.T) {
	var u UID
	if err := u.UnmarshalText([]byte("00112233445566778899aabbccddeeff")); err != nil {
		t.Fatal(err)
	}
	b, _ := u.MarshalText()
	if string(b) != "00112233445566778899aabbccddeeff" {
		t.Fatalf("got %s", b)
	}
	if u.IsZero() {
		t.Fatal("uid should not be zero")
	}
	if err := u.UnmarshalText([]byte("zz112233445566778899aabbccddeeff")); err != ErrUIDFormat {
		t.Fatalf("err = %v, want ErrUIDFormat", err)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	a := &Audio{Loudness: 10}
	c := a.Clone().(*Audio)
	c.Loudness = 90
	if a.Loudness != 10 {
		t.Fatal("clone aliases the original")
	}
}

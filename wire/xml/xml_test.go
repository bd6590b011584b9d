package xml_test

import (
	"bytes"
	"errors"
	"testing"

	llsd "go.rtnl.ai/llsd"
	_ "go.rtnl.ai/llsd/wire/xml"
)

func roundTrip(t *testing.T, v llsd.Value, opts *llsd.Options) llsd.Value {
	t.Helper()
	var buf bytes.Buffer
	if err := llsd.Serialize(v, llsd.FormatXML, &buf, opts); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := llsd.ParseFormat(&buf, llsd.FormatXML, nil)
	if err != nil {
		t.Fatalf("ParseFormat(%q): %v", buf.String(), err)
	}
	return got
}

func TestRoundTripScalars(t *testing.T) {
	for _, tc := range []struct {
		name string
		v    llsd.Value
	}{
		{"undef", llsd.NewUndef()},
		{"true", llsd.NewBoolean(true)},
		{"false", llsd.NewBoolean(false)},
		{"zero integer", llsd.NewInteger(0)},
		{"integer", llsd.NewInteger(-42)},
		{"zero real", llsd.NewReal(0)},
		{"real", llsd.NewReal(3.14159)},
		{"uuid", llsd.NewUUID([16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})},
		{"date", llsd.NewDate(1700000000.5)},
		{"string", llsd.NewString("hello <world> & \"friends\"", true)},
		{"empty string", llsd.NewString("", true)},
		{"uri", llsd.NewURI("http://example.com/a?b=c", true)},
		{"binary", llsd.NewBinary([]byte{0xde, 0xad, 0xbe, 0xef}, true)},
		{"empty binary", llsd.NewBinary(nil, true)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := roundTrip(t, tc.v, nil)
			if !llsd.Equal(tc.v, got) {
				t.Fatalf("round trip mismatch: %#v -> %#v", tc.v, got)
			}
		})
	}
}

func TestRoundTripContainers(t *testing.T) {
	m := llsd.NewMapContainer()
	m.Insert("name", llsd.NewString("example", true))
	arr := llsd.NewArrayContainer()
	arr.Append(llsd.NewInteger(1))
	arr.Append(llsd.NewInteger(2))
	m.Insert("values", llsd.NewArrayFrom(arr))
	v := llsd.NewMapFrom(m)

	for _, pretty := range []bool{false, true} {
		got := roundTrip(t, v, &llsd.Options{Pretty: pretty})
		if !llsd.Equal(v, got) {
			t.Fatalf("pretty=%v: round trip mismatch", pretty)
		}
	}
}

func TestEmptyArrayAndMap(t *testing.T) {
	got := roundTrip(t, llsd.NewArray(), nil)
	if got.Type() != llsd.TypeArray {
		t.Fatalf("got type %s, want array", got.Type())
	}
	size, err := got.GetSize()
	if err != nil || size != 0 {
		t.Fatalf("GetSize = %d, %v; want 0, nil", size, err)
	}

	got = roundTrip(t, llsd.NewMap(), nil)
	if got.Type() != llsd.TypeMap {
		t.Fatalf("got type %s, want map", got.Type())
	}
	size, err = got.GetSize()
	if err != nil || size != 0 {
		t.Fatalf("GetSize = %d, %v; want 0, nil", size, err)
	}
}

// TestEmptyElementForms checks the empty-element output shorthand of
// spec §4.6.3 and the empty-container forms of §8 P8.
func TestEmptyElementForms(t *testing.T) {
	sig := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"
	for _, tc := range []struct {
		name string
		v    llsd.Value
		want string
	}{
		{"zero integer", llsd.NewInteger(0), "<llsd><integer/></llsd>"},
		{"zero real", llsd.NewReal(0), "<llsd><real/></llsd>"},
		{"empty string", llsd.NewString("", true), "<llsd><string/></llsd>"},
		{"empty binary", llsd.NewBinary(nil, true), "<llsd><binary/></llsd>"},
		{"empty array", llsd.NewArray(), "<llsd><array /></llsd>"},
		{"empty map", llsd.NewMap(), "<llsd><map /></llsd>"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := llsd.Serialize(tc.v, llsd.FormatXML, &buf, nil); err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			if got, want := buf.String(), sig+tc.want; got != want {
				t.Fatalf("serialized %q, want %q", got, want)
			}
		})
	}
}

// TestBinaryEncodingAttribute checks that the encoding a binary payload
// was parsed in survives to the serialized encoding= attribute.
func TestBinaryEncodingAttribute(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<llsd><binary encoding=\"base16\">DEADBEEF</binary></llsd>"
	v, err := llsd.ParseFormat(bytes.NewReader([]byte(doc)), llsd.FormatXML, nil)
	if err != nil {
		t.Fatalf("ParseFormat: %v", err)
	}
	var buf bytes.Buffer
	if err := llsd.Serialize(v, llsd.FormatXML, &buf, nil); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<llsd><binary encoding=\"base16\">DEADBEEF</binary></llsd>"
	if buf.String() != want {
		t.Fatalf("serialized %q, want %q", buf.String(), want)
	}
}

// TestScenarioS8 is spec §8 S8.
func TestScenarioS8(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<llsd><map><key>n</key><integer>7</integer></map></llsd>"
	got, err := llsd.ParseFormat(bytes.NewReader([]byte(doc)), llsd.FormatXML, nil)
	if err != nil {
		t.Fatalf("ParseFormat: %v", err)
	}
	m, err := llsd.AsMap(got)
	if err != nil {
		t.Fatalf("AsMap: %v", err)
	}
	n, ok := m.Find("n")
	if !ok {
		t.Fatal("missing key n")
	}
	i, err := llsd.AsInteger(n)
	if err != nil || i != 7 {
		t.Fatalf("AsInteger = %d, %v; want 7, nil", i, err)
	}
}

func TestDuplicateMapKeyRejected(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<llsd><map><key>a</key><integer>1</integer><key>a</key><integer>2</integer></map></llsd>"
	_, err := llsd.ParseFormat(bytes.NewReader([]byte(doc)), llsd.FormatXML, nil)
	if !errors.Is(err, llsd.ErrDuplicateKey) {
		t.Fatalf("err = %v, want ErrDuplicateKey", err)
	}
}

// TestTypoSignatureAccepted documents spec §9's quirk note: the
// original's malformed declaration (missing "=" after version) is
// accepted on input even though this package always emits the
// well-formed form.
func TestTypoSignatureAccepted(t *testing.T) {
	doc := `<?xml version"1.0" encoding="UTF-8"?>` + "\n<llsd><integer>5</integer></llsd>"
	got, err := llsd.ParseFormat(bytes.NewReader([]byte(doc)), llsd.FormatXML, nil)
	if err != nil {
		t.Fatalf("ParseFormat: %v", err)
	}
	i, err := llsd.AsInteger(got)
	if err != nil || i != 5 {
		t.Fatalf("AsInteger = %d, %v; want 5, nil", i, err)
	}
}

package notation_test

import (
	"bytes"
	"errors"
	"testing"

	llsd "go.rtnl.ai/llsd"
	_ "go.rtnl.ai/llsd/wire/notation"
)

func roundTrip(t *testing.T, v llsd.Value, opts *llsd.Options) llsd.Value {
	t.Helper()
	var buf bytes.Buffer
	if err := llsd.Serialize(v, llsd.FormatNotation, &buf, opts); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := llsd.ParseFormat(&buf, llsd.FormatNotation, nil)
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
		{"integer", llsd.NewInteger(-17)},
		{"real", llsd.NewReal(2.5)},
		{"uuid", llsd.NewUUID([16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})},
		{"date", llsd.NewDate(1700000000)},
		{"string", llsd.NewString(`has "quotes" and \backslash`, true)},
		{"uri", llsd.NewURI("http://example.com/a?b=c", true)},
		{"binary", llsd.NewBinary([]byte{0x00, 0x01, 0xff}, true)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := roundTrip(t, tc.v, nil)
			if !llsd.Equal(tc.v, got) {
				t.Fatalf("round trip mismatch: %#v -> %#v", tc.v, got)
			}
		})
	}
}

func TestRoundTripPretty(t *testing.T) {
	m := llsd.NewMapContainer()
	m.Insert("name", llsd.NewString("example", true))
	arr := llsd.NewArrayContainer()
	arr.Append(llsd.NewInteger(1))
	arr.Append(llsd.NewInteger(2))
	m.Insert("values", llsd.NewArrayFrom(arr))
	v := llsd.NewMapFrom(m)

	got := roundTrip(t, v, &llsd.Options{Pretty: true})
	if !llsd.Equal(v, got) {
		t.Fatalf("pretty round trip mismatch")
	}
}

// TestScenarioS5 is spec §8 S5.
func TestScenarioS5(t *testing.T) {
	got, err := llsd.ParseFormat(bytes.NewReader([]byte("<?llsd/notation?>\ni42")), llsd.FormatNotation, nil)
	if err != nil {
		t.Fatalf("ParseFormat: %v", err)
	}
	if !llsd.Equal(got, llsd.NewInteger(42)) {
		t.Fatalf("got %#v, want integer(42)", got)
	}
}

// TestBinaryEncodingPreserved checks the round-trip note of spec §4.6.2:
// a binary parsed from a b16 literal serializes back as b16, a raw
// b(N) literal stays raw, and base85 input is downgraded to the raw
// literal form since not every notation reader accepts b85.
func TestBinaryEncodingPreserved(t *testing.T) {
	for _, tc := range []struct {
		name  string
		doc   string
		want  string
		value []byte
	}{
		{"base16 stays base16", `b16"DEADBEEF"`, `b16"DEADBEEF"`, []byte{0xde, 0xad, 0xbe, 0xef}},
		{"base64 stays base64", `b64"AAEC"`, `b64"AAEC"`, []byte{0, 1, 2}},
		{"raw stays raw", "b(3)\"abc\"", "b(3)\"abc\"", []byte("abc")},
		{"base85 downgrades to raw", `b85"z"`, "b(4)\"\x00\x00\x00\x00\"", []byte{0, 0, 0, 0}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v, err := llsd.ParseFormat(bytes.NewReader([]byte("<?llsd/notation?>\n"+tc.doc)), llsd.FormatNotation, nil)
			if err != nil {
				t.Fatalf("ParseFormat: %v", err)
			}
			data, err := llsd.AsBinary(v)
			if err != nil || !bytes.Equal(data, tc.value) {
				t.Fatalf("AsBinary = %x, %v; want %x", data, err, tc.value)
			}
			var buf bytes.Buffer
			if err := llsd.Serialize(v, llsd.FormatNotation, &buf, nil); err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			if got, want := buf.String(), "<?llsd/notation?>\n"+tc.want; got != want {
				t.Fatalf("serialized %q, want %q", got, want)
			}
		})
	}
}

func TestDuplicateMapKeyRejected(t *testing.T) {
	doc := "<?llsd/notation?>\n{'a':i1, 'a':i2}"
	_, err := llsd.ParseFormat(bytes.NewReader([]byte(doc)), llsd.FormatNotation, nil)
	if !errors.Is(err, llsd.ErrDuplicateKey) {
		t.Fatalf("err = %v, want ErrDuplicateKey", err)
	}
}

func TestMapKeysMustBeQuoted(t *testing.T) {
	_, err := llsd.ParseFormat(bytes.NewReader([]byte("<?llsd/notation?>\n{i1:i2}")), llsd.FormatNotation, nil)
	if err == nil {
		t.Fatal("expected error for unquoted map key")
	}
}

func TestEmptyContainers(t *testing.T) {
	var buf bytes.Buffer
	if err := llsd.Serialize(llsd.NewArray(), llsd.FormatNotation, &buf, nil); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if got, want := buf.String(), "<?llsd/notation?>\n[]"; got != want {
		t.Fatalf("empty array = %q, want %q", got, want)
	}

	buf.Reset()
	if err := llsd.Serialize(llsd.NewMap(), llsd.FormatNotation, &buf, nil); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if got, want := buf.String(), "<?llsd/notation?>\n{}"; got != want {
		t.Fatalf("empty map = %q, want %q", got, want)
	}
}

func TestTrailingComma(t *testing.T) {
	got, err := llsd.ParseFormat(bytes.NewReader([]byte(`<?llsd/notation?>` + "\n" + `[i1, i2, ]`)), llsd.FormatNotation, nil)
	if err != nil {
		t.Fatalf("ParseFormat: %v", err)
	}
	arr, err := llsd.AsArray(got)
	if err != nil {
		t.Fatalf("AsArray: %v", err)
	}
	if arr.Len() != 2 {
		t.Fatalf("len = %d, want 2", arr.Len())
	}
}

package binary_test

import (
	"bytes"
	"errors"
	"testing"

	llsd "go.rtnl.ai/llsd"
	_ "go.rtnl.ai/llsd/wire/binary"
)

func roundTrip(t *testing.T, v llsd.Value) llsd.Value {
	t.Helper()
	var buf bytes.Buffer
	if err := llsd.Serialize(v, llsd.FormatBinary, &buf, nil); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := llsd.ParseFormat(&buf, llsd.FormatBinary, nil)
	if err != nil {
		t.Fatalf("ParseFormat: %v", err)
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
		{"integer", llsd.NewInteger(-42)},
		{"real", llsd.NewReal(3.14159)},
		{"uuid", llsd.NewUUID([16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})},
		{"date", llsd.NewDate(1700000000.5)},
		{"string", llsd.NewString("hello, world", true)},
		{"uri", llsd.NewURI("http://example.com/a?b=c", true)},
		{"binary", llsd.NewBinary([]byte{0xde, 0xad, 0xbe, 0xef}, true)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := roundTrip(t, tc.v)
			if !llsd.Equal(tc.v, got) {
				t.Fatalf("round trip mismatch: %#v -> %#v", tc.v, got)
			}
		})
	}
}

func TestRoundTripContainers(t *testing.T) {
	arr := llsd.NewArrayContainer()
	arr.Append(llsd.NewInteger(1))
	arr.Append(llsd.NewString("two", true))
	arr.Append(llsd.NewBoolean(true))
	v := llsd.NewArrayFrom(arr)

	got := roundTrip(t, v)
	if !llsd.Equal(v, got) {
		t.Fatalf("array round trip mismatch")
	}

	m := llsd.NewMapContainer()
	m.Insert("a", llsd.NewInteger(1))
	m.Insert("b", llsd.NewArrayFrom(arr))
	mv := llsd.NewMapFrom(m)

	got = roundTrip(t, mv)
	if !llsd.Equal(mv, got) {
		t.Fatalf("map round trip mismatch")
	}
}

// TestParseScenarios covers the binary rows of spec §8's end-to-end
// table: known byte streams and the values they decode to.
func TestParseScenarios(t *testing.T) {
	sig := "<? LLSD/Binary ?>\n"
	for _, tc := range []struct {
		name  string
		input string
		check func(t *testing.T, v llsd.Value)
	}{
		{"integer one", sig + "i\x00\x00\x00\x01", func(t *testing.T, v llsd.Value) {
			if !llsd.Equal(v, llsd.NewInteger(1)) {
				t.Fatalf("got %#v, want integer(1)", v)
			}
		}},
		{"real one", sig + "r\x3f\xf0\x00\x00\x00\x00\x00\x00", func(t *testing.T, v llsd.Value) {
			if !llsd.Equal(v, llsd.NewReal(1.0)) {
				t.Fatalf("got %#v, want real(1.0)", v)
			}
		}},
		{"hello world", sig + "s\x00\x00\x00\x0cHello World!", func(t *testing.T, v llsd.Value) {
			if !llsd.Equal(v, llsd.NewString("Hello World!", true)) {
				t.Fatalf("got %#v, want string", v)
			}
		}},
		{"array of two", sig + "[\x00\x00\x00\x02i\x00\x00\x00\x01i\x00\x00\x00\x02]", func(t *testing.T, v llsd.Value) {
			arr, err := llsd.AsArray(v)
			if err != nil {
				t.Fatalf("AsArray: %v", err)
			}
			if arr.Len() != 2 {
				t.Fatalf("len = %d, want 2", arr.Len())
			}
			if !llsd.Equal(arr.At(0), llsd.NewInteger(1)) || !llsd.Equal(arr.At(1), llsd.NewInteger(2)) {
				t.Fatal("element mismatch")
			}
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v, err := llsd.ParseFormat(bytes.NewReader([]byte(tc.input)), llsd.FormatBinary, nil)
			if err != nil {
				t.Fatalf("ParseFormat: %v", err)
			}
			tc.check(t, v)
		})
	}
}

// TestByteExactRoundTrip is spec §8 P1: serialize∘parse is the identity
// on the byte stream for the binary format.
func TestByteExactRoundTrip(t *testing.T) {
	m := llsd.NewMapContainer()
	m.Insert("id", llsd.NewUUID([16]byte{9, 8, 7, 6, 5, 4, 3, 2, 1, 0, 1, 2, 3, 4, 5, 6}))
	m.Insert("count", llsd.NewInteger(3))
	arr := llsd.NewArrayContainer()
	arr.Append(llsd.NewReal(0.5))
	arr.Append(llsd.NewBinary([]byte{1, 2, 3}, true))
	arr.Append(llsd.NewUndef())
	m.Insert("items", llsd.NewArrayFrom(arr))

	var first bytes.Buffer
	if err := llsd.Serialize(llsd.NewMapFrom(m), llsd.FormatBinary, &first, nil); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	v, err := llsd.ParseFormat(bytes.NewReader(first.Bytes()), llsd.FormatBinary, nil)
	if err != nil {
		t.Fatalf("ParseFormat: %v", err)
	}
	var second bytes.Buffer
	if err := llsd.Serialize(v, llsd.FormatBinary, &second, nil); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("byte streams differ:\n%x\n%x", first.Bytes(), second.Bytes())
	}
}

// TestEmptyContainerBytes is spec §8 P8's binary column.
func TestEmptyContainerBytes(t *testing.T) {
	sig := "<? LLSD/Binary ?>\n"

	var buf bytes.Buffer
	if err := llsd.Serialize(llsd.NewArray(), llsd.FormatBinary, &buf, nil); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if got, want := buf.String(), sig+"[\x00\x00\x00\x00]"; got != want {
		t.Fatalf("empty array = %q, want %q", got, want)
	}

	buf.Reset()
	if err := llsd.Serialize(llsd.NewMap(), llsd.FormatBinary, &buf, nil); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if got, want := buf.String(), sig+"{\x00\x00\x00\x00}"; got != want {
		t.Fatalf("empty map = %q, want %q", got, want)
	}
}

func TestDuplicateMapKeyRejected(t *testing.T) {
	input := "<? LLSD/Binary ?>\n" +
		"{\x00\x00\x00\x02" +
		"s\x00\x00\x00\x01a" + "i\x00\x00\x00\x01" +
		"s\x00\x00\x00\x01a" + "i\x00\x00\x00\x02" +
		"}"
	_, err := llsd.ParseFormat(bytes.NewReader([]byte(input)), llsd.FormatBinary, nil)
	if !errors.Is(err, llsd.ErrDuplicateKey) {
		t.Fatalf("err = %v, want ErrDuplicateKey", err)
	}
}

func TestTrailingDataRejected(t *testing.T) {
	input := "<? LLSD/Binary ?>\ni\x00\x00\x00\x01!"
	_, err := llsd.ParseFormat(bytes.NewReader([]byte(input)), llsd.FormatBinary, nil)
	if err == nil {
		t.Fatal("expected error for trailing byte after value")
	}
}

func TestBadSignature(t *testing.T) {
	_, err := llsd.ParseFormat(bytes.NewReader([]byte("not llsd at all....")), llsd.FormatBinary, nil)
	if err == nil {
		t.Fatal("expected error for bad signature")
	}
}

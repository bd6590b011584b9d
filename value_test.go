package llsd_test

import (
	"testing"

	llsd "go.rtnl.ai/llsd"
)

func TestTypeString(t *testing.T) {
	for _, tc := range []struct {
		typ  llsd.Type
		want string
	}{
		{llsd.TypeUndef, "undef"},
		{llsd.TypeBoolean, "boolean"},
		{llsd.TypeInteger, "integer"},
		{llsd.TypeReal, "real"},
		{llsd.TypeUUID, "uuid"},
		{llsd.TypeString, "string"},
		{llsd.TypeDate, "date"},
		{llsd.TypeURI, "uri"},
		{llsd.TypeBinary, "binary"},
		{llsd.TypeArray, "array"},
		{llsd.TypeMap, "map"},
		{llsd.Type(999), "unknown"},
	} {
		if got := tc.typ.String(); got != tc.want {
			t.Errorf("Type(%d).String() = %q, want %q", tc.typ, got, tc.want)
		}
	}
}

func TestCanonicalSingletons(t *testing.T) {
	if !llsd.Undef.IsUndef() {
		t.Error("Undef.IsUndef() = false")
	}
	if llsd.True.Type() != llsd.TypeBoolean {
		t.Error("True is not boolean")
	}
	b, err := llsd.AsBool(llsd.True)
	if err != nil || !b {
		t.Errorf("AsBool(True) = %v, %v; want true, nil", b, err)
	}
	b, err = llsd.AsBool(llsd.False)
	if err != nil || b {
		t.Errorf("AsBool(False) = %v, %v; want false, nil", b, err)
	}
	s, err := llsd.AsString(llsd.EmptyString)
	if err != nil || s != "" {
		t.Errorf("AsString(EmptyString) = %q, %v; want \"\", nil", s, err)
	}
}

func TestNewUUIDFromString(t *testing.T) {
	v, err := llsd.NewUUIDFromString("01020304-0506-0708-0900-010203040506")
	if err != nil {
		t.Fatalf("NewUUIDFromString: %v", err)
	}
	if v.Type() != llsd.TypeUUID {
		t.Fatalf("Type() = %s, want uuid", v.Type())
	}

	if _, err := llsd.NewUUIDFromString("not-a-uuid"); err == nil {
		t.Fatal("expected error for malformed uuid string")
	}
}

func TestArrayAccessorPanicsOnWrongType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Array() on non-array value did not panic")
		}
	}()
	llsd.NewInteger(1).Array()
}

func TestMapAccessorPanicsOnWrongType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Map() on non-map value did not panic")
		}
	}()
	llsd.NewInteger(1).Map()
}

func TestGetSize(t *testing.T) {
	arr := llsd.NewArrayContainer()
	arr.Append(llsd.NewInteger(1))
	arr.Append(llsd.NewInteger(2))
	v := llsd.NewArrayFrom(arr)

	size, err := v.GetSize()
	if err != nil || size != 2 {
		t.Fatalf("GetSize() = %d, %v; want 2, nil", size, err)
	}

	if _, err := llsd.NewInteger(1).GetSize(); err == nil {
		t.Fatal("expected ErrNotContainer for scalar GetSize()")
	}
}

func TestBinaryEncodingRecorded(t *testing.T) {
	v := llsd.NewBinary([]byte{1}, true)
	if v.BinaryEncoding() != llsd.EncodingBase64 {
		t.Errorf("NewBinary encoding = %s, want base64", v.BinaryEncoding())
	}
	v = llsd.NewBinaryEncoded([]byte{1}, llsd.EncodingBase16, true)
	if v.BinaryEncoding() != llsd.EncodingBase16 {
		t.Errorf("NewBinaryEncoded encoding = %s, want base16", v.BinaryEncoding())
	}
}

func TestNewStringOwnFlag(t *testing.T) {
	buf := []byte("hello")
	v := llsd.NewString(string(buf), false)
	s, err := llsd.AsString(v)
	if err != nil || s != "hello" {
		t.Fatalf("AsString() = %q, %v; want hello, nil", s, err)
	}
}

package llsd_test

import (
	"testing"

	llsd "go.rtnl.ai/llsd"
)

func TestEqualScalars(t *testing.T) {
	for _, tc := range []struct {
		name  string
		a, b  llsd.Value
		equal bool
	}{
		{"undef == undef", llsd.NewUndef(), llsd.NewUndef(), true},
		{"true == true", llsd.NewBoolean(true), llsd.NewBoolean(true), true},
		{"true != false", llsd.NewBoolean(true), llsd.NewBoolean(false), false},
		{"integer == integer", llsd.NewInteger(5), llsd.NewInteger(5), true},
		{"integer != integer", llsd.NewInteger(5), llsd.NewInteger(6), false},
		{"integer != real", llsd.NewInteger(5), llsd.NewReal(5), false},
		{"string == string", llsd.NewString("a", true), llsd.NewString("a", true), true},
		{"string != string", llsd.NewString("a", true), llsd.NewString("b", true), false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := llsd.Equal(tc.a, tc.b); got != tc.equal {
				t.Errorf("Equal(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.equal)
			}
		})
	}
}

func TestEqualArraysOrderSensitive(t *testing.T) {
	a := llsd.NewArrayContainer()
	a.Append(llsd.NewInteger(1))
	a.Append(llsd.NewInteger(2))

	b := llsd.NewArrayContainer()
	b.Append(llsd.NewInteger(2))
	b.Append(llsd.NewInteger(1))

	if llsd.Equal(llsd.NewArrayFrom(a), llsd.NewArrayFrom(b)) {
		t.Error("arrays with different element order compared equal")
	}

	c := llsd.NewArrayContainer()
	c.Append(llsd.NewInteger(1))
	c.Append(llsd.NewInteger(2))
	if !llsd.Equal(llsd.NewArrayFrom(a), llsd.NewArrayFrom(c)) {
		t.Error("identical arrays compared unequal")
	}
}

// TestEqualMapsOrderIndependent is spec §4.2: maps compare key-by-key
// regardless of insertion order.
func TestEqualMapsOrderIndependent(t *testing.T) {
	a := llsd.NewMapContainer()
	a.Insert("x", llsd.NewInteger(1))
	a.Insert("y", llsd.NewInteger(2))

	b := llsd.NewMapContainer()
	b.Insert("y", llsd.NewInteger(2))
	b.Insert("x", llsd.NewInteger(1))

	if !llsd.Equal(llsd.NewMapFrom(a), llsd.NewMapFrom(b)) {
		t.Error("maps with same bindings in different order compared unequal")
	}

	b.Insert("x", llsd.NewInteger(99))
	if llsd.Equal(llsd.NewMapFrom(a), llsd.NewMapFrom(b)) {
		t.Error("maps with differing values compared equal")
	}
}

func TestEqualMapsDifferentSize(t *testing.T) {
	a := llsd.NewMapContainer()
	a.Insert("x", llsd.NewInteger(1))

	b := llsd.NewMapContainer()
	b.Insert("x", llsd.NewInteger(1))
	b.Insert("y", llsd.NewInteger(2))

	if llsd.Equal(llsd.NewMapFrom(a), llsd.NewMapFrom(b)) {
		t.Error("maps of different size compared equal")
	}
}

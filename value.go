// Copyright 2025 Rotational Labs
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package llsd implements a codec for LLSD, the tagged-value data model
// used by virtual-world middleware: a recursive sum of scalars (undef,
// boolean, integer, real, uuid, string, date, uri, binary) plus two
// containers (ordered array, ordered string-keyed map), translatable to
// and from four wire formats (binary, notation, XML, JSON).
//
// The package is organized the way the teacher library organizes a
// self-describing value type: a tagged struct with typed constructors
// (value.go), a shared event interface the parsers and serializers both
// speak (event.go), a state machine that synthesizes container
// begin/end events for formats that don't emit them directly (state.go),
// and a generic driver that walks a Value and replays it onto that event
// interface (driver.go). The four wire formats live in the wire/
// subpackages and register themselves with this package at init time.
package llsd

import (
	"fmt"

	"github.com/google/uuid"
)

// Type is the discriminator tag of a Value (§3.1).
type Type int

const (
	TypeUndef Type = iota
	TypeBoolean
	TypeInteger
	TypeReal
	TypeUUID
	TypeString
	TypeDate
	TypeURI
	TypeBinary
	TypeArray
	TypeMap
)

func (t Type) String() string {
	switch t {
	case TypeUndef:
		return "undef"
	case TypeBoolean:
		return "boolean"
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	case TypeUUID:
		return "uuid"
	case TypeString:
		return "string"
	case TypeDate:
		return "date"
	case TypeURI:
		return "uri"
	case TypeBinary:
		return "binary"
	case TypeArray:
		return "array"
	case TypeMap:
		return "map"
	default:
		return "unknown"
	}
}

// Kind mirrors Type but is the vocabulary the push-parser state machine
// (state.go) validates placement against; kept as a distinct name because
// the state machine cares about "what kind of event is this" independent
// of whether the caller already has a constructed Value in hand (a format
// parser announces a Kind before it has fully read the payload).
type Kind = Type

// Value is the tagged sum described in spec §3.1. It is a small value
// type (copied by assignment like the teacher's ULID array); Array and
// Map payloads are held by reference since containers are mutable and
// exclusively own their elements (§3.3).
//
// Scalars are held in their decoded native form (16 raw UUID bytes, raw
// octets, f64 seconds); the encoded/escaped text forms are produced on
// demand by the accessors and wire drivers.
type Value struct {
	typ Type

	b bool
	i int32
	r float64
	u uuid.UUID
	d float64 // seconds since Unix epoch

	// raw payload shared by string, uri and binary
	raw []byte

	// binEnc records which textual encoding (§4.1) a binary value was
	// last read in, so the notation serializer can round-trip it in the
	// same encoding rather than always normalizing to one choice
	// (spec §4.6.2 "Round-trip note").
	binEnc Encoding

	arr *Array
	m   *Map
}

// Encoding names the textual carrier a binary payload was parsed from or
// should be serialized with by formats that support a choice (notation,
// XML's encoding= attribute).
type Encoding int

const (
	EncodingBase64 Encoding = iota
	EncodingBase16
	EncodingBase85
	EncodingRaw // notation's b(N)"..." literal-octet form
)

func (e Encoding) String() string {
	switch e {
	case EncodingBase16:
		return "base16"
	case EncodingBase85:
		return "base85"
	case EncodingRaw:
		return "raw"
	default:
		return "base64"
	}
}

// Canonical singleton values (spec §9 supplement, grounded in the
// original's llsd_const.c). Value is a plain struct so these are safe to
// hand out by copy; there's no shared mutable state to alias.
var (
	Undef       = Value{typ: TypeUndef}
	True        = Value{typ: TypeBoolean, b: true}
	False       = Value{typ: TypeBoolean, b: false}
	EmptyString = Value{typ: TypeString, raw: []byte{}}
	ZeroUUID    = Value{typ: TypeUUID}
	ZeroInteger = Value{typ: TypeInteger}
	ZeroReal    = Value{typ: TypeReal}
)

// NewUndef returns the undef value.
func NewUndef() Value { return Value{typ: TypeUndef} }

// NewBoolean returns a boolean value.
func NewBoolean(b bool) Value { return Value{typ: TypeBoolean, b: b} }

// NewInteger returns an integer value.
func NewInteger(i int32) Value { return Value{typ: TypeInteger, i: i} }

// NewReal returns a real value.
func NewReal(r float64) Value { return Value{typ: TypeReal, r: r} }

// NewUUID returns a uuid value from 16 raw bytes.
func NewUUID(bs [16]byte) Value { return Value{typ: TypeUUID, u: uuid.UUID(bs)} }

// NewUUIDFromString parses a canonical 36-character UUID string.
func NewUUIDFromString(s string) (Value, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrBadUUID, err)
	}
	return Value{typ: TypeUUID, u: id}, nil
}

// NewString returns a string value. The own flag mirrors the source's
// bulk-constructor "own-it" parameter (§3.3): when true, buf is adopted
// without copying; when false, buf is copied so the caller may reuse it.
func NewString(s string, own bool) Value {
	return Value{typ: TypeString, raw: adopt([]byte(s), own)}
}

// NewDate returns a date value: seconds since the Unix epoch, as a
// float64 for sub-second precision (§3.1).
func NewDate(seconds float64) Value { return Value{typ: TypeDate, d: seconds} }

// NewURI returns a uri value.
func NewURI(s string, own bool) Value {
	return Value{typ: TypeURI, raw: adopt([]byte(s), own)}
}

// NewBinary returns a binary value over an opaque octet buffer. Its
// textual carrier defaults to base64 when a format has to choose one.
func NewBinary(data []byte, own bool) Value {
	return Value{typ: TypeBinary, raw: adopt(data, own)}
}

// NewBinaryEncoded is NewBinary plus a record of the textual encoding the
// payload was read in, so formats that can choose (notation, XML) re-emit
// the value the way it arrived (spec §4.6.2 "Round-trip note"). Parsers
// use this; most callers want NewBinary.
func NewBinaryEncoded(data []byte, enc Encoding, own bool) Value {
	return Value{typ: TypeBinary, raw: adopt(data, own), binEnc: enc}
}

// NewArray returns an empty array value.
func NewArray() Value { return Value{typ: TypeArray, arr: NewArrayContainer()} }

// NewArrayFrom wraps an existing Array container (ownership transfers to
// the Value, as with every container constructor in this package).
func NewArrayFrom(a *Array) Value { return Value{typ: TypeArray, arr: a} }

// NewMap returns an empty map value.
func NewMap() Value { return Value{typ: TypeMap, m: NewMapContainer()} }

// NewMapFrom wraps an existing Map container.
func NewMapFrom(m *Map) Value { return Value{typ: TypeMap, m: m} }

func adopt(buf []byte, own bool) []byte {
	if own {
		return buf
	}
	cp := make([]byte, len(buf))
	copy(cp, buf)
	return cp
}

// Type returns the value's variant tag.
func (v Value) Type() Type { return v.typ }

// IsUndef reports whether v is the undef variant.
func (v Value) IsUndef() bool { return v.typ == TypeUndef }

// Array returns the underlying array container. Panics (an internal
// invariant violation, not a caller-facing error) if v is not an array;
// callers should check Type() first or use AsArray.
func (v Value) Array() *Array {
	if v.typ != TypeArray {
		panic("llsd: Array() called on non-array value")
	}
	return v.arr
}

// Map returns the underlying map container. Panics if v is not a map;
// see Array's note.
func (v Value) Map() *Map {
	if v.typ != TypeMap {
		panic("llsd: Map() called on non-map value")
	}
	return v.m
}

// BinaryEncoding returns the textual encoding a binary value was parsed
// from (base64 for values built with NewBinary). Meaningful only when
// Type() is TypeBinary.
func (v Value) BinaryEncoding() Encoding { return v.binEnc }

// GetSize returns a container's element count. Fails with ErrNotContainer
// on a scalar value (spec §4.2).
func (v Value) GetSize() (int, error) {
	switch v.typ {
	case TypeArray:
		return v.arr.Len(), nil
	case TypeMap:
		return v.m.Len(), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrNotContainer, v.typ)
	}
}

// rawString returns the raw octet form of a string/uri/binary value as a
// string, without copying.
func (v Value) rawString() string { return string(v.raw) }

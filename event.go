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

package llsd

// Sink is the 19-callback SAX contract of spec §4.4: the common boundary
// between a format parser and a value builder, and between the generic
// serialization driver (driver.go) and a format's byte writer. Every
// method returns an error; a non-nil return aborts the enclosing parse or
// serialize immediately with that error (spec §7 kind 5).
//
// The canonical event sequence for any value, scalar or container, is:
//
//	value = scalar | array | map
//	scalar = Undef | Boolean | Integer | Real | UUID
//	       | String | Date | URI | Binary
//	array  = ArrayBegin, {ArrayValueBegin, value, ArrayValueEnd}, ArrayEnd
//	map    = MapBegin, {MapKeyBegin, String, MapKeyEnd,
//	                     MapValueBegin, value, MapValueEnd}, MapEnd
//
// hint on ArrayBegin/MapBegin is the element count if known up front
// (always known for binary/notation, zero for XML/JSON); implementations
// must not rely on it for correctness, only as a preallocation hint.
type Sink interface {
	Undef() error
	Boolean(b bool) error
	Integer(i int32) error
	Real(r float64) error
	UUID(bs [16]byte) error
	String(s string) error
	Date(seconds float64) error
	URI(s string) error

	// Binary carries an opaque octet payload plus the textual encoding it
	// was read in (or should be written with, on the serialize side). The
	// hint lets the notation driver re-emit a binary in the encoding it
	// arrived in (spec §4.6.2 "Round-trip note"); sinks that don't care
	// ignore it.
	Binary(data []byte, enc Encoding) error

	ArrayBegin(hint int) error
	ArrayValueBegin() error
	ArrayValueEnd() error
	ArrayEnd(size int) error

	MapBegin(hint int) error
	MapKeyBegin() error
	MapKeyEnd() error
	MapValueBegin() error
	MapValueEnd() error
	MapEnd(size int) error
}

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

import "fmt"

// Walk is the generic serialization driver of spec §4.7: a recursive walk
// of v that calls the matching Sink method for a scalar, or brackets a
// container's elements with the Begin/ValueBegin/ValueEnd/End sequence.
// It is format-independent — every wire format's serializer is just a
// Sink implementation that Walk drives — and it is the exact inverse of
// the PushParser (state.go) replaying the same 19-event contract from
// the opposite direction.
func Walk(v Value, sink Sink) error {
	switch v.typ {
	case TypeUndef:
		return sink.Undef()
	case TypeBoolean:
		return sink.Boolean(v.b)
	case TypeInteger:
		return sink.Integer(v.i)
	case TypeReal:
		return sink.Real(v.r)
	case TypeUUID:
		return sink.UUID(v.u)
	case TypeString:
		return sink.String(v.rawString())
	case TypeDate:
		return sink.Date(v.d)
	case TypeURI:
		return sink.URI(v.rawString())
	case TypeBinary:
		return sink.Binary(v.raw, v.binEnc)
	case TypeArray:
		return walkArray(v.arr, sink)
	case TypeMap:
		return walkMap(v.m, sink)
	default:
		return fmt.Errorf("%w: unknown value type %d", ErrType, v.typ)
	}
}

func walkArray(a *Array, sink Sink) error {
	if err := sink.ArrayBegin(a.Len()); err != nil {
		return err
	}
	var walkErr error
	a.Each(func(_ int, elem Value) bool {
		if err := sink.ArrayValueBegin(); err != nil {
			walkErr = err
			return false
		}
		if err := Walk(elem, sink); err != nil {
			walkErr = err
			return false
		}
		if err := sink.ArrayValueEnd(); err != nil {
			walkErr = err
			return false
		}
		return true
	})
	if walkErr != nil {
		return walkErr
	}
	return sink.ArrayEnd(a.Len())
}

func walkMap(m *Map, sink Sink) error {
	if err := sink.MapBegin(m.Len()); err != nil {
		return err
	}
	var walkErr error
	m.Each(func(key string, val Value) bool {
		if err := sink.MapKeyBegin(); err != nil {
			walkErr = err
			return false
		}
		if err := sink.String(key); err != nil {
			walkErr = err
			return false
		}
		if err := sink.MapKeyEnd(); err != nil {
			walkErr = err
			return false
		}
		if err := sink.MapValueBegin(); err != nil {
			walkErr = err
			return false
		}
		if err := Walk(val, sink); err != nil {
			walkErr = err
			return false
		}
		if err := sink.MapValueEnd(); err != nil {
			walkErr = err
			return false
		}
		return true
	})
	if walkErr != nil {
		return walkErr
	}
	return sink.MapEnd(m.Len())
}

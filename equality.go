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

import "bytes"

// Equal implements the deep-equality relation of spec §4.2: equal iff the
// variant tags match and the logical values match. Containers compare
// structurally — arrays element-wise in order, maps key-by-key
// independent of order — rather than by identity.
func Equal(a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case TypeUndef:
		return true
	case TypeBoolean:
		return a.b == b.b
	case TypeInteger:
		return a.i == b.i
	case TypeReal:
		return a.r == b.r
	case TypeUUID:
		return a.u == b.u
	case TypeDate:
		return a.d == b.d
	case TypeString, TypeURI, TypeBinary:
		// "Equalize": compare decoded octets directly, which is already
		// the form raw holds, so no normalization step is needed here.
		return bytes.Equal(a.raw, b.raw)
	case TypeArray:
		return arrayEqual(a.arr, b.arr)
	case TypeMap:
		return mapEqual(a.m, b.m)
	default:
		return false
	}
}

func arrayEqual(a, b *Array) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !Equal(a.At(i), b.At(i)) {
			return false
		}
	}
	return true
}

func mapEqual(a, b *Map) bool {
	if a.Len() != b.Len() {
		return false
	}
	equal := true
	a.Each(func(key string, v Value) bool {
		bv, ok := b.Find(key)
		if !ok || !Equal(v, bv) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

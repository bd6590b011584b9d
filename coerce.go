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

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
)

// The As* family implements the coercion matrix of spec §4.2, grounded
// directly on the original's llsd_as_{bool,int,real,uuid,string,date,uri,
// binary} functions (original_source/src/llsd_util.c). Combinations the
// original marks FAIL (an assertion abort) are promoted here to ErrType
// returns at the public boundary, per the Design Notes' re-architecting
// guidance in spec §9.

// AsBool coerces v to a boolean.
func AsBool(v Value) (bool, error) {
	switch v.typ {
	case TypeUndef:
		return false, nil
	case TypeBoolean:
		return v.b, nil
	case TypeInteger:
		return v.i != 0, nil
	case TypeReal:
		return v.r != 0, nil
	case TypeUUID:
		return v.u != uuid.Nil, nil
	case TypeString, TypeBinary:
		return len(v.raw) > 0, nil
	default:
		return false, fmt.Errorf("%w: %s to boolean", ErrType, v.typ)
	}
}

// AsInteger coerces v to an int32, rounding reals to the nearest integer
// (lrint semantics: round half to even) and reinterpreting a binary
// payload's leading 4 bytes as a big-endian int32.
func AsInteger(v Value) (int32, error) {
	switch v.typ {
	case TypeUndef:
		return 0, nil
	case TypeBoolean:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case TypeInteger:
		return v.i, nil
	case TypeReal:
		if math.IsNaN(v.r) || math.IsInf(v.r, 0) {
			return 0, fmt.Errorf("%w: real is NaN or Inf", ErrType)
		}
		return int32(math.RoundToEven(v.r)), nil
	case TypeDate:
		return int32(int64(v.d)), nil
	case TypeString:
		n, _ := strconv.ParseInt(v.rawString(), 10, 32)
		return int32(n), nil
	case TypeBinary:
		if len(v.raw) < 4 {
			return 0, nil
		}
		return int32(binary.BigEndian.Uint32(v.raw[:4])), nil
	default:
		return 0, fmt.Errorf("%w: %s to integer", ErrType, v.typ)
	}
}

// AsReal coerces v to a float64, reinterpreting a binary payload's
// leading 8 bytes as big-endian IEEE-754.
func AsReal(v Value) (float64, error) {
	switch v.typ {
	case TypeUndef, TypeBoolean:
		if v.typ == TypeBoolean && v.b {
			return 1, nil
		}
		return 0, nil
	case TypeInteger:
		return float64(v.i), nil
	case TypeReal:
		return v.r, nil
	case TypeString:
		f, _ := strconv.ParseFloat(v.rawString(), 64)
		return f, nil
	case TypeDate:
		return v.d, nil
	case TypeBinary:
		if len(v.raw) < 8 {
			return 0, nil
		}
		bits := binary.BigEndian.Uint64(v.raw[:8])
		return math.Float64frombits(bits), nil
	default:
		return 0, fmt.Errorf("%w: %s to real", ErrType, v.typ)
	}
}

// AsUUID coerces v to its 16-byte raw form.
func AsUUID(v Value) ([16]byte, error) {
	switch v.typ {
	case TypeUUID:
		return v.u, nil
	case TypeBinary:
		if len(v.raw) < 16 {
			return [16]byte{}, nil
		}
		var out [16]byte
		copy(out[:], v.raw[:16])
		return out, nil
	case TypeString:
		id, err := uuid.Parse(v.rawString())
		if err != nil {
			return [16]byte{}, nil
		}
		return id, nil
	default:
		return [16]byte{}, fmt.Errorf("%w: %s to uuid", ErrType, v.typ)
	}
}

// AsString coerces v to its logical string form: decimal for integers,
// fixed-point with six decimal places for reals, canonical 36-character form
// for UUIDs, ISO-8601 for dates, and raw octets (not base64) for binary —
// binary-as-string treats the bytes as opaque text, matching the
// original's llsd_as_string.
func AsString(v Value) (string, error) {
	switch v.typ {
	case TypeUndef:
		return "", nil
	case TypeBoolean:
		if v.b {
			return "true", nil
		}
		return "false", nil
	case TypeInteger:
		return strconv.FormatInt(int64(v.i), 10), nil
	case TypeReal:
		return strconv.FormatFloat(v.r, 'f', 6, 64), nil
	case TypeUUID:
		return v.u.String(), nil
	case TypeString, TypeURI, TypeBinary:
		return v.rawString(), nil
	case TypeDate:
		return FormatDate(v.d), nil
	default:
		return "", fmt.Errorf("%w: %s to string", ErrType, v.typ)
	}
}

// AsDate coerces v to seconds-since-epoch.
func AsDate(v Value) (float64, error) {
	switch v.typ {
	case TypeInteger:
		return float64(v.i), nil
	case TypeReal:
		return v.r, nil
	case TypeString:
		d, err := ParseDate(v.rawString())
		if err != nil {
			return 0, nil
		}
		return d, nil
	case TypeDate:
		return v.d, nil
	default:
		return 0, fmt.Errorf("%w: %s to date", ErrType, v.typ)
	}
}

// AsURI coerces v to its logical URI string form.
func AsURI(v Value) (string, error) {
	switch v.typ {
	case TypeString, TypeURI, TypeBinary:
		return v.rawString(), nil
	default:
		return "", fmt.Errorf("%w: %s to uri", ErrType, v.typ)
	}
}

// AsBinary coerces v to an opaque octet buffer.
func AsBinary(v Value) ([]byte, error) {
	switch v.typ {
	case TypeBoolean:
		if v.b {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case TypeInteger:
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, uint32(v.i))
		return buf, nil
	case TypeReal:
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, math.Float64bits(v.r))
		return buf, nil
	case TypeUUID:
		bs := v.u
		return bs[:], nil
	case TypeString, TypeURI:
		return v.raw, nil
	case TypeBinary:
		return v.raw, nil
	default:
		return nil, fmt.Errorf("%w: %s to binary", ErrType, v.typ)
	}
}

// AsArray coerces v to its Array container; fails unless v is already an
// array (spec §4.2 lists no other source type).
func AsArray(v Value) (*Array, error) {
	if v.typ != TypeArray {
		return nil, fmt.Errorf("%w: %s to array", ErrType, v.typ)
	}
	return v.arr, nil
}

// AsMap coerces v to its Map container; fails unless v is already a map.
func AsMap(v Value) (*Map, error) {
	if v.typ != TypeMap {
		return nil, fmt.Errorf("%w: %s to map", ErrType, v.typ)
	}
	return v.m, nil
}

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

// Package base16 implements the Base16 (hex) codec of spec §4.1: an
// uppercase "0-9A-F" alphabet, two output characters per input octet,
// used by the notation and XML drivers to carry opaque octets as text.
package base16

import "errors"

// ErrBadLength occurs when Decode is given an odd number of characters.
var ErrBadLength = errors.New("base16: odd input length")

// ErrBadChar occurs when Decode sees a byte outside the hex alphabet.
var ErrBadChar = errors.New("base16: invalid character")

const alphabet = "0123456789ABCDEF"

// EncodedLen predicts the output length of Encode(make([]byte, n)).
func EncodedLen(n int) int { return n * 2 }

// Encode renders in as uppercase hex, two characters per input byte.
func Encode(in []byte) []byte {
	out := make([]byte, EncodedLen(len(in)))
	for i, b := range in {
		out[i*2] = alphabet[b>>4]
		out[i*2+1] = alphabet[b&0x0f]
	}
	return out
}

// DecodedLen predicts the output length of Decode(in), or an error if in
// cannot possibly be valid Base16 (odd length).
func DecodedLen(in []byte) (int, error) {
	if len(in)%2 != 0 {
		return 0, ErrBadLength
	}
	return len(in) / 2, nil
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

// Decode parses hex text, accepting both upper- and lowercase digits
// (spec §4.1: "Decoder accepts both cases"). It fails without writing
// any partial output if the length is odd or any byte isn't a hex digit.
func Decode(in []byte) ([]byte, error) {
	n, err := DecodedLen(in)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		hi, ok := hexVal(in[i*2])
		if !ok {
			return nil, ErrBadChar
		}
		lo, ok := hexVal(in[i*2+1])
		if !ok {
			return nil, ErrBadChar
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

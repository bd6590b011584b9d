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

// Package base64 implements the standard RFC 4648 Base64 codec of spec
// §4.1 ("+/" alphabet, "=" padding), matching encoding/base16 and
// encoding/base85's Encode/Decode/EncodedLen/DecodedLen signatures so
// the three wire-carrier codecs form one consistent trio rather than
// mixing a stdlib call in for one of the three.
package base64

import "errors"

// ErrBadLength occurs when Decode is given a length that isn't a
// multiple of 4.
var ErrBadLength = errors.New("base64: input length must be a multiple of 4")

// ErrBadChar occurs when Decode sees a byte outside the alphabet (other
// than trailing '=' padding).
var ErrBadChar = errors.New("base64: invalid character")

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var decodeTable [256]int8

func init() {
	for i := range decodeTable {
		decodeTable[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		decodeTable[alphabet[i]] = int8(i)
	}
}

// EncodedLen predicts the output length of Encode for n input bytes:
// four characters per three input octets, rounded up.
func EncodedLen(n int) int { return (n + 2) / 3 * 4 }

// Encode renders in as standard Base64, padding the final quartet with
// one or two '=' characters when len(in) mod 3 is 2 or 1 (spec §4.1).
func Encode(in []byte) []byte {
	out := make([]byte, EncodedLen(len(in)))
	oi := 0
	i := 0
	for ; i+3 <= len(in); i += 3 {
		n := uint32(in[i])<<16 | uint32(in[i+1])<<8 | uint32(in[i+2])
		out[oi] = alphabet[(n>>18)&0x3f]
		out[oi+1] = alphabet[(n>>12)&0x3f]
		out[oi+2] = alphabet[(n>>6)&0x3f]
		out[oi+3] = alphabet[n&0x3f]
		oi += 4
	}
	switch len(in) - i {
	case 1:
		n := uint32(in[i]) << 16
		out[oi] = alphabet[(n>>18)&0x3f]
		out[oi+1] = alphabet[(n>>12)&0x3f]
		out[oi+2] = '='
		out[oi+3] = '='
	case 2:
		n := uint32(in[i])<<16 | uint32(in[i+1])<<8
		out[oi] = alphabet[(n>>18)&0x3f]
		out[oi+1] = alphabet[(n>>12)&0x3f]
		out[oi+2] = alphabet[(n>>6)&0x3f]
		out[oi+3] = '='
	}
	return out
}

// DecodedLen predicts the output length of Decode(in), or an error if in
// cannot possibly be valid (length not a multiple of 4).
func DecodedLen(in []byte) (int, error) {
	if len(in) == 0 {
		return 0, nil
	}
	if len(in)%4 != 0 {
		return 0, ErrBadLength
	}
	n := len(in) / 4 * 3
	if in[len(in)-1] == '=' {
		n--
	}
	if in[len(in)-2] == '=' {
		n--
	}
	return n, nil
}

// Decode parses standard Base64 text. It fails without writing any
// partial output if the length isn't a multiple of 4 or any non-padding
// character falls outside the alphabet.
func Decode(in []byte) ([]byte, error) {
	n, err := DecodedLen(in)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	oi := 0
	for i := 0; i < len(in); i += 4 {
		var quad [4]byte
		pad := 0
		for j := 0; j < 4; j++ {
			c := in[i+j]
			if c == '=' {
				pad++
				quad[j] = 0
				continue
			}
			if pad > 0 {
				return nil, ErrBadChar // '=' may only trail the final quartet
			}
			v := decodeTable[c]
			if v < 0 {
				return nil, ErrBadChar
			}
			quad[j] = byte(v)
		}
		n32 := uint32(quad[0])<<18 | uint32(quad[1])<<12 | uint32(quad[2])<<6 | uint32(quad[3])
		b := [3]byte{byte(n32 >> 16), byte(n32 >> 8), byte(n32)}
		for j := 0; j < 3-pad && oi < len(out); j++ {
			out[oi] = b[j]
			oi++
		}
	}
	return out, nil
}

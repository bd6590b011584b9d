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

// Package base85 implements the Adobe/btoa Base85 variant of spec §4.1:
// alphabet '!'..'u' (ASCII 33..117), five output characters per four
// input octets, with 'z' and 'y' shorthands for an all-zero and
// all-space quartet respectively.
//
// The original C encoder (original_source/src/base85.c) applies the 'z'
// and 'y' shorthand to a *partial* final group too whenever its
// zero-padded bytes happen to be all-zero or all-space — a bug, since a
// decoder can't tell a genuine 4-byte zero group from a padded 1-byte
// zero group collapsed the same way. Spec §4.1 calls this out explicitly
// ("z/y may not appear inside a partial final group"); this
// implementation only applies the shorthand to full 4-byte groups.
package base85

import (
	"encoding/binary"
	"errors"
)

// ErrBadChar occurs when Decode sees a byte outside the '!'..'u' alphabet
// (or outside the z/y shorthands).
var ErrBadChar = errors.New("base85: invalid character")

// ErrBadLength occurs when a group of input characters can't correspond
// to any valid partial or full quintet (a lone trailing character).
var ErrBadLength = errors.New("base85: invalid group length")

const (
	minChar = '!' // 33
	maxChar = 'u' // 117
)

func inRange(c byte) bool { return c >= minChar && c <= maxChar }

// EncodedLen predicts the maximum output length of Encode for n input
// bytes, i.e. the length with no 'z'/'y' shorthand applied: five
// characters per full quartet, plus (remainder+1) for a trailing
// partial group. The actual Encode output may be shorter.
func EncodedLen(n int) int {
	groups := n / 4
	rem := n % 4
	total := groups * 5
	if rem > 0 {
		total += rem + 1
	}
	return total
}

func encodeGroup(v uint32, n int) [5]byte {
	var digits [5]byte
	for i := 4; i >= 0; i-- {
		digits[i] = byte(v%85) + minChar
		v /= 85
	}
	var out [5]byte
	copy(out[:], digits[:n])
	return out
}

// Encode renders in as Base85 text.
func Encode(in []byte) []byte {
	out := make([]byte, 0, EncodedLen(len(in)))
	i := 0
	for ; i+4 <= len(in); i += 4 {
		v := binary.BigEndian.Uint32(in[i : i+4])
		switch v {
		case 0x00000000:
			out = append(out, 'z')
		case 0x20202020:
			out = append(out, 'y')
		default:
			g := encodeGroup(v, 5)
			out = append(out, g[:]...)
		}
	}
	if rem := len(in) - i; rem > 0 {
		var buf [4]byte
		copy(buf[:], in[i:])
		v := binary.BigEndian.Uint32(buf[:])
		g := encodeGroup(v, rem+1)
		out = append(out, g[:rem+1]...)
	}
	return out
}

// DecodedLen predicts the output length of Decode(in) by scanning group
// boundaries without converting digit values, failing if any group
// (other than a z/y shorthand) has fewer than 2 chars. A run of more than
// 5 chars is split into consecutive groups of at most 5.
func DecodedLen(in []byte) (int, error) {
	n := 0
	i := 0
	for i < len(in) {
		switch in[i] {
		case 'z', 'y':
			n += 4
			i++
		default:
			j := groupEnd(in, i)
			g := j - i
			if g < 2 {
				return 0, ErrBadLength
			}
			n += g - 1
			i = j
		}
	}
	return n, nil
}

func groupEnd(in []byte, i int) int {
	j := i
	for j < len(in) && j < i+5 && in[j] != 'z' && in[j] != 'y' {
		j++
	}
	return j
}

// Decode parses Base85 text, expanding 'z'/'y' shorthands and padding a
// final partial group with 'u' (the maximum-value digit) to fill the
// quintet before converting, then keeping only the (group_len) leading
// decoded bytes — the standard Base85 partial-group convention, and the
// dual of Encode's zero-padding (spec §4.1).
func Decode(in []byte) ([]byte, error) {
	out := make([]byte, 0, len(in))
	i := 0
	for i < len(in) {
		switch in[i] {
		case 'z':
			out = append(out, 0, 0, 0, 0)
			i++
		case 'y':
			out = append(out, 0x20, 0x20, 0x20, 0x20)
			i++
		default:
			j := groupEnd(in, i)
			n := j - i
			if n < 2 {
				return nil, ErrBadLength
			}
			var padded [5]byte
			for k := 0; k < 5; k++ {
				if k < n {
					c := in[i+k]
					if !inRange(c) {
						return nil, ErrBadChar
					}
					padded[k] = c
				} else {
					padded[k] = maxChar
				}
			}
			var v uint32
			for _, c := range padded {
				v = v*85 + uint32(c-minChar)
			}
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], v)
			out = append(out, b[:n-1]...)
			i = j
		}
	}
	return out, nil
}

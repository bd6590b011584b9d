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

// Package binary implements the binary wire format of spec §4.6.1/§6.1: a
// fixed 18-byte signature followed by single-byte type tags, fixed-width
// payloads for scalars, and 4-byte big-endian length/count prefixes for
// strings, uris, binaries, arrays and maps. It registers itself with the
// root package's dispatch table from init, the way the root package's
// doc comment describes every wire format doing.
package binary

import (
	"bytes"
	"io"

	llsd "go.rtnl.ai/llsd"
)

// signature is the 18-byte literal every binary stream begins with
// (spec §6.1).
var signature = []byte("<? LLSD/Binary ?>\n")

const (
	tagUndef      = '!'
	tagFalse      = '0'
	tagTrue       = '1'
	tagInteger    = 'i'
	tagReal       = 'r'
	tagUUID       = 'u'
	tagDate       = 'd'
	tagString     = 's'
	tagURI        = 'l'
	tagBinary     = 'b'
	tagArrayBegin = '['
	tagArrayEnd   = ']'
	tagMapBegin   = '{'
	tagMapEnd     = '}'
)

func sniff(peek []byte) bool {
	return bytes.HasPrefix(peek, signature)
}

func init() {
	llsd.RegisterFormat(llsd.FormatBinary, sniff,
		func(r io.Reader, opts *llsd.Options) llsd.FormatParser {
			return &Parser{r: r, opts: opts}
		},
		func(w io.Writer, opts *llsd.Options) (llsd.Sink, error) {
			s := &Serializer{w: w}
			if _, err := w.Write(signature); err != nil {
				return nil, err
			}
			return s, nil
		},
	)
}

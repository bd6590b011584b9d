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

// Package xml implements the XML wire format of spec §4.6.3/§6.3: an
// <llsd> root wrapping one value, tag names matching each variant, and a
// <key> element preceding each map entry's value. The source's XML
// declaration is a documented typo (version"1.0", missing the "="); this
// driver accepts that form on input for compatibility but always emits
// the well-formed declaration, per spec §9's "accept on input, emit the
// correct form" guidance.
//
// encoding/xml's token-based Decoder is this driver's SAX layer — the
// same role a hand-rolled expat-style callback table plays in the
// original, and the idiomatic Go way to stream XML without building a
// DOM (see Decoder.Token in the standard library).
package xml

import (
	"bytes"
	"io"

	llsd "go.rtnl.ai/llsd"
)

var wellFormedSig = []byte(`<?xml version="1.0" encoding="UTF-8"?>`)

// typoSig is the malformed declaration the original source actually
// emits (spec §9: "version\"1.0\" — missing ="). Both are accepted.
var typoSig = []byte(`<?xml version"1.0" encoding="UTF-8"?>`)

func sniff(peek []byte) bool {
	return bytes.HasPrefix(peek, wellFormedSig) || bytes.HasPrefix(peek, typoSig) ||
		bytes.HasPrefix(bytes.TrimLeft(peek, " \t\r\n"), []byte("<?xml"))
}

func init() {
	llsd.RegisterFormat(llsd.FormatXML, sniff,
		func(r io.Reader, opts *llsd.Options) llsd.FormatParser {
			return &Parser{r: r, opts: opts}
		},
		func(w io.Writer, opts *llsd.Options) (llsd.Sink, error) {
			if _, err := io.WriteString(w, string(wellFormedSig)+"\n<llsd>"); err != nil {
				return nil, err
			}
			return newSerializer(w, opts), nil
		},
	)
}

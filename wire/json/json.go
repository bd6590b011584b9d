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

// Package json implements the JSON wire format of spec §4.6.4/§6.4:
// strict RFC 8259 JSON with the string-prefix conventions that let a
// schema-less scalar survive the trip through a type system JSON itself
// doesn't have (uuid, binary, uri, date all ride inside a JSON string).
//
// JSON carries no signature (spec §4.6.4, §4.8: "thus JSON detection is
// the last-chance fallback in dispatch"), so this package registers a nil
// SniffFunc — the dispatch table in the root package only tries JSON once
// every signature-bearing format has declined the input.
package json

import (
	"io"

	llsd "go.rtnl.ai/llsd"
)

func init() {
	llsd.RegisterFormat(llsd.FormatJSON, nil,
		func(r io.Reader, opts *llsd.Options) llsd.FormatParser {
			return &Parser{r: r, opts: opts}
		},
		func(w io.Writer, opts *llsd.Options) (llsd.Sink, error) {
			return newSerializer(w, opts), nil
		},
	)
}

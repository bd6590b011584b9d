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

// Package notation implements the textual notation wire format of spec
// §4.6.2/§6.2: a human-readable form with a one-character type prefix per
// scalar, C-like string escapes, and bracket/brace containers. It
// registers itself with the root package's dispatch table from init.
package notation

import (
	"bytes"
	"io"

	llsd "go.rtnl.ai/llsd"
)

var signature = []byte("<?llsd/notation?>\n")

func sniff(peek []byte) bool { return bytes.HasPrefix(peek, signature) }

func init() {
	llsd.RegisterFormat(llsd.FormatNotation, sniff,
		func(r io.Reader, opts *llsd.Options) llsd.FormatParser {
			return &Parser{r: r, opts: opts}
		},
		func(w io.Writer, opts *llsd.Options) (llsd.Sink, error) {
			if _, err := w.Write(signature); err != nil {
				return nil, err
			}
			return newSerializer(w, opts), nil
		},
	)
}

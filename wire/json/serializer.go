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

package json

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	llsd "go.rtnl.ai/llsd"

	"go.rtnl.ai/llsd/encoding/base64"
)

// frame is one open container's formatting state, the same shape the
// notation serializer uses for the same purpose (comma placement,
// pretty-print indentation).
type frame struct {
	count int
}

// Serializer implements llsd.Sink by writing the JSON grammar of spec
// §4.6.4, including the string-prefix conventions that carry uuid/uri/
// binary/date scalars through JSON's string type. There is no signature
// to write (spec §4.8), unlike the other three drivers.
type Serializer struct {
	w      io.Writer
	pretty bool
	indent string
	stack  []frame
	err    error
}

func newSerializer(w io.Writer, opts *llsd.Options) *Serializer {
	s := &Serializer{}
	s.w = w
	if opts != nil {
		s.pretty = opts.Pretty
		s.indent = opts.Indent
	}
	if s.indent == "" {
		s.indent = "  "
	}
	return s
}

func (s *Serializer) writeString(str string) error {
	if s.err != nil {
		return s.err
	}
	_, s.err = io.WriteString(s.w, str)
	return s.err
}

func (s *Serializer) top() *frame { return &s.stack[len(s.stack)-1] }

func (s *Serializer) indentLevel(n int) string {
	if !s.pretty {
		return ""
	}
	return "\n" + strings.Repeat(s.indent, n)
}

// beforeElement writes the comma (and, if pretty, newline/indent)
// separating this element from the previous one in the enclosing
// container, or just the opening indent if this is the first element.
func (s *Serializer) beforeElement() error {
	if len(s.stack) == 0 {
		return nil
	}
	top := s.top()
	if top.count == 0 {
		return s.writeString(s.indentLevel(len(s.stack)))
	}
	if err := s.writeString(","); err != nil {
		return err
	}
	if s.pretty {
		return s.writeString(s.indentLevel(len(s.stack)))
	}
	return s.writeString(" ")
}

func (s *Serializer) Undef() error { return s.writeString("null") }

func (s *Serializer) Boolean(b bool) error {
	if b {
		return s.writeString("true")
	}
	return s.writeString("false")
}

func (s *Serializer) Integer(i int32) error { return s.writeString(strconv.FormatInt(int64(i), 10)) }

func (s *Serializer) Real(r float64) error { return s.writeString(formatReal(r)) }

// formatReal renders r so it always carries a fractional part, which is
// how a JSON reader is meant to tell a real apart from an integer on
// this lossy round-trip (spec §4.6.4).
func formatReal(r float64) string {
	text := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.ContainsAny(text, ".eE") {
		text += ".0"
	}
	return text
}

func (s *Serializer) UUID(bs [16]byte) error {
	return s.writeString(escapeJSON(uuid.UUID(bs).String()))
}

func (s *Serializer) Date(seconds float64) error {
	return s.writeString(escapeJSON(llsd.FormatDate(seconds)))
}

func (s *Serializer) URI(v string) error { return s.writeString(escapeJSON(uriPrefix + v)) }

func (s *Serializer) String(v string) error { return s.writeString(escapeJSON(v)) }

// Binary always rides as a base64 payload behind the "||b64||" prefix;
// JSON has no other carrier, so the encoding hint is ignored.
func (s *Serializer) Binary(v []byte, _ llsd.Encoding) error {
	return s.writeString(escapeJSON(b64Prefix + string(base64.Encode(v))))
}

func (s *Serializer) ArrayBegin(int) error {
	if err := s.writeString("["); err != nil {
		return err
	}
	s.stack = append(s.stack, frame{})
	return nil
}

func (s *Serializer) ArrayValueBegin() error { return s.beforeElement() }
func (s *Serializer) ArrayValueEnd() error   { s.top().count++; return nil }

func (s *Serializer) ArrayEnd(int) error {
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	if top.count > 0 {
		if err := s.writeString(s.indentLevel(len(s.stack))); err != nil {
			return err
		}
	}
	return s.writeString("]")
}

func (s *Serializer) MapBegin(int) error {
	if err := s.writeString("{"); err != nil {
		return err
	}
	s.stack = append(s.stack, frame{})
	return nil
}

func (s *Serializer) MapKeyBegin() error { return s.beforeElement() }

func (s *Serializer) MapKeyEnd() error {
	if s.pretty {
		return s.writeString(": ")
	}
	return s.writeString(":")
}

func (s *Serializer) MapValueBegin() error { return nil }
func (s *Serializer) MapValueEnd() error   { s.top().count++; return nil }

func (s *Serializer) MapEnd(int) error {
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	if top.count > 0 {
		if err := s.writeString(s.indentLevel(len(s.stack))); err != nil {
			return err
		}
	}
	return s.writeString("}")
}

// escapeJSON renders s as a double-quoted JSON string literal using the
// standard escape set of spec §4.6.4. Non-ASCII runes are written as raw
// UTF-8 rather than \uXXXX-escaped; RFC 8259 only requires escaping the
// control characters and the two structural quote/backslash bytes.
func escapeJSON(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				b.WriteString(fmt.Sprintf(`\u%04x`, r))
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

var _ llsd.Sink = (*Serializer)(nil)

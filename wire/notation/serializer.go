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

package notation

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	llsd "go.rtnl.ai/llsd"

	"go.rtnl.ai/llsd/encoding/base16"
	"go.rtnl.ai/llsd/encoding/base64"
)

// frame is one open container's formatting state: how many elements have
// been written so far (for comma placement) and whether it's a map. isMap
// is recorded but nothing reads it; array and map separators are written
// identically.
type frame struct {
	isMap bool
	count int
}

// Serializer implements llsd.Sink by writing the notation text grammar of
// spec §4.6.2. Binary values serialize in the encoding their hint names,
// so a document round-trips each binary in the form it arrived in; base85
// is the exception — not every notation reader accepts it, so a
// base85-hinted payload is downgraded to the raw b(N) literal with a
// debug diagnostic (spec §4.6.2 "warning-then-decode").
type Serializer struct {
	w      io.Writer
	pretty bool
	indent string
	logger *logrus.Logger
	stack  []frame
	err    error
}

func newSerializer(w io.Writer, opts *llsd.Options) *Serializer {
	s := &Serializer{w: w}
	if opts != nil {
		s.pretty = opts.Pretty
		s.indent = opts.Indent
		s.logger = opts.Logger
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
// container, or just the opening indent (if pretty) if this is the first
// element.
func (s *Serializer) beforeElement() error {
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

func (s *Serializer) Undef() error { return s.writeString("!") }

func (s *Serializer) Boolean(b bool) error {
	if b {
		return s.writeString("1")
	}
	return s.writeString("0")
}

func (s *Serializer) Integer(i int32) error { return s.writeString("i" + strconv.FormatInt(int64(i), 10)) }

func (s *Serializer) Real(r float64) error {
	return s.writeString("r" + strconv.FormatFloat(r, 'f', -1, 64))
}

func (s *Serializer) UUID(bs [16]byte) error {
	return s.writeString("u" + uuid.UUID(bs).String())
}

func (s *Serializer) Date(seconds float64) error {
	return s.writeString(fmt.Sprintf("d%q", llsd.FormatDate(seconds)))
}

func (s *Serializer) URI(v string) error { return s.writeString("l" + quote(v)) }

func (s *Serializer) String(v string) error { return s.writeString(quote(v)) }

func (s *Serializer) Binary(v []byte, enc llsd.Encoding) error {
	switch enc {
	case llsd.EncodingBase16:
		return s.writeString("b16" + quote(string(base16.Encode(v))))
	case llsd.EncodingBase85:
		if s.logger != nil {
			s.logger.Debug("llsd/notation: downgrading base85 binary to raw literal")
		}
		return s.writeRawBinary(v)
	case llsd.EncodingRaw:
		return s.writeRawBinary(v)
	default:
		return s.writeString("b64" + quote(string(base64.Encode(v))))
	}
}

// writeRawBinary emits the b(N)"..." literal-octet form. The payload is
// written verbatim between the quotes; a reader consumes exactly N octets,
// so embedded quote bytes are fine.
func (s *Serializer) writeRawBinary(v []byte) error {
	if err := s.writeString(fmt.Sprintf("b(%d)\"", len(v))); err != nil {
		return err
	}
	if s.err != nil {
		return s.err
	}
	if _, s.err = s.w.Write(v); s.err != nil {
		return s.err
	}
	return s.writeString("\"")
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
	s.stack = append(s.stack, frame{isMap: true})
	return nil
}

func (s *Serializer) MapKeyBegin() error   { return s.beforeElement() }
func (s *Serializer) MapKeyEnd() error     { return s.writeString(":") }
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

// quote renders s as a double-quoted notation string literal, escaping
// the characters the lexer (lexer.go's readQuotedString) understands.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
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
		default:
			if c < 0x20 {
				fmt.Fprintf(&b, `\x%02x`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

var _ llsd.Sink = (*Serializer)(nil)

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

package xml

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	llsd "go.rtnl.ai/llsd"

	"go.rtnl.ai/llsd/encoding/base16"
	"go.rtnl.ai/llsd/encoding/base64"
	"go.rtnl.ai/llsd/encoding/base85"
)

// Serializer implements llsd.Sink by writing the XML wire grammar of spec
// §4.6.3. The <llsd> root's opening tag is written by the factory in
// xml.go before the Sink is handed to the generic driver; Serializer
// writes the matching close tag itself once the one value it wraps has
// finished — the only point in any of the four drivers where a format
// needs state past what a single Walk call threads through it.
type Serializer struct {
	w      io.Writer
	pretty bool
	indent string
	depth  int // count of open array/map containers, not counting <llsd> itself
	inKey  bool

	// pending holds a container's open tag ("array" or "map") whose
	// emission is deferred until the first child event arrives, so an
	// empty container collapses to the <array /> / <map /> form instead
	// of an open/close pair.
	pending string

	err error
}

func newSerializer(w io.Writer, opts *llsd.Options) *Serializer {
	s := &Serializer{w: w}
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

// writeIndent emits a newline and indentation for the current nesting
// level, one deeper than depth to account for the <llsd> wrapper.
func (s *Serializer) writeIndent() error {
	if !s.pretty {
		return nil
	}
	return s.writeString("\n" + strings.Repeat(s.indent, s.depth+1))
}

// flushOpen writes a deferred container open tag, if one is pending.
func (s *Serializer) flushOpen() error {
	if s.pending == "" {
		return nil
	}
	tag := s.pending
	s.pending = ""
	return s.writeString("<" + tag + ">")
}

// writeElement emits <tag>text</tag>, or the empty-element form <tag/>
// when text is empty — the "type's natural zero/empty" shorthand of spec
// §4.6.3.
func (s *Serializer) writeElement(tag, text string) error {
	if err := s.writeIndent(); err != nil {
		return err
	}
	if text == "" {
		if err := s.writeString("<" + tag + "/>"); err != nil {
			return err
		}
		return s.maybeCloseRoot()
	}
	if err := s.writeString(fmt.Sprintf("<%s>%s</%s>", tag, escape(text), tag)); err != nil {
		return err
	}
	return s.maybeCloseRoot()
}

// maybeCloseRoot writes the </llsd> close tag once the single top-level
// value this Serializer wraps has fully been written.
func (s *Serializer) maybeCloseRoot() error {
	if s.depth != 0 {
		return nil
	}
	if s.pretty {
		if err := s.writeString("\n"); err != nil {
			return err
		}
	}
	return s.writeString("</llsd>")
}

func (s *Serializer) Undef() error {
	if err := s.writeIndent(); err != nil {
		return err
	}
	if err := s.writeString("<undef/>"); err != nil {
		return err
	}
	return s.maybeCloseRoot()
}

func (s *Serializer) Boolean(b bool) error {
	if b {
		return s.writeElement("boolean", "true")
	}
	return s.writeElement("boolean", "false")
}

func (s *Serializer) Integer(i int32) error {
	if i == 0 {
		return s.writeElement("integer", "")
	}
	return s.writeElement("integer", strconv.FormatInt(int64(i), 10))
}

func (s *Serializer) Real(r float64) error {
	if r == 0 {
		return s.writeElement("real", "")
	}
	return s.writeElement("real", strconv.FormatFloat(r, 'f', -1, 64))
}

func (s *Serializer) UUID(bs [16]byte) error {
	return s.writeElement("uuid", uuid.UUID(bs).String())
}

func (s *Serializer) Date(seconds float64) error {
	return s.writeElement("date", llsd.FormatDate(seconds))
}

func (s *Serializer) URI(v string) error { return s.writeElement("uri", v) }

func (s *Serializer) String(v string) error {
	if s.inKey {
		if err := s.writeString(escape(v)); err != nil {
			return err
		}
		return nil
	}
	return s.writeElement("string", v)
}

// Binary honors the encoding hint via the encoding= attribute; the raw
// hint has no XML carrier and falls back to base64, the attribute's
// default.
func (s *Serializer) Binary(v []byte, enc llsd.Encoding) error {
	if len(v) == 0 {
		return s.writeElement("binary", "")
	}
	if err := s.writeIndent(); err != nil {
		return err
	}
	var name string
	var text []byte
	switch enc {
	case llsd.EncodingBase16:
		name, text = "base16", base16.Encode(v)
	case llsd.EncodingBase85:
		name, text = "base85", base85.Encode(v)
	default:
		name, text = "base64", base64.Encode(v)
	}
	if err := s.writeString(fmt.Sprintf(`<binary encoding=%q>%s</binary>`, name, text)); err != nil {
		return err
	}
	return s.maybeCloseRoot()
}

func (s *Serializer) ArrayBegin(int) error {
	if err := s.flushOpen(); err != nil {
		return err
	}
	if err := s.writeIndent(); err != nil {
		return err
	}
	s.pending = "array"
	s.depth++
	return nil
}

func (s *Serializer) ArrayValueBegin() error { return s.flushOpen() }
func (s *Serializer) ArrayValueEnd() error   { return nil }

func (s *Serializer) ArrayEnd(int) error {
	s.depth--
	if s.pending != "" {
		s.pending = ""
		if err := s.writeString("<array />"); err != nil {
			return err
		}
		return s.maybeCloseRoot()
	}
	if err := s.writeIndent(); err != nil {
		return err
	}
	if err := s.writeString("</array>"); err != nil {
		return err
	}
	return s.maybeCloseRoot()
}

func (s *Serializer) MapBegin(int) error {
	if err := s.flushOpen(); err != nil {
		return err
	}
	if err := s.writeIndent(); err != nil {
		return err
	}
	s.pending = "map"
	s.depth++
	return nil
}

func (s *Serializer) MapKeyBegin() error {
	if err := s.flushOpen(); err != nil {
		return err
	}
	if err := s.writeIndent(); err != nil {
		return err
	}
	s.inKey = true
	return s.writeString("<key>")
}

func (s *Serializer) MapKeyEnd() error {
	s.inKey = false
	return s.writeString("</key>")
}

func (s *Serializer) MapValueBegin() error { return nil }
func (s *Serializer) MapValueEnd() error   { return nil }

func (s *Serializer) MapEnd(int) error {
	s.depth--
	if s.pending != "" {
		s.pending = ""
		if err := s.writeString("<map />"); err != nil {
			return err
		}
		return s.maybeCloseRoot()
	}
	if err := s.writeIndent(); err != nil {
		return err
	}
	if err := s.writeString("</map>"); err != nil {
		return err
	}
	return s.maybeCloseRoot()
}

// escape encodes the five predefined XML entities (spec §4.6.3).
func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		case '\'':
			b.WriteString("&apos;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

var _ llsd.Sink = (*Serializer)(nil)

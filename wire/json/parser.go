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
	"github.com/pkg/errors"
	llsd "go.rtnl.ai/llsd"

	"go.rtnl.ai/llsd/encoding/base64"
)

// b64Prefix and uriPrefix are the string-prefix conventions of spec
// §4.6.4 that let a JSON string carry a binary or uri value through a
// type system JSON itself doesn't have.
const (
	b64Prefix = "||b64||"
	uriPrefix = "||uri||"
)

// Parser reads one complete LLSD value from a JSON-format stream (spec
// §4.6.4). JSON has no signature; callers reach this parser either via
// explicit FormatJSON selection or as Parse's last-chance fallback
// (spec §4.8).
type Parser struct {
	r    io.Reader
	opts *llsd.Options

	lex  *lexer
	sink llsd.Sink
	pp   *llsd.PushParser
}

func (p *Parser) Parse(sink llsd.Sink) error {
	all, err := io.ReadAll(p.r)
	if err != nil {
		return err
	}
	p.lex = &lexer{buf: all}
	p.sink = sink
	p.pp = llsd.NewPushParser(sink)

	p.lex.skipSpace()
	if err := p.parseValue(); err != nil {
		return p.wrapErr(err)
	}
	if !p.pp.Done() {
		return llsd.ErrUnclosedContainer
	}
	p.lex.skipSpace()
	if !p.lex.eof() {
		return p.wrapErr(llsd.ErrTrailingData)
	}
	return nil
}

// wrapErr attaches the lexer's current line/column to err, the JSON
// parser's version of spec §9 supplement #2's line-counter diagnostics.
func (p *Parser) wrapErr(err error) error {
	if err == nil {
		return nil
	}
	line, col := p.lex.lineCol()
	return errors.Wrapf(err, "at line %d, column %d", line, col)
}

func (p *Parser) parseValue() error {
	p.lex.skipSpace()
	if p.lex.eof() {
		return fmt.Errorf("%w: expected value", llsd.ErrTruncated)
	}
	switch c := p.lex.peek(); {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		return p.parseStringValue()
	case c == 't':
		if err := p.lex.expectLiteral("true"); err != nil {
			return err
		}
		return p.emitScalar(llsd.TypeBoolean, func() error { return p.sink.Boolean(true) })
	case c == 'f':
		if err := p.lex.expectLiteral("false"); err != nil {
			return err
		}
		return p.emitScalar(llsd.TypeBoolean, func() error { return p.sink.Boolean(false) })
	case c == 'n':
		if err := p.lex.expectLiteral("null"); err != nil {
			return err
		}
		return p.emitScalar(llsd.TypeUndef, func() error { return p.sink.Undef() })
	case c == '-' || isDigit(c):
		return p.parseNumber()
	default:
		return fmt.Errorf("%w: unexpected byte %q", llsd.ErrUnknownTag, c)
	}
}

// emitScalar begins/emits/ends a value whose token has already been
// fully consumed from the lexer.
func (p *Parser) emitScalar(kind llsd.Kind, emit func() error) error {
	if err := p.pp.BeginValue(kind); err != nil {
		return err
	}
	if err := emit(); err != nil {
		return err
	}
	return p.pp.EndValue(kind)
}

func (p *Parser) parseNumber() error {
	text := p.lex.readNumberText()
	if isRealText(text) {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("%w: bad number literal %q", llsd.ErrTruncated, text)
		}
		return p.emitScalar(llsd.TypeReal, func() error { return p.sink.Real(f) })
	}
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return fmt.Errorf("%w: bad number literal %q", llsd.ErrTruncated, text)
	}
	return p.emitScalar(llsd.TypeInteger, func() error { return p.sink.Integer(int32(n)) })
}

// parseStringValue reads a JSON string in value position and coalesces
// it per spec §4.6.4: a 36-character UUID literal becomes a uuid, a
// "||b64||" prefix becomes binary, a "||uri||" prefix becomes a uri, a
// parseable ISO-8601 date becomes a date, and anything else stays a
// plain string. This is a best-effort, lossy classification — the
// known limitation spec §4.6.4 calls out by name.
func (p *Parser) parseStringValue() error {
	text, err := p.lex.readString()
	if err != nil {
		return err
	}
	if id, ok := asUUID(text); ok {
		return p.emitScalar(llsd.TypeUUID, func() error { return p.sink.UUID(id) })
	}
	if rest, ok := strings.CutPrefix(text, b64Prefix); ok {
		data, err := base64.Decode([]byte(rest))
		if err != nil {
			return fmt.Errorf("%w: %v", llsd.ErrBadEncoding, err)
		}
		return p.emitScalar(llsd.TypeBinary, func() error { return p.sink.Binary(data, llsd.EncodingBase64) })
	}
	if rest, ok := strings.CutPrefix(text, uriPrefix); ok {
		return p.emitScalar(llsd.TypeURI, func() error { return p.sink.URI(rest) })
	}
	if seconds, err := llsd.ParseDate(text); err == nil {
		return p.emitScalar(llsd.TypeDate, func() error { return p.sink.Date(seconds) })
	}
	return p.emitScalar(llsd.TypeString, func() error { return p.sink.String(text) })
}

func asUUID(s string) ([16]byte, bool) {
	if len(s) != 36 {
		return [16]byte{}, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return [16]byte{}, false
	}
	return id, true
}

// parseKey reads a JSON object key: a plain JSON string with no
// coalescing, since an object key position only ever accepts a string
// (spec §4.4's map_key_begin/string/map_key_end grammar).
func (p *Parser) parseKey() (string, error) {
	if p.lex.peek() != '"' {
		return "", fmt.Errorf("%w: object key must be a JSON string", llsd.ErrMapKeyNotString)
	}
	return p.lex.readString()
}

func (p *Parser) parseArray() error {
	if err := p.pp.BeginValue(llsd.TypeArray); err != nil {
		return err
	}
	p.lex.next() // '['
	if err := p.pp.OpenArray(0); err != nil {
		return err
	}
	p.lex.skipSpace()
	if p.lex.peek() != ']' {
		for {
			if err := p.parseValue(); err != nil {
				return err
			}
			p.lex.skipSpace()
			if p.lex.peek() != ',' {
				break
			}
			p.lex.next()
			p.lex.skipSpace()
		}
	}
	if err := p.lex.expect(']'); err != nil {
		return err
	}
	if err := p.pp.CloseArray(); err != nil {
		return err
	}
	return p.pp.EndValue(llsd.TypeArray)
}

func (p *Parser) parseObject() error {
	if err := p.pp.BeginValue(llsd.TypeMap); err != nil {
		return err
	}
	p.lex.next() // '{'
	if err := p.pp.OpenMap(0); err != nil {
		return err
	}
	p.lex.skipSpace()
	if p.lex.peek() != '}' {
		for {
			key, err := p.parseKey()
			if err != nil {
				return err
			}
			if err := p.pp.BeginValue(llsd.TypeString); err != nil {
				return err
			}
			if err := p.sink.String(key); err != nil {
				return err
			}
			if err := p.pp.EndValue(llsd.TypeString); err != nil {
				return err
			}
			p.lex.skipSpace()
			if err := p.lex.expect(':'); err != nil {
				return err
			}
			if err := p.parseValue(); err != nil {
				return err
			}
			p.lex.skipSpace()
			if p.lex.peek() != ',' {
				break
			}
			p.lex.next()
			p.lex.skipSpace()
		}
	}
	if err := p.lex.expect('}'); err != nil {
		return err
	}
	if err := p.pp.CloseMap(); err != nil {
		return err
	}
	return p.pp.EndValue(llsd.TypeMap)
}

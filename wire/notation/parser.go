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

	"github.com/google/uuid"
	"github.com/pkg/errors"
	llsd "go.rtnl.ai/llsd"

	"go.rtnl.ai/llsd/encoding/base16"
	"go.rtnl.ai/llsd/encoding/base64"
	"go.rtnl.ai/llsd/encoding/base85"
)

// Parser reads one complete LLSD value from a notation-format stream
// (spec §4.6.2). Notation needs unbounded lookahead at a few grammar
// points, so Parser buffers the whole stream up front rather than
// tokenizing incrementally.
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
	if len(all) < len(signature) || string(all[:len(signature)]) != string(signature) {
		return llsd.ErrBadSignature
	}
	p.lex = &lexer{buf: all, pos: len(signature)}
	p.sink = sink
	p.pp = llsd.NewPushParser(sink)

	p.lex.skipSpace()
	if err := p.parseValue(); err != nil {
		return err
	}
	if !p.pp.Done() {
		return llsd.ErrUnclosedContainer
	}
	p.lex.skipSpace()
	if !p.lex.eof() {
		return llsd.ErrTrailingData
	}
	return nil
}

func (p *Parser) parseValue() error {
	if p.lex.eof() {
		return fmt.Errorf("%w: expected value", llsd.ErrTruncated)
	}
	switch c := p.lex.peek(); c {
	case '!':
		p.lex.next()
		return p.emitScalar(llsd.TypeUndef, func() error { return p.sink.Undef() })
	case '1':
		p.lex.next()
		return p.emitScalar(llsd.TypeBoolean, func() error { return p.sink.Boolean(true) })
	case '0':
		p.lex.next()
		return p.emitScalar(llsd.TypeBoolean, func() error { return p.sink.Boolean(false) })
	case 't', 'T':
		p.lex.next()
		return p.emitScalar(llsd.TypeBoolean, func() error { return p.sink.Boolean(true) })
	case 'f', 'F':
		p.lex.next()
		return p.emitScalar(llsd.TypeBoolean, func() error { return p.sink.Boolean(false) })
	case 'i':
		p.lex.next()
		return p.parseInteger()
	case 'r':
		p.lex.next()
		return p.parseReal()
	case 'u':
		p.lex.next()
		return p.parseUUID()
	case 'd':
		p.lex.next()
		return p.parseDate()
	case 'l':
		p.lex.next()
		return p.parseURI()
	case 's':
		p.lex.next()
		return p.parseRawString()
	case 'b':
		p.lex.next()
		return p.parseBinary()
	case '"', '\'':
		return p.parseQuotedString()
	case '[':
		return p.parseArray()
	case '{':
		return p.parseMap()
	default:
		return errors.Wrapf(llsd.ErrUnknownTag, "notation tag %q at offset %d", c, p.lex.pos)
	}
}

// emitScalar begins/emits/ends a scalar whose token has already been
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

func (p *Parser) parseInteger() error {
	text := p.lex.readNumberText()
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return fmt.Errorf("%w: bad integer literal %q", llsd.ErrTruncated, text)
	}
	return p.emitScalar(llsd.TypeInteger, func() error { return p.sink.Integer(int32(n)) })
}

func (p *Parser) parseReal() error {
	text := p.lex.readNumberText()
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("%w: bad real literal %q", llsd.ErrTruncated, text)
	}
	return p.emitScalar(llsd.TypeReal, func() error { return p.sink.Real(f) })
}

func (p *Parser) parseUUID() error {
	if p.lex.pos+36 > len(p.lex.buf) {
		return llsd.ErrTruncated
	}
	text := string(p.lex.buf[p.lex.pos : p.lex.pos+36])
	p.lex.pos += 36
	id, err := uuid.Parse(text)
	if err != nil {
		return fmt.Errorf("%w: %v", llsd.ErrBadUUID, err)
	}
	return p.emitScalar(llsd.TypeUUID, func() error { return p.sink.UUID(id) })
}

func (p *Parser) parseDate() error {
	text, err := p.lex.readQuotedString()
	if err != nil {
		return err
	}
	seconds, err := llsd.ParseDate(text)
	if err != nil {
		return err
	}
	return p.emitScalar(llsd.TypeDate, func() error { return p.sink.Date(seconds) })
}

func (p *Parser) parseURI() error {
	text, err := p.lex.readQuotedString()
	if err != nil {
		return err
	}
	return p.emitScalar(llsd.TypeURI, func() error { return p.sink.URI(text) })
}

func (p *Parser) parseRawString() error {
	n, err := p.lex.readCount()
	if err != nil {
		return err
	}
	data, err := p.lex.readRawLiteral(n)
	if err != nil {
		return err
	}
	return p.emitStringOrKey(string(data))
}

func (p *Parser) parseQuotedString() error {
	text, err := p.lex.readQuotedString()
	if err != nil {
		return err
	}
	return p.emitStringOrKey(text)
}

// emitStringOrKey emits a string event; PushParser decides from the
// enclosing frame whether this becomes a map key or an ordinary value
// (spec §4.4 grammar: map_key_begin, string, map_key_end).
func (p *Parser) emitStringOrKey(s string) error {
	return p.emitScalar(llsd.TypeString, func() error { return p.sink.String(s) })
}

func (p *Parser) parseBinary() error {
	if p.lex.peek() == '(' {
		n, err := p.lex.readCount()
		if err != nil {
			return err
		}
		data, err := p.lex.readRawLiteral(n)
		if err != nil {
			return err
		}
		cp := append([]byte(nil), data...)
		return p.emitScalar(llsd.TypeBinary, func() error { return p.sink.Binary(cp, llsd.EncodingRaw) })
	}

	if p.lex.pos+2 > len(p.lex.buf) {
		return llsd.ErrTruncated
	}
	enc := string(p.lex.buf[p.lex.pos : p.lex.pos+2])
	p.lex.pos += 2
	text, err := p.lex.readQuotedString()
	if err != nil {
		return err
	}
	var data []byte
	var hint llsd.Encoding
	switch enc {
	case "16":
		data, err = base16.Decode([]byte(text))
		hint = llsd.EncodingBase16
	case "64":
		data, err = base64.Decode([]byte(text))
		hint = llsd.EncodingBase64
	case "85":
		data, err = base85.Decode([]byte(text))
		hint = llsd.EncodingBase85
	default:
		return fmt.Errorf("%w: unknown binary encoding %q", llsd.ErrBadEncoding, enc)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", llsd.ErrBadEncoding, err)
	}
	return p.emitScalar(llsd.TypeBinary, func() error { return p.sink.Binary(data, hint) })
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
	for !p.lex.eof() && p.lex.peek() != ']' {
		if err := p.parseValue(); err != nil {
			return err
		}
		p.lex.skipSeparators()
	}
	if err := p.lex.expect(']'); err != nil {
		return err
	}
	if err := p.pp.CloseArray(); err != nil {
		return err
	}
	return p.pp.EndValue(llsd.TypeArray)
}

func (p *Parser) parseMap() error {
	if err := p.pp.BeginValue(llsd.TypeMap); err != nil {
		return err
	}
	p.lex.next() // '{'
	if err := p.pp.OpenMap(0); err != nil {
		return err
	}
	p.lex.skipSpace()
	for !p.lex.eof() && p.lex.peek() != '}' {
		if p.lex.peek() != '"' && p.lex.peek() != '\'' {
			return fmt.Errorf("%w: map key must be quoted string", llsd.ErrMapKeyNotString)
		}
		key, err := p.lex.readQuotedString()
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
		p.lex.skipSpace()
		if err := p.parseValue(); err != nil {
			return err
		}
		p.lex.skipSeparators()
	}
	if err := p.lex.expect('}'); err != nil {
		return err
	}
	if err := p.pp.CloseMap(); err != nil {
		return err
	}
	return p.pp.EndValue(llsd.TypeMap)
}

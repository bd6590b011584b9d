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
	"encoding/xml"
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

// Parser reads one complete LLSD value from an XML-format stream (spec
// §4.6.3). encoding/xml's Decoder.Token is the SAX layer; this type
// drives it the way the other three drivers drive their own lexers,
// routing each recognized element into the shared push-parser.
type Parser struct {
	r    io.Reader
	opts *llsd.Options

	dec  *xml.Decoder
	sink llsd.Sink
	pp   *llsd.PushParser
}

func (p *Parser) Parse(sink llsd.Sink) error {
	p.dec = xml.NewDecoder(p.r)
	p.sink = sink
	p.pp = llsd.NewPushParser(sink)

	root, err := p.nextStart()
	if err != nil {
		return err
	}
	if root.Name.Local != "llsd" {
		return llsd.ErrBadSignature
	}

	child, ok, err := p.nextChildStart(root.Name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: <llsd> has no value child", llsd.ErrTruncated)
	}
	if err := p.parseElement(child); err != nil {
		return err
	}
	if !p.pp.Done() {
		return llsd.ErrUnclosedContainer
	}

	// Drain to EOF, rejecting a second top-level value.
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return errors.Wrapf(llsd.ErrTrailingData, "unexpected <%s> after root value", se.Name.Local)
		}
	}
}

// nextStart scans forward to the next StartElement, skipping
// whitespace/comments/processing instructions.
func (p *Parser) nextStart() (xml.StartElement, error) {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se, nil
		}
	}
}

// nextChildStart returns the next StartElement inside the still-open
// element named parent, or ok=false if parent's EndElement is reached
// first without finding one.
func (p *Parser) nextChildStart(parent xml.Name) (xml.StartElement, bool, error) {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return xml.StartElement{}, false, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, true, nil
		case xml.EndElement:
			if t.Name.Local == parent.Local {
				return xml.StartElement{}, false, nil
			}
		}
	}
}

// textAndEnd reads CharData tokens until start's matching EndElement,
// concatenating all text content (entity decoding is already done by
// encoding/xml as it tokenizes).
func (p *Parser) textAndEnd(start xml.StartElement) (string, error) {
	var text []byte
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text = append(text, t...)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return string(text), nil
			}
		}
	}
}

func attr(start xml.StartElement, name string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (p *Parser) parseElement(start xml.StartElement) error {
	switch start.Name.Local {
	case "undef":
		return p.scalar(start, llsd.TypeUndef, func(string) error { return p.sink.Undef() })
	case "boolean":
		return p.scalar(start, llsd.TypeBoolean, func(text string) error {
			return p.sink.Boolean(text == "true" || text == "1")
		})
	case "integer":
		return p.scalar(start, llsd.TypeInteger, func(text string) error {
			if text == "" {
				return p.sink.Integer(0)
			}
			n, err := strconv.ParseInt(text, 10, 32)
			if err != nil {
				return fmt.Errorf("%w: bad integer %q", llsd.ErrTruncated, text)
			}
			return p.sink.Integer(int32(n))
		})
	case "real":
		return p.scalar(start, llsd.TypeReal, func(text string) error {
			if text == "" {
				return p.sink.Real(0)
			}
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return fmt.Errorf("%w: bad real %q", llsd.ErrTruncated, text)
			}
			return p.sink.Real(f)
		})
	case "uuid":
		return p.scalar(start, llsd.TypeUUID, func(text string) error {
			if text == "" {
				return p.sink.UUID([16]byte{})
			}
			id, err := uuid.Parse(text)
			if err != nil {
				return fmt.Errorf("%w: %v", llsd.ErrBadUUID, err)
			}
			return p.sink.UUID(id)
		})
	case "date":
		return p.scalar(start, llsd.TypeDate, func(text string) error {
			if text == "" {
				return p.sink.Date(0)
			}
			d, err := llsd.ParseDate(text)
			if err != nil {
				return err
			}
			return p.sink.Date(d)
		})
	case "string":
		return p.scalar(start, llsd.TypeString, func(text string) error { return p.sink.String(text) })
	case "uri":
		return p.scalar(start, llsd.TypeURI, func(text string) error { return p.sink.URI(text) })
	case "binary":
		enc, _ := attr(start, "encoding")
		return p.scalar(start, llsd.TypeBinary, func(text string) error {
			if text == "" {
				return p.sink.Binary(nil, llsd.EncodingBase64)
			}
			var data []byte
			var err error
			var hint llsd.Encoding
			switch enc {
			case "base16":
				data, err = base16.Decode([]byte(text))
				hint = llsd.EncodingBase16
			case "base85":
				data, err = base85.Decode([]byte(text))
				hint = llsd.EncodingBase85
			case "", "base64":
				data, err = base64.Decode([]byte(text))
				hint = llsd.EncodingBase64
			default:
				return fmt.Errorf("%w: unknown binary encoding %q", llsd.ErrBadEncoding, enc)
			}
			if err != nil {
				return fmt.Errorf("%w: %v", llsd.ErrBadEncoding, err)
			}
			return p.sink.Binary(data, hint)
		})
	case "array":
		return p.parseArray(start)
	case "map":
		return p.parseMap(start)
	default:
		return errors.Wrapf(llsd.ErrUnknownTag, "xml element <%s>", start.Name.Local)
	}
}

// scalar handles the common shape: begin_value, read text to the closing
// tag, emit the typed event, end_value. An empty element (<integer/>)
// yields an empty CharData/EndElement pair and so the type's zero value.
func (p *Parser) scalar(start xml.StartElement, kind llsd.Kind, emit func(text string) error) error {
	if err := p.pp.BeginValue(kind); err != nil {
		return err
	}
	text, err := p.textAndEnd(start)
	if err != nil {
		return err
	}
	if err := emit(text); err != nil {
		return err
	}
	return p.pp.EndValue(kind)
}

func (p *Parser) parseArray(start xml.StartElement) error {
	if err := p.pp.BeginValue(llsd.TypeArray); err != nil {
		return err
	}
	if err := p.pp.OpenArray(0); err != nil {
		return err
	}
	for {
		child, ok, err := p.nextChildStart(start.Name)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := p.parseElement(child); err != nil {
			return err
		}
	}
	if err := p.pp.CloseArray(); err != nil {
		return err
	}
	return p.pp.EndValue(llsd.TypeArray)
}

func (p *Parser) parseMap(start xml.StartElement) error {
	if err := p.pp.BeginValue(llsd.TypeMap); err != nil {
		return err
	}
	if err := p.pp.OpenMap(0); err != nil {
		return err
	}
	for {
		child, ok, err := p.nextChildStart(start.Name)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if child.Name.Local != "key" {
			return fmt.Errorf("%w: expected <key>, got <%s>", llsd.ErrMapKeyNotString, child.Name.Local)
		}
		key, err := p.textAndEnd(child)
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
		valStart, ok, err := p.nextChildStart(start.Name)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: map key %q has no value", llsd.ErrTruncated, key)
		}
		if err := p.parseElement(valStart); err != nil {
			return err
		}
	}
	if err := p.pp.CloseMap(); err != nil {
		return err
	}
	return p.pp.EndValue(llsd.TypeMap)
}

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

package binary

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"
	llsd "go.rtnl.ai/llsd"
)

// Parser reads one complete LLSD value from a binary-format stream (spec
// §4.6.1). It holds no buffering of its own beyond what io.ReadFull needs;
// callers that care about syscall count should wrap r in a *bufio.Reader
// themselves, as the teacher's entropy sources leave buffering to the
// caller too.
type Parser struct {
	r    io.Reader
	opts *llsd.Options
	pos  int64

	sink llsd.Sink
	pp   *llsd.PushParser
}

func (p *Parser) readFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(p.r, buf); err != nil {
		return nil, errors.Wrapf(llsd.ErrTruncated, "at offset %d: %v", p.pos, err)
	}
	p.pos += int64(n)
	return buf, nil
}

func (p *Parser) readTag() (byte, error) {
	b, err := p.readFull(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (p *Parser) readUint32() (uint32, error) {
	b, err := p.readFull(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Parse checks the signature and replays exactly one value's worth of
// events onto sink via the shared push-parser state machine.
func (p *Parser) Parse(sink llsd.Sink) error {
	sig, err := p.readFull(len(signature))
	if err != nil {
		return err
	}
	for i, b := range sig {
		if b != signature[i] {
			return llsd.ErrBadSignature
		}
	}

	p.sink = sink
	p.pp = llsd.NewPushParser(sink)
	if err := p.readValue(); err != nil {
		return err
	}
	if !p.pp.Done() {
		return llsd.ErrUnclosedContainer
	}

	// A lone extra byte after the value is trailing data; EOF is the
	// only acceptable continuation (spec §1 "one complete value").
	var probe [1]byte
	if _, err := io.ReadFull(p.r, probe[:]); err != io.EOF {
		if err == nil {
			return llsd.ErrTrailingData
		}
	}
	return nil
}

func (p *Parser) readValue() error {
	tag, err := p.readTag()
	if err != nil {
		return err
	}
	return p.dispatchTag(tag)
}

func (p *Parser) dispatchTag(tag byte) error {
	switch tag {
	case tagUndef:
		if err := p.pp.BeginValue(llsd.TypeUndef); err != nil {
			return err
		}
		if err := p.sink.Undef(); err != nil {
			return err
		}
		return p.pp.EndValue(llsd.TypeUndef)
	case tagFalse, tagTrue:
		if err := p.pp.BeginValue(llsd.TypeBoolean); err != nil {
			return err
		}
		if err := p.sink.Boolean(tag == tagTrue); err != nil {
			return err
		}
		return p.pp.EndValue(llsd.TypeBoolean)
	case tagInteger:
		b, err := p.readFull(4)
		if err != nil {
			return err
		}
		v := int32(binary.BigEndian.Uint32(b))
		if err := p.pp.BeginValue(llsd.TypeInteger); err != nil {
			return err
		}
		if err := p.sink.Integer(v); err != nil {
			return err
		}
		return p.pp.EndValue(llsd.TypeInteger)
	case tagReal:
		b, err := p.readFull(8)
		if err != nil {
			return err
		}
		v := math.Float64frombits(binary.BigEndian.Uint64(b))
		if err := p.pp.BeginValue(llsd.TypeReal); err != nil {
			return err
		}
		if err := p.sink.Real(v); err != nil {
			return err
		}
		return p.pp.EndValue(llsd.TypeReal)
	case tagUUID:
		b, err := p.readFull(16)
		if err != nil {
			return err
		}
		var bs [16]byte
		copy(bs[:], b)
		if err := p.pp.BeginValue(llsd.TypeUUID); err != nil {
			return err
		}
		if err := p.sink.UUID(bs); err != nil {
			return err
		}
		return p.pp.EndValue(llsd.TypeUUID)
	case tagDate:
		b, err := p.readFull(8)
		if err != nil {
			return err
		}
		v := math.Float64frombits(binary.BigEndian.Uint64(b))
		if err := p.pp.BeginValue(llsd.TypeDate); err != nil {
			return err
		}
		if err := p.sink.Date(v); err != nil {
			return err
		}
		return p.pp.EndValue(llsd.TypeDate)
	case tagString:
		s, err := p.readLenPrefixed()
		if err != nil {
			return err
		}
		if err := p.pp.BeginValue(llsd.TypeString); err != nil {
			return err
		}
		if err := p.sink.String(s); err != nil {
			return err
		}
		return p.pp.EndValue(llsd.TypeString)
	case tagURI:
		s, err := p.readLenPrefixed()
		if err != nil {
			return err
		}
		if err := p.pp.BeginValue(llsd.TypeURI); err != nil {
			return err
		}
		if err := p.sink.URI(s); err != nil {
			return err
		}
		return p.pp.EndValue(llsd.TypeURI)
	case tagBinary:
		data, err := p.readLenPrefixedBytes()
		if err != nil {
			return err
		}
		if err := p.pp.BeginValue(llsd.TypeBinary); err != nil {
			return err
		}
		if err := p.sink.Binary(data, llsd.EncodingBase64); err != nil {
			return err
		}
		return p.pp.EndValue(llsd.TypeBinary)
	case tagArrayBegin:
		return p.readArray()
	case tagMapBegin:
		return p.readMap()
	default:
		if p.opts != nil && p.opts.Logger != nil {
			p.opts.Logger.Debugf("llsd/binary: unknown tag %q at offset %d", tag, p.pos-1)
		}
		return errors.Wrapf(llsd.ErrUnknownTag, "tag %q at offset %d", tag, p.pos-1)
	}
}

func (p *Parser) readLenPrefixed() (string, error) {
	data, err := p.readLenPrefixedBytes()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (p *Parser) readLenPrefixedBytes() ([]byte, error) {
	n, err := p.readUint32()
	if err != nil {
		return nil, err
	}
	return p.readFull(int(n))
}

func (p *Parser) readArray() error {
	if err := p.pp.BeginValue(llsd.TypeArray); err != nil {
		return err
	}
	count, err := p.readUint32()
	if err != nil {
		return err
	}
	if err := p.pp.OpenArray(int(count)); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if err := p.readValue(); err != nil {
			return err
		}
	}
	tag, err := p.readTag()
	if err != nil {
		return err
	}
	if tag != tagArrayEnd {
		return fmt.Errorf("%w: expected array terminator, got %q", llsd.ErrUnclosedContainer, tag)
	}
	if err := p.pp.CloseArray(); err != nil {
		return err
	}
	return p.pp.EndValue(llsd.TypeArray)
}

func (p *Parser) readMap() error {
	if err := p.pp.BeginValue(llsd.TypeMap); err != nil {
		return err
	}
	count, err := p.readUint32()
	if err != nil {
		return err
	}
	if err := p.pp.OpenMap(int(count)); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		tag, err := p.readTag()
		if err != nil {
			return err
		}
		if tag != tagString {
			return fmt.Errorf("%w: map key must be string tag, got %q", llsd.ErrMapKeyNotString, tag)
		}
		key, err := p.readLenPrefixed()
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
		if err := p.readValue(); err != nil {
			return err
		}
	}
	tag, err := p.readTag()
	if err != nil {
		return err
	}
	if tag != tagMapEnd {
		return fmt.Errorf("%w: expected map terminator, got %q", llsd.ErrUnclosedContainer, tag)
	}
	if err := p.pp.CloseMap(); err != nil {
		return err
	}
	return p.pp.EndValue(llsd.TypeMap)
}

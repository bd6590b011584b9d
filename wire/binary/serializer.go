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
	"io"
	"math"

	llsd "go.rtnl.ai/llsd"
)

// Serializer implements llsd.Sink by writing the binary wire grammar; the
// root package's generic driver (Walk) drives it. Container sizes are
// known up front from the Value tree, so ArrayBegin/MapBegin write the
// count immediately rather than needing two passes.
type Serializer struct {
	w   io.Writer
	err error
}

func (s *Serializer) write(b []byte) error {
	if s.err != nil {
		return s.err
	}
	_, s.err = s.w.Write(b)
	return s.err
}

func (s *Serializer) writeTag(tag byte) error { return s.write([]byte{tag}) }

func (s *Serializer) writeUint32(n uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	return s.write(b[:])
}

func (s *Serializer) writeLenPrefixed(tag byte, data []byte) error {
	if err := s.writeTag(tag); err != nil {
		return err
	}
	if err := s.writeUint32(uint32(len(data))); err != nil {
		return err
	}
	return s.write(data)
}

func (s *Serializer) Undef() error { return s.writeTag(tagUndef) }

func (s *Serializer) Boolean(b bool) error {
	if b {
		return s.writeTag(tagTrue)
	}
	return s.writeTag(tagFalse)
}

func (s *Serializer) Integer(i int32) error {
	if err := s.writeTag(tagInteger); err != nil {
		return err
	}
	return s.writeUint32(uint32(i))
}

func (s *Serializer) Real(r float64) error {
	if err := s.writeTag(tagReal); err != nil {
		return err
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(r))
	return s.write(b[:])
}

func (s *Serializer) UUID(bs [16]byte) error {
	if err := s.writeTag(tagUUID); err != nil {
		return err
	}
	return s.write(bs[:])
}

func (s *Serializer) Date(seconds float64) error {
	if err := s.writeTag(tagDate); err != nil {
		return err
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(seconds))
	return s.write(b[:])
}

func (s *Serializer) String(v string) error { return s.writeLenPrefixed(tagString, []byte(v)) }
func (s *Serializer) URI(v string) error    { return s.writeLenPrefixed(tagURI, []byte(v)) }

// Binary writes the payload as raw octets; the encoding hint is a
// textual-format concern and has no wire representation here.
func (s *Serializer) Binary(v []byte, _ llsd.Encoding) error {
	return s.writeLenPrefixed(tagBinary, v)
}

func (s *Serializer) ArrayBegin(hint int) error {
	if err := s.writeTag(tagArrayBegin); err != nil {
		return err
	}
	return s.writeUint32(uint32(hint))
}

func (s *Serializer) ArrayValueBegin() error { return nil }
func (s *Serializer) ArrayValueEnd() error   { return nil }
func (s *Serializer) ArrayEnd(int) error     { return s.writeTag(tagArrayEnd) }

func (s *Serializer) MapBegin(hint int) error {
	if err := s.writeTag(tagMapBegin); err != nil {
		return err
	}
	return s.writeUint32(uint32(hint))
}

func (s *Serializer) MapKeyBegin() error   { return nil }
func (s *Serializer) MapKeyEnd() error     { return nil }
func (s *Serializer) MapValueBegin() error { return nil }
func (s *Serializer) MapValueEnd() error   { return nil }
func (s *Serializer) MapEnd(int) error     { return s.writeTag(tagMapEnd) }

var _ llsd.Sink = (*Serializer)(nil)

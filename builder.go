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

package llsd

import "fmt"

// Builder is a Sink that reconstructs a Value tree from the canonical
// event sequence — the consumer side that mirrors Walk's producer side.
// Every format parser in the wire/ subpackages drives a PushParser whose
// downstream Sink is a Builder to get a tree back out; callers who want
// to stream-process events directly (spec §6.5's "SAX-parse entry point")
// supply their own Sink instead and skip Builder entirely.
//
// A Builder is not reentrant across container levels by holding a flat
// slice; it keeps its own stack of in-progress containers, since
// containers may nest arbitrarily deep and siblings must be attached to
// the right parent once closed.
type Builder struct {
	root    Value
	hasRoot bool

	stack []containerFrame
}

type containerFrame struct {
	arr      *Array
	m        *Map
	key      string // map frames only: the key most recently closed
	havePend bool   // map frames only: key is still waiting for its value
}

// NewBuilder returns an empty Builder ready to receive one value's worth
// of events.
func NewBuilder() *Builder { return &Builder{} }

// Value returns the value assembled so far. Valid once the top-level
// value's closing event has been delivered.
func (b *Builder) Value() (Value, error) {
	if !b.hasRoot {
		return Value{}, fmt.Errorf("llsd: builder has no completed value")
	}
	return b.root, nil
}

func (b *Builder) attach(v Value) error {
	if len(b.stack) == 0 {
		if b.hasRoot {
			return ErrTrailingData
		}
		b.root = v
		b.hasRoot = true
		return nil
	}
	top := &b.stack[len(b.stack)-1]
	if top.arr != nil {
		top.arr.Append(v)
		return nil
	}
	if !top.havePend {
		return fmt.Errorf("llsd: map value with no pending key")
	}
	// Map.Insert would silently replace; a wire document that binds the
	// same key twice is malformed input and rejected here, on the one
	// path every format's parse runs through.
	if _, exists := top.m.Find(top.key); exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, top.key)
	}
	top.m.Insert(top.key, v)
	top.havePend = false
	return nil
}

func (b *Builder) Undef() error          { return b.attach(NewUndef()) }
func (b *Builder) Boolean(v bool) error  { return b.attach(NewBoolean(v)) }
func (b *Builder) Integer(v int32) error { return b.attach(NewInteger(v)) }
func (b *Builder) Real(v float64) error  { return b.attach(NewReal(v)) }
func (b *Builder) UUID(v [16]byte) error { return b.attach(NewUUID(v)) }
func (b *Builder) Date(v float64) error  { return b.attach(NewDate(v)) }

func (b *Builder) Binary(v []byte, enc Encoding) error {
	return b.attach(NewBinaryEncoded(v, enc, true))
}

func (b *Builder) URI(v string) error { return b.attach(NewURI(v, true)) }

// String is used both for string-typed values and, inside a map, for the
// key itself (spec §4.4 grammar: map_key_begin, string, map_key_end). We
// can't tell which from the Sink method alone, so Builder tracks whether
// the current map frame is awaiting a key or a value the same way
// PushParser does on the producer side.
func (b *Builder) String(v string) error {
	if len(b.stack) > 0 {
		top := &b.stack[len(b.stack)-1]
		if top.m != nil && !top.havePend {
			top.key = v
			top.havePend = true
			return nil
		}
	}
	return b.attach(NewString(v, true))
}

func (b *Builder) ArrayBegin(hint int) error {
	b.stack = append(b.stack, containerFrame{arr: NewArrayContainerWithCapacity(hint)})
	return nil
}

func (b *Builder) ArrayValueBegin() error { return nil }
func (b *Builder) ArrayValueEnd() error   { return nil }

func (b *Builder) ArrayEnd(size int) error {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return b.attach(NewArrayFrom(top.arr))
}

func (b *Builder) MapBegin(hint int) error {
	b.stack = append(b.stack, containerFrame{m: NewMapContainerWithCapacity(hint)})
	return nil
}

func (b *Builder) MapKeyBegin() error   { return nil }
func (b *Builder) MapKeyEnd() error     { return nil }
func (b *Builder) MapValueBegin() error { return nil }
func (b *Builder) MapValueEnd() error   { return nil }

func (b *Builder) MapEnd(size int) error {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return b.attach(NewMapFrom(top.m))
}

var _ Sink = (*Builder)(nil)

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

type frameKind int

const (
	frameTop frameKind = iota
	frameArray
	frameMap
)

// frame is one entry of the PushParser's state stack (spec §4.5): one
// per open container, plus a permanent TOP_LEVEL frame at the bottom.
type frame struct {
	kind  frameKind
	count int  // values completed in this frame so far
	inKey bool // frameMap only: true while MAP_KEY_BEGIN/MAP_KEY_END is expected next
}

// PushParser is the shared state machine of spec §4.5. Wire formats don't
// emit "value begin/end" events directly — they only emit scalar tokens
// and container open/close markers — so each format's parser drives this
// machine's BeginValue/EndValue/OpenArray/OpenMap/CloseArray/CloseMap
// methods around its own raw token reads, and the machine synthesizes
// the matching ArrayValueBegin/End, MapKeyBegin/End, and
// MapValueBegin/End wrapper events on the user's Sink — the single place
// that logic lives instead of once per format (spec §9: "Factor into a
// single generic state-machine helper").
//
// The state stack is the parser's only structural memory; each container
// pushes a frame on Open* and pops it on Close*. A complete parse leaves
// exactly one frame — TOP_LEVEL — with one value counted.
type PushParser struct {
	sink  Sink
	stack []frame
}

// NewPushParser returns a PushParser that will replay validated events
// onto sink.
func NewPushParser(sink Sink) *PushParser {
	return &PushParser{sink: sink, stack: []frame{{kind: frameTop}}}
}

func (p *PushParser) top() *frame { return &p.stack[len(p.stack)-1] }

// BeginValue must be called by the format parser immediately before it
// starts reading any value — scalar or container. kind is the value's
// Type if already known (a format may not know a scalar's exact type
// until it finishes reading it; pass the best guess, it's only used to
// validate map-key placement). BeginValue fails if a non-string Kind
// appears where a map key is expected (spec §3.2's "non-string key"
// invariant, enforced at the event boundary) or if a second top-level
// value is attempted (spec §1 "one complete value").
func (p *PushParser) BeginValue(kind Kind) error {
	f := p.top()
	switch f.kind {
	case frameTop:
		if f.count > 0 {
			return ErrTrailingData
		}
		return nil
	case frameArray:
		return p.sink.ArrayValueBegin()
	case frameMap:
		if f.inKey {
			if kind != TypeString {
				return fmt.Errorf("%w: got %s", ErrMapKeyNotString, kind)
			}
			return p.sink.MapKeyBegin()
		}
		return p.sink.MapValueBegin()
	}
	return nil
}

// EndValue must be called immediately after the format parser finishes
// reading the value begun with the matching BeginValue call. It emits
// the paired wrapper-end event and, for map frames, flips between
// expecting a key and expecting a value.
func (p *PushParser) EndValue(kind Kind) error {
	f := p.top()
	switch f.kind {
	case frameTop:
		f.count++
		return nil
	case frameArray:
		f.count++
		return p.sink.ArrayValueEnd()
	case frameMap:
		if f.inKey {
			f.inKey = false
			return p.sink.MapKeyEnd()
		}
		f.inKey = true
		f.count++
		return p.sink.MapValueEnd()
	}
	return nil
}

// OpenArray begins a new array container: it must be called between a
// BeginValue/EndValue pair (or, at the top level, with nothing else open)
// once the format parser recognizes an array-start token. hint is the
// element count if known up front, 0 otherwise.
func (p *PushParser) OpenArray(hint int) error {
	if err := p.sink.ArrayBegin(hint); err != nil {
		return err
	}
	p.stack = append(p.stack, frame{kind: frameArray})
	return nil
}

// CloseArray ends the array container opened by the matching OpenArray,
// emitting ArrayEnd with the actual element count observed.
func (p *PushParser) CloseArray() error {
	if len(p.stack) < 2 || p.top().kind != frameArray {
		return fmt.Errorf("%w: array close with no matching open", ErrUnclosedContainer)
	}
	f := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	return p.sink.ArrayEnd(f.count)
}

// OpenMap begins a new map container.
func (p *PushParser) OpenMap(hint int) error {
	if err := p.sink.MapBegin(hint); err != nil {
		return err
	}
	p.stack = append(p.stack, frame{kind: frameMap, inKey: true})
	return nil
}

// CloseMap ends the map container opened by the matching OpenMap. It
// fails if a key has been read without a matching value (the format
// parser let a key/value pair hang open), which would mean Close was
// called mid-pair.
func (p *PushParser) CloseMap() error {
	if len(p.stack) < 2 || p.top().kind != frameMap {
		return fmt.Errorf("%w: map close with no matching open", ErrUnclosedContainer)
	}
	f := p.stack[len(p.stack)-1]
	if !f.inKey {
		return fmt.Errorf("%w: map closed with a key missing its value", ErrUnclosedContainer)
	}
	p.stack = p.stack[:len(p.stack)-1]
	return p.sink.MapEnd(f.count)
}

// Depth returns how many containers are currently open (0 at the top
// level with nothing yet open).
func (p *PushParser) Depth() int { return len(p.stack) - 1 }

// Done reports whether the parser has returned to TOP_LEVEL having
// consumed exactly one value — the "complete parse" condition of spec
// §4.5 ("the stack to contain exactly TOP_LEVEL at EOF").
func (p *PushParser) Done() bool {
	return len(p.stack) == 1 && p.stack[0].count == 1
}

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

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Format names one of the four wire formats of spec §4.6.
type Format string

const (
	FormatBinary   Format = "binary"
	FormatNotation Format = "notation"
	FormatXML      Format = "xml"
	FormatJSON     Format = "json"
)

// Options carries the per-call knobs of spec §4.8/§6.5: pretty-printing
// and an optional debug log sink. The zero Options is compact output
// with no logging, matching the teacher's zero-value-is-useful
// constructors (New, Pool, Monotonic all work with zero-ish defaults).
type Options struct {
	// Pretty toggles newline/indentation in XML, notation and JSON
	// output; meaningless for binary (spec §4.8).
	Pretty bool

	// Indent is the per-level indent string used when Pretty is set.
	// Defaults to two spaces if empty.
	Indent string

	// Logger receives Debug-level diagnostics for malformed input,
	// including byte offset (and line/column where a format tracks it).
	// Nil disables logging (spec §5's "move into the per-invocation
	// state object to regain reentrancy" — there is no process-wide
	// logger here).
	Logger *logrus.Logger
}

func (o *Options) indent() string {
	if o == nil || o.Indent == "" {
		return "  "
	}
	return o.Indent
}

func (o *Options) pretty() bool { return o != nil && o.Pretty }

func (o *Options) log() *logrus.Logger {
	if o == nil || o.Logger == nil {
		return nil
	}
	return o.Logger
}

func (o *Options) debugf(format string, args ...interface{}) {
	if l := o.log(); l != nil {
		l.Debugf(format, args...)
	}
}

// FormatParser is implemented by each wire format's parser. Parse
// consumes exactly one complete value from the stream the parser was
// constructed against, replaying the canonical event sequence onto sink
// (spec §1 "Non-goals": no partial/resumable parsing).
type FormatParser interface {
	Parse(sink Sink) error
}

// ParserFactory constructs a FormatParser reading from r.
type ParserFactory func(r io.Reader, opts *Options) FormatParser

// SerializerFactory constructs a Sink that writes w in the format's wire
// syntax; Walk (driver.go) drives it. The factory is responsible for
// emitting any leading signature bytes before returning.
type SerializerFactory func(w io.Writer, opts *Options) (Sink, error)

// SniffFunc reports whether peek — the leading bytes of a stream — match
// a format's signature. JSON has none and is never registered as a
// sniffer; it is always the fallback (spec §4.6.4, §4.8).
type SniffFunc func(peek []byte) bool

type formatDriver struct {
	sniff         SniffFunc
	newParser     ParserFactory
	newSerializer SerializerFactory
}

var registry = map[Format]formatDriver{}

// sniffOrder is the order top-level Parse tries signature-bearing
// formats before falling back to JSON (spec §4.8: "JSON is the default
// fallback because it has no signature"). Order among the three signed
// formats doesn't matter since their signatures are disjoint; kept fixed
// for deterministic error messages.
var sniffOrder []Format

// RegisterFormat installs a format's driver. Wire format packages call
// this from an init() function — the same self-registration pattern the
// standard library uses for image and database/sql/driver back ends —
// so the root package never imports wire/* directly and no import cycle
// exists between the engine and its format drivers.
func RegisterFormat(name Format, sniff SniffFunc, newParser ParserFactory, newSerializer SerializerFactory) {
	registry[name] = formatDriver{sniff: sniff, newParser: newParser, newSerializer: newSerializer}
	if sniff != nil {
		sniffOrder = append(sniffOrder, name)
	}
}

// maxSignaturePeek is large enough to cover every registered format's
// signature (binary/notation are 18 bytes; XML's declaration can run
// longer depending on whitespace).
const maxSignaturePeek = 64

// Parse reads exactly one complete LLSD value from r, auto-detecting the
// wire format by signature sniffing (spec §4.8) and falling back to JSON
// when no signature matches.
func Parse(r io.Reader, opts *Options) (Value, error) {
	br := bufio.NewReaderSize(r, maxSignaturePeek*2)
	peek, _ := br.Peek(maxSignaturePeek)

	format := FormatJSON
	for _, name := range sniffOrder {
		if registry[name].sniff(peek) {
			format = name
			break
		}
	}
	opts.debugf("llsd: dispatching parse to %s format", format)
	return ParseFormat(br, format, opts)
}

// ParseFormat parses r as an explicitly named format, skipping signature
// sniffing. Useful when the caller already knows the wire format.
func ParseFormat(r io.Reader, format Format, opts *Options) (Value, error) {
	drv, ok := registry[format]
	if !ok {
		return Value{}, errors.Wrapf(ErrUnregisteredFormat, "format %q", format)
	}
	builder := NewBuilder()
	parser := drv.newParser(r, opts)
	if err := parser.Parse(builder); err != nil {
		return Value{}, errors.Wrapf(err, "parsing %s", format)
	}
	v, err := builder.Value()
	if err != nil {
		return Value{}, errors.Wrapf(err, "parsing %s", format)
	}
	return v, nil
}

// ParseSAX parses r as format, delivering the event stream directly to
// sink without building a Value tree — the public streaming entry point
// of spec §6.5, for callers who want to process a document without
// materializing it.
func ParseSAX(r io.Reader, format Format, sink Sink, opts *Options) error {
	drv, ok := registry[format]
	if !ok {
		return errors.Wrapf(ErrUnregisteredFormat, "format %q", format)
	}
	return drv.newParser(r, opts).Parse(sink)
}

// Serialize writes v to w in the given format (spec §4.8). pretty
// toggles indentation for the textual formats and is ignored by binary.
func Serialize(v Value, format Format, w io.Writer, opts *Options) error {
	drv, ok := registry[format]
	if !ok {
		return errors.Wrapf(ErrUnregisteredFormat, "format %q", format)
	}
	sink, err := drv.newSerializer(w, opts)
	if err != nil {
		return errors.Wrapf(err, "initializing %s serializer", format)
	}
	if err := Walk(v, sink); err != nil {
		return errors.Wrapf(err, "serializing %s", format)
	}
	return nil
}

// MustRegistered panics if format has no driver registered, for callers
// that want a missing blank import to fail fast at startup rather than
// surface ErrUnregisteredFormat deep in a call stack.
func MustRegistered(format Format) {
	if _, ok := registry[format]; !ok {
		panic(fmt.Sprintf("llsd: format %q not registered (missing blank import?)", format))
	}
}

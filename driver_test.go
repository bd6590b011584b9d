package llsd_test

import (
	"bytes"
	"errors"
	"testing"

	llsd "go.rtnl.ai/llsd"

	_ "go.rtnl.ai/llsd/wire/notation"
)

func sampleTree() llsd.Value {
	m := llsd.NewMapContainer()
	m.Insert("name", llsd.NewString("sample", true))
	m.Insert("id", llsd.NewUUID([16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}))
	arr := llsd.NewArrayContainer()
	arr.Append(llsd.NewInteger(1))
	arr.Append(llsd.NewBoolean(false))
	arr.Append(llsd.NewUndef())
	inner := llsd.NewMapContainer()
	inner.Insert("deep", llsd.NewReal(2.5))
	arr.Append(llsd.NewMapFrom(inner))
	m.Insert("items", llsd.NewArrayFrom(arr))
	return llsd.NewMapFrom(m)
}

// TestWalkBuilderIdentity drives the generic serialization walk straight
// into a Builder: replaying a value's own event stream must reconstruct
// an equal value.
func TestWalkBuilderIdentity(t *testing.T) {
	v := sampleTree()
	b := llsd.NewBuilder()
	if err := llsd.Walk(v, b); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	got, err := b.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if !llsd.Equal(v, got) {
		t.Fatalf("rebuilt value differs: %#v != %#v", v, got)
	}
}

// rejectingSink fails every integer event; everything else builds
// normally.
type rejectingSink struct {
	*llsd.Builder
}

var errRejected = errors.New("no integers today")

func (s rejectingSink) Integer(int32) error { return errRejected }

// TestCallbackRejectionAborts is spec §7 kind 5: an error from a user
// callback aborts the parse with that error.
func TestCallbackRejectionAborts(t *testing.T) {
	doc := "<?llsd/notation?>\n[i1, i2]"
	sink := rejectingSink{llsd.NewBuilder()}
	err := llsd.ParseSAX(bytes.NewReader([]byte(doc)), llsd.FormatNotation, sink, nil)
	if !errors.Is(err, errRejected) {
		t.Fatalf("ParseSAX error = %v, want %v", err, errRejected)
	}
}

// countingSink tallies events without building anything, the
// stream-processing use the SAX entry point exists for.
type countingSink struct {
	scalars    int
	arrays     int
	maps       int
	mapEntries int
}

func (s *countingSink) Undef() error        { s.scalars++; return nil }
func (s *countingSink) Boolean(bool) error  { s.scalars++; return nil }
func (s *countingSink) Integer(int32) error { s.scalars++; return nil }
func (s *countingSink) Real(float64) error  { s.scalars++; return nil }
func (s *countingSink) UUID([16]byte) error { s.scalars++; return nil }
func (s *countingSink) String(string) error { s.scalars++; return nil }
func (s *countingSink) Date(float64) error  { s.scalars++; return nil }
func (s *countingSink) URI(string) error    { s.scalars++; return nil }

func (s *countingSink) Binary([]byte, llsd.Encoding) error { s.scalars++; return nil }

func (s *countingSink) ArrayBegin(int) error   { s.arrays++; return nil }
func (s *countingSink) ArrayValueBegin() error { return nil }
func (s *countingSink) ArrayValueEnd() error   { return nil }
func (s *countingSink) ArrayEnd(int) error     { return nil }

func (s *countingSink) MapBegin(int) error   { s.maps++; return nil }
func (s *countingSink) MapKeyBegin() error   { return nil }
func (s *countingSink) MapKeyEnd() error     { return nil }
func (s *countingSink) MapValueBegin() error { s.mapEntries++; return nil }
func (s *countingSink) MapValueEnd() error   { return nil }
func (s *countingSink) MapEnd(int) error     { return nil }

func TestParseSAXStreams(t *testing.T) {
	doc := "<?llsd/notation?>\n{'a':i1, 'b':[i2, i3], 'c':!}"
	var sink countingSink
	if err := llsd.ParseSAX(bytes.NewReader([]byte(doc)), llsd.FormatNotation, &sink, nil); err != nil {
		t.Fatalf("ParseSAX: %v", err)
	}
	// Scalars: three keys plus i1, i2, i3 and the undef.
	if sink.scalars != 7 {
		t.Errorf("scalars = %d, want 7", sink.scalars)
	}
	if sink.arrays != 1 || sink.maps != 1 {
		t.Errorf("containers = %d arrays, %d maps; want 1, 1", sink.arrays, sink.maps)
	}
	if sink.mapEntries != 3 {
		t.Errorf("map entries = %d, want 3", sink.mapEntries)
	}
}

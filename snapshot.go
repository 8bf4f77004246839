package sensorboard

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// ErrInvalidSnapshot is returned (wrapped) when a response body is not valid
// JSON or does not match the expected [Shape].
var ErrInvalidSnapshot = errors.New("invalid snapshot")

var snapshotJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Sample is a single measured point.
type Sample struct {
	// Time is the measurement time in epoch seconds.
	Time int64 `json:"time"`

	// Value is the measured value.
	Value float64 `json:"value"`
}

// At returns the sample time as a [time.Time].
func (s Sample) At() time.Time {
	return time.Unix(s.Time, 0)
}

// Summary aggregates a stream's retained history on the server.
//
// Last is nil when the server holds no points for the stream. Min, Max and
// Mean are nil when the server could not compute them (they arrive as JSON
// null). The server guarantees Min <= Last.Value <= Max; it is not checked.
type Summary struct {
	Last *Sample  `json:"last"`
	Min  *float64 `json:"min"`
	Max  *float64 `json:"max"`
	Mean *float64 `json:"mean"`
}

// Stream is one named entry of a [Snapshot]. Exactly one of Sample and
// Summary is set, matching the snapshot's Shape.
type Stream struct {
	Name    string
	Sample  *Sample
	Summary *Summary
}

// Snapshot is the decoded document returned by one poll.
//
// Streams keep the key order of the received document.
type Snapshot struct {
	Shape   Shape
	Streams []Stream
}

// Len returns the number of streams.
func (s Snapshot) Len() int {
	return len(s.Streams)
}

// Names returns stream names in document order.
func (s Snapshot) Names() []string {
	names := make([]string, len(s.Streams))
	for i, st := range s.Streams {
		names[i] = st.Name
	}
	return names
}

// Lookup returns the stream with the given name.
func (s Snapshot) Lookup(name string) (Stream, bool) {
	for _, st := range s.Streams {
		if st.Name == name {
			return st, true
		}
	}
	return Stream{}, false
}

// DecodeSnapshot parses a response body into a [Snapshot] of the given shape.
//
// The document must be a JSON object mapping unique stream names to payloads
// of the given shape. Key order is preserved. Any violation is reported as an
// error wrapping [ErrInvalidSnapshot].
func DecodeSnapshot(data []byte, shape Shape) (Snapshot, error) {
	if shape != ShapeSample && shape != ShapeSummary {
		return Snapshot{}, fmt.Errorf("%w: unknown shape %s", ErrInvalidSnapshot, shape)
	}

	iter := snapshotJSON.BorrowIterator(data)
	defer snapshotJSON.ReturnIterator(iter)

	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return Snapshot{}, fmt.Errorf("%w: document must be a JSON object", ErrInvalidSnapshot)
	}

	snap := Snapshot{Shape: shape, Streams: []Stream{}}
	seen := make(map[string]struct{})
	var streamErr error

	iter.ReadMapCB(func(it *jsoniter.Iterator, name string) bool {
		if _, dup := seen[name]; dup {
			streamErr = fmt.Errorf("duplicate stream %q", name)
			return false
		}
		seen[name] = struct{}{}

		stream := Stream{Name: name}
		var err error
		if shape == ShapeSample {
			stream.Sample, err = readSample(it)
		} else {
			stream.Summary, err = readSummary(it)
		}
		if err != nil {
			streamErr = fmt.Errorf("stream %q: %w", name, err)
			return false
		}
		snap.Streams = append(snap.Streams, stream)
		return true
	})

	if streamErr != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, streamErr)
	}
	if iter.Error == io.EOF {
		return Snapshot{}, fmt.Errorf("%w: unexpected end of document", ErrInvalidSnapshot)
	}
	if iter.Error != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, iter.Error)
	}

	// only whitespace may follow the object
	if next := iter.WhatIsNext(); next != jsoniter.InvalidValue || iter.Error != io.EOF {
		return Snapshot{}, fmt.Errorf("%w: unexpected data after document", ErrInvalidSnapshot)
	}

	return snap, nil
}

// readSample reads a {time, value} object. Both fields are required.
func readSample(it *jsoniter.Iterator) (*Sample, error) {
	if it.WhatIsNext() != jsoniter.ObjectValue {
		return nil, errors.New("sample must be an object")
	}

	var (
		s                 Sample
		hasTime, hasValue bool
		fieldErr          error
	)
	it.ReadMapCB(func(it *jsoniter.Iterator, field string) bool {
		switch field {
		case "time":
			ts, ok := readInteger(it)
			if !ok {
				fieldErr = errors.New(`"time" must be an integer`)
				return false
			}
			s.Time = ts
			hasTime = true
		case "value":
			if it.WhatIsNext() != jsoniter.NumberValue {
				fieldErr = errors.New(`"value" must be a number`)
				return false
			}
			s.Value = it.ReadFloat64()
			hasValue = true
		default:
			it.Skip()
		}
		return it.Error == nil
	})

	if fieldErr != nil {
		return nil, fieldErr
	}
	if it.Error != nil {
		return nil, it.Error
	}
	if !hasTime {
		return nil, errors.New(`missing "time"`)
	}
	if !hasValue {
		return nil, errors.New(`missing "value"`)
	}
	return &s, nil
}

// readSummary reads a {last, min, max, mean} object. All four fields are
// required; each may be null.
func readSummary(it *jsoniter.Iterator) (*Summary, error) {
	if it.WhatIsNext() != jsoniter.ObjectValue {
		return nil, errors.New("summary must be an object")
	}

	var (
		sum      Summary
		present  = make(map[string]bool, 4)
		fieldErr error
	)
	it.ReadMapCB(func(it *jsoniter.Iterator, field string) bool {
		switch field {
		case "last":
			present[field] = true
			if it.ReadNil() {
				return true
			}
			last, err := readSample(it)
			if err != nil {
				fieldErr = fmt.Errorf(`"last": %w`, err)
				return false
			}
			sum.Last = last
		case "min", "max", "mean":
			present[field] = true
			v, err := readNullableNumber(it, field)
			if err != nil {
				fieldErr = err
				return false
			}
			switch field {
			case "min":
				sum.Min = v
			case "max":
				sum.Max = v
			default:
				sum.Mean = v
			}
		default:
			it.Skip()
		}
		return it.Error == nil
	})

	if fieldErr != nil {
		return nil, fieldErr
	}
	if it.Error != nil {
		return nil, it.Error
	}
	for _, field := range []string{"last", "min", "max", "mean"} {
		if !present[field] {
			return nil, fmt.Errorf("missing %q", field)
		}
	}
	return &sum, nil
}

// readInteger reads a JSON number written as a plain integer. Fractions,
// exponents and out-of-range values are rejected.
func readInteger(it *jsoniter.Iterator) (int64, bool) {
	if it.WhatIsNext() != jsoniter.NumberValue {
		return 0, false
	}
	n := it.ReadNumber()
	if it.Error != nil {
		return 0, false
	}
	v, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func readNullableNumber(it *jsoniter.Iterator, field string) (*float64, error) {
	if it.ReadNil() {
		return nil, nil
	}
	if it.WhatIsNext() != jsoniter.NumberValue {
		return nil, fmt.Errorf("%q must be a number or null", field)
	}
	v := it.ReadFloat64()
	return &v, nil
}

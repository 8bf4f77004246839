package sensorboard

import (
	"io"
	"sync"
)

// Sink is a display region. SetContent replaces the region's whole content;
// nothing from the previous content may remain.
//
// Sinks are called from the polling goroutine only, one cycle at a time.
// A sink that is also read from other goroutines must synchronize itself.
type Sink interface {
	SetContent(content string)
}

// SinkFunc adapts a plain function to a [Sink].
type SinkFunc func(content string)

// SetContent calls f(content).
func (f SinkFunc) SetContent(content string) {
	f(content)
}

// WriterSink writes every frame to an [io.Writer], followed by a newline.
//
// Useful for one-shot output to stdout or for piping frames to another tool.
type WriterSink struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

// NewWriterSink creates a [WriterSink] writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// SetContent writes content and a trailing newline.
func (s *WriterSink) SetContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, content+"\n"); err != nil && s.err == nil {
		s.err = err
	}
}

// Err returns the first write error, if any.
func (s *WriterSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// sinkBinding pairs a sink with the format it expects.
type sinkBinding struct {
	format Format
	sink   Sink
}

package main

import (
	"io"
	"sync"
)

// logOutput is a writer whose destination can be replaced while loggers
// built on it stay in use.
type logOutput struct {
	mu sync.Mutex
	w  io.Writer
}

func newLogOutput(w io.Writer) *logOutput {
	return &logOutput{w: w}
}

func (o *logOutput) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.w.Write(p)
}

// Set redirects all later writes to w.
func (o *logOutput) Set(w io.Writer) {
	o.mu.Lock()
	o.w = w
	o.mu.Unlock()
}

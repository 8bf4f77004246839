package store

import (
	"sync"
	"time"
)

// subscriberBuffer is the per-subscriber frame buffer. Frames are whole-region
// replacements, so a subscriber only ever needs the most recent few.
const subscriberBuffer = 16

// Display is an in-memory implementation of [Store].
//
// Display provides thread-safe storage of the current frame with a
// publish-subscribe mechanism for real-time updates. Frames are sent
// non-blocking; if a subscriber's buffer is full, the frame is dropped for
// that subscriber to prevent blocking the poll loop.
type Display struct {
	mu      sync.RWMutex
	current Frame
	hasData bool

	subscribers map[chan Frame]struct{}
	subMu       sync.RWMutex

	now func() time.Time
}

// NewDisplay creates an empty [Display].
func NewDisplay() *Display {
	return &Display{
		subscribers: make(map[chan Frame]struct{}),
		now:         time.Now,
	}
}

// SetContent stores a new frame holding content and notifies all subscribers.
func (d *Display) SetContent(content string) {
	d.mu.Lock()
	frame := Frame{
		Content:   content,
		Version:   d.current.Version + 1,
		UpdatedAt: d.now(),
	}
	d.current = frame
	d.hasData = true
	d.mu.Unlock()

	d.notifySubscribers(frame)
}

// Current returns the latest frame.
func (d *Display) Current() (Frame, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current, d.hasData
}

// Subscribe creates a new subscription and returns a channel for receiving
// frames.
//
// Caller must call [Display.Unsubscribe] when done to prevent resource leaks.
func (d *Display) Subscribe() <-chan Frame {
	ch := make(chan Frame, subscriberBuffer)

	d.subMu.Lock()
	d.subscribers[ch] = struct{}{}
	d.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times or with an unknown channel.
func (d *Display) Unsubscribe(ch <-chan Frame) {
	d.subMu.Lock()
	defer d.subMu.Unlock()

	for subCh := range d.subscribers {
		if subCh == ch {
			delete(d.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the frame to all active subscribers without
// blocking.
func (d *Display) notifySubscribers(frame Frame) {
	d.subMu.RLock()
	defer d.subMu.RUnlock()

	for ch := range d.subscribers {
		select {
		case ch <- frame:
		default:
			// subscriber is slow, drop the frame
		}
	}
}

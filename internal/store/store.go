package store

import "time"

// Frame is one rendered version of the display region.
//
// Frame is the JSON payload of the content API and of every SSE event.
type Frame struct {
	// Content is the complete region markup. It replaces any previous content.
	Content string `json:"content"`

	// Version increases by one with every update, starting at 1.
	Version uint64 `json:"version"`

	// UpdatedAt is when the frame was stored.
	UpdatedAt time.Time `json:"updated_at"`
}

// Store defines the display region and its subscription mechanism.
//
// Store implementations must be safe for concurrent access.
type Store interface {
	// SetContent replaces the region with content and notifies subscribers.
	SetContent(content string)

	// Current returns the latest frame. ok is false until the first
	// SetContent call.
	Current() (frame Frame, ok bool)

	// Subscribe returns a channel that receives every new frame.
	// The returned channel has a buffer; slow consumers may miss frames.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Frame

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Frame)
}

// Package events provides a lightweight in-process pub-sub bus used to
// notify the UI collaborator about selection changes.
package events

// EventKind represents the type of domain event produced by the catalog
// layer.
type EventKind string

const (
	// EventSelectionChanged fires after a new current wallpaper has been
	// successfully persisted.
	EventSelectionChanged EventKind = "selection_changed"
)

// Event carries the minimum data consumers need; the UI re-reads the
// current wallpaper itself.
type Event struct {
	Kind        EventKind
	WallpaperID string
}

// Bus is backed by a buffered channel; publishing never blocks.
type Bus struct {
	ch chan Event
}

// NewBus creates a bus with the given buffer size.
func NewBus(buffer int) *Bus {
	return &Bus{ch: make(chan Event, buffer)}
}

// Publish attempts to enqueue the event without blocking.
// Returns true if published, false if the buffer is full.
func (b *Bus) Publish(evt Event) bool {
	select {
	case b.ch <- evt:
		return true
	default:
		return false
	}
}

// Subscribe returns a read-only channel for consumers.
func (b *Bus) Subscribe() <-chan Event {
	return b.ch
}

package ws

import (
	"sync"
	"time"
)

const (
	defaultBufferMaxLen = 64
	defaultBufferMaxAge = 10 * time.Minute
)

// EventBuffer keeps recent events for replay on reconnect. IDs are
// assigned on Append and increase monotonically.
type EventBuffer struct {
	mu     sync.RWMutex
	events []Event
	lastID uint64
	maxAge time.Duration
	maxLen int
}

// NewEventBuffer creates an EventBuffer with the given limits.
func NewEventBuffer(maxLen int, maxAge time.Duration) *EventBuffer {
	return &EventBuffer{maxAge: maxAge, maxLen: maxLen}
}

// Append assigns the next ID to event, stores it, and evicts old entries.
func (eb *EventBuffer) Append(event *Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.lastID++
	event.ID = eb.lastID

	cutoff := time.Now().Add(-eb.maxAge)
	start := 0
	for start < len(eb.events) && eb.events[start].Time.Before(cutoff) {
		start++
	}
	buf := eb.events[start:]

	buf = append(buf, *event)
	if len(buf) > eb.maxLen {
		buf = buf[len(buf)-eb.maxLen:]
	}

	eb.events = buf
}

// Since returns all events with ID > lastEventID.
func (eb *EventBuffer) Since(lastEventID uint64) []Event {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	lo, hi := 0, len(eb.events)
	for lo < hi {
		mid := (lo + hi) / 2
		if eb.events[mid].ID <= lastEventID {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo >= len(eb.events) {
		return nil
	}

	result := make([]Event, len(eb.events)-lo)
	copy(result, eb.events[lo:])

	return result
}

// Latest returns the most recent event, if any.
func (eb *EventBuffer) Latest() (Event, bool) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if len(eb.events) == 0 {
		return Event{}, false
	}

	return eb.events[len(eb.events)-1], true
}

// OldestID returns the oldest buffered event ID, or 0 if empty.
func (eb *EventBuffer) OldestID() uint64 {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if len(eb.events) == 0 {
		return 0
	}

	return eb.events[0].ID
}

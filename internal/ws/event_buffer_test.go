package ws

import (
	"testing"
	"time"
)

func TestEventBuffer_AssignsIDs(t *testing.T) {
	eb := NewEventBuffer(10, time.Hour)

	for range 3 {
		eb.Append(&Event{Type: EventState, Time: time.Now()})
	}

	got := eb.Since(1)
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("Since(1): got %+v", got)
	}

	latest, ok := eb.Latest()
	if !ok || latest.ID != 3 {
		t.Errorf("Latest: got %+v %v", latest, ok)
	}
}

func TestEventBuffer_MaxLen(t *testing.T) {
	eb := NewEventBuffer(2, time.Hour)

	for range 5 {
		eb.Append(&Event{Type: EventState, Time: time.Now()})
	}

	if oldest := eb.OldestID(); oldest != 4 {
		t.Errorf("OldestID: got %d, want 4", oldest)
	}
	if got := eb.Since(0); len(got) != 2 {
		t.Errorf("Since(0): got %d events", len(got))
	}
}

func TestEventBuffer_EvictsExpired(t *testing.T) {
	eb := NewEventBuffer(10, time.Minute)

	eb.Append(&Event{Type: EventState, Time: time.Now().Add(-time.Hour)})
	eb.Append(&Event{Type: EventState, Time: time.Now()})

	if oldest := eb.OldestID(); oldest != 2 {
		t.Errorf("OldestID: got %d, want 2", oldest)
	}
}

func TestEventBuffer_Empty(t *testing.T) {
	eb := NewEventBuffer(10, time.Hour)

	if _, ok := eb.Latest(); ok {
		t.Error("Latest on empty buffer reported an event")
	}
	if eb.OldestID() != 0 || eb.Since(0) != nil {
		t.Error("empty buffer returned events")
	}
}

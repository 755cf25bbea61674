package ws

import (
	"encoding/json"
	"time"
)

// Event types pushed to viewers.
const (
	EventState    = "state"
	EventReset    = "reset"
	EventShutdown = "shutdown"
)

// Event is the structured message sent to WebSocket clients.
type Event struct {
	Type string          `json:"type"`
	ID   uint64          `json:"id"`
	Data json.RawMessage `json:"data"`
	Time time.Time       `json:"time"`
}

// inbound is any message a viewer sends. Type selects the fields in use.
type inbound struct {
	Type        string `json:"type"`
	ID          *int64 `json:"id,omitempty"`
	LastEventID uint64 `json:"last_event_id"`
}

// Inbound message types.
const (
	msgSubscribe = "subscribe"
	msgSelect    = "select"
)

// ResetMsg tells the client to do a full refresh (requested events too old).
type ResetMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// ErrorMsg reports a rejected inbound message to the sender only.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

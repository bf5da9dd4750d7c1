package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

var ErrUnknownEventKind = goerr.New("unknown event kind")

// EventKind identifies one of the fixed application event types.
type EventKind string

const (
	EventDetection      EventKind = "detection"
	EventClassification EventKind = "classification"
	EventMessage        EventKind = "message"
	EventError          EventKind = "error"
	EventStartup        EventKind = "startup"
	EventSessionEnd     EventKind = "session_end"
)

// Validate checks if the event kind is one of the fixed set
func (k EventKind) Validate() error {
	switch k {
	case EventDetection, EventClassification, EventMessage, EventError, EventStartup, EventSessionEnd:
		return nil
	default:
		return goerr.Wrap(ErrUnknownEventKind, "event kind is not registered", goerr.V("kind", k))
	}
}

// Event is one record in the application event history.
type Event struct {
	Kind      EventKind      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionID string

// NewSessionID generates a new unique SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session holds the state of one user conversation: the ordered message
// log and the condition detected from the most recent image analysis.
// Messages are append-only until Reset.
type Session struct {
	ID        SessionID
	StartedAt time.Time
	Messages  []Message
	Condition Condition
}

func NewSession() *Session {
	return &Session{
		ID:        NewSessionID(),
		StartedAt: time.Now(),
		Condition: ConditionNone,
	}
}

// Append adds a message to the conversation log.
func (s *Session) Append(role Role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// Reset clears the conversation and starts over under a fresh ID.
func (s *Session) Reset() {
	s.ID = NewSessionID()
	s.StartedAt = time.Now()
	s.Messages = nil
	s.Condition = ConditionNone
}

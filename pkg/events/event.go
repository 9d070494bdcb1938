package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TURN_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation every emitter uses.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Constructors for the chat domain.

func NewKeyIssued(tenantId uuid.UUID, name string) BaseEvent {
	return BaseEvent{
		Type: "KEY_ISSUED",
		Data: map[string]interface{}{
			"tenant_id": tenantId,
			"name":      name,
		},
		OccurredAt: time.Now(),
	}
}

func NewSessionStarted(tenantId, sessionId uuid.UUID) BaseEvent {
	return BaseEvent{
		Type: "SESSION_STARTED",
		Data: map[string]interface{}{
			"tenant_id":  tenantId,
			"session_id": sessionId,
		},
		OccurredAt: time.Now(),
	}
}

func NewTurnCompleted(sessionId, userMessageId, botMessageId uuid.UUID) BaseEvent {
	return BaseEvent{
		Type: "TURN_COMPLETED",
		Data: map[string]interface{}{
			"session_id":      sessionId,
			"user_message_id": userMessageId,
			"bot_message_id":  botMessageId,
		},
		OccurredAt: time.Now(),
	}
}

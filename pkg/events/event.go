package events

import "time"

// Event type codes shared by publishers and consumers.
const (
	TypePriceDrop       = "PRICE_DROP"
	TypeReminderDue     = "REMINDER_DUE"
	TypeSessionSaved    = "SESSION_SAVED"
	TypeSystemBroadcast = "SYSTEM_BROADCAST"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "PRICE_DROP").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used at publish sites.
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

package realtime

import "time"

type EventType string

const (
	EventEnrollmentCreated EventType = "enrollment.created"
	EventStatementRecorded EventType = "statement.recorded"
)

// Event is a fact published after the request transaction that produced it
// has committed.
type Event struct {
	Type       EventType      `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       map[string]any `json:"data"`
}

func NewEvent(t EventType, requestID string, data map[string]any) Event {
	if data == nil {
		data = map[string]any{}
	}
	return Event{
		Type:       t,
		OccurredAt: time.Now().UTC(),
		RequestID:  requestID,
		Data:       data,
	}
}

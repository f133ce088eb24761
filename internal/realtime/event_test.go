package realtime

import "testing"

func TestNewEvent(t *testing.T) {
	ev := NewEvent(EventStatementRecorded, "req-9", nil)
	if ev.Type != EventStatementRecorded || ev.RequestID != "req-9" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Data == nil {
		t.Fatalf("data should never be nil")
	}
	if ev.OccurredAt.IsZero() || ev.OccurredAt.Location().String() != "UTC" {
		t.Fatalf("occurred_at should be set in UTC: %v", ev.OccurredAt)
	}
}

package bus

import (
	"context"
	"testing"

	"github.com/yungbote/cmi5-backend/internal/platform/logger"
	"github.com/yungbote/cmi5-backend/internal/realtime"
)

func TestNoopBus(t *testing.T) {
	b := NewNoopBus()
	ev := realtime.NewEvent(realtime.EventEnrollmentCreated, "req-1", nil)
	if err := b.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := b.StartForwarder(context.Background(), func(realtime.Event) {}); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewRedisBusRequiresAddr(t *testing.T) {
	if _, err := NewRedisBus(nil, RedisConfig{Addr: "localhost:6379"}); err == nil {
		t.Fatalf("expected error without logger")
	}
	if _, err := NewRedisBus(logger.Nop(), RedisConfig{}); err == nil {
		t.Fatalf("expected error without addr")
	}
}

func TestUninitializedRedisBus(t *testing.T) {
	var b *redisBus
	if err := b.Publish(context.Background(), realtime.Event{}); err == nil {
		t.Fatalf("expected error from nil bus")
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close on nil bus: %v", err)
	}
}

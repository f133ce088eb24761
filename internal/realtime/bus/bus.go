package bus

import (
	"context"

	"github.com/yungbote/cmi5-backend/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, ev realtime.Event) error
	// StartForwarder subscribes to the bus and calls onEvent for every event
	// until ctx is done.
	StartForwarder(ctx context.Context, onEvent func(ev realtime.Event)) error
	Close() error
}

type noopBus struct{}

// NewNoopBus returns a Bus that drops everything. Used when REDIS_ADDR is unset.
func NewNoopBus() Bus { return noopBus{} }

func (noopBus) Publish(context.Context, realtime.Event) error { return nil }

func (noopBus) StartForwarder(context.Context, func(realtime.Event)) error { return nil }

func (noopBus) Close() error { return nil }

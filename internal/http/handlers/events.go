package handlers

import (
	"context"
	"time"

	"github.com/yungbote/cmi5-backend/internal/observability"
	"github.com/yungbote/cmi5-backend/internal/platform/ctxutil"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
	"github.com/yungbote/cmi5-backend/internal/realtime"
	"github.com/yungbote/cmi5-backend/internal/realtime/bus"
)

const publishTimeout = 2 * time.Second

// Publisher hands committed domain events to the bus. Failures are logged and
// counted, never returned to the client.
type Publisher struct {
	log     *logger.Logger
	bus     bus.Bus
	metrics *observability.Metrics
}

func NewPublisher(log *logger.Logger, b bus.Bus, metrics *observability.Metrics) *Publisher {
	if b == nil {
		b = bus.NewNoopBus()
	}
	return &Publisher{
		log:     log.With("component", "EventPublisher"),
		bus:     b,
		metrics: metrics,
	}
}

func (p *Publisher) Publish(ctx context.Context, t realtime.EventType, data map[string]any) {
	if p == nil {
		return
	}
	ev := realtime.NewEvent(t, ctxutil.RequestID(ctx), data)
	// the request may already be finished; the event must still go out
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	err := p.bus.Publish(pctx, ev)
	p.metrics.IncEventPublished(string(t), err == nil)
	if err != nil {
		p.log.Warn("event publish failed", "type", t, "request_id", ev.RequestID, "error", err)
	}
}

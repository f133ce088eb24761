package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yungbote/cmi5-backend/internal/realtime"
)

type Bus struct{ mock.Mock }

func (m *Bus) Publish(ctx context.Context, ev realtime.Event) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *Bus) StartForwarder(ctx context.Context, onEvent func(ev realtime.Event)) error {
	return m.Called(ctx, onEvent).Error(0)
}

func (m *Bus) Close() error { return m.Called().Error(0) }

package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	types "github.com/yungbote/cmi5-backend/internal/domain"
	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
)

type UserService struct{ mock.Mock }

func (m *UserService) Create(dbc dbctx.Context, email, password string) (*types.User, error) {
	args := m.Called(dbc, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *UserService) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	args := m.Called(dbc, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *UserService) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	args := m.Called(dbc, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *UserService) GetAll(dbc dbctx.Context) ([]*types.User, error) {
	args := m.Called(dbc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.User), args.Error(1)
}

func (m *UserService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return m.Called(dbc, id).Error(0)
}

package mocks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	types "github.com/yungbote/cmi5-backend/internal/domain"
	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
	"github.com/yungbote/cmi5-backend/internal/services"
)

type StatementService struct{ mock.Mock }

func statement(args mock.Arguments) (*types.Statement, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Statement), args.Error(1)
}

func (m *StatementService) Create(dbc dbctx.Context, payload json.RawMessage) (*types.Statement, error) {
	return statement(m.Called(dbc, payload))
}

func (m *StatementService) SetStatement(dbc dbctx.Context, st *types.Statement, e *types.Enrollment) (*types.Enrollment, error) {
	return enrollment(m.Called(dbc, st, e))
}

func (m *StatementService) UpdateStatement(dbc dbctx.Context, statementID uuid.UUID, payload json.RawMessage) (*types.Statement, error) {
	return statement(m.Called(dbc, statementID, payload))
}

func (m *StatementService) GetStatement(dbc dbctx.Context, courseID, userID uuid.UUID) (*types.Statement, error) {
	return statement(m.Called(dbc, courseID, userID))
}

func (m *StatementService) GetAll(dbc dbctx.Context) ([]*types.Statement, error) {
	args := m.Called(dbc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Statement), args.Error(1)
}

func (m *StatementService) GetFullObjs(dbc dbctx.Context, statements []*types.Statement) ([]*types.Enrollment, error) {
	args := m.Called(dbc, statements)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Enrollment), args.Error(1)
}

func (m *StatementService) Submit(dbc dbctx.Context, courseID, userID uuid.UUID, payload json.RawMessage) (*services.Submission, error) {
	args := m.Called(dbc, courseID, userID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Submission), args.Error(1)
}

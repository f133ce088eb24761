package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	types "github.com/yungbote/cmi5-backend/internal/domain"
	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
)

type CourseService struct{ mock.Mock }

func course(args mock.Arguments) (*types.Course, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Course), args.Error(1)
}

func courses(args mock.Arguments) ([]*types.Course, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Course), args.Error(1)
}

func enrollment(args mock.Arguments) (*types.Enrollment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Enrollment), args.Error(1)
}

func (m *CourseService) Create(dbc dbctx.Context, title, description, packagePath string) (*types.Course, error) {
	return course(m.Called(dbc, title, description, packagePath))
}

func (m *CourseService) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	return course(m.Called(dbc, id))
}

func (m *CourseService) GetAll(dbc dbctx.Context) ([]*types.Course, error) {
	return courses(m.Called(dbc))
}

func (m *CourseService) GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Course, error) {
	return courses(m.Called(dbc, userID))
}

func (m *CourseService) GetUsers(dbc dbctx.Context, c *types.Course) ([]*types.User, error) {
	args := m.Called(dbc, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.User), args.Error(1)
}

func (m *CourseService) GetEnrollment(dbc dbctx.Context, courseID, userID uuid.UUID) (*types.Enrollment, error) {
	return enrollment(m.Called(dbc, courseID, userID))
}

func (m *CourseService) SetEnrollment(dbc dbctx.Context, c *types.Course, u *types.User) (*types.Enrollment, error) {
	return enrollment(m.Called(dbc, c, u))
}

func (m *CourseService) Enroll(dbc dbctx.Context, courseID, userID uuid.UUID) (*types.Enrollment, error) {
	return enrollment(m.Called(dbc, courseID, userID))
}

func (m *CourseService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return m.Called(dbc, id).Error(0)
}

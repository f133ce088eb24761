package services

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	courserepo "github.com/yungbote/cmi5-backend/internal/data/repos/course"
	userrepo "github.com/yungbote/cmi5-backend/internal/data/repos/user"
	"github.com/yungbote/cmi5-backend/internal/data/txn"
	types "github.com/yungbote/cmi5-backend/internal/domain"
	"github.com/yungbote/cmi5-backend/internal/domain/errs"
	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
)

const (
	msgCourseNotFound     = "Course not found"
	msgEnrollmentExists   = "Course already assigned to user"
	msgEnrollmentNotFound = "Can't get enrollment by course and user"
)

// DefaultOrganizationID is stamped on every course until organizations exist.
var DefaultOrganizationID = uuid.MustParse("ebbc58b4-db64-4e93-bdfb-e493534e847c")

type CourseService interface {
	Create(dbc dbctx.Context, title, description, packagePath string) (*types.Course, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	GetAll(dbc dbctx.Context) ([]*types.Course, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Course, error)
	GetUsers(dbc dbctx.Context, course *types.Course) ([]*types.User, error)
	GetEnrollment(dbc dbctx.Context, courseID, userID uuid.UUID) (*types.Enrollment, error)
	SetEnrollment(dbc dbctx.Context, course *types.Course, user *types.User) (*types.Enrollment, error)
	// Enroll resolves both parties, rejects a second active enrollment of the
	// pair and creates the link.
	Enroll(dbc dbctx.Context, courseID, userID uuid.UUID) (*types.Enrollment, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type courseService struct {
	db             *gorm.DB
	log            *logger.Logger
	courseRepo     courserepo.CourseRepo
	enrollmentRepo courserepo.EnrollmentRepo
	userRepo       userrepo.UserRepo
	orgID          uuid.UUID
}

func NewCourseService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo courserepo.CourseRepo,
	enrollmentRepo courserepo.EnrollmentRepo,
	userRepo userrepo.UserRepo,
	orgID uuid.UUID,
) CourseService {
	if orgID == uuid.Nil {
		orgID = DefaultOrganizationID
	}
	return &courseService{
		db:             db,
		log:            baseLog.With("service", "CourseService"),
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		userRepo:       userRepo,
		orgID:          orgID,
	}
}

func (s *courseService) Create(dbc dbctx.Context, title, description, packagePath string) (*types.Course, error) {
	const op = "course.create"
	created, err := s.courseRepo.Create(dbc, []*types.Course{{
		Title:          strings.TrimSpace(title),
		Description:    strings.TrimSpace(description),
		OrganizationID: s.orgID,
		FileLink:       strings.TrimSpace(packagePath),
	}})
	if err != nil {
		return nil, txn.MapError(op, err)
	}
	s.log.Info("course created", "course_id", created[0].ID, "file_link", created[0].FileLink)
	return created[0], nil
}

func (s *courseService) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	c, err := s.courseRepo.GetByID(dbc, id)
	if err != nil {
		return nil, txn.MapError("course.get", err)
	}
	if c == nil {
		return nil, errs.NotFound("course.get", msgCourseNotFound)
	}
	return c, nil
}

func (s *courseService) GetAll(dbc dbctx.Context) ([]*types.Course, error) {
	out, err := s.courseRepo.GetAll(dbc)
	if err != nil {
		return nil, txn.MapError("course.list", err)
	}
	return out, nil
}

func (s *courseService) GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Course, error) {
	out, err := s.courseRepo.GetByUserID(dbc, userID)
	if err != nil {
		return nil, txn.MapError("course.list_by_user", err)
	}
	return out, nil
}

func (s *courseService) GetUsers(dbc dbctx.Context, course *types.Course) ([]*types.User, error) {
	if course == nil {
		return []*types.User{}, nil
	}
	out, err := s.courseRepo.GetUsers(dbc, course.ID)
	if err != nil {
		return nil, txn.MapError("course.users", err)
	}
	return out, nil
}

func (s *courseService) GetEnrollment(dbc dbctx.Context, courseID, userID uuid.UUID) (*types.Enrollment, error) {
	e, err := s.enrollmentRepo.GetByPair(dbc, courseID, userID, false)
	if err != nil {
		return nil, txn.MapError("enrollment.get", err)
	}
	if e == nil {
		return nil, errs.NotFound("enrollment.get", msgEnrollmentNotFound)
	}
	return e, nil
}

func (s *courseService) SetEnrollment(dbc dbctx.Context, course *types.Course, user *types.User) (*types.Enrollment, error) {
	const op = "enrollment.create"
	if course == nil || user == nil {
		return nil, errs.Validation(op, "course and user are required")
	}
	var out *types.Enrollment
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		e, err := s.enrollmentRepo.Create(dbc, &types.Enrollment{CourseID: course.ID, UserID: user.ID})
		if err != nil {
			if txn.IsDuplicate(err) {
				return errs.New(errs.CodeConflict, op, msgEnrollmentExists, err)
			}
			return txn.MapError(op, err)
		}
		out, err = s.enrollmentRepo.GetByID(dbc, e.ID)
		if err != nil {
			return txn.MapError(op, err)
		}
		if out == nil {
			return errs.New(errs.CodeInternal, op, "enrollment vanished after insert", nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("enrollment created", "enrollment_id", out.ID, "course_id", course.ID, "user_id", user.ID)
	return out, nil
}

func (s *courseService) Enroll(dbc dbctx.Context, courseID, userID uuid.UUID) (*types.Enrollment, error) {
	var out *types.Enrollment
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		course, err := s.GetByID(dbc, courseID)
		if err != nil {
			return err
		}
		u, err := s.userRepo.GetByID(dbc, userID)
		if err != nil {
			return txn.MapError("enrollment.create", err)
		}
		if u == nil {
			return errs.NotFound("enrollment.create", msgUserNotFound)
		}
		existing, err := s.enrollmentRepo.GetByPair(dbc, courseID, userID, false)
		if err != nil {
			return txn.MapError("enrollment.create", err)
		}
		if existing != nil {
			return errs.Conflict("enrollment.create", msgEnrollmentExists)
		}
		out, err = s.SetEnrollment(dbc, course, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete soft-deletes the course and its enrollments. Statements stay.
func (s *courseService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	const op = "course.delete"
	var detached int64
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		ok, err := s.courseRepo.SoftDelete(dbc, id)
		if err != nil {
			return txn.MapError(op, err)
		}
		if !ok {
			return errs.NotFound(op, msgCourseNotFound)
		}
		detached, err = s.enrollmentRepo.SoftDeleteByCourseID(dbc, id)
		if err != nil {
			return txn.MapError(op, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("course deleted", "course_id", id, "enrollments", detached)
	return nil
}

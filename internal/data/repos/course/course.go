package course

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/cmi5-backend/internal/domain"
	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
)

type CourseRepo interface {
	Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	GetAll(dbc dbctx.Context) ([]*types.Course, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Course, error)
	GetUsers(dbc dbctx.Context, courseID uuid.UUID) ([]*types.User, error)
	SoftDelete(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error) {
	if len(courses) == 0 {
		return []*types.Course{}, nil
	}
	for _, c := range courses {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
	}
	if err := dbc.DB(r.db).Create(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Course
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *courseRepo) GetAll(dbc dbctx.Context) ([]*types.Course, error) {
	var out []*types.Course
	if err := dbc.DB(r.db).Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByUserID lists active courses the user holds an active enrollment in.
func (r *courseRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Course, error) {
	var out []*types.Course
	if userID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Joins("JOIN cmi5_course_users e ON e.course_id = cmi_courses.id AND e.deleted_at IS NULL").
		Where("e.user_id = ?", userID).
		Order("e.created_at ASC, cmi_courses.id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetUsers lists active users holding an active enrollment in the course.
func (r *courseRepo) GetUsers(dbc dbctx.Context, courseID uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	if courseID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Joins("JOIN cmi5_course_users e ON e.user_id = users.id AND e.deleted_at IS NULL").
		Where("e.course_id = ?", courseID).
		Order("e.created_at ASC, users.id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) SoftDelete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Course{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

package course

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/cmi5-backend/internal/domain"
	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
)

type EnrollmentRepo interface {
	Create(dbc dbctx.Context, e *types.Enrollment) (*types.Enrollment, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Enrollment, error)
	// GetByPair loads the active enrollment for (courseID, userID) with its
	// Course, User and Statement. forUpdate row-locks it where the store supports it.
	GetByPair(dbc dbctx.Context, courseID, userID uuid.UUID, forUpdate bool) (*types.Enrollment, error)
	GetByStatementIDs(dbc dbctx.Context, statementIDs []uuid.UUID) ([]*types.Enrollment, error)
	SetStatement(dbc dbctx.Context, enrollmentID, statementID uuid.UUID) error
	SoftDeleteByCourseID(dbc dbctx.Context, courseID uuid.UUID) (int64, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

// active restricts enrollments to rows whose course and user are both live.
func active(q *gorm.DB) *gorm.DB {
	return q.
		Joins("JOIN cmi_courses c ON c.id = cmi5_course_users.course_id AND c.deleted_at IS NULL").
		Joins("JOIN users u ON u.id = cmi5_course_users.user_id AND u.deleted_at IS NULL")
}

func withRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Course").Preload("User").Preload("Statement")
}

func (r *enrollmentRepo) Create(dbc dbctx.Context, e *types.Enrollment) (*types.Enrollment, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	// associations are referenced by id only
	if err := dbc.DB(r.db).Omit(clause.Associations).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

func (r *enrollmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Enrollment, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Enrollment
	if err := withRelations(active(dbc.DB(r.db))).
		Where("cmi5_course_users.id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *enrollmentRepo) GetByPair(dbc dbctx.Context, courseID, userID uuid.UUID, forUpdate bool) (*types.Enrollment, error) {
	if courseID == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	q := dbc.DB(r.db)
	if forUpdate && q.Dialector.Name() == "postgres" {
		// lock only the enrollment row, not the joined parents
		q = q.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "cmi5_course_users"}})
	}
	var out types.Enrollment
	if err := withRelations(active(q)).
		Where("cmi5_course_users.course_id = ? AND cmi5_course_users.user_id = ?", courseID, userID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *enrollmentRepo) GetByStatementIDs(dbc dbctx.Context, statementIDs []uuid.UUID) ([]*types.Enrollment, error) {
	var out []*types.Enrollment
	if len(statementIDs) == 0 {
		return out, nil
	}
	if err := withRelations(active(dbc.DB(r.db))).
		Where("cmi5_course_users.statement_id IN ?", statementIDs).
		Order("cmi5_course_users.created_at ASC, cmi5_course_users.id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) SetStatement(dbc dbctx.Context, enrollmentID, statementID uuid.UUID) error {
	return dbc.DB(r.db).
		Model(&types.Enrollment{}).
		Where("id = ?", enrollmentID).
		Update("statement_id", statementID).Error
}

// SoftDeleteByCourseID marks every active enrollment of the course deleted.
// Linked statements are left untouched.
func (r *enrollmentRepo) SoftDeleteByCourseID(dbc dbctx.Context, courseID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).Where("course_id = ?", courseID).Delete(&types.Enrollment{})
	return res.RowsAffected, res.Error
}

package statement

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/cmi5-backend/internal/domain"
	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
)

type StatementRepo interface {
	Create(dbc dbctx.Context, s *types.Statement) (*types.Statement, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Statement, error)
	GetAll(dbc dbctx.Context) ([]*types.Statement, error)
	// GetByPair returns the statement linked to the active enrollment of
	// (courseID, userID), or nil when there is none.
	GetByPair(dbc dbctx.Context, courseID, userID uuid.UUID) (*types.Statement, error)
	UpdatePayload(dbc dbctx.Context, id uuid.UUID, payload datatypes.JSON) (bool, error)
}

type statementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatementRepo(db *gorm.DB, baseLog *logger.Logger) StatementRepo {
	return &statementRepo{db: db, log: baseLog.With("repo", "StatementRepo")}
}

func (r *statementRepo) Create(dbc dbctx.Context, s *types.Statement) (*types.Statement, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if len(s.Statements) == 0 {
		s.Statements = datatypes.JSON([]byte("{}"))
	}
	if err := dbc.DB(r.db).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (r *statementRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Statement, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Statement
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *statementRepo) GetAll(dbc dbctx.Context) ([]*types.Statement, error) {
	var out []*types.Statement
	if err := dbc.DB(r.db).Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *statementRepo) GetByPair(dbc dbctx.Context, courseID, userID uuid.UUID) (*types.Statement, error) {
	if courseID == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	var out types.Statement
	if err := dbc.DB(r.db).
		Joins("JOIN cmi5_course_users e ON e.statement_id = cmi_statements.id AND e.deleted_at IS NULL").
		Joins("JOIN cmi_courses c ON c.id = e.course_id AND c.deleted_at IS NULL").
		Where("e.course_id = ? AND e.user_id = ?", courseID, userID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

// UpdatePayload overwrites the document of an active statement in place.
func (r *statementRepo) UpdatePayload(dbc dbctx.Context, id uuid.UUID, payload datatypes.JSON) (bool, error) {
	res := dbc.DB(r.db).
		Model(&types.Statement{}).
		Where("id = ?", id).
		Update("statements", payload)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

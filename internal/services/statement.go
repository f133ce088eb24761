package services

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	courserepo "github.com/yungbote/cmi5-backend/internal/data/repos/course"
	statementrepo "github.com/yungbote/cmi5-backend/internal/data/repos/statement"
	"github.com/yungbote/cmi5-backend/internal/data/txn"
	types "github.com/yungbote/cmi5-backend/internal/domain"
	"github.com/yungbote/cmi5-backend/internal/domain/errs"
	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
)

const msgStatementNotFound = "Statement not found"

// Submission is the outcome of recording a statement for an enrollment.
type Submission struct {
	Enrollment *types.Enrollment
	// Replaced is true when an existing statement was overwritten in place.
	Replaced bool
}

type StatementService interface {
	Create(dbc dbctx.Context, payload json.RawMessage) (*types.Statement, error)
	SetStatement(dbc dbctx.Context, st *types.Statement, enrollment *types.Enrollment) (*types.Enrollment, error)
	UpdateStatement(dbc dbctx.Context, statementID uuid.UUID, payload json.RawMessage) (*types.Statement, error)
	GetStatement(dbc dbctx.Context, courseID, userID uuid.UUID) (*types.Statement, error)
	GetAll(dbc dbctx.Context) ([]*types.Statement, error)
	GetFullObjs(dbc dbctx.Context, statements []*types.Statement) ([]*types.Enrollment, error)
	// Submit records payload as the current statement of the (course, user)
	// enrollment: the first submission creates and links a statement, later
	// ones overwrite it in place.
	Submit(dbc dbctx.Context, courseID, userID uuid.UUID, payload json.RawMessage) (*Submission, error)
}

type statementService struct {
	db             *gorm.DB
	log            *logger.Logger
	statementRepo  statementrepo.StatementRepo
	enrollmentRepo courserepo.EnrollmentRepo
}

func NewStatementService(
	db *gorm.DB,
	baseLog *logger.Logger,
	statementRepo statementrepo.StatementRepo,
	enrollmentRepo courserepo.EnrollmentRepo,
) StatementService {
	return &statementService{
		db:             db,
		log:            baseLog.With("service", "StatementService"),
		statementRepo:  statementRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func toJSON(payload json.RawMessage) datatypes.JSON {
	if len(payload) == 0 {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(payload)
}

func (s *statementService) Create(dbc dbctx.Context, payload json.RawMessage) (*types.Statement, error) {
	st, err := s.statementRepo.Create(dbc, &types.Statement{Statements: toJSON(payload)})
	if err != nil {
		return nil, txn.MapError("statement.create", err)
	}
	return st, nil
}

func (s *statementService) SetStatement(dbc dbctx.Context, st *types.Statement, enrollment *types.Enrollment) (*types.Enrollment, error) {
	const op = "statement.attach"
	if st == nil || enrollment == nil {
		return nil, errs.Validation(op, "statement and enrollment are required")
	}
	var out *types.Enrollment
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		if err := s.enrollmentRepo.SetStatement(dbc, enrollment.ID, st.ID); err != nil {
			return txn.MapError(op, err)
		}
		var err error
		out, err = s.enrollmentRepo.GetByID(dbc, enrollment.ID)
		if err != nil {
			return txn.MapError(op, err)
		}
		if out == nil {
			return errs.NotFound(op, msgEnrollmentNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *statementService) UpdateStatement(dbc dbctx.Context, statementID uuid.UUID, payload json.RawMessage) (*types.Statement, error) {
	const op = "statement.update"
	var out *types.Statement
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		ok, err := s.statementRepo.UpdatePayload(dbc, statementID, toJSON(payload))
		if err != nil {
			return txn.MapError(op, err)
		}
		if !ok {
			return errs.NotFound(op, msgStatementNotFound)
		}
		out, err = s.statementRepo.GetByID(dbc, statementID)
		if err != nil {
			return txn.MapError(op, err)
		}
		if out == nil {
			return errs.NotFound(op, msgStatementNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *statementService) GetStatement(dbc dbctx.Context, courseID, userID uuid.UUID) (*types.Statement, error) {
	st, err := s.statementRepo.GetByPair(dbc, courseID, userID)
	if err != nil {
		return nil, txn.MapError("statement.get", err)
	}
	if st == nil {
		return nil, errs.NotFound("statement.get", msgStatementNotFound)
	}
	return st, nil
}

func (s *statementService) GetAll(dbc dbctx.Context) ([]*types.Statement, error) {
	out, err := s.statementRepo.GetAll(dbc)
	if err != nil {
		return nil, txn.MapError("statement.list", err)
	}
	return out, nil
}

func (s *statementService) GetFullObjs(dbc dbctx.Context, statements []*types.Statement) ([]*types.Enrollment, error) {
	ids := make([]uuid.UUID, 0, len(statements))
	for _, st := range statements {
		if st != nil {
			ids = append(ids, st.ID)
		}
	}
	out, err := s.enrollmentRepo.GetByStatementIDs(dbc, ids)
	if err != nil {
		return nil, txn.MapError("statement.list_full", err)
	}
	return out, nil
}

func (s *statementService) Submit(dbc dbctx.Context, courseID, userID uuid.UUID, payload json.RawMessage) (*Submission, error) {
	const op = "statement.submit"
	var sub *Submission
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		// the row lock serializes concurrent first submissions for the pair
		e, err := s.enrollmentRepo.GetByPair(dbc, courseID, userID, true)
		if err != nil {
			return txn.MapError(op, err)
		}
		if e == nil {
			return errs.NotFound(op, msgEnrollmentNotFound)
		}

		if e.HasStatement() {
			_, err := s.UpdateStatement(dbc, *e.StatementID, payload)
			switch {
			case err == nil:
				reloaded, err := s.enrollmentRepo.GetByID(dbc, e.ID)
				if err != nil {
					return txn.MapError(op, err)
				}
				if reloaded == nil {
					return errs.NotFound(op, msgEnrollmentNotFound)
				}
				sub = &Submission{Enrollment: reloaded, Replaced: true}
				return nil
			case errs.IsCode(err, errs.CodeNotFound):
				// linked statement was removed out of band; relink a fresh one
			default:
				return err
			}
		}

		st, err := s.Create(dbc, payload)
		if err != nil {
			return err
		}
		linked, err := s.SetStatement(dbc, st, e)
		if err != nil {
			return err
		}
		sub = &Submission{Enrollment: linked}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("statement recorded",
		"enrollment_id", sub.Enrollment.ID,
		"statement_id", sub.Enrollment.StatementID,
		"replaced", sub.Replaced,
	)
	return sub, nil
}

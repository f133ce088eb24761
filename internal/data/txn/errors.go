package txn

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yungbote/cmi5-backend/internal/domain/errs"
	"gorm.io/gorm"
)

// MapError maps store failures into errs codes. Errors that already carry a
// code pass through untouched.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *errs.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.New(errs.CodeNotFound, op, "record not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.New(errs.CodeConflict, op, "duplicate record", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errs.New(errs.CodeValidation, op, "referenced record does not exist", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errs.New(errs.CodeInternal, op, "request cancelled", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return errs.New(errs.CodeConflict, op, "duplicate record", err) // unique_violation
		case "23503":
			return errs.New(errs.CodeValidation, op, "referenced record does not exist", err) // foreign_key_violation
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint failed"):
		return errs.New(errs.CodeConflict, op, "duplicate record", err)
	case strings.Contains(msg, "foreign key constraint failed"):
		return errs.New(errs.CodeValidation, op, "referenced record does not exist", err)
	default:
		return errs.Wrap(errs.CodeInternal, op, err)
	}
}

// IsDuplicate reports whether err is a unique-key violation from any supported store.
func IsDuplicate(err error) bool {
	return errs.IsCode(MapError("", err), errs.CodeConflict)
}

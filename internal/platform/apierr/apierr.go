package apierr

import (
	"fmt"
	"net/http"

	"github.com/yungbote/cmi5-backend/internal/domain/errs"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError maps a domain error onto an HTTP status. Conflicts surface as 400
// to keep the public contract of the API.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	code := errs.CodeOf(err)
	switch code {
	case errs.CodeNotFound:
		return New(http.StatusNotFound, string(code), err)
	case errs.CodeConflict, errs.CodeValidation, errs.CodeInvalidUpload:
		return New(http.StatusBadRequest, string(code), err)
	default:
		return New(http.StatusInternalServerError, string(errs.CodeInternal), err)
	}
}

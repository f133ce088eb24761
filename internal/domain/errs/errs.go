// Package errs is the error taxonomy shared by repos, services and the HTTP layer.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

type Code string

const (
	CodeValidation    Code = "validation"
	CodeNotFound      Code = "not_found"
	CodeConflict      Code = "conflict"
	CodeInvalidUpload Code = "invalid_upload"
	CodeInternal      Code = "internal"
)

// Error is the canonical domain error wrapper.
type Error struct {
	Code    Code
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates err with code; an existing *Error keeps its own code.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return New(code, op, err.Error(), err)
}

func NotFound(op, message string) error {
	return New(CodeNotFound, op, message, nil)
}

func Conflict(op, message string) error {
	return New(CodeConflict, op, message, nil)
}

func Validation(op, message string) error {
	return New(CodeValidation, op, message, nil)
}

func InvalidUpload(op, message string) error {
	return New(CodeInvalidUpload, op, message, nil)
}

func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the outermost *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

// MessageOf returns a client-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

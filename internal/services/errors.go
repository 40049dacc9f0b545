package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"onway_routes/internal/diff"
)

type Code string

const (
	CodeValidation Code = "validation"
	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict"
	CodeForbidden  Code = "forbidden"
	CodeInternal   Code = "internal"
)

// Error is the typed failure every service operation returns.
type Error struct {
	Code    Code
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewValidation(op, format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(op, format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Op: op, Message: fmt.Sprintf(format, args...)}
}

func NewConflict(op, format string, args ...any) *Error {
	return &Error{Code: CodeConflict, Op: op, Message: fmt.Sprintf(format, args...)}
}

func NewForbidden(op, format string, args ...any) *Error {
	return &Error{Code: CodeForbidden, Op: op, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// wrapDB classifies a data-access failure raised while running op.
func wrapDB(op string, err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	var dup *diff.DuplicateEntryError
	switch {
	case errors.As(err, &dup):
		return &Error{Code: CodeValidation, Op: op, Message: dup.Error(), Cause: err}
	case isUniqueViolation(err):
		return &Error{Code: CodeConflict, Op: op, Message: "storage key already in use", Cause: err}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Code: CodeNotFound, Op: op, Message: "record not found", Cause: err}
	}
	return &Error{Code: CodeInternal, Op: op, Message: "internal error", Cause: err}
}

// isUniqueViolation recognises a unique-constraint failure from any of the
// supported drivers.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

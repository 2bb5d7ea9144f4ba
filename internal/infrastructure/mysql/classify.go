package mysql

import (
	"errors"

	gomysql "github.com/go-sql-driver/mysql"

	apperrors "stockroom/internal/errors"
)

const (
	ErrDuplicateEntry  = 1062
	ErrLockWaitTimeout = 1205
	ErrDeadlock        = 1213
	ErrRowIsReferenced = 1451
	ErrNoReferencedRow = 1452
)

// Classify maps driver errors onto application errors. Errors that already
// carry an application type, and errors the driver did not produce, become
// InternalError unless they are application errors already.
func Classify(err error, message string) error {
	if err == nil {
		return nil
	}
	if isAppError(err) {
		return err
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case ErrDeadlock, ErrLockWaitTimeout:
			return apperrors.NewConflictErrorWithCause("concurrent update conflict", err)
		case ErrDuplicateEntry:
			return apperrors.NewConflictErrorWithCause("record already exists", err)
		case ErrRowIsReferenced:
			return apperrors.NewBadRequestError("record is in use")
		case ErrNoReferencedRow:
			return apperrors.NewBadRequestError("invalid reference")
		}
	}

	return apperrors.NewInternalError(message, err)
}

func isAppError(err error) bool {
	if _, ok := apperrors.IsValidationError(err); ok {
		return true
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return true
	}
	if _, ok := apperrors.IsBadRequestError(err); ok {
		return true
	}
	if _, ok := apperrors.IsInsufficientStockError(err); ok {
		return true
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		return true
	}
	if _, ok := apperrors.IsInternalError(err); ok {
		return true
	}
	return false
}

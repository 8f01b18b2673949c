// file: internals/helpers/errors.go
package helper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

/* ===============================
   Error kinds
=================================*/

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindAuthorization
	KindNotFound
	KindConflict
	KindInvariant
	KindSaga
	KindInternal
)

// AppError is the single error currency between controllers/services and
// the boundary. Controllers return it; the Fiber ErrorHandler renders it.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

/* ===============================
   Constructors
=================================*/

func ErrValidation(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func ErrAuthorization(msg string) *AppError {
	return &AppError{Kind: KindAuthorization, Message: msg}
}

func ErrNotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: resource + " not found"}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

func ErrInvariant(msg string) *AppError {
	return &AppError{Kind: KindInvariant, Message: msg}
}

// ErrSaga aggregates a multi-step workflow failure into one error naming
// the step that failed. The cause stays wrapped for the logs.
func ErrSaga(step string, err error) *AppError {
	return &AppError{
		Kind:    KindSaga,
		Message: fmt.Sprintf("enrollment failed at step %s", step),
		Err:     err,
	}
}

func ErrInternal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf walks the chain for an AppError; unknown errors are internal.
func KindOf(err error) ErrorKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

/* ===============================
   Store error inspection
=================================*/

// IsUniqueViolation matches a unique-index violation from the store.
// Postgres surfaces *pgconn.PgError 23505; the in-memory test store
// reports a "UNIQUE constraint failed" text.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

/* ===============================
   Boundary mapping (fiber ErrorHandler)
=================================*/

// ErrorHandler renders AppError kinds. Authorization and NotFound share
// one uniform 404 body so a caller cannot probe which tenant or row
// exists; the true kind is only visible in the logs.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ae *AppError
		if errors.As(err, &ae) {
			switch ae.Kind {
			case KindValidation:
				return JsonError(c, fiber.StatusBadRequest, ae.Message)
			case KindConflict:
				return JsonError(c, fiber.StatusConflict, ae.Message)
			case KindInvariant:
				return JsonError(c, fiber.StatusUnprocessableEntity, ae.Message)
			case KindSaga:
				log.Warn("saga rolled back",
					zap.String("path", c.Path()),
					zap.Error(ae))
				return JsonError(c, fiber.StatusUnprocessableEntity, ae.Message)
			case KindAuthorization, KindNotFound:
				log.Debug("access refused",
					zap.String("path", c.Path()),
					zap.Int("kind", int(ae.Kind)))
				return JsonError(c, fiber.StatusNotFound, "resource not found")
			}
			err = ae.Err
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return JsonError(c, fe.Code, fe.Message)
		}

		log.Error("unhandled error",
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.Error(err))
		return JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

package apperr

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Kind is the machine-usable error category carried in every error
// response body.
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and caller-facing message to an underlying
// error. The underlying detail is kept for server-side logs only.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the kind of err, or KindInternal when err carries none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidArgument:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func kindForStatus(status int) Kind {
	switch status {
	case fiber.StatusBadRequest:
		return KindInvalidArgument
	case fiber.StatusNotFound:
		return KindNotFound
	case fiber.StatusConflict:
		return KindConflict
	default:
		return KindInternal
	}
}

var logf = log.Printf

// ErrorHandler renders every error as {"error":{"kind","message"}}.
// Internal errors keep a generic message for the caller; the wrapped
// detail goes to the server log.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		if appErr.Kind == KindInternal {
			logf("internal error on %s %s: %v", c.Method(), c.Path(), err)
			return render(c, KindInternal, "internal error")
		}
		return render(c, appErr.Kind, appErr.Msg)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return render(c, kindForStatus(fiberErr.Code), fiberErr.Message)
	}

	logf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return render(c, KindInternal, "internal error")
}

func render(c *fiber.Ctx, kind Kind, msg string) error {
	return c.Status(HTTPStatus(kind)).JSON(fiber.Map{
		"error": fiber.Map{"kind": kind, "message": msg},
	})
}

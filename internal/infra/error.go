package infra

import (
	"errors"
	"log/slog"

	"booking-lifecycle/internal/pkg/errs"
)

type ErrorKind string

// Error is what every adapter in infra returns. Message is user-facing text:
// for rejections it is the upstream's message verbatim.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	msg     string
	err     error // wrapped low-level error
}

func (e Error) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e Error) Unwrap() error {
	return e.err
}

func WrapErr(slogger *slog.Logger, kind ErrorKind, msg string, err error) error {
	return wrap(slogger, Error{Kind: kind, msg: msg}, err)
}

// UpstreamErr records a non-2xx answer from an upstream service.
func UpstreamErr(slogger *slog.Logger, kind ErrorKind, status int, message, msg string) error {
	return wrap(slogger, Error{Kind: kind, Status: status, Message: message, msg: msg}, nil)
}

func wrap(slogger *slog.Logger, e Error, err error) error {
	logArgs := []any{
		slog.String("kind", string(e.Kind)),
	}
	if e.Status != 0 {
		logArgs = append(logArgs, slog.Int("status", e.Status))
	}
	if err != nil {
		logArgs = append(logArgs, slog.String("cause", err.Error()))
	}

	switch e.Kind {
	case KindDecode, KindStoreFailure:
		slogger.Error("Infra error: "+e.msg, logArgs...)
	default:
		slogger.Warn("Infra error: "+e.msg, logArgs...)
	}

	if err != nil {
		e.err = errs.Wrap(err, e.msg)
	}
	return e
}

func IsKind(err error, kind ErrorKind) bool {
	var e Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// AsError extracts the infra error from err's chain.
func AsError(err error) (Error, bool) {
	var e Error
	ok := errors.As(err, &e)
	return e, ok
}

// Infrastructure-specific error kinds
const (
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindTransport    ErrorKind = "TRANSPORT"
	KindRejected     ErrorKind = "REJECTED"
	KindDecode       ErrorKind = "DECODE"
	KindStoreFailure ErrorKind = "STORE_FAILURE"
)

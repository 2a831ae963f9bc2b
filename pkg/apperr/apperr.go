package apperr

import (
	"errors"
	"fmt"
)

// Kind discriminates how an error is reported over HTTP.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindForbidden
	KindUpstream
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) error   { return &Error{Kind: KindNotFound, Message: msg} }
func Forbidden(msg string) error  { return &Error{Kind: KindForbidden, Message: msg} }

// Upstream wraps a collaborator failure (LLM, image host); the original error
// is kept for logs but never shown to clients.
func Upstream(msg string, err error) error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

// Status maps an error to an HTTP status code and a client-safe message.
func Status(err error) (int, string) {
	var ae *Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case KindValidation:
			return 400, ae.Message
		case KindNotFound:
			return 404, ae.Message
		case KindForbidden:
			return 403, ae.Message
		case KindUpstream:
			return 500, ae.Message
		}
	}
	return 500, "internal error"
}

func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

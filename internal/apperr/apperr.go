// Package apperr defines the user-facing error taxonomy shared by services,
// middleware and handlers.
package apperr

import (
	"errors"
	"strings"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindInvalidCredentials
	KindUnauthenticated
	KindForbidden
	KindInvalidToken
	KindDeliveryFailed
)

var kindNames = map[Kind]string{
	KindInternal:           "internal",
	KindValidation:         "validation",
	KindConflict:           "conflict",
	KindNotFound:           "not_found",
	KindInvalidCredentials: "invalid_credentials",
	KindUnauthenticated:    "unauthenticated",
	KindForbidden:          "forbidden",
	KindInvalidToken:       "invalid_token",
	KindDeliveryFailed:     "delivery_failed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Sub-reasons attached to authentication and reset-token failures.
const (
	ReasonMissing      = "missing"
	ReasonExpired      = "expired"
	ReasonMalformed    = "malformed"
	ReasonInvalid      = "invalid"
	ReasonUserNotFound = "user_not_found"
)

// Error is a classified failure carrying the messages shown to the client.
type Error struct {
	Kind     Kind
	Reason   string
	Messages []string
	Err      error
}

func (e *Error) Error() string {
	if len(e.Messages) > 0 {
		return strings.Join(e.Messages, "; ")
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches bare kind sentinels (no messages) by kind, and by reason when the
// sentinel sets one. Errors with messages only match themselves.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Messages != nil {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// Kind sentinels for errors.Is checks.
var (
	ErrInternal           = &Error{Kind: KindInternal}
	ErrValidation         = &Error{Kind: KindValidation}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrInvalidToken       = &Error{Kind: KindInvalidToken}
	ErrDeliveryFailed     = &Error{Kind: KindDeliveryFailed}
)

func New(kind Kind, messages ...string) *Error {
	return &Error{Kind: kind, Messages: messages}
}

func Wrap(kind Kind, err error, messages ...string) *Error {
	return &Error{Kind: kind, Messages: messages, Err: err}
}

func WithReason(kind Kind, reason string, messages ...string) *Error {
	return &Error{Kind: kind, Reason: reason, Messages: messages}
}

func Validation(messages ...string) *Error {
	return New(KindValidation, messages...)
}

// As extracts the classified error from err. Unclassified errors are reported
// as KindInternal.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindInternal, Err: err}
}

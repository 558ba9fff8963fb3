// Package apperr provides the typed error kinds shared by the distance and shipping features.
// Services return these errors; the shipping calculator inspects the Kind to decide
// whether a fallback request is allowed and what gets logged before the rate is withheld.
package apperr

import (
	"errors"
	"fmt"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindConfiguration indicates missing origin, destination, API key or rate table.
	KindConfiguration
	// KindTransport indicates a network failure or a non-2xx HTTP outcome.
	KindTransport
	// KindService indicates a well-formed response carrying a non-success status.
	KindService
	// KindParse indicates an undecodable response body.
	KindParse
	// KindNoRuleMatch indicates that no rate rule matched the distance and cart.
	KindNoRuleMatch
	// KindValidation indicates invalid settings supplied by an administrator.
	KindValidation
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindService:
		return "service"
	case KindParse:
		return "parse"
	case KindNoRuleMatch:
		return "no_rule_match"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is a domain error with a typed Kind.
type Error struct {
	Kind    Kind
	Code    string // Provider or domain status code (optional)
	Message string
	Op      string // Operation that failed (optional)
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Code)
	}
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp sets the operation name and returns the error.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithCode sets the status code and returns the error.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// Configuration creates a configuration error.
func Configuration(message string) *Error {
	return New(KindConfiguration, message)
}

// Transport creates a transport error wrapping the cause.
func Transport(message string, err error) *Error {
	return Wrap(KindTransport, message, err)
}

// Service creates a service error carrying the provider status code.
func Service(code, message string) *Error {
	return &Error{Kind: KindService, Code: code, Message: message}
}

// Parse creates a parse error wrapping the decode failure.
func Parse(message string, err error) *Error {
	return Wrap(KindParse, message, err)
}

// KindOf returns the Kind of the first *Error in the chain, or KindUnknown.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// CodeOf returns the status code of the first *Error in the chain.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindInvalidRequest ErrorKind = "invalid_request"
	KindTransport      ErrorKind = "transport"
	KindParse          ErrorKind = "parse"
	KindProvider       ErrorKind = "provider"
)

// OptimizationError is the single error type returned by a failed optimization.
// Status is only set for KindProvider and carries the provider's raw status.
type OptimizationError struct {
	Kind   ErrorKind
	Status string
	Err    error
}

// Sentinels for errors.Is; matching is by Kind only.
var (
	ErrInvalidRequest = &OptimizationError{Kind: KindInvalidRequest}
	ErrTransport      = &OptimizationError{Kind: KindTransport}
	ErrParse          = &OptimizationError{Kind: KindParse}
	ErrProvider       = &OptimizationError{Kind: KindProvider}
)

func (e *OptimizationError) Error() string {
	switch {
	case e.Kind == KindProvider && e.Err != nil:
		return fmt.Sprintf("provider error status=%s: %v", e.Status, e.Err)
	case e.Kind == KindProvider:
		return fmt.Sprintf("provider error status=%s", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *OptimizationError) Unwrap() error { return e.Err }

func (e *OptimizationError) Is(target error) bool {
	t, ok := target.(*OptimizationError)
	return ok && t.Kind == e.Kind
}

func NewInvalidRequest(reason string) error {
	return &OptimizationError{Kind: KindInvalidRequest, Err: errors.New(reason)}
}

func NewTransportError(err error) error {
	return &OptimizationError{Kind: KindTransport, Err: err}
}

func NewParseError(err error) error {
	return &OptimizationError{Kind: KindParse, Err: err}
}

func NewProviderError(status string, err error) error {
	return &OptimizationError{Kind: KindProvider, Status: status, Err: err}
}

// KindOf returns the kind of the first OptimizationError in err's chain,
// or "" when there is none.
func KindOf(err error) ErrorKind {
	var oe *OptimizationError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return ""
}

// ProviderStatus returns the provider status carried by err, if any.
func ProviderStatus(err error) (string, bool) {
	var oe *OptimizationError
	if errors.As(err, &oe) && oe.Kind == KindProvider {
		return oe.Status, true
	}
	return "", false
}

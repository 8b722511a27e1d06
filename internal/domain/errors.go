package domain

import (
	"errors"
	"fmt"
)

type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeExecution
	ErrorTypeTimeout
	ErrorTypeState
	ErrorTypeInternal
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeExecution:
		return "execution"
	case ErrorTypeTimeout:
		return "timeout"
	case ErrorTypeState:
		return "state"
	case ErrorTypeInternal:
		return "internal"
	}
	return "unknown"
}

// Error is the engine's value error: a type for policy decisions, a
// human-readable message, and free-form details for logging. Err optionally
// wraps a sentinel so callers can match with errors.Is.
type Error struct {
	Type    ErrorType
	Message string
	Details map[string]interface{}
	Err     error
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e Error) Unwrap() error {
	return e.Err
}

var (
	ErrNotIdle          = errors.New("run already started")
	ErrDuplicateNode    = errors.New("node id already present in workflow")
	ErrNodeNotFound     = errors.New("node not found")
	ErrTypeNotFound     = errors.New("node type not registered")
	ErrDuplicateType    = errors.New("node type already registered")
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrStoreClosed      = errors.New("workflow store is closed")
	ErrManagerClosed    = errors.New("manager is closed")
	ErrInvalidInput     = errors.New("invalid input")
	ErrStopped          = errors.New("run stopped by request")
)

func IsValidationError(err error) bool {
	var e Error
	return errors.As(err, &e) && e.Type == ErrorTypeValidation
}

func IsTimeoutError(err error) bool {
	var e Error
	return errors.As(err, &e) && e.Type == ErrorTypeTimeout
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound) ||
		errors.Is(err, ErrTypeNotFound) ||
		errors.Is(err, ErrWorkflowNotFound)
}

package ports

import (
	"io"
)

// ExecutionContext is the run-scoped bag of variables and external resources
// a node sees while executing. Release is called exactly once when the run
// reaches a terminal state, whatever the outcome.
type ExecutionContext interface {
	GetVariable(name string) (interface{}, bool)
	SetVariable(name string, value interface{})
	Variables() map[string]interface{}

	// RegisterResource scopes an external resource (browser session, file
	// handle, ...) to this run; Release closes it.
	RegisterResource(name string, resource io.Closer)
	Release() error
}

// ContextFactory builds the execution context for one run.
type ContextFactory func(variables map[string]interface{}) (ExecutionContext, error)

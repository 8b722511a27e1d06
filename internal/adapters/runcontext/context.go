package runcontext

import (
	"io"
	"log/slog"
	"sync"
)

type namedResource struct {
	name   string
	closer io.Closer
}

// Context is the default execution context: a run-scoped variable store and
// a registry of external resources released exactly once when the run
// finishes, whatever the outcome.
type Context struct {
	logger *slog.Logger

	mu        sync.RWMutex
	variables map[string]interface{}
	resources []namedResource

	releaseOnce sync.Once
	releaseErr  error
}

func New(logger *slog.Logger, variables map[string]interface{}) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	if variables == nil {
		variables = make(map[string]interface{})
	}
	return &Context{
		logger:    logger.With("component", "run-context"),
		variables: variables,
	}
}

func (c *Context) GetVariable(name string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.variables[name]
	return value, ok
}

func (c *Context) SetVariable(name string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.variables[name] = value
}

// Variables returns a copy of the current variable map.
func (c *Context) Variables() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]interface{}, len(c.variables))
	for k, v := range c.variables {
		out[k] = v
	}
	return out
}

func (c *Context) RegisterResource(name string, resource io.Closer) {
	if resource == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = append(c.resources, namedResource{name: name, closer: resource})
}

// Release closes every registered resource in reverse registration order.
// It runs at most once; later calls return the first outcome. Close failures
// are logged and the first one is reported, never re-raised as a panic.
func (c *Context) Release() error {
	c.releaseOnce.Do(func() {
		c.mu.Lock()
		resources := c.resources
		c.resources = nil
		c.mu.Unlock()

		for i := len(resources) - 1; i >= 0; i-- {
			r := resources[i]
			if err := r.closer.Close(); err != nil {
				c.logger.Error("failed to release resource",
					"resource", r.name,
					"error", err)
				if c.releaseErr == nil {
					c.releaseErr = err
				}
			} else {
				c.logger.Debug("resource released", "resource", r.name)
			}
		}
	})
	return c.releaseErr
}

package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatsTypeAndMessage(t *testing.T) {
	err := Error{Type: ErrorTypeTimeout, Message: "node t1 timed out"}
	assert.Equal(t, "timeout: node t1 timed out", err.Error())
}

func TestErrorTypeHelpers(t *testing.T) {
	validation := Error{Type: ErrorTypeValidation, Message: "bad graph"}
	timeout := Error{Type: ErrorTypeTimeout, Message: "too slow"}

	assert.True(t, IsValidationError(validation))
	assert.False(t, IsValidationError(timeout))
	assert.True(t, IsTimeoutError(timeout))

	wrapped := fmt.Errorf("run failed: %w", validation)
	assert.True(t, IsValidationError(wrapped))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNodeNotFound))
	assert.True(t, IsNotFound(ErrTypeNotFound))
	assert.True(t, IsNotFound(ErrWorkflowNotFound))
	assert.False(t, IsNotFound(ErrStopped))
	assert.True(t, IsNotFound(fmt.Errorf("load: %w", ErrWorkflowNotFound)))
}

package events

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestManagerDispatchesToAllHandlers(t *testing.T) {
	m := NewManager(testLogger())

	var first, second string
	require.NoError(t, m.OnWorkflowStarted(func(e *domain.WorkflowStartedEvent) {
		first = e.RunID
	}))
	require.NoError(t, m.OnWorkflowStarted(func(e *domain.WorkflowStartedEvent) {
		second = e.RunID
	}))

	m.PublishWorkflowStarted(&domain.WorkflowStartedEvent{RunID: "run-1"})

	assert.Equal(t, "run-1", first)
	assert.Equal(t, "run-1", second)
}

func TestManagerContainsHandlerPanic(t *testing.T) {
	m := NewManager(testLogger())

	reached := false
	require.NoError(t, m.OnNodeError(func(e *domain.NodeErrorEvent) {
		panic("handler bug")
	}))
	require.NoError(t, m.OnNodeError(func(e *domain.NodeErrorEvent) {
		reached = true
	}))

	assert.NotPanics(t, func() {
		m.PublishNodeError(&domain.NodeErrorEvent{NodeID: "n1", Error: "boom"})
	})
	assert.True(t, reached)
}

func TestManagerRejectsHandlersAfterClose(t *testing.T) {
	m := NewManager(testLogger())
	require.NoError(t, m.Close())

	err := m.OnWorkflowCompleted(func(e *domain.WorkflowCompletedEvent) {})
	assert.ErrorIs(t, err, domain.ErrManagerClosed)
}

func TestManagerDropsEventsAfterClose(t *testing.T) {
	m := NewManager(testLogger())

	called := false
	require.NoError(t, m.OnWorkflowStopped(func(e *domain.WorkflowStoppedEvent) {
		called = true
	}))
	require.NoError(t, m.Close())

	m.PublishWorkflowStopped(&domain.WorkflowStoppedEvent{RunID: "run-1"})
	assert.False(t, called)
}

func TestManagerNodeLifecycleEvents(t *testing.T) {
	m := NewManager(testLogger())

	var order []string
	require.NoError(t, m.OnNodeStarted(func(e *domain.NodeStartedEvent) {
		order = append(order, "started:"+e.NodeID)
	}))
	require.NoError(t, m.OnNodeCompleted(func(e *domain.NodeCompletedEvent) {
		order = append(order, "completed:"+e.NodeID)
	}))

	m.PublishNodeStarted(&domain.NodeStartedEvent{NodeID: "n1"})
	m.PublishNodeCompleted(&domain.NodeCompletedEvent{NodeID: "n1"})

	assert.Equal(t, []string{"started:n1", "completed:n1"}, order)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionStateRecordsErrors(t *testing.T) {
	state := NewExecutionState("run-1", nil)

	state.RecordResult(&ExecutionResult{NodeID: "a", Success: true})
	state.RecordResult(&ExecutionResult{NodeID: "b", Success: false, Error: "boom"})
	state.RecordResult(nil)

	require.Len(t, state.Errors, 1)
	assert.Equal(t, "b", state.Errors[0].NodeID)
	assert.Equal(t, "boom", state.Errors[0].Message)
	assert.Len(t, state.NodeResults, 2)
}

func TestExecutionStateExecutedOrder(t *testing.T) {
	state := NewExecutionState("run-1", nil)

	state.MarkExecuted("a")
	state.MarkExecuted("b")
	state.MarkExecuted("a") // repeats never duplicate

	assert.Equal(t, []string{"a", "b"}, state.ExecutedNodes())
	assert.Equal(t, 2, state.ExecutedCount())
	assert.True(t, state.WasExecuted("a"))
	assert.False(t, state.WasExecuted("c"))
}

func TestExecutionStateExecutedNodesReturnsCopy(t *testing.T) {
	state := NewExecutionState("run-1", nil)
	state.MarkExecuted("a")

	nodes := state.ExecutedNodes()
	nodes[0] = "mutated"

	assert.Equal(t, []string{"a"}, state.ExecutedNodes())
}

func TestWorkflowStatusTerminal(t *testing.T) {
	assert.True(t, WorkflowStatusCompleted.IsTerminal())
	assert.True(t, WorkflowStatusStopped.IsTerminal())
	assert.True(t, WorkflowStatusError.IsTerminal())
	assert.False(t, WorkflowStatusIdle.IsTerminal())
	assert.False(t, WorkflowStatusRunning.IsTerminal())
	assert.False(t, WorkflowStatusPaused.IsTerminal())
}

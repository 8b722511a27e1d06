package domain

import (
	"time"
)

type WorkflowStatus string

const (
	WorkflowStatusIdle      WorkflowStatus = "idle"
	WorkflowStatusRunning   WorkflowStatus = "running"
	WorkflowStatusPaused    WorkflowStatus = "paused"
	WorkflowStatusStopped   WorkflowStatus = "stopped"
	WorkflowStatusCompleted WorkflowStatus = "completed"
	WorkflowStatusError     WorkflowStatus = "error"
)

// IsTerminal reports whether the status is one of the three run-ending
// states.
func (s WorkflowStatus) IsTerminal() bool {
	return s == WorkflowStatusStopped || s == WorkflowStatusCompleted || s == WorkflowStatusError
}

type NodeError struct {
	NodeID  string `json:"node_id"`
	Message string `json:"message"`
}

// ExecutionState is the mutable aggregate of one run. It is owned
// exclusively by the coordinator for the run's duration; observers only ever
// see copies.
type ExecutionState struct {
	RunID         string
	Status        WorkflowStatus
	CurrentNodeID string
	NodeResults   map[string]*ExecutionResult
	Variables     map[string]interface{}
	Errors        []NodeError
	StartedAt     time.Time

	executedOrder []string
	executedSet   map[string]struct{}
}

func NewExecutionState(runID string, variables map[string]interface{}) *ExecutionState {
	if variables == nil {
		variables = make(map[string]interface{})
	}
	return &ExecutionState{
		RunID:       runID,
		Status:      WorkflowStatusIdle,
		NodeResults: make(map[string]*ExecutionResult),
		Variables:   variables,
		StartedAt:   time.Now(),
		executedSet: make(map[string]struct{}),
	}
}

func (s *ExecutionState) RecordResult(result *ExecutionResult) {
	if result == nil {
		return
	}
	s.NodeResults[result.NodeID] = result
	if !result.Success {
		s.Errors = append(s.Errors, NodeError{NodeID: result.NodeID, Message: result.Error})
	}
}

func (s *ExecutionState) MarkExecuted(nodeID string) {
	if _, seen := s.executedSet[nodeID]; !seen {
		s.executedOrder = append(s.executedOrder, nodeID)
		s.executedSet[nodeID] = struct{}{}
	}
}

func (s *ExecutionState) WasExecuted(nodeID string) bool {
	_, ok := s.executedSet[nodeID]
	return ok
}

// ExecutedNodes returns the executed node ids in first-execution order.
func (s *ExecutionState) ExecutedNodes() []string {
	out := make([]string, len(s.executedOrder))
	copy(out, s.executedOrder)
	return out
}

func (s *ExecutionState) ExecutedCount() int {
	return len(s.executedOrder)
}

func (s *ExecutionState) GetVariable(name string) (interface{}, bool) {
	v, ok := s.Variables[name]
	return v, ok
}

func (s *ExecutionState) SetVariable(name string, value interface{}) {
	s.Variables[name] = value
}

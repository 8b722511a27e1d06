package domain

import (
	"time"
)

// Control-flow directives a node result may carry. They are hints consumed
// by loop-construct nodes; the routing engine passes them through untouched.
const (
	ControlFlowBreak    = "break"
	ControlFlowContinue = "continue"
)

// ExecutionResult captures the outcome of one node invocation. It is
// produced exactly once per invocation and never mutated afterward.
type ExecutionResult struct {
	NodeID        string                 `json:"node_id"`
	Success       bool                   `json:"success"`
	Data          map[string]interface{} `json:"data,omitempty"`
	Error         string                 `json:"error,omitempty"`
	ErrorCode     string                 `json:"error_code,omitempty"`
	ExecutionTime time.Duration          `json:"execution_time"`
	Timestamp     time.Time              `json:"timestamp"`
	ControlFlow   string                 `json:"control_flow,omitempty"`
	NextNodes     []string               `json:"next_nodes,omitempty"`
	Bypassed      bool                   `json:"bypassed,omitempty"`
	AttemptNumber int                    `json:"attempt_number"`
	WasRetried    bool                   `json:"was_retried,omitempty"`
}

// WorkflowExecutionResult is the structured summary returned to the caller
// for every run, whatever its outcome. Callers never catch panics from the
// engine; everything surfaces here.
type WorkflowExecutionResult struct {
	Success          bool                        `json:"success"`
	NodeResults      map[string]*ExecutionResult `json:"node_results"`
	TotalNodes       int                         `json:"total_nodes"`
	ExecutedNodes    []string                    `json:"executed_nodes"`
	Duration         time.Duration               `json:"duration"`
	StartedAt        time.Time                   `json:"started_at"`
	CompletedAt      time.Time                   `json:"completed_at"`
	Error            string                      `json:"error,omitempty"`
	ValidationErrors []string                    `json:"validation_errors,omitempty"`
	StoppedByUser    bool                        `json:"stopped_by_user,omitempty"`
}

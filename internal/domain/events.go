package domain

import (
	"time"
)

type WorkflowStartedEvent struct {
	RunID        string                 `json:"run_id"`
	WorkflowName string                 `json:"workflow_name"`
	StartedAt    time.Time              `json:"started_at"`
	TotalNodes   int                    `json:"total_nodes"`
	Variables    map[string]interface{} `json:"variables,omitempty"`
}

type WorkflowCompletedEvent struct {
	RunID         string        `json:"run_id"`
	WorkflowName  string        `json:"workflow_name"`
	CompletedAt   time.Time     `json:"completed_at"`
	Duration      time.Duration `json:"duration"`
	ExecutedNodes []string      `json:"executed_nodes"`
}

type WorkflowErrorEvent struct {
	RunID        string    `json:"run_id"`
	WorkflowName string    `json:"workflow_name"`
	FailedNode   string    `json:"failed_node,omitempty"`
	Error        string    `json:"error"`
	FailedAt     time.Time `json:"failed_at"`
}

type WorkflowStoppedEvent struct {
	RunID         string    `json:"run_id"`
	WorkflowName  string    `json:"workflow_name"`
	StoppedAt     time.Time `json:"stopped_at"`
	ExecutedNodes []string  `json:"executed_nodes"`
}

type WorkflowPausedEvent struct {
	RunID        string    `json:"run_id"`
	WorkflowName string    `json:"workflow_name"`
	PausedAt     time.Time `json:"paused_at"`
	NodeID       string    `json:"node_id,omitempty"`
}

type WorkflowResumedEvent struct {
	RunID        string    `json:"run_id"`
	WorkflowName string    `json:"workflow_name"`
	ResumedAt    time.Time `json:"resumed_at"`
}

type NodeStartedEvent struct {
	RunID       string    `json:"run_id"`
	NodeID      string    `json:"node_id"`
	NodeType    string    `json:"node_type"`
	ExecutionID string    `json:"execution_id"`
	StartedAt   time.Time `json:"started_at"`
}

type NodeCompletedEvent struct {
	RunID       string        `json:"run_id"`
	NodeID      string        `json:"node_id"`
	NodeType    string        `json:"node_type"`
	ExecutionID string        `json:"execution_id"`
	CompletedAt time.Time     `json:"completed_at"`
	Duration    time.Duration `json:"duration"`
	Bypassed    bool          `json:"bypassed,omitempty"`
	NextNodes   []string      `json:"next_nodes,omitempty"`
}

type NodeErrorEvent struct {
	RunID       string        `json:"run_id"`
	NodeID      string        `json:"node_id"`
	NodeType    string        `json:"node_type"`
	ExecutionID string        `json:"execution_id"`
	Error       string        `json:"error"`
	ErrorCode   string        `json:"error_code,omitempty"`
	FailedAt    time.Time     `json:"failed_at"`
	Duration    time.Duration `json:"duration"`
}

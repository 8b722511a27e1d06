package domain

import (
	"sync/atomic"
	"time"
)

// ExecutionMetrics is a set of run counters safe for concurrent updates.
// Reads go through GetSnapshot.
type ExecutionMetrics struct {
	WorkflowsStarted   int64 `json:"workflows_started"`
	WorkflowsCompleted int64 `json:"workflows_completed"`
	WorkflowsFailed    int64 `json:"workflows_failed"`
	WorkflowsStopped   int64 `json:"workflows_stopped"`
	WorkflowsPaused    int64 `json:"workflows_paused"`
	WorkflowsResumed   int64 `json:"workflows_resumed"`

	NodesExecuted  int64 `json:"nodes_executed"`
	NodesSucceeded int64 `json:"nodes_succeeded"`
	NodesFailed    int64 `json:"nodes_failed"`
	NodesTimedOut  int64 `json:"nodes_timed_out"`
	NodesRetried   int64 `json:"nodes_retried"`
	NodesBypassed  int64 `json:"nodes_bypassed"`

	TotalExecutionTimeNs int64 `json:"total_execution_time_ns"`
	NodeExecutionCount   int64 `json:"node_execution_count"`
}

func NewExecutionMetrics() *ExecutionMetrics {
	return &ExecutionMetrics{}
}

func (m *ExecutionMetrics) IncrementWorkflowsStarted()   { atomic.AddInt64(&m.WorkflowsStarted, 1) }
func (m *ExecutionMetrics) IncrementWorkflowsCompleted() { atomic.AddInt64(&m.WorkflowsCompleted, 1) }
func (m *ExecutionMetrics) IncrementWorkflowsFailed()    { atomic.AddInt64(&m.WorkflowsFailed, 1) }
func (m *ExecutionMetrics) IncrementWorkflowsStopped()   { atomic.AddInt64(&m.WorkflowsStopped, 1) }
func (m *ExecutionMetrics) IncrementWorkflowsPaused()    { atomic.AddInt64(&m.WorkflowsPaused, 1) }
func (m *ExecutionMetrics) IncrementWorkflowsResumed()   { atomic.AddInt64(&m.WorkflowsResumed, 1) }

func (m *ExecutionMetrics) IncrementNodesExecuted()  { atomic.AddInt64(&m.NodesExecuted, 1) }
func (m *ExecutionMetrics) IncrementNodesSucceeded() { atomic.AddInt64(&m.NodesSucceeded, 1) }
func (m *ExecutionMetrics) IncrementNodesFailed()    { atomic.AddInt64(&m.NodesFailed, 1) }
func (m *ExecutionMetrics) IncrementNodesTimedOut()  { atomic.AddInt64(&m.NodesTimedOut, 1) }
func (m *ExecutionMetrics) IncrementNodesRetried()   { atomic.AddInt64(&m.NodesRetried, 1) }
func (m *ExecutionMetrics) IncrementNodesBypassed()  { atomic.AddInt64(&m.NodesBypassed, 1) }

func (m *ExecutionMetrics) AddExecutionTime(duration time.Duration) {
	atomic.AddInt64(&m.TotalExecutionTimeNs, int64(duration))
	atomic.AddInt64(&m.NodeExecutionCount, 1)
}

func (m *ExecutionMetrics) GetSnapshot() ExecutionMetrics {
	return ExecutionMetrics{
		WorkflowsStarted:     atomic.LoadInt64(&m.WorkflowsStarted),
		WorkflowsCompleted:   atomic.LoadInt64(&m.WorkflowsCompleted),
		WorkflowsFailed:      atomic.LoadInt64(&m.WorkflowsFailed),
		WorkflowsStopped:     atomic.LoadInt64(&m.WorkflowsStopped),
		WorkflowsPaused:      atomic.LoadInt64(&m.WorkflowsPaused),
		WorkflowsResumed:     atomic.LoadInt64(&m.WorkflowsResumed),
		NodesExecuted:        atomic.LoadInt64(&m.NodesExecuted),
		NodesSucceeded:       atomic.LoadInt64(&m.NodesSucceeded),
		NodesFailed:          atomic.LoadInt64(&m.NodesFailed),
		NodesTimedOut:        atomic.LoadInt64(&m.NodesTimedOut),
		NodesRetried:         atomic.LoadInt64(&m.NodesRetried),
		NodesBypassed:        atomic.LoadInt64(&m.NodesBypassed),
		TotalExecutionTimeNs: atomic.LoadInt64(&m.TotalExecutionTimeNs),
		NodeExecutionCount:   atomic.LoadInt64(&m.NodeExecutionCount),
	}
}

func (m *ExecutionMetrics) GetAverageExecutionTime() time.Duration {
	totalNs := atomic.LoadInt64(&m.TotalExecutionTimeNs)
	count := atomic.LoadInt64(&m.NodeExecutionCount)
	if count == 0 {
		return 0
	}
	return time.Duration(totalNs / count)
}

func (m *ExecutionMetrics) Reset() {
	atomic.StoreInt64(&m.WorkflowsStarted, 0)
	atomic.StoreInt64(&m.WorkflowsCompleted, 0)
	atomic.StoreInt64(&m.WorkflowsFailed, 0)
	atomic.StoreInt64(&m.WorkflowsStopped, 0)
	atomic.StoreInt64(&m.WorkflowsPaused, 0)
	atomic.StoreInt64(&m.WorkflowsResumed, 0)
	atomic.StoreInt64(&m.NodesExecuted, 0)
	atomic.StoreInt64(&m.NodesSucceeded, 0)
	atomic.StoreInt64(&m.NodesFailed, 0)
	atomic.StoreInt64(&m.NodesTimedOut, 0)
	atomic.StoreInt64(&m.NodesRetried, 0)
	atomic.StoreInt64(&m.NodesBypassed, 0)
	atomic.StoreInt64(&m.TotalExecutionTimeNs, 0)
	atomic.StoreInt64(&m.NodeExecutionCount, 0)
}

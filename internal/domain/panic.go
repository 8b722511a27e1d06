package domain

import (
	"fmt"
	"runtime"
	"time"
)

// NodePanicError wraps a panic recovered during node invocation together
// with the stack captured at recovery time.
type NodePanicError struct {
	NodeID     string      `json:"node_id"`
	PanicValue interface{} `json:"panic_value"`
	StackTrace string      `json:"stack_trace"`
	Timestamp  time.Time   `json:"timestamp"`
}

func (e *NodePanicError) Error() string {
	return fmt.Sprintf("node %s panicked: %v", e.NodeID, e.PanicValue)
}

func NewNodePanicError(nodeID string, panicValue interface{}) *NodePanicError {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)

	return &NodePanicError{
		NodeID:     nodeID,
		PanicValue: panicValue,
		StackTrace: string(buf[:n]),
		Timestamp:  time.Now(),
	}
}

package ports

import (
	"context"

	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
)

// InvokeResult is the raw outcome a runnable node hands back. The node
// execution service normalizes it (or any error/panic raised instead) into a
// canonical domain.ExecutionResult.
type InvokeResult struct {
	Success     bool                   `json:"success"`
	Data        map[string]interface{} `json:"data,omitempty"`
	Error       string                 `json:"error,omitempty"`
	ErrorCode   string                 `json:"error_code,omitempty"`
	ControlFlow string                 `json:"control_flow,omitempty"`
	NextNodes   []string               `json:"next_nodes,omitempty"`
}

// RunnableNode is the capability the engine invokes for a node's behavior.
// What a node actually does (browser, desktop, HTTP, file, ...) is opaque
// here; implementations are resolved per type tag through the registry.
type RunnableNode interface {
	Invoke(ctx context.Context, ec ExecutionContext, node *domain.Node) (*InvokeResult, error)
}

// NodeFactory builds a fresh runnable for one invocation.
type NodeFactory func() RunnableNode

// NodeRegistryPort resolves node type tags to runnable behavior. The engine
// never switches on type strings; it goes through this port.
type NodeRegistryPort interface {
	Register(typeTag string, factory NodeFactory) error
	Resolve(typeTag string) (RunnableNode, error)
	Has(typeTag string) bool
	Types() []string
}

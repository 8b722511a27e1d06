// Package casare is a workflow execution engine for node-based visual
// workflows. A workflow is a directed graph of typed nodes joined by
// execution and data connections; the engine validates the graph, walks it
// from the start node following the execution ports each node activates,
// transfers data across data connections, and drives every run to a terminal
// outcome with pause, resume, stop, and run-to-node control.
//
// The package re-exports the engine's domain types and wires the default
// adapters so most programs only import this package:
//
//	engine := casare.New(casare.Config{})
//	defer engine.Close()
//
//	engine.RegisterNode("start", func() casare.RunnableNode { ... })
//
//	wf := casare.NewWorkflow("greeter")
//	result, err := engine.Execute(ctx, wf, casare.RunOptions{})
package casare

import (
	"log/slog"

	"github.com/omerlefaruk/CasareRPA-sub001/internal/adapters/store"
	"github.com/omerlefaruk/CasareRPA-sub001/internal/core"
	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
	"github.com/omerlefaruk/CasareRPA-sub001/internal/ports"
)

// Graph model.
type (
	Workflow         = domain.Workflow
	WorkflowMetadata = domain.WorkflowMetadata
	Settings         = domain.Settings
	Node             = domain.Node
	Port             = domain.Port
	Position         = domain.Position
	Connection       = domain.Connection
	WorkflowSnapshot = domain.WorkflowSnapshot
)

// Execution model.
type (
	ExecutionResult         = domain.ExecutionResult
	WorkflowExecutionResult = domain.WorkflowExecutionResult
	ExecutionState          = domain.ExecutionState
	WorkflowStatus          = domain.WorkflowStatus
	NodeStatus              = domain.NodeStatus
	NodeError               = domain.NodeError
	ExecutionMetrics        = domain.ExecutionMetrics
)

// Node behavior contracts.
type (
	RunnableNode     = ports.RunnableNode
	NodeFactory      = ports.NodeFactory
	InvokeResult     = ports.InvokeResult
	ExecutionContext = ports.ExecutionContext
)

// Lifecycle events.
type (
	WorkflowStartedEvent   = domain.WorkflowStartedEvent
	WorkflowCompletedEvent = domain.WorkflowCompletedEvent
	WorkflowErrorEvent     = domain.WorkflowErrorEvent
	WorkflowStoppedEvent   = domain.WorkflowStoppedEvent
	WorkflowPausedEvent    = domain.WorkflowPausedEvent
	WorkflowResumedEvent   = domain.WorkflowResumedEvent
	NodeStartedEvent       = domain.NodeStartedEvent
	NodeCompletedEvent     = domain.NodeCompletedEvent
	NodeErrorEvent         = domain.NodeErrorEvent
)

// Engine surface.
type (
	Manager    = core.Manager
	Run        = core.Coordinator
	RunOptions = core.RunOptions
)

// Node statuses.
const (
	NodeStatusIdle      = domain.NodeStatusIdle
	NodeStatusRunning   = domain.NodeStatusRunning
	NodeStatusSuccess   = domain.NodeStatusSuccess
	NodeStatusError     = domain.NodeStatusError
	NodeStatusSkipped   = domain.NodeStatusSkipped
	NodeStatusCancelled = domain.NodeStatusCancelled
)

// Run statuses.
const (
	StatusIdle      = domain.WorkflowStatusIdle
	StatusRunning   = domain.WorkflowStatusRunning
	StatusPaused    = domain.WorkflowStatusPaused
	StatusStopped   = domain.WorkflowStatusStopped
	StatusCompleted = domain.WorkflowStatusCompleted
	StatusError     = domain.WorkflowStatusError
)

// Well-known node type tags the routing engine treats specially.
const (
	NodeTypeStart          = domain.NodeTypeStart
	NodeTypeEnd            = domain.NodeTypeEnd
	NodeTypeForLoopStart   = domain.NodeTypeForLoopStart
	NodeTypeForLoopEnd     = domain.NodeTypeForLoopEnd
	NodeTypeWhileLoopStart = domain.NodeTypeWhileLoopStart
	NodeTypeWhileLoopEnd   = domain.NodeTypeWhileLoopEnd
)

// Control flow signals a node may return.
const (
	ControlFlowBreak    = domain.ControlFlowBreak
	ControlFlowContinue = domain.ControlFlowContinue
)

// ExecutionPortToken names the port kind that carries control flow rather
// than data.
const ExecutionPortToken = domain.ExecutionPortToken

// Sentinel errors callers can match with errors.Is.
var (
	ErrNotIdle          = domain.ErrNotIdle
	ErrDuplicateNode    = domain.ErrDuplicateNode
	ErrDuplicateType    = domain.ErrDuplicateType
	ErrNodeNotFound     = domain.ErrNodeNotFound
	ErrTypeNotFound     = domain.ErrTypeNotFound
	ErrWorkflowNotFound = domain.ErrWorkflowNotFound
	ErrStopped          = domain.ErrStopped
	ErrManagerClosed    = domain.ErrManagerClosed
)

// Config configures a Manager. Zero value works: logging falls back to
// slog.Default and persistence is disabled until a store is attached.
type Config struct {
	Logger *slog.Logger

	// StorePath, when set, opens a badger-backed workflow store at the
	// given directory. InMemoryStore opens a volatile store instead; the
	// two are mutually exclusive and StorePath wins.
	StorePath     string
	InMemoryStore bool
}

// New builds the engine facade with the default adapters.
func New(cfg Config) (*Manager, error) {
	var st ports.WorkflowStorePort
	switch {
	case cfg.StorePath != "":
		s, err := store.Open(cfg.StorePath, cfg.Logger)
		if err != nil {
			return nil, err
		}
		st = s
	case cfg.InMemoryStore:
		s, err := store.OpenInMemory(cfg.Logger)
		if err != nil {
			return nil, err
		}
		st = s
	}

	return core.NewManager(core.ManagerConfig{
		Logger: cfg.Logger,
		Store:  st,
	}), nil
}

// NewWorkflow builds an empty named workflow with default settings.
func NewWorkflow(name string) *Workflow {
	return domain.NewWorkflow(name)
}

// NewNode builds a node with the given id and type tag.
func NewNode(id, nodeType string) (*Node, error) {
	return domain.NewNode(id, nodeType)
}

// FromSnapshot reconstructs a workflow from a structural snapshot,
// re-validating the graph as it rebuilds.
func FromSnapshot(snapshot *WorkflowSnapshot) (*Workflow, error) {
	return domain.FromSnapshot(snapshot)
}

// UnmarshalWorkflow decodes a serialized snapshot into a validated workflow.
func UnmarshalWorkflow(data []byte) (*Workflow, error) {
	return domain.UnmarshalWorkflow(data)
}

// DefaultSettings returns the engine's run defaults: stop on error, a 120
// second per-node timeout, no retries, no target node.
func DefaultSettings() Settings {
	return domain.DefaultSettings()
}

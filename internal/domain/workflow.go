package domain

import (
	"time"
)

// WorkflowMetadata is the descriptive envelope of a workflow. UpdatedAt
// follows every structural mutation through Touch.
type WorkflowMetadata struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Author      string    `json:"author,omitempty"`
	Version     string    `json:"version,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m *WorkflowMetadata) Touch() {
	m.UpdatedAt = time.Now()
}

// Settings carries the per-run execution policy. NodeTimeoutSeconds and
// RetryCount apply per node; TargetNodeID restricts the run to the subgraph
// between the start node and the target.
type Settings struct {
	StopOnError        bool   `json:"stop_on_error"`
	NodeTimeoutSeconds int    `json:"node_timeout"`
	RetryCount         int    `json:"retry_count"`
	TargetNodeID       string `json:"target_node_id,omitempty"`
	DebugMode          bool   `json:"debug_mode,omitempty"`
	StepMode           bool   `json:"step_mode,omitempty"`
}

const DefaultNodeTimeoutSeconds = 120

func DefaultSettings() Settings {
	return Settings{
		StopOnError:        true,
		NodeTimeoutSeconds: DefaultNodeTimeoutSeconds,
	}
}

func (s Settings) NodeTimeout() time.Duration {
	if s.NodeTimeoutSeconds <= 0 {
		return DefaultNodeTimeoutSeconds * time.Second
	}
	return time.Duration(s.NodeTimeoutSeconds) * time.Second
}

func (s Settings) ContinueOnError() bool {
	return !s.StopOnError
}

// Workflow is the aggregate root of the graph model. Mutation goes through
// AddNode/RemoveNode/AddConnection/RemoveConnection only, which enforce the
// graph invariants and touch the metadata.
type Workflow struct {
	Metadata    WorkflowMetadata       `json:"metadata"`
	Nodes       map[string]*Node       `json:"nodes"`
	Connections []Connection           `json:"connections"`
	Variables   map[string]interface{} `json:"variables,omitempty"`
	Settings    Settings               `json:"settings"`
}

func NewWorkflow(name string) *Workflow {
	now := time.Now()
	return &Workflow{
		Metadata: WorkflowMetadata{
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Nodes:       make(map[string]*Node),
		Connections: make([]Connection, 0),
		Variables:   make(map[string]interface{}),
		Settings:    DefaultSettings(),
	}
}

func (w *Workflow) AddNode(n *Node) error {
	if n == nil {
		return ErrInvalidInput
	}
	if err := n.Validate(); err != nil {
		return err
	}
	if _, exists := w.Nodes[n.ID]; exists {
		return Error{
			Type:    ErrorTypeValidation,
			Message: "node id already present in workflow: " + n.ID,
			Details: map[string]interface{}{"node_id": n.ID},
			Err:     ErrDuplicateNode,
		}
	}
	w.Nodes[n.ID] = n
	w.Metadata.Touch()
	return nil
}

// RemoveNode removes the node and cascades to every connection touching it.
func (w *Workflow) RemoveNode(nodeID string) error {
	if _, exists := w.Nodes[nodeID]; !exists {
		return ErrNodeNotFound
	}
	delete(w.Nodes, nodeID)

	kept := w.Connections[:0]
	for _, c := range w.Connections {
		if !c.Touches(nodeID) {
			kept = append(kept, c)
		}
	}
	w.Connections = kept
	w.Metadata.Touch()
	return nil
}

func (w *Workflow) AddConnection(c Connection) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, exists := w.Nodes[c.SourceNodeID]; !exists {
		return Error{
			Type:    ErrorTypeValidation,
			Message: "connection source node does not exist: " + c.SourceNodeID,
			Details: map[string]interface{}{"node_id": c.SourceNodeID},
		}
	}
	if _, exists := w.Nodes[c.TargetNodeID]; !exists {
		return Error{
			Type:    ErrorTypeValidation,
			Message: "connection target node does not exist: " + c.TargetNodeID,
			Details: map[string]interface{}{"node_id": c.TargetNodeID},
		}
	}
	w.Connections = append(w.Connections, c)
	w.Metadata.Touch()
	return nil
}

func (w *Workflow) RemoveConnection(c Connection) error {
	for i, existing := range w.Connections {
		if existing == c {
			w.Connections = append(w.Connections[:i], w.Connections[i+1:]...)
			w.Metadata.Touch()
			return nil
		}
	}
	return Error{
		Type:    ErrorTypeValidation,
		Message: "connection not found in workflow",
	}
}

func (w *Workflow) GetNode(nodeID string) (*Node, bool) {
	n, ok := w.Nodes[nodeID]
	return n, ok
}

func (w *Workflow) NodeCount() int {
	return len(w.Nodes)
}

// ConnectionsFrom returns the outgoing connections of a node in declaration
// order.
func (w *Workflow) ConnectionsFrom(nodeID string) []Connection {
	var out []Connection
	for _, c := range w.Connections {
		if c.SourceNodeID == nodeID {
			out = append(out, c)
		}
	}
	return out
}

// ConnectionsInto returns the incoming connections of a node in declaration
// order.
func (w *Workflow) ConnectionsInto(nodeID string) []Connection {
	var out []Connection
	for _, c := range w.Connections {
		if c.TargetNodeID == nodeID {
			out = append(out, c)
		}
	}
	return out
}

// ResetRuntime clears transient runtime state on every node, readying the
// graph for a fresh run.
func (w *Workflow) ResetRuntime() {
	for _, n := range w.Nodes {
		n.ResetRuntime()
	}
}

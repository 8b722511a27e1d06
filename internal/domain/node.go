package domain

import (
	"strings"
)

type NodeStatus string

const (
	NodeStatusIdle      NodeStatus = "idle"
	NodeStatusRunning   NodeStatus = "running"
	NodeStatusSuccess   NodeStatus = "success"
	NodeStatusError     NodeStatus = "error"
	NodeStatusSkipped   NodeStatus = "skipped"
	NodeStatusCancelled NodeStatus = "cancelled"
)

type PortDirection string

const (
	PortDirectionInput  PortDirection = "input"
	PortDirectionOutput PortDirection = "output"
)

// ConfigKeyDisabled is the reserved config flag that marks a node as
// disabled; disabled nodes are bypassed instead of invoked.
const ConfigKeyDisabled = "disabled"

// ExecutionPortToken marks a port as carrying control flow rather than data.
// The convention is by name: any port whose name contains this token is an
// execution port.
const ExecutionPortToken = "exec"

func IsExecutionPort(portName string) bool {
	return strings.Contains(portName, ExecutionPortToken)
}

type Port struct {
	Name      string        `json:"name"`
	Direction PortDirection `json:"direction"`
	DataType  string        `json:"data_type,omitempty"`
	Required  bool          `json:"required,omitempty"`
	Default   interface{}   `json:"default,omitempty"`
}

func (p Port) IsExecution() bool {
	return IsExecutionPort(p.Name)
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a single vertex of a workflow graph. The serialized shape covers
// identity, type tag, config, ports, position and metadata; the runtime
// fields (status, error message, transient port values) only exist for the
// duration of a run and are never serialized.
type Node struct {
	ID          string                 `json:"node_id"`
	Type        string                 `json:"node_type"`
	Config      map[string]interface{} `json:"config,omitempty"`
	InputPorts  map[string]Port        `json:"input_ports,omitempty"`
	OutputPorts map[string]Port        `json:"output_ports,omitempty"`
	Position    Position               `json:"position"`
	Metadata    map[string]string      `json:"metadata,omitempty"`

	Status       NodeStatus             `json:"-"`
	ErrorMessage string                 `json:"-"`
	InputValues  map[string]interface{} `json:"-"`
	OutputValues map[string]interface{} `json:"-"`
}

func NewNode(id, nodeType string) (*Node, error) {
	n := &Node{
		ID:          id,
		Type:        nodeType,
		Config:      make(map[string]interface{}),
		InputPorts:  make(map[string]Port),
		OutputPorts: make(map[string]Port),
		Status:      NodeStatusIdle,
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Node) Validate() error {
	if n.ID == "" {
		return Error{
			Type:    ErrorTypeValidation,
			Message: "node id must not be empty",
		}
	}
	if n.Type == "" {
		return Error{
			Type:    ErrorTypeValidation,
			Message: "node type must not be empty",
			Details: map[string]interface{}{"node_id": n.ID},
		}
	}
	return nil
}

func (n *Node) AddInputPort(p Port) {
	if n.InputPorts == nil {
		n.InputPorts = make(map[string]Port)
	}
	p.Direction = PortDirectionInput
	n.InputPorts[p.Name] = p
}

func (n *Node) AddOutputPort(p Port) {
	if n.OutputPorts == nil {
		n.OutputPorts = make(map[string]Port)
	}
	p.Direction = PortDirectionOutput
	n.OutputPorts[p.Name] = p
}

func (n *Node) IsDisabled() bool {
	if n.Config == nil {
		return false
	}
	disabled, ok := n.Config[ConfigKeyDisabled].(bool)
	return ok && disabled
}

func (n *Node) SetInputValue(port string, value interface{}) {
	if n.InputValues == nil {
		n.InputValues = make(map[string]interface{})
	}
	n.InputValues[port] = value
}

func (n *Node) GetInputValue(port string) (interface{}, bool) {
	value, ok := n.InputValues[port]
	return value, ok
}

func (n *Node) SetOutputValue(port string, value interface{}) {
	if n.OutputValues == nil {
		n.OutputValues = make(map[string]interface{})
	}
	n.OutputValues[port] = value
}

func (n *Node) GetOutputValue(port string) (interface{}, bool) {
	value, ok := n.OutputValues[port]
	return value, ok
}

// ResetRuntime clears every transient field back to its pre-run value.
func (n *Node) ResetRuntime() {
	n.Status = NodeStatusIdle
	n.ErrorMessage = ""
	n.InputValues = nil
	n.OutputValues = nil
}

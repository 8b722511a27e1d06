package domain

import (
	json "github.com/omerlefaruk/CasareRPA-sub001/internal/xjson"
)

// WorkflowSnapshot is the persisted structural shape of a workflow. The
// round trip ToSnapshot -> FromSnapshot is lossless for everything except
// the nodes' transient runtime fields, which are never serialized.
type WorkflowSnapshot struct {
	Metadata    WorkflowMetadata       `json:"metadata"`
	Nodes       map[string]*Node       `json:"nodes"`
	Connections []Connection           `json:"connections"`
	Variables   map[string]interface{} `json:"variables,omitempty"`
	Settings    Settings               `json:"settings"`
}

func (w *Workflow) ToSnapshot() *WorkflowSnapshot {
	nodes := make(map[string]*Node, len(w.Nodes))
	for id, n := range w.Nodes {
		copied := *n
		copied.ResetRuntime()
		nodes[id] = &copied
	}

	connections := make([]Connection, len(w.Connections))
	copy(connections, w.Connections)

	variables := make(map[string]interface{}, len(w.Variables))
	for k, v := range w.Variables {
		variables[k] = v
	}

	return &WorkflowSnapshot{
		Metadata:    w.Metadata,
		Nodes:       nodes,
		Connections: connections,
		Variables:   variables,
		Settings:    w.Settings,
	}
}

// FromSnapshot rebuilds a workflow from its persisted shape, re-validating
// every invariant along the way. A node whose own id disagrees with its map
// key is auto-corrected to the key.
func FromSnapshot(s *WorkflowSnapshot) (*Workflow, error) {
	if s == nil {
		return nil, ErrInvalidInput
	}

	w := NewWorkflow(s.Metadata.Name)
	w.Metadata = s.Metadata
	w.Settings = s.Settings
	if s.Variables != nil {
		w.Variables = make(map[string]interface{}, len(s.Variables))
		for k, v := range s.Variables {
			w.Variables[k] = v
		}
	}

	for key, n := range s.Nodes {
		if n == nil {
			continue
		}
		copied := *n
		copied.ID = key
		copied.Status = NodeStatusIdle
		if err := w.AddNode(&copied); err != nil {
			return nil, err
		}
	}

	for _, c := range s.Connections {
		if err := w.AddConnection(c); err != nil {
			return nil, err
		}
	}

	// AddNode/AddConnection touch the metadata; restore the persisted stamps.
	w.Metadata = s.Metadata
	return w, nil
}

func (w *Workflow) MarshalSnapshot() ([]byte, error) {
	return json.Marshal(w.ToSnapshot())
}

func UnmarshalWorkflow(data []byte) (*Workflow, error) {
	var s WorkflowSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, Error{
			Type:    ErrorTypeValidation,
			Message: "malformed workflow snapshot: " + err.Error(),
		}
	}
	return FromSnapshot(&s)
}

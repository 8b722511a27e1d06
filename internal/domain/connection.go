package domain

// Connection is an immutable directed edge between two node ports.
// Intentional loops are expressed through loop-construct node pairs, never
// through self-referential wiring, so a connection whose source and target
// are the same node is invalid.
type Connection struct {
	SourceNodeID string `json:"source_node_id"`
	SourcePort   string `json:"source_port"`
	TargetNodeID string `json:"target_node_id"`
	TargetPort   string `json:"target_port"`
}

func (c Connection) Validate() error {
	if c.SourceNodeID == "" || c.SourcePort == "" || c.TargetNodeID == "" || c.TargetPort == "" {
		return Error{
			Type:    ErrorTypeValidation,
			Message: "connection fields must not be empty",
			Details: map[string]interface{}{
				"source_node_id": c.SourceNodeID,
				"source_port":    c.SourcePort,
				"target_node_id": c.TargetNodeID,
				"target_port":    c.TargetPort,
			},
		}
	}
	if c.SourceNodeID == c.TargetNodeID {
		return Error{
			Type:    ErrorTypeValidation,
			Message: "connection must not loop a node back onto itself",
			Details: map[string]interface{}{"node_id": c.SourceNodeID},
		}
	}
	return nil
}

func (c Connection) Touches(nodeID string) bool {
	return c.SourceNodeID == nodeID || c.TargetNodeID == nodeID
}

// IsExecution reports whether this edge carries control flow. The source
// port name decides: execution ports route, data ports transfer values.
func (c Connection) IsExecution() bool {
	return IsExecutionPort(c.SourcePort)
}

// IsData reports whether the edge delivers a value into its target port.
func (c Connection) IsData() bool {
	return !IsExecutionPort(c.TargetPort)
}

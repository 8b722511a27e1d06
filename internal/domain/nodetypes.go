package domain

// Designated node type tags the routing engine understands. Every other type
// tag is opaque to the engine and resolved through the node registry.
const (
	NodeTypeStart = "start"
	NodeTypeEnd   = "end"

	NodeTypeForLoopStart   = "for_loop_start"
	NodeTypeForLoopEnd     = "for_loop_end"
	NodeTypeWhileLoopStart = "while_loop_start"
	NodeTypeWhileLoopEnd   = "while_loop_end"
)

func IsStartType(nodeType string) bool {
	return nodeType == NodeTypeStart
}

// IsControlFlowType reports whether nodes of this type may be visited more
// than once in a single run. Only loop headers and loop terminators qualify.
func IsControlFlowType(nodeType string) bool {
	switch nodeType {
	case NodeTypeForLoopStart, NodeTypeForLoopEnd,
		NodeTypeWhileLoopStart, NodeTypeWhileLoopEnd:
		return true
	}
	return false
}

// IsLoopTerminatorType reports whether an outgoing edge of this type back to
// an earlier node is an intentional cycle, exempt from cycle validation.
func IsLoopTerminatorType(nodeType string) bool {
	return nodeType == NodeTypeForLoopEnd || nodeType == NodeTypeWhileLoopEnd
}

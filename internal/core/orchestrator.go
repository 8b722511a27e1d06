package core

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
)

// Orchestrator is the routing engine over a workflow graph. It holds no
// run-scoped state; every method is a pure function of its arguments.
type Orchestrator struct {
	logger *slog.Logger
}

func NewOrchestrator(logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		logger: logger.With("component", "orchestrator"),
	}
}

// FindStartNode returns the id of the workflow's designated start node.
// When several nodes carry the start type, the lexicographically smallest id
// wins so the choice is deterministic. The second return is false when the
// workflow has no start node; the caller treats that as a validation
// failure.
func (o *Orchestrator) FindStartNode(w *domain.Workflow) (string, bool) {
	var candidates []string
	for id, n := range w.Nodes {
		if domain.IsStartType(n.Type) {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Strings(candidates)
	return candidates[0], true
}

// GetNextNodes resolves the successors of a node given its last result. The
// default is every outgoing execution edge in declaration order; when the
// result names the output ports that fired (branching and loop nodes do
// this), only edges leaving those ports are followed. Unknown node ids and
// terminal nodes yield an empty list, never an error.
func (o *Orchestrator) GetNextNodes(w *domain.Workflow, currentNodeID string, lastResult *domain.ExecutionResult) []string {
	if _, ok := w.GetNode(currentNodeID); !ok {
		return nil
	}

	var firedPorts map[string]struct{}
	if lastResult != nil && len(lastResult.NextNodes) > 0 {
		firedPorts = make(map[string]struct{}, len(lastResult.NextNodes))
		for _, port := range lastResult.NextNodes {
			firedPorts[port] = struct{}{}
		}
	}

	var next []string
	for _, conn := range w.ConnectionsFrom(currentNodeID) {
		if !conn.IsExecution() {
			continue
		}
		if firedPorts != nil {
			if _, fired := firedPorts[conn.SourcePort]; !fired {
				continue
			}
		}
		if _, exists := w.GetNode(conn.TargetNodeID); !exists {
			o.logger.Warn("skipping connection to unknown node",
				"source_node_id", conn.SourceNodeID,
				"target_node_id", conn.TargetNodeID)
			continue
		}
		next = append(next, conn.TargetNodeID)
	}
	return next
}

// IsControlFlowNode reports whether the node may be visited more than once
// in a single run (loop headers and loop terminators).
func (o *Orchestrator) IsControlFlowNode(w *domain.Workflow, nodeID string) bool {
	n, ok := w.GetNode(nodeID)
	return ok && domain.IsControlFlowType(n.Type)
}

// DetectCycles walks the graph depth-first with a recursion stack and
// reports every cycle that does not pass through a loop terminator.
// Intentional "terminator -> loop header" back-edges therefore pass
// validation wherever the traversal happens to enter the loop.
func (o *Orchestrator) DetectCycles(w *domain.Workflow) []string {
	const (
		white = iota // unvisited
		gray         // on the recursion stack
		black        // fully explored
	)

	color := make(map[string]int, len(w.Nodes))
	var stack []string
	var messages []string

	var visit func(nodeID string)
	visit = func(nodeID string) {
		color[nodeID] = gray
		stack = append(stack, nodeID)
		for _, conn := range w.ConnectionsFrom(nodeID) {
			target := conn.TargetNodeID
			if _, exists := w.GetNode(target); !exists {
				continue
			}
			switch color[target] {
			case white:
				visit(target)
			case gray:
				if !cycleHasLoopTerminator(w, stack, target) {
					messages = append(messages, fmt.Sprintf(
						"unintended cycle: edge %s -> %s closes a loop without a loop terminator",
						nodeID, target))
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[nodeID] = black
	}

	// Start nodes first so loops are normally entered through their
	// headers; the stack check above keeps the verdict the same for any
	// entry point.
	ids := make([]string, 0, len(w.Nodes))
	for id := range w.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := w.GetNode(ids[i])
		b, _ := w.GetNode(ids[j])
		if domain.IsStartType(a.Type) != domain.IsStartType(b.Type) {
			return domain.IsStartType(a.Type)
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids {
		if color[id] == white {
			visit(id)
		}
	}
	return messages
}

// cycleHasLoopTerminator inspects the cycle a gray back-edge just closed:
// the recursion-stack suffix from the edge's target up to its source. The
// cycle is intentional when any node on it is a loop terminator, since that
// node's outgoing edge along the cycle is the designated back-edge.
func cycleHasLoopTerminator(w *domain.Workflow, stack []string, target string) bool {
	for i := len(stack) - 1; i >= 0; i-- {
		n, _ := w.GetNode(stack[i])
		if domain.IsLoopTerminatorType(n.Type) {
			return true
		}
		if stack[i] == target {
			break
		}
	}
	return false
}

// UnreachableNodes returns every node id not reachable by forward traversal
// from any start node, sorted for stable reporting. Callers surface these as
// validation warnings.
func (o *Orchestrator) UnreachableNodes(w *domain.Workflow) []string {
	reached := make(map[string]struct{})
	var frontier []string

	for id, n := range w.Nodes {
		if domain.IsStartType(n.Type) {
			reached[id] = struct{}{}
			frontier = append(frontier, id)
		}
	}

	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]
		for _, conn := range w.ConnectionsFrom(current) {
			target := conn.TargetNodeID
			if _, exists := w.GetNode(target); !exists {
				continue
			}
			if _, seen := reached[target]; !seen {
				reached[target] = struct{}{}
				frontier = append(frontier, target)
			}
		}
	}

	var unreachable []string
	for id := range w.Nodes {
		if _, ok := reached[id]; !ok {
			unreachable = append(unreachable, id)
		}
	}
	sort.Strings(unreachable)
	return unreachable
}

// IsReachable reports whether target can be reached from start by forward
// traversal.
func (o *Orchestrator) IsReachable(w *domain.Workflow, startID, targetID string) bool {
	_, inPath := o.CalculatePathTo(w, startID, targetID)[targetID]
	return inPath
}

// CalculatePathTo computes the run-to-node subgraph: the nodes reachable
// forward from startID that also lie on some path to targetID. The result
// contains both endpoints whenever targetID is reachable from startID, and
// is empty otherwise.
func (o *Orchestrator) CalculatePathTo(w *domain.Workflow, startID, targetID string) map[string]struct{} {
	if _, ok := w.GetNode(startID); !ok {
		return map[string]struct{}{}
	}
	if _, ok := w.GetNode(targetID); !ok {
		return map[string]struct{}{}
	}

	forward := reachableFrom(w, startID, func(id string) []domain.Connection {
		return w.ConnectionsFrom(id)
	}, func(c domain.Connection) string { return c.TargetNodeID })

	if _, ok := forward[targetID]; !ok {
		return map[string]struct{}{}
	}

	backward := reachableFrom(w, targetID, func(id string) []domain.Connection {
		return w.ConnectionsInto(id)
	}, func(c domain.Connection) string { return c.SourceNodeID })

	path := make(map[string]struct{})
	for id := range forward {
		if _, ok := backward[id]; ok {
			path[id] = struct{}{}
		}
	}
	return path
}

func reachableFrom(w *domain.Workflow, origin string, edges func(string) []domain.Connection, endpoint func(domain.Connection) string) map[string]struct{} {
	reached := map[string]struct{}{origin: {}}
	frontier := []string{origin}
	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]
		for _, conn := range edges(current) {
			next := endpoint(conn)
			if _, exists := w.GetNode(next); !exists {
				continue
			}
			if _, seen := reached[next]; !seen {
				reached[next] = struct{}{}
				frontier = append(frontier, next)
			}
		}
	}
	return reached
}

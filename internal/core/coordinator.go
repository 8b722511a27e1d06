package core

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
	"github.com/omerlefaruk/CasareRPA-sub001/internal/ports"
)

// CoordinatorConfig wires one run's collaborators. Workflow, Executor and
// ContextFactory are required; Events and Metrics may be nil when the caller
// has no observers.
type CoordinatorConfig struct {
	Workflow         *domain.Workflow
	Executor         ports.NodeExecutorPort
	Events           ports.EventManagerPort
	Metrics          *domain.ExecutionMetrics
	ContextFactory   ports.ContextFactory
	InitialVariables map[string]interface{}
	Logger           *slog.Logger
}

// Coordinator drives one run of a workflow from start to a terminal
// outcome: Idle -> Running -> {Paused <-> Running} -> {Completed | Stopped |
// Error}. One coordinator serves one run; a second concurrent Execute call
// is rejected.
type Coordinator struct {
	workflow   *domain.Workflow
	orch       *Orchestrator
	executor   ports.NodeExecutorPort
	events     ports.EventManagerPort
	metrics    *domain.ExecutionMetrics
	newContext ports.ContextFactory
	initVars   map[string]interface{}
	logger     *slog.Logger

	mu       sync.Mutex
	status   domain.WorkflowStatus
	state    *domain.ExecutionState
	runID    string
	total    int
	executed int

	gate     *gate
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewCoordinator(cfg CoordinatorConfig) (*Coordinator, error) {
	if cfg.Workflow == nil || cfg.Executor == nil || cfg.ContextFactory == nil {
		return nil, domain.ErrInvalidInput
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "coordinator", "workflow", cfg.Workflow.Metadata.Name)

	return &Coordinator{
		workflow:   cfg.Workflow,
		orch:       NewOrchestrator(logger),
		executor:   cfg.Executor,
		events:     cfg.Events,
		metrics:    cfg.Metrics,
		newContext: cfg.ContextFactory,
		initVars:   cfg.InitialVariables,
		logger:     logger,
		status:     domain.WorkflowStatusIdle,
		gate:       newGate(),
		stopCh:     make(chan struct{}),
	}, nil
}

// Execute runs the workflow to a terminal outcome. The returned result is
// populated on every path, including validation failures and internal
// errors; the error return only reports misuse (a run that is not Idle).
func (c *Coordinator) Execute(ctx context.Context) (*domain.WorkflowExecutionResult, error) {
	c.mu.Lock()
	if c.status != domain.WorkflowStatusIdle {
		c.mu.Unlock()
		return nil, domain.ErrNotIdle
	}
	c.status = domain.WorkflowStatusRunning
	c.mu.Unlock()

	startedAt := time.Now()
	result := &domain.WorkflowExecutionResult{
		NodeResults: make(map[string]*domain.ExecutionResult),
		TotalNodes:  c.workflow.NodeCount(),
		StartedAt:   startedAt,
	}

	if messages := c.validate(); len(messages) > 0 {
		c.logger.Error("workflow validation failed", "messages", messages)
		result.ValidationErrors = messages
		result.Error = "workflow validation failed: " + strings.Join(messages, "; ")
		return c.finish(result, nil, false, "", startedAt), nil
	}

	variables, err := domain.MergeVariables(c.workflow.Variables, c.initVars)
	if err != nil {
		result.Error = err.Error()
		return c.finish(result, nil, false, "", startedAt), nil
	}

	c.workflow.ResetRuntime()

	runID := uuid.NewString()
	state := domain.NewExecutionState(runID, variables)
	state.Status = domain.WorkflowStatusRunning

	c.mu.Lock()
	c.state = state
	c.runID = runID
	c.mu.Unlock()

	ec, err := c.newContext(variables)
	if err != nil {
		c.logger.Error("failed to create execution context", "error", err)
		result.Error = "failed to create execution context: " + err.Error()
		return c.finish(result, state, false, "", startedAt), nil
	}

	startID, _ := c.orch.FindStartNode(c.workflow)

	subgraph := c.resolveSubgraph(startID)
	total := c.workflow.NodeCount()
	if subgraph != nil {
		total = len(subgraph)
	}
	c.mu.Lock()
	c.total = total
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.IncrementWorkflowsStarted()
	}
	if c.events != nil {
		c.events.PublishWorkflowStarted(&domain.WorkflowStartedEvent{
			RunID:        runID,
			WorkflowName: c.workflow.Metadata.Name,
			StartedAt:    startedAt,
			TotalNodes:   total,
			Variables:    variables,
		})
	}

	c.logger.Info("workflow run started",
		"run_id", runID,
		"start_node", startID,
		"total_nodes", total,
		"target_node", c.workflow.Settings.TargetNodeID)

	failed, failedNode, runErr := c.runQueue(ctx, state, ec, startID, subgraph)

	if runErr != nil && !errors.Is(runErr, domain.ErrStopped) {
		failed = true
		if result.Error == "" {
			result.Error = runErr.Error()
		}
	}

	if releaseErr := ec.Release(); releaseErr != nil {
		c.logger.Error("failed to release execution context",
			"run_id", runID,
			"error", releaseErr)
	}

	return c.finish(result, state, failed, failedNode, startedAt), nil
}

// runQueue is the pending-node loop: FIFO dequeue, pause checkpoint at every
// node boundary, data transfer, execution, error policy, routing.
func (c *Coordinator) runQueue(ctx context.Context, state *domain.ExecutionState, ec ports.ExecutionContext, startID string, subgraph map[string]struct{}) (failed bool, failedNode string, runErr error) {
	settings := c.workflow.Settings
	targetID := ""
	if subgraph != nil {
		targetID = settings.TargetNodeID
	}

	queue := []string{startID}

	for len(queue) > 0 {
		if err := c.gate.wait(ctx, c.stopCh); err != nil {
			return failed, failedNode, err
		}
		if c.stopRequested() {
			return failed, failedNode, domain.ErrStopped
		}

		nodeID := queue[0]
		queue = queue[1:]

		node, ok := c.workflow.GetNode(nodeID)
		if !ok {
			continue
		}
		if state.WasExecuted(nodeID) && !c.orch.IsControlFlowNode(c.workflow, nodeID) {
			continue
		}
		if subgraph != nil {
			if _, member := subgraph[nodeID]; !member {
				c.logger.Debug("skipping node outside run subgraph", "node_id", nodeID)
				continue
			}
		}

		c.transferInputs(node)

		c.mu.Lock()
		state.CurrentNodeID = nodeID
		c.mu.Unlock()

		executionID := uuid.NewString()
		if c.events != nil {
			c.events.PublishNodeStarted(&domain.NodeStartedEvent{
				RunID:       state.RunID,
				NodeID:      nodeID,
				NodeType:    node.Type,
				ExecutionID: executionID,
				StartedAt:   time.Now(),
			})
		}

		var result *domain.ExecutionResult
		if c.executor.IsDisabled(node) {
			result = c.executor.ExecuteBypassed(node)
		} else {
			result = c.executor.ExecuteWithRetry(ctx, node, ec, settings.NodeTimeout(), settings.RetryCount)
		}

		state.RecordResult(result)

		if result.Success {
			state.MarkExecuted(nodeID)
			c.mu.Lock()
			c.executed = state.ExecutedCount()
			c.mu.Unlock()

			if c.events != nil {
				c.events.PublishNodeCompleted(&domain.NodeCompletedEvent{
					RunID:       state.RunID,
					NodeID:      nodeID,
					NodeType:    node.Type,
					ExecutionID: executionID,
					CompletedAt: time.Now(),
					Duration:    result.ExecutionTime,
					Bypassed:    result.Bypassed,
					NextNodes:   result.NextNodes,
				})
			}
		} else {
			if c.events != nil {
				c.events.PublishNodeError(&domain.NodeErrorEvent{
					RunID:       state.RunID,
					NodeID:      nodeID,
					NodeType:    node.Type,
					ExecutionID: executionID,
					Error:       result.Error,
					ErrorCode:   result.ErrorCode,
					FailedAt:    time.Now(),
					Duration:    result.ExecutionTime,
				})
			}

			if settings.StopOnError {
				c.logger.Error("node failed, stopping run",
					"run_id", state.RunID,
					"node_id", nodeID,
					"error", result.Error)
				return true, nodeID, nil
			}

			c.logger.Warn("node failed, continuing per error policy",
				"run_id", state.RunID,
				"node_id", nodeID,
				"error", result.Error)
		}

		if targetID != "" && nodeID == targetID && result.Success {
			c.logger.Info("target node reached, ending run early",
				"run_id", state.RunID,
				"target_node", targetID)
			return false, "", nil
		}

		queue = append(queue, c.orch.GetNextNodes(c.workflow, nodeID, result)...)
	}

	return failed, failedNode, nil
}

// finish settles the terminal status, emits the terminal event, bumps
// metrics, and assembles the caller-facing summary. A requested stop always
// wins over other outcomes.
func (c *Coordinator) finish(result *domain.WorkflowExecutionResult, state *domain.ExecutionState, failed bool, failedNode string, startedAt time.Time) *domain.WorkflowExecutionResult {
	completedAt := time.Now()

	var status domain.WorkflowStatus
	switch {
	case c.stopRequested():
		status = domain.WorkflowStatusStopped
		result.StoppedByUser = true
	case failed, result.Error != "", len(result.ValidationErrors) > 0:
		status = domain.WorkflowStatusError
	default:
		status = domain.WorkflowStatusCompleted
	}

	c.mu.Lock()
	c.status = status
	if state != nil {
		state.Status = status
	}
	c.mu.Unlock()

	if state != nil {
		result.ExecutedNodes = state.ExecutedNodes()
		for id, nodeResult := range state.NodeResults {
			result.NodeResults[id] = nodeResult
		}
		if status == domain.WorkflowStatusError && result.Error == "" && len(state.Errors) > 0 {
			last := state.Errors[len(state.Errors)-1]
			result.Error = last.Message
		}
	} else {
		result.ExecutedNodes = []string{}
	}

	result.CompletedAt = completedAt
	result.Duration = completedAt.Sub(startedAt)
	result.Success = status == domain.WorkflowStatusCompleted

	c.publishTerminal(status, result, failedNode, completedAt)

	c.logger.Info("workflow run finished",
		"run_id", c.runID,
		"status", status,
		"executed_nodes", len(result.ExecutedNodes),
		"total_nodes", result.TotalNodes,
		"duration", result.Duration)

	return result
}

func (c *Coordinator) publishTerminal(status domain.WorkflowStatus, result *domain.WorkflowExecutionResult, failedNode string, completedAt time.Time) {
	name := c.workflow.Metadata.Name

	switch status {
	case domain.WorkflowStatusCompleted:
		if c.metrics != nil {
			c.metrics.IncrementWorkflowsCompleted()
		}
		if c.events != nil {
			c.events.PublishWorkflowCompleted(&domain.WorkflowCompletedEvent{
				RunID:         c.runID,
				WorkflowName:  name,
				CompletedAt:   completedAt,
				Duration:      result.Duration,
				ExecutedNodes: result.ExecutedNodes,
			})
		}
	case domain.WorkflowStatusStopped:
		if c.metrics != nil {
			c.metrics.IncrementWorkflowsStopped()
		}
		if c.events != nil {
			c.events.PublishWorkflowStopped(&domain.WorkflowStoppedEvent{
				RunID:         c.runID,
				WorkflowName:  name,
				StoppedAt:     completedAt,
				ExecutedNodes: result.ExecutedNodes,
			})
		}
	default:
		if c.metrics != nil {
			c.metrics.IncrementWorkflowsFailed()
		}
		if c.events != nil {
			c.events.PublishWorkflowError(&domain.WorkflowErrorEvent{
				RunID:        c.runID,
				WorkflowName: name,
				FailedNode:   failedNode,
				Error:        result.Error,
				FailedAt:     completedAt,
			})
		}
	}
}

// validate collects every pre-run failure: structural node problems,
// dangling connections, the missing-start check, and unintended cycles.
// Unreachable nodes are reported to the log as warnings only.
func (c *Coordinator) validate() []string {
	var messages []string
	w := c.workflow

	for _, n := range w.Nodes {
		if err := n.Validate(); err != nil {
			messages = append(messages, err.Error())
		}
	}

	for _, conn := range w.Connections {
		if _, ok := w.GetNode(conn.SourceNodeID); !ok {
			messages = append(messages, "connection references unknown source node: "+conn.SourceNodeID)
		}
		if _, ok := w.GetNode(conn.TargetNodeID); !ok {
			messages = append(messages, "connection references unknown target node: "+conn.TargetNodeID)
		}
	}

	if _, ok := c.orch.FindStartNode(w); !ok {
		messages = append(messages, "workflow has no start node")
	}

	messages = append(messages, c.orch.DetectCycles(w)...)

	if unreachable := c.orch.UnreachableNodes(w); len(unreachable) > 0 {
		c.logger.Warn("workflow contains unreachable nodes", "node_ids", unreachable)
	}

	return messages
}

// resolveSubgraph computes the run-to-node restriction. An unreachable
// target is logged and the run proceeds unrestricted.
func (c *Coordinator) resolveSubgraph(startID string) map[string]struct{} {
	targetID := c.workflow.Settings.TargetNodeID
	if targetID == "" {
		return nil
	}

	path := c.orch.CalculatePathTo(c.workflow, startID, targetID)
	if len(path) == 0 {
		c.logger.Warn("target node unreachable from start, running unrestricted",
			"start_node", startID,
			"target_node", targetID)
		return nil
	}
	return path
}

// transferInputs copies values across every incoming data-port connection
// before the node runs. Sources that have not produced a value yet are
// skipped.
func (c *Coordinator) transferInputs(node *domain.Node) {
	for _, conn := range c.workflow.ConnectionsInto(node.ID) {
		if !conn.IsData() {
			continue
		}
		source, ok := c.workflow.GetNode(conn.SourceNodeID)
		if !ok {
			continue
		}
		if value, ok := source.GetOutputValue(conn.SourcePort); ok {
			node.SetInputValue(conn.TargetPort, value)
		}
	}
}

// Pause suspends the run at the next node boundary. It only succeeds while
// the run is Running.
func (c *Coordinator) Pause() bool {
	c.mu.Lock()
	if c.status != domain.WorkflowStatusRunning {
		c.mu.Unlock()
		return false
	}
	c.status = domain.WorkflowStatusPaused
	var currentNode string
	if c.state != nil {
		c.state.Status = domain.WorkflowStatusPaused
		currentNode = c.state.CurrentNodeID
	}
	runID := c.runID
	c.mu.Unlock()

	c.gate.pause()

	if c.metrics != nil {
		c.metrics.IncrementWorkflowsPaused()
	}
	if c.events != nil {
		c.events.PublishWorkflowPaused(&domain.WorkflowPausedEvent{
			RunID:        runID,
			WorkflowName: c.workflow.Metadata.Name,
			PausedAt:     time.Now(),
			NodeID:       currentNode,
		})
	}

	c.logger.Info("workflow run paused", "run_id", runID, "node_id", currentNode)
	return true
}

// Resume reopens the gate. It only succeeds while the run is Paused.
func (c *Coordinator) Resume() bool {
	c.mu.Lock()
	if c.status != domain.WorkflowStatusPaused {
		c.mu.Unlock()
		return false
	}
	c.status = domain.WorkflowStatusRunning
	if c.state != nil {
		c.state.Status = domain.WorkflowStatusRunning
	}
	runID := c.runID
	c.mu.Unlock()

	c.gate.resume()

	if c.metrics != nil {
		c.metrics.IncrementWorkflowsResumed()
	}
	if c.events != nil {
		c.events.PublishWorkflowResumed(&domain.WorkflowResumedEvent{
			RunID:        runID,
			WorkflowName: c.workflow.Metadata.Name,
			ResumedAt:    time.Now(),
		})
	}

	c.logger.Info("workflow run resumed", "run_id", runID)
	return true
}

// Stop requests termination. It is accepted while Running or Paused,
// unblocks any pause wait immediately, and is an idempotent no-op once the
// run has reached a terminal state. The currently executing node is not
// interrupted; the queue loop observes the request at the next boundary.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	status := c.status
	c.mu.Unlock()

	if status != domain.WorkflowStatusRunning && status != domain.WorkflowStatusPaused {
		return
	}

	c.stopOnce.Do(func() {
		close(c.stopCh)
		c.logger.Info("stop requested", "run_id", c.runID)
	})
}

// Status returns the run's current lifecycle status.
func (c *Coordinator) Status() domain.WorkflowStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Progress reports completion as a percentage in [0, 100], computed against
// the nodes eligible for this run (the subgraph when one is active).
func (c *Coordinator) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == domain.WorkflowStatusCompleted {
		return 100
	}
	if c.total == 0 {
		return 0
	}

	p := float64(c.executed) / float64(c.total) * 100
	if p > 100 {
		p = 100
	}
	return p
}

func (c *Coordinator) stopRequested() bool {
	select {
	case <-c.stopCh:
		return true
	default:
		return false
	}
}

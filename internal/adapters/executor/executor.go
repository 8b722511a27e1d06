package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
	"github.com/omerlefaruk/CasareRPA-sub001/internal/ports"
)

// retryBackoffStep spaces retry attempts linearly: attempt n waits n steps.
const retryBackoffStep = 100 * time.Millisecond

// Executor runs a single node to completion or timeout and normalizes every
// outcome (normal return, error, panic, timeout, cancellation) into a
// well-formed ExecutionResult. Nothing escapes Execute.
type Executor struct {
	registry ports.NodeRegistryPort
	metrics  *domain.ExecutionMetrics
	logger   *slog.Logger
}

func New(registry ports.NodeRegistryPort, metrics *domain.ExecutionMetrics, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		registry: registry,
		metrics:  metrics,
		logger:   logger.With("component", "node-executor"),
	}
}

func (e *Executor) IsDisabled(node *domain.Node) bool {
	return node.IsDisabled()
}

// ExecuteBypassed returns an immediate success for a disabled node without
// invoking its behavior.
func (e *Executor) ExecuteBypassed(node *domain.Node) *domain.ExecutionResult {
	node.Status = domain.NodeStatusSkipped

	if e.metrics != nil {
		e.metrics.IncrementNodesBypassed()
	}

	e.logger.Debug("node bypassed",
		"node_id", node.ID,
		"node_type", node.Type)

	return &domain.ExecutionResult{
		NodeID:        node.ID,
		Success:       true,
		Bypassed:      true,
		ExecutionTime: 0,
		Timestamp:     time.Now(),
		AttemptNumber: 1,
	}
}

type invokeOutcome struct {
	result *ports.InvokeResult
	err    error
}

// Execute performs one attempt: resolve the node's behavior, invoke it under
// the bounded timeout, and normalize whatever comes back.
func (e *Executor) Execute(ctx context.Context, node *domain.Node, ec ports.ExecutionContext, timeout time.Duration) *domain.ExecutionResult {
	node.Status = domain.NodeStatusRunning
	node.ErrorMessage = ""
	started := time.Now()

	runnable, err := e.registry.Resolve(node.Type)
	if err != nil {
		return e.failure(node, started, 1,
			fmt.Sprintf("no behavior registered for node type %q", node.Type), "type_not_registered")
	}

	outcomeCh := make(chan invokeOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				outcomeCh <- invokeOutcome{err: domain.NewNodePanicError(node.ID, r)}
			}
		}()
		result, err := runnable.Invoke(ctx, ec, node)
		outcomeCh <- invokeOutcome{result: result, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case outcome := <-outcomeCh:
		return e.normalize(node, started, outcome)

	case <-timer.C:
		// The invocation goroutine is abandoned; its result, if it ever
		// arrives, is discarded.
		if e.metrics != nil {
			e.metrics.IncrementNodesTimedOut()
		}
		e.logger.Error("node execution timed out",
			"node_id", node.ID,
			"node_type", node.Type,
			"timeout", timeout)
		return e.failure(node, started, 1,
			fmt.Sprintf("node %s timed out after %s", node.ID, timeout), "timeout")

	case <-ctx.Done():
		e.logger.Warn("node execution cancelled",
			"node_id", node.ID,
			"error", ctx.Err())
		result := e.failure(node, started, 1, ctx.Err().Error(), "cancelled")
		node.Status = domain.NodeStatusCancelled
		return result
	}
}

// ExecuteWithRetry re-attempts a failing node up to retryCount extra times
// with a linear backoff. Bypass and cancellation are never retried.
func (e *Executor) ExecuteWithRetry(ctx context.Context, node *domain.Node, ec ports.ExecutionContext, timeout time.Duration, retryCount int) *domain.ExecutionResult {
	if retryCount < 0 {
		retryCount = 0
	}

	var result *domain.ExecutionResult
	for attempt := 1; attempt <= retryCount+1; attempt++ {
		result = e.Execute(ctx, node, ec, timeout)
		result.AttemptNumber = attempt
		result.WasRetried = attempt > 1

		if result.Success || ctx.Err() != nil {
			break
		}
		if attempt <= retryCount {
			if e.metrics != nil {
				e.metrics.IncrementNodesRetried()
			}
			e.logger.Warn("retrying node execution",
				"node_id", node.ID,
				"attempt", attempt,
				"max_attempts", retryCount+1,
				"error", result.Error)
			time.Sleep(time.Duration(attempt) * retryBackoffStep)
		}
	}
	return result
}

func (e *Executor) normalize(node *domain.Node, started time.Time, outcome invokeOutcome) *domain.ExecutionResult {
	elapsed := time.Since(started)

	if e.metrics != nil {
		e.metrics.IncrementNodesExecuted()
		e.metrics.AddExecutionTime(elapsed)
	}

	if outcome.err != nil {
		if e.metrics != nil {
			e.metrics.IncrementNodesFailed()
		}
		if panicErr, isPanic := outcome.err.(*domain.NodePanicError); isPanic {
			e.logger.Error("node invocation panicked",
				"node_id", node.ID,
				"node_type", node.Type,
				"panic_value", panicErr.PanicValue,
				"stack_trace", panicErr.StackTrace)
		} else {
			e.logger.Error("node invocation failed",
				"node_id", node.ID,
				"node_type", node.Type,
				"error", outcome.err)
		}
		node.Status = domain.NodeStatusError
		node.ErrorMessage = outcome.err.Error()
		return &domain.ExecutionResult{
			NodeID:        node.ID,
			Success:       false,
			Error:         outcome.err.Error(),
			ExecutionTime: elapsed,
			Timestamp:     time.Now(),
			AttemptNumber: 1,
		}
	}

	raw := outcome.result
	if raw == nil {
		raw = &ports.InvokeResult{Success: true}
	}

	result := &domain.ExecutionResult{
		NodeID:        node.ID,
		Success:       raw.Success,
		Data:          raw.Data,
		Error:         raw.Error,
		ErrorCode:     raw.ErrorCode,
		ControlFlow:   raw.ControlFlow,
		NextNodes:     raw.NextNodes,
		ExecutionTime: elapsed,
		Timestamp:     time.Now(),
		AttemptNumber: 1,
	}

	if raw.Success {
		node.Status = domain.NodeStatusSuccess
		for port, value := range raw.Data {
			node.SetOutputValue(port, value)
		}
		if e.metrics != nil {
			e.metrics.IncrementNodesSucceeded()
		}
		e.logger.Debug("node execution completed",
			"node_id", node.ID,
			"node_type", node.Type,
			"duration", elapsed,
			"next_nodes", raw.NextNodes)
	} else {
		node.Status = domain.NodeStatusError
		node.ErrorMessage = raw.Error
		if e.metrics != nil {
			e.metrics.IncrementNodesFailed()
		}
		e.logger.Error("node reported failure",
			"node_id", node.ID,
			"node_type", node.Type,
			"duration", elapsed,
			"error", raw.Error,
			"error_code", raw.ErrorCode)
	}

	return result
}

func (e *Executor) failure(node *domain.Node, started time.Time, attempt int, message, code string) *domain.ExecutionResult {
	node.Status = domain.NodeStatusError
	node.ErrorMessage = message

	if e.metrics != nil {
		e.metrics.IncrementNodesExecuted()
		e.metrics.IncrementNodesFailed()
		e.metrics.AddExecutionTime(time.Since(started))
	}

	return &domain.ExecutionResult{
		NodeID:        node.ID,
		Success:       false,
		Error:         message,
		ErrorCode:     code,
		ExecutionTime: time.Since(started),
		Timestamp:     time.Now(),
		AttemptNumber: attempt,
	}
}

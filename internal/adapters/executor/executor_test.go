package executor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omerlefaruk/CasareRPA-sub001/internal/adapters/registry"
	"github.com/omerlefaruk/CasareRPA-sub001/internal/adapters/runcontext"
	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
	"github.com/omerlefaruk/CasareRPA-sub001/internal/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type invokeFunc func(ctx context.Context, ec ports.ExecutionContext, node *domain.Node) (*ports.InvokeResult, error)

type funcNode struct {
	fn invokeFunc
}

func (f funcNode) Invoke(ctx context.Context, ec ports.ExecutionContext, node *domain.Node) (*ports.InvokeResult, error) {
	return f.fn(ctx, ec, node)
}

func newFixture(t *testing.T) (*Executor, *registry.Registry, *domain.ExecutionMetrics, ports.ExecutionContext) {
	t.Helper()
	logger := testLogger()
	reg := registry.New(logger)
	metrics := domain.NewExecutionMetrics()
	return New(reg, metrics, logger), reg, metrics, runcontext.New(logger, nil)
}

func register(t *testing.T, reg *registry.Registry, typeTag string, fn invokeFunc) {
	t.Helper()
	require.NoError(t, reg.Register(typeTag, func() ports.RunnableNode {
		return funcNode{fn: fn}
	}))
}

func testNode(t *testing.T, nodeType string) *domain.Node {
	t.Helper()
	n, err := domain.NewNode("n1", nodeType)
	require.NoError(t, err)
	return n
}

func TestExecuteSuccessWritesOutputs(t *testing.T) {
	e, reg, metrics, ec := newFixture(t)
	register(t, reg, "producer", func(ctx context.Context, ec ports.ExecutionContext, node *domain.Node) (*ports.InvokeResult, error) {
		return &ports.InvokeResult{
			Success:   true,
			Data:      map[string]interface{}{"value": 42},
			NextNodes: []string{"exec_out"},
		}, nil
	})

	node := testNode(t, "producer")
	result := e.Execute(context.Background(), node, ec, time.Second)

	assert.True(t, result.Success)
	assert.Equal(t, "n1", result.NodeID)
	assert.Equal(t, []string{"exec_out"}, result.NextNodes)
	assert.Equal(t, domain.NodeStatusSuccess, node.Status)

	value, ok := node.GetOutputValue("value")
	require.True(t, ok)
	assert.Equal(t, 42, value)

	snapshot := metrics.GetSnapshot()
	assert.Equal(t, int64(1), snapshot.NodesExecuted)
	assert.Equal(t, int64(1), snapshot.NodesSucceeded)
}

func TestExecuteNilResultCountsAsSuccess(t *testing.T) {
	e, reg, _, ec := newFixture(t)
	register(t, reg, "quiet", func(ctx context.Context, ec ports.ExecutionContext, node *domain.Node) (*ports.InvokeResult, error) {
		return nil, nil
	})

	result := e.Execute(context.Background(), testNode(t, "quiet"), ec, time.Second)
	assert.True(t, result.Success)
}

func TestExecuteUnregisteredType(t *testing.T) {
	e, _, _, ec := newFixture(t)

	node := testNode(t, "unknown")
	result := e.Execute(context.Background(), node, ec, time.Second)

	assert.False(t, result.Success)
	assert.Equal(t, "type_not_registered", result.ErrorCode)
	assert.Equal(t, domain.NodeStatusError, node.Status)
}

func TestExecuteInvokeError(t *testing.T) {
	e, reg, metrics, ec := newFixture(t)
	register(t, reg, "broken", func(ctx context.Context, ec ports.ExecutionContext, node *domain.Node) (*ports.InvokeResult, error) {
		return nil, errors.New("connection refused")
	})

	node := testNode(t, "broken")
	result := e.Execute(context.Background(), node, ec, time.Second)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "connection refused")
	assert.Equal(t, domain.NodeStatusError, node.Status)
	assert.Equal(t, "connection refused", node.ErrorMessage)
	assert.Equal(t, int64(1), metrics.GetSnapshot().NodesFailed)
}

func TestExecuteRecoversPanic(t *testing.T) {
	e, reg, _, ec := newFixture(t)
	register(t, reg, "panicky", func(ctx context.Context, ec ports.ExecutionContext, node *domain.Node) (*ports.InvokeResult, error) {
		panic("nil dereference somewhere deep")
	})

	node := testNode(t, "panicky")
	result := e.Execute(context.Background(), node, ec, time.Second)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "nil dereference somewhere deep")
	assert.Equal(t, domain.NodeStatusError, node.Status)
}

func TestExecuteTimesOut(t *testing.T) {
	e, reg, metrics, ec := newFixture(t)
	register(t, reg, "slow", func(ctx context.Context, ec ports.ExecutionContext, node *domain.Node) (*ports.InvokeResult, error) {
		time.Sleep(time.Second)
		return &ports.InvokeResult{Success: true}, nil
	})

	node := testNode(t, "slow")
	result := e.Execute(context.Background(), node, ec, 20*time.Millisecond)

	assert.False(t, result.Success)
	assert.Equal(t, "timeout", result.ErrorCode)
	assert.Contains(t, result.Error, "timed out after")
	assert.Equal(t, int64(1), metrics.GetSnapshot().NodesTimedOut)
}

func TestExecuteObservesCancellation(t *testing.T) {
	e, reg, _, ec := newFixture(t)

	started := make(chan struct{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	register(t, reg, "blocked", func(ctx context.Context, ec ports.ExecutionContext, node *domain.Node) (*ports.InvokeResult, error) {
		close(started)
		<-release
		return nil, ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	node := testNode(t, "blocked")
	result := e.Execute(ctx, node, ec, time.Minute)

	assert.False(t, result.Success)
	assert.Equal(t, "cancelled", result.ErrorCode)
	assert.Equal(t, domain.NodeStatusCancelled, node.Status)
}

func TestExecuteBypassed(t *testing.T) {
	e, _, metrics, _ := newFixture(t)

	node := testNode(t, "anything")
	result := e.ExecuteBypassed(node)

	assert.True(t, result.Success)
	assert.True(t, result.Bypassed)
	assert.Equal(t, time.Duration(0), result.ExecutionTime)
	assert.Equal(t, domain.NodeStatusSkipped, node.Status)
	assert.Equal(t, int64(1), metrics.GetSnapshot().NodesBypassed)
}

func TestExecuteWithRetrySucceedsAfterFailures(t *testing.T) {
	e, reg, metrics, ec := newFixture(t)

	attempts := 0
	register(t, reg, "flaky", func(ctx context.Context, ec ports.ExecutionContext, node *domain.Node) (*ports.InvokeResult, error) {
		attempts++
		if attempts < 3 {
			return &ports.InvokeResult{Success: false, Error: "transient"}, nil
		}
		return &ports.InvokeResult{Success: true}, nil
	})

	node := testNode(t, "flaky")
	result := e.ExecuteWithRetry(context.Background(), node, ec, time.Second, 3)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.AttemptNumber)
	assert.True(t, result.WasRetried)
	assert.Equal(t, int64(2), metrics.GetSnapshot().NodesRetried)
}

func TestExecuteWithRetryExhaustsAttempts(t *testing.T) {
	e, reg, _, ec := newFixture(t)

	attempts := 0
	register(t, reg, "hopeless", func(ctx context.Context, ec ports.ExecutionContext, node *domain.Node) (*ports.InvokeResult, error) {
		attempts++
		return &ports.InvokeResult{Success: false, Error: "still broken"}, nil
	})

	node := testNode(t, "hopeless")
	result := e.ExecuteWithRetry(context.Background(), node, ec, time.Second, 2)

	assert.False(t, result.Success)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, result.AttemptNumber)
}

func TestExecuteWithRetryNoRetriesByDefault(t *testing.T) {
	e, reg, _, ec := newFixture(t)

	attempts := 0
	register(t, reg, "once", func(ctx context.Context, ec ports.ExecutionContext, node *domain.Node) (*ports.InvokeResult, error) {
		attempts++
		return &ports.InvokeResult{Success: false, Error: "nope"}, nil
	})

	node := testNode(t, "once")
	result := e.ExecuteWithRetry(context.Background(), node, ec, time.Second, 0)

	assert.False(t, result.Success)
	assert.Equal(t, 1, attempts)
	assert.False(t, result.WasRetried)
}

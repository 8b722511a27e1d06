package ports

import (
	"context"
	"time"

	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
)

// NodeExecutorPort runs exactly one node to completion, timeout, or
// bypass, always returning a well-formed result. It never lets a panic or a
// timeout escape.
type NodeExecutorPort interface {
	Execute(ctx context.Context, node *domain.Node, ec ExecutionContext, timeout time.Duration) *domain.ExecutionResult
	ExecuteWithRetry(ctx context.Context, node *domain.Node, ec ExecutionContext, timeout time.Duration, retryCount int) *domain.ExecutionResult
	ExecuteBypassed(node *domain.Node) *domain.ExecutionResult
	IsDisabled(node *domain.Node) bool
}

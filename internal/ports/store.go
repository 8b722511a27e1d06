package ports

import (
	"context"

	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
)

// WorkflowStorePort persists workflow snapshots keyed by workflow name.
// Execution state is never persisted; only the structural graph round-trips.
type WorkflowStorePort interface {
	Save(ctx context.Context, workflow *domain.Workflow) error
	Load(ctx context.Context, name string) (*domain.Workflow, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

package core

import (
	"context"
	"log/slog"
	"sync"

	"github.com/omerlefaruk/CasareRPA-sub001/internal/adapters/events"
	"github.com/omerlefaruk/CasareRPA-sub001/internal/adapters/executor"
	"github.com/omerlefaruk/CasareRPA-sub001/internal/adapters/registry"
	"github.com/omerlefaruk/CasareRPA-sub001/internal/adapters/runcontext"
	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
	"github.com/omerlefaruk/CasareRPA-sub001/internal/ports"
)

// ManagerConfig configures the engine facade. Every field is optional: a nil
// Logger falls back to slog.Default, a nil Store disables persistence.
type ManagerConfig struct {
	Logger *slog.Logger
	Store  ports.WorkflowStorePort
}

// RunOptions tunes one run created through NewRun.
type RunOptions struct {
	Variables map[string]interface{}
}

// Manager is the engine facade: it owns the node registry, the event
// manager, the shared metrics, and the optional workflow store, and mints a
// fresh Coordinator per run.
type Manager struct {
	logger   *slog.Logger
	registry *registry.Registry
	events   *events.Manager
	executor *executor.Executor
	metrics  *domain.ExecutionMetrics
	store    ports.WorkflowStorePort

	mu     sync.Mutex
	closed bool
}

func NewManager(cfg ManagerConfig) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reg := registry.New(logger)
	metrics := domain.NewExecutionMetrics()

	return &Manager{
		logger:   logger.With("component", "manager"),
		registry: reg,
		events:   events.NewManager(logger),
		executor: executor.New(reg, metrics, logger),
		metrics:  metrics,
		store:    cfg.Store,
	}
}

// RegisterNode binds a node type tag to its behavior factory.
func (m *Manager) RegisterNode(typeTag string, factory ports.NodeFactory) error {
	if err := m.guard(); err != nil {
		return err
	}
	return m.registry.Register(typeTag, factory)
}

// RegisteredTypes lists every registered node type tag.
func (m *Manager) RegisteredTypes() []string {
	return m.registry.Types()
}

// NewRun builds a coordinator for one run of the workflow. The coordinator
// shares the manager's registry, events, and metrics; its execution context
// is created from the run's merged variables.
func (m *Manager) NewRun(workflow *domain.Workflow, opts RunOptions) (*Coordinator, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	if workflow == nil {
		return nil, domain.ErrInvalidInput
	}

	return NewCoordinator(CoordinatorConfig{
		Workflow:         workflow,
		Executor:         m.executor,
		Events:           m.events,
		Metrics:          m.metrics,
		InitialVariables: opts.Variables,
		Logger:           m.logger,
		ContextFactory: func(variables map[string]interface{}) (ports.ExecutionContext, error) {
			return runcontext.New(m.logger, variables), nil
		},
	})
}

// Execute is the one-shot path: build a run and drive it to completion.
func (m *Manager) Execute(ctx context.Context, workflow *domain.Workflow, opts RunOptions) (*domain.WorkflowExecutionResult, error) {
	run, err := m.NewRun(workflow, opts)
	if err != nil {
		return nil, err
	}
	return run.Execute(ctx)
}

// SaveWorkflow persists a workflow snapshot. Requires a configured store.
func (m *Manager) SaveWorkflow(ctx context.Context, workflow *domain.Workflow) error {
	if err := m.guard(); err != nil {
		return err
	}
	if m.store == nil {
		return domain.Error{
			Type:    domain.ErrorTypeState,
			Message: "no workflow store configured",
		}
	}
	return m.store.Save(ctx, workflow)
}

// LoadWorkflow restores a persisted workflow by name.
func (m *Manager) LoadWorkflow(ctx context.Context, name string) (*domain.Workflow, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	if m.store == nil {
		return nil, domain.Error{
			Type:    domain.ErrorTypeState,
			Message: "no workflow store configured",
		}
	}
	return m.store.Load(ctx, name)
}

// DeleteWorkflow removes a persisted workflow.
func (m *Manager) DeleteWorkflow(ctx context.Context, name string) error {
	if err := m.guard(); err != nil {
		return err
	}
	if m.store == nil {
		return domain.Error{
			Type:    domain.ErrorTypeState,
			Message: "no workflow store configured",
		}
	}
	return m.store.Delete(ctx, name)
}

// ListWorkflows names every persisted workflow.
func (m *Manager) ListWorkflows(ctx context.Context) ([]string, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	if m.store == nil {
		return nil, domain.Error{
			Type:    domain.ErrorTypeState,
			Message: "no workflow store configured",
		}
	}
	return m.store.List(ctx)
}

func (m *Manager) OnWorkflowStarted(handler func(*domain.WorkflowStartedEvent)) error {
	return m.events.OnWorkflowStarted(handler)
}

func (m *Manager) OnWorkflowCompleted(handler func(*domain.WorkflowCompletedEvent)) error {
	return m.events.OnWorkflowCompleted(handler)
}

func (m *Manager) OnWorkflowError(handler func(*domain.WorkflowErrorEvent)) error {
	return m.events.OnWorkflowError(handler)
}

func (m *Manager) OnWorkflowStopped(handler func(*domain.WorkflowStoppedEvent)) error {
	return m.events.OnWorkflowStopped(handler)
}

func (m *Manager) OnWorkflowPaused(handler func(*domain.WorkflowPausedEvent)) error {
	return m.events.OnWorkflowPaused(handler)
}

func (m *Manager) OnWorkflowResumed(handler func(*domain.WorkflowResumedEvent)) error {
	return m.events.OnWorkflowResumed(handler)
}

func (m *Manager) OnNodeStarted(handler func(*domain.NodeStartedEvent)) error {
	return m.events.OnNodeStarted(handler)
}

func (m *Manager) OnNodeCompleted(handler func(*domain.NodeCompletedEvent)) error {
	return m.events.OnNodeCompleted(handler)
}

func (m *Manager) OnNodeError(handler func(*domain.NodeErrorEvent)) error {
	return m.events.OnNodeError(handler)
}

// GetMetrics returns a point-in-time snapshot of the shared counters.
func (m *Manager) GetMetrics() domain.ExecutionMetrics {
	return m.metrics.GetSnapshot()
}

// Close shuts the event manager and the store (when configured) down. It is
// idempotent.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	if err := m.events.Close(); err != nil {
		m.logger.Error("failed to close event manager", "error", err)
	}
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			m.logger.Error("failed to close workflow store", "error", err)
			return err
		}
	}
	return nil
}

func (m *Manager) guard() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return domain.ErrManagerClosed
	}
	return nil
}

package registry

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
	"github.com/omerlefaruk/CasareRPA-sub001/internal/ports"
)

// Registry resolves node type tags to runnable behavior. Each Resolve hands
// out a fresh instance from the type's factory so node implementations never
// share state between invocations.
type Registry struct {
	logger *slog.Logger

	mu        sync.RWMutex
	factories map[string]ports.NodeFactory
}

func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:    logger.With("component", "node-registry"),
		factories: make(map[string]ports.NodeFactory),
	}
}

func (r *Registry) Register(typeTag string, factory ports.NodeFactory) error {
	if typeTag == "" || factory == nil {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[typeTag]; exists {
		return domain.Error{
			Type:    domain.ErrorTypeValidation,
			Message: "node type already registered: " + typeTag,
			Details: map[string]interface{}{"node_type": typeTag},
			Err:     domain.ErrDuplicateType,
		}
	}

	r.factories[typeTag] = factory
	r.logger.Debug("node type registered", "node_type", typeTag)
	return nil
}

func (r *Registry) Resolve(typeTag string) (ports.RunnableNode, error) {
	r.mu.RLock()
	factory, ok := r.factories[typeTag]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrTypeNotFound
	}
	return factory(), nil
}

func (r *Registry) Has(typeTag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[typeTag]
	return ok
}

func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		types = append(types, tag)
	}
	sort.Strings(types)
	return types
}

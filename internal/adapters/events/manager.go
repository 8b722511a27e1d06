package events

import (
	"log/slog"
	"sync"

	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
)

// Manager dispatches workflow lifecycle notifications to registered
// handlers. Dispatch is synchronous but contained: a panicking handler is
// recovered and logged, and can never abort the run that published the
// event.
type Manager struct {
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool

	workflowStartedHandlers   []func(*domain.WorkflowStartedEvent)
	workflowCompletedHandlers []func(*domain.WorkflowCompletedEvent)
	workflowErrorHandlers     []func(*domain.WorkflowErrorEvent)
	workflowStoppedHandlers   []func(*domain.WorkflowStoppedEvent)
	workflowPausedHandlers    []func(*domain.WorkflowPausedEvent)
	workflowResumedHandlers   []func(*domain.WorkflowResumedEvent)
	nodeStartedHandlers       []func(*domain.NodeStartedEvent)
	nodeCompletedHandlers     []func(*domain.NodeCompletedEvent)
	nodeErrorHandlers         []func(*domain.NodeErrorEvent)
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger: logger.With("component", "event-manager"),
	}
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Manager) register(attach func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return domain.ErrManagerClosed
	}
	attach()
	return nil
}

func (m *Manager) OnWorkflowStarted(handler func(*domain.WorkflowStartedEvent)) error {
	return m.register(func() {
		m.workflowStartedHandlers = append(m.workflowStartedHandlers, handler)
	})
}

func (m *Manager) OnWorkflowCompleted(handler func(*domain.WorkflowCompletedEvent)) error {
	return m.register(func() {
		m.workflowCompletedHandlers = append(m.workflowCompletedHandlers, handler)
	})
}

func (m *Manager) OnWorkflowError(handler func(*domain.WorkflowErrorEvent)) error {
	return m.register(func() {
		m.workflowErrorHandlers = append(m.workflowErrorHandlers, handler)
	})
}

func (m *Manager) OnWorkflowStopped(handler func(*domain.WorkflowStoppedEvent)) error {
	return m.register(func() {
		m.workflowStoppedHandlers = append(m.workflowStoppedHandlers, handler)
	})
}

func (m *Manager) OnWorkflowPaused(handler func(*domain.WorkflowPausedEvent)) error {
	return m.register(func() {
		m.workflowPausedHandlers = append(m.workflowPausedHandlers, handler)
	})
}

func (m *Manager) OnWorkflowResumed(handler func(*domain.WorkflowResumedEvent)) error {
	return m.register(func() {
		m.workflowResumedHandlers = append(m.workflowResumedHandlers, handler)
	})
}

func (m *Manager) OnNodeStarted(handler func(*domain.NodeStartedEvent)) error {
	return m.register(func() {
		m.nodeStartedHandlers = append(m.nodeStartedHandlers, handler)
	})
}

func (m *Manager) OnNodeCompleted(handler func(*domain.NodeCompletedEvent)) error {
	return m.register(func() {
		m.nodeCompletedHandlers = append(m.nodeCompletedHandlers, handler)
	})
}

func (m *Manager) OnNodeError(handler func(*domain.NodeErrorEvent)) error {
	return m.register(func() {
		m.nodeErrorHandlers = append(m.nodeErrorHandlers, handler)
	})
}

func (m *Manager) PublishWorkflowStarted(event *domain.WorkflowStartedEvent) {
	m.mu.RLock()
	handlers := snapshot(m.closed, m.workflowStartedHandlers)
	m.mu.RUnlock()
	for _, h := range handlers {
		m.invoke("workflow_started", func() { h(event) })
	}
}

func (m *Manager) PublishWorkflowCompleted(event *domain.WorkflowCompletedEvent) {
	m.mu.RLock()
	handlers := snapshot(m.closed, m.workflowCompletedHandlers)
	m.mu.RUnlock()
	for _, h := range handlers {
		m.invoke("workflow_completed", func() { h(event) })
	}
}

func (m *Manager) PublishWorkflowError(event *domain.WorkflowErrorEvent) {
	m.mu.RLock()
	handlers := snapshot(m.closed, m.workflowErrorHandlers)
	m.mu.RUnlock()
	for _, h := range handlers {
		m.invoke("workflow_error", func() { h(event) })
	}
}

func (m *Manager) PublishWorkflowStopped(event *domain.WorkflowStoppedEvent) {
	m.mu.RLock()
	handlers := snapshot(m.closed, m.workflowStoppedHandlers)
	m.mu.RUnlock()
	for _, h := range handlers {
		m.invoke("workflow_stopped", func() { h(event) })
	}
}

func (m *Manager) PublishWorkflowPaused(event *domain.WorkflowPausedEvent) {
	m.mu.RLock()
	handlers := snapshot(m.closed, m.workflowPausedHandlers)
	m.mu.RUnlock()
	for _, h := range handlers {
		m.invoke("workflow_paused", func() { h(event) })
	}
}

func (m *Manager) PublishWorkflowResumed(event *domain.WorkflowResumedEvent) {
	m.mu.RLock()
	handlers := snapshot(m.closed, m.workflowResumedHandlers)
	m.mu.RUnlock()
	for _, h := range handlers {
		m.invoke("workflow_resumed", func() { h(event) })
	}
}

func (m *Manager) PublishNodeStarted(event *domain.NodeStartedEvent) {
	m.mu.RLock()
	handlers := snapshot(m.closed, m.nodeStartedHandlers)
	m.mu.RUnlock()
	for _, h := range handlers {
		m.invoke("node_started", func() { h(event) })
	}
}

func (m *Manager) PublishNodeCompleted(event *domain.NodeCompletedEvent) {
	m.mu.RLock()
	handlers := snapshot(m.closed, m.nodeCompletedHandlers)
	m.mu.RUnlock()
	for _, h := range handlers {
		m.invoke("node_completed", func() { h(event) })
	}
}

func (m *Manager) PublishNodeError(event *domain.NodeErrorEvent) {
	m.mu.RLock()
	handlers := snapshot(m.closed, m.nodeErrorHandlers)
	m.mu.RUnlock()
	for _, h := range handlers {
		m.invoke("node_error", func() { h(event) })
	}
}

func snapshot[H any](closed bool, handlers []H) []H {
	if closed {
		return nil
	}
	out := make([]H, len(handlers))
	copy(out, handlers)
	return out
}

func (m *Manager) invoke(eventType string, run func()) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("event handler panicked",
				"event_type", eventType,
				"panic_value", r)
		}
	}()
	run()
}

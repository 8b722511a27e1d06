package ports

import (
	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
)

// EventManagerPort is the fire-and-forget notification surface of the
// engine. Publishing never fails from the coordinator's point of view:
// handler errors and panics are contained by the implementation.
type EventManagerPort interface {
	OnWorkflowStarted(handler func(event *domain.WorkflowStartedEvent)) error
	OnWorkflowCompleted(handler func(event *domain.WorkflowCompletedEvent)) error
	OnWorkflowError(handler func(event *domain.WorkflowErrorEvent)) error
	OnWorkflowStopped(handler func(event *domain.WorkflowStoppedEvent)) error
	OnWorkflowPaused(handler func(event *domain.WorkflowPausedEvent)) error
	OnWorkflowResumed(handler func(event *domain.WorkflowResumedEvent)) error

	OnNodeStarted(handler func(event *domain.NodeStartedEvent)) error
	OnNodeCompleted(handler func(event *domain.NodeCompletedEvent)) error
	OnNodeError(handler func(event *domain.NodeErrorEvent)) error

	PublishWorkflowStarted(event *domain.WorkflowStartedEvent)
	PublishWorkflowCompleted(event *domain.WorkflowCompletedEvent)
	PublishWorkflowError(event *domain.WorkflowErrorEvent)
	PublishWorkflowStopped(event *domain.WorkflowStoppedEvent)
	PublishWorkflowPaused(event *domain.WorkflowPausedEvent)
	PublishWorkflowResumed(event *domain.WorkflowResumedEvent)

	PublishNodeStarted(event *domain.NodeStartedEvent)
	PublishNodeCompleted(event *domain.NodeCompletedEvent)
	PublishNodeError(event *domain.NodeErrorEvent)

	Close() error
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/relaycrm/journey/pkg/eventbus"
	"github.com/relaycrm/journey/pkg/events"
	"github.com/relaycrm/journey/pkg/models"
	"github.com/relaycrm/journey/pkg/persistence"
	"github.com/relaycrm/journey/pkg/validation"
)

// Lifecycle owns workflow status transitions. Activation is gated on a
// passing validation run; archived is terminal.
type Lifecycle struct {
	persistence persistence.Persistence
	workflows   *Workflow
	eventBus    eventbus.EventBus
	logger      *slog.Logger
}

func NewLifecycle(
	persistence persistence.Persistence,
	workflows *Workflow,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
) *Lifecycle {
	return &Lifecycle{
		persistence: persistence,
		workflows:   workflows,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// ActivateResult carries the transition outcome. When validation blocks the
// activation, Result holds the blocking errors and Workflow is nil.
type ActivateResult struct {
	Workflow *models.Workflow   `json:"workflow,omitempty"`
	Result   *validation.Result `json:"validation"`
}

// Activate validates the workflow and, when the run reports no errors, moves
// it from draft or paused to active. Warnings do not block and are attached
// to the published event.
func (l *Lifecycle) Activate(ctx context.Context, workspaceID, workflowID string) (*ActivateResult, error) {
	workflow, err := l.workflows.FetchByID(ctx, workspaceID, workflowID)
	if err != nil {
		return nil, err
	}

	if workflow.Status == models.WorkflowStatusArchived {
		return nil, ErrWorkflowArchived
	}

	result, err := l.workflows.ValidateDefinition(ctx, workflow)
	if err != nil {
		return nil, err
	}

	if !result.IsValid {
		l.publish(ctx, workflow, events.WorkflowValidationFailed{
			BaseEvent: l.baseEvent(events.WorkflowValidationFailedEvent, workflow),
			Errors:    result.Errors,
		})

		return &ActivateResult{Result: result}, ErrWorkflowNotActivatable
	}

	err = l.transition(ctx, workflow, models.WorkflowStatusActive)
	if err != nil {
		return nil, err
	}

	l.publish(ctx, workflow, events.WorkflowActivated{
		BaseEvent: l.baseEvent(events.WorkflowActivatedEvent, workflow),
		Warnings:  result.Warnings,
	})

	return &ActivateResult{Workflow: workflow, Result: result}, nil
}

// Pause suspends enrollment for an active workflow.
func (l *Lifecycle) Pause(ctx context.Context, workspaceID, workflowID string) (*models.Workflow, error) {
	workflow, err := l.workflows.FetchByID(ctx, workspaceID, workflowID)
	if err != nil {
		return nil, err
	}

	if workflow.Status != models.WorkflowStatusActive {
		return nil, ErrWorkflowNotPausable
	}

	err = l.transition(ctx, workflow, models.WorkflowStatusPaused)
	if err != nil {
		return nil, err
	}

	l.publish(ctx, workflow, events.WorkflowPaused{
		BaseEvent: l.baseEvent(events.WorkflowPausedEvent, workflow),
	})

	return workflow, nil
}

// Resume reactivates a paused workflow without re-running validation: the
// definition has not changed since the activation that paused run inherited.
func (l *Lifecycle) Resume(ctx context.Context, workspaceID, workflowID string) (*models.Workflow, error) {
	workflow, err := l.workflows.FetchByID(ctx, workspaceID, workflowID)
	if err != nil {
		return nil, err
	}

	if workflow.Status != models.WorkflowStatusPaused {
		return nil, ErrWorkflowNotResumable
	}

	err = l.transition(ctx, workflow, models.WorkflowStatusActive)
	if err != nil {
		return nil, err
	}

	l.publish(ctx, workflow, events.WorkflowResumed{
		BaseEvent: l.baseEvent(events.WorkflowResumedEvent, workflow),
	})

	return workflow, nil
}

// Archive retires a workflow from any non-archived status. Archiving again is
// a no-op conflict.
func (l *Lifecycle) Archive(ctx context.Context, workspaceID, workflowID string) (*models.Workflow, error) {
	workflow, err := l.workflows.FetchByID(ctx, workspaceID, workflowID)
	if err != nil {
		return nil, err
	}

	if workflow.Status == models.WorkflowStatusArchived {
		return nil, ErrWorkflowArchived
	}

	previous := workflow.Status

	err = l.transition(ctx, workflow, models.WorkflowStatusArchived)
	if err != nil {
		return nil, err
	}

	l.publish(ctx, workflow, events.WorkflowArchived{
		BaseEvent:      l.baseEvent(events.WorkflowArchivedEvent, workflow),
		PreviousStatus: previous,
	})

	return workflow, nil
}

func (l *Lifecycle) transition(ctx context.Context, workflow *models.Workflow, status models.WorkflowStatus) error {
	workflow.Status = status
	workflow.UpdatedAt = time.Now().UTC()

	err := l.persistence.WorkflowRepository().Save(ctx, workflow)
	if err != nil {
		return fmt.Errorf("failed to save workflow status: %w", err)
	}

	return nil
}

func (l *Lifecycle) baseEvent(eventType events.EventType, workflow *models.Workflow) events.BaseEvent {
	var id string
	if l.eventBus != nil {
		id = l.eventBus.GenerateID()
	}

	return events.BaseEvent{
		ID:          id,
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		WorkflowID:  workflow.ID,
		WorkspaceID: workflow.WorkspaceID,
	}
}

// publish is best effort: a broker outage must not fail the transition that
// already persisted.
func (l *Lifecycle) publish(ctx context.Context, workflow *models.Workflow, event eventbus.Event) {
	if l.eventBus == nil {
		return
	}

	err := l.eventBus.Publish(ctx, workflow.ID, event)
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to publish lifecycle event",
			"workflow_id", workflow.ID, "event_type", event.GetType(), "error", err)
	}
}

// Package events defines event types for workflow lifecycle notifications.
package events

import (
	"time"

	"github.com/relaycrm/journey/pkg/models"
	"github.com/relaycrm/journey/pkg/validation"
)

type EventType string

const Topic = "journey.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	WorkflowActivatedEvent        EventType = "workflow.activated"
	WorkflowPausedEvent           EventType = "workflow.paused"
	WorkflowResumedEvent          EventType = "workflow.resumed"
	WorkflowArchivedEvent         EventType = "workflow.archived"
	WorkflowValidationFailedEvent EventType = "workflow.validation.failed"
)

type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	WorkflowID  string    `json:"workflow_id"`
	WorkspaceID string    `json:"workspace_id,omitempty"`
}

type WorkflowActivated struct {
	BaseEvent

	Warnings []validation.ValidationError `json:"warnings,omitempty"`
}

func (w WorkflowActivated) GetType() EventType {
	return WorkflowActivatedEvent
}

type WorkflowPaused struct {
	BaseEvent
}

func (w WorkflowPaused) GetType() EventType {
	return WorkflowPausedEvent
}

type WorkflowResumed struct {
	BaseEvent
}

func (w WorkflowResumed) GetType() EventType {
	return WorkflowResumedEvent
}

type WorkflowArchived struct {
	BaseEvent

	PreviousStatus models.WorkflowStatus `json:"previous_status"`
}

func (w WorkflowArchived) GetType() EventType {
	return WorkflowArchivedEvent
}

// WorkflowValidationFailed is published when an active workflow fails a
// revalidation sweep or an activation attempt is rejected.
type WorkflowValidationFailed struct {
	BaseEvent

	Errors []validation.ValidationError `json:"errors"`
}

func (w WorkflowValidationFailed) GetType() EventType {
	return WorkflowValidationFailedEvent
}

// Package models defines the core domain models for CRM workflow definitions.
package models

import "time"

// WorkflowStatus represents the lifecycle state of a workflow.
type WorkflowStatus string

const (
	WorkflowStatusDraft    WorkflowStatus = "draft"    // Editable, not enrolling entities
	WorkflowStatusActive   WorkflowStatus = "active"   // Enrolling and executing
	WorkflowStatusPaused   WorkflowStatus = "paused"   // Enrollment suspended, resumable
	WorkflowStatusArchived WorkflowStatus = "archived" // Terminal, read-only
)

// EntityType is the CRM record kind a workflow is keyed to.
type EntityType string

const (
	EntityTypeContact EntityType = "contact"
	EntityTypeDeal    EntityType = "deal"
	EntityTypeCompany EntityType = "company"
)

// Workflow is an authored step graph plus the criteria gating entry and exit.
// The JSON field names keep the builder UI's camelCase wire contract.
type Workflow struct {
	ID                 string              `json:"id"`
	WorkspaceID        string              `json:"workspaceId"`
	Name               string              `json:"name"                         validate:"required,min=3"`
	Description        string              `json:"description,omitempty"`
	Status             WorkflowStatus      `json:"status"`
	TriggerEntityType  EntityType          `json:"triggerEntityType"`
	Steps              []*Step             `json:"steps"`
	EnrollmentCriteria []WorkflowCondition `json:"enrollmentCriteria,omitempty"`
	GoalCriteria       []WorkflowCondition `json:"goalCriteria,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
	DeletedAt          *time.Time          `json:"deletedAt,omitempty"`
}

// Triggers returns the trigger steps in array order.
func (w *Workflow) Triggers() []*Step {
	triggers := make([]*Step, 0, 1)

	for _, step := range w.Steps {
		if step.Type == StepTypeTrigger {
			triggers = append(triggers, step)
		}
	}

	return triggers
}

// StepByID resolves a step id within the workflow, nil when absent.
func (w *Workflow) StepByID(id string) *Step {
	for _, step := range w.Steps {
		if step.ID == id {
			return step
		}
	}

	return nil
}

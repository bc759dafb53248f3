// Package web provides HTTP request and response types for the workflow API.
package web

import "github.com/relaycrm/journey/pkg/models"

// CreateWorkflowRequest represents the request body for creating a new workflow.
type CreateWorkflowRequest struct {
	Name               string                     `json:"name"               validate:"required,min=3"`
	Description        string                     `json:"description"`
	TriggerEntityType  models.EntityType          `json:"triggerEntityType"  validate:"required,oneof=contact deal company"`
	Steps              []*models.Step             `json:"steps"`
	EnrollmentCriteria []models.WorkflowCondition `json:"enrollmentCriteria"`
	GoalCriteria       []models.WorkflowCondition `json:"goalCriteria"`
}

// UpdateWorkflowRequest represents the request body for updating an existing
// workflow. All fields are optional to support partial updates; steps and
// criteria replace wholesale when present.
type UpdateWorkflowRequest struct {
	Name               *string                    `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description        *string                    `json:"description,omitempty"`
	Steps              []*models.Step             `json:"steps,omitempty"`
	EnrollmentCriteria []models.WorkflowCondition `json:"enrollmentCriteria,omitempty"`
	GoalCriteria       []models.WorkflowCondition `json:"goalCriteria,omitempty"`
}

// EnrollmentPreviewRequest carries the record snapshots to evaluate against a
// workflow's enrollment and goal criteria.
type EnrollmentPreviewRequest struct {
	Records []RecordPayload `json:"records" validate:"required,min=1,max=500,dive"`
}

// RecordPayload is one CRM record snapshot in an enrollment preview request.
type RecordPayload struct {
	ID     string         `json:"id"     validate:"required"`
	Fields map[string]any `json:"fields" validate:"required"`
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relaycrm/journey/pkg/models"
)

// Enrollment evaluates enrollment and goal criteria against CRM records so
// the builder can preview who a workflow would pick up before activating it.
type Enrollment struct {
	workflows *Workflow
	logger    *slog.Logger
}

func NewEnrollment(workflows *Workflow, logger *slog.Logger) *Enrollment {
	return &Enrollment{
		workflows: workflows,
		logger:    logger,
	}
}

// EntityRecord is a CRM record snapshot submitted for preview. Fields holds
// the flattened property values criteria refer to.
type EntityRecord struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// RecordEvaluation is the per-record preview outcome.
type RecordEvaluation struct {
	RecordID   string `json:"recordId"`
	WouldEnrol bool   `json:"wouldEnrol"`
	GoalMet    bool   `json:"goalMet"`
	Reason     string `json:"reason,omitempty"`
}

// PreviewResult summarizes an enrollment preview run.
type PreviewResult struct {
	WorkflowID    string             `json:"workflowId"`
	TotalRecords  int                `json:"totalRecords"`
	EligibleCount int                `json:"eligibleCount"`
	Evaluations   []RecordEvaluation `json:"evaluations"`
}

// Preview evaluates the workflow's criteria against the submitted records.
// Records that already satisfy the goal criteria are reported but never
// counted as eligible.
func (e *Enrollment) Preview(
	ctx context.Context,
	workspaceID string,
	workflowID string,
	records []EntityRecord,
) (*PreviewResult, error) {
	workflow, err := e.workflows.FetchByID(ctx, workspaceID, workflowID)
	if err != nil {
		return nil, err
	}

	result := &PreviewResult{
		WorkflowID:   workflow.ID,
		TotalRecords: len(records),
		Evaluations:  make([]RecordEvaluation, 0, len(records)),
	}

	for _, record := range records {
		evaluation := e.evaluate(workflow, record)
		if evaluation.WouldEnrol {
			result.EligibleCount++
		}

		result.Evaluations = append(result.Evaluations, evaluation)
	}

	return result, nil
}

func (e *Enrollment) evaluate(workflow *models.Workflow, record EntityRecord) RecordEvaluation {
	evaluation := RecordEvaluation{RecordID: record.ID}

	goalMet, reason := matchesAll(workflow.GoalCriteria, record.Fields)
	if reason != "" {
		evaluation.Reason = reason

		return evaluation
	}

	evaluation.GoalMet = goalMet
	if goalMet {
		evaluation.Reason = "record already satisfies the goal criteria"

		return evaluation
	}

	enrols, reason := matchesAll(workflow.EnrollmentCriteria, record.Fields)
	if reason != "" {
		evaluation.Reason = reason

		return evaluation
	}

	evaluation.WouldEnrol = enrols
	if !enrols {
		evaluation.Reason = "record does not match the enrollment criteria"
	}

	return evaluation
}

// matchesAll evaluates criteria as a conjunction. Goal criteria on an empty
// list never match, enrollment handles that case at the caller.
func matchesAll(criteria []models.WorkflowCondition, fields map[string]any) (bool, string) {
	if len(criteria) == 0 {
		return false, ""
	}

	for _, condition := range criteria {
		matched, err := condition.Matches(fields[condition.Field])
		if err != nil {
			return false, fmt.Sprintf("criterion on field %q could not be evaluated: %v", condition.Field, err)
		}

		if !matched {
			return false, ""
		}
	}

	return true, ""
}

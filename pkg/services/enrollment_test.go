package services_test

import (
	"log/slog"
	"testing"

	"github.com/relaycrm/journey/pkg/models"
	"github.com/relaycrm/journey/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollment_Preview(t *testing.T) {
	workflows := newWorkflowService(t)
	enrollment := services.NewEnrollment(workflows, slog.Default())

	workflow := validWorkflow("ws-1")
	workflow.EnrollmentCriteria = []models.WorkflowCondition{
		{Field: "lifecycle_stage", Operator: models.OperatorEquals, Value: "lead"},
		{Field: "email", Operator: models.OperatorIsNotEmpty},
	}
	workflow.GoalCriteria = []models.WorkflowCondition{
		{Field: "lifecycle_stage", Operator: models.OperatorEquals, Value: "customer"},
	}

	created, err := workflows.Create(t.Context(), workflow)
	require.NoError(t, err)

	records := []services.EntityRecord{
		{ID: "c1", Fields: map[string]any{"lifecycle_stage": "lead", "email": "ada@example.com"}},
		{ID: "c2", Fields: map[string]any{"lifecycle_stage": "lead", "email": ""}},
		{ID: "c3", Fields: map[string]any{"lifecycle_stage": "customer", "email": "grace@example.com"}},
		{ID: "c4", Fields: map[string]any{"lifecycle_stage": "subscriber", "email": "joan@example.com"}},
	}

	result, err := enrollment.Preview(t.Context(), "ws-1", created.ID, records)
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalRecords)
	assert.Equal(t, 1, result.EligibleCount)
	require.Len(t, result.Evaluations, 4)

	byID := make(map[string]services.RecordEvaluation, len(result.Evaluations))
	for _, evaluation := range result.Evaluations {
		byID[evaluation.RecordID] = evaluation
	}

	assert.True(t, byID["c1"].WouldEnrol)
	assert.False(t, byID["c2"].WouldEnrol, "empty email fails is_not_empty")
	assert.False(t, byID["c3"].WouldEnrol, "records at the goal never enroll")
	assert.True(t, byID["c3"].GoalMet)
	assert.False(t, byID["c4"].WouldEnrol)
}

func TestEnrollment_PreviewWithoutCriteria(t *testing.T) {
	workflows := newWorkflowService(t)
	enrollment := services.NewEnrollment(workflows, slog.Default())

	created, err := workflows.Create(t.Context(), validWorkflow("ws-1"))
	require.NoError(t, err)

	result, err := enrollment.Preview(t.Context(), "ws-1", created.ID, []services.EntityRecord{
		{ID: "c1", Fields: map[string]any{"email": "ada@example.com"}},
	})
	require.NoError(t, err)

	// No enrollment criteria means manual enrollment only.
	assert.Equal(t, 0, result.EligibleCount)
}

func TestEnrollment_PreviewMissingWorkflow(t *testing.T) {
	workflows := newWorkflowService(t)
	enrollment := services.NewEnrollment(workflows, slog.Default())

	_, err := enrollment.Preview(t.Context(), "ws-1", "no-such-id", nil)
	assert.ErrorIs(t, err, services.ErrWorkflowNotFound)
}

package file

import (
	"testing"
	"time"

	"github.com/relaycrm/journey/pkg/models"
	"github.com/relaycrm/journey/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWorkflow(id, workspaceID, name string, status models.WorkflowStatus) *models.Workflow {
	return &models.Workflow{
		ID:                id,
		WorkspaceID:       workspaceID,
		Name:              name,
		Status:            status,
		TriggerEntityType: models.EntityTypeContact,
		Steps: []*models.Step{
			{
				ID:          "t1",
				Type:        models.StepTypeTrigger,
				Config:      models.StepConfig{TriggerType: "contact_created"},
				NextStepIDs: []string{"a1"},
			},
			{
				ID:   "a1",
				Type: models.StepTypeAction,
				Config: models.StepConfig{
					ActionType: models.ActionTypeAddTag,
					TagName:    "new",
				},
			},
		},
	}
}

func TestWorkflowRepository_SaveAndGetByID(t *testing.T) {
	repo := NewWorkflowRepository(t.TempDir())

	workflow := sampleWorkflow("wf-1", "ws-1", "Onboarding", models.WorkflowStatusDraft)
	require.NoError(t, repo.Save(t.Context(), workflow))

	loaded, err := repo.GetByID(t.Context(), "wf-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, "Onboarding", loaded.Name)
	assert.Equal(t, models.WorkflowStatusDraft, loaded.Status)
	require.Len(t, loaded.Steps, 2)
	assert.Equal(t, models.StepTypeTrigger, loaded.Steps[0].Type)
	assert.Equal(t, "contact_created", loaded.Steps[0].Config.TriggerType)
	assert.Equal(t, []string{"a1"}, loaded.Steps[0].NextStepIDs)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestWorkflowRepository_GetByID_NotFound(t *testing.T) {
	repo := NewWorkflowRepository(t.TempDir())

	loaded, err := repo.GetByID(t.Context(), "missing")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestWorkflowRepository_Delete(t *testing.T) {
	repo := NewWorkflowRepository(t.TempDir())

	workflow := sampleWorkflow("wf-1", "ws-1", "Onboarding", models.WorkflowStatusDraft)
	require.NoError(t, repo.Save(t.Context(), workflow))
	require.NoError(t, repo.Delete(t.Context(), "wf-1"))

	loaded, err := repo.GetByID(t.Context(), "wf-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Deleting an absent workflow is a no-op.
	assert.NoError(t, repo.Delete(t.Context(), "wf-1"))
}

func TestWorkflowRepository_ListWorkflows_Filters(t *testing.T) {
	repo := NewWorkflowRepository(t.TempDir())

	first := sampleWorkflow("wf-1", "ws-1", "Alpha", models.WorkflowStatusActive)
	first.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, repo.Save(t.Context(), first))

	second := sampleWorkflow("wf-2", "ws-1", "Beta", models.WorkflowStatusDraft)
	second.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.Save(t.Context(), second))

	third := sampleWorkflow("wf-3", "ws-2", "Gamma", models.WorkflowStatusActive)
	require.NoError(t, repo.Save(t.Context(), third))

	byWorkspace, err := repo.ListWorkflows(t.Context(), persistence.ListWorkflowsOptions{WorkspaceID: "ws-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), byWorkspace.TotalCount)

	active := models.WorkflowStatusActive

	byStatus, err := repo.ListWorkflows(t.Context(), persistence.ListWorkflowsOptions{Status: &active})
	require.NoError(t, err)
	assert.Equal(t, int64(2), byStatus.TotalCount)

	both, err := repo.ListWorkflows(t.Context(), persistence.ListWorkflowsOptions{
		WorkspaceID: "ws-1",
		Status:      &active,
	})
	require.NoError(t, err)
	require.Len(t, both.Workflows, 1)
	assert.Equal(t, "wf-1", both.Workflows[0].ID)
}

func TestWorkflowRepository_ListWorkflows_SortAndPaginate(t *testing.T) {
	repo := NewWorkflowRepository(t.TempDir())

	for _, name := range []string{"Charlie", "Alpha", "Beta"} {
		workflow := sampleWorkflow("wf-"+name, "ws-1", name, models.WorkflowStatusDraft)
		require.NoError(t, repo.Save(t.Context(), workflow))
	}

	result, err := repo.ListWorkflows(t.Context(), persistence.ListWorkflowsOptions{
		SortBy:    "name",
		SortOrder: "asc",
		Limit:     2,
	})
	require.NoError(t, err)

	require.Len(t, result.Workflows, 2)
	assert.Equal(t, "Alpha", result.Workflows[0].Name)
	assert.Equal(t, "Beta", result.Workflows[1].Name)
	assert.True(t, result.HasNextPage)

	rest, err := repo.ListWorkflows(t.Context(), persistence.ListWorkflowsOptions{
		SortBy:    "name",
		SortOrder: "asc",
		Limit:     2,
		Offset:    2,
	})
	require.NoError(t, err)
	require.Len(t, rest.Workflows, 1)
	assert.Equal(t, "Charlie", rest.Workflows[0].Name)
	assert.False(t, rest.HasNextPage)
}

func TestWorkflowRepository_ListWorkflows_InvalidSortField(t *testing.T) {
	repo := NewWorkflowRepository(t.TempDir())

	workflow := sampleWorkflow("wf-1", "ws-1", "Alpha", models.WorkflowStatusDraft)
	require.NoError(t, repo.Save(t.Context(), workflow))

	_, err := repo.ListWorkflows(t.Context(), persistence.ListWorkflowsOptions{SortBy: "owner; DROP TABLE"})
	assert.True(t, persistence.IsInvalidSortField(err))
}

func TestPersistence_HealthCheck(t *testing.T) {
	p := NewPersistence(t.TempDir())
	assert.NoError(t, p.HealthCheck(t.Context()))

	missing := NewPersistence("/nonexistent/journey-test")
	assert.Error(t, missing.HealthCheck(t.Context()))
}

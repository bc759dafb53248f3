package postgresql_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/relaycrm/journey/pkg/models"
	"github.com/relaycrm/journey/pkg/persistence"
	"github.com/relaycrm/journey/pkg/persistence/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// Requires a local Docker daemon; opt in with JOURNEY_INTEGRATION_TESTS=1.
func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context) {
	t.Helper()

	if os.Getenv("JOURNEY_INTEGRATION_TESTS") == "" {
		t.Skip("set JOURNEY_INTEGRATION_TESTS=1 to run postgres integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	t.Cleanup(cancel)

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("journey_test"),
		postgres.WithUsername("journey"),
		postgres.WithPassword("journey"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	databaseURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	p, err := postgresql.NewPersistence(ctx, slog.Default(), databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = p.Close(context.Background())
	})

	return p, ctx
}

func TestWorkflowRepository_RoundTrip(t *testing.T) {
	p, ctx := setupTestDB(t)
	repo := p.WorkflowRepository()

	workflow := &models.Workflow{
		WorkspaceID:       "ws-1",
		Name:              "Deal won follow-up",
		Description:       "Send a thank-you email after a deal is won",
		Status:            models.WorkflowStatusDraft,
		TriggerEntityType: models.EntityTypeDeal,
		Steps: []*models.Step{
			{
				ID:          "t1",
				Type:        models.StepTypeTrigger,
				Config:      models.StepConfig{TriggerType: "deal_won"},
				NextStepIDs: []string{"a1"},
			},
			{
				ID:   "a1",
				Type: models.StepTypeAction,
				Config: models.StepConfig{
					ActionType:   models.ActionTypeSendEmail,
					EmailSubject: "Thank you",
					EmailBody:    "We appreciate your business",
				},
			},
		},
		EnrollmentCriteria: []models.WorkflowCondition{
			{Field: "amount", Operator: models.OperatorGreaterThan, Value: float64(1000)},
		},
	}

	require.NoError(t, repo.Save(ctx, workflow))
	require.NotEmpty(t, workflow.ID)

	loaded, err := repo.GetByID(ctx, workflow.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, "Deal won follow-up", loaded.Name)
	assert.Equal(t, models.EntityTypeDeal, loaded.TriggerEntityType)
	require.Len(t, loaded.Steps, 2)
	assert.Equal(t, "deal_won", loaded.Steps[0].Config.TriggerType)
	require.Len(t, loaded.EnrollmentCriteria, 1)
	assert.Equal(t, models.OperatorGreaterThan, loaded.EnrollmentCriteria[0].Operator)
}

func TestWorkflowRepository_ListAndDelete(t *testing.T) {
	p, ctx := setupTestDB(t)
	repo := p.WorkflowRepository()

	for _, name := range []string{"Alpha flow", "Beta flow"} {
		workflow := &models.Workflow{
			WorkspaceID:       "ws-1",
			Name:              name,
			Status:            models.WorkflowStatusActive,
			TriggerEntityType: models.EntityTypeContact,
			Steps:             []*models.Step{},
		}
		require.NoError(t, repo.Save(ctx, workflow))
	}

	result, err := repo.ListWorkflows(ctx, persistence.ListWorkflowsOptions{
		WorkspaceID: "ws-1",
		SortBy:      "name",
		SortOrder:   "asc",
	})
	require.NoError(t, err)
	require.Len(t, result.Workflows, 2)
	assert.Equal(t, "Alpha flow", result.Workflows[0].Name)

	require.NoError(t, repo.Delete(ctx, result.Workflows[0].ID))

	gone, err := repo.GetByID(ctx, result.Workflows[0].ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

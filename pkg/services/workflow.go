package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/relaycrm/journey/pkg/models"
	"github.com/relaycrm/journey/pkg/persistence"
	"github.com/relaycrm/journey/pkg/registry"
	"github.com/relaycrm/journey/pkg/validation"
)

// ErrWorkflowNotFound is returned when a workflow is not found.
var ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

// Workflow provides CRUD and validation over stored workflow definitions.
type Workflow struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	cache       ValidationCache
	logger      *slog.Logger
}

// NewWorkflow creates a new workflow service. cache may be nil, in which case
// every Validate call runs the checks directly.
func NewWorkflow(
	persistence persistence.Persistence,
	registry *registry.Registry,
	cache ValidationCache,
	logger *slog.Logger,
) *Workflow {
	return &Workflow{
		persistence: persistence,
		registry:    registry,
		cache:       cache,
		logger:      logger,
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListWorkflowsRequest contains options for listing workflows.
type ListWorkflowsRequest struct {
	// Pagination
	Limit  int `validate:"min=1,max=100"`
	Offset int `validate:"min=0"`

	// Filtering
	WorkspaceID string
	Status      *models.WorkflowStatus
	EntityType  *models.EntityType

	// Sorting
	SortBy    string `validate:"oneof=created_at updated_at name"`
	SortOrder string `validate:"oneof=asc desc"`
}

// ListWorkflowsResponse contains the result of listing workflows.
type ListWorkflowsResponse struct {
	Workflows   []*models.Workflow `json:"workflows"`
	TotalCount  int64              `json:"totalCount"`
	HasNextPage bool               `json:"hasNextPage"`
}

// ListWorkflows retrieves workflows with filtering, sorting, and pagination.
func (w *Workflow) ListWorkflows(ctx context.Context, req ListWorkflowsRequest) (*ListWorkflowsResponse, error) {
	if err := w.validateListWorkflowsRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	opts := persistence.ListWorkflowsOptions{
		Limit:       req.Limit,
		Offset:      req.Offset,
		WorkspaceID: req.WorkspaceID,
		Status:      req.Status,
		EntityType:  req.EntityType,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
	}

	result, err := w.persistence.WorkflowRepository().ListWorkflows(ctx, opts)
	if err != nil {
		if persistence.IsInvalidSortField(err) {
			return nil, ErrInvalidSortField
		}

		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return &ListWorkflowsResponse{
		Workflows:   result.Workflows,
		TotalCount:  result.TotalCount,
		HasNextPage: result.HasNextPage,
	}, nil
}

func (w *Workflow) validateListWorkflowsRequest(req *ListWorkflowsRequest) error {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		req.Limit = 100
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	if req.SortBy == "" {
		req.SortBy = "created_at"
	}

	if req.SortOrder == "" {
		req.SortOrder = "desc"
	}

	allowedSorts := []string{"created_at", "updated_at", "name"}

	if !slices.Contains(allowedSorts, req.SortBy) {
		return NewValidationError(
			"validateListWorkflowsRequest",
			"INVALID_SORT_FIELD",
			fmt.Sprintf("invalid sort field '%s', allowed: %s", req.SortBy, strings.Join(allowedSorts, ", ")),
			ErrInvalidSortField,
		)
	}

	if req.SortOrder != "asc" && req.SortOrder != "desc" {
		return NewValidationError(
			"validateListWorkflowsRequest",
			"INVALID_SORT_ORDER",
			fmt.Sprintf("invalid sort order '%s', allowed: asc, desc", req.SortOrder),
			ErrInvalidSortOrder,
		)
	}

	if req.Status != nil {
		allowedStatuses := []models.WorkflowStatus{
			models.WorkflowStatusDraft,
			models.WorkflowStatusActive,
			models.WorkflowStatusPaused,
			models.WorkflowStatusArchived,
		}

		if !slices.Contains(allowedStatuses, *req.Status) {
			return NewValidationError(
				"validateListWorkflowsRequest",
				"INVALID_STATUS",
				fmt.Sprintf("invalid status '%s'", *req.Status),
				ErrInvalidStatus,
			)
		}
	}

	if req.EntityType != nil {
		allowedEntities := []models.EntityType{
			models.EntityTypeContact,
			models.EntityTypeDeal,
			models.EntityTypeCompany,
		}

		if !slices.Contains(allowedEntities, *req.EntityType) {
			return NewValidationError(
				"validateListWorkflowsRequest",
				"INVALID_ENTITY_TYPE",
				fmt.Sprintf("invalid trigger entity type '%s'", *req.EntityType),
				ErrInvalidEntityType,
			)
		}
	}

	req.WorkspaceID = strings.TrimSpace(req.WorkspaceID)

	return nil
}

// FetchByID retrieves a workflow by its ID, scoped to a workspace. A workflow
// belonging to another workspace reads as not found.
func (w *Workflow) FetchByID(ctx context.Context, workspaceID, id string) (*models.Workflow, error) {
	workflow, err := w.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if workflow == nil || (workspaceID != "" && workflow.WorkspaceID != workspaceID) {
		return nil, ErrWorkflowNotFound
	}

	return workflow, nil
}

// Create adds a new workflow to the repository. New workflows always start in
// draft regardless of the submitted status.
func (w *Workflow) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow == nil {
		return nil, ErrWorkflowNil
	}

	if strings.TrimSpace(workflow.Name) == "" {
		return nil, ErrWorkflowNameRequired
	}

	if strings.TrimSpace(workflow.WorkspaceID) == "" {
		return nil, ErrEmptyWorkspaceID
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate workflow ID: %w", err)
	}

	now := time.Now().UTC()
	workflow.ID = id.String()
	workflow.Status = models.WorkflowStatusDraft
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	err = w.persistence.WorkflowRepository().Save(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	return workflow, nil
}

// Update modifies an existing workflow definition. Archived workflows are
// read-only; status is owned by the lifecycle service and carried over.
func (w *Workflow) Update(
	ctx context.Context,
	workspaceID string,
	workflowID string,
	workflow *models.Workflow,
) (*models.Workflow, error) {
	if workflow == nil {
		return nil, ErrWorkflowNil
	}

	existing, err := w.FetchByID(ctx, workspaceID, workflowID)
	if err != nil {
		return nil, err
	}

	if existing.Status == models.WorkflowStatusArchived {
		return nil, ErrWorkflowArchived
	}

	if strings.TrimSpace(workflow.Name) == "" {
		return nil, ErrWorkflowNameRequired
	}

	workflow.ID = workflowID
	workflow.WorkspaceID = existing.WorkspaceID
	workflow.Status = existing.Status
	workflow.CreatedAt = existing.CreatedAt
	workflow.UpdatedAt = time.Now().UTC()

	err = w.persistence.WorkflowRepository().Save(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}

	return workflow, nil
}

// Delete removes a workflow by its ID.
func (w *Workflow) Delete(ctx context.Context, workspaceID, workflowID string) error {
	existing, err := w.FetchByID(ctx, workspaceID, workflowID)
	if err != nil {
		return err
	}

	err = w.persistence.WorkflowRepository().Delete(ctx, existing.ID)
	if err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}

	return nil
}

// Validate runs the structural and configuration checks over a stored
// workflow and appends advisory schema warnings from the step registry.
// Results are cached per revision when a cache is configured.
func (w *Workflow) Validate(ctx context.Context, workspaceID, workflowID string) (*validation.Result, error) {
	workflow, err := w.FetchByID(ctx, workspaceID, workflowID)
	if err != nil {
		return nil, err
	}

	return w.ValidateDefinition(ctx, workflow)
}

// ValidateDefinition validates a workflow that may not be persisted yet.
func (w *Workflow) ValidateDefinition(ctx context.Context, workflow *models.Workflow) (*validation.Result, error) {
	if w.cache != nil && workflow.ID != "" {
		if cached, ok := w.cache.Get(ctx, workflow); ok {
			return cached, nil
		}
	}

	result := validation.ValidateWorkflow(workflow)

	if w.registry != nil {
		for _, step := range workflow.Steps {
			if step == nil {
				continue
			}

			violations, err := w.registry.ValidateStep(step)
			if err != nil {
				w.logger.WarnContext(ctx, "step schema validation failed",
					"workflow_id", workflow.ID, "step_id", step.ID, "error", err)

				continue
			}

			for _, violation := range violations {
				result.Warnings = append(result.Warnings, validation.ValidationError{
					ID:       "schema-" + step.ID,
					NodeID:   step.ID,
					Type:     validation.ProblemConfiguration,
					Severity: validation.SeverityWarning,
					Message:  violation,
				})
			}
		}
	}

	if w.cache != nil && workflow.ID != "" {
		w.cache.Set(ctx, workflow, result)
	}

	return &result, nil
}

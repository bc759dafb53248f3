package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/relaycrm/journey/pkg/models"
	"github.com/relaycrm/journey/pkg/persistence"
)

// WorkflowRepository handles workflow-related database operations. The step
// graph and criteria are stored as JSONB documents; filterable metadata lives
// in dedicated columns.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(db *sql.DB, logger *slog.Logger) *WorkflowRepository {
	return &WorkflowRepository{db: db, logger: logger}
}

const workflowColumns = `
	id
  , workspace_id
  , name
  , description
  , status
  , trigger_entity_type
  , steps
  , enrollment_criteria
  , goal_criteria
  , created_at
  , updated_at
  , deleted_at
`

var allowedSortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"name":       "name",
}

// ListWorkflows returns paginated and filtered workflows.
func (r *WorkflowRepository) ListWorkflows(ctx context.Context, opts persistence.ListWorkflowsOptions) (*persistence.WorkflowListResult, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}

	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}

	if opts.SortOrder != "asc" {
		opts.SortOrder = "desc"
	}

	sortColumn, ok := allowedSortColumns[opts.SortBy]
	if !ok {
		return nil, fmt.Errorf("%w: %s", persistence.ErrInvalidSortField, opts.SortBy)
	}

	where := "deleted_at IS NULL"
	args := make([]any, 0, 5)

	appendFilter := func(clause string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(" AND %s = $%d", clause, len(args))
	}

	if opts.WorkspaceID != "" {
		appendFilter("workspace_id", opts.WorkspaceID)
	}

	if opts.Status != nil {
		appendFilter("status", string(*opts.Status))
	}

	if opts.EntityType != nil {
		appendFilter("trigger_entity_type", string(*opts.EntityType))
	}

	var totalCount int64

	countQuery := "SELECT COUNT(*) FROM workflows WHERE " + where

	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count workflows: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM workflows WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		workflowColumns, where, sortColumn, opts.SortOrder, len(args)+1, len(args)+2,
	)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}

		workflows = append(workflows, workflow)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating workflows: %w", err)
	}

	return &persistence.WorkflowListResult{
		Workflows:   workflows,
		TotalCount:  totalCount,
		HasNextPage: int64(opts.Offset+len(workflows)) < totalCount,
	}, nil
}

// GetByID retrieves a workflow by its ID, nil when absent or soft deleted.
func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	query := fmt.Sprintf("SELECT %s FROM workflows WHERE id = $1 AND deleted_at IS NULL", workflowColumns)

	workflow, err := scanWorkflow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan workflow: %w", err)
	}

	return workflow, nil
}

// Save upserts a workflow.
func (r *WorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	// Timestamps belong to the service layer; only fill the gaps left by
	// direct repository writes.
	now := time.Now().UTC()

	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	if workflow.UpdatedAt.IsZero() {
		workflow.UpdatedAt = now
	}

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
	}

	steps, err := json.Marshal(workflow.Steps)
	if err != nil {
		return persistence.NewWorkflowError("Save", workflow.ID, err)
	}

	enrollment, err := json.Marshal(workflow.EnrollmentCriteria)
	if err != nil {
		return persistence.NewWorkflowError("Save", workflow.ID, err)
	}

	goal, err := json.Marshal(workflow.GoalCriteria)
	if err != nil {
		return persistence.NewWorkflowError("Save", workflow.ID, err)
	}

	query := `
		INSERT INTO workflows (
			id, workspace_id, name, description, status, trigger_entity_type,
			steps, enrollment_criteria, goal_criteria, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			workspace_id = EXCLUDED.workspace_id,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			trigger_entity_type = EXCLUDED.trigger_entity_type,
			steps = EXCLUDED.steps,
			enrollment_criteria = EXCLUDED.enrollment_criteria,
			goal_criteria = EXCLUDED.goal_criteria,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		workflow.ID,
		workflow.WorkspaceID,
		workflow.Name,
		workflow.Description,
		string(workflow.Status),
		string(workflow.TriggerEntityType),
		steps,
		enrollment,
		goal,
		workflow.CreatedAt,
		workflow.UpdatedAt,
	)
	if err != nil {
		return persistence.NewWorkflowError("Save", workflow.ID, err)
	}

	return nil
}

// Delete soft deletes a workflow by setting deleted_at.
func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	query := "UPDATE workflows SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL"

	_, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return persistence.NewWorkflowError("Delete", id, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*models.Workflow, error) {
	var (
		workflow   models.Workflow
		status     string
		entityType string
		steps      []byte
		enrollment []byte
		goal       []byte
		deletedAt  sql.NullTime
	)

	err := row.Scan(
		&workflow.ID,
		&workflow.WorkspaceID,
		&workflow.Name,
		&workflow.Description,
		&status,
		&entityType,
		&steps,
		&enrollment,
		&goal,
		&workflow.CreatedAt,
		&workflow.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	workflow.Status = models.WorkflowStatus(status)
	workflow.TriggerEntityType = models.EntityType(entityType)

	if deletedAt.Valid {
		workflow.DeletedAt = &deletedAt.Time
	}

	err = json.Unmarshal(steps, &workflow.Steps)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal steps: %w", err)
	}

	if len(enrollment) > 0 {
		err = json.Unmarshal(enrollment, &workflow.EnrollmentCriteria)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal enrollment criteria: %w", err)
		}
	}

	if len(goal) > 0 {
		err = json.Unmarshal(goal, &workflow.GoalCriteria)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal goal criteria: %w", err)
		}
	}

	return &workflow, nil
}

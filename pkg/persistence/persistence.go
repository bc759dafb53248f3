// Package persistence provides the data storage abstraction for workflow
// definitions.
package persistence

import (
	"context"

	"github.com/relaycrm/journey/pkg/models"
)

// Persistence is the storage entry point handed to services.
type Persistence interface {
	WorkflowRepository() WorkflowRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository stores workflow definitions. GetByID returns (nil, nil)
// when no workflow exists for the id.
type WorkflowRepository interface {
	ListWorkflows(ctx context.Context, opts ListWorkflowsOptions) (*WorkflowListResult, error)
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	Save(ctx context.Context, workflow *models.Workflow) error
	Delete(ctx context.Context, id string) error
}

// ListWorkflowsOptions controls filtering, sorting, and pagination.
type ListWorkflowsOptions struct {
	Limit  int
	Offset int

	WorkspaceID string
	Status      *models.WorkflowStatus
	EntityType  *models.EntityType

	SortBy    string // created_at, updated_at, name
	SortOrder string // asc, desc
}

// WorkflowListResult is one page of workflows plus pagination metadata.
type WorkflowListResult struct {
	Workflows   []*models.Workflow
	TotalCount  int64
	HasNextPage bool
}

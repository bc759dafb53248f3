// Package main provides the revalidation sweeper: a scheduled job that
// re-checks active workflows and reports the ones that no longer pass.
// Definitions do not change behind the API's back in normal operation, but
// imports and migrations do exactly that, and the sweep catches them.
package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/relaycrm/journey/pkg/eventbus"
	"github.com/relaycrm/journey/pkg/events"
	"github.com/relaycrm/journey/pkg/models"
	"github.com/relaycrm/journey/pkg/otelhelper"
	"github.com/relaycrm/journey/pkg/persistence"
	"github.com/relaycrm/journey/pkg/services"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const sweepPageSize = 100

type Sweeper struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	workflows   *services.Workflow
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
}

func NewSweeper(
	logger *slog.Logger,
	persistence persistence.Persistence,
	workflows *services.Workflow,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
) *Sweeper {
	return &Sweeper{
		logger:      logger,
		persistence: persistence,
		workflows:   workflows,
		eventBus:    eventBus,
		tracer:      tracer,
	}
}

// SweepResult counts one pass over the active workflows.
type SweepResult struct {
	Checked int
	Failed  int
}

// Sweep validates every active workflow, publishing a validation-failed
// event for each one with blocking errors. Paging keeps memory flat on large
// workspaces.
func (s *Sweeper) Sweep(ctx context.Context) (SweepResult, error) {
	if s.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, s.tracer, "sweeper.sweep")
		defer span.End()
	}

	var result SweepResult

	active := models.WorkflowStatusActive
	offset := 0

	for {
		page, err := s.persistence.WorkflowRepository().ListWorkflows(ctx, persistence.ListWorkflowsOptions{
			Limit:  sweepPageSize,
			Offset: offset,
			Status: &active,
		})
		if err != nil {
			return result, err
		}

		for _, workflow := range page.Workflows {
			result.Checked++

			if s.check(ctx, workflow) {
				result.Failed++
			}
		}

		if !page.HasNextPage {
			break
		}

		offset += sweepPageSize
	}

	s.logger.InfoContext(ctx, "Sweep completed", "checked", result.Checked, "failed", result.Failed)

	return result, nil
}

// check returns true when the workflow has blocking errors.
func (s *Sweeper) check(ctx context.Context, workflow *models.Workflow) bool {
	var span trace.Span

	if s.tracer != nil {
		_, span = otelhelper.StartSpan(ctx, s.tracer, "sweeper.check",
			attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
			attribute.String(otelhelper.WorkspaceIDKey, workflow.WorkspaceID),
		)
		defer span.End()
	}

	validationResult, err := s.workflows.ValidateDefinition(ctx, workflow)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to validate workflow",
			"workflow_id", workflow.ID, "error", err)

		if span != nil {
			otelhelper.SetError(span, err,
				attribute.String(otelhelper.WorkflowIDKey, workflow.ID))
		}

		return false
	}

	if validationResult.IsValid {
		return false
	}

	s.logger.WarnContext(ctx, "Active workflow failed revalidation",
		"workflow_id", workflow.ID,
		"workspace_id", workflow.WorkspaceID,
		"error_count", len(validationResult.Errors))

	if span != nil {
		span.AddEvent("revalidation_failed", trace.WithAttributes(
			attribute.Int("journey.validation.error_count", len(validationResult.Errors)),
		))
	}

	event := events.WorkflowValidationFailed{
		BaseEvent: events.BaseEvent{
			ID:          s.eventBus.GenerateID(),
			Type:        events.WorkflowValidationFailedEvent,
			Timestamp:   time.Now().UTC(),
			WorkflowID:  workflow.ID,
			WorkspaceID: workflow.WorkspaceID,
		},
		Errors: validationResult.Errors,
	}

	err = s.eventBus.Publish(ctx, workflow.ID, event)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish validation failure",
			"workflow_id", workflow.ID, "error", err)

		if span != nil {
			otelhelper.SetError(span, err,
				attribute.String(otelhelper.WorkflowIDKey, workflow.ID))
		}
	}

	return true
}

// Package web provides HTTP handlers and REST API endpoints for workflow management.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/relaycrm/journey/pkg/models"
	"github.com/relaycrm/journey/pkg/persistence"
	"github.com/relaycrm/journey/pkg/registry"
	"github.com/relaycrm/journey/pkg/services"
)

type APIHandlers struct {
	workflowService   *services.Workflow
	lifecycleService  *services.Lifecycle
	enrollmentService *services.Enrollment
	validator         *validator.Validate
	registry          *registry.Registry
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	lifecycleService *services.Lifecycle,
	enrollmentService *services.Enrollment,
	validator *validator.Validate,
	registry *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		workflowService:   workflowService,
		lifecycleService:  lifecycleService,
		enrollmentService: enrollmentService,
		validator:         validator,
		registry:          registry,
	}
}

// RegisterRoutes mounts every workflow endpoint on the app. Workflows are
// always addressed through their workspace.
func RegisterRoutes(app *fiber.App, handlers *APIHandlers) {
	workflows := app.Group("/workspaces/:workspaceID/workflows")
	workflows.Get("/", handlers.GetWorkflows)
	workflows.Post("/", handlers.CreateWorkflow)
	workflows.Get("/:id", handlers.GetWorkflow)
	workflows.Patch("/:id", handlers.UpdateWorkflow)
	workflows.Delete("/:id", handlers.DeleteWorkflow)
	workflows.Post("/:id/validate", handlers.ValidateWorkflow)
	workflows.Post("/:id/activate", handlers.ActivateWorkflow)
	workflows.Post("/:id/pause", handlers.PauseWorkflow)
	workflows.Post("/:id/resume", handlers.ResumeWorkflow)
	workflows.Post("/:id/archive", handlers.ArchiveWorkflow)
	workflows.Post("/:id/enrollment-preview", handlers.EnrollmentPreview)

	app.Get("/step-types", handlers.GetStepTypes)
	app.Get("/health", handlers.HealthCheck)
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	req, err := h.parseListWorkflowsRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.workflowService.ListWorkflows(c.Context(), *req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflows":   result.Workflows,
		"totalCount":  result.TotalCount,
		"hasNextPage": result.HasNextPage,
		"pagination": fiber.Map{
			"limit":  req.Limit,
			"offset": req.Offset,
		},
		"sorting": fiber.Map{
			"sortBy":    req.SortBy,
			"sortOrder": req.SortOrder,
		},
	})
}

// parseListWorkflowsRequest parses and validates query parameters for listing workflows.
func (h *APIHandlers) parseListWorkflowsRequest(c fiber.Ctx) (*services.ListWorkflowsRequest, error) {
	req := &services.ListWorkflowsRequest{
		WorkspaceID: c.Params("workspaceID"),
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}

		req.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, err
		}

		req.Offset = offset
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.WorkflowStatus(statusStr)
		req.Status = &status
	}

	if entityStr := c.Query("entity_type"); entityStr != "" {
		entityType := models.EntityType(entityStr)
		req.EntityType = &entityType
	}

	req.SortBy = c.Query("sort_by")
	req.SortOrder = c.Query("sort_order")

	return req, nil
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	workflow, err := h.workflowService.FetchByID(c.Context(), c.Params("workspaceID"), c.Params("id"))
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	workflow := &models.Workflow{
		WorkspaceID:        c.Params("workspaceID"),
		Name:               req.Name,
		Description:        req.Description,
		TriggerEntityType:  req.TriggerEntityType,
		Steps:              req.Steps,
		EnrollmentCriteria: req.EnrollmentCriteria,
		GoalCriteria:       req.GoalCriteria,
	}

	if workflow.Steps == nil {
		workflow.Steps = []*models.Step{}
	}

	created, err := h.workflowService.Create(c.Context(), workflow)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	var req UpdateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	workspaceID := c.Params("workspaceID")
	id := c.Params("id")

	existing, err := h.workflowService.FetchByID(c.Context(), workspaceID, id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}

	if req.Steps != nil {
		existing.Steps = req.Steps
	}

	if req.EnrollmentCriteria != nil {
		existing.EnrollmentCriteria = req.EnrollmentCriteria
	}

	if req.GoalCriteria != nil {
		existing.GoalCriteria = req.GoalCriteria
	}

	updated, err := h.workflowService.Update(c.Context(), workspaceID, id, existing)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	err := h.workflowService.Delete(c.Context(), c.Params("workspaceID"), c.Params("id"))
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ValidateWorkflow runs the full check pass and returns the result document.
// The HTTP status is 200 either way; isValid carries the verdict.
func (h *APIHandlers) ValidateWorkflow(c fiber.Ctx) error {
	result, err := h.workflowService.Validate(c.Context(), c.Params("workspaceID"), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) ActivateWorkflow(c fiber.Ctx) error {
	result, err := h.lifecycleService.Activate(c.Context(), c.Params("workspaceID"), c.Params("id"))
	if err != nil {
		if result != nil && result.Result != nil && !result.Result.IsValid {
			// Surface the blocking errors rather than a bare conflict.
			return c.Status(fiber.StatusUnprocessableEntity).JSON(result)
		}

		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) PauseWorkflow(c fiber.Ctx) error {
	workflow, err := h.lifecycleService.Pause(c.Context(), c.Params("workspaceID"), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) ResumeWorkflow(c fiber.Ctx) error {
	workflow, err := h.lifecycleService.Resume(c.Context(), c.Params("workspaceID"), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) ArchiveWorkflow(c fiber.Ctx) error {
	workflow, err := h.lifecycleService.Archive(c.Context(), c.Params("workspaceID"), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) EnrollmentPreview(c fiber.Ctx) error {
	var req EnrollmentPreviewRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	records := make([]services.EntityRecord, 0, len(req.Records))
	for _, record := range req.Records {
		records = append(records, services.EntityRecord{ID: record.ID, Fields: record.Fields})
	}

	result, err := h.enrollmentService.Preview(c.Context(), c.Params("workspaceID"), c.Params("id"), records)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

// GetStepTypes returns the builder palette: every known step type with its
// config schema.
func (h *APIHandlers) GetStepTypes(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"stepTypes": h.registry.List(),
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.registry.HealthCheck()
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Journey API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk && repOk {
		status = "healthy"
		message = "Journey API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry":   registryCheck,
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

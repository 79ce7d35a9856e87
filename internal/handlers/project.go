package handlers

import (
	"todoflow/internal/models"
	"todoflow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProjectHandler handles project CRUD and ordering endpoints
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List returns the caller's projects in order
// GET /api/projects
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	projects, err := h.projectService.List(c.Context(), callerID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"projects": projects, "count": len(projects)})
}

// ListWithCounts returns projects annotated with task counts
// GET /api/projects/counts
func (h *ProjectHandler) ListWithCounts(c *fiber.Ctx) error {
	projects, err := h.projectService.ListWithTaskCounts(c.Context(), callerID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"projects": projects, "count": len(projects)})
}

// Get returns a single project
// GET /api/projects/:id
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	project, err := h.projectService.Get(c.Context(), callerID(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(project)
}

// Create creates a new project
// POST /api/projects
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var req models.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	project, err := h.projectService.Create(c.Context(), callerID(c), &req)
	if err != nil {
		return serviceError(c, err)
	}

	recordMutation("project", "create")
	return c.Status(fiber.StatusCreated).JSON(project)
}

// Update applies a partial patch to a project
// PATCH /api/projects/:id
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	var req models.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	project, err := h.projectService.Update(c.Context(), callerID(c), c.Params("id"), &req)
	if err != nil {
		return serviceError(c, err)
	}

	recordMutation("project", "update")
	return c.JSON(project)
}

// Reorder assigns a new order value to a project
// POST /api/projects/:id/reorder
func (h *ProjectHandler) Reorder(c *fiber.Ctx) error {
	var req models.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	project, err := h.projectService.Reorder(c.Context(), callerID(c), c.Params("id"), req.NewOrder)
	if err != nil {
		return serviceError(c, err)
	}

	recordMutation("project", "reorder")
	return c.JSON(project)
}

// Delete removes a project and all of its tasks
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	if err := h.projectService.Delete(c.Context(), callerID(c), c.Params("id")); err != nil {
		return serviceError(c, err)
	}

	recordMutation("project", "delete")
	return c.JSON(fiber.Map{"success": true})
}

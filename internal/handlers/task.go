package handlers

import (
	"time"

	"todoflow/internal/models"
	"todoflow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TaskHandler handles task CRUD, ordering and classification endpoints
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// List returns the caller's tasks, optionally filtered by project
// GET /api/tasks?project_id=...
func (h *TaskHandler) List(c *fiber.Ctx) error {
	userID := callerID(c)

	var (
		tasks []models.Task
		err   error
	)
	if projectID := c.Query("project_id"); projectID != "" {
		tasks, err = h.taskService.ListByProject(c.Context(), userID, projectID)
	} else {
		tasks, err = h.taskService.List(c.Context(), userID)
	}
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"tasks": tasks, "count": len(tasks)})
}

// ListByProject returns the caller's tasks in a project
// GET /api/projects/:id/tasks
func (h *TaskHandler) ListByProject(c *fiber.Ctx) error {
	tasks, err := h.taskService.ListByProject(c.Context(), callerID(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"tasks": tasks, "count": len(tasks)})
}

// ListActive returns the caller's active tasks
// GET /api/tasks/active
func (h *TaskHandler) ListActive(c *fiber.Ctx) error {
	tasks, err := h.taskService.ListActive(c.Context(), callerID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"tasks": tasks, "count": len(tasks)})
}

// ListCompleted returns the caller's completed tasks
// GET /api/tasks/completed
func (h *TaskHandler) ListCompleted(c *fiber.Ctx) error {
	tasks, err := h.taskService.ListCompleted(c.Context(), callerID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"tasks": tasks, "count": len(tasks)})
}

// ListToday returns active tasks due today plus the overdue backlog,
// the two sections of the Today screen
// GET /api/tasks/today
func (h *TaskHandler) ListToday(c *fiber.Ctx) error {
	userID := callerID(c)
	now := time.Now()

	today, err := h.taskService.ListToday(c.Context(), userID, now)
	if err != nil {
		return serviceError(c, err)
	}
	overdue, err := h.taskService.ListOverdue(c.Context(), userID, now)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"today":   today,
		"overdue": overdue,
		"count":   len(today) + len(overdue),
	})
}

// ListUpcoming returns active tasks due in the coming week, grouped by day
// GET /api/tasks/upcoming
func (h *TaskHandler) ListUpcoming(c *fiber.Ctx) error {
	now := time.Now()
	tasks, err := h.taskService.ListUpcoming(c.Context(), callerID(c), now)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"groups": services.GroupUpcoming(tasks, now),
		"count":  len(tasks),
	})
}

// Get returns a single task
// GET /api/tasks/:id
func (h *TaskHandler) Get(c *fiber.Ctx) error {
	task, err := h.taskService.Get(c.Context(), callerID(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(task)
}

// Create creates a new task
// POST /api/tasks
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var req models.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	task, err := h.taskService.Create(c.Context(), callerID(c), &req)
	if err != nil {
		return serviceError(c, err)
	}

	recordMutation("task", "create")
	return c.Status(fiber.StatusCreated).JSON(task)
}

// Update applies a partial patch to a task
// PATCH /api/tasks/:id
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	var req models.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	task, err := h.taskService.Update(c.Context(), callerID(c), c.Params("id"), &req)
	if err != nil {
		return serviceError(c, err)
	}

	recordMutation("task", "update")
	return c.JSON(task)
}

// ToggleComplete flips a task between active and completed
// POST /api/tasks/:id/toggle
func (h *TaskHandler) ToggleComplete(c *fiber.Ctx) error {
	task, err := h.taskService.ToggleComplete(c.Context(), callerID(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}

	recordMutation("task", "toggle")
	return c.JSON(task)
}

// Reorder assigns a new order value to a task
// POST /api/tasks/:id/reorder
func (h *TaskHandler) Reorder(c *fiber.Ctx) error {
	var req models.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	task, err := h.taskService.Reorder(c.Context(), callerID(c), c.Params("id"), req.NewOrder)
	if err != nil {
		return serviceError(c, err)
	}

	recordMutation("task", "reorder")
	return c.JSON(task)
}

// BulkReorder rewrites order values for a batch of tasks after a drag-and-drop
// POST /api/tasks/reorder
func (h *TaskHandler) BulkReorder(c *fiber.Ctx) error {
	var req models.BulkReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if len(req.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "items is required",
		})
	}

	resp, err := h.taskService.BulkReorder(c.Context(), callerID(c), req.Items)
	if err != nil {
		return serviceError(c, err)
	}

	recordMutation("task", "bulk_reorder")
	if m := services.GetMetrics(); m != nil && len(resp.Skipped) > 0 {
		m.RecordBulkReorderSkips(len(resp.Skipped))
	}
	return c.JSON(resp)
}

// Delete removes a task
// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	if err := h.taskService.Delete(c.Context(), callerID(c), c.Params("id")); err != nil {
		return serviceError(c, err)
	}

	recordMutation("task", "delete")
	return c.JSON(fiber.Map{"success": true})
}

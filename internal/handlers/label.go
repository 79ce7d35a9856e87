package handlers

import (
	"todoflow/internal/models"
	"todoflow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// LabelHandler handles label CRUD endpoints
type LabelHandler struct {
	labelService *services.LabelService
}

// NewLabelHandler creates a new label handler
func NewLabelHandler(labelService *services.LabelService) *LabelHandler {
	return &LabelHandler{labelService: labelService}
}

// List returns the caller's labels in creation order
// GET /api/labels
func (h *LabelHandler) List(c *fiber.Ctx) error {
	labels, err := h.labelService.List(c.Context(), callerID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"labels": labels, "count": len(labels)})
}

// Get returns a single label
// GET /api/labels/:id
func (h *LabelHandler) Get(c *fiber.Ctx) error {
	label, err := h.labelService.Get(c.Context(), callerID(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(label)
}

// Create creates a new label
// POST /api/labels
func (h *LabelHandler) Create(c *fiber.Ctx) error {
	var req models.CreateLabelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	label, err := h.labelService.Create(c.Context(), callerID(c), &req)
	if err != nil {
		return serviceError(c, err)
	}

	recordMutation("label", "create")
	return c.Status(fiber.StatusCreated).JSON(label)
}

// Update applies a partial patch to a label
// PATCH /api/labels/:id
func (h *LabelHandler) Update(c *fiber.Ctx) error {
	var req models.UpdateLabelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	label, err := h.labelService.Update(c.Context(), callerID(c), c.Params("id"), &req)
	if err != nil {
		return serviceError(c, err)
	}

	recordMutation("label", "update")
	return c.JSON(label)
}

// Delete removes a label and pulls it from all of the caller's tasks
// DELETE /api/labels/:id
func (h *LabelHandler) Delete(c *fiber.Ctx) error {
	if err := h.labelService.Delete(c.Context(), callerID(c), c.Params("id")); err != nil {
		return serviceError(c, err)
	}

	recordMutation("label", "delete")
	return c.JSON(fiber.Map{"success": true})
}

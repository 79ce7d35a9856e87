package handlers

import (
	"sort"
	"time"

	"todoflow/internal/services"
	"todoflow/internal/tools"

	"github.com/gofiber/fiber/v2"
)

// ToolsHandler exposes the AI tool registry over HTTP. The assistant layer
// lists tools to build its function-call schema and executes them on the
// user's behalf.
type ToolsHandler struct {
	registry *tools.Registry
}

// NewToolsHandler creates a new tools handler
func NewToolsHandler(registry *tools.Registry) *ToolsHandler {
	return &ToolsHandler{registry: registry}
}

// ToolResponse represents a tool in the API response
type ToolResponse struct {
	Name        string                 `json:"name"`
	DisplayName string                 `json:"display_name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// ExecuteToolRequest is the request body for tool execution
type ExecuteToolRequest struct {
	Arguments map[string]interface{} `json:"arguments"`
}

// ListTools returns all registered tools
// GET /api/tools
func (h *ToolsHandler) ListTools(c *fiber.Ctx) error {
	list := make([]ToolResponse, 0, h.registry.Count())
	for _, def := range h.registry.List() {
		function, ok := def["function"].(map[string]interface{})
		if !ok {
			continue
		}

		name, _ := function["name"].(string)
		tool, exists := h.registry.Get(name)
		if !exists {
			continue
		}

		list = append(list, ToolResponse{
			Name:        tool.Name,
			DisplayName: tool.DisplayName,
			Description: tool.Description,
			Parameters:  tool.Parameters,
		})
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})

	return c.JSON(fiber.Map{
		"tools": list,
		"count": len(list),
	})
}

// ExecuteTool runs a tool by name with the supplied arguments
// POST /api/tools/:name/execute
func (h *ToolsHandler) ExecuteTool(c *fiber.Ctx) error {
	name := c.Params("name")
	if _, exists := h.registry.Get(name); !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Tool not found",
		})
	}

	var req ExecuteToolRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Arguments == nil {
		req.Arguments = map[string]interface{}{}
	}

	start := time.Now()
	output, err := h.registry.Execute(c.Context(), name, callerID(c), req.Arguments)

	if m := services.GetMetrics(); m != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		m.RecordToolExecution(name, status)
		m.RecordToolLatency(time.Since(start).Seconds())
	}

	if err != nil {
		return serviceError(c, err)
	}

	c.Set("Content-Type", "application/json")
	return c.SendString(output)
}

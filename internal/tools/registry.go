package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"todoflow/internal/services"
)

// Tool represents a callable tool with its metadata and execution function.
// Tool contracts are the same CRUD mutations the REST surface exposes; the
// registry is what the chat assistant layer binds its function calls to.
type Tool struct {
	Name        string
	DisplayName string // User-friendly name (e.g., "Create Task")
	Description string
	Parameters  map[string]interface{}
	Execute     ExecuteFunc
}

// ExecuteFunc is the function signature for tool execution. The caller's
// user id is passed explicitly so every tool runs under the same ownership
// guard as the REST handlers.
type ExecuteFunc func(ctx context.Context, userID string, args map[string]interface{}) (string, error)

// Registry manages all available tools
type Registry struct {
	tools map[string]*Tool
	mutex sync.RWMutex
}

// NewRegistry creates a registry with all task management tools registered
func NewRegistry(taskService *services.TaskService, projectService *services.ProjectService, labelService *services.LabelService) *Registry {
	r := &Registry{
		tools: make(map[string]*Tool),
	}
	registerTaskTools(r, taskService)
	registerProjectTools(r, projectService, taskService)
	registerLabelTools(r, labelService)
	return r
}

// Register adds a new tool to the registry
func (r *Registry) Register(tool *Tool) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if tool.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	if tool.Execute == nil {
		return fmt.Errorf("tool %s must have an Execute function", tool.Name)
	}

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %s is already registered", tool.Name)
	}

	r.tools[tool.Name] = tool
	return nil
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (*Tool, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	tool, exists := r.tools[name]
	return tool, exists
}

// List returns all registered tools in OpenAI tool format
func (r *Registry) List() []map[string]interface{} {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	tools := make([]map[string]interface{}, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, map[string]interface{}{
			"type": "function",
			"function": map[string]interface{}{
				"name":        tool.Name,
				"description": tool.Description,
				"parameters":  tool.Parameters,
			},
		})
	}
	return tools
}

// Execute runs a tool by name with the given arguments
func (r *Registry) Execute(ctx context.Context, name, userID string, args map[string]interface{}) (string, error) {
	tool, exists := r.Get(name)
	if !exists {
		return "", fmt.Errorf("tool %s not found", name)
	}
	return tool.Execute(ctx, userID, args)
}

// Count returns the number of registered tools
func (r *Registry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.tools)
}

// result marshals a tool result to the JSON string handed back to the model
func result(fields map[string]interface{}) (string, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return string(data), nil
}

// failure formats an error as a tool result the model can recover from
func failure(action string, err error) (string, error) {
	return result(map[string]interface{}{
		"success": false,
		"message": fmt.Sprintf("Failed to %s: %v", action, err),
	})
}

// stringArg reads an optional string argument
func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// boolArg reads an optional bool argument
func boolArg(args map[string]interface{}, key string) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return false
}

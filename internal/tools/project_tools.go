package tools

import (
	"context"
	"fmt"

	"todoflow/internal/models"
	"todoflow/internal/services"
)

func registerProjectTools(r *Registry, projects *services.ProjectService, tasks *services.TaskService) {
	r.Register(&Tool{
		Name:        "create_project",
		DisplayName: "Create Project",
		Description: "Create a new project with a name, color, and optional favorite status",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "The name of the project",
				},
				"color": map[string]interface{}{
					"type":        "string",
					"description": "Color hex code for the project (e.g., '#ff0000')",
				},
				"is_favorite": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether to mark this project as a favorite",
				},
			},
			"required": []string{"name", "color"},
		},
		Execute: func(ctx context.Context, userID string, args map[string]interface{}) (string, error) {
			req := &models.CreateProjectRequest{
				Name:       stringArg(args, "name"),
				Color:      stringArg(args, "color"),
				IsFavorite: boolArg(args, "is_favorite"),
			}

			project, err := projects.Create(ctx, userID, req)
			if err != nil {
				return failure("create project", err)
			}

			return result(map[string]interface{}{
				"success":    true,
				"message":    fmt.Sprintf("Project %q created successfully", project.Name),
				"project_id": project.ID.Hex(),
			})
		},
	})

	r.Register(&Tool{
		Name:        "list_projects",
		DisplayName: "List Projects",
		Description: "List all projects with their task counts",
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Execute: func(ctx context.Context, userID string, args map[string]interface{}) (string, error) {
			list, err := projects.ListWithTaskCounts(ctx, userID)
			if err != nil {
				return failure("list projects", err)
			}

			summaries := make([]map[string]interface{}, 0, len(list))
			for _, p := range list {
				summaries = append(summaries, map[string]interface{}{
					"id":              p.ID.Hex(),
					"name":            p.Name,
					"color":           p.Color,
					"is_favorite":     p.IsFavorite,
					"total_tasks":     p.TotalTasks,
					"active_tasks":    p.ActiveTasks,
					"completed_tasks": p.CompletedTasks,
				})
			}

			return result(map[string]interface{}{
				"success":  true,
				"projects": summaries,
				"count":    len(summaries),
			})
		},
	})

	r.Register(&Tool{
		Name:        "update_project",
		DisplayName: "Update Project",
		Description: "Update properties of an existing project",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"project_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the project to update",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "New name for the project",
				},
				"color": map[string]interface{}{
					"type":        "string",
					"description": "New color hex code",
				},
				"is_favorite": map[string]interface{}{
					"type":        "boolean",
					"description": "Update favorite status",
				},
			},
			"required": []string{"project_id"},
		},
		Execute: func(ctx context.Context, userID string, args map[string]interface{}) (string, error) {
			req := &models.UpdateProjectRequest{}
			if v, ok := args["name"].(string); ok {
				req.Name = &v
			}
			if v, ok := args["color"].(string); ok {
				req.Color = &v
			}
			if v, ok := args["is_favorite"].(bool); ok {
				req.IsFavorite = &v
			}

			if _, err := projects.Update(ctx, userID, stringArg(args, "project_id"), req); err != nil {
				return failure("update project", err)
			}

			return result(map[string]interface{}{
				"success": true,
				"message": "Project updated successfully",
			})
		},
	})

	r.Register(&Tool{
		Name:        "delete_project",
		DisplayName: "Delete Project",
		Description: "Delete a project and all its tasks. Should confirm with user before calling.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"project_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the project to delete",
				},
			},
			"required": []string{"project_id"},
		},
		Execute: func(ctx context.Context, userID string, args map[string]interface{}) (string, error) {
			if err := projects.Delete(ctx, userID, stringArg(args, "project_id")); err != nil {
				return failure("delete project", err)
			}

			return result(map[string]interface{}{
				"success": true,
				"message": "Project and all its tasks deleted successfully",
			})
		},
	})

	r.Register(&Tool{
		Name:        "get_project_tasks",
		DisplayName: "Get Project Tasks",
		Description: "Get all tasks in a specific project",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"project_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the project",
				},
			},
			"required": []string{"project_id"},
		},
		Execute: func(ctx context.Context, userID string, args map[string]interface{}) (string, error) {
			list, err := tasks.ListByProject(ctx, userID, stringArg(args, "project_id"))
			if err != nil {
				return failure("get project tasks", err)
			}

			return result(map[string]interface{}{
				"success": true,
				"tasks":   summarizeTasks(list),
				"count":   len(list),
			})
		},
	})
}

package tools

import (
	"context"
	"fmt"
	"time"

	"todoflow/internal/models"
	"todoflow/internal/services"
)

// taskSummary is the task shape returned by tool results
type taskSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	ProjectID   string `json:"project_id"`
	DueDate     string `json:"due_date,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func summarizeTasks(tasks []models.Task) []taskSummary {
	out := make([]taskSummary, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskSummary{
			ID:          t.ID.Hex(),
			Title:       t.Title,
			Description: t.Description,
			Status:      string(t.Status),
			Priority:    string(t.Priority),
			ProjectID:   t.ProjectID.Hex(),
			DueDate:     formatDueDate(t.DueDate),
			CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

func registerTaskTools(r *Registry, tasks *services.TaskService) {
	r.Register(&Tool{
		Name:        "create_task",
		DisplayName: "Create Task",
		Description: "Create a new task with a title, optional description, priority, due date, and project assignment",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "The title of the task",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "Optional description of the task",
				},
				"priority": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"p1", "p2", "p3", "p4"},
					"description": "Priority level: p1 (high/red), p2 (medium/orange), p3 (normal/blue), p4 (low/gray)",
				},
				"project_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the project to assign this task to",
				},
				"due_date": map[string]interface{}{
					"type":        "string",
					"description": "Due date in ISO format (YYYY-MM-DD) or relative like 'today', 'tomorrow'",
				},
			},
			"required": []string{"title", "project_id"},
		},
		Execute: func(ctx context.Context, userID string, args map[string]interface{}) (string, error) {
			dueDate, err := parseDueDate(stringArg(args, "due_date"), time.Now())
			if err != nil {
				return failure("create task", err)
			}

			req := &models.CreateTaskRequest{
				Title:       stringArg(args, "title"),
				Description: stringArg(args, "description"),
				Priority:    models.Priority(stringArg(args, "priority")),
				ProjectID:   stringArg(args, "project_id"),
				DueDate:     dueDate,
			}

			task, err := tasks.Create(ctx, userID, req)
			if err != nil {
				return failure("create task", err)
			}

			return result(map[string]interface{}{
				"success": true,
				"message": fmt.Sprintf("Task %q created successfully", task.Title),
				"task_id": task.ID.Hex(),
			})
		},
	})

	r.Register(&Tool{
		Name:        "list_tasks",
		DisplayName: "List Tasks",
		Description: "List tasks with optional filters by project, status (active/completed), priority, or view",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"project_id": map[string]interface{}{
					"type":        "string",
					"description": "Filter by project ID",
				},
				"status": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"active", "completed", "all"},
					"description": "Filter by task status (default active)",
				},
				"priority": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"p1", "p2", "p3", "p4"},
					"description": "Filter by priority level",
				},
				"view": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"today", "upcoming", "all"},
					"description": "Special views: 'today' for today's tasks, 'upcoming' for the next week",
				},
			},
		},
		Execute: func(ctx context.Context, userID string, args map[string]interface{}) (string, error) {
			var (
				list []models.Task
				err  error
			)

			switch {
			case stringArg(args, "view") == "today":
				list, err = tasks.ListToday(ctx, userID, time.Now())
			case stringArg(args, "view") == "upcoming":
				list, err = tasks.ListUpcoming(ctx, userID, time.Now())
			case stringArg(args, "project_id") != "":
				list, err = tasks.ListByProject(ctx, userID, stringArg(args, "project_id"))
			case stringArg(args, "status") == "completed":
				list, err = tasks.ListCompleted(ctx, userID)
			case stringArg(args, "status") == "all":
				list, err = tasks.List(ctx, userID)
			default:
				list, err = tasks.ListActive(ctx, userID)
			}
			if err != nil {
				return failure("list tasks", err)
			}

			if priority := stringArg(args, "priority"); priority != "" {
				filtered := list[:0]
				for _, t := range list {
					if string(t.Priority) == priority {
						filtered = append(filtered, t)
					}
				}
				list = filtered
			}

			return result(map[string]interface{}{
				"success": true,
				"tasks":   summarizeTasks(list),
				"count":   len(list),
			})
		},
	})

	r.Register(&Tool{
		Name:        "update_task",
		DisplayName: "Update Task",
		Description: "Update properties of an existing task",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"task_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the task to update",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "New title for the task",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "New description for the task",
				},
				"priority": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"p1", "p2", "p3", "p4"},
					"description": "New priority level",
				},
				"due_date": map[string]interface{}{
					"type":        "string",
					"description": "New due date in ISO format or relative date",
				},
			},
			"required": []string{"task_id"},
		},
		Execute: func(ctx context.Context, userID string, args map[string]interface{}) (string, error) {
			req := &models.UpdateTaskRequest{}
			if v, ok := args["title"].(string); ok {
				req.Title = &v
			}
			if v, ok := args["description"].(string); ok {
				req.Description = &v
			}
			if v, ok := args["priority"].(string); ok {
				p := models.Priority(v)
				req.Priority = &p
			}
			if v, ok := args["due_date"].(string); ok && v != "" {
				dueDate, err := parseDueDate(v, time.Now())
				if err != nil {
					return failure("update task", err)
				}
				req.DueDate = dueDate
			}

			if _, err := tasks.Update(ctx, userID, stringArg(args, "task_id"), req); err != nil {
				return failure("update task", err)
			}

			return result(map[string]interface{}{
				"success": true,
				"message": "Task updated successfully",
			})
		},
	})

	r.Register(&Tool{
		Name:        "complete_task",
		DisplayName: "Complete Task",
		Description: "Mark a task as complete or toggle its completion status",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"task_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the task to complete",
				},
			},
			"required": []string{"task_id"},
		},
		Execute: func(ctx context.Context, userID string, args map[string]interface{}) (string, error) {
			task, err := tasks.ToggleComplete(ctx, userID, stringArg(args, "task_id"))
			if err != nil {
				return failure("complete task", err)
			}

			return result(map[string]interface{}{
				"success": true,
				"message": "Task completion toggled",
				"status":  string(task.Status),
			})
		},
	})

	r.Register(&Tool{
		Name:        "delete_task",
		DisplayName: "Delete Task",
		Description: "Delete a task permanently. Should confirm with user before calling.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"task_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the task to delete",
				},
			},
			"required": []string{"task_id"},
		},
		Execute: func(ctx context.Context, userID string, args map[string]interface{}) (string, error) {
			if err := tasks.Delete(ctx, userID, stringArg(args, "task_id")); err != nil {
				return failure("delete task", err)
			}

			return result(map[string]interface{}{
				"success": true,
				"message": "Task deleted successfully",
			})
		},
	})
}

package tools

import (
	"context"
	"fmt"

	"todoflow/internal/models"
	"todoflow/internal/services"
)

func registerLabelTools(r *Registry, labels *services.LabelService) {
	r.Register(&Tool{
		Name:        "create_label",
		DisplayName: "Create Label",
		Description: "Create a new label with a name and color",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "The name of the label",
				},
				"color": map[string]interface{}{
					"type":        "string",
					"description": "Color hex code for the label (e.g., '#ff0000')",
				},
			},
			"required": []string{"name", "color"},
		},
		Execute: func(ctx context.Context, userID string, args map[string]interface{}) (string, error) {
			req := &models.CreateLabelRequest{
				Name:  stringArg(args, "name"),
				Color: stringArg(args, "color"),
			}

			label, err := labels.Create(ctx, userID, req)
			if err != nil {
				return failure("create label", err)
			}

			return result(map[string]interface{}{
				"success":  true,
				"message":  fmt.Sprintf("Label %q created successfully", label.Name),
				"label_id": label.ID.Hex(),
			})
		},
	})

	r.Register(&Tool{
		Name:        "list_labels",
		DisplayName: "List Labels",
		Description: "List all labels",
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Execute: func(ctx context.Context, userID string, args map[string]interface{}) (string, error) {
			list, err := labels.List(ctx, userID)
			if err != nil {
				return failure("list labels", err)
			}

			summaries := make([]map[string]interface{}, 0, len(list))
			for _, l := range list {
				summaries = append(summaries, map[string]interface{}{
					"id":    l.ID.Hex(),
					"name":  l.Name,
					"color": l.Color,
				})
			}

			return result(map[string]interface{}{
				"success": true,
				"labels":  summaries,
				"count":   len(summaries),
			})
		},
	})

	r.Register(&Tool{
		Name:        "update_label",
		DisplayName: "Update Label",
		Description: "Update properties of an existing label",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"label_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the label to update",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "New name for the label",
				},
				"color": map[string]interface{}{
					"type":        "string",
					"description": "New color hex code",
				},
			},
			"required": []string{"label_id"},
		},
		Execute: func(ctx context.Context, userID string, args map[string]interface{}) (string, error) {
			req := &models.UpdateLabelRequest{}
			if v, ok := args["name"].(string); ok {
				req.Name = &v
			}
			if v, ok := args["color"].(string); ok {
				req.Color = &v
			}

			if _, err := labels.Update(ctx, userID, stringArg(args, "label_id"), req); err != nil {
				return failure("update label", err)
			}

			return result(map[string]interface{}{
				"success": true,
				"message": "Label updated successfully",
			})
		},
	})

	r.Register(&Tool{
		Name:        "delete_label",
		DisplayName: "Delete Label",
		Description: "Delete a label. It will be removed from all tasks that use it.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"label_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the label to delete",
				},
			},
			"required": []string{"label_id"},
		},
		Execute: func(ctx context.Context, userID string, args map[string]interface{}) (string, error) {
			if err := labels.Delete(ctx, userID, stringArg(args, "label_id")); err != nil {
				return failure("delete label", err)
			}

			return result(map[string]interface{}{
				"success": true,
				"message": "Label deleted successfully",
			})
		},
	})
}

package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"todoflow/internal/database"
	"todoflow/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskService handles task operations with MongoDB.
// Every operation takes the caller's user id explicitly; filters always
// include it, so cross-tenant reads are structurally impossible.
type TaskService struct {
	db       *database.MongoDB
	tasks    *mongo.Collection
	projects *mongo.Collection
}

// NewTaskService creates a new task service
func NewTaskService(db *database.MongoDB) *TaskService {
	return &TaskService{
		db:       db,
		tasks:    db.Collection(database.CollectionTasks),
		projects: db.Collection(database.CollectionProjects),
	}
}

// Create validates the request, checks project ownership, assigns the next
// order value and inserts the task. Status always starts active.
func (s *TaskService) Create(ctx context.Context, userID string, req *models.CreateTaskRequest) (*models.Task, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityP4
	}
	if !models.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, req.Priority)
	}

	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid project id", ErrValidation)
	}

	// Cross-entity invariant: the task's project must exist and belong to
	// the caller. Enforced here, not by the database.
	var project models.Project
	err = s.projects.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("project %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up project: %w", err)
	}
	if project.UserID != userID {
		return nil, ErrAccessDenied
	}

	labels, err := parseLabelIDs(req.Labels)
	if err != nil {
		return nil, err
	}

	order, err := nextOrder(ctx, s.tasks, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task := &models.Task{
		UserID:    userID,
		Title:     title,
		Status:    models.TaskStatusActive,
		Priority:  priority,
		ProjectID: projectID,
		DueDate:   req.DueDate,
		Labels:    labels,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Description != "" {
		task.Description = req.Description
	}

	result, err := s.tasks.InsertOne(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)

	return task, nil
}

// Get retrieves a task by id. A task owned by another user is reported as
// not found, never leaked.
func (s *TaskService) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	taskID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid task id", ErrValidation)
	}

	var task models.Task
	err = s.tasks.FindOne(ctx, bson.M{"_id": taskID, "userId": userID}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// Update applies a partial patch. Only non-nil fields are written; status,
// order and completedAt are never touched by this operation.
func (s *TaskService) Update(ctx context.Context, userID, id string, req *models.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	patch, err := buildTaskPatch(req)
	if err != nil {
		return nil, err
	}
	patch["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Task
	err = s.tasks.FindOneAndUpdate(ctx, bson.M{"_id": task.ID}, bson.M{"$set": patch}, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return &updated, nil
}

// ToggleComplete flips status between active and completed, maintaining the
// invariant that completedAt is set exactly when status is completed.
func (s *TaskService) ToggleComplete(ctx context.Context, userID, id string) (*models.Task, error) {
	task, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	newStatus, completedAt := toggleTransition(task.Status, now)

	update := bson.M{
		"$set": bson.M{
			"status":    newStatus,
			"updatedAt": now,
		},
	}
	if completedAt != nil {
		update["$set"].(bson.M)["completedAt"] = *completedAt
	} else {
		update["$unset"] = bson.M{"completedAt": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Task
	err = s.tasks.FindOneAndUpdate(ctx, bson.M{"_id": task.ID}, update, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}
	return &updated, nil
}

// Delete removes a task. No cascade: tasks have no dependents.
func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	task, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if _, err := s.tasks.DeleteOne(ctx, bson.M{"_id": task.ID}); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// Reorder overwrites a single task's order value. Siblings are not
// renumbered; callers supply a consistent set of positions themselves.
func (s *TaskService) Reorder(ctx context.Context, userID, id string, newOrder int64) (*models.Task, error) {
	task, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Task
	err = s.tasks.FindOneAndUpdate(ctx, bson.M{"_id": task.ID},
		bson.M{"$set": bson.M{"order": newOrder, "updatedAt": time.Now()}}, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to reorder task: %w", err)
	}
	return &updated, nil
}

// BulkReorder applies a set of order rewrites after a drag-and-drop. Items
// referencing a missing or foreign task are skipped and reported back; one
// bad item never fails the whole batch. The UI derives the payload from a
// freshly-fetched list, so skips only occur on fetch/reorder races.
func (s *TaskService) BulkReorder(ctx context.Context, userID string, items []models.BulkReorderItem) (*models.BulkReorderResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	resp := &models.BulkReorderResponse{}
	now := time.Now()

	for _, item := range items {
		taskID, err := primitive.ObjectIDFromHex(item.ID)
		if err != nil {
			resp.Skipped = append(resp.Skipped, item.ID)
			continue
		}

		result, err := s.tasks.UpdateOne(ctx,
			bson.M{"_id": taskID, "userId": userID},
			bson.M{"$set": bson.M{"order": item.NewOrder, "updatedAt": now}})
		if err != nil {
			log.Printf("⚠️  Bulk reorder: failed to update task %s: %v", item.ID, err)
			resp.Skipped = append(resp.Skipped, item.ID)
			continue
		}
		if result.MatchedCount == 0 {
			resp.Skipped = append(resp.Skipped, item.ID)
			continue
		}
		resp.Updated++
	}

	return resp, nil
}

// List returns all of the owner's tasks in ascending order.
// An anonymous caller gets an empty list, not an error.
func (s *TaskService) List(ctx context.Context, userID string) ([]models.Task, error) {
	return s.listTasks(ctx, userID, bson.M{})
}

// ListActive returns the owner's active tasks in ascending order
func (s *TaskService) ListActive(ctx context.Context, userID string) ([]models.Task, error) {
	return s.listTasks(ctx, userID, bson.M{"status": models.TaskStatusActive})
}

// ListCompleted returns the owner's completed tasks in ascending order
func (s *TaskService) ListCompleted(ctx context.Context, userID string) ([]models.Task, error) {
	return s.listTasks(ctx, userID, bson.M{"status": models.TaskStatusCompleted})
}

// ListByProject returns the owner's tasks in a project, ascending by order.
// No date filtering.
func (s *TaskService) ListByProject(ctx context.Context, userID, projectID string) ([]models.Task, error) {
	if userID == "" {
		return []models.Task{}, nil
	}

	pid, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid project id", ErrValidation)
	}
	return s.listTasks(ctx, userID, bson.M{"projectId": pid})
}

// ListToday returns the owner's active tasks due today, relative to now
func (s *TaskService) ListToday(ctx context.Context, userID string, now time.Time) ([]models.Task, error) {
	tasks, err := s.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FilterToday(tasks, now), nil
}

// ListOverdue returns the owner's active tasks due before today
func (s *TaskService) ListOverdue(ctx context.Context, userID string, now time.Time) ([]models.Task, error) {
	tasks, err := s.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FilterOverdue(tasks, now), nil
}

// ListUpcoming returns the owner's active tasks due in the 8-day window
// starting today, relative to now
func (s *TaskService) ListUpcoming(ctx context.Context, userID string, now time.Time) ([]models.Task, error) {
	tasks, err := s.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FilterUpcoming(tasks, now), nil
}

// listTasks runs an owner-scoped find with the extra filter merged in,
// sorted ascending by order
func (s *TaskService) listTasks(ctx context.Context, userID string, extra bson.M) ([]models.Task, error) {
	if userID == "" {
		return []models.Task{}, nil
	}

	filter := bson.M{"userId": userID}
	for k, v := range extra {
		filter[k] = v
	}

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := s.tasks.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// getOwned loads a task for mutation: missing ids fail with ErrNotFound,
// foreign ownership with ErrAccessDenied.
func (s *TaskService) getOwned(ctx context.Context, userID, id string) (*models.Task, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	taskID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid task id", ErrValidation)
	}

	var task models.Task
	err = s.tasks.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task.UserID != userID {
		return nil, ErrAccessDenied
	}
	return &task, nil
}

// toggleTransition computes the status flip and its completedAt bookkeeping:
// completedAt is non-nil iff the new status is completed.
func toggleTransition(status models.TaskStatus, now time.Time) (models.TaskStatus, *int64) {
	if status == models.TaskStatusActive {
		completedAt := now.UnixMilli()
		return models.TaskStatusCompleted, &completedAt
	}
	return models.TaskStatusActive, nil
}

// buildTaskPatch turns a partial update request into a $set document
// containing only the provided fields
func buildTaskPatch(req *models.UpdateTaskRequest) (bson.M, error) {
	patch := bson.M{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", ErrValidation)
		}
		patch["title"] = title
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.Priority != nil {
		if !models.ValidPriority(*req.Priority) {
			return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, *req.Priority)
		}
		patch["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		patch["dueDate"] = *req.DueDate
	}
	if req.Labels != nil {
		labels, err := parseLabelIDs(*req.Labels)
		if err != nil {
			return nil, err
		}
		patch["labels"] = labels
	}
	return patch, nil
}

// parseLabelIDs converts hex label ids from a request into ObjectIDs
func parseLabelIDs(ids []string) ([]primitive.ObjectID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	labels := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		labelID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid label id %q", ErrValidation, id)
		}
		labels = append(labels, labelID)
	}
	return labels, nil
}

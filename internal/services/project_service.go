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

// ProjectService handles project operations with MongoDB
type ProjectService struct {
	db       *database.MongoDB
	projects *mongo.Collection
	tasks    *mongo.Collection
}

// NewProjectService creates a new project service
func NewProjectService(db *database.MongoDB) *ProjectService {
	return &ProjectService{
		db:       db,
		projects: db.Collection(database.CollectionProjects),
		tasks:    db.Collection(database.CollectionTasks),
	}
}

// Create inserts a project at the end of the owner's list
func (s *ProjectService) Create(ctx context.Context, userID string, req *models.CreateProjectRequest) (*models.Project, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	order, err := nextOrder(ctx, s.projects, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	project := &models.Project{
		UserID:     userID,
		Name:       name,
		Color:      req.Color,
		IsFavorite: req.IsFavorite,
		Order:      order,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	result, err := s.projects.InsertOne(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	project.ID = result.InsertedID.(primitive.ObjectID)

	return project, nil
}

// Get retrieves a project by id, owner-scoped
func (s *ProjectService) Get(ctx context.Context, userID, id string) (*models.Project, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	projectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid project id", ErrValidation)
	}

	var project models.Project
	err = s.projects.FindOne(ctx, bson.M{"_id": projectID, "userId": userID}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// Update applies a partial patch to a project
func (s *ProjectService) Update(ctx context.Context, userID, id string, req *models.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	patch := bson.M{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrValidation)
		}
		patch["name"] = name
	}
	if req.Color != nil {
		patch["color"] = *req.Color
	}
	if req.IsFavorite != nil {
		patch["isFavorite"] = *req.IsFavorite
	}
	if req.ShowCompletedTasks != nil {
		patch["showCompletedTasks"] = *req.ShowCompletedTasks
	}
	patch["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Project
	err = s.projects.FindOneAndUpdate(ctx, bson.M{"_id": project.ID}, bson.M{"$set": patch}, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return &updated, nil
}

// Delete removes a project and cascades to all of the owner's tasks in it.
// The cascade is a sequence of independent deletes, not a transaction: an
// interruption partway leaves orphaned tasks (documented weak point).
func (s *ProjectService) Delete(ctx context.Context, userID, id string) error {
	project, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	cursor, err := s.tasks.Find(ctx, bson.M{"userId": userID, "projectId": project.ID})
	if err != nil {
		return fmt.Errorf("failed to list project tasks: %w", err)
	}
	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return fmt.Errorf("failed to decode project tasks: %w", err)
	}

	for _, task := range tasks {
		if _, err := s.tasks.DeleteOne(ctx, bson.M{"_id": task.ID}); err != nil {
			return fmt.Errorf("failed to delete task %s during cascade: %w", task.ID.Hex(), err)
		}
	}

	if _, err := s.projects.DeleteOne(ctx, bson.M{"_id": project.ID}); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	log.Printf("🗑️  Deleted project %s and %d tasks (user: %s)", project.ID.Hex(), len(tasks), userID)
	return nil
}

// Reorder overwrites a single project's order value
func (s *ProjectService) Reorder(ctx context.Context, userID, id string, newOrder int64) (*models.Project, error) {
	project, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Project
	err = s.projects.FindOneAndUpdate(ctx, bson.M{"_id": project.ID},
		bson.M{"$set": bson.M{"order": newOrder, "updatedAt": time.Now()}}, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to reorder project: %w", err)
	}
	return &updated, nil
}

// List returns the owner's projects in ascending order.
// An anonymous caller gets an empty list.
func (s *ProjectService) List(ctx context.Context, userID string) ([]models.Project, error) {
	if userID == "" {
		return []models.Project{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := s.projects.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}

// ListWithTaskCounts annotates each project with total/active/completed
// task counts for the browse screen
func (s *ProjectService) ListWithTaskCounts(ctx context.Context, userID string) ([]models.ProjectWithCounts, error) {
	projects, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]models.ProjectWithCounts, 0, len(projects))
	for _, project := range projects {
		filter := bson.M{"userId": userID, "projectId": project.ID}

		total, err := s.tasks.CountDocuments(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to count tasks: %w", err)
		}

		filter["status"] = models.TaskStatusActive
		active, err := s.tasks.CountDocuments(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to count active tasks: %w", err)
		}

		result = append(result, models.ProjectWithCounts{
			Project:        project,
			TotalTasks:     total,
			ActiveTasks:    active,
			CompletedTasks: total - active,
		})
	}
	return result, nil
}

// getOwned loads a project for mutation: missing ids fail with ErrNotFound,
// foreign ownership with ErrAccessDenied.
func (s *ProjectService) getOwned(ctx context.Context, userID, id string) (*models.Project, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	projectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid project id", ErrValidation)
	}

	var project models.Project
	err = s.projects.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project.UserID != userID {
		return nil, ErrAccessDenied
	}
	return &project, nil
}

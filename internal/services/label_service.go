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

// LabelService handles label operations with MongoDB
type LabelService struct {
	db     *database.MongoDB
	labels *mongo.Collection
	tasks  *mongo.Collection
}

// NewLabelService creates a new label service
func NewLabelService(db *database.MongoDB) *LabelService {
	return &LabelService{
		db:     db,
		labels: db.Collection(database.CollectionLabels),
		tasks:  db.Collection(database.CollectionTasks),
	}
}

// Create inserts a new label
func (s *LabelService) Create(ctx context.Context, userID string, req *models.CreateLabelRequest) (*models.Label, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	now := time.Now()
	label := &models.Label{
		UserID:    userID,
		Name:      name,
		Color:     req.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := s.labels.InsertOne(ctx, label)
	if err != nil {
		return nil, fmt.Errorf("failed to create label: %w", err)
	}
	label.ID = result.InsertedID.(primitive.ObjectID)

	return label, nil
}

// Get retrieves a label by id, owner-scoped
func (s *LabelService) Get(ctx context.Context, userID, id string) (*models.Label, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	labelID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid label id", ErrValidation)
	}

	var label models.Label
	err = s.labels.FindOne(ctx, bson.M{"_id": labelID, "userId": userID}).Decode(&label)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get label: %w", err)
	}
	return &label, nil
}

// Update applies a partial patch to a label
func (s *LabelService) Update(ctx context.Context, userID, id string, req *models.UpdateLabelRequest) (*models.Label, error) {
	label, err := s.getOwned(ctx, userID, id)
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
	patch["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Label
	err = s.labels.FindOneAndUpdate(ctx, bson.M{"_id": label.ID}, bson.M{"$set": patch}, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update label: %w", err)
	}
	return &updated, nil
}

// Delete removes a label after fanning out across the owner's tasks to pull
// the label id from their label sets. The fan-out is owner-scoped via the
// userId+labels index; tasks of other users are never touched.
func (s *LabelService) Delete(ctx context.Context, userID, id string) error {
	label, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	result, err := s.tasks.UpdateMany(ctx,
		bson.M{"userId": userID, "labels": label.ID},
		bson.M{
			"$pull": bson.M{"labels": label.ID},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		return fmt.Errorf("failed to remove label from tasks: %w", err)
	}

	if _, err := s.labels.DeleteOne(ctx, bson.M{"_id": label.ID}); err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}

	log.Printf("🗑️  Deleted label %s, removed from %d tasks (user: %s)", label.ID.Hex(), result.ModifiedCount, userID)
	return nil
}

// List returns the owner's labels in creation order.
// An anonymous caller gets an empty list.
func (s *LabelService) List(ctx context.Context, userID string) ([]models.Label, error) {
	if userID == "" {
		return []models.Label{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.labels.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	defer cursor.Close(ctx)

	labels := []models.Label{}
	if err := cursor.All(ctx, &labels); err != nil {
		return nil, fmt.Errorf("failed to decode labels: %w", err)
	}
	return labels, nil
}

// getOwned loads a label for mutation: missing ids fail with ErrNotFound,
// foreign ownership with ErrAccessDenied.
func (s *LabelService) getOwned(ctx context.Context, userID, id string) (*models.Label, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	labelID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid label id", ErrValidation)
	}

	var label models.Label
	err = s.labels.FindOne(ctx, bson.M{"_id": labelID}).Decode(&label)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get label: %w", err)
	}
	if label.UserID != userID {
		return nil, ErrAccessDenied
	}
	return &label, nil
}

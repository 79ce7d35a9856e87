package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"todoflow/internal/database"
	"todoflow/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserService handles user accounts with MongoDB. The task/project/label
// services only ever see a user id; this service exists for the auth
// handlers.
type UserService struct {
	db         *database.MongoDB
	collection *mongo.Collection
}

// NewUserService creates a new user service
func NewUserService(db *database.MongoDB) *UserService {
	return &UserService{
		db:         db,
		collection: db.Collection(database.CollectionUsers),
	}
}

// Create inserts a new user. Email uniqueness is enforced by the index.
func (s *UserService) Create(ctx context.Context, email, name, passwordHash string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	result, err := s.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: email already registered", ErrValidation)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	return user, nil
}

// GetByEmail retrieves a user by their email address
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// GetByID retrieves a user by their id
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	var user models.User
	err = s.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// TouchLastLogin records a successful login
func (s *UserService) TouchLastLogin(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"lastLoginAt": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

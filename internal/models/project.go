package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a named, colored grouping of tasks
type Project struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID             string             `bson:"userId" json:"user_id"`
	Name               string             `bson:"name" json:"name"`
	Color              string             `bson:"color" json:"color"`
	IsFavorite         bool               `bson:"isFavorite" json:"is_favorite"`
	ShowCompletedTasks bool               `bson:"showCompletedTasks,omitempty" json:"show_completed_tasks,omitempty"`
	Order              int64              `bson:"order" json:"order"`
	CreatedAt          time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updated_at"`
}

// CreateProjectRequest is the request body for creating a project
type CreateProjectRequest struct {
	Name       string `json:"name"`
	Color      string `json:"color"`
	IsFavorite bool   `json:"is_favorite"`
}

// UpdateProjectRequest is a partial patch: nil fields are left untouched
type UpdateProjectRequest struct {
	Name               *string `json:"name,omitempty"`
	Color              *string `json:"color,omitempty"`
	IsFavorite         *bool   `json:"is_favorite,omitempty"`
	ShowCompletedTasks *bool   `json:"show_completed_tasks,omitempty"`
}

// ProjectWithCounts annotates a project with its task counts for list views
type ProjectWithCounts struct {
	Project        `bson:",inline"`
	TotalTasks     int64 `json:"total_tasks"`
	ActiveTasks    int64 `json:"active_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
}

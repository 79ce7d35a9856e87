package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus is the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
)

// Priority levels, p1 is highest
type Priority string

const (
	PriorityP1 Priority = "p1"
	PriorityP2 Priority = "p2"
	PriorityP3 Priority = "p3"
	PriorityP4 Priority = "p4"
)

// ValidPriority reports whether p is one of the four known levels
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityP4:
		return true
	}
	return false
}

// Rank returns the numeric rank of a priority (1 = highest) for sorting
func (p Priority) Rank() int {
	switch p {
	case PriorityP1:
		return 1
	case PriorityP2:
		return 2
	case PriorityP3:
		return 3
	case PriorityP4:
		return 4
	}
	return 5
}

// Task represents a unit of work owned by a user.
// DueDate and CompletedAt are stored as epoch milliseconds to match the
// mobile client's wire format.
type Task struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID      string               `bson:"userId" json:"user_id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Status      TaskStatus           `bson:"status" json:"status"`
	Priority    Priority             `bson:"priority" json:"priority"`
	ProjectID   primitive.ObjectID   `bson:"projectId" json:"project_id"`
	DueDate     *int64               `bson:"dueDate,omitempty" json:"due_date,omitempty"`
	CompletedAt *int64               `bson:"completedAt,omitempty" json:"completed_at,omitempty"`
	Labels      []primitive.ObjectID `bson:"labels,omitempty" json:"labels,omitempty"`
	Order       int64                `bson:"order" json:"order"`
	CreatedAt   time.Time            `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updated_at"`
}

// CreateTaskRequest is the request body for creating a task
type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    Priority `json:"priority"`
	ProjectID   string   `json:"project_id"`
	DueDate     *int64   `json:"due_date,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

// UpdateTaskRequest is a partial patch: nil fields are left untouched.
// Status, order and completedAt are never writable through this request.
type UpdateTaskRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	DueDate     *int64    `json:"due_date,omitempty"`
	Labels      *[]string `json:"labels,omitempty"`
}

// ReorderRequest assigns a single new order value
type ReorderRequest struct {
	NewOrder int64 `json:"new_order"`
}

// BulkReorderItem pairs an entity id with its new order value
type BulkReorderItem struct {
	ID       string `json:"id"`
	NewOrder int64  `json:"new_order"`
}

// BulkReorderRequest rewrites order values after a drag-and-drop
type BulkReorderRequest struct {
	Items []BulkReorderItem `json:"items"`
}

// BulkReorderResponse reports ids that were skipped (missing or not owned
// by the caller). Skips are expected to be empty in practice; they exist to
// tolerate races between fetch and reorder.
type BulkReorderResponse struct {
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped,omitempty"`
}

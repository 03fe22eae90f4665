package models

import "time"

// Task is a to-do item owned by exactly one user. UserID is set at creation
// and never changes.
type Task struct {
	ID          string     `json:"id" bson:"_id"`
	UserID      string     `json:"userId" bson:"user_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	Completed   bool       `json:"completed" bson:"completed"`
	Deadline    *time.Time `json:"deadline" bson:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updated_at"`
}

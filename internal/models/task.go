package models

import "time"

// Task represents a single to-do item owned by one user.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	TaskName    string    `json:"taskName"`
	Description string    `json:"description,omitempty"`
	DueDate     time.Time `json:"dueDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

package entities

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents task status
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// OpenTaskStatuses are the non-terminal statuses that block team deactivation.
var OpenTaskStatuses = []TaskStatus{TaskStatusPending, TaskStatusInProgress}

// IsOpen reports whether the status is non-terminal.
func (s TaskStatus) IsOpen() bool {
	for _, open := range OpenTaskStatuses {
		if s == open {
			return true
		}
	}
	return false
}

// Task is only read by count from this service.
type Task struct {
	ID        uuid.UUID  `json:"id"`
	TeamID    uuid.UUID  `json:"teamId"`
	Title     string     `json:"title"`
	Status    TaskStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Statuses lists every value the status enum accepts on the wire.
var Statuses = []string{StatusPending, StatusInProgress, StatusCompleted}

type Task struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"ownerId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	IsDeleted   bool       `json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type TaskFilter struct {
	Status *string
	Search *string
}

// TaskPatch carries the whitelisted partial-update fields; nil means
// "leave as is".
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     *time.Time
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.DueDate == nil
}

// TaskPage is one page of a task listing plus its pagination meta.
type TaskPage struct {
	Tasks      []Task
	Count      int
	Total      int
	Page       int
	TotalPages int
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/movsyannikov/tasktracker/internal/model"
	"github.com/movsyannikov/tasktracker/internal/repo"
)

var (
	ErrEmptyPatch           = errors.New("no recognized fields to update")
	ErrConfirmationRequired = errors.New("confirmation required")
)

const DefaultPageSize = 10

type TaskService struct {
	repo        repo.TaskRepository
	maxPageSize int
}

func NewTaskService(repo repo.TaskRepository, maxPageSize int) *TaskService {
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &TaskService{repo: repo, maxPageSize: maxPageSize}
}

// List returns one page of the owner's tasks, newest first. The limit is
// clamped to the configured maximum and a page past the end comes back
// empty with the same totals, never as an error.
func (s *TaskService) List(ctx context.Context, ownerID uuid.UUID, filter model.TaskFilter, page, limit int) (model.TaskPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	tasks, total, err := s.repo.List(ctx, ownerID, filter, limit, (page-1)*limit)
	if err != nil {
		return model.TaskPage{}, err
	}

	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1 // so clients never divide by zero
	}

	return model.TaskPage{
		Tasks:      tasks,
		Count:      len(tasks),
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, id uuid.UUID) (model.Task, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, title, description, status string, dueDate *time.Time) (model.Task, error) {
	if status == "" {
		status = model.StatusPending
	}
	return s.repo.Create(ctx, model.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      status,
		DueDate:     dueDate,
	})
}

// CreateQuick persists a bare task with status forced to in-progress,
// whatever the caller supplied.
func (s *TaskService) CreateQuick(ctx context.Context, ownerID uuid.UUID, title string) (model.Task, error) {
	return s.repo.Create(ctx, model.Task{
		OwnerID: ownerID,
		Title:   title,
		Status:  model.StatusInProgress,
	})
}

func (s *TaskService) Replace(ctx context.Context, ownerID, id uuid.UUID, title, description, status string, dueDate *time.Time) (model.Task, error) {
	return s.repo.Replace(ctx, model.Task{
		ID:          id,
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      status,
		DueDate:     dueDate,
	})
}

// Patch applies the whitelisted partial update. An empty effective field
// set is a validation error, not a no-op success.
func (s *TaskService) Patch(ctx context.Context, ownerID, id uuid.UUID, patch model.TaskPatch) (model.Task, error) {
	if patch.IsEmpty() {
		return model.Task{}, ErrEmptyPatch
	}
	return s.repo.Patch(ctx, ownerID, id, patch)
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, ownerID, id)
}

// DeleteByStatus bulk-marks matching tasks deleted. It refuses to run
// without the explicit confirmation flag.
func (s *TaskService) DeleteByStatus(ctx context.Context, ownerID uuid.UUID, status string, confirmed bool) (int64, error) {
	if !confirmed {
		return 0, ErrConfirmationRequired
	}
	return s.repo.SoftDeleteByStatus(ctx, ownerID, status)
}

func (s *TaskService) CompleteAll(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return s.repo.CompleteAll(ctx, ownerID)
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/movsyannikov/tasktracker/internal/model"
	"github.com/movsyannikov/tasktracker/internal/schema"
)

// TaskService is the slice of the service layer the task handlers need.
type TaskService interface {
	List(ctx context.Context, ownerID uuid.UUID, filter model.TaskFilter, page, limit int) (model.TaskPage, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (model.Task, error)
	Create(ctx context.Context, ownerID uuid.UUID, title, description, status string, dueDate *time.Time) (model.Task, error)
	CreateQuick(ctx context.Context, ownerID uuid.UUID, title string) (model.Task, error)
	Replace(ctx context.Context, ownerID, id uuid.UUID, title, description, status string, dueDate *time.Time) (model.Task, error)
	Patch(ctx context.Context, ownerID, id uuid.UUID, patch model.TaskPatch) (model.Task, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	DeleteByStatus(ctx context.Context, ownerID uuid.UUID, status string, confirmed bool) (int64, error)
	CompleteAll(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type TaskHandler struct {
	service TaskService
}

func NewTaskHandler(service TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type pageMeta struct {
	Count      int `json:"count"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

type modifiedResponse struct {
	ModifiedCount int64 `json:"modifiedCount"`
}

func (h *TaskHandler) List(r *http.Request, in schema.Values) (int, any, any, error) {
	user, err := identity(r)
	if err != nil {
		return 0, nil, nil, err
	}

	filter := model.TaskFilter{
		Status: in.StringPtr("status"),
		Search: in.StringPtr("search"),
	}

	page, err := h.service.List(r.Context(), user.ID, filter,
		in.IntOr("page", 1), in.IntOr("limit", 0))
	if err != nil {
		return 0, nil, nil, err
	}

	return http.StatusOK, page.Tasks, pageMeta{
		Count:      page.Count,
		Total:      page.Total,
		Page:       page.Page,
		TotalPages: page.TotalPages,
	}, nil
}

func (h *TaskHandler) Get(r *http.Request, in schema.Values) (int, any, any, error) {
	user, err := identity(r)
	if err != nil {
		return 0, nil, nil, err
	}
	id, _ := uuid.Parse(in.String("id"))

	task, err := h.service.Get(r.Context(), user.ID, id)
	if err != nil {
		return 0, nil, nil, err
	}
	return http.StatusOK, task, nil, nil
}

func (h *TaskHandler) Create(r *http.Request, in schema.Values) (int, any, any, error) {
	user, err := identity(r)
	if err != nil {
		return 0, nil, nil, err
	}

	task, err := h.service.Create(r.Context(), user.ID,
		in.String("title"), in.String("description"), in.String("status"), in.TimePtr("dueDate"))
	if err != nil {
		return 0, nil, nil, err
	}
	return http.StatusCreated, task, nil, nil
}

func (h *TaskHandler) CreateQuick(r *http.Request, in schema.Values) (int, any, any, error) {
	user, err := identity(r)
	if err != nil {
		return 0, nil, nil, err
	}

	task, err := h.service.CreateQuick(r.Context(), user.ID, in.String("title"))
	if err != nil {
		return 0, nil, nil, err
	}
	return http.StatusCreated, task, nil, nil
}

func (h *TaskHandler) Replace(r *http.Request, in schema.Values) (int, any, any, error) {
	user, err := identity(r)
	if err != nil {
		return 0, nil, nil, err
	}
	id, _ := uuid.Parse(in.String("id"))

	task, err := h.service.Replace(r.Context(), user.ID, id,
		in.String("title"), in.String("description"), in.String("status"), in.TimePtr("dueDate"))
	if err != nil {
		return 0, nil, nil, err
	}
	return http.StatusOK, task, nil, nil
}

func (h *TaskHandler) Patch(r *http.Request, in schema.Values) (int, any, any, error) {
	user, err := identity(r)
	if err != nil {
		return 0, nil, nil, err
	}
	id, _ := uuid.Parse(in.String("id"))

	// Only the whitelisted fields exist in the validated values; anything
	// else the caller sent was dropped before this point.
	task, err := h.service.Patch(r.Context(), user.ID, id, model.TaskPatch{
		Title:       in.StringPtr("title"),
		Description: in.StringPtr("description"),
		Status:      in.StringPtr("status"),
		DueDate:     in.TimePtr("dueDate"),
	})
	if err != nil {
		return 0, nil, nil, err
	}
	return http.StatusOK, task, nil, nil
}

func (h *TaskHandler) CompleteAll(r *http.Request, _ schema.Values) (int, any, any, error) {
	user, err := identity(r)
	if err != nil {
		return 0, nil, nil, err
	}

	n, err := h.service.CompleteAll(r.Context(), user.ID)
	if err != nil {
		return 0, nil, nil, err
	}
	return http.StatusOK, modifiedResponse{ModifiedCount: n}, nil, nil
}

func (h *TaskHandler) Delete(r *http.Request, in schema.Values) (int, any, any, error) {
	user, err := identity(r)
	if err != nil {
		return 0, nil, nil, err
	}
	id, _ := uuid.Parse(in.String("id"))

	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		return 0, nil, nil, err
	}
	return http.StatusOK, map[string]string{"id": id.String()}, nil, nil
}

func (h *TaskHandler) DeleteByStatus(r *http.Request, in schema.Values) (int, any, any, error) {
	user, err := identity(r)
	if err != nil {
		return 0, nil, nil, err
	}

	n, err := h.service.DeleteByStatus(r.Context(), user.ID,
		in.String("status"), in.Bool("confirm"))
	if err != nil {
		return 0, nil, nil, err
	}
	return http.StatusOK, modifiedResponse{ModifiedCount: n}, nil, nil
}

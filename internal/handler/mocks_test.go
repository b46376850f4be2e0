package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/movsyannikov/tasktracker/internal/model"
	"github.com/movsyannikov/tasktracker/internal/repo"
)

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context, ownerID uuid.UUID, filter model.TaskFilter, page, limit int) (model.TaskPage, error) {
	args := m.Called(ctx, ownerID, filter, page, limit)
	return args.Get(0).(model.TaskPage), args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, ownerID, id uuid.UUID) (model.Task, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, ownerID uuid.UUID, title, description, status string, dueDate *time.Time) (model.Task, error) {
	args := m.Called(ctx, ownerID, title, description, status, dueDate)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskService) CreateQuick(ctx context.Context, ownerID uuid.UUID, title string) (model.Task, error) {
	args := m.Called(ctx, ownerID, title)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskService) Replace(ctx context.Context, ownerID, id uuid.UUID, title, description, status string, dueDate *time.Time) (model.Task, error) {
	args := m.Called(ctx, ownerID, id, title, description, status, dueDate)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskService) Patch(ctx context.Context, ownerID, id uuid.UUID, patch model.TaskPatch) (model.Task, error) {
	args := m.Called(ctx, ownerID, id, patch)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockTaskService) DeleteByStatus(ctx context.Context, ownerID uuid.UUID, status string, confirmed bool) (int64, error) {
	args := m.Called(ctx, ownerID, status, confirmed)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskService) CompleteAll(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, name, email, password string) (model.User, string, error) {
	args := m.Called(ctx, name, email, password)
	return args.Get(0).(model.User), args.String(1), args.Error(2)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (model.User, string, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.User), args.String(1), args.Error(2)
}

// fakeUsers backs the auth middleware in handler tests.
type fakeUsers struct {
	users map[uuid.UUID]model.User
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repo.ErrNotFound
	}
	return u, nil
}

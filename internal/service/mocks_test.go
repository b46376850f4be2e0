package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/movsyannikov/tasktracker/internal/model"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (model.Task, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, ownerID uuid.UUID, filter model.TaskFilter, limit, offset int) ([]model.Task, int, error) {
	args := m.Called(ctx, ownerID, filter, limit, offset)
	return args.Get(0).([]model.Task), args.Int(1), args.Error(2)
}

func (m *MockTaskRepository) Replace(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Patch(ctx context.Context, ownerID, id uuid.UUID, patch model.TaskPatch) (model.Task, error) {
	args := m.Called(ctx, ownerID, id, patch)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) SoftDelete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockTaskRepository) SoftDeleteByStatus(ctx context.Context, ownerID uuid.UUID, status string) (int64, error) {
	args := m.Called(ctx, ownerID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) CompleteAll(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time, batch int) (int64, error) {
	args := m.Called(ctx, cutoff, batch)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

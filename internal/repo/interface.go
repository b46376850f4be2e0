package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/movsyannikov/tasktracker/internal/model"
)

// UserRepository persists user identities. Email uniqueness is enforced
// by the store itself so concurrent registrations resolve to exactly one
// success and one ErrConflict.
type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskRepository persists task records. Every operation is scoped to the
// owning user; soft-deleted rows are invisible to all of them except the
// purge path.
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (model.Task, error)
	List(ctx context.Context, ownerID uuid.UUID, filter model.TaskFilter, limit, offset int) ([]model.Task, int, error)
	Replace(ctx context.Context, t model.Task) (model.Task, error)
	Patch(ctx context.Context, ownerID, id uuid.UUID, patch model.TaskPatch) (model.Task, error)
	SoftDelete(ctx context.Context, ownerID, id uuid.UUID) error
	SoftDeleteByStatus(ctx context.Context, ownerID uuid.UUID, status string) (int64, error)
	CompleteAll(ctx context.Context, ownerID uuid.UUID) (int64, error)
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time, batch int) (int64, error)
}

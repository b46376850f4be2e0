package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/movsyannikov/tasktracker/internal/model"
)

// TaskRepo persists tasks in Postgres. Ownership and soft-delete scoping
// are part of every statement's WHERE clause, never a separate read, so
// concurrent mutations against the same row cannot race between a check
// and a write.
type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

const taskColumns = "id, owner_id, title, description, status, due_date, is_deleted, created_at, updated_at"

func scanTask(row pgx.Row, t *model.Task) error {
	return row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Status,
		&t.DueDate, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	err := scanTask(r.pool.QueryRow(ctx, `
		INSERT INTO tasks (owner_id, title, description, status, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+taskColumns+`
	`, t.OwnerID, t.Title, t.Description, t.Status, t.DueDate), &t)
	return t, mapError(err)
}

func (r *TaskRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (model.Task, error) {
	var t model.Task
	err := scanTask(r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1 AND owner_id = $2 AND NOT is_deleted
	`, id, ownerID), &t)

	if err == pgx.ErrNoRows {
		return t, ErrNotFound
	}
	return t, err
}

func (r *TaskRepo) List(ctx context.Context, ownerID uuid.UUID, filter model.TaskFilter, limit, offset int) ([]model.Task, int, error) {
	const where = `
		owner_id = $1 AND NOT is_deleted
		AND ($2::text IS NULL OR status = $2)
		AND ($3::text IS NULL OR title ILIKE '%' || $3 || '%')
	`

	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM tasks WHERE "+where,
		ownerID, filter.Status, filter.Search,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE `+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5
	`, ownerID, filter.Status, filter.Search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0, limit)
	for rows.Next() {
		var t model.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	return tasks, total, rows.Err()
}

// Replace sets every mutable field from t. Creation timestamp is kept,
// modification timestamp bumped.
func (r *TaskRepo) Replace(ctx context.Context, t model.Task) (model.Task, error) {
	err := scanTask(r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = $3, description = $4, status = $5, due_date = $6, updated_at = now()
		WHERE id = $1 AND owner_id = $2 AND NOT is_deleted
		RETURNING `+taskColumns+`
	`, t.ID, t.OwnerID, t.Title, t.Description, t.Status, t.DueDate), &t)

	if err == pgx.ErrNoRows {
		return t, ErrNotFound
	}
	return t, err
}

// Patch merges only the non-nil fields into the existing row.
func (r *TaskRepo) Patch(ctx context.Context, ownerID, id uuid.UUID, patch model.TaskPatch) (model.Task, error) {
	var t model.Task
	err := scanTask(r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title       = COALESCE($3, title),
		    description = COALESCE($4, description),
		    status      = COALESCE($5, status),
		    due_date    = COALESCE($6, due_date),
		    updated_at  = now()
		WHERE id = $1 AND owner_id = $2 AND NOT is_deleted
		RETURNING `+taskColumns+`
	`, id, ownerID, patch.Title, patch.Description, patch.Status, patch.DueDate), &t)

	if err == pgx.ErrNoRows {
		return t, ErrNotFound
	}
	return t, err
}

func (r *TaskRepo) SoftDelete(ctx context.Context, ownerID, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET is_deleted = true, updated_at = now()
		WHERE id = $1 AND owner_id = $2 AND NOT is_deleted
	`, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepo) SoftDeleteByStatus(ctx context.Context, ownerID uuid.UUID, status string) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET is_deleted = true, updated_at = now()
		WHERE owner_id = $1 AND status = $2 AND NOT is_deleted
	`, ownerID, status)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *TaskRepo) CompleteAll(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET status = $2, updated_at = now()
		WHERE owner_id = $1 AND status <> $2 AND NOT is_deleted
	`, ownerID, model.StatusCompleted)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// PurgeDeletedBefore hard-deletes a batch of rows that were soft-deleted
// before cutoff. SKIP LOCKED keeps concurrent purge workers from
// contending on the same batch.
func (r *TaskRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time, batch int) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `
		WITH expired AS (
			SELECT id
			FROM tasks
			WHERE is_deleted AND updated_at < $1
			ORDER BY updated_at
			FOR UPDATE SKIP LOCKED
			LIMIT $2
		)
		DELETE FROM tasks
		USING expired
		WHERE tasks.id = expired.id
	`, cutoff, batch)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

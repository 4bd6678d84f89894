package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/serverless-task-manager/internal/model"
)

var _ TaskRepository = (*PostgresRepo)(nil)

type PostgresRepo struct { // Тот же контракт key-value поверх одной таблицы tasks
	pool *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{
		pool: pool,
	}
}

func (r *PostgresRepo) Get(ctx context.Context, taskID string) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		SELECT task_id, title, description, status
		FROM tasks
		WHERE task_id = $1
	`, taskID).Scan(&t.TaskID, &t.Title, &t.Description, &t.Status)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

// Put - безусловная вставка или перезапись, как PutItem
func (r *PostgresRepo) Put(ctx context.Context, t model.Task) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks (task_id, title, description, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (task_id) DO UPDATE
		SET title = EXCLUDED.title, description = EXCLUDED.description, status = EXCLUDED.status
	`, t.TaskID, t.Title, t.Description, t.Status)
	return err
}

// Update: NULL-параметр оставляет колонку без изменений
func (r *PostgresRepo) Update(ctx context.Context, taskID string, patch model.TaskPatch) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    status = COALESCE($4, status)
		WHERE task_id = $1
		RETURNING task_id, title, description, status
	`, taskID, patch.Title, patch.Description, patch.Status).Scan(
		&t.TaskID, &t.Title, &t.Description, &t.Status,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *PostgresRepo) Delete(ctx context.Context, taskID string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE task_id = $1", taskID)
	return err
}

package repo

import (
	"context"
	"errors"

	"github.com/BuzzLyutic/serverless-task-manager/internal/model"
)

var ErrorNotFound = errors.New("not found")

// TaskRepository определяет интерфейс хранилища задач с ключом taskId
type TaskRepository interface {
	Get(ctx context.Context, taskID string) (model.Task, error)
	Put(ctx context.Context, t model.Task) error
	// Update применяет патч и возвращает запись после обновления.
	// ErrorNotFound, если записи нет.
	Update(ctx context.Context, taskID string, patch model.TaskPatch) (model.Task, error)
	Delete(ctx context.Context, taskID string) error
}

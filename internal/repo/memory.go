package repo

import (
	"context"
	"sync"

	"github.com/BuzzLyutic/serverless-task-manager/internal/model"
)

var _ TaskRepository = (*MemoryRepo)(nil)

// MemoryRepo хранит задачи в памяти процесса. Используется локально и в тестах.
type MemoryRepo struct {
	mu    sync.RWMutex
	tasks map[string]model.Task
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		tasks: make(map[string]model.Task),
	}
}

func (r *MemoryRepo) Get(ctx context.Context, taskID string) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[taskID]
	if !ok {
		return model.Task{}, ErrorNotFound
	}
	return t, nil
}

func (r *MemoryRepo) Put(ctx context.Context, t model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[t.TaskID] = t
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, taskID string, patch model.TaskPatch) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[taskID]
	if !ok {
		return model.Task{}, ErrorNotFound
	}
	t = patch.Apply(t)
	r.tasks[taskID] = t
	return t, nil
}

// Delete отсутствующей записи - no-op, как у DynamoDB
func (r *MemoryRepo) Delete(ctx context.Context, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tasks, taskID)
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/serverless-task-manager/internal/model"
	"github.com/BuzzLyutic/serverless-task-manager/internal/repo"
)

// Policy - различия между вариантами обработчиков
type Policy struct {
	// StrictStatus ограничивает status значениями model.Statuses
	StrictStatus bool
}

// IDGenerator выдает новый taskId для create
type IDGenerator func(ctx context.Context) string

func NewID(context.Context) string {
	return uuid.NewString()
}

type Option func(*TaskService)

func WithPolicy(p Policy) Option {
	return func(s *TaskService) { s.policy = p }
}

func WithIDGenerator(gen IDGenerator) Option {
	return func(s *TaskService) { s.newID = gen }
}

type TaskService struct {
	repo   repo.TaskRepository
	policy Policy
	newID  IDGenerator
}

func NewTaskService(repo repo.TaskRepository, opts ...Option) *TaskService {
	s := &TaskService{
		repo:   repo,
		policy: Policy{StrictStatus: true},
		newID:  NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskService) Create(ctx context.Context, in model.TaskInput) (model.Task, error) {
	if in.Title == "" || in.Description == "" || in.Status == "" {
		return model.Task{}, invalid(MsgMissingFields)
	}
	if err := s.validateStatus(in.Status); err != nil {
		return model.Task{}, err
	}

	t := model.Task{
		TaskID:      s.newID(ctx),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
	}
	if t.TaskID == "" {
		return model.Task{}, &StoreError{Op: OpCreate, Err: errors.New("empty generated taskId")}
	}

	if err := s.repo.Put(ctx, t); err != nil {
		return model.Task{}, &StoreError{Op: OpCreate, TaskID: t.TaskID, Err: err}
	}
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, taskID string) (model.Task, error) {
	if taskID == "" {
		return model.Task{}, invalid(MsgTaskIDRequired)
	}
	return s.lookup(ctx, OpGet, taskID)
}

func (s *TaskService) Update(ctx context.Context, taskID string, patch model.TaskPatch) (model.Task, error) {
	if taskID == "" {
		return model.Task{}, invalid(MsgTaskIDRequired)
	}
	if patch.IsEmpty() {
		return model.Task{}, invalid(MsgNoUpdateFields)
	}
	if patch.Status != nil {
		if err := s.validateStatus(*patch.Status); err != nil {
			return model.Task{}, err
		}
	}

	if _, err := s.lookup(ctx, OpUpdate, taskID); err != nil {
		return model.Task{}, err
	}

	t, err := s.repo.Update(ctx, taskID, patch)
	if errors.Is(err, repo.ErrorNotFound) { // удалили между get и update
		return model.Task{}, err
	}
	if err != nil {
		return model.Task{}, &StoreError{Op: OpUpdate, TaskID: taskID, Err: err}
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, taskID string) error {
	if taskID == "" {
		return invalid(MsgTaskIDRequired)
	}
	if _, err := s.lookup(ctx, OpDelete, taskID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, taskID); err != nil {
		return &StoreError{Op: OpDelete, TaskID: taskID, Err: err}
	}
	return nil
}

// lookup - get с разделением "нет записи" и сбоя хранилища
func (s *TaskService) lookup(ctx context.Context, op Op, taskID string) (model.Task, error) {
	t, err := s.repo.Get(ctx, taskID)
	if errors.Is(err, repo.ErrorNotFound) {
		return model.Task{}, err
	}
	if err != nil {
		return model.Task{}, &StoreError{Op: op, TaskID: taskID, Err: err}
	}
	return t, nil
}

func (s *TaskService) validateStatus(status string) error {
	if !s.policy.StrictStatus || model.ValidStatus(status) {
		return nil
	}
	return invalid(fmt.Sprintf(msgInvalidStatusFm, model.AllowedStatuses()))
}

package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")
	// ErrMalformedBody - тело не разбирается как JSON. Наружу отдается тем же 400.
	ErrMalformedBody = errors.New("malformed request body")
)

const (
	MsgMissingFields   = "Missing required fields"
	MsgTaskIDRequired  = "taskId is required"
	MsgNoUpdateFields  = "At least one of title, description, or status must be provided"
	MsgInvalidBody     = "Invalid request body"
	MsgTaskNotFound    = "Task not found"
	msgInvalidStatusFm = "Invalid status. Allowed values: %s"
)

// ValidationError - ошибка клиентского ввода, Message уходит в ответ как есть
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrValidation, e.Err}
	}
	return []error{ErrValidation}
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// MalformedBody оборачивает ошибку разбора тела с сообщением для клиента
func MalformedBody(msg string, err error) error {
	return &ValidationError{Message: msg, Err: fmt.Errorf("%w: %v", ErrMalformedBody, err)}
}

type Op string

const (
	OpCreate Op = "create"
	OpGet    Op = "get"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// StoreError - сбой вызова хранилища. Детали только в лог.
type StoreError struct {
	Op     Op
	TaskID string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.TaskID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

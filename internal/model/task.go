package model

import "strings"

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Statuses перечисляет допустимые значения status в строгом режиме
var Statuses = []string{StatusPending, StatusInProgress, StatusCompleted}

type Task struct {
	TaskID      string `json:"taskId" dynamodbav:"taskId"`
	Title       string `json:"title" dynamodbav:"title"`
	Description string `json:"description" dynamodbav:"description"`
	Status      string `json:"status" dynamodbav:"status"`
}

// TaskInput - тело запроса на создание или обновление
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

func AllowedStatuses() string {
	return strings.Join(Statuses, ", ")
}

// PatchField - одно изменяемое поле: имя атрибута и новое значение
type PatchField struct {
	Name  string
	Value string
}

// TaskPatch - частичное обновление: nil означает "не трогать"
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
}

// PatchFromInput берет только непустые поля
func PatchFromInput(in TaskInput) TaskPatch {
	var p TaskPatch
	if in.Title != "" {
		p.Title = &in.Title
	}
	if in.Description != "" {
		p.Description = &in.Description
	}
	if in.Status != "" {
		p.Status = &in.Status
	}
	return p
}

func (p TaskPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields возвращает заданные поля в фиксированном порядке title, description, status
func (p TaskPatch) Fields() []PatchField {
	fields := make([]PatchField, 0, 3)
	if p.Title != nil {
		fields = append(fields, PatchField{Name: "title", Value: *p.Title})
	}
	if p.Description != nil {
		fields = append(fields, PatchField{Name: "description", Value: *p.Description})
	}
	if p.Status != nil {
		fields = append(fields, PatchField{Name: "status", Value: *p.Status})
	}
	return fields
}

func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	return t
}

package entity

import "github.com/google/uuid"

// Названия полей документа задачи, они же ключи фильтра
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
)

type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
}

// Clone возвращает независимую копию задачи
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

// валидация
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description" validate:"required"` // пустая строка допустима, отсутствие поля нет
}

// GetTasksRequest - фильтры поиска, nil значит "не передан"
type GetTasksRequest struct {
	ID          *string // разбирается ParseTaskID, регистр hex не важен
	Title       *string
	Description *string
	Status      *string `validate:"omitnil,oneof=created on_work done"`
}

// Empty сообщает, что не передан ни один фильтр
func (r *GetTasksRequest) Empty() bool {
	return r.ID == nil && r.Title == nil && r.Description == nil && r.Status == nil
}

type UpdateTaskRequest struct {
	ID          string  `validate:"required"`
	Title       *string `validate:"omitnil,min=1"`
	Description *string
	Status      *string `validate:"omitnil,oneof=created on_work done"`
}

type DeleteTaskRequest struct {
	ID string `validate:"required"`
}

// ParseTaskID разбирает идентификатор задачи
func ParseTaskID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, NewValidationError("invalid task id")
	}
	return parsed, nil
}

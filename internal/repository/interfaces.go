package repository

import (
	"context"

	"github.com/St1cky1/task-registry/internal/entity"
	"github.com/google/uuid"
)

// CollectionName - логическое имя коллекции (таблицы) задач
const CollectionName = "tasks"

// Filter - поле документа -> требуемое значение. Все пары объединяются через AND,
// сравнение точное.
type Filter map[string]string

// ITaskRepository - хранилище документов задач, ключ документа - id задачи
type ITaskRepository interface {
	Insert(ctx context.Context, task *entity.Task) (*entity.Task, error)
	Find(ctx context.Context, filter Filter) ([]entity.Task, error)
	// FindOne возвращает nil, nil если задачи нет
	FindOne(ctx context.Context, id uuid.UUID) (*entity.Task, error)
	// Save заменяет документ целиком, отсутствующий документ создается
	Save(ctx context.Context, task *entity.Task) (*entity.Task, error)
	Delete(ctx context.Context, task *entity.Task) error
}

// Matches проверяет задачу на соответствие фильтру
func (f Filter) Matches(task *entity.Task) bool {
	for field, want := range f {
		var got string
		switch field {
		case entity.FieldID:
			got = task.ID.String()
		case entity.FieldTitle:
			got = task.Title
		case entity.FieldDescription:
			got = task.Description
		case entity.FieldStatus:
			got = task.Status.String()
		default:
			return false
		}
		if got != want {
			return false
		}
	}
	return true
}

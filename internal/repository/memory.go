package repository

import (
	"context"
	"sync"

	"github.com/St1cky1/task-registry/internal/entity"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// MemoryTaskRepository хранит документы в памяти процесса.
// Порядок выдачи Find - порядок вставки.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	order []uuid.UUID
	tasks map[uuid.UUID]entity.Task
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		tasks: make(map[uuid.UUID]entity.Task),
	}
}

func (r *MemoryTaskRepository) Insert(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID]; exists {
		return nil, errors.WithStack(ErrDuplicateID)
	}

	r.tasks[task.ID] = *task
	r.order = append(r.order, task.ID)

	return task.Clone(), nil
}

func (r *MemoryTaskRepository) Find(ctx context.Context, filter Filter) ([]entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks []entity.Task
	for _, id := range r.order {
		task := r.tasks[id]
		if filter.Matches(&task) {
			tasks = append(tasks, task)
		}
	}

	return tasks, nil
}

func (r *MemoryTaskRepository) FindOne(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}

	return &task, nil
}

func (r *MemoryTaskRepository) Save(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID]; !exists {
		r.order = append(r.order, task.ID)
	}
	r.tasks[task.ID] = *task

	return task.Clone(), nil
}

func (r *MemoryTaskRepository) Delete(ctx context.Context, task *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID]; !exists {
		return nil
	}

	delete(r.tasks, task.ID)
	for i, id := range r.order {
		if id == task.ID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/St1cky1/task-registry/internal/entity"
	"github.com/St1cky1/task-registry/internal/metrics"
	"github.com/St1cky1/task-registry/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const publishTimeout = 5 * time.Second

// EventPublisher интерфейс для публикации событий задач в брокер
type EventPublisher interface {
	PublishTaskEvent(ctx context.Context, event *entity.TaskEvent) error
}

type HealthStatus struct {
	Status string `json:"status"`
}

// TaskService не хранит состояния между запросами, все задачи живут в репозитории.
//
// UpdateTask читает и записывает документ двумя отдельными вызовами без блокировки:
// параллельное обновление может быть перезаписано, а параллельно удаленная задача
// восстановлена через upsert в Save.
type TaskService struct {
	taskRepo  repository.ITaskRepository
	publisher EventPublisher
	validate  *validator.Validate

	publishing sync.WaitGroup
}

// NewTaskService - publisher может быть nil, тогда события не отправляются
func NewTaskService(taskRepo repository.ITaskRepository, publisher EventPublisher) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		publisher: publisher,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *TaskService) Health(ctx context.Context) HealthStatus {
	return HealthStatus{Status: "ok"}
}

func (s *TaskService) CreateTask(ctx context.Context, req *entity.CreateTaskRequest) (task *entity.Task, err error) {
	defer func() { metrics.ObserveOperation("create", err) }()

	if req == nil {
		return nil, entity.NewValidationError("request body required")
	}
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	// статус задается сервером, клиентский не принимается
	task = &entity.Task{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: *req.Description,
		Status:      entity.StatusCreated,
	}

	created, err := s.taskRepo.Insert(ctx, task)
	if err != nil {
		return nil, errors.Wrap(err, "could not insert task")
	}

	s.publish(ctx, entity.NewTaskEvent(entity.ActionCreate, nil, created))

	return created, nil
}

// GetTasks ищет задачи по точному совпадению всех переданных полей
func (s *TaskService) GetTasks(ctx context.Context, req *entity.GetTasksRequest) (tasks []entity.Task, err error) {
	defer func() { metrics.ObserveOperation("get", err) }()

	if req == nil || req.Empty() {
		return nil, entity.ErrNoFilter
	}
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	filter, err := buildFilter(req)
	if err != nil {
		return nil, err
	}

	tasks, err = s.taskRepo.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "could not find tasks")
	}
	if len(tasks) == 0 {
		return nil, entity.ErrTaskNotFound
	}

	return tasks, nil
}

// buildFilter собирает фильтр из всех переданных параметров
func buildFilter(req *entity.GetTasksRequest) (repository.Filter, error) {
	filter := repository.Filter{}

	if req.ID != nil {
		id, err := entity.ParseTaskID(*req.ID)
		if err != nil {
			return nil, err
		}
		filter[entity.FieldID] = id.String()
	}
	if req.Title != nil {
		filter[entity.FieldTitle] = *req.Title
	}
	if req.Description != nil {
		filter[entity.FieldDescription] = *req.Description
	}
	if req.Status != nil {
		status, err := entity.ParseTaskStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		filter[entity.FieldStatus] = status.String()
	}

	return filter, nil
}

// UpdateTask применяет только переданные поля. Явно переданная пустая строка
// тоже считается значением: пустое описание перезаписывает старое.
func (s *TaskService) UpdateTask(ctx context.Context, req *entity.UpdateTaskRequest) (task *entity.Task, err error) {
	defer func() { metrics.ObserveOperation("update", err) }()

	if req == nil {
		return nil, entity.NewValidationError("id required")
	}
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	id, err := entity.ParseTaskID(req.ID)
	if err != nil {
		return nil, err
	}

	var status *entity.TaskStatus
	if req.Status != nil {
		parsed, err := entity.ParseTaskStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		status = &parsed
	}

	// 1. Получаем текущую задачу
	oldTask, err := s.taskRepo.FindOne(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "could not find task")
	}
	if oldTask == nil {
		return nil, entity.ErrTaskNotFound
	}

	// 2. Накладываем переданные поля
	task = oldTask.Clone()
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if status != nil {
		task.Status = *status
	}

	// 3. Сохраняем документ целиком
	updated, err := s.taskRepo.Save(ctx, task)
	if err != nil {
		return nil, errors.Wrap(err, "could not save task")
	}

	s.publish(ctx, entity.NewTaskEvent(entity.ActionUpdate, oldTask, updated))

	return updated, nil
}

// DeleteTask возвращает задачу в том виде, в каком она была до удаления
func (s *TaskService) DeleteTask(ctx context.Context, req *entity.DeleteTaskRequest) (task *entity.Task, err error) {
	defer func() { metrics.ObserveOperation("delete", err) }()

	if req == nil {
		return nil, entity.NewValidationError("id required")
	}
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	id, err := entity.ParseTaskID(req.ID)
	if err != nil {
		return nil, err
	}

	task, err = s.taskRepo.FindOne(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "could not find task")
	}
	if task == nil {
		return nil, entity.ErrTaskNotFound
	}

	if err := s.taskRepo.Delete(ctx, task); err != nil {
		return nil, errors.Wrap(err, "could not delete task")
	}

	s.publish(ctx, entity.NewTaskEvent(entity.ActionDelete, task, nil))

	return task, nil
}

// Wait дожидается отправки всех событий, вызывается при остановке
func (s *TaskService) Wait() {
	s.publishing.Wait()
}

// Асинхронная отправка: ошибка брокера не влияет на ответ клиенту
func (s *TaskService) publish(ctx context.Context, event *entity.TaskEvent) {
	if s.publisher == nil {
		return
	}

	s.publishing.Add(1)
	go func() {
		defer s.publishing.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()

		if err := s.publisher.PublishTaskEvent(ctx, event); err != nil {
			slog.ErrorContext(ctx, "could not publish task event",
				slog.String("action", string(event.Action)),
				slog.String("task_id", event.TaskID.String()),
				slog.Any("error", err))
		}
	}()
}

func (s *TaskService) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return entity.NewValidationError("invalid request")
	}

	fe := validationErrors[0]
	return entity.NewValidationError(fmt.Sprintf("invalid %s: %s", strings.ToLower(fe.Field()), tagMessage(fe.Tag())))
}

func tagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

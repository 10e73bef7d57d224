package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/St1cky1/task-registry/internal/entity"
	"github.com/St1cky1/task-registry/internal/usecase"
)

type TaskHandler struct {
	taskService *usecase.TaskService
}

func NewTaskHandler(taskService *usecase.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func (h *TaskHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.taskService.Health(r.Context()))
}

// создаем новую задачу
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req entity.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, entity.NewValidationError("invalid JSON body"))
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := entity.GetTasksRequest{
		ID:          optional(query, entity.FieldID),
		Title:       optional(query, entity.FieldTitle),
		Description: optional(query, entity.FieldDescription),
		Status:      optional(query, entity.FieldStatus),
	}

	tasks, err := h.taskService.GetTasks(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, TasksResponse{Tasks: tasks})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := entity.UpdateTaskRequest{
		ID:          query.Get(entity.FieldID),
		Title:       optional(query, entity.FieldTitle),
		Description: optional(query, entity.FieldDescription),
		Status:      optional(query, entity.FieldStatus),
	}

	task, err := h.taskService.UpdateTask(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	req := entity.DeleteTaskRequest{
		ID: r.URL.Query().Get(entity.FieldID),
	}

	task, err := h.taskService.DeleteTask(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, task)
}

// optional - параметр считается переданным, если ключ есть в запросе, даже с пустым значением
func optional(query url.Values, key string) *string {
	values, ok := query[key]
	if !ok || len(values) == 0 {
		return nil
	}
	value := values[0]
	return &value
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

type ActionType string

const (
	ActionCreate ActionType = "Create"
	ActionUpdate ActionType = "Update"
	ActionDelete ActionType = "Delete"
)

// TaskEvent - сообщение о жизненном цикле задачи, уходит в брокер
type TaskEvent struct {
	Action    ActionType     `json:"action"`
	TaskID    uuid.UUID      `json:"task_id"`
	Old       *Task          `json:"old,omitempty"`
	New       *Task          `json:"new,omitempty"`
	Changes   map[string]any `json:"changes,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewTaskEvent собирает событие и, для обновления, вычисляет изменившиеся поля
func NewTaskEvent(action ActionType, oldTask, newTask *Task) *TaskEvent {
	event := &TaskEvent{
		Action:    action,
		Old:       oldTask,
		New:       newTask,
		Timestamp: time.Now().UTC(),
	}

	switch {
	case newTask != nil:
		event.TaskID = newTask.ID
	case oldTask != nil:
		event.TaskID = oldTask.ID
	}

	if oldTask == nil || newTask == nil {
		return event
	}

	changes := make(map[string]any)
	if oldTask.Title != newTask.Title {
		changes[FieldTitle] = map[string]any{"old": oldTask.Title, "new": newTask.Title}
	}
	if oldTask.Description != newTask.Description {
		changes[FieldDescription] = map[string]any{"old": oldTask.Description, "new": newTask.Description}
	}
	if oldTask.Status != newTask.Status {
		changes[FieldStatus] = map[string]any{"old": oldTask.Status.String(), "new": newTask.Status.String()}
	}
	event.Changes = changes

	return event
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/core"
	"github.com/taskdeck/taskdeck/ports"
)

// TaskInput carries the writable fields of a task.
type TaskInput struct {
	Title       string
	Description string
	Completed   bool
	Priority    core.Priority
}

// TaskService implements ownership-filtered task CRUD. Every operation is
// scoped to the calling user; another user's tasks are indistinguishable
// from absent ones.
type TaskService struct {
	tasks ports.TaskStore
}

// NewTaskService creates a new task service.
func NewTaskService(tasks ports.TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

// List returns the user's tasks matching the filter, newest first.
func (s *TaskService) List(ctx context.Context, userID string, filter ports.TaskFilter) ([]core.Task, error) {
	return s.tasks.TasksByUser(ctx, userID, filter)
}

// Create stores a new task for the user. An unset priority defaults to medium.
func (s *TaskService) Create(ctx context.Context, userID string, in TaskInput) (*core.Task, error) {
	if in.Priority == "" {
		in.Priority = core.PriorityMedium
	}

	now := time.Now()
	task := &core.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		Priority:    in.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Update overwrites the task's writable fields. Returns core.ErrTaskNotFound
// when the task is absent or owned by another user.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, in TaskInput) (*core.Task, error) {
	task, err := s.tasks.TaskByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if in.Priority == "" {
		in.Priority = core.PriorityMedium
	}

	task.Title = in.Title
	task.Description = in.Description
	task.Completed = in.Completed
	task.Priority = in.Priority
	task.UpdatedAt = time.Now()

	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes the task. Returns core.ErrTaskNotFound when the task is
// absent or owned by another user.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	return s.tasks.DeleteTask(ctx, userID, taskID)
}

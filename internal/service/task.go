package service

import (
	"context"
	"fmt"

	cfotel "github.com/Strob0t/SkillSprint/internal/adapter/otel"
	"github.com/Strob0t/SkillSprint/internal/domain/task"
	"github.com/Strob0t/SkillSprint/internal/port/database"
)

// TaskService manages a user's dated to-do list.
type TaskService struct {
	store    database.Store
	progress *ProgressService
	metrics  *cfotel.Metrics
}

// NewTaskService creates a task service. Successful writes invalidate the
// user's cached summary in progress.
func NewTaskService(store database.Store, progress *ProgressService) *TaskService {
	return &TaskService{store: store, progress: progress}
}

// SetMetrics attaches metric instruments. Nil disables them.
func (s *TaskService) SetMetrics(m *cfotel.Metrics) { s.metrics = m }

// List returns the user's tasks, newest date first.
func (s *TaskService) List(ctx context.Context, userID int64) ([]task.Task, error) {
	return s.store.ListTasks(ctx, userID)
}

// Create validates req and adds a pending task for the user.
func (s *TaskService) Create(ctx context.Context, userID int64, req task.CreateRequest) (*task.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t := &task.Task{UserID: userID, Date: req.Date, Text: req.Text}
	if err := s.store.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.progress.Invalidate(ctx, userID)

	if s.metrics != nil {
		s.metrics.TasksCreated.Add(ctx, 1)
	}
	return t, nil
}

// Toggle flips the done flag of a task the user owns.
func (s *TaskService) Toggle(ctx context.Context, userID, id int64) error {
	if err := s.store.ToggleTask(ctx, userID, id); err != nil {
		return fmt.Errorf("toggle task: %w", err)
	}
	s.progress.Invalidate(ctx, userID)
	return nil
}

// Delete removes a task the user owns.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteTask(ctx, userID, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.progress.Invalidate(ctx, userID)
	return nil
}

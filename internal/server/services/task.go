package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// NewTask holds the fields a caller supplies when adding a task.
type NewTask struct {
	Title       string
	Description string
	Deadline    *time.Time
}

// TaskPatch lists the task fields to change. Nil fields are kept, so
// Completed set to false explicitly marks a task as not done.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Deadline    *time.Time
}

type TaskService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
	newID       func() string
}

func NewTaskService(m repomanager.RepositoryManager, logger logging.Logger) *TaskService {
	return &TaskService{
		repomanager: m,
		logger:      logger.With("module", "tasks"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// ParseDeadline accepts YYYY-MM-DD (midnight UTC) or an RFC 3339 timestamp.
// An empty string means no deadline.
func ParseDeadline(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: deadline must be YYYY-MM-DD or RFC 3339", common.ErrorValidation)
}

// List returns the caller's tasks ordered by creation time. The result is
// never nil.
func (s *TaskService) List(ctx context.Context, userID string) ([]*models.Task, error) {
	tasks, err := s.repomanager.Tasks().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return tasks, nil
}

func (s *TaskService) Add(ctx context.Context, userID string, in NewTask) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}

	now := s.now().UTC()
	task := &models.Task{
		ID:          s.newID(),
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Completed:   false,
		Deadline:    in.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repomanager.Tasks().Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "task created", "task_id", created.ID, "user_id", userID)
	return created, nil
}

// Update applies patch to a task owned by the caller. Tasks of other users
// are reported as not found.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, patch TaskPatch) (*models.Task, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", common.ErrorValidation)
	}

	var updated *models.Task
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		task, err := repos.Tasks().Get(ctx, userID, taskID)
		if err != nil {
			return taskErr(err)
		}

		if patch.Title != nil {
			task.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			task.Description = *patch.Description
		}
		if patch.Completed != nil {
			task.Completed = *patch.Completed
		}
		if patch.Deadline != nil {
			task.Deadline = patch.Deadline
		}
		task.UpdatedAt = s.now().UTC()

		if err := repos.Tasks().Update(ctx, task); err != nil {
			return taskErr(err)
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a task owned by the caller.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		if _, err := repos.Tasks().Get(ctx, userID, taskID); err != nil {
			return taskErr(err)
		}
		return taskErr(repos.Tasks().Delete(ctx, userID, taskID))
	})
	if err != nil {
		return err
	}

	s.logger.Debug(ctx, "task deleted", "task_id", taskID, "user_id", userID)
	return nil
}

func taskErr(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return ErrTaskNotFound
	}
	return err
}

package tasks

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

// MemoryRepository keeps tasks in process memory. Returned values are copies.
type MemoryRepository struct {
	mu    sync.RWMutex
	tasks map[string]models.Task
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tasks: make(map[string]models.Task)}
}

func (r *MemoryRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.ID]; ok {
		return nil, common.ErrAlreadyExists
	}
	r.tasks[task.ID] = copyTask(task)

	return task, nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Task, 0)
	for _, t := range r.tasks {
		if t.UserID == userID {
			c := copyTask(&t)
			result = append(result, &c)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (r *MemoryRepository) Get(ctx context.Context, userID, taskID string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	c := copyTask(&t)
	return &c, nil
}

// Update replaces the mutable fields of a task. UserID and CreatedAt of the
// stored task are kept.
func (r *MemoryRepository) Update(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tasks[task.ID]
	if !ok || current.UserID != task.UserID {
		return common.ErrorNotFound
	}

	updated := copyTask(task)
	updated.UserID = current.UserID
	updated.CreatedAt = current.CreatedAt
	r.tasks[task.ID] = updated

	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, userID, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[taskID]
	if !ok || t.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.tasks, taskID)

	return nil
}

func copyTask(t *models.Task) models.Task {
	c := *t
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	return c
}

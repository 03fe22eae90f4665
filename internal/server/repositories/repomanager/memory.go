package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. WithTx
// serializes units of work with a mutex.
type MemoryRepositoryManager struct {
	mu    sync.Mutex
	users *users.MemoryRepository
	tasks *tasks.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		tasks: tasks.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }
func (m *MemoryRepositoryManager) Tasks() tasks.Repository { return m.tasks }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return fn(ctx, repoSet{users: m.users, tasks: m.tasks})
}

func (m *MemoryRepositoryManager) Close(context.Context) error { return nil }

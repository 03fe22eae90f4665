package repomanager

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryManager_SharesStores(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRepositoryManager()

	_, err := m.Users().Create(ctx, &models.User{ID: "u1", Email: "a@example.com"})
	require.NoError(t, err)

	err = m.WithTx(ctx, func(ctx context.Context, repos Repositories) error {
		u, err := repos.Users().GetUserByID(ctx, "u1")
		if err != nil {
			return err
		}
		_, err = repos.Tasks().Create(ctx, &models.Task{ID: "t1", UserID: u.ID, Title: "x"})
		return err
	})
	require.NoError(t, err)

	list, err := m.Tasks().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, m.Close(ctx))
}

func TestMemoryRepositoryManager_WithTxPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := NewMemoryRepositoryManager().WithTx(context.Background(), func(context.Context, Repositories) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestMemoryRepositoryManager_WithTxSerializes(t *testing.T) {
	m := NewMemoryRepositoryManager()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.WithTx(context.Background(), func(context.Context, Repositories) error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	m, err := New(ctx, &config.Config{Storage: config.StorageMemory}, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepositoryManager{}, m)

	_, err = New(ctx, &config.Config{Storage: "redis"}, logging.Nop())
	assert.ErrorContains(t, err, `unknown storage "redis"`)
}

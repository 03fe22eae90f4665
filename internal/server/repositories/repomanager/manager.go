// Package repomanager selects a storage backend and hands out the
// repositories bound to it. Services go through WithTx for read-modify-write
// sequences so the PostgreSQL backend can run them in one transaction.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/users"
)

// Repositories is the set of stores available to the service layer.
type Repositories interface {
	Users() users.Repository
	Tasks() tasks.Repository
}

type RepositoryManager interface {
	Repositories

	// WithTx runs fn with repositories that share one unit of work. An error
	// returned by fn aborts it.
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error

	Close(ctx context.Context) error
}

// New opens the backend named by cfg.Storage.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (RepositoryManager, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		logger.Info(ctx, "using postgres storage")
		return OpenPostgres(ctx, cfg.DatabaseDSN)
	case config.StorageMongo:
		logger.Info(ctx, "using mongo storage", "database", cfg.MongoDatabase)
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.StorageMemory:
		logger.Warn(ctx, "using in-memory storage, data is lost on restart")
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

type repoSet struct {
	users users.Repository
	tasks tasks.Repository
}

func (s repoSet) Users() users.Repository { return s.users }
func (s repoSet) Tasks() tasks.Repository { return s.tasks }

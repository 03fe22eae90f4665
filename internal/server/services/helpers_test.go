package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/users"
)

// --- helpers ---

type fakeHasher struct {
	hashErr error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h *fakeHasher) Verify(password, digest string) bool {
	return digest == "hashed:"+password
}

type fakeIssuer struct {
	n   int
	err error
}

func (i *fakeIssuer) Issue(userID string) (string, error) {
	if i.err != nil {
		return "", i.err
	}
	i.n++
	return fmt.Sprintf("token-%s-%d", userID, i.n), nil
}

type sequence struct{ n int }

func (s *sequence) next() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

// brokenManager fails every store call with err.
type brokenManager struct{ err error }

func (m brokenManager) Users() users.Repository { return brokenUsers(m) }
func (m brokenManager) Tasks() tasks.Repository { return brokenTasks(m) }
func (m brokenManager) WithTx(ctx context.Context, fn func(context.Context, repomanager.Repositories) error) error {
	return fn(ctx, m)
}
func (m brokenManager) Close(context.Context) error { return nil }

type brokenUsers struct{ err error }

func (r brokenUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, r.err }
func (r brokenUsers) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, r.err
}
func (r brokenUsers) GetUserByID(context.Context, string) (*models.User, error) { return nil, r.err }
func (r brokenUsers) Update(context.Context, *models.User) error                { return r.err }

type brokenTasks struct{ err error }

func (r brokenTasks) Create(context.Context, *models.Task) (*models.Task, error) { return nil, r.err }
func (r brokenTasks) ListByUser(context.Context, string) ([]*models.Task, error) { return nil, r.err }
func (r brokenTasks) Get(context.Context, string, string) (*models.Task, error)  { return nil, r.err }
func (r brokenTasks) Update(context.Context, *models.Task) error                 { return r.err }
func (r brokenTasks) Delete(context.Context, string, string) error               { return r.err }

var errDB = errors.New("db error: connection reset")

func ptr[T any](v T) *T { return &v }

func hasPrefix(s, prefix string) bool { return strings.HasPrefix(s, prefix) }

package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.Create(ctx, &models.User{ID: "u1", Name: "Ann", Email: "ann@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	byEmail, err := repo.GetUserByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	byID, err := repo.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "h", byID.PasswordHash)

	byID.Name = "mutated"
	again, err := repo.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.Name, "stored value must not alias returned value")

	_, err = repo.GetUserByEmail(ctx, "ghost@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = repo.GetUserByID(ctx, "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.Create(ctx, &models.User{ID: "u1", Email: "ann@x.com"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{ID: "u2", Email: "ann@x.com"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestMemoryRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.Create(ctx, &models.User{ID: "u1", Name: "Ann", Email: "ann@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.User{ID: "u2", Name: "Bob", Email: "bob@x.com"})
	require.NoError(t, err)

	err = repo.Update(ctx, &models.User{ID: "u1", Name: "Anna", Email: "anna@x.com", University: "MIT"})
	require.NoError(t, err)

	u, err := repo.GetUserByEmail(ctx, "anna@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Anna", u.Name)
	assert.Equal(t, "MIT", u.University)
	assert.Equal(t, "h", u.PasswordHash, "password hash is kept")

	_, err = repo.GetUserByEmail(ctx, "ann@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound, "old email is released")

	err = repo.Update(ctx, &models.User{ID: "u2", Name: "Bob", Email: "anna@x.com"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	err = repo.Update(ctx, &models.User{ID: "ghost", Email: "g@x.com"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

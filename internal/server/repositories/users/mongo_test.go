package users

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// newMongoRepo connects to the server named by GOPHTASKS_TEST_MONGO_URI and
// returns a repository on a throwaway database.
func newMongoRepo(t *testing.T) *MongoRepository {
	t.Helper()

	uri := os.Getenv("GOPHTASKS_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("GOPHTASKS_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("gophtasks_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx := context.Background()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	repo := NewMongoRepository(db)
	require.NoError(t, repo.EnsureIndexes(ctx))
	return repo
}

func TestMongoRepository_Lifecycle(t *testing.T) {
	repo := newMongoRepo(t)
	ctx := context.Background()

	u := &models.User{ID: uuid.NewString(), Name: "Ann", Email: "ann@x.com", PasswordHash: "h", CreatedAt: time.Now().UTC()}
	_, err := repo.Create(ctx, u)
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{ID: uuid.NewString(), Email: "ann@x.com"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	got, err := repo.GetUserByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "h", got.PasswordHash)

	got.Address = "Main st"
	require.NoError(t, repo.Update(ctx, got))

	byID, err := repo.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main st", byID.Address)

	_, err = repo.GetUserByID(ctx, "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &models.User{ID: "ghost"}), common.ErrorNotFound)
}

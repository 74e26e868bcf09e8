package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arent-kient/api-key-dashboard/internal/database/repository"
	"github.com/arent-kient/api-key-dashboard/internal/database/testdb"
	"github.com/arent-kient/api-key-dashboard/internal/models"
)

func newTestAPIKeyRepository(t *testing.T) *repository.APIKeyRepository {
	t.Helper()
	return repository.NewAPIKeyRepository(testdb.Open(t))
}

func seedKey(t *testing.T, repo *repository.APIKeyRepository, name, key string, createdAt time.Time) *models.APIKey {
	t.Helper()
	created, err := repo.Create(context.Background(), &models.APIKey{
		Name:      name,
		Key:       key,
		Type:      models.KeyTypeDev,
		CreatedAt: createdAt,
		LastUsed:  createdAt,
	})
	require.NoError(t, err)
	return created
}

func TestAPIKeyRepositoryListNewestFirst(t *testing.T) {
	repo := newTestAPIKeyRepository(t)
	base := time.Now().Add(-time.Hour)
	seedKey(t, repo, "oldest", "key-1", base)
	seedKey(t, repo, "newest", "key-3", base.Add(2*time.Minute))
	seedKey(t, repo, "middle", "key-2", base.Add(time.Minute))

	keys, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 3)
	assert.Equal(t, "newest", keys[0].Name)
	assert.Equal(t, "middle", keys[1].Name)
	assert.Equal(t, "oldest", keys[2].Name)
}

func TestAPIKeyRepositoryListPage(t *testing.T) {
	repo := newTestAPIKeyRepository(t)
	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		seedKey(t, repo, name, "key-"+name, base.Add(time.Duration(i)*time.Minute))
	}

	keys, total, err := repo.ListPage(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, keys, 2)
	assert.Equal(t, "c", keys[0].Name)
	assert.Equal(t, "b", keys[1].Name)
}

func TestAPIKeyRepositoryCreateAssignsID(t *testing.T) {
	repo := newTestAPIKeyRepository(t)
	created := seedKey(t, repo, "first", "key-1", time.Now())

	_, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, created.Usage)
	assert.Nil(t, created.MonthlyLimit)
}

func TestAPIKeyRepositoryDuplicateKey(t *testing.T) {
	repo := newTestAPIKeyRepository(t)
	seedKey(t, repo, "first", "same-key", time.Now())

	_, err := repo.Create(context.Background(), &models.APIKey{Name: "second", Key: "same-key", Type: models.KeyTypeProd})
	require.ErrorIs(t, err, repository.ErrDuplicateKey)
}

func TestAPIKeyRepositoryGet(t *testing.T) {
	repo := newTestAPIKeyRepository(t)
	created := seedKey(t, repo, "first", "key-1", time.Now())
	ctx := context.Background()

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)

	got, err = repo.GetByKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetByKey(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAPIKeyRepositoryUpdate(t *testing.T) {
	repo := newTestAPIKeyRepository(t)
	created := seedKey(t, repo, "before", "key-1", time.Now())
	ctx := context.Background()

	updated, err := repo.Update(ctx, created.ID, map[string]interface{}{"name": "after"})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Name)
	assert.Equal(t, "key-1", updated.Key)

	_, err = repo.Update(ctx, uuid.NewString(), map[string]interface{}{"name": "ghost"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAPIKeyRepositoryDelete(t *testing.T) {
	repo := newTestAPIKeyRepository(t)
	created := seedKey(t, repo, "doomed", "key-1", time.Now())
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err := repo.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.Delete(ctx, created.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arent-kient/api-key-dashboard/internal/database/repository"
	"github.com/arent-kient/api-key-dashboard/internal/database/testdb"
	"github.com/arent-kient/api-key-dashboard/internal/models"
)

func TestUserRepositoryUpsertFromProfile(t *testing.T) {
	repo := repository.NewUserRepository(testdb.Open(t))
	ctx := context.Background()

	first, err := repo.UpsertFromProfile(ctx, &models.GoogleProfile{
		Subject: "google-1",
		Email:   "ada@example.com",
		Name:    "Ada",
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.NotNil(t, first.LastLoginAt)

	second, err := repo.UpsertFromProfile(ctx, &models.GoogleProfile{
		Subject: "google-1",
		Email:   "ada@example.com",
		Name:    "Ada Lovelace",
		Picture: "https://example.com/ada.png",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ada Lovelace", second.Name)

	stored, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/ada.png", stored.Picture)
}

func TestUserRepositoryIncrementTokenVersion(t *testing.T) {
	repo := repository.NewUserRepository(testdb.Open(t))
	ctx := context.Background()

	user, err := repo.UpsertFromProfile(ctx, &models.GoogleProfile{Email: "grace@example.com", Name: "Grace"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, user.TokenVersion)

	require.NoError(t, repo.IncrementTokenVersion(ctx, user.ID))
	require.NoError(t, repo.IncrementTokenVersion(ctx, user.ID))

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stored.TokenVersion)

	err = repo.IncrementTokenVersion(ctx, uuid.NewString())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

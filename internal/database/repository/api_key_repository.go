package repository

import (
	"context"

	"github.com/arent-kient/api-key-dashboard/internal/models"
	"gorm.io/gorm"
)

// APIKeyRepository handles database operations for APIKey entities
type APIKeyRepository struct {
	db *gorm.DB
}

// NewAPIKeyRepository creates a new APIKeyRepository instance
func NewAPIKeyRepository(db *gorm.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// List retrieves every API key, newest first
func (r *APIKeyRepository) List(ctx context.Context) ([]models.APIKey, error) {
	var apiKeys []models.APIKey
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&apiKeys).Error; err != nil {
		return nil, translateError(err)
	}
	return apiKeys, nil
}

// ListPage retrieves one page of API keys, newest first, with the total count
func (r *APIKeyRepository) ListPage(ctx context.Context, offset, limit int) ([]models.APIKey, int64, error) {
	var apiKeys []models.APIKey
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.APIKey{}).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&apiKeys).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return apiKeys, total, nil
}

// GetByID retrieves an API key by its ID
func (r *APIKeyRepository) GetByID(ctx context.Context, id string) (*models.APIKey, error) {
	var apiKey models.APIKey
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&apiKey).Error; err != nil {
		return nil, translateError(err)
	}
	return &apiKey, nil
}

// GetByKey retrieves an API key by its key value
func (r *APIKeyRepository) GetByKey(ctx context.Context, key string) (*models.APIKey, error) {
	var apiKey models.APIKey
	if err := r.db.WithContext(ctx).Where(map[string]interface{}{"key": key}).First(&apiKey).Error; err != nil {
		return nil, translateError(err)
	}
	return &apiKey, nil
}

// Create adds a new API key
func (r *APIKeyRepository) Create(ctx context.Context, apiKey *models.APIKey) (*models.APIKey, error) {
	if err := r.db.WithContext(ctx).Create(apiKey).Error; err != nil {
		return nil, translateError(err)
	}
	return apiKey, nil
}

// Update applies a partial update and returns the stored row
func (r *APIKeyRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*models.APIKey, error) {
	result := r.db.WithContext(ctx).Model(&models.APIKey{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	// Zero affected rows is resolved by the lookup: a missing id yields ErrNotFound
	return r.GetByID(ctx, id)
}

// Delete removes an API key by its ID
func (r *APIKeyRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.APIKey{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package api_key

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/arent-kient/api-key-dashboard/internal/database/repository"
	"github.com/arent-kient/api-key-dashboard/internal/keycodec"
	"github.com/arent-kient/api-key-dashboard/internal/metrics"
	"github.com/arent-kient/api-key-dashboard/internal/models"
	"github.com/arent-kient/api-key-dashboard/internal/services/events"
	"github.com/arent-kient/api-key-dashboard/internal/utils"
)

// maxGenerateAttempts bounds key regeneration after a unique constraint hit
const maxGenerateAttempts = 3

// Service handles API key operations
type Service struct {
	apiKeyRepo *repository.APIKeyRepository
	publisher  events.Publisher
	generate   func(keyType string) (string, error)
}

// NewService creates a new API key service. A nil publisher discards events.
func NewService(db *gorm.DB, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Service{
		apiKeyRepo: repository.NewAPIKeyRepository(db),
		publisher:  publisher,
		generate:   keycodec.Generate,
	}
}

// List returns every key, newest first
func (s *Service) List(ctx context.Context) (keys []models.APIKey, err error) {
	defer func() { metrics.ObserveKeyOperation("list", err) }()

	keys, err = s.apiKeyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	if keys == nil {
		keys = []models.APIKey{}
	}
	return keys, nil
}

// ListPage returns one page of keys, newest first, with pagination metadata
func (s *Service) ListPage(ctx context.Context, params utils.PaginationParams) (keys []models.APIKey, info utils.PaginationResponse, err error) {
	defer func() { metrics.ObserveKeyOperation("list", err) }()

	keys, total, err := s.apiKeyRepo.ListPage(ctx, params.Offset(), params.PageSize)
	if err != nil {
		return nil, utils.PaginationResponse{}, fmt.Errorf("failed to list API keys: %w", err)
	}
	if keys == nil {
		keys = []models.APIKey{}
	}
	return keys, utils.CalculatePaginationInfo(int(total), params.Page, params.PageSize), nil
}

// Get returns the key with the given id
func (s *Service) Get(ctx context.Context, id string) (key *models.APIKey, err error) {
	defer func() { metrics.ObserveKeyOperation("get", err) }()

	if !isID(id) {
		return nil, repository.ErrNotFound
	}
	key, err = s.apiKeyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get API key: %w", err)
	}
	return key, nil
}

// Create generates a key for params and stores it. Generation is retried a
// bounded number of times when the generated key collides with a stored one.
func (s *Service) Create(ctx context.Context, params models.CreateAPIKeyParams) (key *models.APIKey, err error) {
	defer func() { metrics.ObserveKeyOperation("create", err) }()

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	keyType, err := normalizeType(params.Type)
	if err != nil {
		return nil, err
	}
	if err := validateLimit(params.MonthlyLimit); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		var raw string
		raw, err = s.generate(keyType)
		if err != nil {
			return nil, fmt.Errorf("failed to generate API key: %w", err)
		}

		key, err = s.insert(ctx, name, keyType, raw, params.MonthlyLimit)
		if err == nil {
			return key, nil
		}
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return nil, err
		}
		logrus.Warnf("Generated API key collided with an existing key (attempt %d/%d)", attempt, maxGenerateAttempts)
	}
	return nil, err
}

// Insert stores a key whose value was generated by the caller
func (s *Service) Insert(ctx context.Context, req models.CreateAPIKeyRequest) (key *models.APIKey, err error) {
	defer func() { metrics.ObserveKeyOperation("insert", err) }()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if strings.TrimSpace(req.Type) == "" {
		return nil, invalid("type", "is required")
	}
	keyType, err := normalizeType(req.Type)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Key) == "" {
		return nil, invalid("key", "is required")
	}
	limit := req.MonthlyLimit
	if limit != nil && *limit == 0 {
		// 0 means unlimited on the REST API
		limit = nil
	}
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	return s.insert(ctx, name, keyType, req.Key, limit)
}

func (s *Service) insert(ctx context.Context, name, keyType, raw string, limit *int) (*models.APIKey, error) {
	now := time.Now().UTC()
	key, err := s.apiKeyRepo.Create(ctx, &models.APIKey{
		Name:         name,
		Key:          raw,
		Type:         keyType,
		Usage:        0,
		MonthlyLimit: limit,
		CreatedAt:    now,
		LastUsed:     now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create API key: %w", err)
	}
	s.publisher.Publish(ctx, events.New(ctx, models.KeyEventCreated, key))
	return key, nil
}

// Patch applies a partial update. Only name, type, usage, monthly_limit and
// last_used may change.
func (s *Service) Patch(ctx context.Context, id string, fields map[string]interface{}) (key *models.APIKey, err error) {
	defer func() { metrics.ObserveKeyOperation("patch", err) }()

	if !isID(id) {
		return nil, repository.ErrNotFound
	}
	updates, err := normalizePatch(fields)
	if err != nil {
		return nil, err
	}

	key, err = s.apiKeyRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update API key: %w", err)
	}
	s.publisher.Publish(ctx, events.New(ctx, models.KeyEventUpdated, key))
	return key, nil
}

// Delete removes a key. A missing id is ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) (err error) {
	defer func() { metrics.ObserveKeyOperation("delete", err) }()

	if !isID(id) {
		return repository.ErrNotFound
	}
	if err := s.apiKeyRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete API key: %w", err)
	}
	s.publisher.Publish(ctx, events.New(ctx, models.KeyEventDeleted, &models.APIKey{ID: id}))
	return nil
}

// ValidateKey looks up a raw key value. Usage and last_used are left untouched.
func (s *Service) ValidateKey(ctx context.Context, raw string) (key *models.APIKey, err error) {
	defer func() { metrics.ObserveKeyOperation("validate", err) }()

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, repository.ErrNotFound
	}
	key, err = s.apiKeyRepo.GetByKey(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to validate API key: %w", err)
	}
	return key, nil
}

func isID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func normalizeType(keyType string) (string, error) {
	normalized, err := keycodec.NormalizeType(keyType)
	if err != nil {
		return "", invalid("type", "must be one of development, production, dev, prod")
	}
	return normalized, nil
}

func validateLimit(limit *int) error {
	if limit != nil && *limit <= 0 {
		return invalid("monthly_limit", "must be a positive integer")
	}
	return nil
}

// normalizePatch checks field names and coerces decoded JSON values to column types
func normalizePatch(fields map[string]interface{}) (map[string]interface{}, error) {
	if len(fields) == 0 {
		return nil, invalid("", "no fields to update")
	}

	updates := make(map[string]interface{}, len(fields))
	for field, value := range fields {
		switch field {
		case "id", "key", "created_at":
			return nil, invalid(field, "is immutable")
		case "name":
			name, ok := value.(string)
			if !ok || strings.TrimSpace(name) == "" {
				return nil, invalid(field, "must be a non-empty string")
			}
			updates["name"] = strings.TrimSpace(name)
		case "type":
			raw, ok := value.(string)
			if !ok {
				return nil, invalid(field, "must be a string")
			}
			keyType, err := normalizeType(raw)
			if err != nil {
				return nil, err
			}
			updates["type"] = keyType
		case "usage":
			usage, err := utils.ToInt(value)
			if err != nil || usage < 0 {
				return nil, invalid(field, "must be a non-negative integer")
			}
			updates["usage"] = usage
		case "monthly_limit":
			limit, err := utils.ToOptionalInt(value)
			if err != nil {
				return nil, invalid(field, "must be a positive integer or null")
			}
			if err := validateLimit(limit); err != nil {
				return nil, err
			}
			updates["monthly_limit"] = limit
		case "last_used":
			ts, err := utils.ToTime(value)
			if err != nil {
				return nil, invalid(field, "must be an RFC 3339 timestamp")
			}
			updates["last_used"] = ts
		default:
			return nil, invalid(field, "is not a known field")
		}
	}
	return updates, nil
}

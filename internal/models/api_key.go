package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Key environment tags stored in the type column
const (
	KeyTypeDev  = "dev"
	KeyTypeProd = "prod"
)

// DefaultKeyName is used when a key is created without a name
const DefaultKeyName = "New API Key"

// APIKey represents an API key record managed from the dashboard
type APIKey struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"type:text;not null;index:api_keys_name_idx"`
	Key          string    `json:"key" gorm:"type:text;not null;uniqueIndex"`
	Type         string    `json:"type" gorm:"type:text;not null;index:api_keys_type_idx"`
	Usage        int       `json:"usage" gorm:"default:0"`
	MonthlyLimit *int      `json:"monthly_limit"`
	CreatedAt    time.Time `json:"created_at"`
	LastUsed     time.Time `json:"last_used"`
}

// TableName specifies the table name for the APIKey model
func (APIKey) TableName() string {
	return "api_keys"
}

// BeforeCreate assigns the primary key when the caller did not
func (k *APIKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	return nil
}

// CreateAPIKeyRequest is the body accepted by POST /api/keys
type CreateAPIKeyRequest struct {
	Name         string `json:"name" example:"My Key"`
	Type         string `json:"type" example:"dev"`
	Key          string `json:"key" example:"arent-kient-dev-AbC123..."`
	MonthlyLimit *int   `json:"monthly_limit,omitempty" example:"1000"`
}

// CreateAPIKeyParams carries the caller input for a new key
type CreateAPIKeyParams struct {
	Name         string
	Type         string
	MonthlyLimit *int
}

// APIKeyResponse wraps a single key in the data envelope
type APIKeyResponse struct {
	Data APIKey `json:"data"`
}

// APIKeyListResponse wraps a key list in the data envelope
type APIKeyListResponse struct {
	Data []APIKey `json:"data"`
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is returned by DELETE /api/keys/{id}
type SuccessResponse struct {
	Success bool `json:"success"`
}

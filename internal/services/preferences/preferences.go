// Package preferences stores small per-user and per-session UI settings.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Preference names
const (
	DarkMode         = "dark_mode"
	SidebarCollapsed = "sidebar_collapsed"
	APIKeyValidated  = "api_key_validated"
	APIKey           = "api_key"
)

// ErrNotFound is returned by Get for keys that are unset or expired
var ErrNotFound = errors.New("preference not set")

// Store is a string key-value store. A zero ttl means no expiry.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// UserKey scopes a preference to a user
func UserKey(userID, name string) string {
	return fmt.Sprintf("user:%s:%s", userID, name)
}

// SessionKey scopes a preference to a browser session
func SessionKey(sessionID, name string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, name)
}

// GetBool reads a flag stored by SetBool. Unset keys and store errors read as false.
func GetBool(ctx context.Context, store Store, key string) bool {
	value, err := store.Get(ctx, key)
	return err == nil && value == "true"
}

// SetBool stores a flag
func SetBool(ctx context.Context, store Store, key string, value bool, ttl time.Duration) error {
	return store.Set(ctx, key, fmt.Sprintf("%t", value), ttl)
}

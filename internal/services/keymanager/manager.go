// Package keymanager holds the per-session view of the key list and the
// actions the dashboard performs on it.
package keymanager

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/arent-kient/api-key-dashboard/internal/database/repository"
	"github.com/arent-kient/api-key-dashboard/internal/keycodec"
	"github.com/arent-kient/api-key-dashboard/internal/models"
	"github.com/arent-kient/api-key-dashboard/internal/services/api_key"
	"github.com/arent-kient/api-key-dashboard/internal/utils"
)

// Repository is the CRUD boundary the manager drives. It is implemented by
// the in-process key service and by the HTTP client.
type Repository interface {
	List(ctx context.Context) ([]models.APIKey, error)
	Create(ctx context.Context, params models.CreateAPIKeyParams) (*models.APIKey, error)
	Patch(ctx context.Context, id string, fields map[string]interface{}) (*models.APIKey, error)
	Delete(ctx context.Context, id string) error
}

// KeyActions is everything the dashboard can ask of a manager
type KeyActions interface {
	Refresh(ctx context.Context) Result
	Create(ctx context.Context, name, keyType string, limited bool, limit int) Result
	Rename(ctx context.Context, id, name string) Result
	Remove(ctx context.Context, id string) Result
	ToggleVisibility(id string) bool
	DisplayValue(key, id string) string
	Snapshot() Snapshot
}

// Result is the outcome of a manager action
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Snapshot is a copy of the manager state safe to render
type Snapshot struct {
	Keys    []models.APIKey
	Loading bool
	Loaded  bool
	Error   string
	Visible map[string]bool
}

// TotalUsage sums usage across the snapshot's keys
func (s Snapshot) TotalUsage() int {
	total := 0
	for _, k := range s.Keys {
		total += k.Usage
	}
	return total
}

var errMissingID = errors.New("no key ID provided")

// Manager holds the key list, per-key visibility and loading/error state.
// Create reloads the whole list; Rename and Remove patch local state.
type Manager struct {
	repo Repository

	mu      sync.Mutex
	keys    []models.APIKey
	loading bool
	loaded  bool
	err     string
	visible map[string]bool
}

var _ KeyActions = (*Manager)(nil)

// New creates a manager over repo. The list is empty until Refresh.
func New(repo Repository) *Manager {
	return &Manager{
		repo:    repo,
		visible: make(map[string]bool),
	}
}

// Refresh reloads the list. On failure the previous keys are kept.
func (m *Manager) Refresh(ctx context.Context) Result {
	m.mu.Lock()
	m.loading = true
	m.err = ""
	m.mu.Unlock()

	keys, err := m.repo.List(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		return m.failLocked("refresh", err, "Failed to load API keys")
	}
	if keys == nil {
		keys = []models.APIKey{}
	}
	m.keys = keys
	m.loaded = true
	return Result{Success: true}
}

// Create adds a key and reloads the list. An empty name becomes the default
// name and limited=false stores no monthly limit.
func (m *Manager) Create(ctx context.Context, name, keyType string, limited bool, limit int) Result {
	params := models.CreateAPIKeyParams{
		Name: strings.TrimSpace(name),
		Type: keyType,
	}
	if params.Name == "" {
		params.Name = models.DefaultKeyName
	}
	if limited {
		params.MonthlyLimit = &limit
	}

	if _, err := m.repo.Create(ctx, params); err != nil {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.failLocked("create", err, "Failed to create API key")
	}
	// A failed reload records its own error; the key is stored either way.
	m.Refresh(ctx)
	return Result{Success: true}
}

// Rename changes a key's name and updates the local entry without reloading
func (m *Manager) Rename(ctx context.Context, id, name string) Result {
	if id == "" {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.failLocked("rename", errMissingID, errMissingID.Error())
	}

	_, err := m.repo.Patch(ctx, id, map[string]interface{}{"name": name})

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		return m.failLocked("rename", err, "Failed to update API key")
	}
	if name = strings.TrimSpace(name); name != "" {
		for i := range m.keys {
			if m.keys[i].ID == id {
				m.keys[i].Name = name
			}
		}
	}
	return Result{Success: true}
}

// Remove deletes a key and drops it and its visibility flag locally
func (m *Manager) Remove(ctx context.Context, id string) Result {
	if id == "" {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.failLocked("remove", errMissingID, errMissingID.Error())
	}

	err := m.repo.Delete(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		return m.failLocked("remove", err, "Failed to delete API key")
	}
	kept := m.keys[:0]
	for _, k := range m.keys {
		if k.ID != id {
			kept = append(kept, k)
		}
	}
	m.keys = kept
	delete(m.visible, id)
	return Result{Success: true}
}

// ToggleVisibility flips the reveal flag for id and returns the new value
func (m *Manager) ToggleVisibility(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible[id] = !m.visible[id]
	return m.visible[id]
}

// DisplayValue returns key in full when id is revealed, masked otherwise
func (m *Manager) DisplayValue(key, id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.visible[id] {
		return key
	}
	return keycodec.Mask(key)
}

// Snapshot copies the current state
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]models.APIKey, len(m.keys))
	copy(keys, m.keys)
	visible := make(map[string]bool, len(m.visible))
	for id, v := range m.visible {
		if v {
			visible[id] = true
		}
	}
	return Snapshot{
		Keys:    keys,
		Loading: m.loading,
		Loaded:  m.loaded,
		Error:   m.err,
		Visible: visible,
	}
}

// ClearError dismisses the current error message
func (m *Manager) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = ""
}

// failLocked records err as the manager error and converts it to a Result.
// m.mu must be held.
func (m *Manager) failLocked(action string, err error, fallback string) Result {
	message := userMessage(err, fallback)
	m.err = message

	logrus.WithField("action", action).Errorf("API key %s failed: %v", action, err)
	utils.CaptureError(err, map[string]string{"component": "keymanager", "action": action})
	return Result{Success: false, Error: message}
}

// publicError is implemented by errors that already carry a displayable message
type publicError interface {
	PublicMessage() string
}

// userMessage turns err into text for the dashboard. Store outages and
// unclassified errors show fallback instead of wrapped driver output.
func userMessage(err error, fallback string) string {
	var validationErr *api_key.ValidationError
	var public publicError
	switch {
	case errors.Is(err, errMissingID):
		return errMissingID.Error()
	case errors.Is(err, keycodec.ErrInvalidType):
		return keycodec.ErrInvalidType.Error()
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.Is(err, repository.ErrNotFound):
		return "API key not found"
	case errors.Is(err, repository.ErrDuplicateKey):
		return "An API key with this value already exists"
	case errors.Is(err, repository.ErrStoreUnavailable):
		return fallback
	case errors.As(err, &public) && public.PublicMessage() != "":
		return public.PublicMessage()
	default:
		return fallback
	}
}

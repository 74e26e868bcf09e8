// Package client is a key repository backed by the dashboard REST API.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/arent-kient/api-key-dashboard/internal/database/repository"
	"github.com/arent-kient/api-key-dashboard/internal/keycodec"
	"github.com/arent-kient/api-key-dashboard/internal/models"
	"github.com/arent-kient/api-key-dashboard/internal/services/auth"
	"github.com/arent-kient/api-key-dashboard/internal/services/keymanager"
)

// DefaultTimeout applies when New is given a non-positive timeout
const DefaultTimeout = 10 * time.Second

const maxGenerateAttempts = 3

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// PublicMessage is the error text the server chose to expose
func (e *APIError) PublicMessage() string {
	return e.Message
}

// Unwrap maps the status onto the repository and auth sentinels
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return repository.ErrNotFound
	case http.StatusConflict:
		return repository.ErrDuplicateKey
	case http.StatusServiceUnavailable:
		return repository.ErrStoreUnavailable
	case http.StatusUnauthorized:
		return auth.ErrAuthRequired
	}
	return nil
}

// Client talks to /api/keys
type Client struct {
	http     *resty.Client
	generate func(keyType string) (string, error)
}

var _ keymanager.Repository = (*Client)(nil)

// New creates a client for the server at baseURL. token, when set, is sent
// as a Bearer session token.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("User-Agent", "keyctl/1.0").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	if token != "" {
		httpClient.SetAuthToken(token)
	}
	return &Client{http: httpClient, generate: keycodec.Generate}
}

type listResponse struct {
	Data []models.APIKey `json:"data"`
}

type keyResponse struct {
	Data models.APIKey `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// List returns every key, newest first
func (c *Client) List(ctx context.Context) ([]models.APIKey, error) {
	var out listResponse
	if err := c.do(ctx, http.MethodGet, "/api/keys", "", nil, &out); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	if out.Data == nil {
		out.Data = []models.APIKey{}
	}
	return out.Data, nil
}

// Get returns one key
func (c *Client) Get(ctx context.Context, id string) (*models.APIKey, error) {
	var out keyResponse
	if err := c.do(ctx, http.MethodGet, "/api/keys/{id}", id, nil, &out); err != nil {
		return nil, fmt.Errorf("get key %s: %w", id, err)
	}
	return &out.Data, nil
}

// Create generates a key locally and stores it, regenerating on a collision
func (c *Client) Create(ctx context.Context, params models.CreateAPIKeyParams) (*models.APIKey, error) {
	keyType, err := keycodec.NormalizeType(params.Type)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		raw, err := c.generate(keyType)
		if err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}

		var out keyResponse
		err = c.do(ctx, http.MethodPost, "/api/keys", "", models.CreateAPIKeyRequest{
			Name:         params.Name,
			Type:         keyType,
			Key:          raw,
			MonthlyLimit: params.MonthlyLimit,
		}, &out)
		if err == nil {
			return &out.Data, nil
		}
		if !errors.Is(err, repository.ErrDuplicateKey) || attempt >= maxGenerateAttempts {
			return nil, fmt.Errorf("create key: %w", err)
		}
	}
}

// Patch updates the given fields of a key
func (c *Client) Patch(ctx context.Context, id string, fields map[string]interface{}) (*models.APIKey, error) {
	var out keyResponse
	if err := c.do(ctx, http.MethodPatch, "/api/keys/{id}", id, fields, &out); err != nil {
		return nil, fmt.Errorf("update key %s: %w", id, err)
	}
	return &out.Data, nil
}

// Delete removes a key
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/keys/{id}", id, nil, nil); err != nil {
		return fmt.Errorf("delete key %s: %w", id, err)
	}
	return nil
}

// Export writes the server's xlsx export to w
func (c *Client) Export(ctx context.Context, w io.Writer) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "*/*").
		SetError(&errorResponse{}).
		Get("/api/keys/export")
	if err != nil {
		return fmt.Errorf("export request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("export keys: %w", apiError(resp))
	}
	_, err = w.Write(resp.Body())
	return err
}

// do sends one request. id fills the {id} path parameter and is escaped by resty.
func (c *Client) do(ctx context.Context, method, path, id string, body, result interface{}) error {
	req := c.http.R().SetContext(ctx).SetError(&errorResponse{})
	if strings.Contains(path, "{id}") {
		req.SetPathParam("id", id)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func apiError(resp *resty.Response) error {
	message := strings.TrimSpace(resp.String())
	if body, ok := resp.Error().(*errorResponse); ok && body.Error != "" {
		message = body.Error
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode())
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: message}
}

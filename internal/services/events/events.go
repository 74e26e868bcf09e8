// Package events fans API key change notifications out to SSE clients and RabbitMQ.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/arent-kient/api-key-dashboard/internal/models"
)

// Publisher receives key events after a change has been committed.
// Implementations must not block the caller for long and never fail the write.
type Publisher interface {
	Publish(ctx context.Context, event models.KeyEvent)
}

// Multi publishes every event to each of its publishers in order
type Multi []Publisher

// Publish implements Publisher
func (m Multi) Publish(ctx context.Context, event models.KeyEvent) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, event)
		}
	}
}

// Discard drops every event
type Discard struct{}

// Publish implements Publisher
func (Discard) Publish(context.Context, models.KeyEvent) {}

// New builds a key event stamped with the origin carried by ctx
func New(ctx context.Context, eventType string, key *models.APIKey) models.KeyEvent {
	event := models.KeyEvent{
		Type:   eventType,
		At:     time.Now().UTC(),
		Origin: OriginFromContext(ctx),
	}
	if key != nil {
		event.KeyID = key.ID
		event.Name = key.Name
	}
	return event
}

type originKey struct{}

// WithOrigin tags ctx with the client that is making the change
func WithOrigin(ctx context.Context, origin string) context.Context {
	if origin == "" {
		return ctx
	}
	return context.WithValue(ctx, originKey{}, origin)
}

// OriginFromContext returns the origin set by WithOrigin, or ""
func OriginFromContext(ctx context.Context) string {
	origin, _ := ctx.Value(originKey{}).(string)
	return origin
}

// OriginID derives a stable public identifier for a browser session.
// The session id itself is never sent to other clients.
func OriginID(sessionID string) string {
	if sessionID == "" {
		return ""
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("key-events:"+sessionID)).String()
}

package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/arent-kient/api-key-dashboard/internal/middleware"
	"github.com/arent-kient/api-key-dashboard/internal/services/events"
)

// EventsHandler streams key change events to dashboards
type EventsHandler struct {
	hub *events.Hub
}

// NewEventsHandler creates a new EventsHandler instance
func NewEventsHandler(hub *events.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream handles GET /api/keys/events
// @Summary Stream key changes via Server-Sent Events (SSE)
// @Description Emits a "key" event for every create, update and delete. Events never carry the key value.
// @Tags api-keys
// @Produce text/event-stream
// @Success 200 "SSE stream"
// @Router /api/keys/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	clientChan := h.hub.RegisterClient()
	defer h.hub.UnregisterClient(clientChan)

	connected := gin.H{"message": "Connected to key events", "at": time.Now().UTC()}
	if origin := sessionOrigin(c); origin != "" {
		connected["origin"] = origin
	}
	c.SSEvent("connected", connected)
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			logrus.Debug("SSE client disconnected from key events")
			return
		case message, ok := <-clientChan:
			if !ok {
				return
			}
			if _, err := c.Writer.Write(message); err != nil {
				logrus.Errorf("Failed to write SSE message: %v", err)
				return
			}
			c.Writer.Flush()
		}
	}
}

// sessionOrigin is the event origin for the caller's session, if signed in
func sessionOrigin(c *gin.Context) string {
	principal, ok := middleware.GetPrincipal(c)
	if !ok || principal.SessionID == "" {
		return ""
	}
	return events.OriginID(principal.SessionID)
}

// sessionEventContext tags events raised by this request with the caller's
// session so its own dashboard can ignore them
func sessionEventContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if origin := sessionOrigin(c); origin != "" {
		return events.WithOrigin(ctx, origin)
	}
	return ctx
}

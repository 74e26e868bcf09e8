package events

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arent-kient/api-key-dashboard/internal/models"
)

type recordingPublisher struct {
	events []models.KeyEvent
}

func (r *recordingPublisher) Publish(_ context.Context, event models.KeyEvent) {
	r.events = append(r.events, event)
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	first := hub.RegisterClient()
	second := hub.RegisterClient()
	assert.Equal(t, 2, hub.ClientCount())

	hub.Publish(context.Background(), models.KeyEvent{Type: models.KeyEventCreated, KeyID: "k1", Name: "Mine"})

	for _, ch := range []chan []byte{first, second} {
		select {
		case msg := <-ch:
			assert.True(t, strings.HasPrefix(string(msg), "event: key\ndata: "))
			assert.Contains(t, string(msg), `"key_id":"k1"`)
		case <-time.After(time.Second):
			t.Fatal("no message delivered")
		}
	}

	hub.UnregisterClient(first)
	hub.UnregisterClient(first)
	assert.Equal(t, 1, hub.ClientCount())
	_, open := <-first
	assert.False(t, open)
}

func TestHubDropsWhenClientIsFull(t *testing.T) {
	hub := NewHub()
	ch := hub.RegisterClient()

	for i := 0; i < clientBuffer+5; i++ {
		hub.SendHeartbeat()
	}
	assert.Len(t, ch, clientBuffer)
}

func TestMultiSkipsNil(t *testing.T) {
	a, b := &recordingPublisher{}, &recordingPublisher{}
	Multi{a, nil, b}.Publish(context.Background(), models.KeyEvent{Type: models.KeyEventDeleted, KeyID: "k"})

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestNewCarriesOrigin(t *testing.T) {
	ctx := WithOrigin(context.Background(), OriginID("session-1"))
	event := New(ctx, models.KeyEventUpdated, &models.APIKey{ID: "k1", Name: "Renamed", Key: "secret"})

	assert.Equal(t, "k1", event.KeyID)
	assert.Equal(t, "Renamed", event.Name)
	assert.Equal(t, OriginID("session-1"), event.Origin)
	assert.NotEqual(t, "session-1", event.Origin)

	payload, err := json.Marshal(event)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "secret")
}

func TestOriginIDIsStable(t *testing.T) {
	assert.Equal(t, OriginID("abc"), OriginID("abc"))
	assert.NotEqual(t, OriginID("abc"), OriginID("abd"))
	assert.Empty(t, OriginID(""))
}

func TestEncodeDecodeEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	msg, err := encodeEvent(models.KeyEvent{Type: models.KeyEventCreated, KeyID: "k1", At: at}, "instance-a")
	require.NoError(t, err)
	assert.Equal(t, "instance-a", msg.AppId)
	assert.Equal(t, "application/json", msg.ContentType)

	event, err := decodeEvent(msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "k1", event.KeyID)

	_, err = decodeEvent([]byte(`{"type":"created"}`))
	require.Error(t, err)
	_, err = decodeEvent([]byte(`not json`))
	require.Error(t, err)
}

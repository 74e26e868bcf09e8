package models

import "time"

// Key event types
const (
	KeyEventCreated = "created"
	KeyEventUpdated = "updated"
	KeyEventDeleted = "deleted"
)

// KeyEvent describes a change to an API key. It never carries the raw key.
type KeyEvent struct {
	Type   string    `json:"type"`
	KeyID  string    `json:"key_id"`
	Name   string    `json:"name,omitempty"`
	At     time.Time `json:"at"`
	Origin string    `json:"origin,omitempty"`
}

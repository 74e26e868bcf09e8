package keymanager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistryReturnsSameManagerPerSession(t *testing.T) {
	reg := NewRegistry(newMemoryRepo(), 10, time.Hour)

	a := reg.Get("session-a")
	assert.Same(t, a, reg.Get("session-a"))
	assert.NotSame(t, a, reg.Get("session-b"))
	assert.Equal(t, 2, reg.Len())

	reg.Forget("session-a")
	assert.Equal(t, 1, reg.Len())
	assert.NotSame(t, a, reg.Get("session-a"))
}

func TestRegistryEvictsLeastRecentlyUsed(t *testing.T) {
	reg := NewRegistry(newMemoryRepo(), 2, time.Hour)

	first := reg.Get("one")
	reg.Get("two")
	reg.Get("one")
	reg.Get("three")

	assert.Equal(t, 2, reg.Len())
	assert.Same(t, first, reg.Get("one"))
}

func TestRegistryExpiresIdleManagers(t *testing.T) {
	reg := NewRegistry(newMemoryRepo(), 10, 50*time.Millisecond)

	first := reg.Get("idle")
	time.Sleep(120 * time.Millisecond)

	assert.NotSame(t, first, reg.Get("idle"))
}

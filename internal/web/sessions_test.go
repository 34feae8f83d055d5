package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	m := NewSessionManager()

	s, err := m.Create()
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Equal(t, s.ID, got.ID)

	m.Delete(s.ID)
	_, ok = m.Get(s.ID)
	assert.False(t, ok)
}

func TestSessionExpiry(t *testing.T) {
	m := NewSessionManager()
	s, err := m.Create()
	require.NoError(t, err)

	s.ExpiresAt = time.Now().Add(-time.Minute)
	_, ok := m.Get(s.ID)
	assert.False(t, ok)
}

func TestBeginRefreshOncePerSession(t *testing.T) {
	m := NewSessionManager()
	s, err := m.Create()
	require.NoError(t, err)

	assert.True(t, s.BeginRefresh())
	assert.False(t, s.BeginRefresh())
	assert.False(t, s.BeginRefresh())
}

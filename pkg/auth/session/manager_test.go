package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/buybuddy-backend/pkg/config"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (m *memStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttl[key] = ttl
	return nil
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (m *memStore) GetDel(ctx context.Context, key string) (string, error) {
	v, err := m.Get(ctx, key)
	if err == nil {
		_ = m.Del(ctx, key)
	}
	return v, err
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memStore) AccessSessionKey(accessID string) string {
	return "sess:" + accessID
}

func newTestManager(t *testing.T) (*Manager, *memStore) {
	t.Helper()
	store := newMemStore()
	m, err := NewManager(store, config.JWTConfig{ExpirationMinutes: 15, SessionTTLMinutes: 60 * 24})
	require.NoError(t, err)
	return m, store
}

func TestNewManagerValidatesTTLs(t *testing.T) {
	_, err := NewManager(nil, config.JWTConfig{SessionTTLMinutes: 60})
	assert.Error(t, err)
	_, err = NewManager(newMemStore(), config.JWTConfig{})
	assert.Error(t, err)
	_, err = NewManager(newMemStore(), config.JWTConfig{ExpirationMinutes: 60, SessionTTLMinutes: 30})
	assert.Error(t, err)
}

func TestGenerateStoresDigestOnly(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	token, err := m.Generate(ctx, "access-1")
	require.NoError(t, err)
	stored := store.data["sess:access-1"]
	assert.NotEqual(t, token, stored)
	assert.Equal(t, digest(token), stored)
	assert.Equal(t, 24*time.Hour, store.ttl["sess:access-1"])

	ok, err := m.HasSession(ctx, "access-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRotateIsSingleUse(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	token, err := m.Generate(ctx, "access-1")
	require.NoError(t, err)

	newID, newToken, err := m.Rotate(ctx, "access-1", token)
	require.NoError(t, err)
	assert.NotEqual(t, "access-1", newID)
	assert.Equal(t, digest(newToken), store.data["sess:"+newID])
	assert.NotContains(t, store.data, "sess:access-1")

	_, _, err = m.Rotate(ctx, "access-1", token)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRotateWithWrongTokenBurnsSession(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	token, err := m.Generate(ctx, "access-1")
	require.NoError(t, err)

	_, _, err = m.Rotate(ctx, "access-1", "guess")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, _, err = m.Rotate(ctx, "access-1", token)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	ok, err := m.HasSession(ctx, "access-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRevoke(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	_, err := m.Generate(ctx, "access-1")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, "access-1"))
	ok, err := m.HasSession(ctx, "access-1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, m.Revoke(ctx, " "))
	_, _, err = m.Rotate(ctx, "", "x")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

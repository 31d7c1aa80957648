package session

import (
	"context"
	"testing"
	"time"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) (*Manager, *InMemoryStore) {
	t.Helper()
	store := NewInMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	codec := auth.NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-chars",
		Issuer: "test",
	}, time.Hour)
	return NewManager(store, codec, time.Hour, zap.NewNop()), store
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(time.Minute)
	defer store.Close()

	data := newData()
	data.UserID = 4
	require.NoError(t, data.Cart.Set(9, 2))
	require.NoError(t, store.Save(ctx, "abc", data, time.Hour))

	loaded, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, uint(4), loaded.UserID)
	assert.Equal(t, 2, loaded.Cart.Quantity(9))

	loaded.Cart.Remove(9)
	again, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, again.Cart.Contains(9), "store must hand out copies")

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(time.Minute)
	defer store.Close()

	require.NoError(t, store.Save(ctx, "old", newData(), -time.Second))
	require.NoError(t, store.Save(ctx, "fresh", newData(), time.Hour))

	_, err := store.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)

	store.cleanup()
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryStore_CloseTwice(t *testing.T) {
	store := NewInMemoryStore(time.Millisecond)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(config.SessionConfig{Store: config.SessionStoreMemory}, nil)
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &InMemoryStore{}, store)

	_, err = NewStore(config.SessionConfig{Store: config.SessionStoreRedis}, nil)
	assert.Error(t, err)

	_, err = NewStore(config.SessionConfig{Store: "file"}, nil)
	assert.Error(t, err)
}

func TestManager_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	s := m.Load(ctx, "")
	assert.True(t, s.IsNew())
	token, err := m.Save(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, token, "untouched anonymous sessions are not stored")

	require.NoError(t, s.Cart().Set(3, 1))
	s.MarkModified()
	s.AddFlash(FlashSuccess, "Added")
	token, err = m.Save(ctx, s)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	loaded := m.Load(ctx, token)
	assert.False(t, loaded.IsNew())
	assert.Equal(t, s.ID(), loaded.ID())
	assert.Equal(t, 1, loaded.Cart().Quantity(3))

	flashes := loaded.Flashes()
	require.Len(t, flashes, 1)
	assert.Equal(t, "Added", flashes[0].Message)
	assert.Empty(t, loaded.Flashes())
}

func TestManager_RejectsBadCookies(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	for _, token := range []string{"garbage", "a.b.c"} {
		s := m.Load(ctx, token)
		assert.True(t, s.IsNew())
		assert.False(t, s.IsAuthenticated())
	}

	other := auth.NewJWTService(config.JWTConfig{Secret: "another-secret-key-of-32-characters", Issuer: "test"}, time.Hour)
	forged, err := other.SignSession("someone-elses-session")
	require.NoError(t, err)
	assert.True(t, m.Load(ctx, forged).IsNew())
}

func TestSession_AuthenticateRotatesID(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)

	anon := m.Load(ctx, "")
	require.NoError(t, anon.Cart().Set(5, 2))
	anon.MarkModified()
	token, err := m.Save(ctx, anon)
	require.NoError(t, err)
	anonID := anon.ID()

	s := m.Load(ctx, token)
	s.Authenticate(42)
	assert.NotEqual(t, anonID, s.ID())
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, 2, s.Cart().Quantity(5))

	newToken, err := m.Save(ctx, s)
	require.NoError(t, err)
	_, err = store.Load(ctx, anonID)
	assert.ErrorIs(t, err, ErrNotFound, "the pre-login id must be gone")

	reloaded := m.Load(ctx, newToken)
	assert.Equal(t, uint(42), reloaded.UserID())
}

func TestSession_AuthenticateOtherUser(t *testing.T) {
	tests := []struct {
		name     string
		first    uint
		second   uint
		wantQty  int
		wantFlag bool
	}{
		{name: "same user keeps the cart", first: 7, second: 7, wantQty: 3, wantFlag: true},
		{name: "different user starts empty", first: 7, second: 8, wantQty: 0, wantFlag: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t)
			s := m.Load(context.Background(), "")
			s.Authenticate(tt.first)
			require.NoError(t, s.Cart().Set(5, 3))
			s.AddFlash(FlashInfo, "pending")

			s.Authenticate(tt.second)

			assert.Equal(t, tt.second, s.UserID())
			assert.Equal(t, tt.wantQty, s.Cart().Quantity(5))
			assert.Equal(t, tt.wantFlag, len(s.Flashes()) == 1)
		})
	}
}

func TestSession_Destroy(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)

	s := m.Load(ctx, "")
	s.Authenticate(7)
	require.NoError(t, s.Cart().Set(1, 1))
	token, err := m.Save(ctx, s)
	require.NoError(t, err)
	oldID := s.ID()

	s = m.Load(ctx, token)
	s.Destroy()
	s.AddFlash(FlashInfo, "You have been logged out")
	_, err = m.Save(ctx, s)
	require.NoError(t, err)

	assert.False(t, s.IsAuthenticated())
	assert.True(t, s.Cart().IsEmpty())
	assert.NotEqual(t, oldID, s.ID())
	_, err = store.Load(ctx, oldID)
	assert.ErrorIs(t, err, ErrNotFound)
}

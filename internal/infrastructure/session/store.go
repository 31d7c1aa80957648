// Package session keeps server-side session state (user, cart, flashes)
// keyed by an opaque id carried in a signed cookie.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// ErrNotFound is returned when a session id is unknown or expired
var ErrNotFound = errors.New("session not found")

// Flash levels
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Data is the persisted part of a session
type Data struct {
	UserID  uint       `json:"user_id,omitempty"`
	Cart    *cart.Cart `json:"cart"`
	Flashes []Flash    `json:"flashes,omitempty"`
}

func newData() *Data {
	return &Data{Cart: cart.New()}
}

func decodeData(raw []byte) (*Data, error) {
	data := newData()
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if data.Cart == nil {
		data.Cart = cart.New()
	}
	return data, nil
}

// Store persists session data
type Store interface {
	Load(ctx context.Context, id string) (*Data, error)
	Save(ctx context.Context, id string, data *Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewStore creates the store selected by cfg.Store. client is only used
// by the redis store.
func NewStore(cfg config.SessionConfig, client redis.UniversalClient) (Store, error) {
	switch cfg.Store {
	case config.SessionStoreRedis:
		if client == nil {
			return nil, errors.New("redis session store requires a redis client")
		}
		return NewRedisStore(client, cfg.KeyPrefix), nil
	case config.SessionStoreMemory, "":
		return NewInMemoryStore(cfg.CleanupInterval), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}

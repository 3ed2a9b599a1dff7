package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/angelmondragon/buybuddy-backend/pkg/enums"
)

// OfflinePaymentRef is the reference recorded for cash on delivery.
const OfflinePaymentRef = "PAY_OFFLINE"

// Intent is the short-lived checkout selection of one user: where to ship,
// how to pay, and the stub payment reference once paid.
type Intent struct {
	OwnerID       uuid.UUID           `json:"owner_id"`
	AddressID     uuid.UUID           `json:"address_id"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	PaymentRef    *string             `json:"payment_ref,omitempty"`
	ExpiresAt     time.Time           `json:"expires_at"`
}

// Expired reports whether the intent is past its expiry at now.
func (i Intent) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// ReadyToPlace reports whether the intent carries everything placement needs.
func (i Intent) ReadyToPlace() bool {
	return i.PaymentRef != nil && *i.PaymentRef != ""
}

// IntentStore persists intents keyed by owner.
type IntentStore interface {
	Save(ctx context.Context, intent Intent) error
	Load(ctx context.Context, ownerID uuid.UUID) (*Intent, error)
	Delete(ctx context.Context, ownerID uuid.UUID) error
}

type intentBackend interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutIntentKey(userID string) string
}

type redisIntentStore struct {
	backend intentBackend
	now     func() time.Time
}

// NewRedisIntentStore stores intents as JSON in redis with a TTL matching
// their expiry.
func NewRedisIntentStore(backend intentBackend) (IntentStore, error) {
	if backend == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &redisIntentStore{backend: backend, now: time.Now}, nil
}

func (s *redisIntentStore) Save(ctx context.Context, intent Intent) error {
	ttl := intent.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("intent already expired")
	}
	payload, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("encode intent: %w", err)
	}
	return s.backend.Set(ctx, s.backend.CheckoutIntentKey(intent.OwnerID.String()), payload, ttl)
}

// Load returns nil without error when no live intent exists.
func (s *redisIntentStore) Load(ctx context.Context, ownerID uuid.UUID) (*Intent, error) {
	raw, err := s.backend.Get(ctx, s.backend.CheckoutIntentKey(ownerID.String()))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var intent Intent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return nil, fmt.Errorf("decode intent: %w", err)
	}
	if intent.OwnerID != ownerID || intent.Expired(s.now()) {
		return nil, nil
	}
	return &intent, nil
}

func (s *redisIntentStore) Delete(ctx context.Context, ownerID uuid.UUID) error {
	return s.backend.Del(ctx, s.backend.CheckoutIntentKey(ownerID.String()))
}

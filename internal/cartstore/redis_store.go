package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/greenbean/storefront-backend/internal/app/model"
	"github.com/greenbean/storefront-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	itemsKeyPrefix  = "cart:items:"
	couponKeyPrefix = "cart:coupon:"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a Store persisting carts in Redis with the given
// session TTL. The TTL is refreshed on every save.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) Load(ctx context.Context, sessionID string) (model.Cart, error) {
	raw, err := s.client.Get(ctx, itemsKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Cart{}, nil
	}
	if err != nil {
		logger.Error("Failed to read cart slot", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, fmt.Errorf("failed to read cart slot: %w", err)
	}
	return decodeCart(raw, sessionID), nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, cart model.Cart) error {
	if cart == nil {
		cart = model.Cart{}
	}
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	if err := s.client.Set(ctx, itemsKeyPrefix+sessionID, payload, s.ttl).Err(); err != nil {
		logger.Error("Failed to write cart slot", err, map[string]interface{}{
			"session_id": sessionID,
			"items":      len(cart),
		})
		return fmt.Errorf("failed to write cart slot: %w", err)
	}

	logger.Debug("Cart slot written", map[string]interface{}{
		"session_id": sessionID,
		"items":      len(cart),
	})
	return nil
}

func (s *redisStore) LoadCoupon(ctx context.Context, sessionID string) (*model.Coupon, error) {
	raw, err := s.client.Get(ctx, couponKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to read coupon slot", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, fmt.Errorf("failed to read coupon slot: %w", err)
	}

	var coupon model.Coupon
	if err := json.Unmarshal(raw, &coupon); err != nil {
		// Same tolerance as the cart slot: malformed means not applied.
		logger.Warn("Malformed coupon slot, treating as no coupon", map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, nil
	}
	return &coupon, nil
}

func (s *redisStore) SaveCoupon(ctx context.Context, sessionID string, coupon *model.Coupon) error {
	key := couponKeyPrefix + sessionID
	if coupon == nil {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to clear coupon slot: %w", err)
		}
		return nil
	}

	payload, err := json.Marshal(coupon)
	if err != nil {
		return fmt.Errorf("failed to serialize coupon: %w", err)
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write coupon slot: %w", err)
	}
	return nil
}

// decodeCart parses the slot payload, swallowing parse failures: the cart
// pages treat a corrupt slot as an empty cart rather than an error.
func decodeCart(raw []byte, sessionID string) model.Cart {
	var cart model.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		logger.Warn("Malformed cart slot, treating as empty", map[string]interface{}{
			"session_id": sessionID,
		})
		return model.Cart{}
	}
	return cart
}

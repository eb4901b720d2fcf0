// Package cartstore is the durable storage adapter for session carts. Each
// session owns two slots: a JSON array of line items and a sibling coupon
// slot. Writes overwrite the whole slot unconditionally; concurrent writers
// race and the last write wins. Absent or unparseable content reads back as
// an empty cart, never as an error.
package cartstore

import (
	"context"

	"github.com/greenbean/storefront-backend/internal/app/model"
)

type Store interface {
	// Load reads the session's cart slot. A missing or malformed slot
	// yields an empty cart and a nil error.
	Load(ctx context.Context, sessionID string) (model.Cart, error)
	// Save serializes the full cart and overwrites the slot.
	Save(ctx context.Context, sessionID string, cart model.Cart) error

	// LoadCoupon reads the applied coupon, nil when none is applied.
	LoadCoupon(ctx context.Context, sessionID string) (*model.Coupon, error)
	// SaveCoupon overwrites the coupon slot; nil clears it.
	SaveCoupon(ctx context.Context, sessionID string, coupon *model.Coupon) error
}

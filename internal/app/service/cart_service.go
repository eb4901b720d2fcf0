package service

import (
	"context"
	"errors"

	"github.com/greenbean/storefront-backend/internal/app/model"
	"github.com/greenbean/storefront-backend/internal/cartstore"
	"github.com/greenbean/storefront-backend/internal/notifier"
	"github.com/greenbean/storefront-backend/pkg/logger"
)

var (
	ErrInvalidCoupon        = errors.New("invalid coupon code")
	ErrCouponAlreadyApplied = errors.New("coupon already applied")
)

// CartState is a cart together with its applied coupon, as loaded from the
// session's slots.
type CartState struct {
	Items  model.Cart
	Coupon *model.Coupon
}

// CartService is the single cart engine shared by every page surface.
// Every mutation loads, mutates, saves, then notifies, synchronously in
// that order. Reads between load and save are not transactional across
// instances; the slot is last-write-wins.
type CartService interface {
	GetCart(ctx context.Context, sessionID string) (CartState, error)
	Add(ctx context.Context, sessionID, sourceTab string, draft model.LineItem) (model.Cart, error)
	SetQuantity(ctx context.Context, sessionID, sourceTab, itemID string, quantity int) (model.Cart, error)
	Increment(ctx context.Context, sessionID, sourceTab, itemID string) (model.Cart, error)
	Decrement(ctx context.Context, sessionID, sourceTab, itemID string) (model.Cart, error)
	Remove(ctx context.Context, sessionID, sourceTab, itemID string) (model.Cart, error)
	Clear(ctx context.Context, sessionID, sourceTab string) error
	Replace(ctx context.Context, sessionID, sourceTab string, items model.Cart) (model.Cart, error)
	ApplyCoupon(ctx context.Context, sessionID, sourceTab, code string) (*model.Coupon, error)
	RemoveCoupon(ctx context.Context, sessionID, sourceTab string) error
}

type cartService struct {
	store    cartstore.Store
	notifier *notifier.Notifier
}

func NewCartService(store cartstore.Store, n *notifier.Notifier) CartService {
	return &cartService{store: store, notifier: n}
}

func (s *cartService) GetCart(ctx context.Context, sessionID string) (CartState, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return CartState{}, err
	}
	coupon, err := s.store.LoadCoupon(ctx, sessionID)
	if err != nil {
		return CartState{}, err
	}
	return CartState{Items: cart, Coupon: coupon}, nil
}

func (s *cartService) Add(ctx context.Context, sessionID, sourceTab string, draft model.LineItem) (model.Cart, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"session_id": sessionID,
		"item_id":    draft.ID,
	})

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if idx := cart.Find(draft.ID); idx >= 0 {
		// Repeated add increments, capped at the hard limit.
		if cart[idx].Quantity < model.MaxQuantity {
			cart[idx].Quantity++
		}
	} else {
		draft.Quantity = 1
		cart = append(cart, draft)
	}

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, notifier.Event{
		SessionID: sessionID,
		Action:    notifier.ActionAdd,
		Items:     cart,
		Product:   &draft,
		SourceTab: sourceTab,
	})
	return cart, nil
}

func (s *cartService) SetQuantity(ctx context.Context, sessionID, sourceTab, itemID string, quantity int) (model.Cart, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	idx := cart.Find(itemID)
	if idx < 0 {
		// Absent id is a no-op, not an error.
		return cart, nil
	}

	cart[idx].Quantity = model.ClampQuantity(quantity)
	return s.saveAndNotify(ctx, sessionID, sourceTab, cart, notifier.ActionUpdate)
}

func (s *cartService) Increment(ctx context.Context, sessionID, sourceTab, itemID string) (model.Cart, error) {
	return s.adjust(ctx, sessionID, sourceTab, itemID, +1)
}

func (s *cartService) Decrement(ctx context.Context, sessionID, sourceTab, itemID string) (model.Cart, error) {
	return s.adjust(ctx, sessionID, sourceTab, itemID, -1)
}

func (s *cartService) adjust(ctx context.Context, sessionID, sourceTab, itemID string, delta int) (model.Cart, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	idx := cart.Find(itemID)
	if idx < 0 {
		return cart, nil
	}

	next := cart[idx].Quantity + delta
	if next < model.MinQuantity || next > model.MaxQuantity {
		// Decrement below 1 does not remove the item; removal is explicit.
		return cart, nil
	}
	cart[idx].Quantity = next

	return s.saveAndNotify(ctx, sessionID, sourceTab, cart, notifier.ActionUpdate)
}

func (s *cartService) Remove(ctx context.Context, sessionID, sourceTab, itemID string) (model.Cart, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	idx := cart.Find(itemID)
	if idx < 0 {
		return cart, nil
	}

	logger.Info("Removing item from cart", map[string]interface{}{
		"session_id": sessionID,
		"item_id":    itemID,
	})

	cart = append(cart[:idx], cart[idx+1:]...)
	return s.saveAndNotify(ctx, sessionID, sourceTab, cart, notifier.ActionRemove)
}

// Clear empties the cart and drops the applied coupon; both slots are
// persisted before the single clear notification fires, so listeners
// observe the two effects together.
func (s *cartService) Clear(ctx context.Context, sessionID, sourceTab string) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"session_id": sessionID,
	})

	if err := s.store.Save(ctx, sessionID, model.Cart{}); err != nil {
		return err
	}
	if err := s.store.SaveCoupon(ctx, sessionID, nil); err != nil {
		return err
	}

	s.notifier.Publish(ctx, notifier.Event{
		SessionID: sessionID,
		Action:    notifier.ActionClear,
		Items:     model.Cart{},
		SourceTab: sourceTab,
	})
	return nil
}

// Replace overwrites the whole cart with a client-supplied item list,
// enforcing the uniqueness and quantity invariants on the way in. This
// backs the /sync-cart mirror endpoint.
func (s *cartService) Replace(ctx context.Context, sessionID, sourceTab string, items model.Cart) (model.Cart, error) {
	cart := make(model.Cart, 0, len(items))
	for _, item := range items {
		if idx := cart.Find(item.ID); idx >= 0 {
			merged := cart[idx].Quantity + item.Quantity
			cart[idx].Quantity = model.ClampQuantity(merged)
			continue
		}
		item.Quantity = model.ClampQuantity(item.Quantity)
		cart = append(cart, item)
	}

	return s.saveAndNotify(ctx, sessionID, sourceTab, cart, notifier.ActionUpdate)
}

func (s *cartService) ApplyCoupon(ctx context.Context, sessionID, sourceTab, code string) (*model.Coupon, error) {
	coupon, ok := model.LookupCoupon(code)
	if !ok {
		logger.Warn("Rejected unknown coupon code", map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, ErrInvalidCoupon
	}

	active, err := s.store.LoadCoupon(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if active != nil && active.Code == coupon.Code {
		// Informational, state unchanged.
		return active, ErrCouponAlreadyApplied
	}

	if err := s.store.SaveCoupon(ctx, sessionID, &coupon); err != nil {
		return nil, err
	}

	logger.Info("Coupon applied", map[string]interface{}{
		"session_id": sessionID,
		"code":       coupon.Code,
		"type":       coupon.Type,
	})

	s.notifyCoupon(ctx, sessionID, sourceTab)
	return &coupon, nil
}

func (s *cartService) RemoveCoupon(ctx context.Context, sessionID, sourceTab string) error {
	if err := s.store.SaveCoupon(ctx, sessionID, nil); err != nil {
		return err
	}
	s.notifyCoupon(ctx, sessionID, sourceTab)
	return nil
}

func (s *cartService) saveAndNotify(ctx context.Context, sessionID, sourceTab string, cart model.Cart, action notifier.Action) (model.Cart, error) {
	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	s.notifier.Publish(ctx, notifier.Event{
		SessionID: sessionID,
		Action:    action,
		Items:     cart,
		SourceTab: sourceTab,
	})
	return cart, nil
}

func (s *cartService) notifyCoupon(ctx context.Context, sessionID, sourceTab string) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		// The coupon change is already persisted; listeners reconcile later.
		logger.Error("Failed to load cart for coupon notification", err, map[string]interface{}{
			"session_id": sessionID,
		})
		cart = model.Cart{}
	}
	s.notifier.Publish(ctx, notifier.Event{
		SessionID: sessionID,
		Action:    notifier.ActionCoupon,
		Items:     cart,
		SourceTab: sourceTab,
	})
}

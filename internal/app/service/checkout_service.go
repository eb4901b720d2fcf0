package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/greenbean/storefront-backend/internal/app/model"
	"github.com/greenbean/storefront-backend/internal/app/repository"
	"github.com/greenbean/storefront-backend/pkg/checkout"
	"github.com/greenbean/storefront-backend/pkg/logger"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrCheckoutInFlight = errors.New("checkout already in progress")
	ErrCheckoutRejected = errors.New("checkout rejected by gateway")
)

// CheckoutResult tells the client where to go and how long to wait before
// navigating. The delay is imposed by the gateway, not chosen here.
type CheckoutResult struct {
	OrderNumber string        `json:"order_number"`
	RedirectURL string        `json:"redirect_url"`
	SettleDelay time.Duration `json:"-"`
	Message     string        `json:"message,omitempty"`
}

type CheckoutService interface {
	// Submit hands the session's cart to the gateway. Exactly one
	// submission per session may be in flight; re-entrant calls fail
	// with ErrCheckoutInFlight and issue no request.
	Submit(ctx context.Context, sessionID string, shipping model.ShippingMethod) (*CheckoutResult, error)
	Orders(ctx context.Context, sessionID string) ([]model.Order, error)
}

type checkoutService struct {
	cartService    CartService
	pricingService PricingService
	orderRepo      repository.OrderRepository
	gateway        *checkout.Client

	inFlight sync.Map // sessionID -> struct{}
}

func NewCheckoutService(
	cartService CartService,
	pricingService PricingService,
	orderRepo repository.OrderRepository,
	gateway *checkout.Client,
) CheckoutService {
	return &checkoutService{
		cartService:    cartService,
		pricingService: pricingService,
		orderRepo:      orderRepo,
		gateway:        gateway,
	}
}

func (s *checkoutService) Submit(ctx context.Context, sessionID string, shipping model.ShippingMethod) (*CheckoutResult, error) {
	if _, loaded := s.inFlight.LoadOrStore(sessionID, struct{}{}); loaded {
		logger.Warn("Rejected re-entrant checkout submission", map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, ErrCheckoutInFlight
	}
	defer s.inFlight.Delete(sessionID)

	state, err := s.cartService.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Items.IsEmpty() {
		// No request leaves the building for an empty cart.
		return nil, ErrEmptyCart
	}

	logger.Info("Submitting cart to checkout gateway", map[string]interface{}{
		"session_id": sessionID,
		"items":      len(state.Items),
	})

	resp, err := s.gateway.SyncCart(ctx, state.Items)
	if err != nil {
		logger.Error("Checkout handoff failed", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}
	if !resp.Success {
		logger.Warn("Checkout handoff rejected", map[string]interface{}{
			"session_id": sessionID,
			"message":    resp.Message,
		})
		if resp.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrCheckoutRejected, resp.Message)
		}
		return nil, ErrCheckoutRejected
	}

	totals := s.pricingService.Quote(state.Items, shipping, state.Coupon)
	order := buildOrder(sessionID, state, totals)
	if err := s.orderRepo.Create(order); err != nil {
		// The handoff already succeeded; losing the local record must not
		// block the customer from checking out.
		logger.Error("Failed to record order after handoff", err, map[string]interface{}{
			"session_id":   sessionID,
			"order_number": order.OrderNumber,
		})
	}

	redirect := resp.RedirectURL
	if redirect == "" {
		redirect = "/checkout"
	}

	logger.Info("Checkout handoff complete", map[string]interface{}{
		"session_id":   sessionID,
		"order_number": order.OrderNumber,
		"total":        totals.Total,
	})

	return &CheckoutResult{
		OrderNumber: order.OrderNumber,
		RedirectURL: redirect,
		SettleDelay: s.gateway.GetConfig().SettleDelay,
		Message:     resp.Message,
	}, nil
}

func (s *checkoutService) Orders(ctx context.Context, sessionID string) ([]model.Order, error) {
	return s.orderRepo.FindBySessionID(sessionID)
}

func buildOrder(sessionID string, state CartState, totals Totals) *model.Order {
	order := &model.Order{
		OrderNumber:  newOrderNumber(),
		SessionID:    sessionID,
		Status:       model.OrderStatusSynced,
		Subtotal:     totals.Subtotal,
		Discount:     totals.Discount,
		ShippingCost: totals.ShippingCost,
		Tax:          totals.Tax,
		Total:        totals.Total,
	}
	if state.Coupon != nil {
		order.CouponCode = state.Coupon.Code
	}
	for _, item := range state.Items {
		order.OrderItems = append(order.OrderItems, model.OrderItem{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return order
}

func newOrderNumber() string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:12]
	return "GB-" + short
}

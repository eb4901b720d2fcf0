package service

import (
	"github.com/greenbean/storefront-backend/config"
	"github.com/greenbean/storefront-backend/internal/app/model"
)

// Totals is the full price breakdown for a cart under a shipping selection
// and an optional coupon. An empty cart quotes all zeros and disables
// checkout.
type Totals struct {
	TotalItems         int     `json:"total_items"`
	Subtotal           float64 `json:"subtotal"`
	Discount           float64 `json:"discount"`
	DiscountedSubtotal float64 `json:"discounted_subtotal"`
	ShippingCost       float64 `json:"shipping_cost"`
	FreeShipping       bool    `json:"free_shipping"`
	Tax                float64 `json:"tax"`
	Total              float64 `json:"total"`
	CheckoutEnabled    bool    `json:"checkout_enabled"`
}

type PricingService interface {
	Quote(cart model.Cart, shipping model.ShippingMethod, coupon *model.Coupon) Totals
}

type pricingService struct {
	taxRate               float64
	freeShippingThreshold float64
}

func NewPricingService(cfg config.CartConfig) PricingService {
	return &pricingService{
		taxRate:               cfg.TaxRate,
		freeShippingThreshold: cfg.FreeShippingThreshold,
	}
}

// Quote is a pure computation; it touches neither storage nor the network.
func (s *pricingService) Quote(cart model.Cart, shipping model.ShippingMethod, coupon *model.Coupon) Totals {
	shipping = model.NormalizeShipping(shipping)

	subtotal := cart.Subtotal()

	var discount float64
	if coupon != nil {
		switch coupon.Type {
		case model.CouponPercentage:
			discount = subtotal * coupon.Discount
		case model.CouponFixed:
			discount = coupon.Discount
			if discount > subtotal {
				discount = subtotal
			}
		}
	}

	discountedSubtotal := subtotal - discount
	if discountedSubtotal < 0 {
		discountedSubtotal = 0
	}

	// The freeship coupon is checked before the threshold rule; the
	// threshold only waives the standard method.
	shippingCost := shipping.BaseCost()
	switch {
	case coupon != nil && coupon.Type == model.CouponFreeShipping:
		shippingCost = 0
	case shipping == model.ShippingStandard && subtotal >= s.freeShippingThreshold:
		shippingCost = 0
	}

	// Tax applies after the discount and never to shipping.
	tax := discountedSubtotal * s.taxRate
	total := discountedSubtotal + shippingCost + tax

	if cart.IsEmpty() {
		return Totals{}
	}

	return Totals{
		TotalItems:         cart.TotalQuantity(),
		Subtotal:           subtotal,
		Discount:           discount,
		DiscountedSubtotal: discountedSubtotal,
		ShippingCost:       shippingCost,
		FreeShipping:       shippingCost == 0,
		Tax:                tax,
		Total:              total,
		CheckoutEnabled:    true,
	}
}

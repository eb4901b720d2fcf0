package service

import (
	"testing"

	"github.com/greenbean/storefront-backend/config"
	"github.com/greenbean/storefront-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPricingTest(t *testing.T) PricingService {
	t.Helper()
	return NewPricingService(config.CartConfig{
		TaxRate:               0.08,
		FreeShippingThreshold: 50,
	})
}

func testCart() model.Cart {
	return model.Cart{
		{ID: "monstera-deliciosa", Name: "Monstera Deliciosa", Price: 10, Quantity: 2},
		{ID: "lavender", Name: "Lavender", Price: 5, Quantity: 1},
	}
}

func mustCoupon(t *testing.T, code string) *model.Coupon {
	t.Helper()
	coupon, ok := model.LookupCoupon(code)
	require.True(t, ok)
	return &coupon
}

func TestPricingService_Subtotal(t *testing.T) {
	svc := setupPricingTest(t)

	totals := svc.Quote(testCart(), model.ShippingStandard, nil)

	assert.Equal(t, 3, totals.TotalItems)
	assert.InDelta(t, 25.00, totals.Subtotal, 0.001)
	assert.InDelta(t, 0, totals.Discount, 0.001)
	assert.InDelta(t, 25.00, totals.DiscountedSubtotal, 0.001)
	assert.InDelta(t, 2.00, totals.Tax, 0.001)
	assert.InDelta(t, 27.00, totals.Total, 0.001)
	assert.True(t, totals.CheckoutEnabled)
}

func TestPricingService_PercentageCoupon(t *testing.T) {
	svc := setupPricingTest(t)

	totals := svc.Quote(testCart(), model.ShippingStandard, mustCoupon(t, "WELCOME10"))

	assert.InDelta(t, 2.50, totals.Discount, 0.001)
	assert.InDelta(t, 22.50, totals.DiscountedSubtotal, 0.001)
	assert.InDelta(t, 1.80, totals.Tax, 0.001)
	assert.InDelta(t, 24.30, totals.Total, 0.001)
}

func TestPricingService_FixedCouponClampedToSubtotal(t *testing.T) {
	svc := setupPricingTest(t)

	cart := model.Cart{
		{ID: "seed-packet", Name: "Seed Packet", Price: 3, Quantity: 1},
	}
	totals := svc.Quote(cart, model.ShippingStandard, mustCoupon(t, "SAVE5"))

	// A $5 coupon on a $3 cart never drives the subtotal negative.
	assert.InDelta(t, 3.00, totals.Discount, 0.001)
	assert.InDelta(t, 0, totals.DiscountedSubtotal, 0.001)
	assert.InDelta(t, 0, totals.Tax, 0.001)
	assert.InDelta(t, 0, totals.Total, 0.001)
	assert.True(t, totals.CheckoutEnabled)
}

func TestPricingService_ShippingRules(t *testing.T) {
	svc := setupPricingTest(t)

	tests := []struct {
		name     string
		cart     model.Cart
		shipping model.ShippingMethod
		coupon   string
		wantCost float64
		wantFree bool
	}{
		{
			name:     "Express below threshold",
			cart:     testCart(),
			shipping: model.ShippingExpress,
			wantCost: 9.99,
		},
		{
			name:     "Overnight below threshold",
			cart:     testCart(),
			shipping: model.ShippingOvernight,
			wantCost: 19.99,
		},
		{
			name: "Threshold waives standard at exactly the boundary",
			cart: model.Cart{
				{ID: "fiddle-leaf-fig", Name: "Fiddle Leaf Fig", Price: 50, Quantity: 1},
			},
			shipping: model.ShippingStandard,
			wantCost: 0,
			wantFree: true,
		},
		{
			name: "Threshold does not waive express",
			cart: model.Cart{
				{ID: "fiddle-leaf-fig", Name: "Fiddle Leaf Fig", Price: 50, Quantity: 1},
			},
			shipping: model.ShippingExpress,
			wantCost: 9.99,
		},
		{
			name:     "Freeship coupon waives any method",
			cart:     testCart(),
			shipping: model.ShippingOvernight,
			coupon:   "FREESHIP",
			wantCost: 0,
			wantFree: true,
		},
		{
			name:     "Unknown method falls back to standard",
			cart:     testCart(),
			shipping: model.ShippingMethod("carrier-pigeon"),
			wantCost: 0,
			wantFree: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var coupon *model.Coupon
			if tt.coupon != "" {
				coupon = mustCoupon(t, tt.coupon)
			}
			totals := svc.Quote(tt.cart, tt.shipping, coupon)
			assert.InDelta(t, tt.wantCost, totals.ShippingCost, 0.001)
			assert.Equal(t, tt.wantFree, totals.FreeShipping)
		})
	}
}

func TestPricingService_FreeshipCouponGivesNoDiscount(t *testing.T) {
	svc := setupPricingTest(t)

	totals := svc.Quote(testCart(), model.ShippingExpress, mustCoupon(t, "FREESHIP"))

	assert.InDelta(t, 0, totals.Discount, 0.001)
	assert.InDelta(t, 25.00, totals.DiscountedSubtotal, 0.001)
	assert.InDelta(t, 0, totals.ShippingCost, 0.001)
}

func TestPricingService_TaxExcludesShipping(t *testing.T) {
	svc := setupPricingTest(t)

	totals := svc.Quote(testCart(), model.ShippingOvernight, nil)

	// Tax tracks the discounted subtotal only.
	assert.InDelta(t, 2.00, totals.Tax, 0.001)
	assert.InDelta(t, 25.00+19.99+2.00, totals.Total, 0.001)
}

func TestPricingService_EmptyCart(t *testing.T) {
	svc := setupPricingTest(t)

	totals := svc.Quote(model.Cart{}, model.ShippingStandard, mustCoupon(t, "WELCOME10"))

	assert.Equal(t, Totals{}, totals)
	assert.False(t, totals.CheckoutEnabled)
}

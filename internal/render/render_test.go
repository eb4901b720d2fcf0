package render

import (
	"testing"

	"github.com/greenbean/storefront-backend/internal/app/model"
	"github.com/greenbean/storefront-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() service.CartState {
	original := 34.99
	return service.CartState{
		Items: model.Cart{
			{
				ID:       "monstera-deliciosa",
				Name:     "Monstera Deliciosa",
				Price:    45.99,
				Quantity: 2,
				InStock:  true,
			},
			{
				ID:            "snake-plant",
				Name:          "Snake Plant",
				Price:         29.99,
				OriginalPrice: &original,
				Quantity:      1,
				InStock:       true,
			},
		},
	}
}

func sampleTotals() service.Totals {
	return service.Totals{
		TotalItems:         3,
		Subtotal:           121.97,
		DiscountedSubtotal: 121.97,
		ShippingCost:       0,
		FreeShipping:       true,
		Tax:                9.76,
		Total:              131.73,
		CheckoutEnabled:    true,
	}
}

func TestBuild_ItemRows(t *testing.T) {
	view := Build(sampleState(), sampleTotals(), []Section{SectionItems})

	require.Len(t, view.Items, 2)
	first := view.Items[0]
	assert.Equal(t, "monstera-deliciosa", first.ID)
	assert.Equal(t, "$45.99", first.UnitPrice)
	assert.Equal(t, "$91.98", first.LineTotal)
	assert.Zero(t, first.DiscountPercent)

	// A sale item carries its discount badge percentage.
	second := view.Items[1]
	assert.Equal(t, 14, second.DiscountPercent)

	// Sections not asked for stay nil.
	assert.Nil(t, view.Badge)
	assert.Nil(t, view.Summary)
	assert.Nil(t, view.EmptyState)
	assert.Nil(t, view.Coupon)
}

func TestBuild_Badge(t *testing.T) {
	view := Build(sampleState(), sampleTotals(), []Section{SectionBadge})

	require.NotNil(t, view.Badge)
	assert.Equal(t, 3, view.Badge.Count)
}

func TestBuild_EmptyState(t *testing.T) {
	empty := service.CartState{Items: model.Cart{}}

	view := Build(empty, service.Totals{}, AllSections)

	require.NotNil(t, view.EmptyState)
	assert.True(t, view.EmptyState.Visible)
	assert.Empty(t, view.Items)
	require.NotNil(t, view.Badge)
	assert.Zero(t, view.Badge.Count)
	require.NotNil(t, view.Summary)
	assert.False(t, view.Summary.CheckoutEnabled)

	view = Build(sampleState(), sampleTotals(), AllSections)
	assert.False(t, view.EmptyState.Visible)
}

func TestBuild_SummaryFreeShipping(t *testing.T) {
	view := Build(sampleState(), sampleTotals(), []Section{SectionSummary})

	require.NotNil(t, view.Summary)
	assert.Equal(t, "$121.97", view.Summary.Subtotal)
	assert.Equal(t, "Free", view.Summary.Shipping)
	assert.Equal(t, "$9.76", view.Summary.Tax)
	assert.Equal(t, "$131.73", view.Summary.Total)
	assert.Nil(t, view.Summary.Discount)
}

func TestBuild_SummaryDiscountRow(t *testing.T) {
	state := sampleState()
	coupon, ok := model.LookupCoupon("WELCOME10")
	require.True(t, ok)
	state.Coupon = &coupon

	totals := sampleTotals()
	totals.Discount = 12.20
	totals.ShippingCost = 9.99
	totals.FreeShipping = false

	view := Build(state, totals, []Section{SectionSummary, SectionCoupon})

	require.NotNil(t, view.Summary.Discount)
	assert.Equal(t, "Discount (WELCOME10)", view.Summary.Discount.Label)
	assert.Equal(t, "-$12.20", view.Summary.Discount.Value)
	assert.Equal(t, "$9.99", view.Summary.Shipping)

	require.NotNil(t, view.Coupon)
	assert.True(t, view.Coupon.Applied)
	assert.Equal(t, "WELCOME10", view.Coupon.Code)
}

func TestBuild_UnknownSectionSkipped(t *testing.T) {
	view := Build(sampleState(), sampleTotals(), []Section{Section("carousel"), SectionBadge})

	require.NotNil(t, view.Badge)
	assert.Nil(t, view.Items)
	assert.Nil(t, view.Summary)
}

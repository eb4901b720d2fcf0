// Package render projects cart state into page view models. Pages differ
// in which targets they contain, so every section is requested by name and
// an unknown or absent target is skipped rather than failed.
package render

import (
	"fmt"

	"github.com/greenbean/storefront-backend/internal/app/model"
	"github.com/greenbean/storefront-backend/internal/app/service"
)

type Section string

const (
	SectionBadge      Section = "badge"
	SectionItems      Section = "items"
	SectionEmptyState Section = "empty-state"
	SectionSummary    Section = "summary"
	SectionCoupon     Section = "coupon"
)

// AllSections is what the cart page itself asks for.
var AllSections = []Section{
	SectionBadge,
	SectionItems,
	SectionEmptyState,
	SectionSummary,
	SectionCoupon,
}

// ItemRow is one rendered cart line.
type ItemRow struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Image           string `json:"image"`
	Quantity        int    `json:"quantity"`
	UnitPrice       string `json:"unit_price"`
	LineTotal       string `json:"line_total"`
	DiscountPercent int    `json:"discount_percent,omitempty"`
	InStock         bool   `json:"in_stock"`
}

type BadgeView struct {
	Count int `json:"count"`
}

type EmptyStateView struct {
	Visible bool   `json:"visible"`
	Message string `json:"message"`
}

type SummaryRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SummaryView is the totals panel. The discount row only appears when a
// coupon actually discounts something.
type SummaryView struct {
	Subtotal        string      `json:"subtotal"`
	Discount        *SummaryRow `json:"discount,omitempty"`
	Shipping        string      `json:"shipping"`
	Tax             string      `json:"tax"`
	Total           string      `json:"total"`
	CheckoutEnabled bool        `json:"checkout_enabled"`
}

type CouponView struct {
	Applied     bool   `json:"applied"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

// View carries only the sections the page asked for; absent sections stay
// nil and the client leaves those targets alone.
type View struct {
	Badge      *BadgeView      `json:"badge,omitempty"`
	Items      []ItemRow       `json:"items,omitempty"`
	EmptyState *EmptyStateView `json:"empty_state,omitempty"`
	Summary    *SummaryView    `json:"summary,omitempty"`
	Coupon     *CouponView     `json:"coupon,omitempty"`
}

// Build renders the requested sections from the cart state and its quote.
// Section names outside the known set are ignored.
func Build(state service.CartState, totals service.Totals, sections []Section) View {
	var view View
	for _, section := range sections {
		switch section {
		case SectionBadge:
			view.Badge = &BadgeView{Count: state.Items.TotalQuantity()}
		case SectionItems:
			view.Items = buildRows(state.Items)
		case SectionEmptyState:
			view.EmptyState = &EmptyStateView{
				Visible: state.Items.IsEmpty(),
				Message: "Your cart is empty",
			}
		case SectionSummary:
			view.Summary = buildSummary(state, totals)
		case SectionCoupon:
			view.Coupon = buildCoupon(state.Coupon)
		}
	}
	return view
}

func buildRows(cart model.Cart) []ItemRow {
	rows := make([]ItemRow, 0, len(cart))
	for _, item := range cart {
		rows = append(rows, ItemRow{
			ID:              item.ID,
			Name:            item.Name,
			Image:           item.Image,
			Quantity:        item.Quantity,
			UnitPrice:       money(item.Price),
			LineTotal:       money(item.LineTotal()),
			DiscountPercent: item.DiscountPercent(),
			InStock:         item.InStock,
		})
	}
	return rows
}

func buildSummary(state service.CartState, totals service.Totals) *SummaryView {
	summary := &SummaryView{
		Subtotal:        money(totals.Subtotal),
		Shipping:        money(totals.ShippingCost),
		Tax:             money(totals.Tax),
		Total:           money(totals.Total),
		CheckoutEnabled: totals.CheckoutEnabled,
	}
	if totals.FreeShipping {
		summary.Shipping = "Free"
	}
	if state.Coupon != nil && totals.Discount > 0 {
		summary.Discount = &SummaryRow{
			Label: fmt.Sprintf("Discount (%s)", state.Coupon.Code),
			Value: "-" + money(totals.Discount),
		}
	}
	return summary
}

func buildCoupon(coupon *model.Coupon) *CouponView {
	if coupon == nil {
		return &CouponView{}
	}
	return &CouponView{
		Applied:     true,
		Code:        coupon.Code,
		Description: coupon.Description,
	}
}

func money(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

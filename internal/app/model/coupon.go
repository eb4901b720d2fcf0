package model

import "strings"

type CouponType string

const (
	CouponPercentage   CouponType = "percentage"
	CouponFixed        CouponType = "fixed"
	CouponFreeShipping CouponType = "freeship"
)

// Coupon is an applied discount code. At most one coupon is active per
// session; it stays applied until removed explicitly or the cart is cleared.
type Coupon struct {
	Code        string     `json:"code"`
	Type        CouponType `json:"type"`
	Discount    float64    `json:"discount"` // rate for percentage, amount for fixed
	Description string     `json:"description"`
}

// couponTable is the fixed set of redeemable codes.
var couponTable = map[string]Coupon{
	"WELCOME10": {Code: "WELCOME10", Type: CouponPercentage, Discount: 0.10, Description: "10% off"},
	"PLANT20":   {Code: "PLANT20", Type: CouponPercentage, Discount: 0.20, Description: "20% off"},
	"SAVE5":     {Code: "SAVE5", Type: CouponFixed, Discount: 5, Description: "$5 off"},
	"FREESHIP":  {Code: "FREESHIP", Type: CouponFreeShipping, Discount: 0, Description: "Free shipping"},
}

// LookupCoupon matches a code case-insensitively against the coupon table.
func LookupCoupon(code string) (Coupon, bool) {
	coupon, ok := couponTable[strings.ToUpper(strings.TrimSpace(code))]
	return coupon, ok
}

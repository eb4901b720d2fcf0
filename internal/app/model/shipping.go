package model

type ShippingMethod string

const (
	ShippingStandard  ShippingMethod = "standard"
	ShippingExpress   ShippingMethod = "express"
	ShippingOvernight ShippingMethod = "overnight"
)

var shippingCosts = map[ShippingMethod]float64{
	ShippingStandard:  0,
	ShippingExpress:   9.99,
	ShippingOvernight: 19.99,
}

// BaseCost returns the method's base cost before any free-shipping rule.
func (m ShippingMethod) BaseCost() float64 {
	return shippingCosts[m]
}

// Valid reports whether the method is one of the fixed set.
func (m ShippingMethod) Valid() bool {
	_, ok := shippingCosts[m]
	return ok
}

// NormalizeShipping maps an unknown or empty selection to the default
// standard method. Pages without a shipping radio group send nothing.
func NormalizeShipping(m ShippingMethod) ShippingMethod {
	if !m.Valid() {
		return ShippingStandard
	}
	return m
}

package model

const (
	// Quantity bounds enforced on every cart mutation path.
	MinQuantity = 1
	MaxQuantity = 99
)

// LineItem is one entry of a session cart. The JSON shape doubles as the
// wire format of the durable cart slot, so field names are stable.
type LineItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Quantity      int      `json:"quantity"`
	Image         string   `json:"image,omitempty"`
	Description   string   `json:"description,omitempty"`
	Category      string   `json:"category,omitempty"`
	InStock       bool     `json:"inStock"`
}

// LineTotal returns the item's price times quantity.
func (li LineItem) LineTotal() float64 {
	return li.Price * float64(li.Quantity)
}

// DiscountPercent returns the rounded displayed discount when an original
// price is set, 0 otherwise.
func (li LineItem) DiscountPercent() int {
	if li.OriginalPrice == nil || *li.OriginalPrice <= 0 {
		return 0
	}
	pct := (*li.OriginalPrice - li.Price) / *li.OriginalPrice * 100
	if pct <= 0 {
		return 0
	}
	return int(pct + 0.5)
}

// Cart is an ordered list of line items with at most one item per product id.
type Cart []LineItem

// Find returns the index of the item with the given id, or -1.
func (c Cart) Find(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// TotalQuantity is the badge count: the sum of all item quantities.
func (c Cart) TotalQuantity() int {
	var total int
	for i := range c {
		total += c[i].Quantity
	}
	return total
}

// Subtotal sums price times quantity over all items.
func (c Cart) Subtotal() float64 {
	var total float64
	for i := range c {
		total += c[i].LineTotal()
	}
	return total
}

// IsEmpty reports whether the cart holds no items.
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// ClampQuantity bounds a requested quantity to [MinQuantity, MaxQuantity].
func ClampQuantity(n int) int {
	if n < MinQuantity {
		return MinQuantity
	}
	if n > MaxQuantity {
		return MaxQuantity
	}
	return n
}

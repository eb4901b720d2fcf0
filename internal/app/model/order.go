package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusSynced    OrderStatus = "synced" // cart handed off to the checkout gateway
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order captures a cart at the moment of a successful checkout handoff,
// with the totals quoted at that time.
type Order struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	OrderNumber  string         `gorm:"uniqueIndex;not null" json:"order_number"`
	SessionID    string         `gorm:"index;not null" json:"session_id"`
	Status       OrderStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Subtotal     float64        `gorm:"not null" json:"subtotal"`
	Discount     float64        `json:"discount"`
	ShippingCost float64        `json:"shipping_cost"`
	Tax          float64        `json:"tax"`
	Total        float64        `gorm:"not null" json:"total"`
	CouponCode   string         `gorm:"type:varchar(50)" json:"coupon_code,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	OrderID   uint           `gorm:"not null;index" json:"order_id"`
	ProductID string         `gorm:"not null;index" json:"product_id"` // cart line-item id (product SKU)
	Name      string         `gorm:"not null" json:"name"`
	Price     float64        `gorm:"not null" json:"price"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

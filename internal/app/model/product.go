package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryIndoor      ProductCategory = "indoor"
	CategoryOutdoor     ProductCategory = "outdoor"
	CategoryPot         ProductCategory = "pot"
	CategoryAccessories ProductCategory = "accessories"
)

type Product struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	SKU           string          `gorm:"uniqueIndex;not null" json:"sku"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         float64         `gorm:"not null" json:"price"`
	OriginalPrice *float64        `json:"original_price,omitempty"` // set when the product is on sale
	Category      ProductCategory `gorm:"type:varchar(50);index" json:"category"`
	ImageURL      string          `json:"image_url"`
	Rating        int             `gorm:"default:0" json:"rating"`
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"`
	IsPopular     bool            `gorm:"default:false" json:"is_popular"`
	IsNew         bool            `gorm:"default:false" json:"is_new"`
	IsOnSale      bool            `gorm:"default:false" json:"is_on_sale"`
	Tags          pq.StringArray  `gorm:"type:text[]" json:"tags,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// InStock reports whether the product can be added to a cart.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// ToLineItem builds a cart line-item draft from the product.
func (p *Product) ToLineItem() LineItem {
	return LineItem{
		ID:            p.SKU,
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.ImageURL,
		Description:   p.Description,
		Category:      string(p.Category),
		InStock:       p.InStock(),
	}
}

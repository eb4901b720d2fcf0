package repository

import (
	"fmt"

	"github.com/greenbean/storefront-backend/internal/app/model"
	"github.com/greenbean/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortName      ProductSort = "name"
	ProductSortNameDesc  ProductSort = "name-desc"
	ProductSortPrice     ProductSort = "price"
	ProductSortPriceDesc ProductSort = "price-desc"
)

// QuickFilter mirrors the shop page's quick links.
type QuickFilter string

const (
	QuickFilterPopular QuickFilter = "popular"
	QuickFilterNew     QuickFilter = "new"
	QuickFilterSale    QuickFilter = "sale"
	QuickFilterRating  QuickFilter = "rating" // five-star products only
)

type ProductFilter struct {
	Search   string
	Category *model.ProductCategory
	MinPrice *float64
	MaxPrice *float64
	Quick    QuickFilter
	SortBy   ProductSort
	Limit    int
	Offset   int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindBySKU(sku string) (*model.Product, error)
	FindPopular(limit int) ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"sku":      product.SKU,
		"name":     product.Name,
		"category": product.Category,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"sku":  product.SKU,
			"name": product.Name,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	products, _, err := r.FindWithFilter(ProductFilter{})
	return products, err
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"search":   filter.Search,
		"category": filter.Category,
		"quick":    filter.Quick,
		"sort_by":  filter.SortBy,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})

	query := r.db.Model(&model.Product{})

	// Search matches name or category, as the shop page does.
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("products.name LIKE ? OR products.category LIKE ?", like, like)
	}

	if filter.Category != nil {
		query = query.Where("products.category = ?", *filter.Category)
	}

	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	switch filter.Quick {
	case QuickFilterPopular:
		query = query.Where("products.is_popular = ?", true)
	case QuickFilterNew:
		query = query.Where("products.is_new = ?", true)
	case QuickFilterSale:
		query = query.Where("products.is_on_sale = ?", true)
	case QuickFilterRating:
		query = query.Where("products.rating >= ?", 5)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products", err, nil)
		return nil, 0, err
	}

	switch filter.SortBy {
	case ProductSortName:
		query = query.Order("products.name ASC")
	case ProductSortNameDesc:
		query = query.Order("products.name DESC")
	case ProductSortPrice:
		query = query.Order("products.price ASC")
	case ProductSortPriceDesc:
		query = query.Order("products.price DESC")
	default:
		query = query.Order("products.id ASC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, nil)
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.Where("sku = ?", sku).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindPopular(limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("is_popular = ?", true).
		Order("rating DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find popular products", err, nil)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
			"sku":        product.SKU,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

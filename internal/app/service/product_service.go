package service

import (
	"errors"

	"github.com/greenbean/storefront-backend/internal/app/model"
	"github.com/greenbean/storefront-backend/internal/app/repository"
	"github.com/greenbean/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// DefaultPageSize matches the shop page's initial nine-card window.
const DefaultPageSize = 9

type ProductPage struct {
	Products []model.Product `json:"products"`
	Total    int64           `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}

type ProductService interface {
	GetProducts(filter repository.ProductFilter) (*ProductPage, error)
	GetProductBySKU(sku string) (*model.Product, error)
	GetPopularProducts(limit int) ([]model.Product, error)
	CreateProduct(product *model.Product) error
	UpdateProduct(product *model.Product) error
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) GetProducts(filter repository.ProductFilter) (*ProductPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to get products", err, map[string]interface{}{
			"search":   filter.Search,
			"category": filter.Category,
		})
		return nil, err
	}

	return &ProductPage{
		Products: products,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}, nil
}

func (s *productService) GetProductBySKU(sku string) (*model.Product, error) {
	product, err := s.productRepo.FindBySKU(sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to get product by SKU", err, map[string]interface{}{
			"sku": sku,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) GetPopularProducts(limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 4
	}
	return s.productRepo.FindPopular(limit)
}

func (s *productService) CreateProduct(product *model.Product) error {
	logger.Info("Creating product", map[string]interface{}{
		"sku":  product.SKU,
		"name": product.Name,
	})
	return s.productRepo.Create(product)
}

func (s *productService) UpdateProduct(product *model.Product) error {
	return s.productRepo.Update(product)
}

func (s *productService) DeleteProduct(id uint) error {
	return s.productRepo.Delete(id)
}

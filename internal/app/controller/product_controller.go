package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/greenbean/storefront-backend/internal/app/model"
	"github.com/greenbean/storefront-backend/internal/app/repository"
	"github.com/greenbean/storefront-backend/internal/app/service"
	"github.com/greenbean/storefront-backend/internal/errors"
	"github.com/greenbean/storefront-backend/internal/middleware"
	"github.com/lib/pq"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

type CreateProductRequest struct {
	SKU           string                `json:"sku" binding:"required"`
	Name          string                `json:"name" binding:"required"`
	Description   string                `json:"description"`
	Price         float64               `json:"price" binding:"required,gt=0"`
	OriginalPrice *float64              `json:"original_price"`
	Category      model.ProductCategory `json:"category" binding:"required"`
	ImageURL      string                `json:"image_url"`
	Rating        int                   `json:"rating" binding:"gte=0,lte=5"`
	StockQuantity int                   `json:"stock_quantity" binding:"gte=0"`
	IsPopular     bool                  `json:"is_popular"`
	IsNew         bool                  `json:"is_new"`
	IsOnSale      bool                  `json:"is_on_sale"`
	Tags          []string              `json:"tags"`
}

// GetProducts lists products with the shop page's filters
// GET /api/v1/products?search=&category=&min_price=&max_price=&filter=&sort=&limit=&offset=
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProductFilter{
		Search: c.Query("search"),
		Quick:  repository.QuickFilter(c.Query("filter")),
		SortBy: repository.ProductSort(c.Query("sort")),
	}

	if category := c.Query("category"); category != "" {
		cat := model.ProductCategory(category)
		filter.Category = &cat
	}
	if minPrice, ok := floatQuery(c, "min_price"); ok {
		filter.MinPrice = &minPrice
	}
	if maxPrice, ok := floatQuery(c, "max_price"); ok {
		filter.MaxPrice = &maxPrice
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset"))

	page, err := ctrl.productService.GetProducts(filter)
	if err != nil {
		log.Error("Failed to list products", err, map[string]interface{}{
			"search": filter.Search,
		})
		errors.InternalError(c, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetProduct returns a single product by SKU
// GET /api/v1/products/:sku
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	sku := c.Param("sku")

	product, err := ctrl.productService.GetProductBySKU(sku)
	if err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "Product not found")
			return
		}
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// GetPopularProducts returns the home page's featured strip
// GET /api/v1/products/popular?limit=4
func (ctrl *ProductController) GetPopularProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	products, err := ctrl.productService.GetPopularProducts(limit)
	if err != nil {
		errors.InternalError(c, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// CreateProduct adds a product to the catalog
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product creation request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if _, err := ctrl.productService.GetProductBySKU(req.SKU); err == nil {
		errors.Conflict(c, errors.ProductAlreadyExists, "A product with this SKU already exists")
		return
	} else if !stderrors.Is(err, service.ErrProductNotFound) {
		log.Error("Failed to check for existing product", err, map[string]interface{}{
			"sku": req.SKU,
		})
		errors.InternalError(c, "")
		return
	}

	product := &model.Product{
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Category:      req.Category,
		ImageURL:      req.ImageURL,
		Rating:        req.Rating,
		StockQuantity: req.StockQuantity,
		IsPopular:     req.IsPopular,
		IsNew:         req.IsNew,
		IsOnSale:      req.IsOnSale,
		Tags:          pq.StringArray(req.Tags),
	}

	if err := ctrl.productService.CreateProduct(product); err != nil {
		log.Error("Failed to create product", err, map[string]interface{}{
			"sku":  req.SKU,
			"name": req.Name,
		})
		errors.InternalError(c, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// DeleteProduct removes a product from the catalog
// DELETE /api/v1/products/:sku
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sku := c.Param("sku")

	product, err := ctrl.productService.GetProductBySKU(sku)
	if err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "Product not found")
			return
		}
		errors.InternalError(c, "")
		return
	}

	if err := ctrl.productService.DeleteProduct(product.ID); err != nil {
		log.Error("Failed to delete product", err, map[string]interface{}{
			"sku": sku,
		})
		errors.InternalError(c, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func floatQuery(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

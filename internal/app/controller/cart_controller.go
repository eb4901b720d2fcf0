package controller

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/greenbean/storefront-backend/internal/app/model"
	"github.com/greenbean/storefront-backend/internal/app/service"
	"github.com/greenbean/storefront-backend/internal/errors"
	"github.com/greenbean/storefront-backend/internal/middleware"
	"github.com/greenbean/storefront-backend/internal/render"
)

type CartController struct {
	cartService    service.CartService
	productService service.ProductService
	pricingService service.PricingService
}

func NewCartController(
	cartService service.CartService,
	productService service.ProductService,
	pricingService service.PricingService,
) *CartController {
	return &CartController{
		cartService:    cartService,
		productService: productService,
		pricingService: pricingService,
	}
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

type SyncCartRequest struct {
	CartItems []model.LineItem `json:"cart_items"`
}

// GetCart returns the session's cart with its quote
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	state, err := ctrl.cartService.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"session_id": sessionID,
		})
		errors.InternalError(c, "Failed to fetch cart")
		return
	}

	totals := ctrl.pricingService.Quote(state.Items, shippingParam(c), state.Coupon)
	c.JSON(http.StatusOK, gin.H{
		"cart_items": state.Items,
		"coupon":     state.Coupon,
		"totals":     totals,
	})
}

// GetCartView returns rendered page sections for the session's cart
// GET /api/v1/cart/view?sections=badge,items,summary
func (ctrl *CartController) GetCartView(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	state, err := ctrl.cartService.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		log.Error("Failed to fetch cart for view", err, map[string]interface{}{
			"session_id": sessionID,
		})
		errors.InternalError(c, "Failed to fetch cart")
		return
	}

	sections := render.AllSections
	if raw, ok := c.GetQueryArray("sections"); ok {
		sections = make([]render.Section, 0, len(raw))
		for _, s := range raw {
			sections = append(sections, render.Section(s))
		}
	}

	totals := ctrl.pricingService.Quote(state.Items, shippingParam(c), state.Coupon)
	c.JSON(http.StatusOK, render.Build(state, totals, sections))
}

// AddToCart adds one unit of a product to the cart
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product, err := ctrl.productService.GetProductBySKU(req.ProductID)
	if err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to look up product for cart", err, map[string]interface{}{
			"session_id": sessionID,
			"product_id": req.ProductID,
		})
		errors.InternalError(c, "")
		return
	}
	if !product.InStock() {
		errors.Conflict(c, errors.ProductOutOfStock, "Product is out of stock")
		return
	}

	cart, err := ctrl.cartService.Add(c.Request.Context(), sessionID, middleware.GetTabID(c), product.ToLineItem())
	if err != nil {
		log.Error("Failed to add item to cart", err, map[string]interface{}{
			"session_id": sessionID,
			"product_id": req.ProductID,
		})
		errors.InternalError(c, "Failed to update cart")
		return
	}

	ctrl.respondWithCart(c, sessionID, cart)
}

// UpdateQuantity sets an item's quantity, clamped to the allowed range
// PUT /api/v1/cart/items/:id
func (ctrl *CartController) UpdateQuantity(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)
	itemID := c.Param("id")

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cart, err := ctrl.cartService.SetQuantity(c.Request.Context(), sessionID, middleware.GetTabID(c), itemID, req.Quantity)
	if err != nil {
		errors.InternalError(c, "Failed to update cart")
		return
	}
	ctrl.respondWithCart(c, sessionID, cart)
}

// IncrementItem bumps an item's quantity by one
// POST /api/v1/cart/items/:id/increment
func (ctrl *CartController) IncrementItem(c *gin.Context) {
	ctrl.adjustItem(c, ctrl.cartService.Increment)
}

// DecrementItem lowers an item's quantity by one, never below one
// POST /api/v1/cart/items/:id/decrement
func (ctrl *CartController) DecrementItem(c *gin.Context) {
	ctrl.adjustItem(c, ctrl.cartService.Decrement)
}

func (ctrl *CartController) adjustItem(
	c *gin.Context,
	op func(ctx context.Context, sessionID, sourceTab, itemID string) (model.Cart, error),
) {
	sessionID, _ := middleware.GetSessionID(c)

	cart, err := op(c.Request.Context(), sessionID, middleware.GetTabID(c), c.Param("id"))
	if err != nil {
		errors.InternalError(c, "Failed to update cart")
		return
	}
	ctrl.respondWithCart(c, sessionID, cart)
}

// RemoveItem deletes an item from the cart
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)

	cart, err := ctrl.cartService.Remove(c.Request.Context(), sessionID, middleware.GetTabID(c), c.Param("id"))
	if err != nil {
		errors.InternalError(c, "Failed to update cart")
		return
	}
	ctrl.respondWithCart(c, sessionID, cart)
}

// ClearCart empties the cart and drops any applied coupon
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	if err := ctrl.cartService.Clear(c.Request.Context(), sessionID, middleware.GetTabID(c)); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"session_id": sessionID,
		})
		errors.InternalError(c, "Failed to clear cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cart_items": model.Cart{},
		"totals":     service.Totals{},
	})
}

// SyncCart overwrites the session's cart with the client's copy
// POST /sync-cart
func (ctrl *CartController) SyncCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	var req SyncCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid sync payload", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid cart payload",
		})
		return
	}

	cart, err := ctrl.cartService.Replace(c.Request.Context(), sessionID, middleware.GetTabID(c), req.CartItems)
	if err != nil {
		log.Error("Failed to sync cart", err, map[string]interface{}{
			"session_id": sessionID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to sync cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   cart.TotalQuantity(),
	})
}

// ApplyCoupon applies a discount code to the session
// POST /api/v1/cart/coupon
func (ctrl *CartController) ApplyCoupon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "A coupon code is required")
		return
	}

	coupon, err := ctrl.cartService.ApplyCoupon(c.Request.Context(), sessionID, middleware.GetTabID(c), req.Code)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrInvalidCoupon):
			errors.BadRequest(c, errors.CouponInvalid, "Invalid coupon code")
		case stderrors.Is(err, service.ErrCouponAlreadyApplied):
			errors.Conflict(c, errors.CouponAlreadyApplied, "This coupon is already applied")
		default:
			log.Error("Failed to apply coupon", err, map[string]interface{}{
				"session_id": sessionID,
			})
			errors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coupon":  coupon,
		"message": coupon.Description,
	})
}

// RemoveCoupon drops the applied coupon, if any
// DELETE /api/v1/cart/coupon
func (ctrl *CartController) RemoveCoupon(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)

	if err := ctrl.cartService.RemoveCoupon(c.Request.Context(), sessionID, middleware.GetTabID(c)); err != nil {
		errors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon removed"})
}

func (ctrl *CartController) respondWithCart(c *gin.Context, sessionID string, cart model.Cart) {
	coupon, err := ctrl.cartService.GetCart(c.Request.Context(), sessionID)
	var applied *model.Coupon
	if err == nil {
		applied = coupon.Coupon
	}
	totals := ctrl.pricingService.Quote(cart, shippingParam(c), applied)
	c.JSON(http.StatusOK, gin.H{
		"cart_items": cart,
		"totals":     totals,
	})
}

// shippingParam reads the optional shipping selection; pages without a
// shipping radio group send nothing and get the standard method.
func shippingParam(c *gin.Context) model.ShippingMethod {
	return model.NormalizeShipping(model.ShippingMethod(c.Query("shipping")))
}

package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/greenbean/storefront-backend/internal/app/model"
	"github.com/greenbean/storefront-backend/internal/app/service"
	"github.com/greenbean/storefront-backend/internal/errors"
	"github.com/greenbean/storefront-backend/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{checkoutService: checkoutService}
}

type CheckoutRequest struct {
	ShippingMethod string `json:"shipping_method"`
}

// Checkout hands the session's cart to the gateway
// POST /api/v1/checkout
func (ctrl *CheckoutController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}
	shipping := model.NormalizeShipping(model.ShippingMethod(req.ShippingMethod))

	result, err := ctrl.checkoutService.Submit(c.Request.Context(), sessionID, shipping)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrEmptyCart):
			errors.BadRequest(c, errors.CartEmpty, "Your cart is empty")
		case stderrors.Is(err, service.ErrCheckoutInFlight):
			errors.Conflict(c, errors.CheckoutInFlight, "Checkout is already in progress")
		case stderrors.Is(err, service.ErrCheckoutRejected):
			// The gateway declined; the cart is intact and the customer
			// can retry.
			errors.RespondWithError(c, http.StatusUnprocessableEntity, errors.CheckoutRejected, err.Error())
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"session_id": sessionID,
			})
			errors.BadGateway(c, errors.CheckoutFailed, "Checkout service is unavailable")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"order_number":    result.OrderNumber,
		"redirect_url":    result.RedirectURL,
		"settle_delay_ms": result.SettleDelay.Milliseconds(),
		"message":         result.Message,
	})
}

// GetOrders lists the session's recorded handoffs
// GET /api/v1/orders
func (ctrl *CheckoutController) GetOrders(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)

	orders, err := ctrl.checkoutService.Orders(c.Request.Context(), sessionID)
	if err != nil {
		errors.InternalError(c, "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/greenbean/storefront-backend/config"
	"github.com/greenbean/storefront-backend/internal/app/model"
	"github.com/greenbean/storefront-backend/internal/app/repository"
	"github.com/greenbean/storefront-backend/internal/cartstore"
	"github.com/greenbean/storefront-backend/internal/db"
	"github.com/greenbean/storefront-backend/internal/notifier"
	"github.com/greenbean/storefront-backend/pkg/checkout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	svc      CheckoutService
	cart     CartService
	orders   repository.OrderRepository
	requests *int64
}

func setupCheckoutTest(t *testing.T, handler http.HandlerFunc) *checkoutFixture {
	t.Helper()

	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	gateway, err := checkout.NewClient(checkout.Config{
		BaseURL:     server.URL,
		SyncPath:    "/sync-cart",
		Timeout:     5 * time.Second,
		SettleDelay: 500 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { gateway.Close() })

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	store := cartstore.NewMemoryStore()
	cartSvc := NewCartService(store, notifier.NewNotifier(nil, notifier.NewBus()))
	pricingSvc := NewPricingService(config.CartConfig{TaxRate: 0.08, FreeShippingThreshold: 50})
	orderRepo := repository.NewOrderRepository(testDB)

	return &checkoutFixture{
		svc:      NewCheckoutService(cartSvc, pricingSvc, orderRepo, gateway),
		cart:     cartSvc,
		orders:   orderRepo,
		requests: &requests,
	}
}

func acceptHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(checkout.SyncResponse{Success: true})
}

func TestCheckoutService_Submit(t *testing.T) {
	var body checkout.SyncRequest
	fx := setupCheckoutTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		acceptHandler(w, r)
	})
	ctx := context.Background()

	_, err := fx.cart.Add(ctx, "sess-1", "tab-1", monstera())
	require.NoError(t, err)
	_, err = fx.cart.ApplyCoupon(ctx, "sess-1", "tab-1", "WELCOME10")
	require.NoError(t, err)

	result, err := fx.svc.Submit(ctx, "sess-1", model.ShippingStandard)
	require.NoError(t, err)

	// The gateway received the full cart.
	require.Len(t, body.CartItems, 1)
	assert.Equal(t, "monstera-deliciosa", body.CartItems[0].ID)

	assert.NotEmpty(t, result.OrderNumber)
	assert.Equal(t, "/checkout", result.RedirectURL)
	assert.Equal(t, 500*time.Millisecond, result.SettleDelay)

	// A local order records the quoted totals.
	orders, err := fx.orders.FindBySessionID("sess-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, model.OrderStatusSynced, orders[0].Status)
	assert.Equal(t, "WELCOME10", orders[0].CouponCode)
	assert.InDelta(t, 45.99, orders[0].Subtotal, 0.001)
}

func TestCheckoutService_SubmitEmptyCart(t *testing.T) {
	fx := setupCheckoutTest(t, acceptHandler)

	_, err := fx.svc.Submit(context.Background(), "sess-1", model.ShippingStandard)
	assert.ErrorIs(t, err, ErrEmptyCart)

	// An empty cart never reaches the gateway.
	assert.Zero(t, atomic.LoadInt64(fx.requests))
}

func TestCheckoutService_SubmitSingleFlight(t *testing.T) {
	release := make(chan struct{})
	fx := setupCheckoutTest(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		acceptHandler(w, r)
	})
	ctx := context.Background()

	_, err := fx.cart.Add(ctx, "sess-1", "tab-1", monstera())
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	firstDone := make(chan error, 1)
	go func() {
		defer wg.Done()
		_, err := fx.svc.Submit(ctx, "sess-1", model.ShippingStandard)
		firstDone <- err
	}()

	// Wait until the first submission is parked inside the gateway call.
	require.Eventually(t, func() bool {
		return atomic.LoadInt64(fx.requests) == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, err = fx.svc.Submit(ctx, "sess-1", model.ShippingStandard)
	assert.ErrorIs(t, err, ErrCheckoutInFlight)
	assert.Equal(t, int64(1), atomic.LoadInt64(fx.requests))

	close(release)
	wg.Wait()
	assert.NoError(t, <-firstDone)

	// The guard releases once the first submission settles.
	_, err = fx.svc.Submit(ctx, "sess-1", model.ShippingStandard)
	assert.NoError(t, err)
}

func TestCheckoutService_SubmitRejected(t *testing.T) {
	fx := setupCheckoutTest(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(checkout.SyncResponse{
			Success: false,
			Message: "inventory changed",
		})
	})
	ctx := context.Background()

	_, err := fx.cart.Add(ctx, "sess-1", "tab-1", monstera())
	require.NoError(t, err)

	_, err = fx.svc.Submit(ctx, "sess-1", model.ShippingStandard)
	assert.ErrorIs(t, err, ErrCheckoutRejected)
	assert.Contains(t, err.Error(), "inventory changed")

	// No order is recorded for a rejected handoff.
	orders, findErr := fx.orders.FindBySessionID("sess-1")
	require.NoError(t, findErr)
	assert.Empty(t, orders)

	// The rejection is recoverable; the cart is untouched.
	state, err := fx.cart.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, state.Items, 1)
}

func TestCheckoutService_SubmitGatewayError(t *testing.T) {
	fx := setupCheckoutTest(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	ctx := context.Background()

	_, err := fx.cart.Add(ctx, "sess-1", "tab-1", monstera())
	require.NoError(t, err)

	_, err = fx.svc.Submit(ctx, "sess-1", model.ShippingStandard)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCheckoutRejected)
}

func TestCheckoutService_SubmitUsesGatewayRedirect(t *testing.T) {
	fx := setupCheckoutTest(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(checkout.SyncResponse{
			Success:     true,
			RedirectURL: "/checkout?order=pending",
		})
	})
	ctx := context.Background()

	_, err := fx.cart.Add(ctx, "sess-1", "tab-1", monstera())
	require.NoError(t, err)

	result, err := fx.svc.Submit(ctx, "sess-1", model.ShippingStandard)
	require.NoError(t, err)
	assert.Equal(t, "/checkout?order=pending", result.RedirectURL)
}

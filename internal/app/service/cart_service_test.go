package service

import (
	"context"
	"testing"

	"github.com/greenbean/storefront-backend/internal/app/model"
	"github.com/greenbean/storefront-backend/internal/cartstore"
	"github.com/greenbean/storefront-backend/internal/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartTest(t *testing.T) (CartService, cartstore.Store, *[]notifier.Event) {
	t.Helper()

	store := cartstore.NewMemoryStore()
	bus := notifier.NewBus()

	var events []notifier.Event
	bus.Subscribe(func(ev notifier.Event) {
		events = append(events, ev)
	})

	svc := NewCartService(store, notifier.NewNotifier(nil, bus))
	return svc, store, &events
}

func monstera() model.LineItem {
	return model.LineItem{
		ID:    "monstera-deliciosa",
		Name:  "Monstera Deliciosa",
		Price: 45.99,
		Image: "/static/images/monstera.jpg",
	}
}

func TestCartService_AddNewItem(t *testing.T) {
	svc, _, events := setupCartTest(t)
	ctx := context.Background()

	cart, err := svc.Add(ctx, "sess-1", "tab-1", monstera())
	require.NoError(t, err)

	require.Len(t, cart, 1)
	assert.Equal(t, "monstera-deliciosa", cart[0].ID)
	assert.Equal(t, 1, cart[0].Quantity)

	require.Len(t, *events, 1)
	assert.Equal(t, notifier.ActionAdd, (*events)[0].Action)
	assert.Equal(t, "tab-1", (*events)[0].SourceTab)
}

func TestCartService_AddExistingItemIncrements(t *testing.T) {
	svc, _, _ := setupCartTest(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", "tab-1", monstera())
	require.NoError(t, err)
	cart, err := svc.Add(ctx, "sess-1", "tab-1", monstera())
	require.NoError(t, err)

	// One line per product id, never a duplicate row.
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestCartService_AddCapsAtMaxQuantity(t *testing.T) {
	svc, store, _ := setupCartTest(t)
	ctx := context.Background()

	item := monstera()
	item.Quantity = model.MaxQuantity
	require.NoError(t, store.Save(ctx, "sess-1", model.Cart{item}))

	cart, err := svc.Add(ctx, "sess-1", "tab-1", monstera())
	require.NoError(t, err)
	assert.Equal(t, model.MaxQuantity, cart[0].Quantity)
}

func TestCartService_SetQuantity(t *testing.T) {
	svc, _, _ := setupCartTest(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", "tab-1", monstera())
	require.NoError(t, err)

	tests := []struct {
		name  string
		input int
		want  int
	}{
		{name: "In range", input: 5, want: 5},
		{name: "Below minimum clamps to 1", input: 0, want: 1},
		{name: "Above maximum clamps to 99", input: 150, want: model.MaxQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, err := svc.SetQuantity(ctx, "sess-1", "tab-1", "monstera-deliciosa", tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cart[0].Quantity)
		})
	}
}

func TestCartService_SetQuantityAbsentIDIsNoOp(t *testing.T) {
	svc, _, events := setupCartTest(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", "tab-1", monstera())
	require.NoError(t, err)
	before := len(*events)

	cart, err := svc.SetQuantity(ctx, "sess-1", "tab-1", "does-not-exist", 5)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
	assert.Len(t, *events, before)
}

func TestCartService_IncrementDecrement(t *testing.T) {
	svc, _, _ := setupCartTest(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", "tab-1", monstera())
	require.NoError(t, err)

	cart, err := svc.Increment(ctx, "sess-1", "tab-1", "monstera-deliciosa")
	require.NoError(t, err)
	assert.Equal(t, 2, cart[0].Quantity)

	cart, err = svc.Decrement(ctx, "sess-1", "tab-1", "monstera-deliciosa")
	require.NoError(t, err)
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestCartService_DecrementAtMinimumKeepsItem(t *testing.T) {
	svc, _, _ := setupCartTest(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", "tab-1", monstera())
	require.NoError(t, err)

	// Quantity 1 stays; removal has its own affordance.
	cart, err := svc.Decrement(ctx, "sess-1", "tab-1", "monstera-deliciosa")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestCartService_Remove(t *testing.T) {
	svc, _, events := setupCartTest(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", "tab-1", monstera())
	require.NoError(t, err)

	cart, err := svc.Remove(ctx, "sess-1", "tab-1", "monstera-deliciosa")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, notifier.ActionRemove, (*events)[len(*events)-1].Action)

	// Removing an absent id changes nothing.
	before := len(*events)
	cart, err = svc.Remove(ctx, "sess-1", "tab-1", "monstera-deliciosa")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Len(t, *events, before)
}

func TestCartService_ClearDropsItemsAndCoupon(t *testing.T) {
	svc, store, events := setupCartTest(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", "tab-1", monstera())
	require.NoError(t, err)
	_, err = svc.ApplyCoupon(ctx, "sess-1", "tab-1", "WELCOME10")
	require.NoError(t, err)

	before := len(*events)
	require.NoError(t, svc.Clear(ctx, "sess-1", "tab-1"))

	cart, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	coupon, err := store.LoadCoupon(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, coupon)

	// Both effects ride a single clear notification.
	require.Len(t, *events, before+1)
	assert.Equal(t, notifier.ActionClear, (*events)[before].Action)
}

func TestCartService_Replace(t *testing.T) {
	svc, _, _ := setupCartTest(t)
	ctx := context.Background()

	incoming := model.Cart{
		{ID: "monstera-deliciosa", Name: "Monstera Deliciosa", Price: 45.99, Quantity: 2},
		{ID: "lavender", Name: "Lavender", Price: 18.99, Quantity: 200},
		{ID: "monstera-deliciosa", Name: "Monstera Deliciosa", Price: 45.99, Quantity: 3},
	}

	cart, err := svc.Replace(ctx, "sess-1", "tab-1", incoming)
	require.NoError(t, err)

	// Duplicate rows merge and quantities clamp on the way in.
	require.Len(t, cart, 2)
	assert.Equal(t, 5, cart[cart.Find("monstera-deliciosa")].Quantity)
	assert.Equal(t, model.MaxQuantity, cart[cart.Find("lavender")].Quantity)
}

func TestCartService_ApplyCoupon(t *testing.T) {
	svc, _, _ := setupCartTest(t)
	ctx := context.Background()

	// Codes are case-insensitive.
	coupon, err := svc.ApplyCoupon(ctx, "sess-1", "tab-1", "welcome10")
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", coupon.Code)
	assert.Equal(t, model.CouponPercentage, coupon.Type)
}

func TestCartService_ApplyCouponInvalid(t *testing.T) {
	svc, store, _ := setupCartTest(t)
	ctx := context.Background()

	_, err := svc.ApplyCoupon(ctx, "sess-1", "tab-1", "BOGUS")
	assert.ErrorIs(t, err, ErrInvalidCoupon)

	coupon, err := store.LoadCoupon(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, coupon)
}

func TestCartService_ApplyCouponTwice(t *testing.T) {
	svc, _, _ := setupCartTest(t)
	ctx := context.Background()

	_, err := svc.ApplyCoupon(ctx, "sess-1", "tab-1", "PLANT20")
	require.NoError(t, err)

	coupon, err := svc.ApplyCoupon(ctx, "sess-1", "tab-1", "PLANT20")
	assert.ErrorIs(t, err, ErrCouponAlreadyApplied)
	require.NotNil(t, coupon)
	assert.Equal(t, "PLANT20", coupon.Code)
}

func TestCartService_ReplaceCoupon(t *testing.T) {
	svc, store, _ := setupCartTest(t)
	ctx := context.Background()

	_, err := svc.ApplyCoupon(ctx, "sess-1", "tab-1", "WELCOME10")
	require.NoError(t, err)
	_, err = svc.ApplyCoupon(ctx, "sess-1", "tab-1", "SAVE5")
	require.NoError(t, err)

	// At most one coupon is active; the newer one wins.
	coupon, err := store.LoadCoupon(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, coupon)
	assert.Equal(t, "SAVE5", coupon.Code)
}

func TestCartService_RemoveCoupon(t *testing.T) {
	svc, store, _ := setupCartTest(t)
	ctx := context.Background()

	_, err := svc.ApplyCoupon(ctx, "sess-1", "tab-1", "FREESHIP")
	require.NoError(t, err)
	require.NoError(t, svc.RemoveCoupon(ctx, "sess-1", "tab-1"))

	coupon, err := store.LoadCoupon(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, coupon)
}

func TestCartService_SessionsAreIsolated(t *testing.T) {
	svc, _, _ := setupCartTest(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "sess-1", "tab-1", monstera())
	require.NoError(t, err)

	state, err := svc.GetCart(ctx, "sess-2")
	require.NoError(t, err)
	assert.True(t, state.Items.IsEmpty())
}

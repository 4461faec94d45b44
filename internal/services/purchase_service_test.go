package services_test

import (
	"encoding/json"
	"testing"

	"ecofinds/internal/models"
	"ecofinds/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

func newPurchaseService(env *testEnv, publisher services.EventPublisher) *services.PurchaseService {
	return services.NewPurchaseService(env.purchases, env.cart, env.listings, publisher, nil)
}

func TestPurchaseService_CheckoutEmptyCart(t *testing.T) {
	env := newTestEnv()
	svc := newPurchaseService(env, nil)

	result, err := svc.Checkout("buyer-1", "")
	assert.ErrorIs(t, err, services.ErrEmptyCart)
	assert.Nil(t, result)

	purchases, err := env.purchases.GetByBuyer("buyer-1")
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

func TestPurchaseService_CheckoutHappyPath(t *testing.T) {
	env := newTestEnv()
	publisher := new(mockPublisher)
	publisher.On("Publish", "purchase.completed", mock.Anything).Return(nil)
	svc := newPurchaseService(env, publisher)

	a := seedListing(t, env, "seller-1", 10.00, true)
	b := seedListing(t, env, "seller-2", 5.005, true)
	_, err := env.cartService.Add("buyer-1", a.ID, 2)
	require.NoError(t, err)
	_, err = env.cartService.Add("buyer-1", b.ID, 1)
	require.NoError(t, err)

	result, err := svc.Checkout("buyer-1", "leave at the door")
	require.NoError(t, err)
	require.NotNil(t, result.Purchase)
	assert.Empty(t, result.RemovedItems)

	purchase := result.Purchase
	assert.Equal(t, "buyer-1", purchase.BuyerID)
	assert.Equal(t, models.PurchaseStatusCompleted, purchase.Status)
	assert.Equal(t, "leave at the door", purchase.Notes)
	require.Len(t, purchase.Items, 2)

	// Per-line totals round once at the end: 2×10.00 + 1×5.005 = 25.01.
	assert.Equal(t, 25.01, purchase.Total)

	require.NotNil(t, result.Summary)
	assert.Equal(t, 3, result.Summary.ItemCount)
	assert.Equal(t, 25.01, result.Summary.Total)
	assert.Equal(t, 2, result.Summary.DistinctSellers)

	// The cart is cleared after checkout.
	entries, err := env.cart.GetByOwner("buyer-1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	publisher.AssertExpectations(t)
}

func TestPurchaseService_CheckoutSnapshotsPrices(t *testing.T) {
	env := newTestEnv()
	svc := newPurchaseService(env, nil)

	listing := seedListing(t, env, "seller-1", 10.00, true)
	_, err := env.cartService.Add("buyer-1", listing.ID, 1)
	require.NoError(t, err)

	result, err := svc.Checkout("buyer-1", "")
	require.NoError(t, err)
	item := result.Purchase.Items[0]
	assert.Equal(t, 10.00, item.PriceAtPurchase)
	assert.Equal(t, listing.Title, item.Title)
	assert.Equal(t, "seller-1", item.SellerID)

	// A later price change does not touch the snapshot.
	listing.Price = 99.99
	require.NoError(t, env.listings.Update(listing))

	stored, err := svc.GetByID("buyer-1", result.Purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.00, stored.Items[0].PriceAtPurchase)
	assert.Equal(t, 10.00, stored.Total)
}

func TestPurchaseService_CheckoutDropsInvalidEntries(t *testing.T) {
	env := newTestEnv()
	publisher := new(mockPublisher)
	publisher.On("Publish", "purchase.completed", mock.Anything).Return(nil)
	svc := newPurchaseService(env, publisher)

	keep := seedListing(t, env, "seller-1", 20.00, true)
	unavailable := seedListing(t, env, "seller-2", 5.00, true)
	deleted := seedListing(t, env, "seller-2", 3.00, true)

	_, err := env.cartService.Add("buyer-1", keep.ID, 1)
	require.NoError(t, err)
	_, err = env.cartService.Add("buyer-1", unavailable.ID, 2)
	require.NoError(t, err)
	_, err = env.cartService.Add("buyer-1", deleted.ID, 1)
	require.NoError(t, err)

	unavailable.Available = false
	require.NoError(t, env.listings.Update(unavailable))
	require.NoError(t, env.listings.Delete(deleted.ID))

	result, err := svc.Checkout("buyer-1", "")
	require.NoError(t, err)

	// Only the valid line is committed.
	require.Len(t, result.Purchase.Items, 1)
	assert.Equal(t, keep.ID, result.Purchase.Items[0].ListingID)
	assert.Equal(t, 20.00, result.Purchase.Total)

	// Dropped entries are reported with a reason each.
	require.Len(t, result.RemovedItems, 2)
	reasons := map[string]string{}
	for _, item := range result.RemovedItems {
		reasons[item.ListingID] = item.Reason
	}
	assert.Equal(t, services.RemovalReasonUnavailable, reasons[unavailable.ID])
	assert.Equal(t, services.RemovalReasonListingGone, reasons[deleted.ID])

	entries, err := env.cart.GetByOwner("buyer-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPurchaseService_CheckoutAllInvalid(t *testing.T) {
	env := newTestEnv()
	publisher := new(mockPublisher)
	svc := newPurchaseService(env, publisher)

	listing := seedListing(t, env, "seller-1", 5.00, true)
	_, err := env.cartService.Add("buyer-1", listing.ID, 1)
	require.NoError(t, err)

	listing.Available = false
	require.NoError(t, env.listings.Update(listing))

	result, err := svc.Checkout("buyer-1", "")
	assert.ErrorIs(t, err, services.ErrNoValidItems)
	require.NotNil(t, result)
	assert.Nil(t, result.Purchase)
	require.Len(t, result.RemovedItems, 1)
	assert.Equal(t, services.RemovalReasonUnavailable, result.RemovedItems[0].Reason)

	// Cleanup happened despite the failure, and nothing was published.
	entries, err := env.cart.GetByOwner("buyer-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
	purchases, err := env.purchases.GetByBuyer("buyer-1")
	require.NoError(t, err)
	assert.Empty(t, purchases)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestPurchaseService_CheckoutRechecksOwnership(t *testing.T) {
	env := newTestEnv()
	svc := newPurchaseService(env, nil)

	listing := seedListing(t, env, "seller-1", 5.00, true)
	// The ownership guard at add time can be raced; seed the entry directly.
	entry := &models.CartEntry{OwnerID: "seller-1", ListingID: listing.ID, Quantity: 1}
	require.NoError(t, env.cart.Create(entry))

	result, err := svc.Checkout("seller-1", "")
	assert.ErrorIs(t, err, services.ErrNoValidItems)
	require.Len(t, result.RemovedItems, 1)
	assert.Equal(t, services.RemovalReasonOwnListing, result.RemovedItems[0].Reason)
}

func TestPurchaseService_CheckoutEventPayload(t *testing.T) {
	env := newTestEnv()
	publisher := new(mockPublisher)
	var payload []byte
	publisher.On("Publish", "purchase.completed", mock.Anything).
		Run(func(args mock.Arguments) { payload = args.Get(1).([]byte) }).
		Return(nil)
	svc := newPurchaseService(env, publisher)

	listing := seedListing(t, env, "seller-1", 12.50, true)
	_, err := env.cartService.Add("buyer-1", listing.ID, 2)
	require.NoError(t, err)

	result, err := svc.Checkout("buyer-1", "")
	require.NoError(t, err)

	var event map[string]any
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, result.Purchase.ID, event["purchaseId"])
	assert.Equal(t, "buyer-1", event["buyerId"])
	assert.Equal(t, 25.00, event["total"])
}

func TestPurchaseService_GetByID(t *testing.T) {
	env := newTestEnv()
	svc := newPurchaseService(env, nil)

	listing := seedListing(t, env, "seller-1", 5.00, true)
	_, err := env.cartService.Add("buyer-1", listing.ID, 1)
	require.NoError(t, err)
	result, err := svc.Checkout("buyer-1", "")
	require.NoError(t, err)

	got, err := svc.GetByID("buyer-1", result.Purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Purchase.ID, got.ID)

	_, err = svc.GetByID("buyer-2", result.Purchase.ID)
	assert.ErrorIs(t, err, services.ErrNotPurchaseOwner)

	_, err = svc.GetByID("buyer-1", "missing")
	assert.ErrorIs(t, err, services.ErrPurchaseNotFound)
}

func TestPurchaseService_Stats(t *testing.T) {
	env := newTestEnv()
	svc := newPurchaseService(env, nil)

	a := seedListing(t, env, "seller-1", 10.00, true)
	b := seedListing(t, env, "seller-2", 4.00, true)

	_, err := env.cartService.Add("buyer-1", a.ID, 2)
	require.NoError(t, err)
	_, err = env.cartService.Add("buyer-1", b.ID, 1)
	require.NoError(t, err)
	_, err = svc.Checkout("buyer-1", "")
	require.NoError(t, err)

	_, err = env.cartService.Add("buyer-1", b.ID, 3)
	require.NoError(t, err)
	_, err = svc.Checkout("buyer-1", "")
	require.NoError(t, err)

	stats, err := svc.Stats("buyer-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPurchases)
	assert.Equal(t, 36.00, stats.TotalSpent)
	assert.Equal(t, 6, stats.TotalItems)
	assert.Equal(t, 2, stats.DistinctSellers)
	assert.Equal(t, map[string]int{string(models.PurchaseStatusCompleted): 2}, stats.ByStatus)

	// A buyer with no history gets zeroes, not an error.
	empty, err := svc.Stats("buyer-2")
	require.NoError(t, err)
	assert.Zero(t, empty.TotalPurchases)
	assert.Zero(t, empty.TotalSpent)
}

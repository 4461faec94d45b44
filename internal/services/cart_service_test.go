package services_test

import (
	"io"
	"log"
	"os"
	"testing"

	"ecofinds/internal/models"
	"ecofinds/internal/repositories"
	"ecofinds/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv wires the in-memory repositories the way main wires the GORM ones.
type testEnv struct {
	users     *repositories.MockUserRepository
	listings  *repositories.MockListingRepository
	cart      *repositories.MockCartRepository
	purchases *repositories.MockPurchaseRepository

	cartService    *services.CartService
	listingService *services.ListingService
}

func newTestEnv() *testEnv {
	users := repositories.NewMockUserRepository()
	listings := repositories.NewMockListingRepository()
	cart := repositories.NewMockCartRepository(listings)
	purchases := repositories.NewMockPurchaseRepository()
	return &testEnv{
		users:          users,
		listings:       listings,
		cart:           cart,
		purchases:      purchases,
		cartService:    services.NewCartService(cart, listings),
		listingService: services.NewListingService(listings),
	}
}

// seedListing inserts a listing directly, bypassing service-side rounding so
// tests control the exact stored price.
func seedListing(t *testing.T, env *testEnv, ownerID string, price float64, available bool) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		OwnerID:   ownerID,
		Title:     "Seeded item",
		Category:  models.CategoryOther,
		Condition: models.ConditionGood,
		Price:     price,
		Available: available,
	}
	require.NoError(t, env.listings.Create(listing))
	return listing
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestCartService_Add(t *testing.T) {
	env := newTestEnv()
	listing := seedListing(t, env, "seller-1", 10.00, true)

	// Successful add.
	entry, err := env.cartService.Add("buyer-1", listing.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Quantity)
	assert.Equal(t, listing.ID, entry.ListingID)
	require.NotNil(t, entry.Listing)

	// Adding the same listing again increments instead of duplicating.
	entry, err = env.cartService.Add("buyer-1", listing.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, entry.Quantity)

	entries, err := env.cart.GetByOwner("buyer-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// Increment clamps at the maximum quantity.
	entry, err = env.cartService.Add("buyer-1", listing.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, models.MaxCartQuantity, entry.Quantity)

	// Unknown listing.
	_, err = env.cartService.Add("buyer-1", "missing", 1)
	assert.ErrorIs(t, err, services.ErrListingNotFound)

	// Unavailable listing.
	sold := seedListing(t, env, "seller-1", 5.00, false)
	_, err = env.cartService.Add("buyer-1", sold.ID, 1)
	assert.ErrorIs(t, err, services.ErrListingUnavailable)

	// Own listing.
	_, err = env.cartService.Add("seller-1", listing.ID, 1)
	assert.ErrorIs(t, err, services.ErrSelfPurchase)

	// Quantity bounds.
	_, err = env.cartService.Add("buyer-1", listing.ID, 0)
	assert.ErrorIs(t, err, services.ErrValidationFailed)
	_, err = env.cartService.Add("buyer-1", listing.ID, 11)
	assert.ErrorIs(t, err, services.ErrValidationFailed)
}

func TestCartService_AddSelfPurchaseLeavesCartUnchanged(t *testing.T) {
	env := newTestEnv()
	listing := seedListing(t, env, "seller-1", 10.00, true)

	_, err := env.cartService.Add("seller-1", listing.ID, 1)
	assert.ErrorIs(t, err, services.ErrSelfPurchase)

	entries, err := env.cart.GetByOwner("seller-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCartService_SetQuantity(t *testing.T) {
	env := newTestEnv()
	listing := seedListing(t, env, "seller-1", 10.00, true)
	entry, err := env.cartService.Add("buyer-1", listing.ID, 2)
	require.NoError(t, err)

	// Happy path.
	updated, err := env.cartService.SetQuantity("buyer-1", entry.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)

	// Someone else's entry.
	_, err = env.cartService.SetQuantity("buyer-2", entry.ID, 1)
	assert.ErrorIs(t, err, services.ErrNotCartOwner)

	// Unknown entry.
	_, err = env.cartService.SetQuantity("buyer-1", "missing", 1)
	assert.ErrorIs(t, err, services.ErrEntryNotFound)

	// Out-of-range quantity.
	_, err = env.cartService.SetQuantity("buyer-1", entry.ID, 0)
	assert.ErrorIs(t, err, services.ErrValidationFailed)
}

func TestCartService_SetQuantityDropsStaleEntry(t *testing.T) {
	env := newTestEnv()
	listing := seedListing(t, env, "seller-1", 10.00, true)
	entry, err := env.cartService.Add("buyer-1", listing.ID, 2)
	require.NoError(t, err)

	// The listing goes unavailable between add and update.
	listing.Available = false
	require.NoError(t, env.listings.Update(listing))

	_, err = env.cartService.SetQuantity("buyer-1", entry.ID, 3)
	assert.ErrorIs(t, err, services.ErrListingUnavailable)

	// Self-healing cleanup: the entry is gone, not silently kept.
	entries, err := env.cart.GetByOwner("buyer-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCartService_Remove(t *testing.T) {
	env := newTestEnv()
	listing := seedListing(t, env, "seller-1", 10.00, true)
	entry, err := env.cartService.Add("buyer-1", listing.ID, 1)
	require.NoError(t, err)

	// Someone else's entry.
	err = env.cartService.Remove("buyer-2", entry.ID)
	assert.ErrorIs(t, err, services.ErrNotCartOwner)

	// Owned entry.
	require.NoError(t, env.cartService.Remove("buyer-1", entry.ID))

	// Removing again is idempotent.
	require.NoError(t, env.cartService.Remove("buyer-1", entry.ID))
}

func TestCartService_ViewReconcilesStaleEntries(t *testing.T) {
	env := newTestEnv()
	keep := seedListing(t, env, "seller-1", 10.00, true)
	stale := seedListing(t, env, "seller-2", 5.005, true)
	gone := seedListing(t, env, "seller-2", 3.00, true)

	_, err := env.cartService.Add("buyer-1", keep.ID, 2)
	require.NoError(t, err)
	_, err = env.cartService.Add("buyer-1", stale.ID, 1)
	require.NoError(t, err)
	_, err = env.cartService.Add("buyer-1", gone.ID, 1)
	require.NoError(t, err)

	// One listing goes unavailable, one is hard-deleted.
	stale.Available = false
	require.NoError(t, env.listings.Update(stale))
	require.NoError(t, env.listings.Delete(gone.ID))

	view, err := env.cartService.View("buyer-1")
	require.NoError(t, err)
	assert.Len(t, view.Entries, 1)
	assert.Equal(t, 2, view.ItemCount)
	assert.Equal(t, 2, view.RemovedCount)
	assert.Equal(t, 20.00, view.Total)

	// The stale entries were deleted from the store, not just hidden.
	entries, err := env.cart.GetByOwner("buyer-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCartService_ViewTotalRounding(t *testing.T) {
	env := newTestEnv()
	a := seedListing(t, env, "seller-1", 10.00, true)
	b := seedListing(t, env, "seller-2", 5.005, true)

	_, err := env.cartService.Add("buyer-1", a.ID, 2)
	require.NoError(t, err)
	_, err = env.cartService.Add("buyer-1", b.ID, 1)
	require.NoError(t, err)

	view, err := env.cartService.View("buyer-1")
	require.NoError(t, err)
	assert.Equal(t, 25.01, view.Total)
	assert.Zero(t, view.RemovedCount)
}

func TestCartService_Clear(t *testing.T) {
	env := newTestEnv()
	a := seedListing(t, env, "seller-1", 10.00, true)
	b := seedListing(t, env, "seller-2", 5.00, true)

	_, err := env.cartService.Add("buyer-1", a.ID, 1)
	require.NoError(t, err)
	_, err = env.cartService.Add("buyer-1", b.ID, 1)
	require.NoError(t, err)

	count, err := env.cartService.Clear("buyer-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	count, err = env.cartService.Clear("buyer-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

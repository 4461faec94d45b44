package services

import (
	"errors"
	"fmt"
	"log"

	"ecofinds/internal/models"
	"ecofinds/internal/repositories"
	"ecofinds/pkg/money"
)

// CartService handles business logic for shopping carts. The cart is not a
// reservation system: listings stay buyable by everyone until checkout, so
// stale entries are reconciled lazily on read instead of being locked.
type CartService struct {
	cartRepo    repositories.CartRepository
	listingRepo repositories.ListingRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, listingRepo repositories.ListingRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		listingRepo: listingRepo,
	}
}

// Add puts a listing in the caller's cart or increments the existing entry,
// clamping the quantity at the per-entry maximum.
func (s *CartService) Add(ownerID, listingID string, quantity int) (*models.CartEntry, error) {
	if quantity < models.MinCartQuantity || quantity > models.MaxCartQuantity {
		return nil, fmt.Errorf("%w: quantity must be between %d and %d",
			ErrValidationFailed, models.MinCartQuantity, models.MaxCartQuantity)
	}

	listing, err := s.listingRepo.GetByID(listingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if !listing.Available {
		return nil, ErrListingUnavailable
	}
	if listing.OwnerID == ownerID {
		return nil, ErrSelfPurchase
	}

	entry, err := s.cartRepo.GetByOwnerAndListing(ownerID, listingID)
	if err == nil {
		entry.Quantity += quantity
		if entry.Quantity > models.MaxCartQuantity {
			entry.Quantity = models.MaxCartQuantity
		}
		if err := s.cartRepo.Update(entry); err != nil {
			return nil, fmt.Errorf("failed to update cart entry: %w", err)
		}
		entry.Listing = listing
		return entry, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	entry = &models.CartEntry{
		OwnerID:   ownerID,
		ListingID: listingID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.Create(entry); err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	entry.Listing = listing
	return entry, nil
}

// SetQuantity replaces the quantity of an entry owned by the caller. If the
// referenced listing has vanished or gone unavailable the entry is deleted as
// a side effect and the call fails, so the caller learns about the staleness
// instead of silently succeeding.
func (s *CartService) SetQuantity(ownerID, entryID string, quantity int) (*models.CartEntry, error) {
	if quantity < models.MinCartQuantity || quantity > models.MaxCartQuantity {
		return nil, fmt.Errorf("%w: quantity must be between %d and %d",
			ErrValidationFailed, models.MinCartQuantity, models.MaxCartQuantity)
	}

	entry, err := s.cartRepo.GetByID(entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	if entry.OwnerID != ownerID {
		return nil, ErrNotCartOwner
	}

	if entry.Listing == nil || !entry.Listing.Available {
		if err := s.cartRepo.Delete(entry.ID); err != nil {
			log.Printf("Failed to drop stale cart entry %s: %v", entry.ID, err)
		}
		return nil, ErrListingUnavailable
	}

	entry.Quantity = quantity
	if err := s.cartRepo.Update(entry); err != nil {
		return nil, fmt.Errorf("failed to update cart entry: %w", err)
	}
	return entry, nil
}

// Remove deletes an entry owned by the caller. Removing an entry that no
// longer exists succeeds.
func (s *CartService) Remove(ownerID, entryID string) error {
	entry, err := s.cartRepo.GetByID(entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil // already gone
		}
		return err
	}
	if entry.OwnerID != ownerID {
		return ErrNotCartOwner
	}
	if err := s.cartRepo.Delete(entryID); err != nil {
		return fmt.Errorf("failed to remove cart entry: %w", err)
	}
	return nil
}

// CartView is the caller's cart with listings resolved, plus how many stale
// entries were silently dropped while assembling it.
type CartView struct {
	Entries      []models.CartEntry `json:"entries"`
	Total        float64            `json:"total"`
	ItemCount    int                `json:"itemCount"`
	RemovedCount int                `json:"removedCount"`
}

// View returns the caller's cart. Entries whose listing has vanished or gone
// unavailable are deleted from the store on the way through and reported via
// RemovedCount so the client can reconcile its own view.
func (s *CartService) View(ownerID string) (*CartView, error) {
	entries, err := s.cartRepo.GetByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Entries: make([]models.CartEntry, 0, len(entries))}
	var lines []money.Line
	for _, entry := range entries {
		if entry.Listing == nil || !entry.Listing.Available {
			if err := s.cartRepo.Delete(entry.ID); err != nil {
				log.Printf("Failed to drop stale cart entry %s: %v", entry.ID, err)
			}
			view.RemovedCount++
			continue
		}
		view.Entries = append(view.Entries, entry)
		view.ItemCount += entry.Quantity
		lines = append(lines, money.Line{Price: entry.Listing.Price, Quantity: entry.Quantity})
	}
	view.Total = money.Total(lines)
	return view, nil
}

// Clear deletes every entry in the caller's cart and returns the count.
func (s *CartService) Clear(ownerID string) (int64, error) {
	count, err := s.cartRepo.DeleteByOwner(ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}
	return count, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"ecofinds/internal/models"
	"ecofinds/internal/repositories"
	"ecofinds/pkg/cache"
	"ecofinds/pkg/money"
)

// EventPublisher publishes marketplace events to the message broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

const statsCacheTTL = 60 * time.Second

// PurchaseService converts carts into immutable purchase records.
type PurchaseService struct {
	purchaseRepo repositories.PurchaseRepository
	cartRepo     repositories.CartRepository
	listingRepo  repositories.ListingRepository
	publisher    EventPublisher // may be nil
	statsCache   *cache.Client  // may be nil
}

// NewPurchaseService creates a new PurchaseService. publisher and statsCache
// are optional; pass nil to disable event publishing or stats caching.
func NewPurchaseService(
	purchaseRepo repositories.PurchaseRepository,
	cartRepo repositories.CartRepository,
	listingRepo repositories.ListingRepository,
	publisher EventPublisher,
	statsCache *cache.Client,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		cartRepo:     cartRepo,
		listingRepo:  listingRepo,
		publisher:    publisher,
		statsCache:   statsCache,
	}
}

// RemovedCartItem reports a cart entry dropped during checkout and why.
type RemovedCartItem struct {
	EntryID   string `json:"entryId"`
	ListingID string `json:"listingId"`
	Title     string `json:"title,omitempty"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// Removal reasons reported to the client.
const (
	RemovalReasonListingGone = "listing no longer exists"
	RemovalReasonUnavailable = "listing is no longer available"
	RemovalReasonOwnListing  = "cannot purchase your own listing"
)

// CheckoutSummary condenses a committed purchase for the response.
type CheckoutSummary struct {
	ItemCount       int     `json:"itemCount"`
	Total           float64 `json:"total"`
	DistinctSellers int     `json:"distinctSellers"`
}

// CheckoutResult is the mixed outcome of a checkout: the created purchase (nil
// on failure) plus whatever entries were dropped along the way.
type CheckoutResult struct {
	Purchase     *models.Purchase  `json:"purchase,omitempty"`
	Summary      *CheckoutSummary  `json:"summary,omitempty"`
	RemovedItems []RemovedCartItem `json:"removedUnavailableItems"`
}

// Checkout converts the buyer's cart into an immutable purchase.
//
// Entries whose listing has vanished, gone unavailable, or turned out to be
// the buyer's own (ownership is re-checked here, not just at add time) are
// deleted from the cart before anything else — cleanup happens even when the
// checkout ultimately fails. Valid entries are snapshotted with their current
// price, the purchase is persisted with status completed, and the whole cart
// is cleared. There is no cross-store transaction around the persist and the
// clear; a crash in between leaves a stale cart next to a completed purchase,
// which the lazy cart reconciliation tolerates.
func (s *PurchaseService) Checkout(buyerID, notes string) (*CheckoutResult, error) {
	entries, err := s.cartRepo.GetByOwner(buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCart
	}

	result := &CheckoutResult{RemovedItems: []RemovedCartItem{}}
	var items []models.PurchaseItem

	for _, entry := range entries {
		listing := entry.Listing
		removed := RemovedCartItem{
			EntryID:   entry.ID,
			ListingID: entry.ListingID,
			Quantity:  entry.Quantity,
		}
		switch {
		case listing == nil:
			removed.Reason = RemovalReasonListingGone
		case !listing.Available:
			removed.Title = listing.Title
			removed.Reason = RemovalReasonUnavailable
		case listing.OwnerID == buyerID:
			removed.Title = listing.Title
			removed.Reason = RemovalReasonOwnListing
		default:
			items = append(items, models.PurchaseItem{
				ListingID:       listing.ID,
				SellerID:        listing.OwnerID,
				Title:           listing.Title,
				ImageURL:        listing.ImageURL,
				Quantity:        entry.Quantity,
				PriceAtPurchase: listing.Price,
			})
			continue
		}

		// Invalid entries are removed immediately, regardless of whether the
		// checkout succeeds.
		if err := s.cartRepo.Delete(entry.ID); err != nil {
			log.Printf("Failed to delete invalid cart entry %s: %v", entry.ID, err)
		}
		result.RemovedItems = append(result.RemovedItems, removed)
	}

	if len(items) == 0 {
		return result, ErrNoValidItems
	}

	purchase := &models.Purchase{
		BuyerID: buyerID,
		Items:   items,
		Status:  models.PurchaseStatusCompleted,
		Notes:   notes,
	}
	if err := s.purchaseRepo.Create(purchase); err != nil {
		return result, fmt.Errorf("failed to persist purchase: %w", err)
	}

	// Checkout is all-or-nothing from the cart's perspective: clear whatever
	// is left, not just the committed entries.
	if _, err := s.cartRepo.DeleteByOwner(buyerID); err != nil {
		log.Printf("Failed to clear cart for buyer %s after checkout: %v", buyerID, err)
	}

	result.Purchase = purchase
	result.Summary = &CheckoutSummary{
		ItemCount:       purchase.ItemCount(),
		Total:           purchase.Total,
		DistinctSellers: purchase.DistinctSellers(),
	}

	s.publishCompleted(purchase)
	s.invalidateStats(buyerID)

	return result, nil
}

// GetByID returns one of the buyer's purchases.
func (s *PurchaseService) GetByID(buyerID, id string) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	if purchase.BuyerID != buyerID {
		return nil, ErrNotPurchaseOwner
	}
	return purchase, nil
}

// List returns the buyer's purchase history, newest first.
func (s *PurchaseService) List(buyerID string) ([]models.Purchase, error) {
	return s.purchaseRepo.GetByBuyer(buyerID)
}

// PurchaseStats aggregates a buyer's purchase history.
type PurchaseStats struct {
	TotalPurchases  int            `json:"totalPurchases"`
	TotalSpent      float64        `json:"totalSpent"`
	TotalItems      int            `json:"totalItems"`
	DistinctSellers int            `json:"distinctSellers"`
	ByStatus        map[string]int `json:"byStatus"`
}

// Stats computes aggregate numbers over the buyer's purchases, served from
// the cache when a fresh copy exists.
func (s *PurchaseService) Stats(buyerID string) (*PurchaseStats, error) {
	key := statsCacheKey(buyerID)
	var cached PurchaseStats
	if err := s.statsCache.GetJSON(context.Background(), key, &cached); err == nil {
		return &cached, nil
	}

	purchases, err := s.purchaseRepo.GetByBuyer(buyerID)
	if err != nil {
		return nil, err
	}

	stats := &PurchaseStats{ByStatus: make(map[string]int)}
	sellers := make(map[string]struct{})
	var lines []money.Line
	for _, p := range purchases {
		stats.TotalPurchases++
		stats.TotalItems += p.ItemCount()
		stats.ByStatus[string(p.Status)]++
		lines = append(lines, money.Line{Price: p.Total, Quantity: 1})
		for _, item := range p.Items {
			sellers[item.SellerID] = struct{}{}
		}
	}
	stats.TotalSpent = money.Total(lines)
	stats.DistinctSellers = len(sellers)

	if err := s.statsCache.SetJSON(context.Background(), key, stats, statsCacheTTL); err != nil {
		log.Printf("Failed to cache purchase stats for %s: %v", buyerID, err)
	}
	return stats, nil
}

func (s *PurchaseService) publishCompleted(purchase *models.Purchase) {
	if s.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"purchaseId": purchase.ID,
		"buyerId":    purchase.BuyerID,
		"status":     purchase.Status,
		"total":      purchase.Total,
		"itemCount":  purchase.ItemCount(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal purchase event: %v", err)
		return
	}
	if err := s.publisher.Publish("purchase.completed", body); err != nil {
		log.Printf("Warning: failed to publish purchase completed event for %s: %v", purchase.ID, err)
	} else {
		log.Printf("Published purchase completed event for %s", purchase.ID)
	}
}

func (s *PurchaseService) invalidateStats(buyerID string) {
	if err := s.statsCache.Delete(context.Background(), statsCacheKey(buyerID)); err != nil {
		log.Printf("Failed to invalidate purchase stats for %s: %v", buyerID, err)
	}
}

func statsCacheKey(buyerID string) string {
	return "purchase_stats:" + buyerID
}

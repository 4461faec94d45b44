package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"ecofinds/internal/models"

	"github.com/google/uuid"
)

// MockPurchaseRepository is an in-memory implementation of PurchaseRepository.
type MockPurchaseRepository struct {
	purchases map[string]models.Purchase
	mu        sync.RWMutex
}

// NewMockPurchaseRepository creates a new instance of MockPurchaseRepository.
func NewMockPurchaseRepository() *MockPurchaseRepository {
	return &MockPurchaseRepository{purchases: make(map[string]models.Purchase)}
}

// Create adds a new purchase, recomputing the total from the snapshot lines
// first, the same way the GORM implementation does.
func (r *MockPurchaseRepository) Create(purchase *models.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}
	for i := range purchase.Items {
		if purchase.Items[i].ID == "" {
			purchase.Items[i].ID = uuid.New().String()
		}
		purchase.Items[i].PurchaseID = purchase.ID
	}
	purchase.RecalculateTotal()
	purchase.CreatedAt = time.Now()
	r.purchases[purchase.ID] = *purchase
	return nil
}

// GetByID returns a purchase by its ID.
func (r *MockPurchaseRepository) GetByID(id string) (*models.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	purchase, ok := r.purchases[id]
	if !ok {
		return nil, fmt.Errorf("purchase with ID %s: %w", id, ErrNotFound)
	}
	return &purchase, nil
}

// GetByBuyer returns all purchases for a buyer, newest first.
func (r *MockPurchaseRepository) GetByBuyer(buyerID string) ([]models.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var purchases []models.Purchase
	for _, p := range r.purchases {
		if p.BuyerID == buyerID {
			purchases = append(purchases, p)
		}
	}
	sort.Slice(purchases, func(i, j int) bool {
		return purchases[i].CreatedAt.After(purchases[j].CreatedAt)
	})
	return purchases, nil
}

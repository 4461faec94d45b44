package repositories

import (
	"errors"
	"fmt"

	"ecofinds/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPurchaseRepository is a GORM implementation of PurchaseRepository.
type GORMPurchaseRepository struct {
	db *gorm.DB
}

// NewGORMPurchaseRepository creates a new instance of GORMPurchaseRepository.
func NewGORMPurchaseRepository(db *gorm.DB) *GORMPurchaseRepository {
	return &GORMPurchaseRepository{db: db}
}

// Create persists a purchase and its snapshot lines. The total is recomputed
// from the lines immediately before the write so it can never disagree with
// them.
func (r *GORMPurchaseRepository) Create(purchase *models.Purchase) error {
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

	if err := r.db.Create(purchase).Error; err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}
	return nil
}

// GetByID retrieves a purchase with its snapshot lines.
func (r *GORMPurchaseRepository) GetByID(id string) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.Preload("Items").First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("purchase with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get purchase by ID %s: %w", id, err)
	}
	return &purchase, nil
}

// GetByBuyer retrieves all purchases for a buyer, newest first.
func (r *GORMPurchaseRepository) GetByBuyer(buyerID string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	if err := r.db.Preload("Items").Where("buyer_id = ?", buyerID).
		Order("created_at desc").Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("failed to get purchases for buyer %s: %w", buyerID, err)
	}
	return purchases, nil
}

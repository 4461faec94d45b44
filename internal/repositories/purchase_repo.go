package repositories

import "ecofinds/internal/models"

// PurchaseRepository defines the interface for purchase data access. Purchases
// are append-only: there is no update or delete.
type PurchaseRepository interface {
	Create(purchase *models.Purchase) error
	GetByID(id string) (*models.Purchase, error)
	GetByBuyer(buyerID string) ([]models.Purchase, error)
}

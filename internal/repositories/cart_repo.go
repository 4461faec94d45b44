package repositories

import "ecofinds/internal/models"

// CartRepository defines the interface for cart entry data access.
type CartRepository interface {
	GetByOwner(ownerID string) ([]models.CartEntry, error)
	GetByID(id string) (*models.CartEntry, error)
	GetByOwnerAndListing(ownerID, listingID string) (*models.CartEntry, error)
	Create(entry *models.CartEntry) error
	Update(entry *models.CartEntry) error
	Delete(id string) error
	DeleteByOwner(ownerID string) (int64, error)
}

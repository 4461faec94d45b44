package repositories

import (
	"errors"
	"fmt"

	"ecofinds/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// GetByOwner retrieves all cart entries for a user with listings resolved.
// Entries whose listing has been hard-deleted come back with a nil Listing;
// the service layer decides what to do with them.
func (r *GORMCartRepository) GetByOwner(ownerID string) ([]models.CartEntry, error) {
	var entries []models.CartEntry
	if err := r.db.Preload("Listing").Where("owner_id = ?", ownerID).
		Order("created_at asc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart for owner %s: %w", ownerID, err)
	}
	return entries, nil
}

// GetByID retrieves a single cart entry with its listing resolved.
func (r *GORMCartRepository) GetByID(id string) (*models.CartEntry, error) {
	var entry models.CartEntry
	if err := r.db.Preload("Listing").First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart entry with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart entry %s: %w", id, err)
	}
	return &entry, nil
}

// GetByOwnerAndListing retrieves the entry for a specific (owner, listing)
// pair, if one exists.
func (r *GORMCartRepository) GetByOwnerAndListing(ownerID, listingID string) (*models.CartEntry, error) {
	var entry models.CartEntry
	err := r.db.First(&entry, "owner_id = ? AND listing_id = ?", ownerID, listingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart entry for owner %s and listing %s: %w", ownerID, listingID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart entry for owner %s: %w", ownerID, err)
	}
	return &entry, nil
}

// Create inserts a new cart entry.
func (r *GORMCartRepository) Create(entry *models.CartEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if err := r.db.Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("cart entry for listing %s exists: %w", entry.ListingID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create cart entry: %w", err)
	}
	return nil
}

// Update saves quantity changes for an existing entry. The resolved Listing is
// not written back.
func (r *GORMCartRepository) Update(entry *models.CartEntry) error {
	res := r.db.Omit("Listing").Save(entry)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart entry with ID %s for update: %w", entry.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a cart entry by ID. Deleting a missing entry is not an error.
func (r *GORMCartRepository) Delete(id string) error {
	if err := r.db.Delete(&models.CartEntry{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete cart entry %s: %w", id, err)
	}
	return nil
}

// DeleteByOwner removes every entry for a user and reports how many went away.
func (r *GORMCartRepository) DeleteByOwner(ownerID string) (int64, error) {
	res := r.db.Delete(&models.CartEntry{}, "owner_id = ?", ownerID)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear cart for owner %s: %w", ownerID, res.Error)
	}
	return res.RowsAffected, nil
}

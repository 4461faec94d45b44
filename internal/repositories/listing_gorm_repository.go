package repositories

import (
	"errors"
	"fmt"
	"strings"

	"ecofinds/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMListingRepository is a GORM implementation of ListingRepository.
type GORMListingRepository struct {
	db *gorm.DB
}

// NewGORMListingRepository creates a new instance of GORMListingRepository.
func NewGORMListingRepository(db *gorm.DB) *GORMListingRepository {
	return &GORMListingRepository{db: db}
}

// Create creates a new listing in the database.
func (r *GORMListingRepository) Create(listing *models.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	if err := r.db.Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// GetByID retrieves a single listing by its ID.
func (r *GORMListingRepository) GetByID(id string) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("listing with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get listing by ID %s: %w", id, err)
	}
	return &listing, nil
}

// GetByOwner retrieves all listings owned by a user, newest first, including
// unavailable ones.
func (r *GORMListingRepository) GetByOwner(ownerID string) ([]models.Listing, error) {
	var listings []models.Listing
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at desc").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to get listings for owner %s: %w", ownerID, err)
	}
	return listings, nil
}

// Update saves all fields of an existing listing.
func (r *GORMListingRepository) Update(listing *models.Listing) error {
	res := r.db.Save(listing)
	if res.Error != nil {
		return fmt.Errorf("failed to update listing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("listing with ID %s for update: %w", listing.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a listing by its ID.
func (r *GORMListingRepository) Delete(id string) error {
	res := r.db.Delete(&models.Listing{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete listing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("listing with ID %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// Search runs a compound filter over available listings and returns the page
// plus the total match count. SortBy must already be a column name from the
// service allow-list; it is never user input.
func (r *GORMListingRepository) Search(filter ListingFilter) ([]models.Listing, int64, error) {
	query := r.db.Model(&models.Listing{}).Where("available = ?", true)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Condition != "" {
		query = query.Where("condition = ?", filter.Condition)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(filter.Location)+"%")
	}
	if len(filter.Tags) > 0 {
		// Tags are stored as a JSON array; a listing matches when it carries
		// any of the requested tags.
		var clauses []string
		var args []interface{}
		for _, tag := range filter.Tags {
			clauses = append(clauses, "tags LIKE ?")
			args = append(args, "%\""+tag+"\"%")
		}
		query = query.Where(strings.Join(clauses, " OR "), args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	order := filter.SortBy
	if filter.SortDesc {
		order += " desc"
	} else {
		order += " asc"
	}

	var listings []models.Listing
	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order(order).Limit(filter.Limit).Offset(offset).Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search listings: %w", err)
	}
	return listings, total, nil
}

// IncrementViews bumps the view counter without touching UpdatedAt.
func (r *GORMListingRepository) IncrementViews(id string) error {
	res := r.db.Model(&models.Listing{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to increment views for listing %s: %w", id, res.Error)
	}
	return nil
}

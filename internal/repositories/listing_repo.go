package repositories

import "ecofinds/internal/models"

// ListingFilter describes a compound listing query. Zero values mean "not
// filtered". Page and Limit are assumed already validated by the caller.
type ListingFilter struct {
	Category  string
	Condition string
	MinPrice  *float64
	MaxPrice  *float64
	Search    string
	Location  string
	Tags      []string
	SortBy    string // column name, already mapped through the allow-list
	SortDesc  bool
	Page      int
	Limit     int
}

// ListingRepository defines the interface for listing data access.
type ListingRepository interface {
	Create(listing *models.Listing) error
	GetByID(id string) (*models.Listing, error)
	GetByOwner(ownerID string) ([]models.Listing, error)
	Update(listing *models.Listing) error
	Delete(id string) error
	Search(filter ListingFilter) ([]models.Listing, int64, error)
	IncrementViews(id string) error
}

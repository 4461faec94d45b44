package services

import (
	"errors"
	"fmt"

	"ecofinds/internal/models"
	"ecofinds/internal/repositories"
	"ecofinds/pkg/money"
)

// Pagination limits for listing queries.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 50
)

// sortColumns is the allow-list of sortable fields, mapped to column names so
// user input never reaches an ORDER BY clause directly.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"price":     "price",
	"title":     "title",
	"views":     "views",
}

// ListingService handles business logic for product listings.
type ListingService struct {
	repo repositories.ListingRepository
}

// NewListingService creates a new ListingService.
func NewListingService(repo repositories.ListingRepository) *ListingService {
	return &ListingService{repo: repo}
}

// CreateListing validates and stores a new listing. The price is rounded to
// 2 decimal places before it is written.
func (s *ListingService) CreateListing(listing *models.Listing) error {
	if err := validateListing(listing); err != nil {
		return err
	}
	listing.Price = money.Round(listing.Price)
	listing.Available = true
	if err := s.repo.Create(listing); err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// ListingUpdate carries optional listing field changes. Nil means unchanged.
type ListingUpdate struct {
	Title       *string
	Description *string
	Category    *models.Category
	Condition   *models.Condition
	Price       *float64
	ImageURL    *string
	Available   *bool
	Location    *string
	Tags        []string
}

// UpdateListing applies changes to a listing owned by the caller.
func (s *ListingService) UpdateListing(ownerID, id string, update ListingUpdate) (*models.Listing, error) {
	listing, err := s.getListing(id)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != ownerID {
		return nil, ErrNotListingOwner
	}

	if update.Title != nil {
		listing.Title = *update.Title
	}
	if update.Description != nil {
		listing.Description = *update.Description
	}
	if update.Category != nil {
		listing.Category = *update.Category
	}
	if update.Condition != nil {
		listing.Condition = *update.Condition
	}
	if update.Price != nil {
		listing.Price = money.Round(*update.Price)
	}
	if update.ImageURL != nil {
		listing.ImageURL = *update.ImageURL
	}
	if update.Available != nil {
		listing.Available = *update.Available
	}
	if update.Location != nil {
		listing.Location = *update.Location
	}
	if update.Tags != nil {
		listing.Tags = update.Tags
	}

	if err := validateListing(listing); err != nil {
		return nil, err
	}
	if err := s.repo.Update(listing); err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	return listing, nil
}

// DeleteListing hard-deletes a listing owned by the caller.
func (s *ListingService) DeleteListing(ownerID, id string) error {
	listing, err := s.getListing(id)
	if err != nil {
		return err
	}
	if listing.OwnerID != ownerID {
		return ErrNotListingOwner
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return nil
}

// GetListing returns a listing and counts the view unless the viewer is the
// owner. Anonymous views count.
func (s *ListingService) GetListing(id, viewerID string) (*models.Listing, error) {
	listing, err := s.getListing(id)
	if err != nil {
		return nil, err
	}
	if viewerID != listing.OwnerID {
		if err := s.repo.IncrementViews(id); err != nil {
			return nil, fmt.Errorf("failed to count view: %w", err)
		}
		listing.Views++
	}
	return listing, nil
}

// GetOwnListings returns the caller's listings, including unavailable ones.
func (s *ListingService) GetOwnListings(ownerID string) ([]models.Listing, error) {
	return s.repo.GetByOwner(ownerID)
}

// SearchParams describes a compound listing query as it arrives from the API.
type SearchParams struct {
	Category  string
	Condition string
	MinPrice  *float64
	MaxPrice  *float64
	Search    string
	Location  string
	Tags      []string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Pagination describes one page of a result set.
type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Search validates the query, clamps pagination to page>=1 and limit in
// [1,50], and returns the matching page of available listings.
func (s *ListingService) Search(params SearchParams) ([]models.Listing, *Pagination, error) {
	if params.Category != "" && !models.Category(params.Category).IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown category %q", ErrValidationFailed, params.Category)
	}
	if params.Condition != "" && !models.Condition(params.Condition).IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown condition %q", ErrValidationFailed, params.Condition)
	}
	if params.MinPrice != nil && params.MaxPrice != nil && *params.MinPrice > *params.MaxPrice {
		return nil, nil, ErrInvalidPriceRange
	}

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	column, ok := sortColumns[sortBy]
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown sort field %q", ErrValidationFailed, params.SortBy)
	}
	sortDesc := params.SortOrder != "asc" // descending unless explicitly ascending

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	listings, total, err := s.repo.Search(repositories.ListingFilter{
		Category:  params.Category,
		Condition: params.Condition,
		MinPrice:  params.MinPrice,
		MaxPrice:  params.MaxPrice,
		Search:    params.Search,
		Location:  params.Location,
		Tags:      params.Tags,
		SortBy:    column,
		SortDesc:  sortDesc,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search listings: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	pagination := &Pagination{
		Page:        page,
		Limit:       limit,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && totalPages > 0,
	}
	return listings, pagination, nil
}

func (s *ListingService) getListing(id string) (*models.Listing, error) {
	listing, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

func validateListing(listing *models.Listing) error {
	if !listing.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidationFailed, listing.Category)
	}
	if !listing.Condition.IsValid() {
		return fmt.Errorf("%w: unknown condition %q", ErrValidationFailed, listing.Condition)
	}
	if listing.Price < 0 || listing.Price > models.MaxListingPrice {
		return fmt.Errorf("%w: price out of range", ErrValidationFailed)
	}
	if len(listing.Tags) > models.MaxListingTags {
		return fmt.Errorf("%w: at most %d tags", ErrValidationFailed, models.MaxListingTags)
	}
	return nil
}

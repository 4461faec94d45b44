package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ecofinds/internal/models"

	"github.com/google/uuid"
)

// MockListingRepository is an in-memory implementation of ListingRepository.
type MockListingRepository struct {
	listings map[string]models.Listing
	mu       sync.RWMutex
}

// NewMockListingRepository creates a new instance of MockListingRepository.
func NewMockListingRepository() *MockListingRepository {
	return &MockListingRepository{listings: make(map[string]models.Listing)}
}

// Create adds a new listing.
func (r *MockListingRepository) Create(listing *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	listing.CreatedAt = time.Now()
	listing.UpdatedAt = time.Now()
	r.listings[listing.ID] = *listing
	return nil
}

// GetByID returns a listing by its ID.
func (r *MockListingRepository) GetByID(id string) (*models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, fmt.Errorf("listing with ID %s: %w", id, ErrNotFound)
	}
	return &listing, nil
}

// GetByOwner returns all listings owned by a user, newest first.
func (r *MockListingRepository) GetByOwner(ownerID string) ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var listings []models.Listing
	for _, l := range r.listings {
		if l.OwnerID == ownerID {
			listings = append(listings, l)
		}
	}
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
	return listings, nil
}

// Update modifies an existing listing.
func (r *MockListingRepository) Update(listing *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[listing.ID]; !ok {
		return fmt.Errorf("listing with ID %s for update: %w", listing.ID, ErrNotFound)
	}
	listing.UpdatedAt = time.Now()
	r.listings[listing.ID] = *listing
	return nil
}

// Delete removes a listing by its ID.
func (r *MockListingRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[id]; !ok {
		return fmt.Errorf("listing with ID %s for deletion: %w", id, ErrNotFound)
	}
	delete(r.listings, id)
	return nil
}

// Search filters, sorts and paginates available listings in memory.
func (r *MockListingRepository) Search(filter ListingFilter) ([]models.Listing, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []models.Listing
	for _, l := range r.listings {
		if !l.Available {
			continue
		}
		if filter.Category != "" && string(l.Category) != filter.Category {
			continue
		}
		if filter.Condition != "" && string(l.Condition) != filter.Condition {
			continue
		}
		if filter.MinPrice != nil && l.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && l.Price > *filter.MaxPrice {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(l.Title), needle) &&
				!strings.Contains(strings.ToLower(l.Description), needle) {
				continue
			}
		}
		if filter.Location != "" &&
			!strings.Contains(strings.ToLower(l.Location), strings.ToLower(filter.Location)) {
			continue
		}
		if len(filter.Tags) > 0 && !hasAnyTag(l.Tags, filter.Tags) {
			continue
		}
		matches = append(matches, l)
	}

	sort.Slice(matches, func(i, j int) bool {
		less := lessByColumn(matches[i], matches[j], filter.SortBy)
		if filter.SortDesc {
			return !less
		}
		return less
	})

	total := int64(len(matches))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matches) {
		return []models.Listing{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end], total, nil
}

// IncrementViews bumps the view counter.
func (r *MockListingRepository) IncrementViews(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[id]
	if !ok {
		return fmt.Errorf("listing with ID %s: %w", id, ErrNotFound)
	}
	listing.Views++
	r.listings[id] = listing
	return nil
}

func hasAnyTag(tags, wanted []string) bool {
	for _, t := range tags {
		for _, w := range wanted {
			if t == w {
				return true
			}
		}
	}
	return false
}

func lessByColumn(a, b models.Listing, column string) bool {
	switch column {
	case "price":
		return a.Price < b.Price
	case "title":
		return a.Title < b.Title
	case "views":
		return a.Views < b.Views
	case "updated_at":
		return a.UpdatedAt.Before(b.UpdatedAt)
	default: // created_at
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

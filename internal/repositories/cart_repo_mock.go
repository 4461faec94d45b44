package repositories

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"ecofinds/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository. It
// resolves listings through the listing repository it is constructed with,
// mirroring the Preload the GORM implementation does.
type MockCartRepository struct {
	entries  map[string]models.CartEntry
	listings ListingRepository
	mu       sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
// listings may be nil when resolved listings are not needed.
func NewMockCartRepository(listings ListingRepository) *MockCartRepository {
	return &MockCartRepository{
		entries:  make(map[string]models.CartEntry),
		listings: listings,
	}
}

func (r *MockCartRepository) resolve(entry models.CartEntry) models.CartEntry {
	if r.listings == nil {
		return entry
	}
	listing, err := r.listings.GetByID(entry.ListingID)
	if err == nil {
		entry.Listing = listing
	}
	return entry
}

// GetByOwner returns all entries for a user with listings resolved, oldest
// first.
func (r *MockCartRepository) GetByOwner(ownerID string) ([]models.CartEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []models.CartEntry
	for _, e := range r.entries {
		if e.OwnerID == ownerID {
			entries = append(entries, r.resolve(e))
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

// GetByID returns a single entry with its listing resolved.
func (r *MockCartRepository) GetByID(id string) (*models.CartEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("cart entry with ID %s: %w", id, ErrNotFound)
	}
	resolved := r.resolve(entry)
	return &resolved, nil
}

// GetByOwnerAndListing returns the entry for an (owner, listing) pair.
func (r *MockCartRepository) GetByOwnerAndListing(ownerID, listingID string) (*models.CartEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.OwnerID == ownerID && e.ListingID == listingID {
			entry := e
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("cart entry for owner %s and listing %s: %w", ownerID, listingID, ErrNotFound)
}

// Create adds a new entry, enforcing (owner, listing) uniqueness.
func (r *MockCartRepository) Create(entry *models.CartEntry) error {
	if existing, err := r.GetByOwnerAndListing(entry.OwnerID, entry.ListingID); err == nil && existing != nil {
		return fmt.Errorf("cart entry for listing %s exists: %w", entry.ListingID, ErrDuplicate)
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()
	stored := *entry
	stored.Listing = nil
	r.entries[entry.ID] = stored
	return nil
}

// Update modifies an existing entry.
func (r *MockCartRepository) Update(entry *models.CartEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[entry.ID]; !ok {
		return fmt.Errorf("cart entry with ID %s for update: %w", entry.ID, ErrNotFound)
	}
	entry.UpdatedAt = time.Now()
	stored := *entry
	stored.Listing = nil
	r.entries[entry.ID] = stored
	return nil
}

// Delete removes an entry by ID. Deleting a missing entry is not an error.
func (r *MockCartRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, id)
	return nil
}

// DeleteByOwner removes every entry for a user.
func (r *MockCartRepository) DeleteByOwner(ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for id, e := range r.entries {
		if e.OwnerID == ownerID {
			delete(r.entries, id)
			count++
		}
	}
	return count, nil
}

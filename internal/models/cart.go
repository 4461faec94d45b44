package models

import "time"

// Cart entry quantity bounds.
const (
	MinCartQuantity = 1
	MaxCartQuantity = 10
)

// CartEntry is a pending (listing, quantity) selection by a prospective buyer.
// One row per (owner, listing) pair; adding the same listing again increments
// the existing row instead of creating a duplicate.
type CartEntry struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID   string    `json:"ownerId" gorm:"type:varchar(36);uniqueIndex:idx_cart_owner_listing"`
	ListingID string    `json:"listingId" gorm:"type:varchar(36);uniqueIndex:idx_cart_owner_listing"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Listing is resolved on reads; nil when the referenced listing is gone.
	Listing *Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID;references:ID"`
}

package models

import (
	"time"

	"ecofinds/pkg/money"
)

// PurchaseStatus is the lifecycle state of a committed order.
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

// IsValid reports whether s is a member of the closed status set.
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusCompleted, PurchaseStatusCancelled:
		return true
	}
	return false
}

// PurchaseItem is an immutable snapshot line: listing title, image, seller and
// price are copied at checkout so later edits to the listing cannot rewrite
// purchase history.
type PurchaseItem struct {
	ID              string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PurchaseID      string  `json:"-" gorm:"index;type:varchar(36)"`
	ListingID       string  `json:"listingId" gorm:"type:varchar(36)"`
	SellerID        string  `json:"sellerId" gorm:"type:varchar(36)"`
	Title           string  `json:"title" gorm:"type:varchar(200)"`
	ImageURL        string  `json:"imageUrl" gorm:"type:varchar(500)"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"priceAtPurchase"`
}

// Subtotal returns quantity x price-at-purchase, rounded to cents.
func (i PurchaseItem) Subtotal() float64 {
	return money.Mul(i.PriceAtPurchase, i.Quantity)
}

// Purchase is an immutable committed order. It is created once at checkout and
// never mutated or deleted.
type Purchase struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BuyerID   string         `json:"buyerId" gorm:"index;type:varchar(36)"`
	Items     []PurchaseItem `json:"items" gorm:"foreignKey:PurchaseID;references:ID"`
	Total     float64        `json:"total"`
	Status    PurchaseStatus `json:"status" gorm:"type:varchar(20)"`
	Notes     string         `json:"notes" gorm:"type:varchar(1000)"`
	CreatedAt time.Time      `json:"createdAt"`
}

// RecalculateTotal recomputes Total from the snapshot lines. Repositories call
// this immediately before persisting so a caller-supplied total can never
// disagree with the line items.
func (p *Purchase) RecalculateTotal() {
	lines := make([]money.Line, 0, len(p.Items))
	for _, item := range p.Items {
		lines = append(lines, money.Line{Price: item.PriceAtPurchase, Quantity: item.Quantity})
	}
	p.Total = money.Total(lines)
}

// DistinctSellers counts the different sellers represented in the order.
func (p *Purchase) DistinctSellers() int {
	sellers := make(map[string]struct{}, len(p.Items))
	for _, item := range p.Items {
		sellers[item.SellerID] = struct{}{}
	}
	return len(sellers)
}

// ItemCount sums the quantities across all lines.
func (p *Purchase) ItemCount() int {
	var n int
	for _, item := range p.Items {
		n += item.Quantity
	}
	return n
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPurchaseRecalculateTotal(t *testing.T) {
	p := Purchase{
		Total: 999.99, // caller-supplied value is ignored
		Items: []PurchaseItem{
			{PriceAtPurchase: 10.00, Quantity: 2},
			{PriceAtPurchase: 5.005, Quantity: 1},
		},
	}
	p.RecalculateTotal()
	assert.Equal(t, 25.01, p.Total)

	empty := Purchase{}
	empty.RecalculateTotal()
	assert.Zero(t, empty.Total)
}

func TestPurchaseItemSubtotal(t *testing.T) {
	item := PurchaseItem{PriceAtPurchase: 19.99, Quantity: 3}
	assert.Equal(t, 59.97, item.Subtotal())
}

func TestPurchaseAggregates(t *testing.T) {
	p := Purchase{
		Items: []PurchaseItem{
			{SellerID: "s1", Quantity: 2},
			{SellerID: "s2", Quantity: 1},
			{SellerID: "s1", Quantity: 3},
		},
	}
	assert.Equal(t, 2, p.DistinctSellers())
	assert.Equal(t, 6, p.ItemCount())
}

func TestPurchaseStatusIsValid(t *testing.T) {
	assert.True(t, PurchaseStatusCompleted.IsValid())
	assert.True(t, PurchaseStatusPending.IsValid())
	assert.False(t, PurchaseStatus("refunded").IsValid())
}

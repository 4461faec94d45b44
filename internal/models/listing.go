package models

import "time"

// Category classifies a listing. Closed set; reject anything else at the edge.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryFurniture   Category = "furniture"
	CategoryBooks       Category = "books"
	CategorySports      Category = "sports"
	CategoryToys        Category = "toys"
	CategoryHome        Category = "home"
	CategoryOther       Category = "other"
)

// Categories lists every valid category, in display order.
var Categories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryFurniture,
	CategoryBooks,
	CategorySports,
	CategoryToys,
	CategoryHome,
	CategoryOther,
}

// IsValid reports whether c is a member of the closed category set.
func (c Category) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Condition describes the wear state of a second-hand item.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like_new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

// Conditions lists every valid condition.
var Conditions = []Condition{
	ConditionNew,
	ConditionLikeNew,
	ConditionGood,
	ConditionFair,
	ConditionPoor,
}

// IsValid reports whether c is a member of the closed condition set.
func (c Condition) IsValid() bool {
	for _, v := range Conditions {
		if c == v {
			return true
		}
	}
	return false
}

// MaxListingPrice is the upper bound for a listing price.
const MaxListingPrice = 99999.99

// MaxListingTags is the maximum number of tags a listing may carry.
const MaxListingTags = 10

// Listing represents a product offered for sale. The price is always stored
// rounded to 2 decimal places. Listings stay visible to their owner after
// being marked unavailable.
type Listing struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID     string    `json:"ownerId" gorm:"index;type:varchar(36)"`
	Title       string    `json:"title" gorm:"type:varchar(200)"`
	Description string    `json:"description" gorm:"type:varchar(2000)"`
	Category    Category  `json:"category" gorm:"index;type:varchar(30)"`
	Condition   Condition `json:"condition" gorm:"type:varchar(30)"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"imageUrl" gorm:"type:varchar(500)"`
	Available   bool      `json:"available"`
	Location    string    `json:"location" gorm:"type:varchar(200)"`
	Tags        []string  `json:"tags" gorm:"serializer:json;type:text"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

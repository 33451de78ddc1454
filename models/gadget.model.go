package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices and ratings travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// FeaturedMinRating is the lowest rating a gadget may have to be featured
var FeaturedMinRating = decimal.RequireFromString("4.0")

// Gadget is a catalog item, unique per (name, brand). Rating and ReviewCount
// are derived from the gadget's reviews and only change together with them.
type Gadget struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null;uniqueIndex:idx_gadgets_name_brand,priority:1" json:"name"`
	Brand       string          `gorm:"size:100;not null;index;uniqueIndex:idx_gadgets_name_brand,priority:2" json:"brand"`
	Category    Category        `gorm:"type:varchar(20);not null;index" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;index" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	ImageURL    string          `gorm:"size:500" json:"imageUrl"`
	Rating      decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0;index" json:"rating"`
	ReviewCount int             `gorm:"not null;default:0" json:"reviewCount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Gadget) TableName() string {
	return "gadgets"
}

// IsFeatured reports whether the gadget qualifies for the featured list
func (g Gadget) IsFeatured() bool {
	return g.Rating.GreaterThanOrEqual(FeaturedMinRating)
}

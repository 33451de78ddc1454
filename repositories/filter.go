package repositories

import (
	"fmt"
	"strings"

	"techgo/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GadgetFilter holds the optional search criteria. Zero values impose no
// constraint; set criteria are combined with AND.
type GadgetFilter struct {
	Name      string // case-insensitive substring
	Category  models.Category
	Brand     string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinRating *decimal.Decimal
}

// SortBy names an ordering intent for gadget listings
type SortBy string

const (
	SortID        SortBy = "id"
	SortName      SortBy = "name"
	SortPrice     SortBy = "price"
	SortPriceDesc SortBy = "price_desc"
	SortRating    SortBy = "rating"
	SortFeatured  SortBy = "featured"
	SortLatest    SortBy = "latest"
	SortPopular   SortBy = "popular"
)

var sortOrders = map[SortBy]string{
	SortID:        "id ASC",
	SortName:      "name ASC, id ASC",
	SortPrice:     "price ASC, id ASC",
	SortPriceDesc: "price DESC, id ASC",
	SortRating:    "rating DESC, id ASC",
	SortFeatured:  "rating DESC, review_count DESC, id ASC",
	SortLatest:    "created_at DESC, id DESC",
	SortPopular:   "review_count DESC, rating DESC, id ASC",
}

// ParseSort maps a sortBy query value to an intent; blank means SortID.
func ParseSort(value string) (SortBy, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return SortID, nil
	}
	s := SortBy(value)
	if _, ok := sortOrders[s]; !ok {
		return "", fmt.Errorf("unknown sort %q", value)
	}
	return s, nil
}

func (s SortBy) orderClause() string {
	if order, ok := sortOrders[s]; ok {
		return order
	}
	return sortOrders[SortID]
}

// likeEscaper escapes LIKE wildcards with '!', which every supported
// dialect accepts as an ESCAPE character.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}

func (f GadgetFilter) apply(q *gorm.DB) *gorm.DB {
	if name := strings.TrimSpace(f.Name); name != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", containsPattern(name))
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if brand := strings.TrimSpace(f.Brand); brand != "" {
		q = q.Where("brand = ?", brand)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinRating != nil {
		q = q.Where("rating >= ?", *f.MinRating)
	}
	return q
}

package models

import (
	"fmt"
	"strings"
)

// Category of a gadget in the catalog
type Category string

const (
	CategoryMobiles   Category = "mobiles"
	CategoryLaptops   Category = "laptops"
	CategoryTablets   Category = "tablets"
	CategoryEarphones Category = "earphones"
	CategorySpeakers  Category = "speakers"
)

var categoryDisplayNames = map[Category]string{
	CategoryMobiles:   "Mobile Phones",
	CategoryLaptops:   "Laptops",
	CategoryTablets:   "Tablets",
	CategoryEarphones: "Earphones & Headphones",
	CategorySpeakers:  "Speakers",
}

// Categories lists every category in catalog order.
func Categories() []Category {
	return []Category{CategoryMobiles, CategoryLaptops, CategoryTablets, CategoryEarphones, CategorySpeakers}
}

// ParseCategory accepts any letter case ("MOBILES", "Mobiles").
func ParseCategory(value string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", value)
	}
	return c, nil
}

func (c Category) Valid() bool {
	_, ok := categoryDisplayNames[c]
	return ok
}

func (c Category) DisplayName() string {
	if name, ok := categoryDisplayNames[c]; ok {
		return name
	}
	return string(c)
}

package models

import (
	"fmt"
	"time"
)

const (
	// ComparisonCapacity is the maximum number of gadgets in one list
	ComparisonCapacity = 3
	// ComparisonTTL is the fixed lifespan of a list, counted from creation
	ComparisonTTL = 7 * 24 * time.Hour
)

// ComparisonList is a short-lived set of gadgets staged for side-by-side
// viewing. Items are loaded by comparison id, never through the gadget.
type ComparisonList struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	Name      string           `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time        `json:"createdAt"`
	ExpiresAt time.Time        `gorm:"not null;index" json:"expiresAt"`
	Items     []ComparisonItem `gorm:"-" json:"items"`
}

func (ComparisonList) TableName() string {
	return "comparison_lists"
}

type ComparisonItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ComparisonID string    `gorm:"size:36;not null;uniqueIndex:idx_comparison_gadget,priority:1" json:"comparisonId"`
	GadgetID     uint      `gorm:"not null;index;uniqueIndex:idx_comparison_gadget,priority:2" json:"gadgetId"`
	AddedAt      time.Time `gorm:"not null" json:"addedAt"`
}

func (ComparisonItem) TableName() string {
	return "comparison_items"
}

// IsExpired is true strictly after ExpiresAt.
func (l ComparisonList) IsExpired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

func (l ComparisonList) GadgetCount() int {
	return len(l.Items)
}

// RemainingSlots is advisory; capacity is enforced when an item is inserted.
func (l ComparisonList) RemainingSlots(now time.Time) int {
	if l.IsExpired(now) {
		return 0
	}
	if remaining := ComparisonCapacity - len(l.Items); remaining > 0 {
		return remaining
	}
	return 0
}

func (l ComparisonList) CanAddMore(now time.Time) bool {
	return !l.IsExpired(now) && len(l.Items) < ComparisonCapacity
}

// DaysUntilExpiry counts whole 24h periods left. It goes negative after
// expiry; responses clamp it to zero.
func (l ComparisonList) DaysUntilExpiry(now time.Time) int {
	return int(l.ExpiresAt.Sub(now) / (24 * time.Hour))
}

func (l ComparisonList) ExpiryStatus(now time.Time) string {
	if l.IsExpired(now) {
		return "Expired"
	}
	switch days := l.DaysUntilExpiry(now); days {
	case 0:
		return "Expires today"
	case 1:
		return "Expires tomorrow"
	default:
		return fmt.Sprintf("Expires in %d days", days)
	}
}

// Item returns the list entry for the gadget, if it is on the list
func (l ComparisonList) Item(gadgetID uint) (*ComparisonItem, bool) {
	for i := range l.Items {
		if l.Items[i].GadgetID == gadgetID {
			return &l.Items[i], true
		}
	}
	return nil, false
}

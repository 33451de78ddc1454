package models

import "time"

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GadgetID  uint      `gorm:"not null;index;index:idx_reviews_gadget_email,priority:1" json:"gadgetId"`
	UserName  string    `gorm:"size:100;not null" json:"userName"`
	Email     string    `gorm:"size:255;not null;index:idx_reviews_gadget_email,priority:2" json:"-"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"` // 1–5 rating
	Comment   string    `gorm:"size:1000" json:"comment"`                                 // Optional comment
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (Review) TableName() string {
	return "reviews"
}

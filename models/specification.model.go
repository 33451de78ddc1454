package models

import "time"

// GadgetSpecification is a named technical attribute of a gadget.
// Spec names are unique per gadget; the service layer enforces it.
type GadgetSpecification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GadgetID  uint      `gorm:"not null;index" json:"gadgetId"`
	SpecName  string    `gorm:"size:100;not null" json:"specName"`
	SpecValue string    `gorm:"type:text;not null" json:"specValue"`
	CreatedAt time.Time `json:"createdAt"`
}

func (GadgetSpecification) TableName() string {
	return "gadget_specifications"
}

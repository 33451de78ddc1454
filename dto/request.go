package dto

import "github.com/shopspring/decimal"

type SpecificationRequest struct {
	SpecName  string `json:"specName" validate:"required,max=100"`
	SpecValue string `json:"specValue"`
}

// GadgetRequest is the body of gadget create and update.
type GadgetRequest struct {
	Name           string                 `json:"name" validate:"required,max=255"`
	Brand          string                 `json:"brand" validate:"required,max=100"`
	Category       string                 `json:"category" validate:"required,category"`
	Price          decimal.Decimal        `json:"price" validate:"gt=0"`
	Description    string                 `json:"description" validate:"max=1000"`
	ImageURL       string                 `json:"imageUrl" validate:"max=500"`
	Specifications []SpecificationRequest `json:"specifications" validate:"omitempty,dive"`
}

type ReviewRequest struct {
	UserName string `json:"userName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment" validate:"max=1000"`
}

type ComparisonRequest struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

type AddToComparisonRequest struct {
	GadgetID uint `json:"gadgetId" validate:"required"`
}

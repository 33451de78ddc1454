// Package dto holds the JSON shapes of the HTTP API.
package dto

import (
	"fmt"
	"strings"
	"time"

	"techgo/cache"
	"techgo/models"
	"techgo/services"

	"github.com/shopspring/decimal"
)

// Page is a zero-indexed page of results.
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

func NewPage[T any](content []T, total int64, page, size int) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Number:           page,
		Size:             size,
		NumberOfElements: len(content),
		First:            page == 0,
		Last:             page >= totalPages-1,
		Empty:            len(content) == 0,
	}
}

type SpecificationResponse struct {
	ID                uint      `json:"id"`
	GadgetID          uint      `json:"gadgetId"`
	SpecName          string    `json:"specName"`
	SpecValue         string    `json:"specValue"`
	FormattedSpecName string    `json:"formattedSpecName"`
	DisplayValue      string    `json:"displayValue"`
	CreatedAt         time.Time `json:"createdAt"`
}

type GadgetResponse struct {
	ID                  uint                    `json:"id"`
	Name                string                  `json:"name"`
	Brand               string                  `json:"brand"`
	Category            models.Category         `json:"category"`
	CategoryDisplayName string                  `json:"categoryDisplayName"`
	Price               decimal.Decimal         `json:"price"`
	FormattedPrice      string                  `json:"formattedPrice"`
	Description         string                  `json:"description"`
	ImageURL            string                  `json:"imageUrl"`
	Rating              decimal.Decimal         `json:"rating"`
	FormattedRating     string                  `json:"formattedRating"`
	ReviewCount         int                     `json:"reviewCount"`
	CreatedAt           time.Time               `json:"createdAt"`
	UpdatedAt           time.Time               `json:"updatedAt"`
	Specifications      []SpecificationResponse `json:"specifications,omitempty"`
}

type ReviewResponse struct {
	ID          uint      `json:"id"`
	GadgetID    uint      `json:"gadgetId"`
	UserName    string    `json:"userName"`
	DisplayName string    `json:"displayName"`
	MaskedEmail string    `json:"maskedEmail"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ComparisonItemResponse struct {
	ID          uint            `json:"id"`
	GadgetID    uint            `json:"gadgetId"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	FullTitle   string          `json:"fullTitle"`
	Category    models.Category `json:"category"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Rating      decimal.Decimal `json:"rating"`
	ReviewCount int             `json:"reviewCount"`
	AddedAt     time.Time       `json:"addedAt"`
}

type ComparisonResponse struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	CreatedAt       time.Time                `json:"createdAt"`
	ExpiresAt       time.Time                `json:"expiresAt"`
	Expired         bool                     `json:"expired"`
	GadgetCount     int                      `json:"gadgetCount"`
	RemainingSlots  int                      `json:"remainingSlots"`
	CanAddMore      bool                     `json:"canAddMore"`
	DaysUntilExpiry int                      `json:"daysUntilExpiry"`
	ExpiryStatus    string                   `json:"expiryStatus"`
	Items           []ComparisonItemResponse `json:"items"`
}

type CompareRowResponse struct {
	SpecName string   `json:"specName"`
	Values   []string `json:"values"`
}

type CompareResponse struct {
	Comparison ComparisonResponse   `json:"comparison"`
	Gadgets    []GadgetResponse     `json:"gadgets"`
	SpecNames  []string             `json:"specNames"`
	Rows       []CompareRowResponse `json:"rows"`
}

type RemoveGadgetResponse struct {
	Removed    bool               `json:"removed"`
	Comparison ComparisonResponse `json:"comparison"`
}

type TopComparedResponse struct {
	GadgetID uint   `json:"gadgetId"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Count    int64  `json:"count"`
}

type StatsResponse struct {
	TotalGadgets        int64                 `json:"totalGadgets"`
	GadgetsByCategory   map[string]int64      `json:"gadgetsByCategory"`
	TotalBrands         int64                 `json:"totalBrands"`
	TotalReviews        int64                 `json:"totalReviews"`
	ReviewsToday        int64                 `json:"reviewsToday"`
	ActiveComparisons   int64                 `json:"activeComparisons"`
	ExpiredComparisons  int64                 `json:"expiredComparisons"`
	ComparisonsToday    int64                 `json:"comparisonsToday"`
	MostComparedGadgets []TopComparedResponse `json:"mostComparedGadgets"`
	Cache               *cache.StatsSnapshot  `json:"cache,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Path      string            `json:"path"`
	Errors    map[string]string `json:"errors,omitempty"`
}

func NewSpecificationResponse(s models.GadgetSpecification) SpecificationResponse {
	return SpecificationResponse{
		ID:                s.ID,
		GadgetID:          s.GadgetID,
		SpecName:          s.SpecName,
		SpecValue:         s.SpecValue,
		FormattedSpecName: FormatSpecName(s.SpecName),
		DisplayValue:      displayValue(s.SpecValue),
		CreatedAt:         s.CreatedAt,
	}
}

func NewSpecificationResponses(specs []models.GadgetSpecification) []SpecificationResponse {
	out := make([]SpecificationResponse, 0, len(specs))
	for _, s := range specs {
		out = append(out, NewSpecificationResponse(s))
	}
	return out
}

func NewGadgetResponse(g models.Gadget) GadgetResponse {
	return GadgetResponse{
		ID:                  g.ID,
		Name:                g.Name,
		Brand:               g.Brand,
		Category:            g.Category,
		CategoryDisplayName: g.Category.DisplayName(),
		Price:               g.Price,
		FormattedPrice:      FormatPrice(g.Price),
		Description:         g.Description,
		ImageURL:            g.ImageURL,
		Rating:              g.Rating,
		FormattedRating:     g.Rating.StringFixed(1),
		ReviewCount:         g.ReviewCount,
		CreatedAt:           g.CreatedAt,
		UpdatedAt:           g.UpdatedAt,
	}
}

func NewGadgetResponses(gadgets []models.Gadget) []GadgetResponse {
	out := make([]GadgetResponse, 0, len(gadgets))
	for _, g := range gadgets {
		out = append(out, NewGadgetResponse(g))
	}
	return out
}

// NewGadgetDetailResponse includes the specifications.
func NewGadgetDetailResponse(d *services.GadgetDetail) GadgetResponse {
	resp := NewGadgetResponse(d.Gadget)
	resp.Specifications = NewSpecificationResponses(d.Specifications)
	return resp
}

func NewGadgetPage(p *services.GadgetPage) Page[GadgetResponse] {
	return NewPage(NewGadgetResponses(p.Gadgets), p.Total, p.Page, p.Size)
}

func NewReviewResponse(r models.Review) ReviewResponse {
	return ReviewResponse{
		ID:          r.ID,
		GadgetID:    r.GadgetID,
		UserName:    r.UserName,
		DisplayName: DisplayName(r.UserName),
		MaskedEmail: MaskEmail(r.Email),
		Rating:      r.Rating,
		Comment:     r.Comment,
		CreatedAt:   r.CreatedAt,
	}
}

func NewReviewPage(p *services.ReviewPage) Page[ReviewResponse] {
	out := make([]ReviewResponse, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		out = append(out, NewReviewResponse(r))
	}
	return NewPage(out, p.Total, p.Page, p.Size)
}

// NewComparisonResponse renders the computed expiry fields as of now.
// Items whose gadget is missing from gadgets carry only their ids.
func NewComparisonResponse(list models.ComparisonList, gadgets map[uint]models.Gadget, now time.Time) ComparisonResponse {
	items := make([]ComparisonItemResponse, 0, len(list.Items))
	for _, item := range list.Items {
		resp := ComparisonItemResponse{ID: item.ID, GadgetID: item.GadgetID, AddedAt: item.AddedAt}
		if g, ok := gadgets[item.GadgetID]; ok {
			resp.Name = g.Name
			resp.Brand = g.Brand
			resp.FullTitle = g.Brand + " " + g.Name
			resp.Category = g.Category
			resp.Price = g.Price
			resp.ImageURL = g.ImageURL
			resp.Rating = g.Rating
			resp.ReviewCount = g.ReviewCount
		}
		items = append(items, resp)
	}

	days := list.DaysUntilExpiry(now)
	if list.IsExpired(now) {
		days = 0
	}
	return ComparisonResponse{
		ID:              list.ID,
		Name:            list.Name,
		CreatedAt:       list.CreatedAt,
		ExpiresAt:       list.ExpiresAt,
		Expired:         list.IsExpired(now),
		GadgetCount:     list.GadgetCount(),
		RemainingSlots:  list.RemainingSlots(now),
		CanAddMore:      list.CanAddMore(now),
		DaysUntilExpiry: days,
		ExpiryStatus:    list.ExpiryStatus(now),
		Items:           items,
	}
}

func NewCompareResponse(view *services.CompareView, now time.Time) CompareResponse {
	byID := make(map[uint]models.Gadget, len(view.Gadgets))
	gadgets := make([]GadgetResponse, 0, len(view.Gadgets))
	for _, g := range view.Gadgets {
		byID[g.ID] = g
		resp := NewGadgetResponse(g)
		resp.Specifications = NewSpecificationResponses(view.Specifications[g.ID])
		gadgets = append(gadgets, resp)
	}

	names := make([]string, 0, len(view.Rows))
	rows := make([]CompareRowResponse, 0, len(view.Rows))
	for _, row := range view.Rows {
		names = append(names, row.SpecName)
		rows = append(rows, CompareRowResponse{SpecName: row.SpecName, Values: row.Values})
	}

	return CompareResponse{
		Comparison: NewComparisonResponse(view.List, byID, now),
		Gadgets:    gadgets,
		SpecNames:  names,
		Rows:       rows,
	}
}

func NewStatsResponse(s *services.Stats) StatsResponse {
	byCategory := make(map[string]int64, len(s.GadgetsByCategory))
	for c, n := range s.GadgetsByCategory {
		byCategory[string(c)] = n
	}
	top := make([]TopComparedResponse, 0, len(s.MostComparedGadgets))
	for _, t := range s.MostComparedGadgets {
		top = append(top, TopComparedResponse{GadgetID: t.GadgetID, Name: t.Name, Brand: t.Brand, Count: t.Count})
	}
	return StatsResponse{
		TotalGadgets:        s.TotalGadgets,
		GadgetsByCategory:   byCategory,
		TotalBrands:         s.TotalBrands,
		TotalReviews:        s.TotalReviews,
		ReviewsToday:        s.ReviewsToday,
		ActiveComparisons:   s.ActiveComparisons,
		ExpiredComparisons:  s.ExpiredComparisons,
		ComparisonsToday:    s.ComparisonsToday,
		MostComparedGadgets: top,
		Cache:               s.Cache,
	}
}

// MaskEmail keeps the first two characters of the local part: jo***@example.com.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return email
	}
	local, domain := email[:at], email[at+1:]
	if len([]rune(local)) <= 2 {
		return local + "@" + domain
	}
	return string([]rune(local)[:2]) + "***@" + domain
}

// DisplayName capitalizes the first letter and lowercases the rest.
func DisplayName(name string) string {
	r := []rune(name)
	if len(r) == 0 {
		return ""
	}
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}

// FormatSpecName turns "battery_life" into "Battery Life".
func FormatSpecName(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}

func displayValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "N/A"
	}
	return value
}

// FormatPrice renders a price the way the storefront shows it.
func FormatPrice(price decimal.Decimal) string {
	return fmt.Sprintf("$%s", price.StringFixed(2))
}

package models

import (
	"encoding/json"
	"strings"
)

// Product represents one normalized marketplace listing. The link doubles as
// the identity key when accumulating results across keywords.
type Product struct {
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
	Link     string `json:"link"`
	Delivery string `json:"delivery"`
	IsAd     bool   `json:"is_ad"`

	// Detail-page fields, nil until enrichment fills them in.
	Rating             *float64 `json:"rating,omitempty"`
	ReviewCount        *int     `json:"review_count,omitempty"`
	SellerSatisfaction *string  `json:"seller_satisfaction,omitempty"`
	SellerResponse     *string  `json:"seller_response,omitempty"`
	SellerSales        *string  `json:"seller_sales,omitempty"`
}

// UnitPrice returns the per-item price. It is always derived from Price and
// Quantity, never stored on its own.
func (p *Product) UnitPrice() float64 {
	if p.Quantity > 1 {
		return float64(p.Price) / float64(p.Quantity)
	}
	return float64(p.Price)
}

// HasRating returns true once enrichment has produced a rating.
func (p *Product) HasRating() bool {
	return p.Rating != nil
}

// HasReviewCount returns true once enrichment has produced a review count.
func (p *Product) HasReviewCount() bool {
	return p.ReviewCount != nil
}

// HasFreeDelivery checks the delivery text for the free-shipping marker.
func (p *Product) HasFreeDelivery() bool {
	return strings.Contains(p.Delivery, "무료")
}

// SetRating stores the rating if it is within the accepted [0,5] range.
func (p *Product) SetRating(rating float64) bool {
	if rating < 0 || rating > 5 {
		return false
	}
	p.Rating = &rating
	return true
}

// SetReviewCount stores a non-negative review count.
func (p *Product) SetReviewCount(count int) bool {
	if count < 0 {
		return false
	}
	p.ReviewCount = &count
	return true
}

// MarshalJSON includes the derived unit price alongside the stored fields.
func (p *Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		*Alias
		UnitPrice float64 `json:"unit_price"`
	}{
		Alias:     (*Alias)(p),
		UnitPrice: p.UnitPrice(),
	})
}

// StringPtr is a convenience for populating optional seller fields.
func StringPtr(s string) *string {
	return &s
}

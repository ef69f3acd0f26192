package models

import (
	"fmt"
	"time"
)

// Listing types.
const (
	ListingTypeSale = "sale"
	ListingTypeRent = "rent"
)

// Listing represents a single property listing.
type Listing struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Address       string    `json:"address"`
	Type          string    `json:"type"` // "sale" or "rent"
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	RegularPrice  int64     `json:"regularPrice"`
	DiscountPrice int64     `json:"discountPrice"`
	Offer         bool      `json:"offer"`
	Parking       bool      `json:"parking"`
	Furnished     bool      `json:"furnished"`
	ImageURLs     []string  `json:"imageUrls"`
	UserRef       string    `json:"userRef"` // Owner's user ID
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Validate checks the listing's field invariants before it is persisted.
func (l *Listing) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("name is required")
	}
	if l.Type != ListingTypeSale && l.Type != ListingTypeRent {
		return fmt.Errorf("type must be %q or %q", ListingTypeSale, ListingTypeRent)
	}
	if l.Bedrooms < 1 || l.Bathrooms < 1 {
		return fmt.Errorf("bedroom and bathroom counts must be positive")
	}
	if l.RegularPrice < 0 || l.DiscountPrice < 0 {
		return fmt.Errorf("prices must be non-negative")
	}
	if l.Offer && l.DiscountPrice >= l.RegularPrice {
		return fmt.Errorf("discount price must be below the regular price when an offer is active")
	}
	if len(l.ImageURLs) < 1 || len(l.ImageURLs) > 6 {
		return fmt.Errorf("a listing needs between 1 and 6 images")
	}
	return nil
}

// ListingPatch carries a partial listing update. Only non-nil fields are
// applied, so an absent field never clears the stored value.
type ListingPatch struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Address       *string   `json:"address"`
	Type          *string   `json:"type"`
	Bedrooms      *int      `json:"bedrooms"`
	Bathrooms     *int      `json:"bathrooms"`
	RegularPrice  *int64    `json:"regularPrice"`
	DiscountPrice *int64    `json:"discountPrice"`
	Offer         *bool     `json:"offer"`
	Parking       *bool     `json:"parking"`
	Furnished     *bool     `json:"furnished"`
	ImageURLs     *[]string `json:"imageUrls"`
}

// Apply overlays the patch onto the listing.
func (p *ListingPatch) Apply(l *Listing) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Address != nil {
		l.Address = *p.Address
	}
	if p.Type != nil {
		l.Type = *p.Type
	}
	if p.Bedrooms != nil {
		l.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		l.Bathrooms = *p.Bathrooms
	}
	if p.RegularPrice != nil {
		l.RegularPrice = *p.RegularPrice
	}
	if p.DiscountPrice != nil {
		l.DiscountPrice = *p.DiscountPrice
	}
	if p.Offer != nil {
		l.Offer = *p.Offer
	}
	if p.Parking != nil {
		l.Parking = *p.Parking
	}
	if p.Furnished != nil {
		l.Furnished = *p.Furnished
	}
	if p.ImageURLs != nil {
		l.ImageURLs = *p.ImageURLs
	}
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listing() Listing {
	return Listing{
		Name:         "Test",
		Description:  "desc",
		Address:      "addr",
		Type:         ListingTypeSale,
		Bedrooms:     3,
		Bathrooms:    2,
		RegularPrice: 250000,
		ImageURLs:    []string{"a", "b"},
	}
}

func TestListingValidate(t *testing.T) {
	l := listing()
	require.NoError(t, l.Validate())

	l = listing()
	l.Name = ""
	assert.Error(t, l.Validate())

	l = listing()
	l.Type = "timeshare"
	assert.Error(t, l.Validate())

	l = listing()
	l.Bedrooms = 0
	assert.Error(t, l.Validate())

	l = listing()
	l.RegularPrice = -1
	assert.Error(t, l.Validate())

	l = listing()
	l.ImageURLs = nil
	assert.Error(t, l.Validate())

	l = listing()
	l.ImageURLs = make([]string, 7)
	assert.Error(t, l.Validate())
}

func TestListingValidateOfferDiscount(t *testing.T) {
	l := listing()
	l.Offer = true
	l.DiscountPrice = l.RegularPrice - 1
	require.NoError(t, l.Validate())

	l.DiscountPrice = l.RegularPrice
	assert.Error(t, l.Validate())

	// Without an active offer the discount is not checked against the price
	l.Offer = false
	assert.NoError(t, l.Validate())
}

func TestListingPatchApply(t *testing.T) {
	l := listing()
	name := "Updated"
	offer := true
	discount := int64(200000)

	patch := ListingPatch{Name: &name, Offer: &offer, DiscountPrice: &discount}
	patch.Apply(&l)

	assert.Equal(t, "Updated", l.Name)
	assert.True(t, l.Offer)
	assert.Equal(t, int64(200000), l.DiscountPrice)
	// Fields absent from the patch keep their values
	assert.Equal(t, "desc", l.Description)
	assert.Equal(t, []string{"a", "b"}, l.ImageURLs)
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func init() {
	// Prices are JSON numbers on the wire, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ListingKind selects which table a listing lives in. Both kinds share one schema.
type ListingKind string

const (
	KindBusiness ListingKind = "business"
	KindProduct  ListingKind = "product"
)

// Table returns the table backing the kind.
func (k ListingKind) Table() string {
	return string(k)
}

// ListingKinds lists every supported kind.
var ListingKinds = []ListingKind{KindBusiness, KindProduct}

// Listing is an owned business or product record.
type Listing struct {
	ID               uint                        `json:"id" gorm:"primaryKey"`
	Title            string                      `json:"title" gorm:"size:255;not null"`
	IsFeatured       bool                        `json:"isFeatured" gorm:"not null;default:false"`
	ProductImage     datatypes.JSONSlice[string] `json:"productImage"`
	Price            decimal.Decimal             `json:"price" gorm:"type:decimal(20,2);not null"`
	ShortDescription string                      `json:"shortDescription" gorm:"type:text"`
	Description      string                      `json:"description" gorm:"type:text"`
	ProductURL       string                      `json:"productUrl" gorm:"size:2048"`
	Category         datatypes.JSONSlice[string] `json:"category"`
	Tags             datatypes.JSONSlice[string] `json:"tags"`
	CreatedBy        *uint                       `json:"createdBy" gorm:"index"`
	Owner            *User                       `json:"user,omitempty" gorm:"-"`
	CreatedAt        time.Time                   `json:"createdAt"`
	UpdatedAt        time.Time                   `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt              `json:"deletedAt,omitempty" gorm:"index"`
}

// ListingPatch holds the fields of a partial update. Nil fields are left untouched.
type ListingPatch struct {
	Title            *string
	IsFeatured       *bool
	ProductImage     *[]string
	Price            *decimal.Decimal
	ShortDescription *string
	Description      *string
	ProductURL       *string
	Category         *[]string
	Tags             *[]string
}

// Apply copies every non-nil field of p onto l.
func (p ListingPatch) Apply(l *Listing) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.IsFeatured != nil {
		l.IsFeatured = *p.IsFeatured
	}
	if p.ProductImage != nil {
		l.ProductImage = datatypes.JSONSlice[string](*p.ProductImage)
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.ShortDescription != nil {
		l.ShortDescription = *p.ShortDescription
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.ProductURL != nil {
		l.ProductURL = *p.ProductURL
	}
	if p.Category != nil {
		l.Category = datatypes.JSONSlice[string](*p.Category)
	}
	if p.Tags != nil {
		l.Tags = datatypes.JSONSlice[string](*p.Tags)
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p ListingPatch) IsEmpty() bool {
	return p == ListingPatch{}
}

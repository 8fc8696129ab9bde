package models

import (
	"time"
)

type ListingType string

const (
	ListingSale ListingType = "Sale"
	ListingRent ListingType = "Rent"
)

// PropertyStatus follows the moderation lifecycle: listings start as drafts,
// go through review and end up live, rejected, expired, sold or rented.
type PropertyStatus string

const (
	StatusDraft       PropertyStatus = "draft"
	StatusUnderReview PropertyStatus = "under_review"
	StatusLive        PropertyStatus = "live"
	StatusRejected    PropertyStatus = "rejected"
	StatusExpired     PropertyStatus = "expired"
	StatusSold        PropertyStatus = "sold"
	StatusRented      PropertyStatus = "rented"
)

type CompletionStatus string

const (
	CompletionReady   CompletionStatus = "Ready"
	CompletionOffPlan CompletionStatus = "Off-Plan"
)

type Property struct {
	ID               string           `bson:"_id" json:"id"`
	Title            string           `bson:"title" json:"title"`
	Description      string           `bson:"description" json:"description"`
	PropertyType     string           `bson:"propertyType" json:"propertyType"`
	ListingType      ListingType      `bson:"listingType" json:"listingType"`
	Price            int              `bson:"price" json:"price"`
	Bedrooms         int              `bson:"bedrooms" json:"bedrooms"`
	Bathrooms        int              `bson:"bathrooms" json:"bathrooms"`
	AreaSqFt         int              `bson:"areaSqFt" json:"areaSqFt"`
	City             string           `bson:"city" json:"city"`
	Location         string           `bson:"location" json:"location"`
	Subarea          string           `bson:"subarea,omitempty" json:"subarea,omitempty"`
	Building         string           `bson:"building,omitempty" json:"building,omitempty"`
	Images           []string         `bson:"images" json:"images"`
	Amenities        []string         `bson:"amenities" json:"amenities"`
	Featured         bool             `bson:"featured" json:"featured"`
	Verified         bool             `bson:"verified" json:"verified"`
	CompletionStatus CompletionStatus `bson:"completionStatus,omitempty" json:"completionStatus,omitempty"`
	OwnerID          string           `bson:"ownerId,omitempty" json:"ownerId,omitempty"`
	AgentID          string           `bson:"agentId,omitempty" json:"agentId,omitempty"`
	BuilderID        string           `bson:"builderId,omitempty" json:"builderId,omitempty"`
	Status           PropertyStatus   `bson:"status" json:"status"`
	CreatedAt        time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time        `bson:"updatedAt" json:"updatedAt"`
}

type CreatePropertyRequest struct {
	Title            string   `json:"title" validate:"required"`
	Description      string   `json:"description"`
	PropertyType     string   `json:"propertyType" validate:"required"`
	ListingType      string   `json:"listingType" validate:"required,oneof=Sale Rent"`
	Price            int      `json:"price" validate:"gte=0"`
	Bedrooms         int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms        int      `json:"bathrooms" validate:"gte=0"`
	AreaSqFt         int      `json:"areaSqFt" validate:"gte=0"`
	City             string   `json:"city" validate:"required"`
	Location         string   `json:"location" validate:"required"`
	Subarea          string   `json:"subarea"`
	Building         string   `json:"building"`
	Images           []string `json:"images"`
	Amenities        []string `json:"amenities"`
	Featured         bool     `json:"featured"`
	CompletionStatus string   `json:"completionStatus" validate:"omitempty,oneof=Ready Off-Plan"`
}

type UpdatePropertyRequest struct {
	Title            *string  `json:"title"`
	Description      *string  `json:"description"`
	PropertyType     *string  `json:"propertyType"`
	ListingType      *string  `json:"listingType" validate:"omitempty,oneof=Sale Rent"`
	Price            *int     `json:"price" validate:"omitempty,gte=0"`
	Bedrooms         *int     `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms        *int     `json:"bathrooms" validate:"omitempty,gte=0"`
	AreaSqFt         *int     `json:"areaSqFt" validate:"omitempty,gte=0"`
	City             *string  `json:"city"`
	Location         *string  `json:"location"`
	Subarea          *string  `json:"subarea"`
	Building         *string  `json:"building"`
	Images           []string `json:"images"`
	Amenities        []string `json:"amenities"`
	Featured         *bool    `json:"featured"`
	CompletionStatus *string  `json:"completionStatus" validate:"omitempty,oneof=Ready Off-Plan"`
}

// ApplyTo copies the non-nil fields onto the property. Ownership, status and
// timestamps are managed elsewhere and never touched here.
func (u UpdatePropertyRequest) ApplyTo(p *Property) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.PropertyType != nil {
		p.PropertyType = *u.PropertyType
	}
	if u.ListingType != nil {
		p.ListingType = ListingType(*u.ListingType)
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Bedrooms != nil {
		p.Bedrooms = *u.Bedrooms
	}
	if u.Bathrooms != nil {
		p.Bathrooms = *u.Bathrooms
	}
	if u.AreaSqFt != nil {
		p.AreaSqFt = *u.AreaSqFt
	}
	if u.City != nil {
		p.City = *u.City
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
	if u.Subarea != nil {
		p.Subarea = *u.Subarea
	}
	if u.Building != nil {
		p.Building = *u.Building
	}
	if u.Images != nil {
		p.Images = u.Images
	}
	if u.Amenities != nil {
		p.Amenities = u.Amenities
	}
	if u.Featured != nil {
		p.Featured = *u.Featured
	}
	if u.CompletionStatus != nil {
		p.CompletionStatus = CompletionStatus(*u.CompletionStatus)
	}
}

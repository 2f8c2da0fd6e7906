package models

import "time"

// Listing is a provider's advertised service at a location. A provider may
// run several listings; matching collapses them to the nearest one.
type Listing struct {
	ID            string    `bson:"id" json:"id"`
	ProviderID    string    `bson:"providerId" json:"providerId"`
	Title         string    `bson:"title" json:"title,omitempty"`
	CategoryID    string    `bson:"categoryId" json:"categoryId"`
	SubCategoryID string    `bson:"subCategoryId,omitempty" json:"subCategoryId,omitempty"`
	LocationGeo   GeoPoint  `bson:"locationGeo" json:"locationGeo"`
	Active        bool      `bson:"active" json:"active"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}

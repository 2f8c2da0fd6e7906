package listingRepo

import (
	"context"

	"localpro/models"
)

// SpatialFilter narrows a nearest-neighbor query to a slice of the catalogue.
type SpatialFilter struct {
	CategoryID    string
	SubCategoryID string
}

// ListingHit is one typed row out of the spatial query: the listing, its
// owning provider and the computed great-circle distance from the query
// point. Rows come back ordered by ascending distance.
type ListingHit struct {
	Listing        models.Listing
	Provider       models.Provider
	DistanceMeters float64
}

// ListingRepository is the spatial index over provider listings.
type ListingRepository interface {
	// NearestWithinRadius returns active listings within radiusMeters of
	// point matching the filter, joined to their providers, nearest first.
	// An empty result is not an error.
	NearestWithinRadius(ctx context.Context, point models.GeoPoint, radiusMeters float64, filter SpatialFilter) ([]ListingHit, error)

	GetByID(ctx context.Context, id string) (*models.Listing, error)
	Insert(ctx context.Context, l models.Listing) error
}

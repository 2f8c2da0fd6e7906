package matching

import (
	"context"

	categoryRepo "localpro/database/repository/category"
	listingRepo "localpro/database/repository/listing"
	matchRepo "localpro/database/repository/match"
	"localpro/models"

	"github.com/go-redis/redis/v8"
)

// DefaultCandidateLimit bounds a match when the caller does not ask for a
// specific number of candidates.
const DefaultCandidateLimit = 15

// ListingQuery describes a plain nearby-listing search: the fixed-radius
// product rule, with no per-provider radius cap.
type ListingQuery struct {
	Point              models.GeoPoint
	RadiusMeters       float64
	CategoryID         string
	SubCategoryID      string
	ExcludeProviderIDs []string
}

// Candidate is one eligible provider with its nearest listing.
type Candidate struct {
	ProviderID     string          `json:"providerId"`
	ProviderName   string          `json:"providerName,omitempty"`
	DistanceMeters int             `json:"distanceMeters"`
	Listing        models.Listing  `json:"listing"`
	Provider       models.Provider `json:"-"`
}

// MatchInput is the request shape for the idempotent matching flow.
type MatchInput struct {
	Origin         models.GeoPoint
	RadiusMeters   float64 // category-level cap on the spatial search
	CategoryID     string
	SubCategoryID  string
	Limit          int
	IdempotencyKey string
	SeekerID       string
}

// MatchingService defines the discovery operations of the engine.
type MatchingService interface {
	// FindCandidates runs the fixed-radius search. An empty result is valid
	// output, not an error.
	FindCandidates(ctx context.Context, q ListingQuery) ([]Candidate, error)

	// CreateMatch runs the idempotent matching flow: replays a prior result
	// when the idempotency key is known, otherwise ranks, persists and
	// returns a new candidate set.
	CreateMatch(ctx context.Context, in MatchInput) (*models.MatchResult, error)

	// GetMatch reconstructs a persisted match by request id.
	GetMatch(ctx context.Context, requestID string) (*models.MatchResult, error)
}

// DefaultMatchingService is our robust implementation.
type DefaultMatchingService struct {
	ListingRepo  listingRepo.ListingRepository
	CategoryRepo categoryRepo.CategoryRepository
	MatchRepo    matchRepo.MatchRepository
	// CacheClient caches FindCandidates results. Optional; nil disables
	// caching. CreateMatch never reads it: replay comes from the store.
	CacheClient *redis.Client
}

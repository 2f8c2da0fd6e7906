package matching

import (
	"context"
	"sort"
	"time"

	listingRepo "localpro/database/repository/listing"
	matchRepo "localpro/database/repository/match"
	"localpro/models"
)

// fakeListingRepo serves canned hits, honoring the radius bound and
// ascending-distance ordering of the real spatial index.
type fakeListingRepo struct {
	hits  []listingRepo.ListingHit
	calls int
}

func (f *fakeListingRepo) NearestWithinRadius(_ context.Context, _ models.GeoPoint, radiusMeters float64, filter listingRepo.SpatialFilter) ([]listingRepo.ListingHit, error) {
	f.calls++
	var out []listingRepo.ListingHit
	for _, h := range f.hits {
		if h.DistanceMeters > radiusMeters {
			continue
		}
		if !h.Listing.Active {
			continue
		}
		if filter.CategoryID != "" && h.Listing.CategoryID != filter.CategoryID {
			continue
		}
		if filter.SubCategoryID != "" && h.Listing.SubCategoryID != filter.SubCategoryID {
			continue
		}
		out = append(out, h)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceMeters < out[j].DistanceMeters })
	return out, nil
}

func (f *fakeListingRepo) GetByID(context.Context, string) (*models.Listing, error) { return nil, nil }
func (f *fakeListingRepo) Insert(context.Context, models.Listing) error             { return nil }

type fakeCategoryRepo struct {
	categories map[string]models.Category
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id string) (*models.Category, error) {
	if c, ok := f.categories[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeCategoryRepo) Insert(context.Context, models.Category) error { return nil }

// fakeMatchRepo stores requests and candidates in memory and can simulate
// losing an idempotency race: when conflictWinner is set, the next insert
// carrying its key fails with a duplicate-key error and the winner becomes
// readable, exactly as a concurrent writer would appear.
type fakeMatchRepo struct {
	requests       map[string]models.MatchRequest
	byKey          map[string]string
	candidates     map[string][]models.MatchCandidate
	conflictWinner *models.MatchRequest
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{
		requests:   map[string]models.MatchRequest{},
		byKey:      map[string]string{},
		candidates: map[string][]models.MatchCandidate{},
	}
}

func (f *fakeMatchRepo) InsertRequest(_ context.Context, req models.MatchRequest) error {
	if f.conflictWinner != nil && req.IdempotencyKey == f.conflictWinner.IdempotencyKey {
		winner := *f.conflictWinner
		f.conflictWinner = nil
		f.requests[winner.ID] = winner
		f.byKey[winner.IdempotencyKey] = winner.ID
		return matchRepo.ErrDuplicateIdempotencyKey
	}
	if req.IdempotencyKey != "" {
		if _, exists := f.byKey[req.IdempotencyKey]; exists {
			return matchRepo.ErrDuplicateIdempotencyKey
		}
		f.byKey[req.IdempotencyKey] = req.ID
	}
	f.requests[req.ID] = req
	return nil
}

func (f *fakeMatchRepo) InsertCandidates(_ context.Context, candidates []models.MatchCandidate) error {
	for _, c := range candidates {
		f.candidates[c.RequestID] = append(f.candidates[c.RequestID], c)
	}
	return nil
}

func (f *fakeMatchRepo) GetRequestByID(_ context.Context, id string) (*models.MatchRequest, error) {
	if req, ok := f.requests[id]; ok {
		return &req, nil
	}
	return nil, nil
}

func (f *fakeMatchRepo) GetRequestByIdempotencyKey(_ context.Context, key string) (*models.MatchRequest, error) {
	if id, ok := f.byKey[key]; ok {
		req := f.requests[id]
		return &req, nil
	}
	return nil, nil
}

func (f *fakeMatchRepo) GetCandidates(_ context.Context, requestID string) ([]models.MatchCandidate, error) {
	rows := append([]models.MatchCandidate{}, f.candidates[requestID]...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].RankOrder < rows[j].RankOrder })
	return rows, nil
}

func (f *fakeMatchRepo) FindInconsistent(_ context.Context, cutoff time.Time) ([]models.MatchRequest, error) {
	var out []models.MatchRequest
	for _, req := range f.requests {
		if req.Status == models.MatchStatusCreated && req.CreatedAt.Before(cutoff) && len(f.candidates[req.ID]) == 0 {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) MarkNoCoverage(_ context.Context, requestID string) error {
	req := f.requests[requestID]
	req.Status = models.MatchStatusNoCoverage
	f.requests[requestID] = req
	return nil
}

// hit builds a ListingHit for one provider listing.
func hit(providerID string, distance float64, serviceRadius float64, rating float64, bookings int) listingRepo.ListingHit {
	return listingRepo.ListingHit{
		Listing: models.Listing{
			ID:         "listing-" + providerID,
			ProviderID: providerID,
			CategoryID: "cat-cleaning",
			Active:     true,
		},
		Provider: models.Provider{
			ID: providerID,
			Profile: models.ProviderProfile{
				ProviderName: "Provider " + providerID,
				Rating:       rating,
			},
			Verified:          true,
			KYCStatus:         models.KYCStatusApproved,
			ServiceRadiusM:    serviceRadius,
			CompletedBookings: bookings,
		},
		DistanceMeters: distance,
	}
}

func newService(listings *fakeListingRepo, matches *fakeMatchRepo) *DefaultMatchingService {
	return &DefaultMatchingService{
		ListingRepo: listings,
		CategoryRepo: &fakeCategoryRepo{categories: map[string]models.Category{
			"cat-cleaning": {ID: "cat-cleaning", Name: "Cleaning", Active: true},
		}},
		MatchRepo: matches,
	}
}

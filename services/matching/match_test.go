package matching

import (
	"context"
	"testing"

	listingRepo "localpro/database/repository/listing"
	"localpro/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseInput() MatchInput {
	return MatchInput{
		Origin:       models.NewGeoPoint(36.8219, -1.2921),
		RadiusMeters: 10000,
		CategoryID:   "cat-cleaning",
		Limit:        15,
	}
}

func TestCreateMatchRanksAndPersists(t *testing.T) {
	listings := &fakeListingRepo{hits: []listingRepo.ListingHit{
		hit("p1", 1200.4, 5000, 4.5, 50),
		hit("p2", 800.2, 5000, 3.0, 10),
		hit("p3", 2500.0, 5000, 5.0, 200),
		// second listing of p2, farther away: must be collapsed
		hit("p2", 3000.0, 5000, 3.0, 10),
	}}
	matches := newFakeMatchRepo()
	svc := newService(listings, matches)

	result, err := svc.CreateMatch(context.Background(), baseInput())
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCreated, result.Status)
	require.Len(t, result.Candidates, 3)

	// Dense rank 1..N, distances non-decreasing.
	prev := 0
	for i, c := range result.Candidates {
		assert.Equal(t, i+1, c.RankOrder)
		assert.GreaterOrEqual(t, c.DistanceMeters, prev)
		prev = c.DistanceMeters
	}

	// One candidate per provider, nearest listing wins.
	assert.Equal(t, []string{"p2", "p1", "p3"}, providerOrder(result.Candidates))
	assert.Equal(t, 800, result.Candidates[0].DistanceMeters)
	assert.Equal(t, 1200, result.Candidates[1].DistanceMeters)

	// Persisted rows equal the returned ones.
	stored, err := matches.GetCandidates(context.Background(), result.RequestID)
	require.NoError(t, err)
	assert.Equal(t, result.Candidates, stored)
}

func TestCreateMatchServiceRadiusCap(t *testing.T) {
	listings := &fakeListingRepo{hits: []listingRepo.ListingHit{
		hit("near", 900, 1000, 4.0, 10),    // inside own radius
		hit("tight", 900, 500, 4.0, 10),    // outside own radius
		hit("unbounded", 900, 0, 4.0, 10),  // no positive radius: never eligible
		hit("negative", 900, -1, 4.0, 10),  // same
	}}
	matches := newFakeMatchRepo()
	svc := newService(listings, matches)

	result, err := svc.CreateMatch(context.Background(), baseInput())
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "near", result.Candidates[0].ProviderID)

	for _, c := range result.Candidates {
		assert.LessOrEqual(t, c.DistanceMeters, 1000)
	}
}

func TestCreateMatchQualityTiebreak(t *testing.T) {
	listings := &fakeListingRepo{hits: []listingRepo.ListingHit{
		hit("low", 1000, 5000, 2.0, 5),
		hit("high", 1000, 5000, 4.9, 180),
	}}
	matches := newFakeMatchRepo()
	svc := newService(listings, matches)

	result, err := svc.CreateMatch(context.Background(), baseInput())
	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "high", result.Candidates[0].ProviderID)
	assert.Equal(t, "low", result.Candidates[1].ProviderID)
}

func TestCreateMatchLimitTruncatesBeforePersistence(t *testing.T) {
	listings := &fakeListingRepo{hits: []listingRepo.ListingHit{
		hit("p1", 100, 5000, 4, 1),
		hit("p2", 200, 5000, 4, 1),
		hit("p3", 300, 5000, 4, 1),
		hit("p4", 400, 5000, 4, 1),
	}}
	matches := newFakeMatchRepo()
	svc := newService(listings, matches)

	in := baseInput()
	in.Limit = 2
	result, err := svc.CreateMatch(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)

	stored, err := matches.GetCandidates(context.Background(), result.RequestID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestCreateMatchNoCoverage(t *testing.T) {
	listings := &fakeListingRepo{}
	matches := newFakeMatchRepo()
	svc := newService(listings, matches)

	in := baseInput()
	in.RadiusMeters = 1
	result, err := svc.CreateMatch(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusNoCoverage, result.Status)
	assert.Empty(t, result.Candidates)

	// The request is still persisted, with zero candidate rows.
	req, err := matches.GetRequestByID(context.Background(), result.RequestID)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, models.MatchStatusNoCoverage, req.Status)
	stored, _ := matches.GetCandidates(context.Background(), result.RequestID)
	assert.Empty(t, stored)
}

func TestCreateMatchUnknownCategory(t *testing.T) {
	matches := newFakeMatchRepo()
	svc := newService(&fakeListingRepo{}, matches)

	in := baseInput()
	in.CategoryID = "cat-missing"
	_, err := svc.CreateMatch(context.Background(), in)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.Empty(t, matches.requests)
}

func TestCreateMatchInvalidOrigin(t *testing.T) {
	svc := newService(&fakeListingRepo{}, newFakeMatchRepo())

	in := baseInput()
	in.Origin = models.GeoPoint{Type: "Point"}
	_, err := svc.CreateMatch(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidOrigin)
}

func TestCreateMatchIdempotentReplay(t *testing.T) {
	listings := &fakeListingRepo{hits: []listingRepo.ListingHit{
		hit("p1", 500, 5000, 4, 10),
		hit("p2", 700, 5000, 4, 10),
	}}
	matches := newFakeMatchRepo()
	svc := newService(listings, matches)

	in := baseInput()
	in.IdempotencyKey = "idem-1"
	first, err := svc.CreateMatch(context.Background(), in)
	require.NoError(t, err)
	queriesAfterFirst := listings.calls

	// Eligibility changes underneath: providers disappear entirely.
	listings.hits = nil

	second, err := svc.CreateMatch(context.Background(), in)
	require.NoError(t, err)

	// Byte-identical replay from stored state, no fresh discovery.
	assert.Equal(t, first.RequestID, second.RequestID)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Candidates, second.Candidates)
	assert.Equal(t, queriesAfterFirst, listings.calls)
}

func TestCreateMatchIdempotencyRaceReplaysWinner(t *testing.T) {
	listings := &fakeListingRepo{hits: []listingRepo.ListingHit{
		hit("loser-candidate", 500, 5000, 4, 10),
	}}
	matches := newFakeMatchRepo()
	svc := newService(listings, matches)

	winner := models.MatchRequest{
		ID:             "winner-req",
		CategoryID:     "cat-cleaning",
		Limit:          15,
		IdempotencyKey: "idem-race",
		Status:         models.MatchStatusCreated,
	}
	matches.conflictWinner = &winner
	matches.candidates["winner-req"] = []models.MatchCandidate{
		{RequestID: "winner-req", ProviderID: "winner-p", DistanceMeters: 42, RankOrder: 1},
	}

	in := baseInput()
	in.IdempotencyKey = "idem-race"
	result, err := svc.CreateMatch(context.Background(), in)
	require.NoError(t, err)

	// The losing writer's computed result is discarded in favor of the
	// winner's persisted one, and only the winner's request exists.
	assert.Equal(t, "winner-req", result.RequestID)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "winner-p", result.Candidates[0].ProviderID)
	assert.Len(t, matches.requests, 1)
}

func TestGetMatchNotFound(t *testing.T) {
	svc := newService(&fakeListingRepo{}, newFakeMatchRepo())
	_, err := svc.GetMatch(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func providerOrder(candidates []models.MatchCandidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.ProviderID)
	}
	return out
}

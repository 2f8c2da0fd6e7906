package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	listingRepo "localpro/database/repository/listing"
	matchRepo "localpro/database/repository/match"
	"localpro/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateMatch is the idempotent matching flow. With a known idempotency key
// the stored result is replayed verbatim; discovery is never re-run, so
// the response stays stable even if provider eligibility changed since the
// original call. Otherwise the ranking pipeline runs and both the request
// and its candidates are persisted.
func (s *DefaultMatchingService) CreateMatch(ctx context.Context, in MatchInput) (*models.MatchResult, error) {
	if !in.Origin.Valid() {
		return nil, ErrInvalidOrigin
	}

	category, err := s.CategoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("category lookup failed: %w", err)
	}
	if category == nil || !category.Active {
		return nil, ErrCategoryNotFound
	}

	if in.IdempotencyKey != "" {
		prior, err := s.MatchRepo.GetRequestByIdempotencyKey(ctx, in.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("idempotency lookup failed: %w", err)
		}
		if prior != nil {
			return s.replay(ctx, prior)
		}
	}

	candidates, err := s.rankForMatch(ctx, in)
	if err != nil {
		return nil, err
	}

	status := models.MatchStatusCreated
	if len(candidates) == 0 {
		status = models.MatchStatusNoCoverage
	}

	req := models.MatchRequest{
		ID:             uuid.New().String(),
		SeekerID:       in.SeekerID,
		Origin:         in.Origin,
		CategoryID:     in.CategoryID,
		Limit:          in.Limit,
		IdempotencyKey: in.IdempotencyKey,
		Status:         status,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.MatchRepo.InsertRequest(ctx, req); err != nil {
		if errors.Is(err, matchRepo.ErrDuplicateIdempotencyKey) {
			// Another writer won the race on this key. Discard our computed
			// result and replay the winner's persisted one.
			zap.L().Info("idempotency race lost, replaying winner",
				zap.String("idempotencyKey", in.IdempotencyKey))
			winner, lookupErr := s.MatchRepo.GetRequestByIdempotencyKey(ctx, in.IdempotencyKey)
			if lookupErr != nil {
				return nil, fmt.Errorf("replay after idempotency conflict failed: %w", lookupErr)
			}
			if winner == nil {
				return nil, fmt.Errorf("idempotency conflict but winner not readable")
			}
			return s.replay(ctx, winner)
		}
		return nil, fmt.Errorf("failed to persist match request: %w", err)
	}

	rows := make([]models.MatchCandidate, 0, len(candidates))
	for i, c := range candidates {
		rows = append(rows, models.MatchCandidate{
			RequestID:      req.ID,
			ProviderID:     c.ProviderID,
			ProviderName:   c.ProviderName,
			DistanceMeters: c.DistanceMeters,
			RankOrder:      i + 1,
		})
	}
	if err := s.MatchRepo.InsertCandidates(ctx, rows); err != nil {
		// The request row is already persisted; this leaves a detectable
		// CREATED-with-zero-candidates record for the reconciliation pass.
		return nil, fmt.Errorf("failed to persist match candidates: %w", err)
	}

	return &models.MatchResult{RequestID: req.ID, Status: status, Candidates: rows}, nil
}

// GetMatch reconstructs a persisted match by request id.
func (s *DefaultMatchingService) GetMatch(ctx context.Context, requestID string) (*models.MatchResult, error) {
	req, err := s.MatchRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("match lookup failed: %w", err)
	}
	if req == nil {
		return nil, ErrMatchNotFound
	}
	return s.replay(ctx, req)
}

// rankForMatch runs the spatial query capped by the category radius and
// applies the service-radius ranking rule, truncated to the caller limit
// before anything is persisted.
func (s *DefaultMatchingService) rankForMatch(ctx context.Context, in MatchInput) ([]Candidate, error) {
	hits, err := s.ListingRepo.NearestWithinRadius(ctx, in.Origin, in.RadiusMeters, listingRepo.SpatialFilter{
		CategoryID:    in.CategoryID,
		SubCategoryID: in.SubCategoryID,
	})
	if err != nil {
		return nil, fmt.Errorf("spatial search failed: %w", err)
	}

	candidates := rankByQualityWithinServiceRadius(hits, nil)

	limit := in.Limit
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// replay reconstructs a response purely from stored state.
func (s *DefaultMatchingService) replay(ctx context.Context, req *models.MatchRequest) (*models.MatchResult, error) {
	rows, err := s.MatchRepo.GetCandidates(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored candidates: %w", err)
	}
	return &models.MatchResult{RequestID: req.ID, Status: req.Status, Candidates: rows}, nil
}

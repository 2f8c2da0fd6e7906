package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	listingRepo "localpro/database/repository/listing"

	"go.uber.org/zap"
)

const discoveryCacheTTL = 5 * time.Minute

// FindCandidates retrieves eligible providers around a point, nearest
// first. It first attempts to retrieve the result from cache; if not
// found, it runs the spatial query and caches the computed list.
func (s *DefaultMatchingService) FindCandidates(ctx context.Context, q ListingQuery) ([]Candidate, error) {
	if !q.Point.Valid() {
		return nil, ErrInvalidOrigin
	}

	cacheKey, cacheable := discoveryCacheKey(q)
	if cacheable {
		if cached, ok := s.cachedCandidates(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	hits, err := s.ListingRepo.NearestWithinRadius(ctx, q.Point, q.RadiusMeters, listingRepo.SpatialFilter{
		CategoryID:    q.CategoryID,
		SubCategoryID: q.SubCategoryID,
	})
	if err != nil {
		return nil, fmt.Errorf("spatial search failed: %w", err)
	}

	candidates := rankByDistance(hits, toExclusionSet(q.ExcludeProviderIDs))

	if cacheable {
		s.cacheCandidates(ctx, cacheKey, candidates)
	}
	return candidates, nil
}

func discoveryCacheKey(q ListingQuery) (string, bool) {
	raw, err := json.Marshal(q)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("discover:%x", raw), true
}

func (s *DefaultMatchingService) cachedCandidates(ctx context.Context, key string) ([]Candidate, bool) {
	if s.CacheClient == nil {
		return nil, false
	}
	raw, err := s.CacheClient.Get(ctx, key).Result()
	if err != nil || raw == "" {
		return nil, false
	}
	var candidates []Candidate
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		// Stale or corrupt entry; recompute.
		return nil, false
	}
	return candidates, true
}

func (s *DefaultMatchingService) cacheCandidates(ctx context.Context, key string, candidates []Candidate) {
	if s.CacheClient == nil {
		return
	}
	raw, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	if err := s.CacheClient.Set(ctx, key, raw, discoveryCacheTTL).Err(); err != nil {
		zap.L().Warn("failed to cache discovery result", zap.Error(err))
	}
}

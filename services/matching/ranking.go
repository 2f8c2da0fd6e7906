package matching

import (
	"math"
	"sort"

	listingRepo "localpro/database/repository/listing"
)

// Quality scoring constants, applied as the secondary rank key in the
// matching flow.
const (
	ratingWeight  = 10.0
	bookingWeight = 5.0
)

// qualityScore folds rating and booking history into one number. Completed
// bookings contribute logarithmically so volume never drowns out rating.
func qualityScore(hit listingRepo.ListingHit) float64 {
	p := hit.Provider
	return p.Profile.Rating*ratingWeight + math.Log10(float64(p.CompletedBookings)+1)*bookingWeight
}

// eligible applies the baseline trust gate and the caller's exclusion set.
func eligible(hit listingRepo.ListingHit, excluded map[string]bool) bool {
	if !hit.Provider.Matchable() {
		return false
	}
	return !excluded[hit.Provider.ID]
}

// dedupeNearest keeps the first hit per provider. Hits arrive sorted by
// ascending distance, so first occurrence is the nearest listing.
func dedupeNearest(hits []listingRepo.ListingHit) []listingRepo.ListingHit {
	seen := make(map[string]bool, len(hits))
	out := hits[:0:0]
	for _, h := range hits {
		if seen[h.Provider.ID] {
			continue
		}
		seen[h.Provider.ID] = true
		out = append(out, h)
	}
	return out
}

// rankByDistance is the fixed-radius listing-search rule: nearest first,
// one candidate per provider, no per-provider radius cap.
func rankByDistance(hits []listingRepo.ListingHit, excluded map[string]bool) []Candidate {
	kept := hits[:0:0]
	for _, h := range hits {
		if eligible(h, excluded) {
			kept = append(kept, h)
		}
	}
	return toCandidates(dedupeNearest(kept))
}

// rankByQualityWithinServiceRadius is the matching-flow rule: a candidate
// must also sit inside the provider's own declared service radius, and ties
// on distance break toward the higher quality score. Providers without a
// positive service radius are never eligible.
func rankByQualityWithinServiceRadius(hits []listingRepo.ListingHit, excluded map[string]bool) []Candidate {
	kept := hits[:0:0]
	for _, h := range hits {
		if !eligible(h, excluded) {
			continue
		}
		if h.Provider.ServiceRadiusM <= 0 || h.DistanceMeters > h.Provider.ServiceRadiusM {
			continue
		}
		kept = append(kept, h)
	}
	kept = dedupeNearest(kept)

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].DistanceMeters != kept[j].DistanceMeters {
			return kept[i].DistanceMeters < kept[j].DistanceMeters
		}
		qi, qj := qualityScore(kept[i]), qualityScore(kept[j])
		if qi != qj {
			return qi > qj
		}
		return kept[i].Provider.ID < kept[j].Provider.ID
	})
	return toCandidates(kept)
}

func toCandidates(hits []listingRepo.ListingHit) []Candidate {
	candidates := make([]Candidate, 0, len(hits))
	for _, h := range hits {
		candidates = append(candidates, Candidate{
			ProviderID:     h.Provider.ID,
			ProviderName:   h.Provider.Profile.ProviderName,
			DistanceMeters: int(math.Round(h.DistanceMeters)),
			Listing:        h.Listing,
			Provider:       h.Provider,
		})
	}
	return candidates
}

func toExclusionSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

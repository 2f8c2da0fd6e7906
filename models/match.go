package models

import "time"

// Terminal states of a match request. NO_COVERAGE is a normal outcome, not
// an error: the request is persisted either way.
const (
	MatchStatusCreated    = "CREATED"
	MatchStatusNoCoverage = "NO_COVERAGE"
)

// MatchRequest records one discovery call. It is immutable once written;
// repeated calls with the same idempotency key replay it verbatim.
type MatchRequest struct {
	ID             string    `bson:"id" json:"id"`
	SeekerID       string    `bson:"seekerId,omitempty" json:"seekerId,omitempty"`
	Origin         GeoPoint  `bson:"origin" json:"origin"`
	CategoryID     string    `bson:"categoryId" json:"categoryId"`
	Limit          int       `bson:"limit" json:"limit"`
	IdempotencyKey string    `bson:"idempotencyKey,omitempty" json:"idempotencyKey,omitempty"`
	Status         string    `bson:"status" json:"status"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// MatchCandidate is one ranked provider for a request. RankOrder is dense,
// starts at 1 and increases with non-decreasing distance.
type MatchCandidate struct {
	RequestID      string `bson:"requestId" json:"requestId"`
	ProviderID     string `bson:"providerId" json:"providerId"`
	ProviderName   string `bson:"providerName" json:"providerName,omitempty"`
	DistanceMeters int    `bson:"distanceMeters" json:"distanceMeters"`
	RankOrder      int    `bson:"rankOrder" json:"rankOrder"`
}

// MatchedProvider is the response shape for one candidate. Contact and
// media fields are resolved at the handler boundary.
type MatchedProvider struct {
	ProviderID        string `json:"providerId"`
	ProviderName      string `json:"providerName,omitempty"`
	DistanceMeters    int    `json:"distanceMeters"`
	Phone             string `json:"phone,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

// MatchResult is the caller-visible outcome of a discovery call.
type MatchResult struct {
	RequestID  string           `json:"requestId"`
	Status     string           `json:"status"`
	Candidates []MatchCandidate `json:"candidates"`
}

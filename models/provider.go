package models

import "time"

// KYC verification states for a provider. Only approved providers are
// eligible for matching.
const (
	KYCStatusPending  = "pending"
	KYCStatusApproved = "approved"
	KYCStatusRejected = "rejected"
)

type ProviderProfile struct {
	ProviderName string `bson:"providerName" json:"providerName,omitempty"`
	Email        string `bson:"email" json:"email,omitempty"`
	PhoneNumber  string `bson:"phoneNumber" json:"phoneNumber,omitempty"`
	// ProfileImage holds the stored media key; URL resolution happens at the
	// response boundary via the media service.
	ProfileImage string  `bson:"profileImage" json:"profileImage,omitempty"`
	Rating       float64 `bson:"rating" json:"rating,omitempty"`
}

// Provider is the read-side view the matching engine consumes. Account
// management (signup, auth, payouts) lives outside this service.
type Provider struct {
	ID                string          `bson:"id" json:"id"`
	Profile           ProviderProfile `bson:"profile" json:"profile"`
	Verified          bool            `bson:"verified" json:"verified"`
	KYCStatus         string          `bson:"kycStatus" json:"kycStatus"`
	ServiceRadiusM    float64         `bson:"serviceRadiusMeters" json:"serviceRadiusMeters,omitempty"`
	CompletedBookings int             `bson:"completedBookings" json:"completedBookings,omitempty"`
	CreatedAt         time.Time       `bson:"createdAt" json:"createdAt,omitempty"`
	UpdatedAt         time.Time       `bson:"updatedAt" json:"updatedAt,omitempty"`
}

// Matchable reports whether the provider passes the baseline trust gate.
func (p Provider) Matchable() bool {
	return p.Verified && p.KYCStatus == KYCStatusApproved
}

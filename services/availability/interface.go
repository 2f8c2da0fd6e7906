package availability

import (
	"context"
	"time"

	availabilityRepo "localpro/database/repository/availability"
	"localpro/models"
)

// CreateInput is the request shape for declaring a new availability window.
type CreateInput struct {
	ListingID     string
	StartDate     time.Time
	EndDate       time.Time
	AvailableDays []time.Weekday
	TimeSlots     []models.AvailabilitySlot
	Recurrence    string
	Notes         string
}

// UpdateInput carries a partial mutation; nil fields are untouched.
type UpdateInput struct {
	StartDate     *time.Time
	EndDate       *time.Time
	AvailableDays *[]time.Weekday
	TimeSlots     *[]models.AvailabilitySlot
	Recurrence    *string
	Active        *bool
	Notes         *string
}

// AvailabilityService validates and queries per-listing recurring
// availability windows.
type AvailabilityService interface {
	Create(ctx context.Context, in CreateInput) (*models.Availability, error)
	Update(ctx context.Context, id string, in UpdateInput) (*models.Availability, error)
	Delete(ctx context.Context, id string) error

	// FindAvailableOn returns the (at most one) active record that covers
	// date, or nil when none does.
	FindAvailableOn(ctx context.Context, listingID string, date time.Time) (*models.Availability, error)

	// CheckAvailability reports whether every calendar day in the inclusive
	// [start, end] range is covered.
	CheckAvailability(ctx context.Context, listingID string, start, end time.Time) (bool, error)

	// BlockDates unions the given days into blockedDates of every active
	// record of the listing and reports how many records were touched.
	BlockDates(ctx context.Context, listingID string, dates []time.Time) (int64, error)
}

// DefaultAvailabilityService is our implementation.
type DefaultAvailabilityService struct {
	Repo availabilityRepo.AvailabilityRepository
}

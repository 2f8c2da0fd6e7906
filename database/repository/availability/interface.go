package availabilityRepo

import (
	"context"
	"time"

	"localpro/models"
)

// AvailabilityUpdate carries a partial mutation; nil fields are untouched.
type AvailabilityUpdate struct {
	StartDate     *time.Time
	EndDate       *time.Time
	AvailableDays *[]time.Weekday
	TimeSlots     *[]models.AvailabilitySlot
	Recurrence    *string
	BlockedDates  *[]string
	Active        *bool
	Notes         *string
}

// AvailabilityRepository persists per-listing recurring availability windows.
type AvailabilityRepository interface {
	Insert(ctx context.Context, a models.Availability) error

	// GetByID returns the record, or nil when the id does not resolve.
	GetByID(ctx context.Context, id string) (*models.Availability, error)

	// FindActiveOverlapping returns active records of the listing whose
	// half-open [startDate, endDate) window strictly overlaps [start, end).
	// Adjacent windows (shared boundary) do not overlap. excludeID, when
	// non-empty, removes one record from consideration.
	FindActiveOverlapping(ctx context.Context, listingID string, start, end time.Time, excludeID string) ([]models.Availability, error)

	// FindActiveIntersecting returns active records whose window touches any
	// day of the inclusive range [start, end].
	FindActiveIntersecting(ctx context.Context, listingID string, start, end time.Time) ([]models.Availability, error)

	// Update applies a partial mutation and returns the updated record.
	// mongo.ErrNoDocuments is returned when the id does not resolve.
	Update(ctx context.Context, id string, upd AvailabilityUpdate) (*models.Availability, error)

	// AddBlockedDates unions dates into blockedDates of every ACTIVE record
	// of the listing and reports how many records were touched.
	AddBlockedDates(ctx context.Context, listingID string, dates []string) (int64, error)

	// Delete hard-removes the record; mongo.ErrNoDocuments when missing.
	Delete(ctx context.Context, id string) error
}

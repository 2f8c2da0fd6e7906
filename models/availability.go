package models

import "time"

// DateLayout is the day-granular format used everywhere a calendar date is
// stored or compared. Blocked dates in particular are day strings, never
// full timestamps.
const DateLayout = "2006-01-02"

// Recurrence patterns for an availability window.
const (
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

// AvailabilitySlot is a time-of-day interval within an available day.
type AvailabilitySlot struct {
	Start string `bson:"start" json:"start"` // e.g. "09:00"
	End   string `bson:"end" json:"end"`     // e.g. "17:30"
}

// Availability declares a listing's recurring working calendar over a
// validity window. Among active records of one listing the [startDate,
// endDate) windows must not overlap; the service enforces this on write.
type Availability struct {
	ID            string             `bson:"id" json:"id"`
	ListingID     string             `bson:"listingId" json:"listingId"`
	StartDate     time.Time          `bson:"startDate" json:"startDate"`
	EndDate       time.Time          `bson:"endDate" json:"endDate"`
	AvailableDays []time.Weekday     `bson:"availableDays" json:"availableDays"`
	TimeSlots     []AvailabilitySlot `bson:"timeSlots" json:"timeSlots"`
	Recurrence    string             `bson:"recurrence,omitempty" json:"recurrence,omitempty"`
	BlockedDates  []string           `bson:"blockedDates" json:"blockedDates"` // day strings, DateLayout
	Active        bool               `bson:"active" json:"active"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// AllowsWeekday reports whether the record admits the given weekday.
func (a Availability) AllowsWeekday(d time.Weekday) bool {
	for _, w := range a.AvailableDays {
		if w == d {
			return true
		}
	}
	return false
}

// BlocksDate reports whether the day of t appears in BlockedDates.
func (a Availability) BlocksDate(t time.Time) bool {
	day := t.Format(DateLayout)
	for _, b := range a.BlockedDates {
		if b == day {
			return true
		}
	}
	return false
}

// Contains reports whether t falls inside the half-open validity window.
func (a Availability) Contains(t time.Time) bool {
	return !t.Before(a.StartDate) && t.Before(a.EndDate)
}

package availability

import (
	"context"
	"fmt"
	"time"

	"localpro/models"
)

// FindAvailableOn returns the active record whose window contains date,
// whose weekday set admits it and whose blocked dates do not name it. The
// no-overlap invariant guarantees at most one record can qualify.
func (s *DefaultAvailabilityService) FindAvailableOn(ctx context.Context, listingID string, date time.Time) (*models.Availability, error) {
	day := truncateToDay(date)
	records, err := s.Repo.FindActiveIntersecting(ctx, listingID, day, day)
	if err != nil {
		return nil, fmt.Errorf("availability query failed: %w", err)
	}
	for _, rec := range records {
		if rec.Contains(day) && rec.AllowsWeekday(day.Weekday()) && !rec.BlocksDate(day) {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

// CheckAvailability reports whether every calendar day in the inclusive
// [start, end] range is covered by the listing's active availability. When
// no window intersects the range at all it short-circuits to false without
// day-by-day iteration; otherwise the first uncovered day decides.
func (s *DefaultAvailabilityService) CheckAvailability(ctx context.Context, listingID string, start, end time.Time) (bool, error) {
	start, end = truncateToDay(start), truncateToDay(end)
	if end.Before(start) {
		return false, ErrInvalidWindow
	}

	records, err := s.Repo.FindActiveIntersecting(ctx, listingID, start, end)
	if err != nil {
		return false, fmt.Errorf("availability query failed: %w", err)
	}
	if len(records) == 0 {
		return false, nil
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !dayCovered(records, day) {
			return false, nil
		}
	}
	return true, nil
}

// dayCovered applies the per-day rule: some loaded record must admit the
// weekday and not block the day. Blocked-date comparison is day-granular.
func dayCovered(records []models.Availability, day time.Time) bool {
	for _, rec := range records {
		if rec.AllowsWeekday(day.Weekday()) && !rec.BlocksDate(day) {
			return true
		}
	}
	return false
}

package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	availabilityRepo "localpro/database/repository/availability"
	"localpro/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create validates and persists a new active availability window. The
// window may not overlap any existing active window of the same listing;
// adjacent windows are fine.
func (s *DefaultAvailabilityService) Create(ctx context.Context, in CreateInput) (*models.Availability, error) {
	start, end := truncateToDay(in.StartDate), truncateToDay(in.EndDate)
	if !start.Before(end) {
		return nil, ErrInvalidWindow
	}
	if len(in.AvailableDays) == 0 {
		return nil, ErrNoAvailableDays
	}
	if err := validateSlots(in.TimeSlots); err != nil {
		return nil, err
	}
	if err := validateRecurrence(in.Recurrence); err != nil {
		return nil, err
	}

	overlapping, err := s.Repo.FindActiveOverlapping(ctx, in.ListingID, start, end, "")
	if err != nil {
		return nil, fmt.Errorf("overlap check failed: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, ErrOverlap
	}

	now := time.Now().UTC()
	record := models.Availability{
		ID:            uuid.New().String(),
		ListingID:     in.ListingID,
		StartDate:     start,
		EndDate:       end,
		AvailableDays: in.AvailableDays,
		TimeSlots:     in.TimeSlots,
		Recurrence:    in.Recurrence,
		BlockedDates:  []string{},
		Active:        true,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist availability: %w", err)
	}
	return &record, nil
}

// Update applies a partial mutation. Whenever the window or active flag
// changes, the overlap invariant is re-validated against the effective
// record, so an update can never silently violate it.
func (s *DefaultAvailabilityService) Update(ctx context.Context, id string, in UpdateInput) (*models.Availability, error) {
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("availability lookup failed: %w", err)
	}
	if current == nil {
		return nil, ErrNotFound
	}

	effStart, effEnd, effActive := current.StartDate, current.EndDate, current.Active
	upd := availabilityRepo.AvailabilityUpdate{
		AvailableDays: in.AvailableDays,
		TimeSlots:     in.TimeSlots,
		Recurrence:    in.Recurrence,
		Active:        in.Active,
		Notes:         in.Notes,
	}
	if in.StartDate != nil {
		start := truncateToDay(*in.StartDate)
		upd.StartDate = &start
		effStart = start
	}
	if in.EndDate != nil {
		end := truncateToDay(*in.EndDate)
		upd.EndDate = &end
		effEnd = end
	}
	if in.Active != nil {
		effActive = *in.Active
	}

	if !effStart.Before(effEnd) {
		return nil, ErrInvalidWindow
	}
	if in.AvailableDays != nil && len(*in.AvailableDays) == 0 {
		return nil, ErrNoAvailableDays
	}
	if in.TimeSlots != nil {
		if err := validateSlots(*in.TimeSlots); err != nil {
			return nil, err
		}
	}
	if in.Recurrence != nil {
		if err := validateRecurrence(*in.Recurrence); err != nil {
			return nil, err
		}
	}

	windowChanged := in.StartDate != nil || in.EndDate != nil
	activated := in.Active != nil && *in.Active && !current.Active
	if effActive && (windowChanged || activated) {
		overlapping, err := s.Repo.FindActiveOverlapping(ctx, current.ListingID, effStart, effEnd, id)
		if err != nil {
			return nil, fmt.Errorf("overlap check failed: %w", err)
		}
		if len(overlapping) > 0 {
			return nil, ErrOverlap
		}
	}

	updated, err := s.Repo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update availability: %w", err)
	}
	return updated, nil
}

// Delete hard-removes a record by identity.
func (s *DefaultAvailabilityService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete availability: %w", err)
	}
	return nil
}

// BlockDates normalizes the given days to calendar-day strings and unions
// them into every active record of the listing. There is no existence
// check on the listing; blocking dates for an unknown listing touches zero
// records.
func (s *DefaultAvailabilityService) BlockDates(ctx context.Context, listingID string, dates []time.Time) (int64, error) {
	days := make([]string, 0, len(dates))
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		day := d.Format(models.DateLayout)
		if seen[day] {
			continue
		}
		seen[day] = true
		days = append(days, day)
	}

	touched, err := s.Repo.AddBlockedDates(ctx, listingID, days)
	if err != nil {
		return 0, fmt.Errorf("failed to block dates: %w", err)
	}
	return touched, nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateSlots(slots []models.AvailabilitySlot) error {
	for _, slot := range slots {
		start, err := time.Parse("15:04", slot.Start)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTimeSlot, slot.Start)
		}
		end, err := time.Parse("15:04", slot.End)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTimeSlot, slot.End)
		}
		if !start.Before(end) {
			return fmt.Errorf("%w: %s-%s", ErrInvalidTimeSlot, slot.Start, slot.End)
		}
	}
	return nil
}

func validateRecurrence(r string) error {
	switch r {
	case "", models.RecurrenceDaily, models.RecurrenceWeekly, models.RecurrenceMonthly:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRecurrence, r)
	}
}

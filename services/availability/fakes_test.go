package availability

import (
	"context"
	"time"

	availabilityRepo "localpro/database/repository/availability"
	"localpro/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// fakeAvailabilityRepo mirrors the Mongo repository's filter semantics in
// memory, including the strict-vs-inclusive boundary comparisons.
type fakeAvailabilityRepo struct {
	records        map[string]models.Availability
	intersectCalls int
}

func newFakeRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{records: map[string]models.Availability{}}
}

func (f *fakeAvailabilityRepo) Insert(_ context.Context, a models.Availability) error {
	f.records[a.ID] = a
	return nil
}

func (f *fakeAvailabilityRepo) GetByID(_ context.Context, id string) (*models.Availability, error) {
	if a, ok := f.records[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (f *fakeAvailabilityRepo) FindActiveOverlapping(_ context.Context, listingID string, start, end time.Time, excludeID string) ([]models.Availability, error) {
	var out []models.Availability
	for _, a := range f.records {
		if a.ListingID != listingID || !a.Active || a.ID == excludeID {
			continue
		}
		if a.StartDate.Before(end) && a.EndDate.After(start) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) FindActiveIntersecting(_ context.Context, listingID string, start, end time.Time) ([]models.Availability, error) {
	f.intersectCalls++
	var out []models.Availability
	for _, a := range f.records {
		if a.ListingID != listingID || !a.Active {
			continue
		}
		if !a.StartDate.After(end) && a.EndDate.After(start) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) Update(_ context.Context, id string, upd availabilityRepo.AvailabilityUpdate) (*models.Availability, error) {
	a, ok := f.records[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if upd.StartDate != nil {
		a.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		a.EndDate = *upd.EndDate
	}
	if upd.AvailableDays != nil {
		a.AvailableDays = *upd.AvailableDays
	}
	if upd.TimeSlots != nil {
		a.TimeSlots = *upd.TimeSlots
	}
	if upd.Recurrence != nil {
		a.Recurrence = *upd.Recurrence
	}
	if upd.BlockedDates != nil {
		a.BlockedDates = *upd.BlockedDates
	}
	if upd.Active != nil {
		a.Active = *upd.Active
	}
	if upd.Notes != nil {
		a.Notes = *upd.Notes
	}
	f.records[id] = a
	return &a, nil
}

func (f *fakeAvailabilityRepo) AddBlockedDates(_ context.Context, listingID string, dates []string) (int64, error) {
	var touched int64
	for id, a := range f.records {
		if a.ListingID != listingID || !a.Active {
			continue
		}
		existing := make(map[string]bool, len(a.BlockedDates))
		for _, d := range a.BlockedDates {
			existing[d] = true
		}
		for _, d := range dates {
			if !existing[d] {
				a.BlockedDates = append(a.BlockedDates, d)
				existing[d] = true
			}
		}
		f.records[id] = a
		touched++
	}
	return touched, nil
}

func (f *fakeAvailabilityRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.records[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.records, id)
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func allWeekdays() []time.Weekday {
	return []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	}
}

package availability

import (
	"context"
	"testing"
	"time"

	"localpro/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRejectsInvalidWindow(t *testing.T) {
	svc := &DefaultAvailabilityService{Repo: newFakeRepo()}

	_, err := svc.Create(context.Background(), CreateInput{
		ListingID:     "l1",
		StartDate:     day(2025, time.January, 20),
		EndDate:       day(2025, time.January, 10),
		AvailableDays: []time.Weekday{time.Monday},
	})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	// Equal start and end is an empty window, also invalid.
	_, err = svc.Create(context.Background(), CreateInput{
		ListingID:     "l1",
		StartDate:     day(2025, time.January, 10),
		EndDate:       day(2025, time.January, 10),
		AvailableDays: []time.Weekday{time.Monday},
	})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestCreateRequiresAvailableDays(t *testing.T) {
	svc := &DefaultAvailabilityService{Repo: newFakeRepo()}

	_, err := svc.Create(context.Background(), CreateInput{
		ListingID: "l1",
		StartDate: day(2025, time.January, 10),
		EndDate:   day(2025, time.January, 20),
	})
	assert.ErrorIs(t, err, ErrNoAvailableDays)
}

func TestCreateValidatesSlotsAndRecurrence(t *testing.T) {
	svc := &DefaultAvailabilityService{Repo: newFakeRepo()}

	base := CreateInput{
		ListingID:     "l1",
		StartDate:     day(2025, time.January, 10),
		EndDate:       day(2025, time.January, 20),
		AvailableDays: []time.Weekday{time.Monday},
	}

	in := base
	in.TimeSlots = []models.AvailabilitySlot{{Start: "17:00", End: "09:00"}}
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)

	in = base
	in.TimeSlots = []models.AvailabilitySlot{{Start: "nine", End: "17:00"}}
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)

	in = base
	in.Recurrence = "fortnightly"
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidRecurrence)
}

func TestCreateRejectsOverlapAllowsAdjacent(t *testing.T) {
	repo := newFakeRepo()
	svc := &DefaultAvailabilityService{Repo: repo}

	// Existing active window [Jan 15, Jan 25).
	existing, err := svc.Create(context.Background(), CreateInput{
		ListingID:     "l1",
		StartDate:     day(2025, time.January, 15),
		EndDate:       day(2025, time.January, 25),
		AvailableDays: allWeekdays(),
	})
	require.NoError(t, err)
	require.True(t, existing.Active)

	// [Jan 10, Jan 20) overlaps.
	_, err = svc.Create(context.Background(), CreateInput{
		ListingID:     "l1",
		StartDate:     day(2025, time.January, 10),
		EndDate:       day(2025, time.January, 20),
		AvailableDays: allWeekdays(),
	})
	assert.ErrorIs(t, err, ErrOverlap)

	// [Jan 25, Jan 30) shares only the boundary: adjacent, allowed.
	_, err = svc.Create(context.Background(), CreateInput{
		ListingID:     "l1",
		StartDate:     day(2025, time.January, 25),
		EndDate:       day(2025, time.January, 30),
		AvailableDays: allWeekdays(),
	})
	assert.NoError(t, err)

	// Same overlap on a different listing is fine.
	_, err = svc.Create(context.Background(), CreateInput{
		ListingID:     "l2",
		StartDate:     day(2025, time.January, 10),
		EndDate:       day(2025, time.January, 20),
		AvailableDays: allWeekdays(),
	})
	assert.NoError(t, err)
}

func TestCreateIgnoresInactiveWindows(t *testing.T) {
	repo := newFakeRepo()
	svc := &DefaultAvailabilityService{Repo: repo}

	existing, err := svc.Create(context.Background(), CreateInput{
		ListingID:     "l1",
		StartDate:     day(2025, time.January, 15),
		EndDate:       day(2025, time.January, 25),
		AvailableDays: allWeekdays(),
	})
	require.NoError(t, err)

	inactive := false
	_, err = svc.Update(context.Background(), existing.ID, UpdateInput{Active: &inactive})
	require.NoError(t, err)

	// The deactivated window no longer blocks creation.
	_, err = svc.Create(context.Background(), CreateInput{
		ListingID:     "l1",
		StartDate:     day(2025, time.January, 10),
		EndDate:       day(2025, time.January, 20),
		AvailableDays: allWeekdays(),
	})
	assert.NoError(t, err)
}

func TestUpdateRevalidatesOverlap(t *testing.T) {
	repo := newFakeRepo()
	svc := &DefaultAvailabilityService{Repo: repo}

	first, err := svc.Create(context.Background(), CreateInput{
		ListingID:     "l1",
		StartDate:     day(2025, time.February, 1),
		EndDate:       day(2025, time.February, 10),
		AvailableDays: allWeekdays(),
	})
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), CreateInput{
		ListingID:     "l1",
		StartDate:     day(2025, time.February, 10),
		EndDate:       day(2025, time.February, 20),
		AvailableDays: allWeekdays(),
	})
	require.NoError(t, err)

	// Stretching the second window back into the first must fail.
	newStart := day(2025, time.February, 5)
	_, err = svc.Update(context.Background(), second.ID, UpdateInput{StartDate: &newStart})
	assert.ErrorIs(t, err, ErrOverlap)

	// A non-window mutation on the same record passes untouched.
	notes := "winter schedule"
	updated, err := svc.Update(context.Background(), second.ID, UpdateInput{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "winter schedule", updated.Notes)

	// Reactivating a record re-checks overlap too.
	inactive := false
	_, err = svc.Update(context.Background(), first.ID, UpdateInput{Active: &inactive})
	require.NoError(t, err)
	overlapEnd := day(2025, time.February, 15)
	_, err = svc.Update(context.Background(), first.ID, UpdateInput{EndDate: &overlapEnd})
	assert.NoError(t, err) // inactive record may hold any window

	active := true
	_, err = svc.Update(context.Background(), first.ID, UpdateInput{Active: &active})
	assert.ErrorIs(t, err, ErrOverlap)
}

func TestUpdateAndDeleteNotFound(t *testing.T) {
	svc := &DefaultAvailabilityService{Repo: newFakeRepo()}

	notes := "x"
	_, err := svc.Update(context.Background(), "missing", UpdateInput{Notes: &notes})
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesRecord(t *testing.T) {
	repo := newFakeRepo()
	svc := &DefaultAvailabilityService{Repo: repo}

	rec, err := svc.Create(context.Background(), CreateInput{
		ListingID:     "l1",
		StartDate:     day(2025, time.March, 1),
		EndDate:       day(2025, time.March, 10),
		AvailableDays: allWeekdays(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), rec.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), rec.ID), ErrNotFound)
}

func TestBlockDatesSetUnion(t *testing.T) {
	repo := newFakeRepo()
	svc := &DefaultAvailabilityService{Repo: repo}

	active, err := svc.Create(context.Background(), CreateInput{
		ListingID:     "l1",
		StartDate:     day(2025, time.March, 1),
		EndDate:       day(2025, time.March, 31),
		AvailableDays: allWeekdays(),
	})
	require.NoError(t, err)

	other, err := svc.Create(context.Background(), CreateInput{
		ListingID:     "l1",
		StartDate:     day(2025, time.March, 31),
		EndDate:       day(2025, time.April, 30),
		AvailableDays: allWeekdays(),
	})
	require.NoError(t, err)
	off := false
	_, err = svc.Update(context.Background(), other.ID, UpdateInput{Active: &off})
	require.NoError(t, err)

	// Duplicate inputs collapse; repeating the call adds nothing.
	touched, err := svc.BlockDates(context.Background(), "l1", []time.Time{
		day(2025, time.March, 10),
		day(2025, time.March, 10),
		day(2025, time.March, 11),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), touched)

	_, err = svc.BlockDates(context.Background(), "l1", []time.Time{day(2025, time.March, 10)})
	require.NoError(t, err)

	got := repo.records[active.ID]
	assert.ElementsMatch(t, []string{"2025-03-10", "2025-03-11"}, got.BlockedDates)

	// Inactive record untouched.
	assert.Empty(t, repo.records[other.ID].BlockedDates)

	// Unknown listing: zero records touched, no error.
	touched, err = svc.BlockDates(context.Background(), "l-unknown", []time.Time{day(2025, time.March, 10)})
	require.NoError(t, err)
	assert.Zero(t, touched)
}

package service

import (
	"context"
	"testing"
	"time"

	"opscal/core/errors"
	eventEntity "opscal/modules/event/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type occurrenceServiceFixture struct {
	service     OccurrenceServiceInterface
	events      *memEventRepo
	occurrences *memOccurrenceRepo
	rules       *memRuleRepo

	event *eventEntity.Event
}

func newOccurrenceServiceFixture(t *testing.T) *occurrenceServiceFixture {
	t.Helper()

	f := &occurrenceServiceFixture{
		events:      newMemEventRepo(),
		occurrences: newMemOccurrenceRepo(),
		rules:       newMemRuleRepo(),
	}

	event, rule := weeklyFixture()
	_, err := f.rules.Create(context.Background(), rule)
	require.NoError(t, err)
	created, err := f.events.Create(context.Background(), event)
	require.NoError(t, err)
	f.event = created

	f.service = NewOccurrenceService(f.events, f.occurrences, f.rules)
	return f
}

func (f *occurrenceServiceFixture) januaryWindow() (time.Time, time.Time) {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
}

func TestMoveMaterializesOccurrenceOnFirstEdit(t *testing.T) {
	f := newOccurrenceServiceFixture(t)
	ctx := context.Background()

	originalStart := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	newStart := time.Date(2024, 1, 9, 14, 0, 0, 0, time.UTC)

	occ, appErr := f.service.Move(ctx, f.event.ID, originalStart, newStart, newStart.Add(time.Hour), "site access changed")
	require.Nil(t, appErr)
	assert.True(t, occ.Persisted())
	assert.True(t, occ.Moved())
	assert.True(t, occ.OriginalStart.Equal(originalStart))
	assert.True(t, occ.Start.Equal(newStart))
	assert.Equal(t, "site access changed", occ.Notes)

	from, to := f.januaryWindow()
	occs, appErr := f.service.OccurrencesInRange(ctx, f.event.ID, from, to, false)
	require.Nil(t, appErr)
	require.Len(t, occs, 4)

	var moved int
	for _, o := range occs {
		if o.Moved() {
			moved++
			assert.True(t, o.Start.Equal(newStart))
			assert.True(t, o.OriginalStart.Equal(originalStart))
		}
	}
	assert.Equal(t, 1, moved, "only the edited slot carries the override")

	// The instance left its original day and landed on the new one.
	vacated, appErr := f.service.OccurrencesInRange(ctx,
		f.event.ID, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), false)
	require.Nil(t, appErr)
	assert.Empty(t, vacated)

	landed, appErr := f.service.OccurrencesInRange(ctx,
		f.event.ID, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), false)
	require.Nil(t, appErr)
	require.Len(t, landed, 1)
	assert.True(t, landed[0].Moved())
	assert.True(t, landed[0].OriginalStart.Equal(originalStart))
}

func TestMoveFreezesOriginalStartAcrossRepeatedMoves(t *testing.T) {
	f := newOccurrenceServiceFixture(t)
	ctx := context.Background()

	originalStart := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	first := time.Date(2024, 1, 9, 14, 0, 0, 0, time.UTC)
	second := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

	moved, appErr := f.service.Move(ctx, f.event.ID, originalStart, first, first.Add(time.Hour), "")
	require.Nil(t, appErr)

	// The second move addresses the slot by its original start, not by the
	// start the first move gave it.
	again, appErr := f.service.Move(ctx, f.event.ID, originalStart, second, second.Add(time.Hour), "")
	require.Nil(t, appErr)
	assert.Equal(t, moved.ID, again.ID, "repeated edits reuse the persisted row")
	assert.True(t, again.OriginalStart.Equal(originalStart))
	assert.True(t, again.Start.Equal(second))

	all, err := f.occurrences.ListForEvent(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMoveUnknownSlotRejected(t *testing.T) {
	f := newOccurrenceServiceFixture(t)

	// Jan 2 is not a slot the weekly rule generates.
	bogus := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	newStart := bogus.Add(time.Hour)

	_, appErr := f.service.Move(context.Background(), f.event.ID, bogus, newStart, newStart.Add(time.Hour), "")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)

	all, err := f.occurrences.ListForEvent(context.Background(), f.event.ID)
	require.NoError(t, err)
	assert.Empty(t, all, "a rejected edit must not leave a row behind")
}

func TestMoveRejectsInvertedBounds(t *testing.T) {
	f := newOccurrenceServiceFixture(t)

	originalStart := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	_, appErr := f.service.Move(context.Background(), f.event.ID, originalStart, originalStart, originalStart.Add(-time.Hour), "")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestCancelAndUncancelSlot(t *testing.T) {
	f := newOccurrenceServiceFixture(t)
	ctx := context.Background()

	originalStart := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	occ, appErr := f.service.Cancel(ctx, f.event.ID, originalStart, "crew unavailable")
	require.Nil(t, appErr)
	assert.True(t, occ.Cancelled)
	assert.Equal(t, "crew unavailable", occ.Notes)

	from, to := f.januaryWindow()
	active, appErr := f.service.OccurrencesInRange(ctx, f.event.ID, from, to, false)
	require.Nil(t, appErr)
	assert.Len(t, active, 3)

	history, appErr := f.service.OccurrencesInRange(ctx, f.event.ID, from, to, true)
	require.Nil(t, appErr)
	require.Len(t, history, 4)
	var cancelled int
	for _, o := range history {
		if o.Cancelled {
			cancelled++
		}
	}
	assert.Equal(t, 1, cancelled)

	_, appErr = f.service.Uncancel(ctx, f.event.ID, originalStart)
	require.Nil(t, appErr)
	active, appErr = f.service.OccurrencesInRange(ctx, f.event.ID, from, to, false)
	require.Nil(t, appErr)
	assert.Len(t, active, 4)
}

func TestOccurrencesInRangeRejectsEmptyWindow(t *testing.T) {
	f := newOccurrenceServiceFixture(t)

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, appErr := f.service.OccurrencesInRange(context.Background(), f.event.ID, at, at, false)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestCalendarOccurrencesMergeAcrossEvents(t *testing.T) {
	f := newOccurrenceServiceFixture(t)
	ctx := context.Background()

	oneOff := &eventEntity.Event{
		Title:      "Material delivery",
		Start:      time.Date(2024, 1, 10, 7, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
		CalendarID: f.event.CalendarID,
	}
	_, err := f.events.Create(ctx, oneOff)
	require.NoError(t, err)

	from, to := f.januaryWindow()
	occs, appErr := f.service.CalendarOccurrencesInRange(ctx, f.event.CalendarID, from, to)
	require.Nil(t, appErr)
	require.Len(t, occs, 5)

	for i := 1; i < len(occs); i++ {
		assert.False(t, occs[i].Start.Before(occs[i-1].Start), "merged result is start-ordered")
	}
	assert.Equal(t, "Material delivery", occs[2].Title)
}

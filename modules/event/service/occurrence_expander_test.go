package service

import (
	"testing"
	"time"

	eventEntity "opscal/modules/event/entity"
	ruleEntity "opscal/modules/rule/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weeklyFixture() (*eventEntity.Event, *ruleEntity.Rule) {
	eventID := uuid.New()
	ruleID := uuid.New()
	event := &eventEntity.Event{
		Title:      "Crew standup",
		Start:      time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		RuleID:     &ruleID,
		CalendarID: uuid.New(),
	}
	event.ID = eventID
	rule := &ruleEntity.Rule{
		Name:      "weekly",
		Frequency: ruleEntity.FrequencyWeekly,
		Interval:  1,
	}
	rule.ID = ruleID
	return event, rule
}

func TestExpandWeeklyFourInstances(t *testing.T) {
	event, rule := weeklyFixture()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)

	occs, err := expandOccurrences(event, rule, nil, from, to)
	require.NoError(t, err)
	require.Len(t, occs, 4)

	for i, occ := range occs {
		expected := event.Start.AddDate(0, 0, 7*i)
		assert.True(t, occ.Start.Equal(expected), "instance %d start", i)
		assert.True(t, occ.End.Equal(expected.Add(time.Hour)), "instance %d end", i)
		assert.True(t, occ.OriginalStart.Equal(occ.Start))
		assert.False(t, occ.Moved())
		assert.False(t, occ.Persisted())
		assert.Equal(t, "Crew standup", occ.Title)
	}
}

func TestExpandWindowIsHalfOpen(t *testing.T) {
	event, rule := weeklyFixture()

	// Window start equal to the first instance includes it; window end
	// equal to an instance start excludes that instance.
	from := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 22, 9, 0, 0, 0, time.UTC)

	occs, err := expandOccurrences(event, rule, nil, from, to)
	require.NoError(t, err)
	require.Len(t, occs, 3)
	assert.True(t, occs[0].Start.Equal(from))
	assert.True(t, occs[2].Start.Equal(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)))
}

func TestExpandNonRecurringEvent(t *testing.T) {
	event, _ := weeklyFixture()
	event.RuleID = nil

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	occs, err := expandOccurrences(event, nil, nil, from, to)
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.True(t, occs[0].Start.Equal(event.Start))
	assert.True(t, occs[0].End.Equal(event.End))
	assert.False(t, occs[0].Moved())

	// Outside the window nothing is produced.
	occs, err = expandOccurrences(event, nil, nil, to, to.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Empty(t, occs)
}

func TestExpandEndRecurringPeriodIgnoredWithoutRule(t *testing.T) {
	event, _ := weeklyFixture()
	event.RuleID = nil
	end := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	event.EndRecurringPeriod = &end

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	// The field is inert on one-time events, even when it lies before the
	// event itself.
	occs, err := expandOccurrences(event, nil, nil, from, to)
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.True(t, occs[0].Start.Equal(event.Start))
}

func TestExpandEndRecurringPeriodBoundsExpansion(t *testing.T) {
	event, rule := weeklyFixture()
	end := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	event.EndRecurringPeriod = &end

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	occs, err := expandOccurrences(event, rule, nil, from, to)
	require.NoError(t, err)
	require.Len(t, occs, 3)
	assert.True(t, occs[2].Start.Equal(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)))
}

func TestExpandAppliesPersistedOverride(t *testing.T) {
	event, rule := weeklyFixture()
	originalStart := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	movedStart := time.Date(2024, 1, 9, 14, 0, 0, 0, time.UTC)

	override := eventEntity.Occurrence{
		EventID:       event.ID,
		Title:         event.Title,
		Start:         movedStart,
		End:           movedStart.Add(time.Hour),
		OriginalStart: originalStart,
		OriginalEnd:   originalStart.Add(time.Hour),
	}
	override.ID = uuid.New()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)

	occs, err := expandOccurrences(event, rule, []eventEntity.Occurrence{override}, from, to)
	require.NoError(t, err)
	require.Len(t, occs, 4)

	var found *eventEntity.Occurrence
	for i := range occs {
		assert.False(t, occs[i].Start.Equal(originalStart), "generated slot must be replaced")
		if occs[i].Start.Equal(movedStart) {
			found = &occs[i]
		}
	}
	require.NotNil(t, found)
	assert.True(t, found.Moved())
	assert.True(t, found.Persisted())
	assert.True(t, found.OriginalStart.Equal(originalStart), "original start stays frozen")
}

func TestExpandOverrideMovedOutOfWindow(t *testing.T) {
	event, rule := weeklyFixture()
	originalStart := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	movedStart := time.Date(2024, 2, 8, 9, 0, 0, 0, time.UTC)

	override := eventEntity.Occurrence{
		EventID:       event.ID,
		Start:         movedStart,
		End:           movedStart.Add(time.Hour),
		OriginalStart: originalStart,
		OriginalEnd:   originalStart.Add(time.Hour),
	}
	override.ID = uuid.New()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)

	occs, err := expandOccurrences(event, rule, []eventEntity.Occurrence{override}, from, to)
	require.NoError(t, err)
	assert.Len(t, occs, 3)
	for _, occ := range occs {
		assert.False(t, occ.OriginalStart.Equal(originalStart))
	}
}

func TestExpandOverrideMovedIntoWindow(t *testing.T) {
	event, rule := weeklyFixture()
	originalStart := time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC)
	movedStart := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	override := eventEntity.Occurrence{
		EventID:       event.ID,
		Start:         movedStart,
		End:           movedStart.Add(time.Hour),
		OriginalStart: originalStart,
		OriginalEnd:   originalStart.Add(time.Hour),
	}
	override.ID = uuid.New()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)

	occs, err := expandOccurrences(event, rule, []eventEntity.Occurrence{override}, from, to)
	require.NoError(t, err)
	require.Len(t, occs, 5)

	var found bool
	for _, occ := range occs {
		if occ.Start.Equal(movedStart) {
			found = true
			assert.True(t, occ.OriginalStart.Equal(originalStart))
		}
	}
	assert.True(t, found, "instance moved into the window must appear")
}

func TestCancelledOccurrenceFiltering(t *testing.T) {
	event, rule := weeklyFixture()
	cancelledStart := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	cancelled := eventEntity.Occurrence{
		EventID:       event.ID,
		Start:         cancelledStart,
		End:           cancelledStart.Add(time.Hour),
		Cancelled:     true,
		OriginalStart: cancelledStart,
		OriginalEnd:   cancelledStart.Add(time.Hour),
	}
	cancelled.ID = uuid.New()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)

	all, err := expandOccurrences(event, rule, []eventEntity.Occurrence{cancelled}, from, to)
	require.NoError(t, err)
	assert.Len(t, all, 4, "history keeps the cancelled instance")

	active := activeOnly(all)
	assert.Len(t, active, 3)
	for _, occ := range active {
		assert.False(t, occ.Cancelled)
	}
}

func TestOccurrenceMovedFlag(t *testing.T) {
	start := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	occ := eventEntity.Occurrence{
		Start:         start,
		End:           start.Add(time.Hour),
		OriginalStart: start,
		OriginalEnd:   start.Add(time.Hour),
	}
	assert.False(t, occ.Moved())

	occ.End = occ.End.Add(30 * time.Minute)
	assert.True(t, occ.Moved(), "changed end alone marks the occurrence moved")

	occ.End = occ.OriginalEnd
	occ.Start = occ.Start.Add(time.Minute)
	assert.True(t, occ.Moved())
}

package service

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"opscal/core/errors"
	coreRelation "opscal/core/relation"
	"opscal/modules/calendar/dto"
	"opscal/modules/calendar/entity"
	eventEntity "opscal/modules/event/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes mirroring the SQL repository's contract.

type memCalendarRepo struct {
	mu        sync.Mutex
	calendars map[uuid.UUID]entity.Calendar
	relations map[uuid.UUID]entity.CalendarRelation
}

func newMemCalendarRepo() *memCalendarRepo {
	return &memCalendarRepo{
		calendars: make(map[uuid.UUID]entity.Calendar),
		relations: make(map[uuid.UUID]entity.CalendarRelation),
	}
}

func (r *memCalendarRepo) Create(_ context.Context, cal *entity.Calendar) (*entity.Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cal.ID = uuid.New()
	cal.CreatedAt = time.Now()
	cal.UpdatedAt = cal.CreatedAt
	r.calendars[cal.ID] = *cal
	return cal, nil
}

func (r *memCalendarRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cal, ok := r.calendars[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &cal, nil
}

func (r *memCalendarRepo) GetBySlug(_ context.Context, calendarSlug string) (*entity.Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cal := range r.calendars {
		if cal.Slug == calendarSlug {
			found := cal
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memCalendarRepo) List(_ context.Context) ([]entity.Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Calendar
	for _, cal := range r.calendars {
		out = append(out, cal)
	}
	return out, nil
}

func (r *memCalendarRepo) Update(_ context.Context, cal *entity.Calendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.calendars[cal.ID]; !ok {
		return sql.ErrNoRows
	}
	r.calendars[cal.ID] = *cal
	return nil
}

func (r *memCalendarRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.calendars, id)
	return nil
}

func (r *memCalendarRepo) SlugExists(_ context.Context, calendarSlug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cal := range r.calendars {
		if cal.Slug == calendarSlug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCalendarRepo) CreateRelation(_ context.Context, rel *entity.CalendarRelation) (*entity.CalendarRelation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rel.ID = uuid.New()
	rel.CreatedAt = time.Now()
	rel.UpdatedAt = rel.CreatedAt
	r.relations[rel.ID] = *rel
	return rel, nil
}

func (r *memCalendarRepo) ListRelations(_ context.Context, calendarID uuid.UUID) ([]entity.CalendarRelation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.CalendarRelation
	for _, rel := range r.relations {
		if rel.CalendarID == calendarID {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (r *memCalendarRepo) GetCalendarsForTarget(_ context.Context, kind coreRelation.Kind, targetID uuid.UUID, distinction string) ([]entity.Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Calendar
	for _, rel := range r.relations {
		if rel.TargetKind != kind || rel.TargetID != targetID {
			continue
		}
		if distinction != "" && rel.Distinction != distinction {
			continue
		}
		if cal, ok := r.calendars[rel.CalendarID]; ok {
			out = append(out, cal)
		}
	}
	return out, nil
}

func (r *memCalendarRepo) FindEditRelation(_ context.Context, calendarID uuid.UUID, kind coreRelation.Kind, targetID uuid.UUID) (*entity.CalendarRelation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rel := range r.relations {
		if rel.CalendarID == calendarID && rel.TargetKind == kind && rel.TargetID == targetID && rel.PermissionLevel.CanEditEvents() {
			found := rel
			return &found, nil
		}
	}
	return nil, nil
}

type stubEventSource struct {
	events []eventEntity.Event
}

func (s *stubEventSource) ListByCalendarInRange(_ context.Context, calendarID uuid.UUID, from, to time.Time) ([]eventEntity.Event, error) {
	var out []eventEntity.Event
	for _, e := range s.events {
		if e.CalendarID == calendarID && !e.Start.Before(from) && e.End.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubEventSource) ListUpcoming(_ context.Context, calendarID uuid.UUID, from, to time.Time) ([]eventEntity.Event, error) {
	var out []eventEntity.Event
	for _, e := range s.events {
		if e.CalendarID == calendarID && !e.Start.Before(from) && e.Start.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubOccurrenceSource struct {
	occurrences []eventEntity.Occurrence
}

func (s *stubOccurrenceSource) CalendarOccurrencesInRange(_ context.Context, _ uuid.UUID, from, to time.Time) ([]eventEntity.Occurrence, *errors.AppError) {
	var out []eventEntity.Occurrence
	for _, occ := range s.occurrences {
		if !occ.Start.Before(from) && occ.Start.Before(to) {
			out = append(out, occ)
		}
	}
	return out, nil
}

type calendarServiceFixture struct {
	service     CalendarServiceInterface
	repo        *memCalendarRepo
	events      *stubEventSource
	occurrences *stubOccurrenceSource
	registry    *coreRelation.Registry
	ownerID     uuid.UUID
}

func newCalendarServiceFixture(t *testing.T) *calendarServiceFixture {
	t.Helper()

	f := &calendarServiceFixture{
		repo:        newMemCalendarRepo(),
		events:      &stubEventSource{},
		occurrences: &stubOccurrenceSource{},
		registry:    coreRelation.NewRegistry(),
		ownerID:     uuid.New(),
	}
	f.registry.Register(coreRelation.KindWorker, func(_ context.Context, id uuid.UUID) (coreRelation.Target, error) {
		return coreRelation.Target{Kind: coreRelation.KindWorker, ID: id, Label: "Jordan Rivera"}, nil
	})
	f.service = NewCalendarService(f.repo, f.events, f.occurrences, f.registry)
	return f
}

func TestCreateCalendarSlugsAreUnique(t *testing.T) {
	f := newCalendarServiceFixture(t)
	ctx := context.Background()

	first, appErr := f.service.Create(ctx, &dto.CreateCalendarRequest{Name: "Field Crew"}, f.ownerID)
	require.Nil(t, appErr)
	assert.Equal(t, "field-crew", first.Slug)

	second, appErr := f.service.Create(ctx, &dto.CreateCalendarRequest{Name: "Field Crew"}, f.ownerID)
	require.Nil(t, appErr)
	assert.Equal(t, "field-crew-2", second.Slug)

	third, appErr := f.service.Create(ctx, &dto.CreateCalendarRequest{Name: "Field Crew"}, f.ownerID)
	require.Nil(t, appErr)
	assert.Equal(t, "field-crew-3", third.Slug)
}

func TestCreateCalendarDefaults(t *testing.T) {
	f := newCalendarServiceFixture(t)

	cal, appErr := f.service.Create(context.Background(), &dto.CreateCalendarRequest{Name: "Deliveries"}, f.ownerID)
	require.Nil(t, appErr)
	assert.Equal(t, entity.CalendarTypeCustom, cal.CalendarType)
	assert.Equal(t, "UTC", cal.Timezone)
	assert.True(t, cal.IsActive)
	assert.True(t, cal.AutoAcceptEvents)
	assert.Equal(t, f.ownerID, cal.OwnerID)
}

func TestCreateCalendarRequiresName(t *testing.T) {
	f := newCalendarServiceFixture(t)

	_, appErr := f.service.Create(context.Background(), &dto.CreateCalendarRequest{}, f.ownerID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestGetCalendarForObjectRequiresExactlyOne(t *testing.T) {
	f := newCalendarServiceFixture(t)
	ctx := context.Background()
	workerID := uuid.New()

	_, appErr := f.service.GetCalendarForObject(ctx, coreRelation.KindWorker, workerID, "")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)

	cal, appErr := f.service.Create(ctx, &dto.CreateCalendarRequest{Name: "Worker schedule"}, f.ownerID)
	require.Nil(t, appErr)
	_, err := f.repo.CreateRelation(ctx, &entity.CalendarRelation{
		CalendarID: cal.ID,
		TargetKind: coreRelation.KindWorker,
		TargetID:   workerID,
	})
	require.NoError(t, err)

	found, appErr := f.service.GetCalendarForObject(ctx, coreRelation.KindWorker, workerID, "")
	require.Nil(t, appErr)
	assert.Equal(t, cal.ID, found.ID)

	// A second linked calendar makes the lookup ambiguous and it aborts.
	other, appErr := f.service.Create(ctx, &dto.CreateCalendarRequest{Name: "Duplicate schedule"}, f.ownerID)
	require.Nil(t, appErr)
	_, err = f.repo.CreateRelation(ctx, &entity.CalendarRelation{
		CalendarID: other.ID,
		TargetKind: coreRelation.KindWorker,
		TargetID:   workerID,
	})
	require.NoError(t, err)

	_, appErr = f.service.GetCalendarForObject(ctx, coreRelation.KindWorker, workerID, "")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrDataIntegrity, appErr.Code)
}

func TestGetOrCreateCalendarForObjectIsIdempotent(t *testing.T) {
	f := newCalendarServiceFixture(t)
	ctx := context.Background()

	req := &dto.GetOrCreateForObjectRequest{
		TargetKind: coreRelation.KindWorker,
		TargetID:   uuid.New(),
	}
	created, appErr := f.service.GetOrCreateCalendarForObject(ctx, req, f.ownerID)
	require.Nil(t, appErr)
	assert.Equal(t, "Jordan Rivera", created.Name, "name falls back to the target's label")

	rels, err := f.repo.ListRelations(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, req.TargetID, rels[0].TargetID)
	assert.True(t, rels[0].Inheritable)

	again, appErr := f.service.GetOrCreateCalendarForObject(ctx, req, f.ownerID)
	require.Nil(t, appErr)
	assert.Equal(t, created.ID, again.ID)

	rels, err = f.repo.ListRelations(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, rels, 1, "repeated calls must not relink")
}

func TestGetOrCreateCalendarForObjectUnknownKind(t *testing.T) {
	f := newCalendarServiceFixture(t)

	_, appErr := f.service.GetOrCreateCalendarForObject(context.Background(), &dto.GetOrCreateForObjectRequest{
		TargetKind: coreRelation.Kind("asset"),
		TargetID:   uuid.New(),
	}, f.ownerID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestCreateRelationValidatesLevelAndTarget(t *testing.T) {
	f := newCalendarServiceFixture(t)
	ctx := context.Background()

	cal, appErr := f.service.Create(ctx, &dto.CreateCalendarRequest{Name: "Crew"}, f.ownerID)
	require.Nil(t, appErr)

	_, appErr = f.service.CreateRelation(ctx, cal.ID, &dto.CreateRelationRequest{
		TargetKind:      coreRelation.KindWorker,
		TargetID:        uuid.New(),
		PermissionLevel: "superuser",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	rel, appErr := f.service.CreateRelation(ctx, cal.ID, &dto.CreateRelationRequest{
		TargetKind: coreRelation.KindWorker,
		TargetID:   uuid.New(),
	})
	require.Nil(t, appErr)
	assert.Equal(t, entity.PermissionView, rel.PermissionLevel)
	assert.True(t, rel.Inheritable)
}

func TestICalFeedRendersOccurrences(t *testing.T) {
	f := newCalendarServiceFixture(t)
	ctx := context.Background()
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	cal, appErr := f.service.Create(ctx, &dto.CreateCalendarRequest{Name: "Site visits", Description: "Client site visits"}, f.ownerID)
	require.Nil(t, appErr)

	eventID := uuid.New()
	inWindow := eventEntity.Occurrence{
		EventID:       eventID,
		Title:         "Kickoff walkthrough",
		Start:         time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC),
		End:           time.Date(2024, 2, 5, 10, 0, 0, 0, time.UTC),
		OriginalStart: time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC),
		OriginalEnd:   time.Date(2024, 2, 5, 10, 0, 0, 0, time.UTC),
	}
	outOfWindow := inWindow
	outOfWindow.Start = now.Add(2 * 365 * 24 * time.Hour)
	f.occurrences.occurrences = []eventEntity.Occurrence{inWindow, outOfWindow}

	feed, appErr := f.service.ICalFeed(ctx, cal.ID, now)
	require.Nil(t, appErr)

	assert.Contains(t, feed, "BEGIN:VCALENDAR")
	assert.Contains(t, feed, "METHOD:PUBLISH")
	assert.Contains(t, feed, "X-WR-CALNAME:Site visits")
	assert.Contains(t, feed, "SUMMARY:Kickoff walkthrough")
	assert.Contains(t, feed, eventID.String())
	assert.Equal(t, 1, strings.Count(feed, "BEGIN:VEVENT"), "occurrences beyond the window are not published")
}

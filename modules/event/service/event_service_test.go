package service

import (
	"context"
	"testing"
	"time"

	"opscal/core/errors"
	coreRelation "opscal/core/relation"
	calendarEntity "opscal/modules/calendar/entity"
	"opscal/modules/event/dto"
	"opscal/modules/event/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventServiceFixture struct {
	service   EventServiceInterface
	events    *memEventRepo
	relations *memRelationRepo
	rules     *memRuleRepo
	calendars *memCalendarRepo
	registry  *coreRelation.Registry

	calendarID uuid.UUID
	creatorID  uuid.UUID
}

func newEventServiceFixture(t *testing.T) *eventServiceFixture {
	t.Helper()

	f := &eventServiceFixture{
		events:    newMemEventRepo(),
		relations: newMemRelationRepo(),
		rules:     newMemRuleRepo(),
		calendars: newMemCalendarRepo(),
		registry:  coreRelation.NewRegistry(),
		creatorID: uuid.New(),
	}

	// Every uuid resolves for user and worker kinds; tests that need a
	// missing target use an unregistered kind.
	accept := func(kind coreRelation.Kind) coreRelation.FetchFunc {
		return func(_ context.Context, id uuid.UUID) (coreRelation.Target, error) {
			return coreRelation.Target{Kind: kind, ID: id, Label: "target"}, nil
		}
	}
	f.registry.Register(coreRelation.KindUser, accept(coreRelation.KindUser))
	f.registry.Register(coreRelation.KindWorker, accept(coreRelation.KindWorker))

	cal := &calendarEntity.Calendar{Name: "Ops", Slug: "ops", IsActive: true, OwnerID: f.creatorID}
	_, err := f.calendars.Create(context.Background(), cal)
	require.NoError(t, err)
	f.calendarID = cal.ID

	f.service = NewEventService(f.events, f.relations, f.rules, f.calendars, f.registry, nil)
	return f
}

func (f *eventServiceFixture) validCreateRequest() *dto.CreateEventRequest {
	return &dto.CreateEventRequest{
		Title:      "Site inspection",
		EventType:  entity.EventTypeInspection,
		Start:      time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 3, 4, 11, 0, 0, 0, time.UTC),
		CalendarID: f.calendarID,
	}
}

func fieldNames(appErr *errors.AppError) []string {
	fields, _ := appErr.Details.([]errors.FieldError)
	names := make([]string, 0, len(fields))
	for _, fe := range fields {
		names = append(names, fe.Field)
	}
	return names
}

func TestCreateEventCollectsValidationErrors(t *testing.T) {
	f := newEventServiceFixture(t)

	req := f.validCreateRequest()
	req.Title = ""
	req.End = req.Start.Add(-time.Hour)

	_, appErr := f.service.Create(context.Background(), req, f.creatorID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	names := fieldNames(appErr)
	assert.Contains(t, names, "title")
	assert.Contains(t, names, "end")
}

func TestCreateEventAllDayRequiresMidnightStart(t *testing.T) {
	f := newEventServiceFixture(t)

	req := f.validCreateRequest()
	req.AllDay = true

	_, appErr := f.service.Create(context.Background(), req, f.creatorID)
	require.NotNil(t, appErr)
	assert.Contains(t, fieldNames(appErr), "start")

	// Only the start is pinned to midnight; an all-day event ending
	// mid-day is stored as given.
	req.Start = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	req.End = time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)
	event, appErr := f.service.Create(context.Background(), req, f.creatorID)
	require.Nil(t, appErr)
	assert.True(t, event.AllDay)
}

func TestCreateEventRejectsWorkerOvercommit(t *testing.T) {
	f := newEventServiceFixture(t)

	req := f.validCreateRequest()
	req.RequiredWorkers = 2
	req.WorkerIDs = []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()}

	_, appErr := f.service.Create(context.Background(), req, f.creatorID)
	require.NotNil(t, appErr)
	assert.Contains(t, fieldNames(appErr), "worker_ids")

	// Exactly twice the requirement is still allowed.
	req.WorkerIDs = req.WorkerIDs[:4]
	_, appErr = f.service.Create(context.Background(), req, f.creatorID)
	assert.Nil(t, appErr)
}

func TestCreateEventAppliesDefaults(t *testing.T) {
	f := newEventServiceFixture(t)

	req := f.validCreateRequest()
	req.End = time.Time{}

	event, appErr := f.service.Create(context.Background(), req, f.creatorID)
	require.Nil(t, appErr)
	assert.Equal(t, entity.StatusDraft, event.Status)
	assert.Equal(t, entity.PriorityNormal, event.Priority)
	assert.Equal(t, entity.PrivacyPublic, event.Privacy)
	assert.True(t, event.End.Equal(event.Start.Add(time.Hour)), "missing end defaults to one hour")
	require.NotNil(t, event.CreatorID)
	assert.Equal(t, f.creatorID, *event.CreatorID)
}

func TestCreateEventRejectsMissingRule(t *testing.T) {
	f := newEventServiceFixture(t)

	req := f.validCreateRequest()
	missing := uuid.New()
	req.RuleID = &missing

	_, appErr := f.service.Create(context.Background(), req, f.creatorID)
	require.NotNil(t, appErr)
	assert.Contains(t, fieldNames(appErr), "rule_id")
}

func TestCreateEventUnknownCalendar(t *testing.T) {
	f := newEventServiceFixture(t)

	req := f.validCreateRequest()
	req.CalendarID = uuid.New()

	_, appErr := f.service.Create(context.Background(), req, f.creatorID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestTransitionStatusSyncsCompletedAt(t *testing.T) {
	f := newEventServiceFixture(t)

	req := f.validCreateRequest()
	req.Status = entity.StatusConfirmed
	event, appErr := f.service.Create(context.Background(), req, f.creatorID)
	require.Nil(t, appErr)
	assert.Nil(t, event.CompletedAt)

	event, appErr = f.service.TransitionStatus(context.Background(), event.ID,
		&dto.TransitionStatusRequest{Status: entity.StatusCompleted, CompletionNotes: "done"},
		f.creatorID, false)
	require.Nil(t, appErr)
	require.NotNil(t, event.CompletedAt)
	assert.Equal(t, "done", event.CompletionNotes)

	// Reopening clears the completion timestamp.
	event, appErr = f.service.TransitionStatus(context.Background(), event.ID,
		&dto.TransitionStatusRequest{Status: entity.StatusConfirmed},
		f.creatorID, false)
	require.Nil(t, appErr)
	assert.Nil(t, event.CompletedAt)
}

func TestTransitionStatusAllowsAnyValidStatus(t *testing.T) {
	f := newEventServiceFixture(t)
	ctx := context.Background()

	event, appErr := f.service.Create(ctx, f.validCreateRequest(), f.creatorID)
	require.Nil(t, appErr)
	require.Equal(t, entity.StatusDraft, event.Status)

	// Statuses may be reassigned freely; only completed_at tracks them.
	event, appErr = f.service.TransitionStatus(ctx, event.ID,
		&dto.TransitionStatusRequest{Status: entity.StatusCompleted},
		f.creatorID, false)
	require.Nil(t, appErr)
	assert.NotNil(t, event.CompletedAt)

	event, appErr = f.service.TransitionStatus(ctx, event.ID,
		&dto.TransitionStatusRequest{Status: entity.StatusDraft},
		f.creatorID, false)
	require.Nil(t, appErr)
	assert.Nil(t, event.CompletedAt)

	_, appErr = f.service.TransitionStatus(ctx, event.ID,
		&dto.TransitionStatusRequest{Status: "archived"},
		f.creatorID, false)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestCreateCompletedEventStampsCompletedAt(t *testing.T) {
	f := newEventServiceFixture(t)

	req := f.validCreateRequest()
	req.Status = entity.StatusCompleted

	event, appErr := f.service.Create(context.Background(), req, f.creatorID)
	require.Nil(t, appErr)
	require.NotNil(t, event.CompletedAt)
	assert.False(t, event.CompletedAt.IsZero())
}

func TestUpdateRequiresEditPermission(t *testing.T) {
	f := newEventServiceFixture(t)

	event, appErr := f.service.Create(context.Background(), f.validCreateRequest(), f.creatorID)
	require.Nil(t, appErr)

	stranger := uuid.New()
	title := "Renamed"
	_, appErr = f.service.Update(context.Background(), event.ID, &dto.UpdateEventRequest{Title: &title}, stranger, false)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	// Staff bypasses ownership.
	updated, appErr := f.service.Update(context.Background(), event.ID, &dto.UpdateEventRequest{Title: &title}, stranger, true)
	require.Nil(t, appErr)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestUpdateAllowedForLead(t *testing.T) {
	f := newEventServiceFixture(t)

	lead := uuid.New()
	req := f.validCreateRequest()
	req.LeadID = &lead
	event, appErr := f.service.Create(context.Background(), req, f.creatorID)
	require.Nil(t, appErr)

	title := "Lead retitled"
	updated, appErr := f.service.Update(context.Background(), event.ID, &dto.UpdateEventRequest{Title: &title}, lead, false)
	require.Nil(t, appErr)
	assert.Equal(t, "Lead retitled", updated.Title)
}

func TestUpdateAllowedThroughEditRelation(t *testing.T) {
	f := newEventServiceFixture(t)

	event, appErr := f.service.Create(context.Background(), f.validCreateRequest(), f.creatorID)
	require.Nil(t, appErr)

	editor := uuid.New()
	_, err := f.calendars.CreateRelation(context.Background(), &calendarEntity.CalendarRelation{
		CalendarID:      f.calendarID,
		TargetKind:      coreRelation.KindUser,
		TargetID:        editor,
		PermissionLevel: calendarEntity.PermissionEdit,
	})
	require.NoError(t, err)

	title := "Moved up"
	updated, appErr := f.service.Update(context.Background(), event.ID, &dto.UpdateEventRequest{Title: &title}, editor, false)
	require.Nil(t, appErr)
	assert.Equal(t, "Moved up", updated.Title)
}

func TestAddRelationAndRespond(t *testing.T) {
	f := newEventServiceFixture(t)

	event, appErr := f.service.Create(context.Background(), f.validCreateRequest(), f.creatorID)
	require.Nil(t, appErr)

	req := &dto.CreateEventRelationRequest{
		TargetKind:  coreRelation.KindWorker,
		TargetID:    uuid.New(),
		Distinction: entity.DistinctionAttendee,
		IsRequired:  true,
	}
	rel, appErr := f.service.AddRelation(context.Background(), event.ID, req)
	require.Nil(t, appErr)
	assert.Equal(t, entity.ResponsePending, rel.ResponseStatus)

	// The same tuple cannot be linked twice.
	_, appErr = f.service.AddRelation(context.Background(), event.ID, req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAlreadyExists, appErr.Code)

	responded, appErr := f.service.Respond(context.Background(), rel.ID, entity.ResponseAccepted)
	require.Nil(t, appErr)
	assert.Equal(t, entity.ResponseAccepted, responded.ResponseStatus)
	assert.NotNil(t, responded.RespondedAt)
}

func TestAddRelationUnknownKind(t *testing.T) {
	f := newEventServiceFixture(t)

	event, appErr := f.service.Create(context.Background(), f.validCreateRequest(), f.creatorID)
	require.Nil(t, appErr)

	_, appErr = f.service.AddRelation(context.Background(), event.ID, &dto.CreateEventRelationRequest{
		TargetKind:  coreRelation.Kind("asset"),
		TargetID:    uuid.New(),
		Distinction: entity.DistinctionResource,
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

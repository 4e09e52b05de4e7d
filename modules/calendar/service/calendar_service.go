package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"opscal/core/errors"
	"opscal/core/logger"
	coreRelation "opscal/core/relation"
	"opscal/modules/calendar/dto"
	"opscal/modules/calendar/entity"
	"opscal/modules/calendar/repository"
	eventEntity "opscal/modules/event/entity"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// EventSource exposes the event queries the calendar surfaces need. The
// event repository satisfies it; the indirection keeps this package free
// of the event module's wiring.
type EventSource interface {
	ListByCalendarInRange(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]eventEntity.Event, error)
	ListUpcoming(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]eventEntity.Event, error)
}

// OccurrenceSource expands recurring events for calendar-wide views.
type OccurrenceSource interface {
	CalendarOccurrencesInRange(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]eventEntity.Occurrence, *errors.AppError)
}

type CalendarServiceInterface interface {
	Create(ctx context.Context, req *dto.CreateCalendarRequest, ownerID uuid.UUID) (*entity.Calendar, *errors.AppError)
	Get(ctx context.Context, id uuid.UUID) (*entity.Calendar, *errors.AppError)
	GetBySlug(ctx context.Context, calendarSlug string) (*entity.Calendar, *errors.AppError)
	List(ctx context.Context) ([]entity.Calendar, *errors.AppError)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateCalendarRequest) (*entity.Calendar, *errors.AppError)
	Delete(ctx context.Context, id uuid.UUID) *errors.AppError

	CreateRelation(ctx context.Context, calendarID uuid.UUID, req *dto.CreateRelationRequest) (*entity.CalendarRelation, *errors.AppError)
	ListRelations(ctx context.Context, calendarID uuid.UUID) ([]entity.CalendarRelation, *errors.AppError)

	GetCalendarForObject(ctx context.Context, kind coreRelation.Kind, targetID uuid.UUID, distinction string) (*entity.Calendar, *errors.AppError)
	GetOrCreateCalendarForObject(ctx context.Context, req *dto.GetOrCreateForObjectRequest, ownerID uuid.UUID) (*entity.Calendar, *errors.AppError)

	EventsForDateRange(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]eventEntity.Event, *errors.AppError)
	UpcomingEvents(ctx context.Context, calendarID uuid.UUID, now time.Time, horizon time.Duration) ([]eventEntity.Event, *errors.AppError)
	OccurrencesForDateRange(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]eventEntity.Occurrence, *errors.AppError)

	ICalFeed(ctx context.Context, calendarID uuid.UUID, now time.Time) (string, *errors.AppError)
	ExportXLSX(ctx context.Context, calendarID uuid.UUID, from, to time.Time) (*bytes.Buffer, string, *errors.AppError)
}

type calendarService struct {
	repo        repository.CalendarRepository
	events      EventSource
	occurrences OccurrenceSource
	registry    *coreRelation.Registry
}

func NewCalendarService(
	repo repository.CalendarRepository,
	events EventSource,
	occurrences OccurrenceSource,
	registry *coreRelation.Registry,
) CalendarServiceInterface {
	return &calendarService{repo: repo, events: events, occurrences: occurrences, registry: registry}
}

// uniqueSlug derives a URL slug from the name and suffixes it until no
// other calendar claims it.
func (s *calendarService) uniqueSlug(ctx context.Context, base string) (string, error) {
	candidate := slug.Make(base)
	if candidate == "" {
		candidate = "calendar"
	}
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug.Make(base), i)
	}
}

func (s *calendarService) Create(ctx context.Context, req *dto.CreateCalendarRequest, ownerID uuid.UUID) (*entity.Calendar, *errors.AppError) {
	var fields []errors.FieldError
	if req.Name == "" {
		fields = append(fields, errors.NewFieldError("name", "calendar name is required"))
	}
	calType := entity.CalendarType(req.CalendarType)
	if req.CalendarType != "" && !calType.Valid() {
		fields = append(fields, errors.NewFieldError("calendar_type", "unknown calendar type"))
	}
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields...)
	}
	if req.CalendarType == "" {
		calType = entity.CalendarTypeCustom
	}

	calendarSlug := req.Slug
	if calendarSlug == "" {
		calendarSlug = req.Name
	}
	uniquified, err := s.uniqueSlug(ctx, calendarSlug)
	if err != nil {
		logger.Error("CalendarService:Create:Slug", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create calendar", nil)
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	autoAccept := true
	if req.AutoAcceptEvents != nil {
		autoAccept = *req.AutoAcceptEvents
	}

	cal := &entity.Calendar{
		Name:                 req.Name,
		Slug:                 uniquified,
		Description:          req.Description,
		CalendarType:         calType,
		Color:                req.Color,
		IsPublic:             req.IsPublic,
		IsActive:             true,
		OwnerID:              ownerID,
		Timezone:             timezone,
		DefaultEventDuration: req.DefaultEventDuration,
		RequiresApproval:     req.RequiresApproval,
		AutoAcceptEvents:     autoAccept,
	}
	if _, err := s.repo.Create(ctx, cal); err != nil {
		logger.Error("CalendarService:Create:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create calendar", nil)
	}
	logger.Info("CalendarService:Create:Success", "calendar_id", cal.ID, "slug", cal.Slug)
	return cal, nil
}

func (s *calendarService) Get(ctx context.Context, id uuid.UUID) (*entity.Calendar, *errors.AppError) {
	cal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "calendar not found", nil)
		}
		logger.Error("CalendarService:Get:Error", "error", err, "calendar_id", id)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load calendar", nil)
	}
	return cal, nil
}

func (s *calendarService) GetBySlug(ctx context.Context, calendarSlug string) (*entity.Calendar, *errors.AppError) {
	cal, err := s.repo.GetBySlug(ctx, calendarSlug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "calendar not found", nil)
		}
		logger.Error("CalendarService:GetBySlug:Error", "error", err, "slug", calendarSlug)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load calendar", nil)
	}
	return cal, nil
}

func (s *calendarService) List(ctx context.Context) ([]entity.Calendar, *errors.AppError) {
	cals, err := s.repo.List(ctx)
	if err != nil {
		logger.Error("CalendarService:List:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list calendars", nil)
	}
	return cals, nil
}

func (s *calendarService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateCalendarRequest) (*entity.Calendar, *errors.AppError) {
	cal, appErr := s.Get(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	if req.Name != nil {
		cal.Name = *req.Name
	}
	if req.Description != nil {
		cal.Description = *req.Description
	}
	if req.CalendarType != nil {
		calType := entity.CalendarType(*req.CalendarType)
		if !calType.Valid() {
			return nil, errors.NewValidationError(errors.NewFieldError("calendar_type", "unknown calendar type"))
		}
		cal.CalendarType = calType
	}
	if req.Color != nil {
		cal.Color = *req.Color
	}
	if req.IsPublic != nil {
		cal.IsPublic = *req.IsPublic
	}
	if req.IsActive != nil {
		cal.IsActive = *req.IsActive
	}
	if req.Timezone != nil {
		cal.Timezone = *req.Timezone
	}
	if req.DefaultEventDuration != nil {
		cal.DefaultEventDuration = *req.DefaultEventDuration
	}
	if req.RequiresApproval != nil {
		cal.RequiresApproval = *req.RequiresApproval
	}
	if req.AutoAcceptEvents != nil {
		cal.AutoAcceptEvents = *req.AutoAcceptEvents
	}

	if err := s.repo.Update(ctx, cal); err != nil {
		logger.Error("CalendarService:Update:Error", "error", err, "calendar_id", id)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update calendar", nil)
	}
	logger.Info("CalendarService:Update:Success", "calendar_id", id)
	return cal, nil
}

// Delete removes the calendar; its events and their occurrences cascade.
func (s *calendarService) Delete(ctx context.Context, id uuid.UUID) *errors.AppError {
	if _, appErr := s.Get(ctx, id); appErr != nil {
		return appErr
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		logger.Error("CalendarService:Delete:Error", "error", err, "calendar_id", id)
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete calendar", nil)
	}
	logger.Warn("CalendarService:Delete:Success", "calendar_id", id)
	return nil
}

func (s *calendarService) CreateRelation(ctx context.Context, calendarID uuid.UUID, req *dto.CreateRelationRequest) (*entity.CalendarRelation, *errors.AppError) {
	if _, appErr := s.Get(ctx, calendarID); appErr != nil {
		return nil, appErr
	}
	level := entity.PermissionLevel(req.PermissionLevel)
	if req.PermissionLevel == "" {
		level = entity.PermissionView
	}
	if !level.Valid() {
		return nil, errors.NewValidationError(errors.NewFieldError("permission_level", "unknown permission level"))
	}
	if _, appErr := s.registry.Resolve(ctx, req.TargetKind, req.TargetID); appErr != nil {
		return nil, appErr
	}

	inheritable := true
	if req.Inheritable != nil {
		inheritable = *req.Inheritable
	}
	rel := &entity.CalendarRelation{
		CalendarID:      calendarID,
		TargetKind:      req.TargetKind,
		TargetID:        req.TargetID,
		Distinction:     req.Distinction,
		PermissionLevel: level,
		Inheritable:     inheritable,
		NotifyOnChanges: req.NotifyOnChanges,
	}
	if _, err := s.repo.CreateRelation(ctx, rel); err != nil {
		logger.Error("CalendarService:CreateRelation:Error", "error", err, "calendar_id", calendarID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create relation", nil)
	}
	logger.Info("CalendarService:CreateRelation:Success", "calendar_id", calendarID, "relation_id", rel.ID)
	return rel, nil
}

func (s *calendarService) ListRelations(ctx context.Context, calendarID uuid.UUID) ([]entity.CalendarRelation, *errors.AppError) {
	if _, appErr := s.Get(ctx, calendarID); appErr != nil {
		return nil, appErr
	}
	rels, err := s.repo.ListRelations(ctx, calendarID)
	if err != nil {
		logger.Error("CalendarService:ListRelations:Error", "error", err, "calendar_id", calendarID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list relations", nil)
	}
	return rels, nil
}

// GetCalendarForObject looks up the calendar tied to a domain object. Zero
// matches is a not-found; more than one means the relation data is corrupt
// and the lookup aborts rather than guessing.
func (s *calendarService) GetCalendarForObject(ctx context.Context, kind coreRelation.Kind, targetID uuid.UUID, distinction string) (*entity.Calendar, *errors.AppError) {
	cals, err := s.repo.GetCalendarsForTarget(ctx, kind, targetID, distinction)
	if err != nil {
		logger.Error("CalendarService:GetCalendarForObject:Error", "error", err, "kind", kind, "target_id", targetID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up calendar", nil)
	}
	switch len(cals) {
	case 0:
		return nil, errors.NewAppError(errors.ErrNotFound, "no calendar exists for this object", nil)
	case 1:
		return &cals[0], nil
	default:
		logger.Error("CalendarService:GetCalendarForObject:Ambiguous",
			"kind", kind, "target_id", targetID, "distinction", distinction, "count", len(cals))
		return nil, errors.NewAppError(errors.ErrDataIntegrity,
			fmt.Sprintf("%d calendars found for this object, expected exactly one", len(cals)), nil)
	}
}

// GetOrCreateCalendarForObject is idempotent: repeated calls with the same
// (kind, id, distinction) return the calendar created by the first call.
func (s *calendarService) GetOrCreateCalendarForObject(ctx context.Context, req *dto.GetOrCreateForObjectRequest, ownerID uuid.UUID) (*entity.Calendar, *errors.AppError) {
	target, appErr := s.registry.Resolve(ctx, req.TargetKind, req.TargetID)
	if appErr != nil {
		return nil, appErr
	}

	cal, appErr := s.GetCalendarForObject(ctx, req.TargetKind, req.TargetID, req.Distinction)
	if appErr == nil {
		return cal, nil
	}
	if appErr.Code != errors.ErrNotFound {
		return nil, appErr
	}

	name := req.Name
	if name == "" {
		name = target.Label
	}
	cal, appErr = s.Create(ctx, &dto.CreateCalendarRequest{Name: name}, ownerID)
	if appErr != nil {
		return nil, appErr
	}

	rel := &entity.CalendarRelation{
		CalendarID:      cal.ID,
		TargetKind:      req.TargetKind,
		TargetID:        req.TargetID,
		Distinction:     req.Distinction,
		PermissionLevel: entity.PermissionView,
		Inheritable:     true,
	}
	if _, err := s.repo.CreateRelation(ctx, rel); err != nil {
		logger.Error("CalendarService:GetOrCreateCalendarForObject:Relation", "error", err, "calendar_id", cal.ID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to link calendar to object", nil)
	}
	logger.Info("CalendarService:GetOrCreateCalendarForObject:Created",
		"calendar_id", cal.ID, "kind", req.TargetKind, "target_id", req.TargetID)
	return cal, nil
}

func (s *calendarService) EventsForDateRange(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]eventEntity.Event, *errors.AppError) {
	if !to.After(from) {
		return nil, errors.NewValidationError(errors.NewFieldError("to", "to must be after from"))
	}
	if _, appErr := s.Get(ctx, calendarID); appErr != nil {
		return nil, appErr
	}
	events, err := s.events.ListByCalendarInRange(ctx, calendarID, from, to)
	if err != nil {
		logger.Error("CalendarService:EventsForDateRange:Error", "error", err, "calendar_id", calendarID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load events", nil)
	}
	return events, nil
}

func (s *calendarService) UpcomingEvents(ctx context.Context, calendarID uuid.UUID, now time.Time, horizon time.Duration) ([]eventEntity.Event, *errors.AppError) {
	if _, appErr := s.Get(ctx, calendarID); appErr != nil {
		return nil, appErr
	}
	events, err := s.events.ListUpcoming(ctx, calendarID, now, now.Add(horizon))
	if err != nil {
		logger.Error("CalendarService:UpcomingEvents:Error", "error", err, "calendar_id", calendarID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load events", nil)
	}
	return events, nil
}

func (s *calendarService) OccurrencesForDateRange(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]eventEntity.Occurrence, *errors.AppError) {
	if _, appErr := s.Get(ctx, calendarID); appErr != nil {
		return nil, appErr
	}
	return s.occurrences.CalendarOccurrencesInRange(ctx, calendarID, from, to)
}

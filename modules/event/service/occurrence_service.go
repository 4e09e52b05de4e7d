package service

import (
	"context"
	"database/sql"
	"time"

	"opscal/core/errors"
	"opscal/core/logger"
	"opscal/modules/event/entity"
	"opscal/modules/event/repository"
	ruleEntity "opscal/modules/rule/entity"
	ruleRepo "opscal/modules/rule/repository"

	"github.com/google/uuid"
)

type OccurrenceServiceInterface interface {
	OccurrencesInRange(ctx context.Context, eventID uuid.UUID, from, to time.Time, includeCancelled bool) ([]entity.Occurrence, *errors.AppError)
	CalendarOccurrencesInRange(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]entity.Occurrence, *errors.AppError)
	Move(ctx context.Context, eventID uuid.UUID, originalStart time.Time, newStart, newEnd time.Time, notes string) (*entity.Occurrence, *errors.AppError)
	Cancel(ctx context.Context, eventID uuid.UUID, originalStart time.Time, notes string) (*entity.Occurrence, *errors.AppError)
	Uncancel(ctx context.Context, eventID uuid.UUID, originalStart time.Time) (*entity.Occurrence, *errors.AppError)
}

type occurrenceService struct {
	events      repository.EventRepository
	occurrences repository.OccurrenceRepository
	rules       ruleRepo.RuleRepository
}

func NewOccurrenceService(
	events repository.EventRepository,
	occurrences repository.OccurrenceRepository,
	rules ruleRepo.RuleRepository,
) OccurrenceServiceInterface {
	return &occurrenceService{events: events, occurrences: occurrences, rules: rules}
}

func (s *occurrenceService) loadEventAndRule(ctx context.Context, eventID uuid.UUID) (*entity.Event, *ruleEntity.Rule, *errors.AppError) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
		}
		logger.Error("OccurrenceService:loadEventAndRule:Event", "error", err, "event_id", eventID)
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event", nil)
	}

	var rule *ruleEntity.Rule
	if event.RuleID != nil {
		rule, err = s.rules.GetByID(ctx, *event.RuleID)
		if err != nil {
			logger.Error("OccurrenceService:loadEventAndRule:Rule", "error", err, "rule_id", *event.RuleID)
			return nil, nil, errors.NewAppError(errors.ErrInternalServer, "failed to load recurrence rule", nil)
		}
	}
	return event, rule, nil
}

// OccurrencesInRange expands an event over [from, to). Cancelled instances
// are excluded from active views and kept when the caller asks for history.
func (s *occurrenceService) OccurrencesInRange(ctx context.Context, eventID uuid.UUID, from, to time.Time, includeCancelled bool) ([]entity.Occurrence, *errors.AppError) {
	if !to.After(from) {
		return nil, errors.NewValidationError(errors.NewFieldError("to", "to must be after from"))
	}

	event, rule, appErr := s.loadEventAndRule(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}

	persisted, err := s.occurrences.ListForEvent(ctx, eventID)
	if err != nil {
		logger.Error("OccurrenceService:OccurrencesInRange:List", "error", err, "event_id", eventID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load occurrences", nil)
	}

	occs, err := expandOccurrences(event, rule, persisted, from, to)
	if err != nil {
		logger.Error("OccurrenceService:OccurrencesInRange:Expand", "error", err, "event_id", eventID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to expand occurrences", nil)
	}
	if !includeCancelled {
		occs = activeOnly(occs)
	}
	return occs, nil
}

// CalendarOccurrencesInRange expands every event on a calendar and merges
// the results in start order. Cancelled instances are always excluded.
func (s *occurrenceService) CalendarOccurrencesInRange(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]entity.Occurrence, *errors.AppError) {
	if !to.After(from) {
		return nil, errors.NewValidationError(errors.NewFieldError("to", "to must be after from"))
	}

	events, err := s.events.ListByCalendar(ctx, calendarID)
	if err != nil {
		logger.Error("OccurrenceService:CalendarOccurrencesInRange:Events", "error", err, "calendar_id", calendarID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load events", nil)
	}

	var all []entity.Occurrence
	for i := range events {
		occs, appErr := s.OccurrencesInRange(ctx, events[i].ID, from, to, false)
		if appErr != nil {
			return nil, appErr
		}
		all = append(all, occs...)
	}
	sortOccurrences(all)
	return all, nil
}

// materialize returns the persisted row for a generated slot, creating one
// on first edit. Original bounds are frozen at creation and never change
// afterwards, whatever later edits do to the effective bounds.
func (s *occurrenceService) materialize(ctx context.Context, eventID uuid.UUID, originalStart time.Time) (*entity.Occurrence, *errors.AppError) {
	existing, err := s.occurrences.GetByEventAndOriginalStart(ctx, eventID, originalStart)
	if err != nil {
		logger.Error("OccurrenceService:materialize:Lookup", "error", err, "event_id", eventID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load occurrence", nil)
	}
	if existing != nil {
		return existing, nil
	}

	event, rule, appErr := s.loadEventAndRule(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}

	// The slot must be one the rule actually generates; probe a window
	// exactly covering it.
	slots, err := candidateSlots(event, rule, originalStart, originalStart.Add(time.Nanosecond))
	if err != nil {
		logger.Error("OccurrenceService:materialize:Expand", "error", err, "event_id", eventID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to expand occurrences", nil)
	}
	for _, slot := range slots {
		if slot.OriginalStart.Equal(originalStart) {
			created, err := s.occurrences.Create(ctx, &slot)
			if err != nil {
				logger.Error("OccurrenceService:materialize:Create", "error", err, "event_id", eventID)
				return nil, errors.NewAppError(errors.ErrInternalServer, "failed to store occurrence", nil)
			}
			return created, nil
		}
	}
	return nil, errors.NewAppError(errors.ErrNotFound, "no occurrence at the given original start", nil)
}

func (s *occurrenceService) Move(ctx context.Context, eventID uuid.UUID, originalStart time.Time, newStart, newEnd time.Time, notes string) (*entity.Occurrence, *errors.AppError) {
	if !newEnd.After(newStart) {
		return nil, errors.NewValidationError(errors.NewFieldError("end", "end must be after start"))
	}

	occ, appErr := s.materialize(ctx, eventID, originalStart)
	if appErr != nil {
		return nil, appErr
	}

	occ.Start = newStart
	occ.End = newEnd
	if notes != "" {
		occ.Notes = notes
	}
	if err := s.occurrences.Update(ctx, occ); err != nil {
		logger.Error("OccurrenceService:Move:Error", "error", err, "occurrence_id", occ.ID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to move occurrence", nil)
	}
	logger.Info("OccurrenceService:Move:Success", "event_id", eventID, "occurrence_id", occ.ID)
	return occ, nil
}

func (s *occurrenceService) Cancel(ctx context.Context, eventID uuid.UUID, originalStart time.Time, notes string) (*entity.Occurrence, *errors.AppError) {
	occ, appErr := s.materialize(ctx, eventID, originalStart)
	if appErr != nil {
		return nil, appErr
	}

	occ.Cancelled = true
	if notes != "" {
		occ.Notes = notes
	}
	if err := s.occurrences.Update(ctx, occ); err != nil {
		logger.Error("OccurrenceService:Cancel:Error", "error", err, "occurrence_id", occ.ID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to cancel occurrence", nil)
	}
	logger.Info("OccurrenceService:Cancel:Success", "event_id", eventID, "occurrence_id", occ.ID)
	return occ, nil
}

func (s *occurrenceService) Uncancel(ctx context.Context, eventID uuid.UUID, originalStart time.Time) (*entity.Occurrence, *errors.AppError) {
	occ, appErr := s.materialize(ctx, eventID, originalStart)
	if appErr != nil {
		return nil, appErr
	}

	occ.Cancelled = false
	if err := s.occurrences.Update(ctx, occ); err != nil {
		logger.Error("OccurrenceService:Uncancel:Error", "error", err, "occurrence_id", occ.ID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to restore occurrence", nil)
	}
	logger.Info("OccurrenceService:Uncancel:Success", "event_id", eventID, "occurrence_id", occ.ID)
	return occ, nil
}

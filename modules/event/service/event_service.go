package service

import (
	"context"
	"database/sql"
	"time"

	"opscal/core/constants"
	"opscal/core/errors"
	"opscal/core/logger"
	coreRelation "opscal/core/relation"
	calendarRepo "opscal/modules/calendar/repository"
	"opscal/modules/event/dto"
	"opscal/modules/event/entity"
	"opscal/modules/event/repository"
	ruleRepo "opscal/modules/rule/repository"

	"github.com/google/uuid"
)

// ReminderScheduler decouples event persistence from the delayed-task
// backend that delivers reminders.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, event *entity.Event) error
}

type EventServiceInterface interface {
	Create(ctx context.Context, req *dto.CreateEventRequest, creatorID uuid.UUID) (*entity.Event, *errors.AppError)
	Get(ctx context.Context, id uuid.UUID) (*entity.Event, *errors.AppError)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateEventRequest, userID uuid.UUID, isStaff bool) (*entity.Event, *errors.AppError)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID, isStaff bool) *errors.AppError
	TransitionStatus(ctx context.Context, id uuid.UUID, req *dto.TransitionStatusRequest, userID uuid.UUID, isStaff bool) (*entity.Event, *errors.AppError)

	AddRelation(ctx context.Context, eventID uuid.UUID, req *dto.CreateEventRelationRequest) (*entity.EventRelation, *errors.AppError)
	ListRelations(ctx context.Context, eventID uuid.UUID) ([]entity.EventRelation, *errors.AppError)
	Respond(ctx context.Context, relationID uuid.UUID, response entity.ResponseStatus) (*entity.EventRelation, *errors.AppError)
	RemoveRelation(ctx context.Context, relationID uuid.UUID) *errors.AppError
}

type eventService struct {
	repo      repository.EventRepository
	relations repository.RelationRepository
	rules     ruleRepo.RuleRepository
	calendars calendarRepo.CalendarRepository
	registry  *coreRelation.Registry
	reminders ReminderScheduler
}

func NewEventService(
	repo repository.EventRepository,
	relations repository.RelationRepository,
	rules ruleRepo.RuleRepository,
	calendars calendarRepo.CalendarRepository,
	registry *coreRelation.Registry,
	reminders ReminderScheduler,
) EventServiceInterface {
	return &eventService{
		repo:      repo,
		relations: relations,
		rules:     rules,
		calendars: calendars,
		registry:  registry,
		reminders: reminders,
	}
}

// validate applies the invariants every stored event must satisfy. All
// violations are collected so the caller sees them in one response.
func (s *eventService) validate(ctx context.Context, event *entity.Event) *errors.AppError {
	var fields []errors.FieldError

	if event.Title == "" {
		fields = append(fields, errors.NewFieldError("title", "title is required"))
	}
	if !event.EventType.Valid() {
		fields = append(fields, errors.NewFieldError("event_type", "unknown event type"))
	}
	if !event.Status.Valid() {
		fields = append(fields, errors.NewFieldError("status", "unknown status"))
	}
	if !event.Priority.Valid() {
		fields = append(fields, errors.NewFieldError("priority", "unknown priority"))
	}
	if !event.Privacy.Valid() {
		fields = append(fields, errors.NewFieldError("privacy", "unknown privacy level"))
	}

	if !event.End.After(event.Start) {
		fields = append(fields, errors.NewFieldError("end", "end must be after start"))
	}

	if event.AllDay && !atMidnight(event.Start) {
		fields = append(fields, errors.NewFieldError("start", "all-day events must start at midnight"))
	}

	if event.RequiredWorkers < 0 {
		fields = append(fields, errors.NewFieldError("required_workers", "required_workers must not be negative"))
	}
	if event.RequiredWorkers > 0 && len(event.WorkerIDs) > event.RequiredWorkers*constants.WorkerOvercommitFactor {
		fields = append(fields, errors.NewFieldError("worker_ids", "assigned workers exceed twice the required count"))
	}

	if event.RuleID != nil {
		if _, err := s.rules.GetByID(ctx, *event.RuleID); err != nil {
			if err == sql.ErrNoRows {
				fields = append(fields, errors.NewFieldError("rule_id", "referenced rule does not exist"))
			} else {
				logger.Error("EventService:Validate:RuleLookup", "error", err, "rule_id", *event.RuleID)
				return errors.NewAppError(errors.ErrInternalServer, "failed to validate event", nil)
			}
		}
	}
	if event.EndRecurringPeriod != nil && event.RuleID != nil && !event.EndRecurringPeriod.After(event.Start) {
		fields = append(fields, errors.NewFieldError("end_recurring_period", "end_recurring_period must be after start"))
	}

	if len(fields) > 0 {
		return errors.NewValidationError(fields...)
	}
	return nil
}

func atMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest, creatorID uuid.UUID) (*entity.Event, *errors.AppError) {
	if _, err := s.calendars.GetByID(ctx, req.CalendarID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "calendar not found", nil)
		}
		logger.Error("EventService:Create:CalendarLookup", "error", err, "calendar_id", req.CalendarID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create event", nil)
	}

	event := &entity.Event{
		Title:              req.Title,
		Description:        req.Description,
		EventType:          req.EventType,
		ProjectID:          req.ProjectID,
		Location:           req.Location,
		Start:              req.Start,
		End:                req.End,
		AllDay:             req.AllDay,
		LeadID:             req.LeadID,
		WorkerIDs:          req.WorkerIDs,
		RequiredWorkers:    req.RequiredWorkers,
		Status:             req.Status,
		Priority:           req.Priority,
		Privacy:            req.Privacy,
		RuleID:             req.RuleID,
		EndRecurringPeriod: req.EndRecurringPeriod,
		CalendarID:         req.CalendarID,
		ColorEvent:         req.ColorEvent,
		EstimatedCost:      req.EstimatedCost,
		ActualCost:         req.ActualCost,
		ReminderMinutes:    req.ReminderMinutes,
		SendInvitations:    req.SendInvitations,
		CreatorID:          &creatorID,
	}
	if event.Status == "" {
		event.Status = entity.StatusDraft
	}
	if event.Priority == "" {
		event.Priority = entity.PriorityNormal
	}
	if event.Privacy == "" {
		event.Privacy = entity.PrivacyPublic
	}
	if event.End.IsZero() && !event.Start.IsZero() {
		event.End = event.Start.Add(constants.DefaultEventDuration)
	}

	if appErr := s.validate(ctx, event); appErr != nil {
		return nil, appErr
	}
	syncCompletedAt(event)

	if _, err := s.repo.Create(ctx, event); err != nil {
		logger.Error("EventService:Create:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create event", nil)
	}

	s.scheduleReminder(ctx, event)

	logger.Info("EventService:Create:Success", "event_id", event.ID, "calendar_id", event.CalendarID)
	return event, nil
}

func (s *eventService) Get(ctx context.Context, id uuid.UUID) (*entity.Event, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
		}
		logger.Error("EventService:Get:Error", "error", err, "event_id", id)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event", nil)
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateEventRequest, userID uuid.UUID, isStaff bool) (*entity.Event, *errors.AppError) {
	event, appErr := s.Get(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if appErr := s.requireEdit(ctx, event, userID, isStaff); appErr != nil {
		return nil, appErr
	}

	applyUpdate(event, req)

	if appErr := s.validate(ctx, event); appErr != nil {
		return nil, appErr
	}

	if err := s.repo.Update(ctx, event); err != nil {
		logger.Error("EventService:Update:Error", "error", err, "event_id", id)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update event", nil)
	}

	s.scheduleReminder(ctx, event)

	logger.Info("EventService:Update:Success", "event_id", id)
	return event, nil
}

func applyUpdate(event *entity.Event, req *dto.UpdateEventRequest) {
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.EventType != nil {
		event.EventType = *req.EventType
	}
	if req.ProjectID != nil {
		event.ProjectID = req.ProjectID
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Start != nil {
		event.Start = *req.Start
	}
	if req.End != nil {
		event.End = *req.End
	}
	if req.AllDay != nil {
		event.AllDay = *req.AllDay
	}
	if req.LeadID != nil {
		event.LeadID = req.LeadID
	}
	if req.WorkerIDs != nil {
		event.WorkerIDs = req.WorkerIDs
	}
	if req.RequiredWorkers != nil {
		event.RequiredWorkers = *req.RequiredWorkers
	}
	if req.Priority != nil {
		event.Priority = *req.Priority
	}
	if req.Privacy != nil {
		event.Privacy = *req.Privacy
	}
	if req.RuleID != nil {
		event.RuleID = req.RuleID
	}
	if req.EndRecurringPeriod != nil {
		event.EndRecurringPeriod = req.EndRecurringPeriod
	}
	if req.ColorEvent != nil {
		event.ColorEvent = *req.ColorEvent
	}
	if req.EstimatedCost != nil {
		event.EstimatedCost = req.EstimatedCost
	}
	if req.ActualCost != nil {
		event.ActualCost = req.ActualCost
	}
	if req.ReminderMinutes != nil {
		event.ReminderMinutes = req.ReminderMinutes
	}
	if req.CompletionNotes != nil {
		event.CompletionNotes = *req.CompletionNotes
	}
}

// syncCompletedAt keeps completed_at consistent with the status: entering
// completed stamps it if unset, any other status clears it.
func syncCompletedAt(event *entity.Event) {
	if event.Status == entity.StatusCompleted {
		if event.CompletedAt == nil {
			now := time.Now().UTC()
			event.CompletedAt = &now
		}
	} else {
		event.CompletedAt = nil
	}
}

// TransitionStatus reassigns the event's status. Any valid status may be
// assigned from any other; the only lifecycle rule is the completed_at
// side effect.
func (s *eventService) TransitionStatus(ctx context.Context, id uuid.UUID, req *dto.TransitionStatusRequest, userID uuid.UUID, isStaff bool) (*entity.Event, *errors.AppError) {
	event, appErr := s.Get(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if appErr := s.requireEdit(ctx, event, userID, isStaff); appErr != nil {
		return nil, appErr
	}
	if !req.Status.Valid() {
		return nil, errors.NewValidationError(errors.NewFieldError("status", "unknown status"))
	}

	event.Status = req.Status
	syncCompletedAt(event)
	if req.Status == entity.StatusCompleted && req.CompletionNotes != "" {
		event.CompletionNotes = req.CompletionNotes
	}

	if err := s.repo.Update(ctx, event); err != nil {
		logger.Error("EventService:TransitionStatus:Error", "error", err, "event_id", id)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update event", nil)
	}

	logger.Info("EventService:TransitionStatus:Success", "event_id", id, "status", event.Status)
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID, isStaff bool) *errors.AppError {
	event, appErr := s.Get(ctx, id)
	if appErr != nil {
		return appErr
	}
	if appErr := s.requireEdit(ctx, event, userID, isStaff); appErr != nil {
		return appErr
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		logger.Error("EventService:Delete:Error", "error", err, "event_id", id)
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete event", nil)
	}
	logger.Info("EventService:Delete:Success", "event_id", id)
	return nil
}

// requireEdit grants edit to staff, the creator, the lead, and any user
// holding an edit-capable relation on the event's calendar.
func (s *eventService) requireEdit(ctx context.Context, event *entity.Event, userID uuid.UUID, isStaff bool) *errors.AppError {
	if isStaff {
		return nil
	}
	if event.CreatorID != nil && *event.CreatorID == userID {
		return nil
	}
	if event.LeadID != nil && *event.LeadID == userID {
		return nil
	}
	rel, err := s.calendars.FindEditRelation(ctx, event.CalendarID, coreRelation.KindUser, userID)
	if err != nil {
		logger.Error("EventService:requireEdit:Error", "error", err, "event_id", event.ID)
		return errors.NewAppError(errors.ErrInternalServer, "failed to check permissions", nil)
	}
	if rel == nil {
		return errors.NewAppError(errors.ErrForbidden, "you do not have permission to edit this event", nil)
	}
	return nil
}

func (s *eventService) scheduleReminder(ctx context.Context, event *entity.Event) {
	if s.reminders == nil || event.ReminderMinutes == nil {
		return
	}
	if err := s.reminders.ScheduleReminder(ctx, event); err != nil {
		// Reminder failures never fail the write.
		logger.Warn("EventService:scheduleReminder:Error", "error", err, "event_id", event.ID)
	}
}

func (s *eventService) AddRelation(ctx context.Context, eventID uuid.UUID, req *dto.CreateEventRelationRequest) (*entity.EventRelation, *errors.AppError) {
	if _, appErr := s.Get(ctx, eventID); appErr != nil {
		return nil, appErr
	}
	if !req.Distinction.Valid() {
		return nil, errors.NewValidationError(errors.NewFieldError("distinction", "unknown distinction"))
	}
	if _, appErr := s.registry.Resolve(ctx, req.TargetKind, req.TargetID); appErr != nil {
		return nil, appErr
	}

	existing, err := s.relations.Find(ctx, eventID, req.TargetKind, req.TargetID, req.Distinction)
	if err != nil {
		logger.Error("EventService:AddRelation:Find", "error", err, "event_id", eventID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create relation", nil)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "relation already exists", nil)
	}

	rel := &entity.EventRelation{
		EventID:           eventID,
		TargetKind:        req.TargetKind,
		TargetID:          req.TargetID,
		Distinction:       req.Distinction,
		ResponseStatus:    entity.ResponsePending,
		IsRequired:        req.IsRequired,
		SendNotifications: req.SendNotifications,
	}
	if _, err := s.relations.Create(ctx, rel); err != nil {
		logger.Error("EventService:AddRelation:Error", "error", err, "event_id", eventID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create relation", nil)
	}
	logger.Info("EventService:AddRelation:Success", "event_id", eventID, "relation_id", rel.ID)
	return rel, nil
}

func (s *eventService) ListRelations(ctx context.Context, eventID uuid.UUID) ([]entity.EventRelation, *errors.AppError) {
	if _, appErr := s.Get(ctx, eventID); appErr != nil {
		return nil, appErr
	}
	rels, err := s.relations.ListForEvent(ctx, eventID)
	if err != nil {
		logger.Error("EventService:ListRelations:Error", "error", err, "event_id", eventID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list relations", nil)
	}
	return rels, nil
}

func (s *eventService) Respond(ctx context.Context, relationID uuid.UUID, response entity.ResponseStatus) (*entity.EventRelation, *errors.AppError) {
	if !response.Valid() {
		return nil, errors.NewValidationError(errors.NewFieldError("response", "unknown response status"))
	}
	if _, err := s.relations.GetByID(ctx, relationID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "relation not found", nil)
		}
		logger.Error("EventService:Respond:Error", "error", err, "relation_id", relationID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to record response", nil)
	}
	if err := s.relations.UpdateResponse(ctx, relationID, response); err != nil {
		logger.Error("EventService:Respond:Error", "error", err, "relation_id", relationID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to record response", nil)
	}
	rel, err := s.relations.GetByID(ctx, relationID)
	if err != nil {
		logger.Error("EventService:Respond:Reload", "error", err, "relation_id", relationID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to record response", nil)
	}
	logger.Info("EventService:Respond:Success", "relation_id", relationID, "response", response)
	return rel, nil
}

func (s *eventService) RemoveRelation(ctx context.Context, relationID uuid.UUID) *errors.AppError {
	if _, err := s.relations.GetByID(ctx, relationID); err != nil {
		if err == sql.ErrNoRows {
			return errors.NewAppError(errors.ErrNotFound, "relation not found", nil)
		}
		logger.Error("EventService:RemoveRelation:Error", "error", err, "relation_id", relationID)
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete relation", nil)
	}
	if err := s.relations.Delete(ctx, relationID); err != nil {
		logger.Error("EventService:RemoveRelation:Error", "error", err, "relation_id", relationID)
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete relation", nil)
	}
	logger.Info("EventService:RemoveRelation:Success", "relation_id", relationID)
	return nil
}

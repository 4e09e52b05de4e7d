package dto

import (
	"time"

	"opscal/core/relation"
	"opscal/modules/event/entity"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	EventType   entity.EventType `json:"event_type"`

	ProjectID *uuid.UUID `json:"project_id"`
	Location  string     `json:"location"`

	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	AllDay bool      `json:"all_day"`

	LeadID          *uuid.UUID  `json:"lead_id"`
	WorkerIDs       []uuid.UUID `json:"worker_ids"`
	RequiredWorkers int         `json:"required_workers"`

	Status   entity.EventStatus `json:"status"`
	Priority entity.Priority    `json:"priority"`
	Privacy  entity.Privacy     `json:"privacy"`

	RuleID             *uuid.UUID `json:"rule_id"`
	EndRecurringPeriod *time.Time `json:"end_recurring_period"`

	CalendarID uuid.UUID `json:"calendar_id"`
	ColorEvent string    `json:"color_event"`

	EstimatedCost *float64 `json:"estimated_cost"`
	ActualCost    *float64 `json:"actual_cost"`

	ReminderMinutes *int `json:"reminder_minutes"`
	SendInvitations bool `json:"send_invitations"`
}

type UpdateEventRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	EventType   *entity.EventType `json:"event_type"`

	ProjectID *uuid.UUID `json:"project_id"`
	Location  *string    `json:"location"`

	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
	AllDay *bool      `json:"all_day"`

	LeadID          *uuid.UUID  `json:"lead_id"`
	WorkerIDs       []uuid.UUID `json:"worker_ids"`
	RequiredWorkers *int        `json:"required_workers"`

	Priority *entity.Priority `json:"priority"`
	Privacy  *entity.Privacy  `json:"privacy"`

	RuleID             *uuid.UUID `json:"rule_id"`
	EndRecurringPeriod *time.Time `json:"end_recurring_period"`

	ColorEvent *string `json:"color_event"`

	EstimatedCost *float64 `json:"estimated_cost"`
	ActualCost    *float64 `json:"actual_cost"`

	ReminderMinutes *int    `json:"reminder_minutes"`
	CompletionNotes *string `json:"completion_notes"`
}

type TransitionStatusRequest struct {
	Status          entity.EventStatus `json:"status"`
	CompletionNotes string             `json:"completion_notes"`
}

type CreateEventRelationRequest struct {
	TargetKind        relation.Kind              `json:"target_kind"`
	TargetID          uuid.UUID                  `json:"target_id"`
	Distinction       entity.RelationDistinction `json:"distinction"`
	IsRequired        bool                       `json:"is_required"`
	SendNotifications bool                       `json:"send_notifications"`
}

type RespondRequest struct {
	Response entity.ResponseStatus `json:"response"`
}

type MoveOccurrenceRequest struct {
	// OriginalStart identifies the generated slot being moved.
	OriginalStart time.Time `json:"original_start"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Notes         string    `json:"notes"`
}

type CancelOccurrenceRequest struct {
	// OriginalStart identifies the generated slot being cancelled.
	OriginalStart time.Time `json:"original_start"`
	Notes         string    `json:"notes"`
}

type OccurrenceQuery struct {
	From time.Time `query:"from"`
	To   time.Time `query:"to"`
}

// OccurrenceResponse flattens an occurrence for API output with the moved
// flag precomputed.
type OccurrenceResponse struct {
	ID            *uuid.UUID `json:"id,omitempty"`
	EventID       uuid.UUID  `json:"event_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Start         time.Time  `json:"start"`
	End           time.Time  `json:"end"`
	Cancelled     bool       `json:"cancelled"`
	Moved         bool       `json:"moved"`
	Persisted     bool       `json:"persisted"`
	OriginalStart time.Time  `json:"original_start"`
	OriginalEnd   time.Time  `json:"original_end"`
	Notes         string     `json:"notes,omitempty"`
}

func NewOccurrenceResponse(occ entity.Occurrence) OccurrenceResponse {
	resp := OccurrenceResponse{
		EventID:       occ.EventID,
		Title:         occ.Title,
		Description:   occ.Description,
		Start:         occ.Start,
		End:           occ.End,
		Cancelled:     occ.Cancelled,
		Moved:         occ.Moved(),
		Persisted:     occ.Persisted(),
		OriginalStart: occ.OriginalStart,
		OriginalEnd:   occ.OriginalEnd,
		Notes:         occ.Notes,
	}
	if occ.Persisted() {
		id := occ.ID
		resp.ID = &id
	}
	return resp
}

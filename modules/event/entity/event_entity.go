package entity

import (
	"time"

	"opscal/core/entity"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeMeeting     EventType = "meeting"
	EventTypeProjectWork EventType = "project_work"
	EventTypeTraining    EventType = "training"
	EventTypeMaintenance EventType = "maintenance"
	EventTypeInspection  EventType = "inspection"
	EventTypeDelivery    EventType = "delivery"
	EventTypeTravel      EventType = "travel"
	EventTypeHoliday     EventType = "holiday"
	EventTypeSickLeave   EventType = "sick_leave"
	EventTypeVacation    EventType = "vacation"
	EventTypePersonal    EventType = "personal"
	EventTypeConference  EventType = "conference"
	EventTypeSiteVisit   EventType = "site_visit"
	EventTypeEmergency   EventType = "emergency"
	EventTypeOther       EventType = "other"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeMeeting, EventTypeProjectWork, EventTypeTraining, EventTypeMaintenance,
		EventTypeInspection, EventTypeDelivery, EventTypeTravel, EventTypeHoliday,
		EventTypeSickLeave, EventTypeVacation, EventTypePersonal, EventTypeConference,
		EventTypeSiteVisit, EventTypeEmergency, EventTypeOther:
		return true
	}
	return false
}

type EventStatus string

const (
	StatusDraft       EventStatus = "draft"
	StatusConfirmed   EventStatus = "confirmed"
	StatusTentative   EventStatus = "tentative"
	StatusCancelled   EventStatus = "cancelled"
	StatusCompleted   EventStatus = "completed"
	StatusNoShow      EventStatus = "no_show"
	StatusRescheduled EventStatus = "rescheduled"
)

func (s EventStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusTentative, StatusCancelled,
		StatusCompleted, StatusNoShow, StatusRescheduled:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Privacy string

const (
	PrivacyPublic       Privacy = "public"
	PrivacyPrivate      Privacy = "private"
	PrivacyConfidential Privacy = "confidential"
)

func (p Privacy) Valid() bool {
	switch p {
	case PrivacyPublic, PrivacyPrivate, PrivacyConfidential:
		return true
	}
	return false
}

// Event is a scheduled activity on a calendar, optionally recurring via a
// rule reference.
type Event struct {
	entity.BaseEntity
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	EventType   EventType `db:"event_type" json:"event_type"`

	ProjectID *uuid.UUID `db:"project_id" json:"project_id,omitempty"`
	Location  string     `db:"location" json:"location"`

	Start  time.Time `db:"start" json:"start"`
	End    time.Time `db:"end" json:"end"`
	AllDay bool      `db:"all_day" json:"all_day"`

	LeadID          *uuid.UUID  `db:"lead_id" json:"lead_id,omitempty"`
	WorkerIDs       []uuid.UUID `db:"-" json:"worker_ids"`
	RequiredWorkers int         `db:"required_workers" json:"required_workers"`

	Status   EventStatus `db:"status" json:"status"`
	Priority Priority    `db:"priority" json:"priority"`
	Privacy  Privacy     `db:"privacy" json:"privacy"`

	RuleID             *uuid.UUID `db:"rule_id" json:"rule_id,omitempty"`
	EndRecurringPeriod *time.Time `db:"end_recurring_period" json:"end_recurring_period,omitempty"`

	CalendarID uuid.UUID `db:"calendar_id" json:"calendar_id"`

	ColorEvent string `db:"color_event" json:"color_event"`

	EstimatedCost *float64 `db:"estimated_cost" json:"estimated_cost,omitempty"`
	ActualCost    *float64 `db:"actual_cost" json:"actual_cost,omitempty"`

	ReminderMinutes *int `db:"reminder_minutes" json:"reminder_minutes,omitempty"`
	SendInvitations bool `db:"send_invitations" json:"send_invitations"`

	CompletionNotes string     `db:"completion_notes" json:"completion_notes"`
	CompletedAt     *time.Time `db:"completed_at" json:"completed_at,omitempty"`

	CreatorID *uuid.UUID `db:"creator_id" json:"creator_id,omitempty"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

func (e *Event) IsPast(now time.Time) bool {
	return e.End.Before(now)
}

func (e *Event) IsCurrent(now time.Time) bool {
	return !now.Before(e.Start) && !now.After(e.End)
}

// IsOverdue reports a past event never closed out.
func (e *Event) IsOverdue(now time.Time) bool {
	return e.IsPast(now) && e.Status != StatusCompleted && e.Status != StatusCancelled
}

func (e *Event) IsFullyStaffed() bool {
	return len(e.WorkerIDs) >= e.RequiredWorkers
}

// CostVariance is actual minus estimated; nil until both are recorded.
func (e *Event) CostVariance() *float64 {
	if e.EstimatedCost == nil || e.ActualCost == nil {
		return nil
	}
	v := *e.ActualCost - *e.EstimatedCost
	return &v
}

// IsRecurring requires an actual rule reference. An end_recurring_period
// without a rule does not make an event recurring; the bound is ignored for
// one-time events.
func (e *Event) IsRecurring() bool {
	return e.RuleID != nil
}

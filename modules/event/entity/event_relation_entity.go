package entity

import (
	"time"

	"opscal/core/entity"
	"opscal/core/relation"

	"github.com/google/uuid"
)

type RelationDistinction string

const (
	DistinctionAttendee    RelationDistinction = "attendee"
	DistinctionOrganizer   RelationDistinction = "organizer"
	DistinctionResource    RelationDistinction = "resource"
	DistinctionLocation    RelationDistinction = "location"
	DistinctionViewer      RelationDistinction = "viewer"
	DistinctionParticipant RelationDistinction = "participant"
	DistinctionObserver    RelationDistinction = "observer"
)

func (d RelationDistinction) Valid() bool {
	switch d {
	case DistinctionAttendee, DistinctionOrganizer, DistinctionResource, DistinctionLocation,
		DistinctionViewer, DistinctionParticipant, DistinctionObserver:
		return true
	}
	return false
}

type ResponseStatus string

const (
	ResponsePending   ResponseStatus = "pending"
	ResponseAccepted  ResponseStatus = "accepted"
	ResponseDeclined  ResponseStatus = "declined"
	ResponseTentative ResponseStatus = "tentative"
)

func (s ResponseStatus) Valid() bool {
	switch s {
	case ResponsePending, ResponseAccepted, ResponseDeclined, ResponseTentative:
		return true
	}
	return false
}

// EventRelation links an event to an arbitrary domain object with a role
// and RSVP-style response tracking. Same weak-reference semantics as
// calendar relations.
type EventRelation struct {
	entity.BaseEntity
	EventID           uuid.UUID           `db:"event_id" json:"event_id"`
	TargetKind        relation.Kind       `db:"target_kind" json:"target_kind"`
	TargetID          uuid.UUID           `db:"target_id" json:"target_id"`
	Distinction       RelationDistinction `db:"distinction" json:"distinction"`
	ResponseStatus    ResponseStatus      `db:"response_status" json:"response_status"`
	RespondedAt       *time.Time          `db:"responded_at" json:"responded_at,omitempty"`
	IsRequired        bool                `db:"is_required" json:"is_required"`
	SendNotifications bool                `db:"send_notifications" json:"send_notifications"`
}

func (EventRelation) TableName() string {
	return "event_relations"
}

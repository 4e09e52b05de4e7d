package dto

import (
	"time"

	"opscal/core/relation"
	"opscal/modules/calendar/entity"

	"github.com/google/uuid"
)

type CreateCalendarRequest struct {
	Name                 string `json:"name"`
	Slug                 string `json:"slug"`
	Description          string `json:"description"`
	CalendarType         string `json:"calendar_type"`
	Color                string `json:"color"`
	IsPublic             bool   `json:"is_public"`
	Timezone             string `json:"timezone"`
	DefaultEventDuration int    `json:"default_event_duration"`
	RequiresApproval     bool   `json:"requires_approval"`
	AutoAcceptEvents     *bool  `json:"auto_accept_events"`
}

type UpdateCalendarRequest struct {
	Name                 *string `json:"name"`
	Description          *string `json:"description"`
	CalendarType         *string `json:"calendar_type"`
	Color                *string `json:"color"`
	IsPublic             *bool   `json:"is_public"`
	IsActive             *bool   `json:"is_active"`
	Timezone             *string `json:"timezone"`
	DefaultEventDuration *int    `json:"default_event_duration"`
	RequiresApproval     *bool   `json:"requires_approval"`
	AutoAcceptEvents     *bool   `json:"auto_accept_events"`
}

type CreateRelationRequest struct {
	TargetKind      relation.Kind `json:"target_kind"`
	TargetID        uuid.UUID     `json:"target_id"`
	Distinction     string        `json:"distinction"`
	PermissionLevel string        `json:"permission_level"`
	Inheritable     *bool         `json:"inheritable"`
	NotifyOnChanges bool          `json:"notify_on_changes"`
}

type GetOrCreateForObjectRequest struct {
	TargetKind  relation.Kind `json:"target_kind"`
	TargetID    uuid.UUID     `json:"target_id"`
	Distinction string        `json:"distinction"`
	Name        string        `json:"name"`
}

type CalendarResponse struct {
	Calendar  entity.Calendar           `json:"calendar"`
	Relations []entity.CalendarRelation `json:"relations,omitempty"`
}

type ForObjectQuery struct {
	TargetKind  relation.Kind `query:"kind"`
	TargetID    uuid.UUID     `query:"target_id"`
	Distinction string        `query:"distinction"`
}

type DateRangeQuery struct {
	From time.Time `query:"from"`
	To   time.Time `query:"to"`
}

package entity

import (
	"time"

	"opscal/core/entity"
	"opscal/core/relation"

	"github.com/google/uuid"
)

type CalendarType string

const (
	CalendarTypeProject     CalendarType = "project"
	CalendarTypeWorker      CalendarType = "worker"
	CalendarTypeCompany     CalendarType = "company"
	CalendarTypeDepartment  CalendarType = "department"
	CalendarTypeMaintenance CalendarType = "maintenance"
	CalendarTypeTraining    CalendarType = "training"
	CalendarTypeHoliday     CalendarType = "holiday"
	CalendarTypeCustom      CalendarType = "custom"
)

func (t CalendarType) Valid() bool {
	switch t {
	case CalendarTypeProject, CalendarTypeWorker, CalendarTypeCompany, CalendarTypeDepartment,
		CalendarTypeMaintenance, CalendarTypeTraining, CalendarTypeHoliday, CalendarTypeCustom:
		return true
	}
	return false
}

// Calendar groups related events and owns visibility defaults. Deleting a
// calendar cascades to its events (DB-level); it never cascades to its
// owner.
type Calendar struct {
	entity.BaseEntity
	Name         string       `db:"name" json:"name"`
	Slug         string       `db:"slug" json:"slug"`
	Description  string       `db:"description" json:"description"`
	CalendarType CalendarType `db:"calendar_type" json:"calendar_type"`
	Color        string       `db:"color" json:"color"`
	IsPublic     bool         `db:"is_public" json:"is_public"`
	IsActive     bool         `db:"is_active" json:"is_active"`
	OwnerID      uuid.UUID    `db:"owner_id" json:"owner_id"`
	Timezone     string       `db:"timezone" json:"timezone"`
	// DefaultEventDuration is stored in minutes.
	DefaultEventDuration int  `db:"default_event_duration" json:"default_event_duration"`
	RequiresApproval     bool `db:"requires_approval" json:"requires_approval"`
	AutoAcceptEvents     bool `db:"auto_accept_events" json:"auto_accept_events"`
}

func (Calendar) TableName() string {
	return "calendars"
}

func (c *Calendar) DefaultDuration() time.Duration {
	if c.DefaultEventDuration <= 0 {
		return time.Hour
	}
	return time.Duration(c.DefaultEventDuration) * time.Minute
}

type PermissionLevel string

const (
	PermissionView       PermissionLevel = "view"
	PermissionContribute PermissionLevel = "contribute"
	PermissionEdit       PermissionLevel = "edit"
	PermissionManage     PermissionLevel = "manage"
	PermissionAdmin      PermissionLevel = "admin"
)

func (p PermissionLevel) Valid() bool {
	switch p {
	case PermissionView, PermissionContribute, PermissionEdit, PermissionManage, PermissionAdmin:
		return true
	}
	return false
}

// CanEditEvents reports whether the level grants event edit rights.
func (p PermissionLevel) CanEditEvents() bool {
	switch p {
	case PermissionEdit, PermissionManage, PermissionAdmin:
		return true
	}
	return false
}

// CalendarRelation is a weak link from a calendar to an arbitrary domain
// object identified by (kind, id). The relation does not own its target and
// does not block the target's deletion.
type CalendarRelation struct {
	entity.BaseEntity
	CalendarID      uuid.UUID       `db:"calendar_id" json:"calendar_id"`
	TargetKind      relation.Kind   `db:"target_kind" json:"target_kind"`
	TargetID        uuid.UUID       `db:"target_id" json:"target_id"`
	Distinction     string          `db:"distinction" json:"distinction"`
	PermissionLevel PermissionLevel `db:"permission_level" json:"permission_level"`
	Inheritable     bool            `db:"inheritable" json:"inheritable"`
	NotifyOnChanges bool            `db:"notify_on_changes" json:"notify_on_changes"`
}

func (CalendarRelation) TableName() string {
	return "calendar_relations"
}

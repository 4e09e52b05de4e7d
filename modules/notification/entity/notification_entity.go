package entity

import (
	"time"

	"opscal/core/entity"

	"github.com/google/uuid"
)

type NotificationType string

const (
	TypeEventReminder  NotificationType = "event_reminder"
	TypeEventInvite    NotificationType = "event_invite"
	TypeEventChanged   NotificationType = "event_changed"
	TypeEventCancelled NotificationType = "event_cancelled"
	TypeSystem         NotificationType = "system"
)

func (t NotificationType) Valid() bool {
	switch t {
	case TypeEventReminder, TypeEventInvite, TypeEventChanged, TypeEventCancelled, TypeSystem:
		return true
	}
	return false
}

// Notification is an in-app message delivered to one user.
type Notification struct {
	entity.BaseEntity
	UserID  uuid.UUID        `db:"user_id" json:"user_id"`
	Type    NotificationType `db:"type" json:"type"`
	Title   string           `db:"title" json:"title"`
	Message string           `db:"message" json:"message"`
	Data    entity.JSONMap   `db:"data" json:"data,omitempty"`
	IsRead  bool             `db:"is_read" json:"is_read"`
	ReadAt  *time.Time       `db:"read_at" json:"read_at,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

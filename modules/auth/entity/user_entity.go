package entity

import (
	"opscal/core/entity"

	"github.com/google/uuid"
)

// User is the account model. Mirrors the HR worker-as-user arrangement:
// staff users may create and manage schedule data, everyone else reads.
type User struct {
	entity.BaseEntity
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	FirstName        string     `db:"first_name" json:"first_name"`
	LastName         string     `db:"last_name" json:"last_name"`
	IsStaff          bool       `db:"is_staff" json:"is_staff"`
	IsActive         bool       `db:"is_active" json:"is_active"`
	BusinessConfigID *uuid.UUID `db:"business_config_id" json:"business_config_id,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserPreference holds per-user display settings. A row is created by the
// provisioning hook right after the user itself, not by any implicit
// framework signal.
type UserPreference struct {
	entity.BaseEntity
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Timezone  string    `db:"timezone" json:"timezone"`
	WeekStart string    `db:"week_start" json:"week_start"`
}

func (UserPreference) TableName() string {
	return "user_preferences"
}

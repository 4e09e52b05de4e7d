package entity

import (
	"time"

	"opscal/core/entity"

	"github.com/google/uuid"
)

// Occurrence is one concrete instance of an event. A row exists only when
// an instance was edited individually (moved, cancelled or annotated);
// range expansion synthesizes transient values of this shape, with a zero
// ID, for every untouched instance.
type Occurrence struct {
	entity.BaseEntity
	EventID     uuid.UUID `db:"event_id" json:"event_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`

	Start time.Time `db:"start" json:"start"`
	End   time.Time `db:"end" json:"end"`

	Cancelled bool `db:"cancelled" json:"cancelled"`

	// OriginalStart/OriginalEnd are frozen at first materialization; Moved
	// is derived from them, never stored.
	OriginalStart time.Time `db:"original_start" json:"original_start"`
	OriginalEnd   time.Time `db:"original_end" json:"original_end"`

	Notes          string `db:"notes" json:"notes"`
	StatusOverride string `db:"status_override" json:"status_override"`
}

func (Occurrence) TableName() string {
	return "occurrences"
}

// Moved is true whenever the effective bounds differ from the original
// bounds.
func (o *Occurrence) Moved() bool {
	return !o.Start.Equal(o.OriginalStart) || !o.End.Equal(o.OriginalEnd)
}

// Persisted reports whether this occurrence is backed by a database row.
func (o *Occurrence) Persisted() bool {
	return o.ID != uuid.Nil
}

func (o *Occurrence) Duration() time.Duration {
	return o.End.Sub(o.Start)
}

package entity

import (
	"fmt"
	"time"

	"opscal/core/entity"

	"github.com/teambition/rrule-go"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Rule is a recurrence frequency definition referenced by many events.
// Deleting a rule cascades to its dependent events (DB-level), preserving
// the destructive-by-default behavior of the system it replaces.
type Rule struct {
	entity.BaseEntity
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	Frequency   Frequency  `db:"frequency" json:"frequency"`
	Interval    int        `db:"interval" json:"interval"`
	Count       *int       `db:"count" json:"count,omitempty"`
	Until       *time.Time `db:"until" json:"until,omitempty"`
}

func (Rule) TableName() string {
	return "rules"
}

// ToROption maps the rule onto an rrule option set anchored at dtstart.
func (r *Rule) ToROption(dtstart time.Time) (rrule.ROption, error) {
	var freq rrule.Frequency
	switch r.Frequency {
	case FrequencyDaily:
		freq = rrule.DAILY
	case FrequencyWeekly:
		freq = rrule.WEEKLY
	case FrequencyMonthly:
		freq = rrule.MONTHLY
	case FrequencyYearly:
		freq = rrule.YEARLY
	default:
		return rrule.ROption{}, fmt.Errorf("unsupported frequency %q", r.Frequency)
	}

	interval := r.Interval
	if interval <= 0 {
		interval = 1
	}

	opt := rrule.ROption{
		Freq:     freq,
		Interval: interval,
		Dtstart:  dtstart,
	}
	if r.Count != nil {
		opt.Count = *r.Count
	}
	if r.Until != nil {
		opt.Until = *r.Until
	}
	return opt, nil
}

package service

import (
	"sort"
	"time"

	"opscal/core/constants"
	eventEntity "opscal/modules/event/entity"
	ruleEntity "opscal/modules/rule/entity"

	"github.com/teambition/rrule-go"
)

// expandOccurrences materializes the occurrences of an event whose effective
// start falls within [from, to). Generated slots come from the recurrence
// rule (or the event's own bounds when it has none); persisted overrides
// replace their generated slot by original_start, which also pulls in rows
// moved into the window and pushes out rows moved away from it.
func expandOccurrences(event *eventEntity.Event, rule *ruleEntity.Rule, persisted []eventEntity.Occurrence, from, to time.Time) ([]eventEntity.Occurrence, error) {
	candidates, err := candidateSlots(event, rule, from, to)
	if err != nil {
		return nil, err
	}

	overrides := make(map[int64]*eventEntity.Occurrence, len(persisted))
	for i := range persisted {
		overrides[persisted[i].OriginalStart.UnixNano()] = &persisted[i]
	}

	result := make([]eventEntity.Occurrence, 0, len(candidates))
	claimed := make(map[int64]bool, len(candidates))
	for _, c := range candidates {
		key := c.OriginalStart.UnixNano()
		claimed[key] = true
		if o := overrides[key]; o != nil {
			result = append(result, *o)
			continue
		}
		result = append(result, c)
	}

	// Overrides whose generated slot lies outside the window still belong
	// in the result when their effective start was moved into it.
	for i := range persisted {
		if !claimed[persisted[i].OriginalStart.UnixNano()] {
			result = append(result, persisted[i])
		}
	}

	inRange := result[:0]
	for _, o := range result {
		if !o.Start.Before(from) && o.Start.Before(to) {
			inRange = append(inRange, o)
		}
	}

	sortOccurrences(inRange)
	return inRange, nil
}

func sortOccurrences(occs []eventEntity.Occurrence) {
	sort.Slice(occs, func(i, j int) bool { return occs[i].Start.Before(occs[j].Start) })
}

// candidateSlots generates the untouched instances of the event with
// original starts inside [from, to).
func candidateSlots(event *eventEntity.Event, rule *ruleEntity.Rule, from, to time.Time) ([]eventEntity.Occurrence, error) {
	if !event.IsRecurring() || rule == nil {
		return []eventEntity.Occurrence{synthesize(event, event.Start, event.End)}, nil
	}

	opt, err := rule.ToROption(event.Start)
	if err != nil {
		return nil, err
	}
	if event.EndRecurringPeriod != nil {
		if opt.Until.IsZero() || event.EndRecurringPeriod.Before(opt.Until) {
			opt.Until = *event.EndRecurringPeriod
		}
	}

	rr, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, err
	}

	duration := event.Duration()
	starts := rr.Between(from, to, true)

	slots := make([]eventEntity.Occurrence, 0, len(starts))
	for _, s := range starts {
		if !s.Before(to) {
			continue
		}
		slots = append(slots, synthesize(event, s, s.Add(duration)))
		if len(slots) >= constants.MaxOccurrencesPerExpansion {
			break
		}
	}
	return slots, nil
}

// synthesize builds a transient occurrence for a generated slot. Original
// bounds equal effective bounds until an edit materializes the row.
func synthesize(event *eventEntity.Event, start, end time.Time) eventEntity.Occurrence {
	return eventEntity.Occurrence{
		EventID:       event.ID,
		Title:         event.Title,
		Description:   event.Description,
		Start:         start,
		End:           end,
		OriginalStart: start,
		OriginalEnd:   end,
	}
}

// activeOnly strips cancelled occurrences for calendar-facing views.
func activeOnly(occs []eventEntity.Occurrence) []eventEntity.Occurrence {
	active := occs[:0]
	for _, o := range occs {
		if !o.Cancelled {
			active = append(active, o)
		}
	}
	return active
}

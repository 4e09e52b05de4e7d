package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	coreRelation "opscal/core/relation"
	calendarEntity "opscal/modules/calendar/entity"
	"opscal/modules/event/entity"
	ruleEntity "opscal/modules/rule/entity"

	"github.com/google/uuid"
)

// In-memory fakes backing the service tests. They mirror the SQL
// repositories' contracts, including sql.ErrNoRows on misses.

type memEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]entity.Event
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{events: make(map[uuid.UUID]entity.Event)}
}

func (r *memEventRepo) Create(_ context.Context, event *entity.Event) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = uuid.New()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	r.events[event.ID] = *event
	return event, nil
}

func (r *memEventRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &event, nil
}

func (r *memEventRepo) Update(_ context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return sql.ErrNoRows
	}
	event.UpdatedAt = time.Now()
	r.events[event.ID] = *event
	return nil
}

func (r *memEventRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}

func (r *memEventRepo) list(calendarID uuid.UUID, keep func(entity.Event) bool) []entity.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Event
	for _, event := range r.events {
		if event.CalendarID == calendarID && keep(event) {
			out = append(out, event)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func (r *memEventRepo) ListByCalendarInRange(_ context.Context, calendarID uuid.UUID, from, to time.Time) ([]entity.Event, error) {
	return r.list(calendarID, func(e entity.Event) bool {
		return !e.Start.Before(from) && e.End.Before(to)
	}), nil
}

func (r *memEventRepo) ListUpcoming(_ context.Context, calendarID uuid.UUID, from, to time.Time) ([]entity.Event, error) {
	return r.list(calendarID, func(e entity.Event) bool {
		return !e.Start.Before(from) && e.Start.Before(to)
	}), nil
}

func (r *memEventRepo) ListByCalendar(_ context.Context, calendarID uuid.UUID) ([]entity.Event, error) {
	return r.list(calendarID, func(entity.Event) bool { return true }), nil
}

type memOccurrenceRepo struct {
	mu          sync.Mutex
	occurrences map[uuid.UUID]entity.Occurrence
}

func newMemOccurrenceRepo() *memOccurrenceRepo {
	return &memOccurrenceRepo{occurrences: make(map[uuid.UUID]entity.Occurrence)}
}

func (r *memOccurrenceRepo) Create(_ context.Context, occ *entity.Occurrence) (*entity.Occurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	occ.ID = uuid.New()
	occ.CreatedAt = time.Now()
	occ.UpdatedAt = occ.CreatedAt
	r.occurrences[occ.ID] = *occ
	return occ, nil
}

func (r *memOccurrenceRepo) Update(_ context.Context, occ *entity.Occurrence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.occurrences[occ.ID]; !ok {
		return sql.ErrNoRows
	}
	occ.UpdatedAt = time.Now()
	r.occurrences[occ.ID] = *occ
	return nil
}

func (r *memOccurrenceRepo) GetByEventAndOriginalStart(_ context.Context, eventID uuid.UUID, originalStart time.Time) (*entity.Occurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, occ := range r.occurrences {
		if occ.EventID == eventID && occ.OriginalStart.Equal(originalStart) {
			o := occ
			return &o, nil
		}
	}
	return nil, nil
}

func (r *memOccurrenceRepo) ListForEvent(_ context.Context, eventID uuid.UUID) ([]entity.Occurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Occurrence
	for _, occ := range r.occurrences {
		if occ.EventID == eventID {
			out = append(out, occ)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (r *memOccurrenceRepo) ListForEventInRange(ctx context.Context, eventID uuid.UUID, from, to time.Time) ([]entity.Occurrence, error) {
	all, _ := r.ListForEvent(ctx, eventID)
	var out []entity.Occurrence
	for _, occ := range all {
		if !occ.Start.Before(from) && occ.Start.Before(to) {
			out = append(out, occ)
		}
	}
	return out, nil
}

type memRelationRepo struct {
	mu        sync.Mutex
	relations map[uuid.UUID]entity.EventRelation
}

func newMemRelationRepo() *memRelationRepo {
	return &memRelationRepo{relations: make(map[uuid.UUID]entity.EventRelation)}
}

func (r *memRelationRepo) Create(_ context.Context, rel *entity.EventRelation) (*entity.EventRelation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rel.ID = uuid.New()
	rel.CreatedAt = time.Now()
	rel.UpdatedAt = rel.CreatedAt
	r.relations[rel.ID] = *rel
	return rel, nil
}

func (r *memRelationRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.EventRelation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rel, ok := r.relations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &rel, nil
}

func (r *memRelationRepo) Find(_ context.Context, eventID uuid.UUID, targetKind coreRelation.Kind, targetID uuid.UUID, distinction entity.RelationDistinction) (*entity.EventRelation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rel := range r.relations {
		if rel.EventID == eventID && rel.TargetKind == targetKind && rel.TargetID == targetID && rel.Distinction == distinction {
			found := rel
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memRelationRepo) ListForEvent(_ context.Context, eventID uuid.UUID) ([]entity.EventRelation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.EventRelation
	for _, rel := range r.relations {
		if rel.EventID == eventID {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memRelationRepo) UpdateResponse(_ context.Context, id uuid.UUID, response entity.ResponseStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rel, ok := r.relations[id]
	if !ok {
		return sql.ErrNoRows
	}
	now := time.Now()
	rel.ResponseStatus = response
	rel.RespondedAt = &now
	rel.UpdatedAt = now
	r.relations[id] = rel
	return nil
}

func (r *memRelationRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.relations, id)
	return nil
}

type memRuleRepo struct {
	mu    sync.Mutex
	rules map[uuid.UUID]ruleEntity.Rule
}

func newMemRuleRepo() *memRuleRepo {
	return &memRuleRepo{rules: make(map[uuid.UUID]ruleEntity.Rule)}
}

func (r *memRuleRepo) Create(_ context.Context, rule *ruleEntity.Rule) (*ruleEntity.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	r.rules[rule.ID] = *rule
	return rule, nil
}

func (r *memRuleRepo) GetByID(_ context.Context, id uuid.UUID) (*ruleEntity.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &rule, nil
}

func (r *memRuleRepo) List(_ context.Context) ([]ruleEntity.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ruleEntity.Rule
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	return out, nil
}

func (r *memRuleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rules, id)
	return nil
}

type memCalendarRepo struct {
	mu        sync.Mutex
	calendars map[uuid.UUID]calendarEntity.Calendar
	relations map[uuid.UUID]calendarEntity.CalendarRelation
}

func newMemCalendarRepo() *memCalendarRepo {
	return &memCalendarRepo{
		calendars: make(map[uuid.UUID]calendarEntity.Calendar),
		relations: make(map[uuid.UUID]calendarEntity.CalendarRelation),
	}
}

func (r *memCalendarRepo) Create(_ context.Context, cal *calendarEntity.Calendar) (*calendarEntity.Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cal.ID = uuid.New()
	cal.CreatedAt = time.Now()
	cal.UpdatedAt = cal.CreatedAt
	r.calendars[cal.ID] = *cal
	return cal, nil
}

func (r *memCalendarRepo) GetByID(_ context.Context, id uuid.UUID) (*calendarEntity.Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cal, ok := r.calendars[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &cal, nil
}

func (r *memCalendarRepo) GetBySlug(_ context.Context, slug string) (*calendarEntity.Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cal := range r.calendars {
		if cal.Slug == slug {
			found := cal
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memCalendarRepo) List(_ context.Context) ([]calendarEntity.Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []calendarEntity.Calendar
	for _, cal := range r.calendars {
		out = append(out, cal)
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].Name, out[j].Name) < 0 })
	return out, nil
}

func (r *memCalendarRepo) Update(_ context.Context, cal *calendarEntity.Calendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.calendars[cal.ID]; !ok {
		return sql.ErrNoRows
	}
	r.calendars[cal.ID] = *cal
	return nil
}

func (r *memCalendarRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.calendars, id)
	return nil
}

func (r *memCalendarRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cal := range r.calendars {
		if cal.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCalendarRepo) CreateRelation(_ context.Context, rel *calendarEntity.CalendarRelation) (*calendarEntity.CalendarRelation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rel.ID = uuid.New()
	rel.CreatedAt = time.Now()
	rel.UpdatedAt = rel.CreatedAt
	r.relations[rel.ID] = *rel
	return rel, nil
}

func (r *memCalendarRepo) ListRelations(_ context.Context, calendarID uuid.UUID) ([]calendarEntity.CalendarRelation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []calendarEntity.CalendarRelation
	for _, rel := range r.relations {
		if rel.CalendarID == calendarID {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (r *memCalendarRepo) GetCalendarsForTarget(_ context.Context, kind coreRelation.Kind, targetID uuid.UUID, distinction string) ([]calendarEntity.Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []calendarEntity.Calendar
	for _, rel := range r.relations {
		if rel.TargetKind != kind || rel.TargetID != targetID {
			continue
		}
		if distinction != "" && rel.Distinction != distinction {
			continue
		}
		if cal, ok := r.calendars[rel.CalendarID]; ok {
			out = append(out, cal)
		}
	}
	return out, nil
}

func (r *memCalendarRepo) FindEditRelation(_ context.Context, calendarID uuid.UUID, kind coreRelation.Kind, targetID uuid.UUID) (*calendarEntity.CalendarRelation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rel := range r.relations {
		if rel.CalendarID == calendarID && rel.TargetKind == kind && rel.TargetID == targetID && rel.PermissionLevel.CanEditEvents() {
			found := rel
			return &found, nil
		}
	}
	return nil, nil
}

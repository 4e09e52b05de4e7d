package repository

import (
	"context"

	"opscal/core/database"
	"opscal/core/relation"
	"opscal/modules/calendar/entity"

	"github.com/google/uuid"
)

type CalendarRepository interface {
	Create(ctx context.Context, cal *entity.Calendar) (*entity.Calendar, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Calendar, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Calendar, error)
	List(ctx context.Context) ([]entity.Calendar, error)
	Update(ctx context.Context, cal *entity.Calendar) error
	Delete(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)

	CreateRelation(ctx context.Context, rel *entity.CalendarRelation) (*entity.CalendarRelation, error)
	ListRelations(ctx context.Context, calendarID uuid.UUID) ([]entity.CalendarRelation, error)
	GetCalendarsForTarget(ctx context.Context, kind relation.Kind, targetID uuid.UUID, distinction string) ([]entity.Calendar, error)
	FindEditRelation(ctx context.Context, calendarID uuid.UUID, kind relation.Kind, targetID uuid.UUID) (*entity.CalendarRelation, error)
}

type calendarRepository struct {
	db database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) CalendarRepository {
	return &calendarRepository{db: db}
}

const calendarColumns = `id, name, slug, description, calendar_type, color, is_public, is_active,
	owner_id, timezone, default_event_duration, requires_approval, auto_accept_events,
	created_at, updated_at`

func (r *calendarRepository) Create(ctx context.Context, cal *entity.Calendar) (*entity.Calendar, error) {
	query := `
		INSERT INTO calendars (name, slug, description, calendar_type, color, is_public, is_active,
			owner_id, timezone, default_event_duration, requires_approval, auto_accept_events)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		cal.Name, cal.Slug, cal.Description, cal.CalendarType, cal.Color, cal.IsPublic, cal.IsActive,
		cal.OwnerID, cal.Timezone, cal.DefaultEventDuration, cal.RequiresApproval, cal.AutoAcceptEvents,
	).Scan(&cal.ID, &cal.CreatedAt, &cal.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return cal, nil
}

func (r *calendarRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Calendar, error) {
	var cal entity.Calendar
	if err := r.db.GetContext(ctx, &cal, `SELECT `+calendarColumns+` FROM calendars WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &cal, nil
}

func (r *calendarRepository) GetBySlug(ctx context.Context, slug string) (*entity.Calendar, error) {
	var cal entity.Calendar
	if err := r.db.GetContext(ctx, &cal, `SELECT `+calendarColumns+` FROM calendars WHERE slug = $1`, slug); err != nil {
		return nil, err
	}
	return &cal, nil
}

func (r *calendarRepository) List(ctx context.Context) ([]entity.Calendar, error) {
	var cals []entity.Calendar
	query := `SELECT ` + calendarColumns + ` FROM calendars WHERE is_active = true ORDER BY name`
	if err := r.db.SelectContext(ctx, &cals, query); err != nil {
		return nil, err
	}
	return cals, nil
}

func (r *calendarRepository) Update(ctx context.Context, cal *entity.Calendar) error {
	query := `
		UPDATE calendars
		SET name = $1, slug = $2, description = $3, calendar_type = $4, color = $5,
			is_public = $6, is_active = $7, timezone = $8, default_event_duration = $9,
			requires_approval = $10, auto_accept_events = $11, updated_at = NOW()
		WHERE id = $12
	`
	return r.db.ExecContext(ctx, query,
		cal.Name, cal.Slug, cal.Description, cal.CalendarType, cal.Color,
		cal.IsPublic, cal.IsActive, cal.Timezone, cal.DefaultEventDuration,
		cal.RequiresApproval, cal.AutoAcceptEvents, cal.ID,
	)
}

// Delete removes the calendar; its events and relations go with it via FK
// cascade.
func (r *calendarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.ExecContext(ctx, `DELETE FROM calendars WHERE id = $1`, id)
}

func (r *calendarRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM calendars WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

func (r *calendarRepository) CreateRelation(ctx context.Context, rel *entity.CalendarRelation) (*entity.CalendarRelation, error) {
	query := `
		INSERT INTO calendar_relations (calendar_id, target_kind, target_id, distinction,
			permission_level, inheritable, notify_on_changes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		rel.CalendarID, rel.TargetKind, rel.TargetID, rel.Distinction,
		rel.PermissionLevel, rel.Inheritable, rel.NotifyOnChanges,
	).Scan(&rel.ID, &rel.CreatedAt, &rel.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rel, nil
}

func (r *calendarRepository) ListRelations(ctx context.Context, calendarID uuid.UUID) ([]entity.CalendarRelation, error) {
	query := `
		SELECT id, calendar_id, target_kind, target_id, distinction, permission_level,
			inheritable, notify_on_changes, created_at, updated_at
		FROM calendar_relations
		WHERE calendar_id = $1
		ORDER BY created_at
	`
	var rels []entity.CalendarRelation
	if err := r.db.SelectContext(ctx, &rels, query, calendarID); err != nil {
		return nil, err
	}
	return rels, nil
}

func (r *calendarRepository) GetCalendarsForTarget(ctx context.Context, kind relation.Kind, targetID uuid.UUID, distinction string) ([]entity.Calendar, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.description, c.calendar_type, c.color, c.is_public, c.is_active,
			c.owner_id, c.timezone, c.default_event_duration, c.requires_approval, c.auto_accept_events,
			c.created_at, c.updated_at
		FROM calendars c
		JOIN calendar_relations cr ON cr.calendar_id = c.id
		WHERE cr.target_kind = $1 AND cr.target_id = $2
	`
	args := []any{kind, targetID}
	if distinction != "" {
		query += ` AND cr.distinction = $3`
		args = append(args, distinction)
	}
	query += ` ORDER BY c.name`

	var cals []entity.Calendar
	if err := r.db.SelectContext(ctx, &cals, query, args...); err != nil {
		return nil, err
	}
	return cals, nil
}

// FindEditRelation returns the first relation granting event-edit rights on
// the calendar to the given target, or nil when none exists.
func (r *calendarRepository) FindEditRelation(ctx context.Context, calendarID uuid.UUID, kind relation.Kind, targetID uuid.UUID) (*entity.CalendarRelation, error) {
	query := `
		SELECT id, calendar_id, target_kind, target_id, distinction, permission_level,
			inheritable, notify_on_changes, created_at, updated_at
		FROM calendar_relations
		WHERE calendar_id = $1 AND target_kind = $2 AND target_id = $3
			AND permission_level IN ('edit', 'manage', 'admin')
		LIMIT 1
	`
	var rels []entity.CalendarRelation
	if err := r.db.SelectContext(ctx, &rels, query, calendarID, kind, targetID); err != nil {
		return nil, err
	}
	if len(rels) == 0 {
		return nil, nil
	}
	return &rels[0], nil
}

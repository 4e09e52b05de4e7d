package repository

import (
	"context"
	"time"

	"opscal/core/database"
	"opscal/modules/event/entity"

	"github.com/google/uuid"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListByCalendarInRange(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]entity.Event, error)
	ListUpcoming(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]entity.Event, error)
	ListByCalendar(ctx context.Context, calendarID uuid.UUID) ([]entity.Event, error)
}

type eventRepository struct {
	db database.IDatabase
}

func NewEventRepository(db database.IDatabase) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, title, description, event_type, project_id, location, start, "end",
	all_day, lead_id, required_workers, status, priority, privacy, rule_id,
	end_recurring_period, calendar_id, color_event, estimated_cost, actual_cost,
	reminder_minutes, send_invitations, completion_notes, completed_at, creator_id,
	created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	tx, err := r.db.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (title, description, event_type, project_id, location, start, "end",
			all_day, lead_id, required_workers, status, priority, privacy, rule_id,
			end_recurring_period, calendar_id, color_event, estimated_cost, actual_cost,
			reminder_minutes, send_invitations, completion_notes, completed_at, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, query,
		event.Title, event.Description, event.EventType, event.ProjectID, event.Location,
		event.Start, event.End, event.AllDay, event.LeadID, event.RequiredWorkers,
		event.Status, event.Priority, event.Privacy, event.RuleID, event.EndRecurringPeriod,
		event.CalendarID, event.ColorEvent, event.EstimatedCost, event.ActualCost,
		event.ReminderMinutes, event.SendInvitations, event.CompletionNotes, event.CompletedAt,
		event.CreatorID,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, err
	}

	for _, workerID := range event.WorkerIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_workers (event_id, worker_id) VALUES ($1, $2)`,
			event.ID, workerID,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	var event entity.Event
	if err := r.db.GetContext(ctx, &event, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id); err != nil {
		return nil, err
	}
	if err := r.loadWorkers(ctx, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) loadWorkers(ctx context.Context, event *entity.Event) error {
	var workerIDs []uuid.UUID
	query := `SELECT worker_id FROM event_workers WHERE event_id = $1 ORDER BY worker_id`
	if err := r.db.SelectContext(ctx, &workerIDs, query, event.ID); err != nil {
		return err
	}
	event.WorkerIDs = workerIDs
	return nil
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	tx, err := r.db.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE events
		SET title = $1, description = $2, event_type = $3, project_id = $4, location = $5,
			start = $6, "end" = $7, all_day = $8, lead_id = $9, required_workers = $10,
			status = $11, priority = $12, privacy = $13, rule_id = $14, end_recurring_period = $15,
			color_event = $16, estimated_cost = $17, actual_cost = $18, reminder_minutes = $19,
			send_invitations = $20, completion_notes = $21, completed_at = $22, updated_at = NOW()
		WHERE id = $23
	`
	if _, err := tx.ExecContext(ctx, query,
		event.Title, event.Description, event.EventType, event.ProjectID, event.Location,
		event.Start, event.End, event.AllDay, event.LeadID, event.RequiredWorkers,
		event.Status, event.Priority, event.Privacy, event.RuleID, event.EndRecurringPeriod,
		event.ColorEvent, event.EstimatedCost, event.ActualCost, event.ReminderMinutes,
		event.SendInvitations, event.CompletionNotes, event.CompletedAt, event.ID,
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_workers WHERE event_id = $1`, event.ID); err != nil {
		return err
	}
	for _, workerID := range event.WorkerIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_workers (event_id, worker_id) VALUES ($1, $2)`,
			event.ID, workerID,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes the event; occurrences, relations and worker assignments
// cascade at the database level.
func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
}

// ListByCalendarInRange returns events whose bounds fall within [from, to),
// ordered by start ascending.
func (r *eventRepository) ListByCalendarInRange(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE calendar_id = $1 AND start >= $2 AND "end" < $3
		ORDER BY start`
	return r.selectEvents(ctx, query, calendarID, from, to)
}

func (r *eventRepository) ListUpcoming(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE calendar_id = $1 AND start >= $2 AND start < $3
		ORDER BY start`
	return r.selectEvents(ctx, query, calendarID, from, to)
}

func (r *eventRepository) ListByCalendar(ctx context.Context, calendarID uuid.UUID) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE calendar_id = $1
		ORDER BY start`
	return r.selectEvents(ctx, query, calendarID)
}

func (r *eventRepository) selectEvents(ctx context.Context, query string, args ...any) ([]entity.Event, error) {
	var events []entity.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, err
	}
	for i := range events {
		if err := r.loadWorkers(ctx, &events[i]); err != nil {
			return nil, err
		}
	}
	return events, nil
}

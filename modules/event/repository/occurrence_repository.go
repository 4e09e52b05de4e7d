package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"opscal/core/database"
	"opscal/modules/event/entity"

	"github.com/google/uuid"
)

type OccurrenceRepository interface {
	Create(ctx context.Context, occ *entity.Occurrence) (*entity.Occurrence, error)
	Update(ctx context.Context, occ *entity.Occurrence) error
	GetByEventAndOriginalStart(ctx context.Context, eventID uuid.UUID, originalStart time.Time) (*entity.Occurrence, error)
	ListForEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Occurrence, error)
	ListForEventInRange(ctx context.Context, eventID uuid.UUID, from, to time.Time) ([]entity.Occurrence, error)
}

type occurrenceRepository struct {
	db database.IDatabase
}

func NewOccurrenceRepository(db database.IDatabase) OccurrenceRepository {
	return &occurrenceRepository{db: db}
}

const occurrenceColumns = `id, event_id, title, description, start, "end", cancelled,
	original_start, original_end, notes, status_override, created_at, updated_at`

func (r *occurrenceRepository) Create(ctx context.Context, occ *entity.Occurrence) (*entity.Occurrence, error) {
	query := `
		INSERT INTO occurrences (event_id, title, description, start, "end", cancelled,
			original_start, original_end, notes, status_override)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		occ.EventID, occ.Title, occ.Description, occ.Start, occ.End, occ.Cancelled,
		occ.OriginalStart, occ.OriginalEnd, occ.Notes, occ.StatusOverride,
	).Scan(&occ.ID, &occ.CreatedAt, &occ.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return occ, nil
}

func (r *occurrenceRepository) Update(ctx context.Context, occ *entity.Occurrence) error {
	query := `
		UPDATE occurrences
		SET title = $1, description = $2, start = $3, "end" = $4, cancelled = $5,
			notes = $6, status_override = $7, updated_at = NOW()
		WHERE id = $8
	`
	return r.db.ExecContext(ctx, query,
		occ.Title, occ.Description, occ.Start, occ.End, occ.Cancelled,
		occ.Notes, occ.StatusOverride, occ.ID,
	)
}

// GetByEventAndOriginalStart returns nil without error when no override row
// exists for the given generated slot.
func (r *occurrenceRepository) GetByEventAndOriginalStart(ctx context.Context, eventID uuid.UUID, originalStart time.Time) (*entity.Occurrence, error) {
	var occ entity.Occurrence
	query := `SELECT ` + occurrenceColumns + ` FROM occurrences WHERE event_id = $1 AND original_start = $2`
	err := r.db.GetContext(ctx, &occ, query, eventID, originalStart)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &occ, nil
}

func (r *occurrenceRepository) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Occurrence, error) {
	var occs []entity.Occurrence
	query := `SELECT ` + occurrenceColumns + ` FROM occurrences WHERE event_id = $1 ORDER BY start`
	if err := r.db.SelectContext(ctx, &occs, query, eventID); err != nil {
		return nil, err
	}
	return occs, nil
}

// ListForEventInRange matches persisted overrides against a window on their
// effective start, so rows moved into the window are picked up even when
// their original slot lies outside it.
func (r *occurrenceRepository) ListForEventInRange(ctx context.Context, eventID uuid.UUID, from, to time.Time) ([]entity.Occurrence, error) {
	var occs []entity.Occurrence
	query := `SELECT ` + occurrenceColumns + `
		FROM occurrences
		WHERE event_id = $1 AND start >= $2 AND start < $3
		ORDER BY start`
	if err := r.db.SelectContext(ctx, &occs, query, eventID, from, to); err != nil {
		return nil, err
	}
	return occs, nil
}

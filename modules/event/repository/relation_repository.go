package repository

import (
	"context"
	"database/sql"
	"errors"

	"opscal/core/database"
	"opscal/core/relation"
	"opscal/modules/event/entity"

	"github.com/google/uuid"
)

type RelationRepository interface {
	Create(ctx context.Context, rel *entity.EventRelation) (*entity.EventRelation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.EventRelation, error)
	Find(ctx context.Context, eventID uuid.UUID, targetKind relation.Kind, targetID uuid.UUID, distinction entity.RelationDistinction) (*entity.EventRelation, error)
	ListForEvent(ctx context.Context, eventID uuid.UUID) ([]entity.EventRelation, error)
	UpdateResponse(ctx context.Context, id uuid.UUID, response entity.ResponseStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type relationRepository struct {
	db database.IDatabase
}

func NewRelationRepository(db database.IDatabase) RelationRepository {
	return &relationRepository{db: db}
}

const relationColumns = `id, event_id, target_kind, target_id, distinction, response_status,
	responded_at, is_required, send_notifications, created_at, updated_at`

func (r *relationRepository) Create(ctx context.Context, rel *entity.EventRelation) (*entity.EventRelation, error) {
	query := `
		INSERT INTO event_relations (event_id, target_kind, target_id, distinction,
			response_status, is_required, send_notifications)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		rel.EventID, rel.TargetKind, rel.TargetID, rel.Distinction,
		rel.ResponseStatus, rel.IsRequired, rel.SendNotifications,
	).Scan(&rel.ID, &rel.CreatedAt, &rel.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rel, nil
}

func (r *relationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.EventRelation, error) {
	var rel entity.EventRelation
	query := `SELECT ` + relationColumns + ` FROM event_relations WHERE id = $1`
	if err := r.db.GetContext(ctx, &rel, query, id); err != nil {
		return nil, err
	}
	return &rel, nil
}

// Find returns nil without error when no relation matches the tuple.
func (r *relationRepository) Find(ctx context.Context, eventID uuid.UUID, targetKind relation.Kind, targetID uuid.UUID, distinction entity.RelationDistinction) (*entity.EventRelation, error) {
	var rel entity.EventRelation
	query := `SELECT ` + relationColumns + `
		FROM event_relations
		WHERE event_id = $1 AND target_kind = $2 AND target_id = $3 AND distinction = $4`
	err := r.db.GetContext(ctx, &rel, query, eventID, targetKind, targetID, distinction)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (r *relationRepository) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]entity.EventRelation, error) {
	var rels []entity.EventRelation
	query := `SELECT ` + relationColumns + ` FROM event_relations WHERE event_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &rels, query, eventID); err != nil {
		return nil, err
	}
	return rels, nil
}

func (r *relationRepository) UpdateResponse(ctx context.Context, id uuid.UUID, response entity.ResponseStatus) error {
	query := `
		UPDATE event_relations
		SET response_status = $1, responded_at = NOW(), updated_at = NOW()
		WHERE id = $2
	`
	return r.db.ExecContext(ctx, query, response, id)
}

func (r *relationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.ExecContext(ctx, `DELETE FROM event_relations WHERE id = $1`, id)
}

package repository

import (
	"context"

	"opscal/core/database"
	"opscal/modules/rule/entity"

	"github.com/google/uuid"
)

type RuleRepository interface {
	Create(ctx context.Context, rule *entity.Rule) (*entity.Rule, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Rule, error)
	List(ctx context.Context) ([]entity.Rule, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ruleRepository struct {
	db database.IDatabase
}

func NewRuleRepository(db database.IDatabase) RuleRepository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) Create(ctx context.Context, rule *entity.Rule) (*entity.Rule, error) {
	query := `
		INSERT INTO rules (name, description, frequency, "interval", count, until)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		rule.Name, rule.Description, rule.Frequency, rule.Interval, rule.Count, rule.Until,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *ruleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Rule, error) {
	query := `
		SELECT id, name, description, frequency, "interval", count, until, created_at, updated_at
		FROM rules
		WHERE id = $1
	`
	var rule entity.Rule
	if err := r.db.GetContext(ctx, &rule, query, id); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *ruleRepository) List(ctx context.Context) ([]entity.Rule, error) {
	query := `
		SELECT id, name, description, frequency, "interval", count, until, created_at, updated_at
		FROM rules
		ORDER BY name
	`
	var rules []entity.Rule
	if err := r.db.SelectContext(ctx, &rules, query); err != nil {
		return nil, err
	}
	return rules, nil
}

// Delete removes the rule; the events FK cascades, so dependent events go
// with it.
func (r *ruleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.ExecContext(ctx, `DELETE FROM rules WHERE id = $1`, id)
}

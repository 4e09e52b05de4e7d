package repository

import (
	"context"

	"opscal/core/database"
	"opscal/modules/terminology/entity"

	"github.com/google/uuid"
)

type TerminologyRepository interface {
	CreateConfig(ctx context.Context, cfg *entity.BusinessConfiguration) (*entity.BusinessConfiguration, error)
	GetConfigByID(ctx context.Context, id uuid.UUID) (*entity.BusinessConfiguration, error)
	ListConfigs(ctx context.Context) ([]entity.BusinessConfiguration, error)

	CreateAlias(ctx context.Context, alias *entity.TerminologyAlias) (*entity.TerminologyAlias, error)
	ListAliases(ctx context.Context, businessConfigID uuid.UUID) ([]entity.TerminologyAlias, error)
	DeleteAlias(ctx context.Context, id uuid.UUID) error
}

type terminologyRepository struct {
	db database.IDatabase
}

func NewTerminologyRepository(db database.IDatabase) TerminologyRepository {
	return &terminologyRepository{db: db}
}

const configColumns = `id, name, slug, description, industry_details, deployment_type, billing_model,
	enables_shared_inventory, enables_shared_workforce, enables_shared_clients, enables_cross_selling,
	client_term, client_term_singular, client_synonyms, location_term, location_term_singular,
	project_term, project_term_singular, material_term, material_term_singular,
	material_type_nicknames, workflow_requirements, created_at, updated_at`

func (r *terminologyRepository) CreateConfig(ctx context.Context, cfg *entity.BusinessConfiguration) (*entity.BusinessConfiguration, error) {
	query := `
		INSERT INTO business_configurations (name, slug, description, industry_details,
			deployment_type, billing_model, enables_shared_inventory, enables_shared_workforce,
			enables_shared_clients, enables_cross_selling, client_term, client_term_singular,
			client_synonyms, location_term, location_term_singular, project_term,
			project_term_singular, material_term, material_term_singular,
			material_type_nicknames, workflow_requirements)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		cfg.Name, cfg.Slug, cfg.Description, cfg.IndustryDetails,
		cfg.DeploymentType, cfg.BillingModel, cfg.EnablesSharedInventory, cfg.EnablesSharedWorkforce,
		cfg.EnablesSharedClients, cfg.EnablesCrossSelling, cfg.ClientTerm, cfg.ClientTermSingular,
		cfg.ClientSynonyms, cfg.LocationTerm, cfg.LocationTermSingular, cfg.ProjectTerm,
		cfg.ProjectTermSingular, cfg.MaterialTerm, cfg.MaterialTermSingular,
		cfg.MaterialTypeNicknames, cfg.WorkflowRequirements,
	).Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *terminologyRepository) GetConfigByID(ctx context.Context, id uuid.UUID) (*entity.BusinessConfiguration, error) {
	var cfg entity.BusinessConfiguration
	query := `SELECT ` + configColumns + ` FROM business_configurations WHERE id = $1`
	if err := r.db.GetContext(ctx, &cfg, query, id); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *terminologyRepository) ListConfigs(ctx context.Context) ([]entity.BusinessConfiguration, error) {
	var cfgs []entity.BusinessConfiguration
	query := `SELECT ` + configColumns + ` FROM business_configurations ORDER BY name`
	if err := r.db.SelectContext(ctx, &cfgs, query); err != nil {
		return nil, err
	}
	return cfgs, nil
}

func (r *terminologyRepository) CreateAlias(ctx context.Context, alias *entity.TerminologyAlias) (*entity.TerminologyAlias, error) {
	query := `
		INSERT INTO terminology_aliases (business_config_id, app_label, model, field, alias)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		alias.BusinessConfigID, alias.AppLabel, alias.Model, alias.Field, alias.Alias,
	).Scan(&alias.ID, &alias.CreatedAt, &alias.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return alias, nil
}

func (r *terminologyRepository) ListAliases(ctx context.Context, businessConfigID uuid.UUID) ([]entity.TerminologyAlias, error) {
	var aliases []entity.TerminologyAlias
	query := `SELECT id, business_config_id, app_label, model, field, alias, created_at, updated_at
		FROM terminology_aliases
		WHERE business_config_id = $1
		ORDER BY app_label, model, field`
	if err := r.db.SelectContext(ctx, &aliases, query, businessConfigID); err != nil {
		return nil, err
	}
	return aliases, nil
}

func (r *terminologyRepository) DeleteAlias(ctx context.Context, id uuid.UUID) error {
	return r.db.ExecContext(ctx, `DELETE FROM terminology_aliases WHERE id = $1`, id)
}

package service

import (
	"context"
	"database/sql"

	"opscal/core/errors"
	"opscal/core/logger"
	userRepo "opscal/modules/auth/repository"
	"opscal/modules/terminology/entity"
	"opscal/modules/terminology/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Terminology is the resolved vocabulary for one user: the generic terms,
// their business-specific replacements and per-field aliases keyed by
// "app_label.model.field".
type Terminology struct {
	ClientPlural   string   `json:"client_plural"`
	ClientSingular string   `json:"client_singular"`
	ClientSynonyms []string `json:"client_synonyms"`

	LocationPlural   string `json:"location_plural"`
	LocationSingular string `json:"location_singular"`

	ProjectPlural   string `json:"project_plural"`
	ProjectSingular string `json:"project_singular"`

	MaterialPlural   string `json:"material_plural"`
	MaterialSingular string `json:"material_singular"`

	// MaterialTypeTerms maps material type slugs to their display names.
	MaterialTypeTerms map[string]string `json:"material_type_terms,omitempty"`

	Aliases map[string]string `json:"aliases,omitempty"`
}

func defaultTerminology() Terminology {
	return Terminology{
		ClientPlural:     "Clients",
		ClientSingular:   "Client",
		ClientSynonyms:   []string{},
		LocationPlural:   "Locations",
		LocationSingular: "Location",
		ProjectPlural:    "Projects",
		ProjectSingular:  "Project",
		MaterialPlural:   "Materials",
		MaterialSingular: "Material",
	}
}

type TerminologyServiceInterface interface {
	ResolveForUser(ctx context.Context, userID uuid.UUID) (*Terminology, *errors.AppError)

	CreateConfig(ctx context.Context, cfg *entity.BusinessConfiguration) (*entity.BusinessConfiguration, *errors.AppError)
	GetConfig(ctx context.Context, id uuid.UUID) (*entity.BusinessConfiguration, *errors.AppError)
	ListConfigs(ctx context.Context) ([]entity.BusinessConfiguration, *errors.AppError)

	CreateAlias(ctx context.Context, alias *entity.TerminologyAlias) (*entity.TerminologyAlias, *errors.AppError)
	ListAliases(ctx context.Context, businessConfigID uuid.UUID) ([]entity.TerminologyAlias, *errors.AppError)
	DeleteAlias(ctx context.Context, id uuid.UUID) *errors.AppError
}

type terminologyService struct {
	repo  repository.TerminologyRepository
	users userRepo.UserRepository
}

func NewTerminologyService(repo repository.TerminologyRepository, users userRepo.UserRepository) TerminologyServiceInterface {
	return &terminologyService{repo: repo, users: users}
}

// ResolveForUser returns the vocabulary the user's deployment uses. Users
// without a business configuration get the generic defaults.
func (s *terminologyService) ResolveForUser(ctx context.Context, userID uuid.UUID) (*Terminology, *errors.AppError) {
	terms := defaultTerminology()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
		}
		logger.Error("TerminologyService:ResolveForUser:User", "error", err, "user_id", userID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to resolve terminology", nil)
	}
	if user.BusinessConfigID == nil {
		return &terms, nil
	}

	cfg, err := s.repo.GetConfigByID(ctx, *user.BusinessConfigID)
	if err != nil {
		if err == sql.ErrNoRows {
			// Dangling reference; serve defaults rather than failing.
			logger.Warn("TerminologyService:ResolveForUser:DanglingConfig",
				"user_id", userID, "business_config_id", *user.BusinessConfigID)
			return &terms, nil
		}
		logger.Error("TerminologyService:ResolveForUser:Config", "error", err, "business_config_id", *user.BusinessConfigID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to resolve terminology", nil)
	}

	applyConfig(&terms, cfg)

	aliases, err := s.repo.ListAliases(ctx, cfg.ID)
	if err != nil {
		logger.Error("TerminologyService:ResolveForUser:Aliases", "error", err, "business_config_id", cfg.ID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to resolve terminology", nil)
	}
	if len(aliases) > 0 {
		terms.Aliases = make(map[string]string, len(aliases))
		for i := range aliases {
			terms.Aliases[aliases[i].Key()] = aliases[i].Alias
		}
	}
	return &terms, nil
}

func applyConfig(terms *Terminology, cfg *entity.BusinessConfiguration) {
	if cfg.ClientTerm != "" {
		terms.ClientPlural = cfg.ClientTerm
	}
	if cfg.ClientTermSingular != "" {
		terms.ClientSingular = cfg.ClientTermSingular
	}
	if len(cfg.ClientSynonyms) > 0 {
		terms.ClientSynonyms = cfg.ClientSynonyms
	}
	if cfg.LocationTerm != "" {
		terms.LocationPlural = cfg.LocationTerm
	}
	if cfg.LocationTermSingular != "" {
		terms.LocationSingular = cfg.LocationTermSingular
	}
	if cfg.ProjectTerm != "" {
		terms.ProjectPlural = cfg.ProjectTerm
	}
	if cfg.ProjectTermSingular != "" {
		terms.ProjectSingular = cfg.ProjectTermSingular
	}
	if cfg.MaterialTerm != "" {
		terms.MaterialPlural = cfg.MaterialTerm
	}
	if cfg.MaterialTermSingular != "" {
		terms.MaterialSingular = cfg.MaterialTermSingular
	}
	if len(cfg.MaterialTypeNicknames) > 0 {
		terms.MaterialTypeTerms = make(map[string]string, len(cfg.MaterialTypeNicknames))
		for key, name := range cfg.MaterialTypeNicknames {
			if s, ok := name.(string); ok {
				terms.MaterialTypeTerms[key] = s
			}
		}
	}
}

func (s *terminologyService) CreateConfig(ctx context.Context, cfg *entity.BusinessConfiguration) (*entity.BusinessConfiguration, *errors.AppError) {
	var fields []errors.FieldError
	if cfg.Name == "" {
		fields = append(fields, errors.NewFieldError("name", "configuration name is required"))
	}
	if cfg.DeploymentType != "" && !cfg.DeploymentType.Valid() {
		fields = append(fields, errors.NewFieldError("deployment_type", "unknown deployment type"))
	}
	if cfg.BillingModel != "" && !cfg.BillingModel.Valid() {
		fields = append(fields, errors.NewFieldError("billing_model", "unknown billing model"))
	}
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields...)
	}

	if cfg.DeploymentType == "" {
		cfg.DeploymentType = entity.DeploymentSingle
	}
	if cfg.BillingModel == "" {
		cfg.BillingModel = entity.BillingProject
	}
	if cfg.Slug == "" {
		cfg.Slug = slug.Make(cfg.Name)
	}

	if _, err := s.repo.CreateConfig(ctx, cfg); err != nil {
		logger.Error("TerminologyService:CreateConfig:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create configuration", nil)
	}
	logger.Info("TerminologyService:CreateConfig:Success", "config_id", cfg.ID, "slug", cfg.Slug)
	return cfg, nil
}

func (s *terminologyService) GetConfig(ctx context.Context, id uuid.UUID) (*entity.BusinessConfiguration, *errors.AppError) {
	cfg, err := s.repo.GetConfigByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "configuration not found", nil)
		}
		logger.Error("TerminologyService:GetConfig:Error", "error", err, "config_id", id)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load configuration", nil)
	}
	return cfg, nil
}

func (s *terminologyService) ListConfigs(ctx context.Context) ([]entity.BusinessConfiguration, *errors.AppError) {
	cfgs, err := s.repo.ListConfigs(ctx)
	if err != nil {
		logger.Error("TerminologyService:ListConfigs:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list configurations", nil)
	}
	return cfgs, nil
}

func (s *terminologyService) CreateAlias(ctx context.Context, alias *entity.TerminologyAlias) (*entity.TerminologyAlias, *errors.AppError) {
	var fields []errors.FieldError
	if alias.AppLabel == "" {
		fields = append(fields, errors.NewFieldError("app_label", "app_label is required"))
	}
	if alias.Model == "" {
		fields = append(fields, errors.NewFieldError("model", "model is required"))
	}
	if alias.Field == "" {
		fields = append(fields, errors.NewFieldError("field", "field is required"))
	}
	if alias.Alias == "" {
		fields = append(fields, errors.NewFieldError("alias", "alias is required"))
	}
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields...)
	}

	if _, appErr := s.GetConfig(ctx, alias.BusinessConfigID); appErr != nil {
		return nil, appErr
	}

	if _, err := s.repo.CreateAlias(ctx, alias); err != nil {
		logger.Error("TerminologyService:CreateAlias:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create alias", nil)
	}
	logger.Info("TerminologyService:CreateAlias:Success", "alias_id", alias.ID, "key", alias.Key())
	return alias, nil
}

func (s *terminologyService) ListAliases(ctx context.Context, businessConfigID uuid.UUID) ([]entity.TerminologyAlias, *errors.AppError) {
	if _, appErr := s.GetConfig(ctx, businessConfigID); appErr != nil {
		return nil, appErr
	}
	aliases, err := s.repo.ListAliases(ctx, businessConfigID)
	if err != nil {
		logger.Error("TerminologyService:ListAliases:Error", "error", err, "config_id", businessConfigID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list aliases", nil)
	}
	return aliases, nil
}

func (s *terminologyService) DeleteAlias(ctx context.Context, id uuid.UUID) *errors.AppError {
	if err := s.repo.DeleteAlias(ctx, id); err != nil {
		logger.Error("TerminologyService:DeleteAlias:Error", "error", err, "alias_id", id)
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete alias", nil)
	}
	return nil
}

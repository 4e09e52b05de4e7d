package service

import (
	"context"
	"database/sql"

	"opscal/core/errors"
	"opscal/core/logger"
	"opscal/modules/rule/entity"
	"opscal/modules/rule/repository"

	"github.com/google/uuid"
)

type RuleServiceInterface interface {
	Create(ctx context.Context, rule *entity.Rule) (*entity.Rule, *errors.AppError)
	Get(ctx context.Context, id uuid.UUID) (*entity.Rule, *errors.AppError)
	List(ctx context.Context) ([]entity.Rule, *errors.AppError)
	Delete(ctx context.Context, id uuid.UUID) *errors.AppError
}

type ruleService struct {
	repo repository.RuleRepository
}

func NewRuleService(repo repository.RuleRepository) RuleServiceInterface {
	return &ruleService{repo: repo}
}

func (s *ruleService) Create(ctx context.Context, rule *entity.Rule) (*entity.Rule, *errors.AppError) {
	var fields []errors.FieldError
	if rule.Name == "" {
		fields = append(fields, errors.NewFieldError("name", "rule name is required"))
	}
	if !rule.Frequency.Valid() {
		fields = append(fields, errors.NewFieldError("frequency", "frequency must be one of daily, weekly, monthly, yearly"))
	}
	if rule.Interval < 0 {
		fields = append(fields, errors.NewFieldError("interval", "interval must not be negative"))
	}
	if rule.Count != nil && rule.Until != nil {
		fields = append(fields, errors.NewFieldError("count", "count and until are mutually exclusive"))
	}
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields...)
	}
	if rule.Interval == 0 {
		rule.Interval = 1
	}

	if _, err := s.repo.Create(ctx, rule); err != nil {
		logger.Error("RuleService:Create:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create rule", nil)
	}
	logger.Info("RuleService:Create:Success", "rule_id", rule.ID, "frequency", rule.Frequency)
	return rule, nil
}

func (s *ruleService) Get(ctx context.Context, id uuid.UUID) (*entity.Rule, *errors.AppError) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "rule not found", nil)
		}
		logger.Error("RuleService:Get:Error", "error", err, "rule_id", id)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load rule", nil)
	}
	return rule, nil
}

func (s *ruleService) List(ctx context.Context) ([]entity.Rule, *errors.AppError) {
	rules, err := s.repo.List(ctx)
	if err != nil {
		logger.Error("RuleService:List:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list rules", nil)
	}
	return rules, nil
}

// Delete removes a rule. Dependent events are deleted with it by the FK
// cascade; callers are warned in the API docs.
func (s *ruleService) Delete(ctx context.Context, id uuid.UUID) *errors.AppError {
	if _, appErr := s.Get(ctx, id); appErr != nil {
		return appErr
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		logger.Error("RuleService:Delete:Error", "error", err, "rule_id", id)
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete rule", nil)
	}
	logger.Warn("RuleService:Delete:Success", "rule_id", id)
	return nil
}

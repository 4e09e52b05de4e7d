package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"opscal/core/errors"
	"opscal/modules/rule/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRuleRepo struct {
	mu    sync.Mutex
	rules map[uuid.UUID]entity.Rule
}

func newMemRuleRepo() *memRuleRepo {
	return &memRuleRepo{rules: make(map[uuid.UUID]entity.Rule)}
}

func (r *memRuleRepo) Create(_ context.Context, rule *entity.Rule) (*entity.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule.ID = uuid.New()
	r.rules[rule.ID] = *rule
	return rule, nil
}

func (r *memRuleRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &rule, nil
}

func (r *memRuleRepo) List(_ context.Context) ([]entity.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Rule
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

func TestCreateRuleValidation(t *testing.T) {
	service := NewRuleService(newMemRuleRepo())
	ctx := context.Background()

	_, appErr := service.Create(ctx, &entity.Rule{Frequency: "hourly"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	count := 3
	until := time.Now().AddDate(0, 1, 0)
	_, appErr = service.Create(ctx, &entity.Rule{
		Name:      "bounded twice",
		Frequency: entity.FrequencyWeekly,
		Count:     &count,
		Until:     &until,
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestCreateRuleDefaultsInterval(t *testing.T) {
	service := NewRuleService(newMemRuleRepo())

	rule, appErr := service.Create(context.Background(), &entity.Rule{
		Name:      "daily",
		Frequency: entity.FrequencyDaily,
	})
	require.Nil(t, appErr)
	assert.Equal(t, 1, rule.Interval)
	assert.NotEqual(t, uuid.Nil, rule.ID)
}

func TestDeleteRuleUnknownID(t *testing.T) {
	service := NewRuleService(newMemRuleRepo())

	appErr := service.Delete(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

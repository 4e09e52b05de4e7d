package repository

import (
	"context"
	"database/sql"

	"opscal/core/database"
	"opscal/modules/auth/entity"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	CreatePreference(ctx context.Context, pref *entity.UserPreference) (*entity.UserPreference, error)
	GetPreference(ctx context.Context, userID uuid.UUID) (*entity.UserPreference, error)
}

type userRepository struct {
	db database.IDatabase
}

func NewUserRepository(db database.IDatabase) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, is_staff, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.IsStaff, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, is_staff, is_active, business_config_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user entity.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, is_staff, is_active, business_config_id, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	var user entity.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CreatePreference(ctx context.Context, pref *entity.UserPreference) (*entity.UserPreference, error) {
	query := `
		INSERT INTO user_preferences (user_id, timezone, week_start)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, pref.UserID, pref.Timezone, pref.WeekStart).
		Scan(&pref.ID, &pref.CreatedAt, &pref.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return pref, nil
}

func (r *userRepository) GetPreference(ctx context.Context, userID uuid.UUID) (*entity.UserPreference, error) {
	query := `
		SELECT id, user_id, timezone, week_start, created_at, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`
	var pref entity.UserPreference
	if err := r.db.GetContext(ctx, &pref, query, userID); err != nil {
		return nil, err
	}
	return &pref, nil
}

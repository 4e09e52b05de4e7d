package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"opscal/core/cache"
	"opscal/core/config"
	"opscal/core/constants"
	"opscal/core/errors"
	"opscal/core/logger"
	"opscal/modules/auth/dto"
	"opscal/modules/auth/entity"
	"opscal/modules/auth/repository"

	"opscal/core/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, *errors.AppError)
}

type authService struct {
	repo  repository.UserRepository
	cache cache.Cache
}

func NewAuthService(repo repository.UserRepository, c cache.Cache) AuthServiceInterface {
	return &authService{repo: repo, cache: c}
}

// Register provisions a user and runs the explicit post-creation hook.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, *errors.AppError) {
	logger.Info("AuthService:Register:Start", "email", req.Email)

	var fields []errors.FieldError
	if !strings.Contains(req.Email, "@") {
		fields = append(fields, errors.NewFieldError("email", "invalid email address"))
	}
	if len(req.Password) < 8 {
		fields = append(fields, errors.NewFieldError("password", "password must be at least 8 characters"))
	}
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields...)
	}

	if existing, err := s.repo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "email already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("AuthService:Register:Hash:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", nil)
	}

	user := &entity.User{
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsStaff:      false,
		IsActive:     true,
	}
	if _, err := s.repo.Create(ctx, user); err != nil {
		logger.Error("AuthService:Register:Create:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create user", nil)
	}

	if appErr := s.onUserCreated(ctx, user); appErr != nil {
		// Preference creation failure leaves the account usable.
		logger.Warn("AuthService:Register:OnUserCreated:Error", "error", appErr, "user_id", user.ID)
	}

	logger.Info("AuthService:Register:Success", "user_id", user.ID)
	resp := toUserResponse(user)
	return &resp, nil
}

// onUserCreated is the user-provisioning hook: defaults that the original
// system wired up implicitly are created here, visibly and testably.
func (s *authService) onUserCreated(ctx context.Context, user *entity.User) *errors.AppError {
	pref := &entity.UserPreference{
		UserID:    user.ID,
		Timezone:  "UTC",
		WeekStart: "monday",
	}
	if _, err := s.repo.CreatePreference(ctx, pref); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to create user preference", nil)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError) {
	logger.Info("AuthService:Login:Start", "email", req.Email)

	user, err := s.repo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid credentials", nil)
		}
		logger.Error("AuthService:Login:GetByEmail:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load user", nil)
	}
	if !user.IsActive {
		return nil, errors.NewAppError(errors.ErrForbidden, "account is disabled", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid credentials", nil)
	}

	cfg := config.Get()
	token, err := utils.GenerateToken(cfg.Auth.JWTSecret, user.ID, user.Email, user.IsStaff)
	if err != nil {
		logger.Error("AuthService:Login:GenerateToken:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue token", nil)
	}

	logger.Info("AuthService:Login:Success", "user_id", user.ID)
	return &dto.LoginResponse{Token: token, User: toUserResponse(user)}, nil
}

func (s *authService) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, *errors.AppError) {
	key := userCacheKey(id)
	if s.cache != nil {
		var cached entity.User
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
		}
		logger.Error("AuthService:GetUserByID:Error", "error", err, "user_id", id)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load user", nil)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, user, constants.UserCacheTTL); err != nil {
			logger.Warn("AuthService:GetUserByID:CacheSet:Error", "error", err)
		}
	}
	return user, nil
}

func userCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func toUserResponse(user *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsStaff:   user.IsStaff,
		CreatedAt: user.CreatedAt,
	}
}

package service

import (
	"context"
	"database/sql"

	"opscal/core/errors"
	"opscal/core/logger"
	"opscal/modules/notification/entity"
	"opscal/modules/notification/repository"

	"github.com/google/uuid"
)

const defaultPageSize = 50

type NotificationServiceInterface interface {
	Notify(ctx context.Context, n *entity.Notification) (*entity.Notification, *errors.AppError)
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, *errors.AppError)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, *errors.AppError)
	MarkRead(ctx context.Context, id, userID uuid.UUID) *errors.AppError
	MarkAllRead(ctx context.Context, userID uuid.UUID) *errors.AppError
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationServiceInterface {
	return &notificationService{repo: repo}
}

func (s *notificationService) Notify(ctx context.Context, n *entity.Notification) (*entity.Notification, *errors.AppError) {
	if !n.Type.Valid() {
		return nil, errors.NewValidationError(errors.NewFieldError("type", "unknown notification type"))
	}
	if n.Title == "" {
		return nil, errors.NewValidationError(errors.NewFieldError("title", "title is required"))
	}
	if _, err := s.repo.Create(ctx, n); err != nil {
		logger.Error("NotificationService:Notify:Error", "error", err, "user_id", n.UserID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create notification", nil)
	}
	logger.Info("NotificationService:Notify:Success", "notification_id", n.ID, "user_id", n.UserID, "type", n.Type)
	return n, nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, *errors.AppError) {
	if limit <= 0 || limit > defaultPageSize {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	notifications, err := s.repo.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		logger.Error("NotificationService:ListForUser:Error", "error", err, "user_id", userID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list notifications", nil)
	}
	return notifications, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, *errors.AppError) {
	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		logger.Error("NotificationService:UnreadCount:Error", "error", err, "user_id", userID)
		return 0, errors.NewAppError(errors.ErrInternalServer, "failed to count notifications", nil)
	}
	return count, nil
}

// MarkRead only lets users mark their own notifications.
func (s *notificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) *errors.AppError {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.NewAppError(errors.ErrNotFound, "notification not found", nil)
		}
		logger.Error("NotificationService:MarkRead:Error", "error", err, "notification_id", id)
		return errors.NewAppError(errors.ErrInternalServer, "failed to update notification", nil)
	}
	if n.UserID != userID {
		return errors.NewAppError(errors.ErrForbidden, "notification belongs to another user", nil)
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		logger.Error("NotificationService:MarkRead:Error", "error", err, "notification_id", id)
		return errors.NewAppError(errors.ErrInternalServer, "failed to update notification", nil)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) *errors.AppError {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		logger.Error("NotificationService:MarkAllRead:Error", "error", err, "user_id", userID)
		return errors.NewAppError(errors.ErrInternalServer, "failed to update notifications", nil)
	}
	return nil
}

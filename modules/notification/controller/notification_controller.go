package controller

import (
	"strconv"

	"opscal/core/controller"
	"opscal/core/errors"
	authController "opscal/modules/auth/controller"
	"opscal/modules/notification/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type NotificationController struct {
	controller.BaseController
	NotificationService service.NotificationServiceInterface
}

func NewNotificationController(svc service.NotificationServiceInterface) *NotificationController {
	return &NotificationController{
		BaseController:      controller.NewBaseController(),
		NotificationService: svc,
	}
}

// List handles GET /private/notifications?limit=&offset=
func (c *NotificationController) List(ctx echo.Context) error {
	userID, err := authController.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))
	offset, _ := strconv.Atoi(ctx.QueryParam("offset"))

	notifications, appErr := c.NotificationService.ListForUser(ctx.Request().Context(), userID, limit, offset)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, notifications, "Success")
}

// UnreadCount handles GET /private/notifications/unread-count
func (c *NotificationController) UnreadCount(ctx echo.Context) error {
	userID, err := authController.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	count, appErr := c.NotificationService.UnreadCount(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, map[string]int{"unread": count}, "Success")
}

// MarkRead handles PUT /private/notifications/:id/read
func (c *NotificationController) MarkRead(ctx echo.Context) error {
	userID, err := authController.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid notification ID")
	}
	if appErr := c.NotificationService.MarkRead(ctx.Request().Context(), id, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Notification marked as read")
}

// MarkAllRead handles PUT /private/notifications/mark-all-read
func (c *NotificationController) MarkAllRead(ctx echo.Context) error {
	userID, err := authController.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	if appErr := c.NotificationService.MarkAllRead(ctx.Request().Context(), userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "All notifications marked as read")
}

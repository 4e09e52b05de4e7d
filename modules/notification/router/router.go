package router

import (
	"opscal/core/middleware"
	"opscal/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

type NotificationRouter struct {
	Controller *controller.NotificationController
}

func NewNotificationRouter(ctrl *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{Controller: ctrl}
}

func (r *NotificationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	notifications := v1.Group("/private/notifications", mw.AuthMiddleware())

	notifications.GET("", r.Controller.List)
	notifications.GET("/unread-count", r.Controller.UnreadCount)
	notifications.PUT("/mark-all-read", r.Controller.MarkAllRead)
	notifications.PUT("/:id/read", r.Controller.MarkRead)
}

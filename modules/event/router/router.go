package router

import (
	"opscal/core/middleware"
	"opscal/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	Controller *controller.EventController
}

func NewEventRouter(ctrl *controller.EventController) *EventRouter {
	return &EventRouter{Controller: ctrl}
}

func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	events := v1.Group("/private/events", mw.AuthMiddleware())

	events.POST("", r.Controller.Create)
	events.GET("/:id", r.Controller.Get)
	events.PUT("/:id", r.Controller.Update)
	events.DELETE("/:id", r.Controller.Delete)
	events.POST("/:id/status", r.Controller.TransitionStatus)

	events.GET("/:id/occurrences", r.Controller.Occurrences)
	events.PUT("/:id/occurrences/move", r.Controller.MoveOccurrence)
	events.PUT("/:id/occurrences/cancel", r.Controller.CancelOccurrence)
	events.PUT("/:id/occurrences/uncancel", r.Controller.UncancelOccurrence)

	events.POST("/:id/relations", r.Controller.AddRelation)
	events.GET("/:id/relations", r.Controller.ListRelations)
	events.PUT("/relations/:relationID/respond", r.Controller.Respond)
	events.DELETE("/relations/:relationID", r.Controller.RemoveRelation)
}

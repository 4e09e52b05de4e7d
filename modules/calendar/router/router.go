package router

import (
	"opscal/core/middleware"
	"opscal/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	Controller *controller.CalendarController
}

func NewCalendarRouter(ctrl *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{Controller: ctrl}
}

func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	calendars := v1.Group("/private/calendars", mw.AuthMiddleware())
	calendars.POST("", r.Controller.Create)
	calendars.GET("", r.Controller.List)
	calendars.GET("/for-object", r.Controller.GetForObject)
	calendars.POST("/for-object", r.Controller.GetOrCreateForObject)
	calendars.GET("/slug/:slug", r.Controller.GetBySlug)
	calendars.GET("/:id", r.Controller.Get)
	calendars.PUT("/:id", r.Controller.Update)
	calendars.DELETE("/:id", r.Controller.Delete, mw.StaffMiddleware())
	calendars.POST("/:id/relations", r.Controller.CreateRelation)
	calendars.GET("/:id/relations", r.Controller.ListRelations)
	calendars.GET("/:id/events", r.Controller.Events)
	calendars.GET("/:id/upcoming", r.Controller.Upcoming)
	calendars.GET("/:id/occurrences", r.Controller.Occurrences)
	calendars.GET("/:id/export", r.Controller.ExportXLSX)

	schedule := v1.Group("/schedule", mw.AuthMiddleware())
	schedule.GET("/:calendarID/ical", r.Controller.ICalFeed)
}

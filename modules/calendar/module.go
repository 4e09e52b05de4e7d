package calendar

import (
	"opscal/core/database"
	"opscal/core/middleware"
	"opscal/core/relation"
	"opscal/modules/calendar/controller"
	"opscal/modules/calendar/repository"
	"opscal/modules/calendar/router"
	"opscal/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

// Init wires the calendar module. The event sources come from the event
// module, which must be initialized first.
func Init(
	e *echo.Echo,
	db database.IDatabase,
	registry *relation.Registry,
	events service.EventSource,
	occurrences service.OccurrenceSource,
	mw *middleware.Middleware,
) service.CalendarServiceInterface {
	repo := repository.NewCalendarRepository(db)
	svc := service.NewCalendarService(repo, events, occurrences, registry)
	ctrl := controller.NewCalendarController(svc)
	router.NewCalendarRouter(ctrl).Setup(e, mw)
	return svc
}

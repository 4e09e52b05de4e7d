package event

import (
	"opscal/core/database"
	"opscal/core/middleware"
	"opscal/core/relation"
	calendarRepo "opscal/modules/calendar/repository"
	"opscal/modules/event/controller"
	"opscal/modules/event/repository"
	"opscal/modules/event/router"
	"opscal/modules/event/service"
	ruleRepo "opscal/modules/rule/repository"

	"github.com/labstack/echo/v4"
)

// Module bundles the event services so sibling modules (calendar feeds,
// notification workers) can reach them after Init.
type Module struct {
	Events      service.EventServiceInterface
	Occurrences service.OccurrenceServiceInterface
	Repository  repository.EventRepository
}

func Init(
	e *echo.Echo,
	db database.IDatabase,
	registry *relation.Registry,
	reminders service.ReminderScheduler,
	mw *middleware.Middleware,
) *Module {
	eventRepository := repository.NewEventRepository(db)
	occurrenceRepository := repository.NewOccurrenceRepository(db)
	relationRepository := repository.NewRelationRepository(db)
	rules := ruleRepo.NewRuleRepository(db)
	calendars := calendarRepo.NewCalendarRepository(db)

	events := service.NewEventService(eventRepository, relationRepository, rules, calendars, registry, reminders)
	occurrences := service.NewOccurrenceService(eventRepository, occurrenceRepository, rules)

	ctrl := controller.NewEventController(events, occurrences)
	router.NewEventRouter(ctrl).Setup(e, mw)

	return &Module{Events: events, Occurrences: occurrences, Repository: eventRepository}
}

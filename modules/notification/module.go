package notification

import (
	"opscal/core/constants"
	"opscal/core/database"
	"opscal/core/middleware"
	eventRepo "opscal/modules/event/repository"
	"opscal/modules/notification/controller"
	"opscal/modules/notification/repository"
	"opscal/modules/notification/router"
	"opscal/modules/notification/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Module exposes the pieces the server wires elsewhere: the scheduler is
// handed to the event module, the mux registration to the asynq server.
type Module struct {
	Notifications service.NotificationServiceInterface
	Scheduler     *service.ReminderScheduler
}

func Init(e *echo.Echo, db database.IDatabase, client *asynq.Client, mux *asynq.ServeMux, mw *middleware.Middleware) *Module {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)
	router.NewNotificationRouter(ctrl).Setup(e, mw)

	handler := service.NewReminderHandler(eventRepo.NewEventRepository(db), svc)
	mux.HandleFunc(constants.TaskEventReminder, handler.HandleEventReminder)

	return &Module{
		Notifications: svc,
		Scheduler:     service.NewReminderScheduler(client),
	}
}

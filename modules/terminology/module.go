package terminology

import (
	"opscal/core/database"
	"opscal/core/middleware"
	userRepo "opscal/modules/auth/repository"
	"opscal/modules/terminology/controller"
	"opscal/modules/terminology/repository"
	"opscal/modules/terminology/router"
	"opscal/modules/terminology/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) service.TerminologyServiceInterface {
	repo := repository.NewTerminologyRepository(db)
	users := userRepo.NewUserRepository(db)
	svc := service.NewTerminologyService(repo, users)
	ctrl := controller.NewTerminologyController(svc)
	router.NewTerminologyRouter(ctrl).Setup(e, mw)
	return svc
}

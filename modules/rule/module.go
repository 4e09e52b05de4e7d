package rule

import (
	"opscal/core/database"
	"opscal/core/middleware"
	"opscal/modules/rule/controller"
	"opscal/modules/rule/repository"
	"opscal/modules/rule/router"
	"opscal/modules/rule/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) service.RuleServiceInterface {
	repo := repository.NewRuleRepository(db)
	svc := service.NewRuleService(repo)
	ctrl := controller.NewRuleController(svc)
	router.NewRuleRouter(ctrl).Setup(e, mw)
	return svc
}

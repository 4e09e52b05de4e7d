package router

import (
	"opscal/core/middleware"
	"opscal/modules/rule/controller"

	"github.com/labstack/echo/v4"
)

type RuleRouter struct {
	Controller *controller.RuleController
}

func NewRuleRouter(ctrl *controller.RuleController) *RuleRouter {
	return &RuleRouter{Controller: ctrl}
}

func (r *RuleRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	rules := v1.Group("/private/rules", mw.AuthMiddleware())

	rules.GET("", r.Controller.List)
	rules.GET("/:id", r.Controller.Get)
	rules.POST("", r.Controller.Create, mw.StaffMiddleware())
	rules.DELETE("/:id", r.Controller.Delete, mw.StaffMiddleware())
}

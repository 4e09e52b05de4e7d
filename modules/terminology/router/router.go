package router

import (
	"opscal/core/middleware"
	"opscal/modules/terminology/controller"

	"github.com/labstack/echo/v4"
)

type TerminologyRouter struct {
	Controller *controller.TerminologyController
}

func NewTerminologyRouter(ctrl *controller.TerminologyController) *TerminologyRouter {
	return &TerminologyRouter{Controller: ctrl}
}

func (r *TerminologyRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	terms := v1.Group("/private/terminology", mw.AuthMiddleware())

	terms.GET("", r.Controller.Resolve)
	terms.GET("/configs", r.Controller.ListConfigs)
	terms.GET("/configs/:id", r.Controller.GetConfig)
	terms.POST("/configs", r.Controller.CreateConfig, mw.StaffMiddleware())
	terms.GET("/configs/:id/aliases", r.Controller.ListAliases)
	terms.POST("/configs/:id/aliases", r.Controller.CreateAlias, mw.StaffMiddleware())
	terms.DELETE("/aliases/:aliasID", r.Controller.DeleteAlias, mw.StaffMiddleware())
}

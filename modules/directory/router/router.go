package router

import (
	"opscal/core/middleware"
	"opscal/modules/directory/controller"

	"github.com/labstack/echo/v4"
)

type DirectoryRouter struct {
	Controller *controller.DirectoryController
}

func NewDirectoryRouter(ctrl *controller.DirectoryController) *DirectoryRouter {
	return &DirectoryRouter{Controller: ctrl}
}

func (r *DirectoryRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	private := v1.Group("/private", mw.AuthMiddleware())

	workers := private.Group("/workers")
	workers.GET("", r.Controller.ListWorkers)
	workers.GET("/:id", r.Controller.GetWorker)
	workers.POST("", r.Controller.CreateWorker, mw.StaffMiddleware())

	projects := private.Group("/projects")
	projects.GET("", r.Controller.ListProjects)
	projects.GET("/:id", r.Controller.GetProject)
	projects.POST("", r.Controller.CreateProject, mw.StaffMiddleware())
}

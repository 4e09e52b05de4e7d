package controller

import (
	"opscal/core/controller"
	"opscal/core/errors"
	"opscal/modules/directory/entity"
	"opscal/modules/directory/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type DirectoryController struct {
	controller.BaseController
	DirectoryService service.DirectoryServiceInterface
}

func NewDirectoryController(svc service.DirectoryServiceInterface) *DirectoryController {
	return &DirectoryController{
		BaseController:   controller.NewBaseController(),
		DirectoryService: svc,
	}
}

// ListWorkers handles GET /private/workers
func (c *DirectoryController) ListWorkers(ctx echo.Context) error {
	workers, appErr := c.DirectoryService.ListWorkers(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, workers, "Success")
}

// CreateWorker handles POST /private/workers (staff only)
func (c *DirectoryController) CreateWorker(ctx echo.Context) error {
	var worker entity.Worker
	if err := ctx.Bind(&worker); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	result, appErr := c.DirectoryService.CreateWorker(ctx.Request().Context(), &worker)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Worker created successfully")
}

// GetWorker handles GET /private/workers/:id
func (c *DirectoryController) GetWorker(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid worker ID")
	}
	worker, appErr := c.DirectoryService.GetWorker(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, worker, "Success")
}

// ListProjects handles GET /private/projects
func (c *DirectoryController) ListProjects(ctx echo.Context) error {
	projects, appErr := c.DirectoryService.ListProjects(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, projects, "Success")
}

// CreateProject handles POST /private/projects (staff only)
func (c *DirectoryController) CreateProject(ctx echo.Context) error {
	var project entity.Project
	if err := ctx.Bind(&project); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	result, appErr := c.DirectoryService.CreateProject(ctx.Request().Context(), &project)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Project created successfully")
}

// GetProject handles GET /private/projects/:id
func (c *DirectoryController) GetProject(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid project ID")
	}
	project, appErr := c.DirectoryService.GetProject(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, project, "Success")
}

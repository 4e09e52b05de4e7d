package controller

import (
	"opscal/core/controller"
	"opscal/core/errors"
	authController "opscal/modules/auth/controller"
	"opscal/modules/terminology/entity"
	"opscal/modules/terminology/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type TerminologyController struct {
	controller.BaseController
	TerminologyService service.TerminologyServiceInterface
}

func NewTerminologyController(svc service.TerminologyServiceInterface) *TerminologyController {
	return &TerminologyController{
		BaseController:     controller.NewBaseController(),
		TerminologyService: svc,
	}
}

// Resolve handles GET /private/terminology. Returns the vocabulary for the
// authenticated user's deployment.
func (c *TerminologyController) Resolve(ctx echo.Context) error {
	userID, err := authController.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	terms, appErr := c.TerminologyService.ResolveForUser(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, terms, "Success")
}

// ListConfigs handles GET /private/terminology/configs
func (c *TerminologyController) ListConfigs(ctx echo.Context) error {
	cfgs, appErr := c.TerminologyService.ListConfigs(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, cfgs, "Success")
}

// GetConfig handles GET /private/terminology/configs/:id
func (c *TerminologyController) GetConfig(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid configuration ID")
	}
	cfg, appErr := c.TerminologyService.GetConfig(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, cfg, "Success")
}

// CreateConfig handles POST /private/terminology/configs (staff only)
func (c *TerminologyController) CreateConfig(ctx echo.Context) error {
	var cfg entity.BusinessConfiguration
	if err := ctx.Bind(&cfg); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	created, appErr := c.TerminologyService.CreateConfig(ctx.Request().Context(), &cfg)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, created, "Configuration created successfully")
}

// CreateAlias handles POST /private/terminology/configs/:id/aliases (staff only)
func (c *TerminologyController) CreateAlias(ctx echo.Context) error {
	configID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid configuration ID")
	}
	var alias entity.TerminologyAlias
	if err := ctx.Bind(&alias); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	alias.BusinessConfigID = configID
	created, appErr := c.TerminologyService.CreateAlias(ctx.Request().Context(), &alias)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, created, "Alias created successfully")
}

// ListAliases handles GET /private/terminology/configs/:id/aliases
func (c *TerminologyController) ListAliases(ctx echo.Context) error {
	configID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid configuration ID")
	}
	aliases, appErr := c.TerminologyService.ListAliases(ctx.Request().Context(), configID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, aliases, "Success")
}

// DeleteAlias handles DELETE /private/terminology/aliases/:aliasID (staff only)
func (c *TerminologyController) DeleteAlias(ctx echo.Context) error {
	aliasID, err := uuid.Parse(ctx.Param("aliasID"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid alias ID")
	}
	if appErr := c.TerminologyService.DeleteAlias(ctx.Request().Context(), aliasID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Alias deleted successfully")
}

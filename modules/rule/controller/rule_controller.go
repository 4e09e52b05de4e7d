package controller

import (
	"opscal/core/controller"
	"opscal/core/errors"
	"opscal/modules/rule/entity"
	"opscal/modules/rule/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type RuleController struct {
	controller.BaseController
	RuleService service.RuleServiceInterface
}

func NewRuleController(svc service.RuleServiceInterface) *RuleController {
	return &RuleController{
		BaseController: controller.NewBaseController(),
		RuleService:    svc,
	}
}

// List handles GET /private/rules
func (c *RuleController) List(ctx echo.Context) error {
	rules, appErr := c.RuleService.List(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, rules, "Success")
}

// Get handles GET /private/rules/:id
func (c *RuleController) Get(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid rule ID")
	}
	rule, appErr := c.RuleService.Get(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, rule, "Success")
}

// Create handles POST /private/rules (staff only)
func (c *RuleController) Create(ctx echo.Context) error {
	var rule entity.Rule
	if err := ctx.Bind(&rule); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	result, appErr := c.RuleService.Create(ctx.Request().Context(), &rule)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Rule created successfully")
}

// Delete handles DELETE /private/rules/:id (staff only). Cascades to events.
func (c *RuleController) Delete(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid rule ID")
	}
	if appErr := c.RuleService.Delete(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Rule deleted (dependent events removed)")
}

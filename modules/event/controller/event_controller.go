package controller

import (
	"opscal/core/controller"
	"opscal/core/errors"
	authController "opscal/modules/auth/controller"
	"opscal/modules/event/dto"
	"opscal/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EventController struct {
	controller.BaseController
	EventService      service.EventServiceInterface
	OccurrenceService service.OccurrenceServiceInterface
}

func NewEventController(events service.EventServiceInterface, occurrences service.OccurrenceServiceInterface) *EventController {
	return &EventController{
		BaseController:    controller.NewBaseController(),
		EventService:      events,
		OccurrenceService: occurrences,
	}
}

// Create handles POST /private/events
func (c *EventController) Create(ctx echo.Context) error {
	claims, err := authController.ClaimsFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	event, appErr := c.EventService.Create(ctx.Request().Context(), &req, claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, event, "Event created successfully")
}

// Get handles GET /private/events/:id
func (c *EventController) Get(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}
	event, appErr := c.EventService.Get(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, event, "Success")
}

// Update handles PUT /private/events/:id
func (c *EventController) Update(ctx echo.Context) error {
	claims, err := authController.ClaimsFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}
	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	event, appErr := c.EventService.Update(ctx.Request().Context(), id, &req, claims.UserID, claims.IsStaff)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, event, "Event updated successfully")
}

// TransitionStatus handles POST /private/events/:id/status
func (c *EventController) TransitionStatus(ctx echo.Context) error {
	claims, err := authController.ClaimsFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}
	var req dto.TransitionStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	event, appErr := c.EventService.TransitionStatus(ctx.Request().Context(), id, &req, claims.UserID, claims.IsStaff)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, event, "Event status updated")
}

// Delete handles DELETE /private/events/:id
func (c *EventController) Delete(ctx echo.Context) error {
	claims, err := authController.ClaimsFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}
	if appErr := c.EventService.Delete(ctx.Request().Context(), id, claims.UserID, claims.IsStaff); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Event deleted successfully")
}

// Occurrences handles GET /private/events/:id/occurrences?from=&to=
func (c *EventController) Occurrences(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}
	var query dto.OccurrenceQuery
	if err := ctx.Bind(&query); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid date range")
	}
	includeCancelled := ctx.QueryParam("include_cancelled") == "true"

	occs, appErr := c.OccurrenceService.OccurrencesInRange(ctx.Request().Context(), id, query.From, query.To, includeCancelled)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	resp := make([]dto.OccurrenceResponse, 0, len(occs))
	for _, o := range occs {
		resp = append(resp, dto.NewOccurrenceResponse(o))
	}
	return c.SuccessResponse(ctx, resp, "Success")
}

// MoveOccurrence handles PUT /private/events/:id/occurrences/move
func (c *EventController) MoveOccurrence(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}
	var req dto.MoveOccurrenceRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	occ, appErr := c.OccurrenceService.Move(ctx.Request().Context(), id,
		req.OriginalStart, req.Start, req.End, req.Notes)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.NewOccurrenceResponse(*occ), "Occurrence moved")
}

// CancelOccurrence handles PUT /private/events/:id/occurrences/cancel
func (c *EventController) CancelOccurrence(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}
	var req dto.CancelOccurrenceRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	occ, appErr := c.OccurrenceService.Cancel(ctx.Request().Context(), id, req.OriginalStart, req.Notes)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.NewOccurrenceResponse(*occ), "Occurrence cancelled")
}

// UncancelOccurrence handles PUT /private/events/:id/occurrences/uncancel
func (c *EventController) UncancelOccurrence(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}
	var req dto.CancelOccurrenceRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	occ, appErr := c.OccurrenceService.Uncancel(ctx.Request().Context(), id, req.OriginalStart)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.NewOccurrenceResponse(*occ), "Occurrence restored")
}

// AddRelation handles POST /private/events/:id/relations
func (c *EventController) AddRelation(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}
	var req dto.CreateEventRelationRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	rel, appErr := c.EventService.AddRelation(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, rel, "Relation created successfully")
}

// ListRelations handles GET /private/events/:id/relations
func (c *EventController) ListRelations(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}
	rels, appErr := c.EventService.ListRelations(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, rels, "Success")
}

// Respond handles PUT /private/events/relations/:relationID/respond
func (c *EventController) Respond(ctx echo.Context) error {
	relationID, err := uuid.Parse(ctx.Param("relationID"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid relation ID")
	}
	var req dto.RespondRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	rel, appErr := c.EventService.Respond(ctx.Request().Context(), relationID, req.Response)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, rel, "Response recorded")
}

// RemoveRelation handles DELETE /private/events/relations/:relationID
func (c *EventController) RemoveRelation(ctx echo.Context) error {
	relationID, err := uuid.Parse(ctx.Param("relationID"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid relation ID")
	}
	if appErr := c.EventService.RemoveRelation(ctx.Request().Context(), relationID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Relation deleted successfully")
}

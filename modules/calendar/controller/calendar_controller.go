package controller

import (
	"net/http"
	"time"

	"opscal/core/constants"
	"opscal/core/controller"
	"opscal/core/errors"
	authController "opscal/modules/auth/controller"
	"opscal/modules/calendar/dto"
	"opscal/modules/calendar/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	controller.BaseController
	CalendarService service.CalendarServiceInterface
}

func NewCalendarController(svc service.CalendarServiceInterface) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		CalendarService: svc,
	}
}

// Create handles POST /private/calendars
func (c *CalendarController) Create(ctx echo.Context) error {
	userID, err := authController.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	var req dto.CreateCalendarRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	cal, appErr := c.CalendarService.Create(ctx.Request().Context(), &req, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, cal, "Calendar created successfully")
}

// List handles GET /private/calendars
func (c *CalendarController) List(ctx echo.Context) error {
	cals, appErr := c.CalendarService.List(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, cals, "Success")
}

// Get handles GET /private/calendars/:id
func (c *CalendarController) Get(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid calendar ID")
	}
	cal, appErr := c.CalendarService.Get(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, cal, "Success")
}

// GetBySlug handles GET /private/calendars/slug/:slug
func (c *CalendarController) GetBySlug(ctx echo.Context) error {
	cal, appErr := c.CalendarService.GetBySlug(ctx.Request().Context(), ctx.Param("slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, cal, "Success")
}

// Update handles PUT /private/calendars/:id
func (c *CalendarController) Update(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid calendar ID")
	}
	var req dto.UpdateCalendarRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	cal, appErr := c.CalendarService.Update(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, cal, "Calendar updated successfully")
}

// Delete handles DELETE /private/calendars/:id (staff only). Cascades to
// events.
func (c *CalendarController) Delete(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid calendar ID")
	}
	if appErr := c.CalendarService.Delete(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Calendar deleted (events removed)")
}

// CreateRelation handles POST /private/calendars/:id/relations
func (c *CalendarController) CreateRelation(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid calendar ID")
	}
	var req dto.CreateRelationRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	rel, appErr := c.CalendarService.CreateRelation(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, rel, "Relation created successfully")
}

// ListRelations handles GET /private/calendars/:id/relations
func (c *CalendarController) ListRelations(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid calendar ID")
	}
	rels, appErr := c.CalendarService.ListRelations(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, rels, "Success")
}

// GetForObject handles GET /private/calendars/for-object?kind=&target_id=&distinction=
func (c *CalendarController) GetForObject(ctx echo.Context) error {
	var query dto.ForObjectQuery
	if err := ctx.Bind(&query); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid query parameters")
	}
	cal, appErr := c.CalendarService.GetCalendarForObject(ctx.Request().Context(), query.TargetKind, query.TargetID, query.Distinction)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, cal, "Success")
}

// GetOrCreateForObject handles POST /private/calendars/for-object
func (c *CalendarController) GetOrCreateForObject(ctx echo.Context) error {
	userID, err := authController.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	var req dto.GetOrCreateForObjectRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	cal, appErr := c.CalendarService.GetOrCreateCalendarForObject(ctx.Request().Context(), &req, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, cal, "Success")
}

// Events handles GET /private/calendars/:id/events?from=&to=
func (c *CalendarController) Events(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid calendar ID")
	}
	var query dto.DateRangeQuery
	if err := ctx.Bind(&query); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid date range")
	}
	events, appErr := c.CalendarService.EventsForDateRange(ctx.Request().Context(), id, query.From, query.To)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, events, "Success")
}

// Upcoming handles GET /private/calendars/:id/upcoming
func (c *CalendarController) Upcoming(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid calendar ID")
	}
	events, appErr := c.CalendarService.UpcomingEvents(ctx.Request().Context(), id, time.Now().UTC(), constants.UpcomingEventsHorizon)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, events, "Success")
}

// Occurrences handles GET /private/calendars/:id/occurrences?from=&to=
func (c *CalendarController) Occurrences(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid calendar ID")
	}
	var query dto.DateRangeQuery
	if err := ctx.Bind(&query); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid date range")
	}
	occs, appErr := c.CalendarService.OccurrencesForDateRange(ctx.Request().Context(), id, query.From, query.To)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, occs, "Success")
}

// ICalFeed handles GET /schedule/:calendarID/ical and serves the raw
// iCalendar document rather than the JSON envelope.
func (c *CalendarController) ICalFeed(ctx echo.Context) error {
	calendarID, err := uuid.Parse(ctx.Param("calendarID"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid calendar ID")
	}
	feed, appErr := c.CalendarService.ICalFeed(ctx.Request().Context(), calendarID, time.Now().UTC())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// ExportXLSX handles GET /private/calendars/:id/export?from=&to=
func (c *CalendarController) ExportXLSX(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid calendar ID")
	}
	var query dto.DateRangeQuery
	if err := ctx.Bind(&query); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid date range")
	}
	buf, filename, appErr := c.CalendarService.ExportXLSX(ctx.Request().Context(), id, query.From, query.To)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

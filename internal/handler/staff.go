package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-seating/internal/layout"
	"github.com/iliyamo/bus-seating/internal/middleware"
	"github.com/iliyamo/bus-seating/internal/model"
	"github.com/iliyamo/bus-seating/internal/repository"
	"github.com/iliyamo/bus-seating/internal/service"
)

// StaffHandler serves the staff seating endpoints.
type StaffHandler struct {
	Templates *service.TemplateService
	Configs   *service.BusConfigService
	Ledger    *service.LedgerService
}

// NewStaffHandler panics if any service is nil.
func NewStaffHandler(templates *service.TemplateService, configs *service.BusConfigService, ledger *service.LedgerService) *StaffHandler {
	if templates == nil || configs == nil || ledger == nil {
		panic("nil service passed to NewStaffHandler")
	}
	return &StaffHandler{Templates: templates, Configs: configs, Ledger: ledger}
}

// ListTemplates handles GET /v1/templates.
func (h *StaffHandler) ListTemplates(c echo.Context) error {
	list, err := h.Templates.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if list == nil {
		list = []model.LayoutTemplate{}
	}
	return c.JSON(http.StatusOK, echo.Map{"templates": list})
}

// CreateTemplate handles POST /v1/templates.
func (h *StaffHandler) CreateTemplate(c echo.Context) error {
	var body service.TemplateInput
	if err := c.Bind(&body); err != nil {
		return badBody(c)
	}
	t, err := h.Templates.Create(c.Request().Context(), body)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// GetTemplate handles GET /v1/templates/:id.
func (h *StaffHandler) GetTemplate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	t, err := h.Templates.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// DeleteTemplate handles DELETE /v1/templates/:id.
func (h *StaffHandler) DeleteTemplate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Templates.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateBusConfig handles POST /v1/bus-configs. The body names either a
// template_id or a full set of params, never both.
func (h *StaffHandler) CreateBusConfig(c echo.Context) error {
	var body struct {
		TripID     uint64            `json:"trip_id"`
		TemplateID *uint64           `json:"template_id"`
		Params     *layout.Params    `json:"params"`
		Amenities  *layout.Amenities `json:"amenities"`
	}
	if err := c.Bind(&body); err != nil {
		return badBody(c)
	}
	var src service.Source
	switch {
	case body.TemplateID != nil && body.Params != nil:
		return writeError(c, &layout.ValidationError{Field: "template_id", Reason: "give either template_id or params, not both"})
	case body.TemplateID != nil:
		src = service.FromTemplate{TemplateID: *body.TemplateID}
	case body.Params != nil:
		m := service.Manual{Params: *body.Params}
		if body.Amenities != nil {
			m.Amenities = *body.Amenities
		}
		src = m
	}
	cfg, err := h.Configs.Create(c.Request().Context(), body.TripID, src)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, cfg)
}

// GetBusConfig handles GET /v1/bus-configs/:id.
func (h *StaffHandler) GetBusConfig(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	desc, err := h.Configs.Describe(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, desc)
}

// GetTripBusConfig handles GET /v1/trips/:trip_id/bus-config.
func (h *StaffHandler) GetTripBusConfig(c echo.Context) error {
	tripID, err := pathID(c, "trip_id")
	if err != nil {
		return writeError(c, err)
	}
	desc, err := h.Configs.DescribeTrip(c.Request().Context(), tripID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, desc)
}

// DeleteBusConfig handles DELETE /v1/bus-configs/:id?confirm=true. Without
// the confirmation it reports how many seats would be lost and deletes
// nothing.
func (h *StaffHandler) DeleteBusConfig(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	ctx := c.Request().Context()
	if c.QueryParam("confirm") != "true" {
		if _, err := h.Configs.Describe(ctx, id); err != nil {
			return writeError(c, err)
		}
		occ, err := h.Ledger.ListByConfig(ctx, id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":       "confirmation_required",
			"message":     "deleting a bus configuration removes every seat assignment in it; repeat with ?confirm=true",
			"assignments": len(occ),
		})
	}
	removed, err := h.Configs.Delete(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	c.Logger().Infof("bus config %d deleted by staff %d, %d assignments removed", id, middleware.StaffID(c), removed)
	return c.JSON(http.StatusOK, echo.Map{"deleted": id, "assignments_removed": removed})
}

// PromoteBusConfig handles POST /v1/bus-configs/:id/promote.
func (h *StaffHandler) PromoteBusConfig(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return badBody(c)
	}
	t, err := h.Templates.PromoteConfig(c.Request().Context(), id, body.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// ListAssignments handles GET /v1/bus-configs/:id/assignments.
func (h *StaffHandler) ListAssignments(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	occ, err := h.Ledger.ListByConfig(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"assignments": occ})
}

// AvailableSeats handles GET /v1/bus-configs/:id/available.
func (h *StaffHandler) AvailableSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	free, err := h.Ledger.AvailableSeats(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"available": free})
}

// SeatMap handles GET /v1/bus-configs/:id/seat-map.
func (h *StaffHandler) SeatMap(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	sm, err := h.Ledger.SeatMap(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sm)
}

// AssignSeat handles POST /v1/bus-configs/:id/assignments. A conflict
// answers 409 with the seats still free.
func (h *StaffHandler) AssignSeat(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body struct {
		ParticipantID uint64 `json:"participant_id"`
		SeatNumber    int    `json:"seat_number"`
	}
	if err := c.Bind(&body); err != nil {
		return badBody(c)
	}
	ctx := c.Request().Context()
	a, err := h.Ledger.Assign(ctx, id, body.ParticipantID, body.SeatNumber)
	if errors.Is(err, repository.ErrSeatTaken) {
		free, ferr := h.Ledger.AvailableSeats(ctx, id)
		if ferr != nil {
			return writeError(c, ferr)
		}
		err = &service.SeatTakenError{Seat: body.SeatNumber, Available: free}
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

// Unassign handles DELETE /v1/assignments/:id.
func (h *StaffHandler) Unassign(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Ledger.Unassign(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

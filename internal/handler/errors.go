package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-seating/internal/layout"
	"github.com/iliyamo/bus-seating/internal/repository"
	"github.com/iliyamo/bus-seating/internal/service"
)

// writeError maps a service error to its HTTP status and JSON body.
func writeError(c echo.Context, err error) error {
	var (
		taken *service.SeatTakenError
		verr  *layout.ValidationError
	)
	switch {
	case errors.As(err, &taken):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":       "seat_taken",
			"message":     taken.Error(),
			"seat_number": taken.Seat,
			"available":   taken.Available,
		})
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed", "field": verr.Field, "message": verr.Error()})
	case errors.Is(err, layout.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed", "message": err.Error()})
	case repository.IsNotFound(err):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": notFoundMessage(err)})
	case errors.Is(err, repository.ErrSeatTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat_taken", "message": "seat already taken"})
	case errors.Is(err, repository.ErrParticipantSeated):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "participant_already_seated", "message": "participant already has a seat on this bus"})
	case errors.Is(err, repository.ErrConfigExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "config_exists", "message": "trip already has a bus configuration"})
	case errors.Is(err, service.ErrTokenInvalid):
		return c.JSON(http.StatusGone, echo.Map{"error": "link_invalid", "message": "this seat selection link is invalid or has expired"})
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "internal server error"})
}

func notFoundMessage(err error) string {
	for _, target := range []error{
		repository.ErrTemplateNotFound,
		repository.ErrConfigNotFound,
		repository.ErrAssignmentNotFound,
		repository.ErrTokenNotFound,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "not found"
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &layout.ValidationError{Field: name, Reason: "must be a positive integer"}
	}
	return id, nil
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_body", "message": "invalid request body"})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-seating/internal/service"
)

// ClaimHandler serves the passenger self-service links. The raw token in
// the path is the only credential.
type ClaimHandler struct {
	Claims *service.ClaimService
}

func NewClaimHandler(claims *service.ClaimService) *ClaimHandler {
	if claims == nil {
		panic("nil claim service passed to NewClaimHandler")
	}
	return &ClaimHandler{Claims: claims}
}

// Open handles GET /v1/claim/:token.
func (h *ClaimHandler) Open(c echo.Context) error {
	view, err := h.Claims.Open(c.Request().Context(), c.Param("token"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Claim handles POST /v1/claim/:token. A passenger who already holds a
// seat gets 200 with that seat; a fresh claim gets 201.
func (h *ClaimHandler) Claim(c echo.Context) error {
	var body struct {
		SeatNumber int `json:"seat_number"`
	}
	if err := c.Bind(&body); err != nil {
		return badBody(c)
	}
	res, err := h.Claims.Claim(c.Request().Context(), c.Param("token"), body.SeatNumber)
	if err != nil {
		return writeError(c, err)
	}
	status := http.StatusCreated
	if res.AlreadySeated {
		status = http.StatusOK
	}
	return c.JSON(status, res)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-seating/internal/layout"
)

var previewParams = []string{"rows", "seats_per_row", "left_rows", "right_rows", "door_row_position", "last_row_seats"}

// PreviewLayout handles GET /v1/layouts/preview. It generates a seat map
// from query parameters without storing anything.
func PreviewLayout(c echo.Context) error {
	values := make(map[string]*int, len(previewParams))
	for _, name := range previewParams {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return writeError(c, &layout.ValidationError{Field: name, Reason: "must be an integer"})
		}
		values[name] = &n
	}
	p := layout.Params{
		Family:          layout.Family(c.QueryParam("family")),
		Rows:            values["rows"],
		SeatsPerRow:     values["seats_per_row"],
		LeftRows:        values["left_rows"],
		RightRows:       values["right_rows"],
		DoorRowPosition: values["door_row_position"],
		LastRowSeats:    values["last_row_seats"],
	}
	g, err := p.Geometry()
	if err != nil {
		return writeError(c, err)
	}
	m, err := layout.Generate(g)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"params": layout.ParamsOf(g), "map": m, "rows": m.Rows()})
}

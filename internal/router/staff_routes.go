package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-seating/internal/handler"
	"github.com/iliyamo/bus-seating/internal/middleware"
	"github.com/iliyamo/bus-seating/internal/utils"
)

// RegisterStaff registers STAFF-scoped endpoints under /v1.
// All routes require a valid JWT and the STAFF role.
func RegisterStaff(e *echo.Echo, s *handler.StaffHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleStaff),
	)

	// ---- Templates ----
	g.GET("/templates", s.ListTemplates)
	g.POST("/templates", s.CreateTemplate)
	g.GET("/templates/:id", s.GetTemplate)
	g.DELETE("/templates/:id", s.DeleteTemplate)

	// ---- Bus configurations ----
	g.POST("/bus-configs", s.CreateBusConfig)
	g.GET("/bus-configs/:id", s.GetBusConfig)
	g.DELETE("/bus-configs/:id", s.DeleteBusConfig) // requires ?confirm=true
	g.POST("/bus-configs/:id/promote", s.PromoteBusConfig)
	g.GET("/trips/:trip_id/bus-config", s.GetTripBusConfig)

	// ---- Seats ----
	g.GET("/bus-configs/:id/assignments", s.ListAssignments)
	g.POST("/bus-configs/:id/assignments", s.AssignSeat)
	g.GET("/bus-configs/:id/available", s.AvailableSeats)
	g.GET("/bus-configs/:id/seat-map", s.SeatMap)
	g.DELETE("/assignments/:id", s.Unassign)
}

package model

import (
	"time"

	"github.com/iliyamo/bus-seating/internal/layout"
)

// BusConfig is the seating instance of a single trip. It holds its own
// copy of the geometry; TemplateID only records where the copy came from.
// TotalSeats is fixed at creation: reshaping a bus means deleting the
// configuration (and every assignment in it) and creating a new one.
type BusConfig struct {
	ID         uint64           `json:"id"`
	TripID     uint64           `json:"trip_id"`
	TemplateID *uint64          `json:"template_id,omitempty"`
	Params     layout.Params    `json:"params"`
	Amenities  layout.Amenities `json:"amenities"`
	TotalSeats int              `json:"total_seats"`
	CreatedAt  time.Time        `json:"created_at"`
}

// Geometry resolves the stored parameters.
func (c *BusConfig) Geometry() (layout.Geometry, error) { return c.Params.Geometry() }

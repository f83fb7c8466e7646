package model

import (
	"time"

	"github.com/iliyamo/bus-seating/internal/layout"
)

// LayoutTemplate is a named, reusable bus geometry ("bus type"). Templates
// are append-only: changing a shape means creating a new template.
// Configurations copy the parameters in, so deleting a template never
// changes a live seat map.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – display name shown in the bus type picker.
//  IsCustom   – true when promoted from a manual configuration.
//  Params     – geometry parameters (one family only).
//  Amenities  – advisory flags (driver/guide seat, doors, toilet).
//  TotalSeats – derived from Params when the template is created.
//  CreatedAt  – creation timestamp.
type LayoutTemplate struct {
	ID         uint64           `json:"id"`
	Name       string           `json:"name"`
	IsCustom   bool             `json:"is_custom"`
	Params     layout.Params    `json:"params"`
	Amenities  layout.Amenities `json:"amenities"`
	TotalSeats int              `json:"total_seats"`
	CreatedAt  time.Time        `json:"created_at"`
}

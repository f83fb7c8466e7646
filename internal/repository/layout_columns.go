package repository

import (
	"database/sql"

	"github.com/iliyamo/bus-seating/internal/layout"
)

// layoutCols lists the geometry and amenity columns shared by
// layout_templates and bus_configurations, in scan order.
const layoutCols = `family, rows_count, seats_per_row, left_rows, right_rows, door_row_position, last_row_seats,
	driver_seat, guide_seat, front_door, rear_door, toilet, total_seats`

// layoutRow holds the nullable column values of one geometry.
type layoutRow struct {
	Family          string
	Rows            sql.NullInt32
	SeatsPerRow     sql.NullInt32
	LeftRows        sql.NullInt32
	RightRows       sql.NullInt32
	DoorRowPosition sql.NullInt32
	LastRowSeats    int
	Amenities       layout.Amenities
	TotalSeats      int
}

func (l *layoutRow) dest() []any {
	return []any{
		&l.Family, &l.Rows, &l.SeatsPerRow, &l.LeftRows, &l.RightRows, &l.DoorRowPosition, &l.LastRowSeats,
		&l.Amenities.DriverSeat, &l.Amenities.GuideSeat, &l.Amenities.FrontDoor, &l.Amenities.RearDoor, &l.Amenities.Toilet,
		&l.TotalSeats,
	}
}

func (l *layoutRow) params() layout.Params {
	last := l.LastRowSeats
	return layout.Params{
		Family:          layout.Family(l.Family),
		Rows:            nullIntPtr(l.Rows),
		SeatsPerRow:     nullIntPtr(l.SeatsPerRow),
		LeftRows:        nullIntPtr(l.LeftRows),
		RightRows:       nullIntPtr(l.RightRows),
		DoorRowPosition: nullIntPtr(l.DoorRowPosition),
		LastRowSeats:    &last,
	}
}

// layoutArgs returns the insert arguments matching layoutCols.
func layoutArgs(p layout.Params, a layout.Amenities, total int) []any {
	last := 0
	if p.LastRowSeats != nil {
		last = *p.LastRowSeats
	}
	return []any{
		string(p.Family), intPtrArg(p.Rows), intPtrArg(p.SeatsPerRow), intPtrArg(p.LeftRows),
		intPtrArg(p.RightRows), intPtrArg(p.DoorRowPosition), last,
		a.DriverSeat, a.GuideSeat, a.FrontDoor, a.RearDoor, a.Toilet,
		total,
	}
}

func nullIntPtr(n sql.NullInt32) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int32)
	return &v
}

func intPtrArg(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

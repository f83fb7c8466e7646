package layout

import "fmt"

// Side tells which part of the bus a seat is on.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
	SideBack  Side = "back"
)

// Seat is one numbered position on the map.
type Seat struct {
	Number    int  `json:"seat_number"`
	Row       int  `json:"row"`
	Side      Side `json:"side"`
	IsLastRow bool `json:"is_last_row"`
}

// Map is the generated seat geometry. Seats are ordered by number, so
// Seats[n-1] is seat n. RearDoorRow and DoorRow are markers only and are -1
// when the family has none.
type Map struct {
	Family      Family `json:"family"`
	TotalSeats  int    `json:"total_seats"`
	BenchRow    int    `json:"bench_row"`
	RearDoorRow int    `json:"rear_door_row"`
	DoorRow     int    `json:"door_row"`
	Seats       []Seat `json:"seats"`
}

// TotalSeats validates g and returns its seat count from the closed-form
// formula of its family.
func TotalSeats(g Geometry) (int, error) {
	if g == nil {
		return 0, invalid("params", "no geometry given")
	}
	if err := g.Validate(); err != nil {
		return 0, err
	}
	switch t := g.(type) {
	case Standard:
		return t.totalSeats(), nil
	case Asymmetric:
		return t.totalSeats(), nil
	}
	return 0, fmt.Errorf("%w: unknown geometry %T", ErrValidation, g)
}

// Generate produces the seat map for g.
func Generate(g Geometry) (*Map, error) {
	total, err := TotalSeats(g)
	if err != nil {
		return nil, err
	}
	m := &Map{
		Family:      g.Family(),
		TotalSeats:  total,
		RearDoorRow: -1,
		DoorRow:     -1,
		Seats:       make([]Seat, 0, total),
	}
	next := 1
	emit := func(row int, side Side, count int) {
		for i := 0; i < count; i++ {
			m.Seats = append(m.Seats, Seat{Number: next, Row: row, Side: side, IsLastRow: side == SideBack})
			next++
		}
	}

	switch t := g.(type) {
	case Standard:
		half := t.SeatsPerRow / 2
		for row := 0; row < t.NormalRows(); row++ {
			emit(row, SideLeft, half)
			emit(row, SideRight, half)
		}
		m.BenchRow = t.NormalRows()
		if t.NormalRows() > 0 {
			m.RearDoorRow = t.NormalRows() / 2
		}
		emit(m.BenchRow, SideBack, t.LastRowSeats)
	case Asymmetric:
		for row := 0; row < t.RowCount(); row++ {
			if row < t.LeftRows {
				emit(row, SideLeft, asymmetricSideSeats)
			}
			if row < t.RightRows {
				emit(row, SideRight, asymmetricSideSeats)
			}
		}
		m.BenchRow = t.RowCount()
		m.DoorRow = t.DoorRowPosition
		emit(m.BenchRow, SideBack, t.LastRowSeats)
	}
	return m, nil
}

// Contains reports whether n is a seat number on this map.
func (m *Map) Contains(n int) bool { return n >= 1 && n <= m.TotalSeats }

// Seat returns the descriptor for seat n.
func (m *Map) Seat(n int) (Seat, bool) {
	if !m.Contains(n) {
		return Seat{}, false
	}
	return m.Seats[n-1], true
}

// CheckSeat returns a validation error when n is not on the map.
func (m *Map) CheckSeat(n int) error { return CheckSeatNumber(n, m.TotalSeats) }

// CheckSeatNumber validates n against a seat count without building a map.
func CheckSeatNumber(n, totalSeats int) error {
	if n < 1 || n > totalSeats {
		return invalid("seat_number", "must be between 1 and %d, got %d", totalSeats, n)
	}
	return nil
}

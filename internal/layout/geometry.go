// Package layout turns a small set of bus geometry parameters into a
// deterministic, numbered seat map. Everything here is pure: the same
// parameters always yield the same seats.
package layout

// Family identifies which parameter shape a geometry uses.
type Family string

const (
	FamilyStandard   Family = "STANDARD"
	FamilyAsymmetric Family = "ASYMMETRIC"
)

// Bounds applied by Validate.
const (
	MaxRows         = 30
	MinSeatsPerRow  = 2
	MaxSeatsPerRow  = 6
	MinLastRowSeats = 3
	MaxLastRowSeats = 6
)

// Geometry is either a Standard or an Asymmetric layout. The set is closed.
type Geometry interface {
	Family() Family
	Validate() error
	geometry()
}

// Standard is the symmetric family: Rows includes the back bench row, so
// Rows-1 normal rows of SeatsPerRow seats precede it.
type Standard struct {
	Rows         int `json:"rows" yaml:"rows"`
	SeatsPerRow  int `json:"seats_per_row" yaml:"seats_per_row"`
	LastRowSeats int `json:"last_row_seats" yaml:"last_row_seats"`
}

func (Standard) Family() Family { return FamilyStandard }
func (Standard) geometry()      {}

// NormalRows is the number of rows in front of the back bench.
func (g Standard) NormalRows() int { return g.Rows - 1 }

func (g Standard) Validate() error {
	if g.Rows < 1 || g.Rows > MaxRows {
		return invalid("rows", "must be between 1 and %d, got %d", MaxRows, g.Rows)
	}
	if g.SeatsPerRow < MinSeatsPerRow || g.SeatsPerRow > MaxSeatsPerRow {
		return invalid("seats_per_row", "must be between %d and %d, got %d", MinSeatsPerRow, MaxSeatsPerRow, g.SeatsPerRow)
	}
	if g.SeatsPerRow%2 != 0 {
		return invalid("seats_per_row", "must be even so both sides hold the same number of seats, got %d", g.SeatsPerRow)
	}
	return validateLastRow(g.LastRowSeats)
}

func (g Standard) totalSeats() int {
	return g.NormalRows()*g.SeatsPerRow + g.LastRowSeats
}

// Asymmetric has independent left and right row counts. Every row holds two
// seats per side; DoorRowPosition marks where the mid-bus door sits on the
// right side and does not remove any seat.
type Asymmetric struct {
	LeftRows        int `json:"left_rows" yaml:"left_rows"`
	RightRows       int `json:"right_rows" yaml:"right_rows"`
	DoorRowPosition int `json:"door_row_position" yaml:"door_row_position"`
	LastRowSeats    int `json:"last_row_seats" yaml:"last_row_seats"`
}

// seats per side in every asymmetric row
const asymmetricSideSeats = 2

func (Asymmetric) Family() Family { return FamilyAsymmetric }
func (Asymmetric) geometry()      {}

// RowCount is the number of row indexes in front of the back bench.
func (g Asymmetric) RowCount() int { return max(g.LeftRows, g.RightRows) }

func (g Asymmetric) Validate() error {
	if g.LeftRows < 1 || g.LeftRows > MaxRows {
		return invalid("left_rows", "must be between 1 and %d, got %d", MaxRows, g.LeftRows)
	}
	if g.RightRows < 1 || g.RightRows > MaxRows {
		return invalid("right_rows", "must be between 1 and %d, got %d", MaxRows, g.RightRows)
	}
	// The door can take the space of at most one row on one side. A wider
	// gap would mean rows with unequal seat counts, which the numbering
	// does not model.
	if diff := g.LeftRows - g.RightRows; diff > 1 || diff < -1 {
		return invalid("right_rows", "left_rows (%d) and right_rows (%d) may differ by at most one", g.LeftRows, g.RightRows)
	}
	if g.DoorRowPosition < 0 || g.DoorRowPosition >= g.RowCount() {
		return invalid("door_row_position", "must be between 0 and %d, got %d", g.RowCount()-1, g.DoorRowPosition)
	}
	return validateLastRow(g.LastRowSeats)
}

func (g Asymmetric) totalSeats() int {
	return g.LeftRows*asymmetricSideSeats + g.RightRows*asymmetricSideSeats + g.LastRowSeats
}

func validateLastRow(n int) error {
	if n < MinLastRowSeats || n > MaxLastRowSeats {
		return invalid("last_row_seats", "must be between %d and %d, got %d", MinLastRowSeats, MaxLastRowSeats, n)
	}
	return nil
}

// Amenities are advisory flags shown on the seat map. They never affect
// seat numbering.
type Amenities struct {
	DriverSeat bool `json:"driver_seat" yaml:"driver_seat"`
	GuideSeat  bool `json:"guide_seat" yaml:"guide_seat"`
	FrontDoor  bool `json:"front_door" yaml:"front_door"`
	RearDoor   bool `json:"rear_door" yaml:"rear_door"`
	Toilet     bool `json:"toilet" yaml:"toilet"`
}

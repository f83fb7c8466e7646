package layout

// Params is the flat shape geometry takes on the wire and in storage. Only
// one family's fields may be set; Geometry converts it into the closed
// union and rejects anything else.
type Params struct {
	Family          Family `json:"family,omitempty" yaml:"family,omitempty"`
	Rows            *int   `json:"rows,omitempty" yaml:"rows,omitempty"`
	SeatsPerRow     *int   `json:"seats_per_row,omitempty" yaml:"seats_per_row,omitempty"`
	LeftRows        *int   `json:"left_rows,omitempty" yaml:"left_rows,omitempty"`
	RightRows       *int   `json:"right_rows,omitempty" yaml:"right_rows,omitempty"`
	DoorRowPosition *int   `json:"door_row_position,omitempty" yaml:"door_row_position,omitempty"`
	LastRowSeats    *int   `json:"last_row_seats,omitempty" yaml:"last_row_seats,omitempty"`
}

// Geometry resolves the parameter family and validates it.
func (p Params) Geometry() (Geometry, error) {
	standard := p.Rows != nil || p.SeatsPerRow != nil
	asymmetric := p.LeftRows != nil || p.RightRows != nil || p.DoorRowPosition != nil
	switch {
	case standard && asymmetric:
		return nil, invalid("params", "standard (rows, seats_per_row) and asymmetric (left_rows, right_rows, door_row_position) parameters are mutually exclusive")
	case !standard && !asymmetric:
		return nil, invalid("params", "no geometry parameters given")
	}
	if p.LastRowSeats == nil {
		return nil, invalid("last_row_seats", "is required")
	}

	var g Geometry
	if standard {
		if p.Rows == nil || p.SeatsPerRow == nil {
			return nil, invalid("params", "standard layout needs rows and seats_per_row")
		}
		g = Standard{Rows: *p.Rows, SeatsPerRow: *p.SeatsPerRow, LastRowSeats: *p.LastRowSeats}
	} else {
		if p.LeftRows == nil || p.RightRows == nil || p.DoorRowPosition == nil {
			return nil, invalid("params", "asymmetric layout needs left_rows, right_rows and door_row_position")
		}
		g = Asymmetric{
			LeftRows:        *p.LeftRows,
			RightRows:       *p.RightRows,
			DoorRowPosition: *p.DoorRowPosition,
			LastRowSeats:    *p.LastRowSeats,
		}
	}
	if p.Family != "" && p.Family != g.Family() {
		return nil, invalid("family", "%q does not match the given parameters (%s)", p.Family, g.Family())
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// ParamsOf flattens a geometry. The family is always set on the result.
func ParamsOf(g Geometry) Params {
	switch t := g.(type) {
	case Standard:
		return Params{
			Family:       FamilyStandard,
			Rows:         intPtr(t.Rows),
			SeatsPerRow:  intPtr(t.SeatsPerRow),
			LastRowSeats: intPtr(t.LastRowSeats),
		}
	case Asymmetric:
		return Params{
			Family:          FamilyAsymmetric,
			LeftRows:        intPtr(t.LeftRows),
			RightRows:       intPtr(t.RightRows),
			DoorRowPosition: intPtr(t.DoorRowPosition),
			LastRowSeats:    intPtr(t.LastRowSeats),
		}
	}
	return Params{}
}

func intPtr(v int) *int { return &v }

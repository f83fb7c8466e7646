package layout

// Row groups the seats of one row index for a grid renderer.
type Row struct {
	Index         int    `json:"index"`
	Label         string `json:"label"`
	Left          []int  `json:"left,omitempty"`
	Right         []int  `json:"right,omitempty"`
	Bench         []int  `json:"bench,omitempty"`
	IsDoorRow     bool   `json:"is_door_row,omitempty"`
	IsRearDoorRow bool   `json:"is_rear_door_row,omitempty"`
}

// Rows returns the map grouped front to back, the bench row last.
func (m *Map) Rows() []Row {
	rows := make([]Row, m.BenchRow+1)
	for i := range rows {
		rows[i] = Row{
			Index:         i,
			Label:         RowLabel(i),
			IsDoorRow:     i == m.DoorRow,
			IsRearDoorRow: i == m.RearDoorRow,
		}
	}
	for _, s := range m.Seats {
		r := &rows[s.Row]
		switch s.Side {
		case SideLeft:
			r.Left = append(r.Left, s.Number)
		case SideRight:
			r.Right = append(r.Right, s.Number)
		case SideBack:
			r.Bench = append(r.Bench, s.Number)
		}
	}
	return rows
}

// RowLabel converts a zero-based row index to A, B, ..., Z, AA, AB.
func RowLabel(i int) string {
	if i < 0 {
		return ""
	}
	res := []rune{}
	for {
		res = append(res, rune('A'+i%26))
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
		res[j], res[k] = res[k], res[j]
	}
	return string(res)
}

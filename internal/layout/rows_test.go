package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_RowsGroupsBySide(t *testing.T) {
	m, err := Generate(Standard{Rows: 3, SeatsPerRow: 4, LastRowSeats: 5})
	require.NoError(t, err)

	rows := m.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, Row{Index: 0, Label: "A", Left: []int{1, 2}, Right: []int{3, 4}, IsRearDoorRow: false}, rows[0])
	assert.Equal(t, []int{5, 6}, rows[1].Left)
	assert.Equal(t, []int{7, 8}, rows[1].Right)
	assert.True(t, rows[1].IsRearDoorRow)
	assert.Equal(t, []int{9, 10, 11, 12, 13}, rows[2].Bench)
	assert.Equal(t, "C", rows[2].Label)
}

func TestMap_RowsMarksDoor(t *testing.T) {
	m, err := Generate(Asymmetric{LeftRows: 4, RightRows: 3, DoorRowPosition: 2, LastRowSeats: 4})
	require.NoError(t, err)

	rows := m.Rows()
	require.Len(t, rows, 5)
	assert.True(t, rows[2].IsDoorRow)
	assert.Empty(t, rows[3].Right)
	assert.Equal(t, []int{13, 14}, rows[3].Left)
	assert.Equal(t, []int{15, 16, 17, 18}, rows[4].Bench)
}

func TestRowLabel(t *testing.T) {
	assert.Equal(t, "A", RowLabel(0))
	assert.Equal(t, "Z", RowLabel(25))
	assert.Equal(t, "AA", RowLabel(26))
	assert.Equal(t, "AB", RowLabel(27))
	assert.Equal(t, "", RowLabel(-1))
}

package presets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-seating/internal/layout"
)

func TestDefault(t *testing.T) {
	types, err := Default()
	require.NoError(t, err)

	seats := map[string]int{}
	for _, bt := range types {
		seats[bt.Name] = bt.Seats
	}
	assert.Equal(t, 49, seats["Coach 49"])
	assert.Equal(t, 53, seats["Coach 53"])
	assert.Equal(t, 57, seats["Coach 57"])
	assert.Equal(t, 47, seats["Coach 47 (middle door)"])

	for _, bt := range types {
		g, err := bt.Params.Geometry()
		require.NoError(t, err, bt.Name)
		assert.NotEmpty(t, bt.Params.Family, bt.Name)
		m, err := layout.Generate(g)
		require.NoError(t, err)
		assert.Len(t, m.Seats, bt.Seats)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"mismatched seats": `bus_types: [{name: X, seats: 50, params: {rows: 12, seats_per_row: 4, last_row_seats: 5}}]`,
		"mixed params":     `bus_types: [{name: X, params: {rows: 12, seats_per_row: 4, left_rows: 3, last_row_seats: 5}}]`,
		"missing name":     `bus_types: [{params: {rows: 12, seats_per_row: 4, last_row_seats: 5}}]`,
		"duplicate name": `bus_types:
  - {name: X, params: {rows: 2, seats_per_row: 4, last_row_seats: 5}}
  - {name: X, params: {rows: 3, seats_per_row: 4, last_row_seats: 5}}`,
		"bad yaml": `bus_types: [`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`bus_types:
  - name: Tiny
    params: {left_rows: 2, right_rows: 2, door_row_position: 1, last_row_seats: 3}
`), 0o644))

	types, err := Load(path)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, 11, types[0].Seats)
	assert.Equal(t, layout.FamilyAsymmetric, types[0].Params.Family)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	def, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, def)
}

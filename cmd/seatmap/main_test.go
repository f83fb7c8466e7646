package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStandardFlags(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"--rows", "3", "--seats-per-row", "4", "--last-row", "5"}, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "FRONT", lines[0])
	assert.Contains(t, lines[1], "[ 1][ 2]  [ 3][ 4]")
	assert.Contains(t, lines[3], "[ 9][10][11][12][13]")
	assert.Equal(t, "13 seats", lines[4])
}

func TestRunPreset(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"--preset", "coach 47 (middle door)"}, &out))
	assert.Contains(t, out.String(), "47 seats")
	assert.Contains(t, out.String(), "door")
	assert.Contains(t, out.String(), "(toilet)")
}

func TestRunList(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"--list"}, &out))
	assert.Contains(t, out.String(), "Coach 53")
}

func TestRunRejects(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(nil, &out))
	assert.Error(t, run([]string{"--preset", "Tram"}, &out))
	assert.Error(t, run([]string{"--rows", "3", "--seats-per-row", "3"}, &out))
}

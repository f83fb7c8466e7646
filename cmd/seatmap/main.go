// Command seatmap prints a bus seat map to the terminal, either for a named
// preset or for geometry parameters given as flags.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/iliyamo/bus-seating/internal/layout"
	"github.com/iliyamo/bus-seating/internal/presets"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "seatmap:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var (
		preset      string
		presetsFile string
		list        bool
		rows        int
		seatsPerRow int
		leftRows    int
		rightRows   int
		doorRow     int
		lastRow     int
	)
	flagSet := pflag.NewFlagSet("seatmap", pflag.ContinueOnError)
	flagSet.SetOutput(out)
	flagSet.StringVar(&preset, "preset", "", "name of a bus type preset")
	flagSet.StringVar(&presetsFile, "presets-file", "", "YAML presets file (default: built-in presets)")
	flagSet.BoolVar(&list, "list", false, "list the available presets and exit")
	flagSet.IntVar(&rows, "rows", 0, "standard layout: rows including the back bench")
	flagSet.IntVar(&seatsPerRow, "seats-per-row", 4, "standard layout: seats in each normal row")
	flagSet.IntVar(&leftRows, "left-rows", 0, "asymmetric layout: rows on the left side")
	flagSet.IntVar(&rightRows, "right-rows", 0, "asymmetric layout: rows on the right side")
	flagSet.IntVar(&doorRow, "door-row", 0, "asymmetric layout: zero-based row index of the middle door")
	flagSet.IntVar(&lastRow, "last-row", 5, "seats on the back bench")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if list || preset != "" {
		types, err := presets.Load(presetsFile)
		if err != nil {
			return err
		}
		if list {
			for _, bt := range types {
				fmt.Fprintf(out, "%-12s %3d seats  %s\n", bt.Name, bt.Seats, bt.Params.Family)
			}
			return nil
		}
		for _, bt := range types {
			if strings.EqualFold(bt.Name, preset) {
				return printMap(out, bt.Name, bt.Params, bt.Amenities)
			}
		}
		return fmt.Errorf("unknown preset %q (see --list)", preset)
	}

	p := layout.Params{LastRowSeats: &lastRow}
	switch {
	case flagSet.Changed("left-rows") || flagSet.Changed("right-rows") || flagSet.Changed("door-row"):
		p.LeftRows, p.RightRows, p.DoorRowPosition = &leftRows, &rightRows, &doorRow
	case flagSet.Changed("rows"):
		p.Rows, p.SeatsPerRow = &rows, &seatsPerRow
	default:
		return fmt.Errorf("give --preset, --rows or --left-rows/--right-rows/--door-row")
	}
	return printMap(out, "", p, layout.Amenities{})
}

func printMap(out io.Writer, title string, p layout.Params, amen layout.Amenities) error {
	g, err := p.Geometry()
	if err != nil {
		return err
	}
	m, err := layout.Generate(g)
	if err != nil {
		return err
	}
	if title != "" {
		fmt.Fprintln(out, title)
	}
	render(out, m, amen)
	return nil
}

// render draws the map front to back with the aisle in the middle.
func render(out io.Writer, m *layout.Map, amen layout.Amenities) {
	left, right := 0, 0
	for _, r := range m.Rows() {
		left, right = max(left, len(r.Left)), max(right, len(r.Right))
	}
	cell := func(seats []int, width int, pad bool) string {
		parts := make([]string, 0, width)
		if pad {
			for range width - len(seats) {
				parts = append(parts, "    ")
			}
		}
		for _, n := range seats {
			parts = append(parts, fmt.Sprintf("[%2d]", n))
		}
		if !pad {
			for range width - len(seats) {
				parts = append(parts, "    ")
			}
		}
		return strings.Join(parts, "")
	}

	front := "FRONT"
	if amen.DriverSeat {
		front += "  (driver)"
	}
	if amen.GuideSeat {
		front += "  (guide)"
	}
	if amen.FrontDoor {
		front += "  (door)"
	}
	fmt.Fprintln(out, front)
	for _, r := range m.Rows() {
		var line string
		switch {
		case len(r.Bench) > 0:
			line = cell(r.Bench, len(r.Bench), false)
		default:
			line = cell(r.Left, left, false) + "  " + cell(r.Right, right, true)
		}
		marker := ""
		if r.IsDoorRow || r.IsRearDoorRow {
			marker = "  door"
		}
		fmt.Fprintf(out, "%3s %s%s\n", r.Label, strings.TrimRight(line, " "), marker)
	}
	back := fmt.Sprintf("%d seats", m.TotalSeats)
	if amen.Toilet {
		back += "  (toilet)"
	}
	fmt.Fprintln(out, back)
}

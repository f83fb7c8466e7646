// Package presets loads the bus types the template store is seeded with.
// A default set is embedded; deployments can point PRESETS_FILE at their
// own YAML file in the same format.
package presets

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/bus-seating/internal/layout"
)

//go:embed presets.yaml
var defaultPresets []byte

// BusType is one preset entry. Seats, when given, must match the seat
// count the geometry produces.
type BusType struct {
	Name      string           `yaml:"name"`
	Seats     int              `yaml:"seats"`
	Params    layout.Params    `yaml:"params"`
	Amenities layout.Amenities `yaml:"amenities"`
}

type file struct {
	BusTypes []BusType `yaml:"bus_types"`
}

// Default returns the embedded presets.
func Default() ([]BusType, error) {
	return Parse(defaultPresets)
}

// Load reads presets from path, or the embedded set when path is empty.
func Load(path string) ([]BusType, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets %s: %w", path, err)
	}
	types, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("presets %s: %w", path, err)
	}
	return types, nil
}

// Parse decodes and validates a presets document.
func Parse(data []byte) ([]BusType, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	seen := make(map[string]bool, len(f.BusTypes))
	for i, bt := range f.BusTypes {
		if bt.Name == "" {
			return nil, fmt.Errorf("bus type %d: missing name", i)
		}
		if seen[bt.Name] {
			return nil, fmt.Errorf("bus type %q: duplicate name", bt.Name)
		}
		seen[bt.Name] = true
		g, err := bt.Params.Geometry()
		if err != nil {
			return nil, fmt.Errorf("bus type %q: %w", bt.Name, err)
		}
		total, err := layout.TotalSeats(g)
		if err != nil {
			return nil, fmt.Errorf("bus type %q: %w", bt.Name, err)
		}
		if bt.Seats != 0 && bt.Seats != total {
			return nil, fmt.Errorf("bus type %q: declares %d seats but geometry gives %d", bt.Name, bt.Seats, total)
		}
		f.BusTypes[i].Params = layout.ParamsOf(g)
		f.BusTypes[i].Seats = total
	}
	return f.BusTypes, nil
}

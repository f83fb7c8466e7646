package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/bus-seating/internal/layout"
	"github.com/iliyamo/bus-seating/internal/model"
	"github.com/iliyamo/bus-seating/internal/repository"
	"github.com/iliyamo/bus-seating/internal/service/ports"
)

// Source says where a new configuration takes its geometry from. It is
// either FromTemplate or Manual.
type Source interface {
	source()
}

// FromTemplate copies the geometry of an existing template.
type FromTemplate struct {
	TemplateID uint64
}

// Manual uses parameters typed in by staff.
type Manual struct {
	Params    layout.Params
	Amenities layout.Amenities
}

func (FromTemplate) source() {}
func (Manual) source()       {}

// Description is a configuration together with its generated seat map.
type Description struct {
	Config *model.BusConfig `json:"config"`
	Map    *layout.Map      `json:"map"`
	Rows   []layout.Row     `json:"rows"`
}

// BusConfigService manages the one seating configuration each trip has.
type BusConfigService struct {
	configs   ports.BusConfigStore
	templates ports.TemplateStore
	log       *log.Logger
}

func NewBusConfigService(configs ports.BusConfigStore, templates ports.TemplateStore, logger *log.Logger) *BusConfigService {
	return &BusConfigService{configs: configs, templates: templates, log: loggerOrDefault(logger)}
}

// Create instantiates the trip's configuration. The geometry is copied, so
// later template changes or deletions do not reach it.
func (s *BusConfigService) Create(ctx context.Context, tripID uint64, src Source) (*model.BusConfig, error) {
	if tripID == 0 {
		return nil, &layout.ValidationError{Field: "trip_id", Reason: "is required"}
	}
	cfg := &model.BusConfig{TripID: tripID}
	switch v := src.(type) {
	case FromTemplate:
		t, err := s.templates.GetByID(ctx, v.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("get template %d: %w", v.TemplateID, err)
		}
		id := t.ID
		cfg.TemplateID = &id
		cfg.Params = t.Params
		cfg.Amenities = t.Amenities
	case Manual:
		cfg.Params = v.Params
		cfg.Amenities = v.Amenities
	default:
		return nil, &layout.ValidationError{Field: "source", Reason: "template_id or params is required"}
	}

	g, err := cfg.Params.Geometry()
	if err != nil {
		return nil, err
	}
	if cfg.TotalSeats, err = layout.TotalSeats(g); err != nil {
		return nil, err
	}
	cfg.Params = layout.ParamsOf(g)

	if _, err := s.configs.GetByTrip(ctx, tripID); err == nil {
		return nil, repository.ErrConfigExists
	} else if !errors.Is(err, repository.ErrConfigNotFound) {
		return nil, fmt.Errorf("check trip %d: %w", tripID, err)
	}
	if err := s.configs.Create(ctx, cfg); err != nil {
		return nil, fmt.Errorf("create bus config: %w", err)
	}
	s.log.Infoj(log.JSON{"event": "bus_config_created", "bus_config_id": cfg.ID, "trip_id": tripID, "total_seats": cfg.TotalSeats})
	return cfg, nil
}

// Delete removes the configuration and every assignment in it. It cannot
// be undone; callers confirm before calling. The number of assignments
// removed is returned for the audit trail.
func (s *BusConfigService) Delete(ctx context.Context, configID uint64) (int, error) {
	removed, err := s.configs.DeleteCascade(ctx, configID)
	if err != nil {
		return 0, fmt.Errorf("delete bus config %d: %w", configID, err)
	}
	s.log.Infoj(log.JSON{"event": "bus_config_deleted", "bus_config_id": configID, "assignments_removed": removed})
	return removed, nil
}

func (s *BusConfigService) Describe(ctx context.Context, configID uint64) (*Description, error) {
	cfg, err := s.configs.GetByID(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("get bus config %d: %w", configID, err)
	}
	return describe(cfg)
}

func (s *BusConfigService) DescribeTrip(ctx context.Context, tripID uint64) (*Description, error) {
	cfg, err := s.configs.GetByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("get bus config for trip %d: %w", tripID, err)
	}
	return describe(cfg)
}

func describe(cfg *model.BusConfig) (*Description, error) {
	m, err := generate(cfg)
	if err != nil {
		return nil, err
	}
	return &Description{Config: cfg, Map: m, Rows: m.Rows()}, nil
}

// generate renders the stored geometry. Stored parameters were validated
// on the way in, so a failure here means the row was edited behind our
// back.
func generate(cfg *model.BusConfig) (*layout.Map, error) {
	g, err := cfg.Geometry()
	if err != nil {
		return nil, fmt.Errorf("bus config %d geometry: %w", cfg.ID, err)
	}
	return layout.Generate(g)
}

package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/bus-seating/internal/layout"
	"github.com/iliyamo/bus-seating/internal/model"
	"github.com/iliyamo/bus-seating/internal/presets"
	"github.com/iliyamo/bus-seating/internal/service/ports"
)

const maxTemplateName = 120

// TemplateInput is what a new template is created from.
type TemplateInput struct {
	Name      string           `json:"name"`
	Params    layout.Params    `json:"params"`
	Amenities layout.Amenities `json:"amenities"`
	IsCustom  bool             `json:"is_custom"`
}

// TemplateService manages the bus type presets. Templates are never
// edited: a different shape is a different template.
type TemplateService struct {
	templates ports.TemplateStore
	configs   ports.BusConfigStore
	log       *log.Logger
}

func NewTemplateService(templates ports.TemplateStore, configs ports.BusConfigStore, logger *log.Logger) *TemplateService {
	return &TemplateService{templates: templates, configs: configs, log: loggerOrDefault(logger)}
}

func (s *TemplateService) List(ctx context.Context) ([]model.LayoutTemplate, error) {
	list, err := s.templates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return list, nil
}

func (s *TemplateService) Get(ctx context.Context, id uint64) (*model.LayoutTemplate, error) {
	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get template %d: %w", id, err)
	}
	return t, nil
}

// Create validates the name and geometry and stores the template with its
// derived seat count.
func (s *TemplateService) Create(ctx context.Context, in TemplateInput) (*model.LayoutTemplate, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &layout.ValidationError{Field: "name", Reason: "is required"}
	}
	if utf8.RuneCountInString(name) > maxTemplateName {
		return nil, &layout.ValidationError{Field: "name", Reason: fmt.Sprintf("must be at most %d characters", maxTemplateName)}
	}
	g, err := in.Params.Geometry()
	if err != nil {
		return nil, err
	}
	total, err := layout.TotalSeats(g)
	if err != nil {
		return nil, err
	}

	t := &model.LayoutTemplate{
		Name:       name,
		IsCustom:   in.IsCustom,
		Params:     layout.ParamsOf(g),
		Amenities:  in.Amenities,
		TotalSeats: total,
	}
	if err := s.templates.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	s.log.Infoj(log.JSON{"event": "template_created", "template_id": t.ID, "name": t.Name, "total_seats": total})
	return t, nil
}

// Delete removes a template. Configurations created from it keep their
// seat maps.
func (s *TemplateService) Delete(ctx context.Context, id uint64) error {
	if err := s.templates.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete template %d: %w", id, err)
	}
	s.log.Infoj(log.JSON{"event": "template_deleted", "template_id": id})
	return nil
}

// PromoteConfig saves a configuration's geometry as a new custom template.
func (s *TemplateService) PromoteConfig(ctx context.Context, configID uint64, name string) (*model.LayoutTemplate, error) {
	cfg, err := s.configs.GetByID(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("get bus config %d: %w", configID, err)
	}
	return s.Create(ctx, TemplateInput{
		Name:      name,
		Params:    cfg.Params,
		Amenities: cfg.Amenities,
		IsCustom:  true,
	})
}

// SeedPresets creates every preset whose name is not taken yet and returns
// how many were added. Running it again is a no-op.
func (s *TemplateService) SeedPresets(ctx context.Context, types []presets.BusType) (int, error) {
	existing, err := s.templates.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list templates: %w", err)
	}
	names := make(map[string]bool, len(existing))
	for _, t := range existing {
		names[t.Name] = true
	}
	added := 0
	for _, bt := range types {
		if names[bt.Name] {
			continue
		}
		if _, err := s.Create(ctx, TemplateInput{Name: bt.Name, Params: bt.Params, Amenities: bt.Amenities}); err != nil {
			return added, fmt.Errorf("seed %q: %w", bt.Name, err)
		}
		names[bt.Name] = true
		added++
	}
	return added, nil
}

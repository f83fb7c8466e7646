package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-seating/internal/layout"
	"github.com/iliyamo/bus-seating/internal/presets"
	"github.com/iliyamo/bus-seating/internal/repository"
)

func TestTemplateService_Create(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	tpl, err := f.templates.Create(ctx, TemplateInput{
		Name:   "  Coach 53 ",
		Params: layout.Params{Rows: ptr(13), SeatsPerRow: ptr(4), LastRowSeats: ptr(5)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Coach 53", tpl.Name)
	assert.Equal(t, 53, tpl.TotalSeats)
	assert.Equal(t, layout.FamilyStandard, tpl.Params.Family)
	assert.False(t, tpl.IsCustom)

	got, err := f.templates.Get(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, got.ID)
}

func TestTemplateService_CreateRejects(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	good := layout.Params{Rows: ptr(13), SeatsPerRow: ptr(4), LastRowSeats: ptr(5)}

	cases := map[string]TemplateInput{
		"blank name": {Name: "  ", Params: good},
		"long name":  {Name: strings.Repeat("x", 121), Params: good},
		"odd seats":  {Name: "x", Params: layout.Params{Rows: ptr(13), SeatsPerRow: ptr(3), LastRowSeats: ptr(5)}},
		"mixed":      {Name: "x", Params: layout.Params{Rows: ptr(13), SeatsPerRow: ptr(4), LeftRows: ptr(2), LastRowSeats: ptr(5)}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.templates.Create(ctx, in)
			assert.ErrorIs(t, err, layout.ErrValidation)
		})
	}

	list, err := f.templates.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTemplateService_DeleteKeepsConfigs(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	tpl, err := f.templates.Create(ctx, TemplateInput{Name: "Coach 47", Params: coach47()})
	require.NoError(t, err)
	cfg, err := f.configs.Create(ctx, 1, FromTemplate{TemplateID: tpl.ID})
	require.NoError(t, err)

	require.NoError(t, f.templates.Delete(ctx, tpl.ID))
	assert.ErrorIs(t, f.templates.Delete(ctx, tpl.ID), repository.ErrTemplateNotFound)

	desc, err := f.configs.Describe(ctx, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, 47, desc.Map.TotalSeats)
}

func TestTemplateService_PromoteConfig(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	cfg := f.bus(t, 1)

	tpl, err := f.templates.PromoteConfig(ctx, cfg.ID, "Our odd coach")
	require.NoError(t, err)
	assert.True(t, tpl.IsCustom)
	assert.Equal(t, cfg.TotalSeats, tpl.TotalSeats)
	assert.Equal(t, cfg.Params, tpl.Params)

	_, err = f.templates.PromoteConfig(ctx, 999, "x")
	assert.ErrorIs(t, err, repository.ErrConfigNotFound)
}

func TestTemplateService_SeedPresets(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	types, err := presets.Default()
	require.NoError(t, err)

	added, err := f.templates.SeedPresets(ctx, types)
	require.NoError(t, err)
	assert.Equal(t, len(types), added)

	added, err = f.templates.SeedPresets(ctx, types)
	require.NoError(t, err)
	assert.Zero(t, added)

	list, err := f.templates.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(types))
}

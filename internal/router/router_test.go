package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-seating/internal/config"
	"github.com/iliyamo/bus-seating/internal/handler"
	"github.com/iliyamo/bus-seating/internal/repository/memory"
	"github.com/iliyamo/bus-seating/internal/service"
	"github.com/iliyamo/bus-seating/internal/utils"
)

const testSecret = "router-test"

type api struct {
	t     *testing.T
	e     *echo.Echo
	store *memory.Store
	auth  string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	logger := log.New("test")
	logger.SetOutput(io.Discard)

	store := memory.New()
	cs, as := store.Configs(), store.Assignments()
	templates := service.NewTemplateService(store, cs, logger)
	configs := service.NewBusConfigService(cs, store, logger)
	ledger := service.NewLedgerService(cs, as, store, nil, logger)
	claims := service.NewClaimService(store, cs, as, nil, logger)

	e := echo.New()
	e.Logger = logger
	RegisterRoutes(e, nil)
	RegisterPublic(e, handler.NewClaimHandler(claims), config.Config{}, nil)
	RegisterStaff(e, handler.NewStaffHandler(templates, configs, ledger), testSecret)

	tok, err := utils.NewAccessToken(testSecret, 9, utils.RoleStaff, time.Hour)
	require.NoError(t, err)
	return &api{t: t, e: e, store: store, auth: "Bearer " + tok.Token}
}

func (a *api) do(method, path string, body any, staff bool) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(bs)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if staff {
		req.Header.Set(echo.HeaderAuthorization, a.auth)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type idBody struct {
	ID uint64 `json:"id"`
}

func (a *api) createBus(tripID uint64) uint64 {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/v1/bus-configs", map[string]any{
		"trip_id": tripID,
		"params":  map[string]int{"left_rows": 11, "right_rows": 10, "door_row_position": 6, "last_row_seats": 5},
	}, true)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[idBody](a.t, rec).ID
}

func TestHealthz(t *testing.T) {
	a := newAPI(t)
	rec := a.do(http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestStaffRoutesRequireToken(t *testing.T) {
	a := newAPI(t)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/v1/templates", nil, false).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/v1/templates", nil, true).Code)
}

func TestTemplateLifecycle(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/v1/templates", map[string]any{
		"name":   "Coach 49",
		"params": map[string]int{"rows": 12, "seats_per_row": 4, "last_row_seats": 5},
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tpl := decode[struct {
		ID         uint64 `json:"id"`
		TotalSeats int    `json:"total_seats"`
	}](t, rec)
	assert.Equal(t, 49, tpl.TotalSeats)

	rec = a.do(http.MethodPost, "/v1/templates", map[string]any{
		"name":   "Broken",
		"params": map[string]int{"rows": 12, "seats_per_row": 5, "last_row_seats": 5},
	}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	path := fmt.Sprintf("/v1/templates/%d", tpl.ID)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, path, nil, true).Code)

	rec = a.do(http.MethodPost, "/v1/bus-configs", map[string]any{"trip_id": 3, "template_id": tpl.ID}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path, nil, true).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path, nil, true).Code)

	// the bus keeps its geometry after the template is gone
	rec = a.do(http.MethodGet, "/v1/trips/3/bus-config", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	desc := decode[struct {
		Config struct {
			TotalSeats int `json:"total_seats"`
		} `json:"config"`
	}](t, rec)
	assert.Equal(t, 49, desc.Config.TotalSeats)
}

func TestCreateBusConfigRejects(t *testing.T) {
	a := newAPI(t)
	a.createBus(1)

	rec := a.do(http.MethodPost, "/v1/bus-configs", map[string]any{
		"trip_id": 1,
		"params":  map[string]int{"rows": 12, "seats_per_row": 4, "last_row_seats": 5},
	}, true)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "config_exists", decode[map[string]any](t, rec)["error"])

	rec = a.do(http.MethodPost, "/v1/bus-configs", map[string]any{
		"trip_id":     2,
		"template_id": 1,
		"params":      map[string]int{"rows": 12, "seats_per_row": 4, "last_row_seats": 5},
	}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/v1/bus-configs", map[string]any{"trip_id": 2, "template_id": 999}, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/v1/trips/77/bus-config", nil, true).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/v1/bus-configs/abc", nil, true).Code)
}

func TestAssignmentFlow(t *testing.T) {
	a := newAPI(t)
	a.store.AddParticipant(100, "Ada")
	a.store.AddParticipant(101, "Grace")
	id := a.createBus(1)
	base := fmt.Sprintf("/v1/bus-configs/%d", id)

	rec := a.do(http.MethodPost, base+"/assignments", map[string]any{"participant_id": 100, "seat_number": 12}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assignmentID := decode[idBody](t, rec).ID

	rec = a.do(http.MethodPost, base+"/assignments", map[string]any{"participant_id": 101, "seat_number": 12}, true)
	require.Equal(t, http.StatusConflict, rec.Code)
	conflict := decode[struct {
		Error     string `json:"error"`
		Available []int  `json:"available"`
	}](t, rec)
	assert.Equal(t, "seat_taken", conflict.Error)
	assert.Len(t, conflict.Available, 46)
	assert.NotContains(t, conflict.Available, 12)

	rec = a.do(http.MethodPost, base+"/assignments", map[string]any{"participant_id": 100, "seat_number": 13}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = a.do(http.MethodPost, base+"/assignments", map[string]any{"participant_id": 101, "seat_number": 48}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, base+"/assignments", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Assignments []service.Occupant `json:"assignments"`
	}](t, rec)
	require.Len(t, list.Assignments, 1)
	assert.Equal(t, "Ada", list.Assignments[0].DisplayName)

	rec = a.do(http.MethodGet, base+"/seat-map", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	sm := decode[service.SeatMap](t, rec)
	require.Len(t, sm.Seats, 47)
	require.NotNil(t, sm.Seats[11].Occupant)
	assert.Equal(t, uint64(100), sm.Seats[11].Occupant.ParticipantID)

	path := fmt.Sprintf("/v1/assignments/%d", assignmentID)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path, nil, true).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, path, nil, true).Code)

	rec = a.do(http.MethodGet, base+"/available", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[struct {
		Available []int `json:"available"`
	}](t, rec).Available, 47)
}

func TestDeleteBusConfigNeedsConfirmation(t *testing.T) {
	a := newAPI(t)
	id := a.createBus(1)
	base := fmt.Sprintf("/v1/bus-configs/%d", id)
	for p, seat := range []int{1, 2, 3} {
		rec := a.do(http.MethodPost, base+"/assignments", map[string]any{"participant_id": 200 + p, "seat_number": seat}, true)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := a.do(http.MethodDelete, base, nil, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.EqualValues(t, 3, decode[map[string]any](t, rec)["assignments"])
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, base, nil, true).Code)

	rec = a.do(http.MethodDelete, base+"?confirm=true", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, decode[map[string]any](t, rec)["assignments_removed"])

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, base, nil, true).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, base+"?confirm=true", nil, true).Code)

	// the trip is free for a new bus
	a.createBus(1)
}

func TestPromoteBusConfig(t *testing.T) {
	a := newAPI(t)
	id := a.createBus(1)

	rec := a.do(http.MethodPost, fmt.Sprintf("/v1/bus-configs/%d/promote", id), map[string]string{"name": "Our 47"}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tpl := decode[struct {
		IsCustom   bool `json:"is_custom"`
		TotalSeats int  `json:"total_seats"`
	}](t, rec)
	assert.True(t, tpl.IsCustom)
	assert.Equal(t, 47, tpl.TotalSeats)
}

func TestClaimFlow(t *testing.T) {
	a := newAPI(t)
	id := a.createBus(5)
	staffSeat := a.do(http.MethodPost, fmt.Sprintf("/v1/bus-configs/%d/assignments", id), map[string]any{"participant_id": 1, "seat_number": 7}, true)
	require.Equal(t, http.StatusCreated, staffSeat.Code)

	raw, err := a.store.IssueToken(2, 5, time.Now().Add(time.Hour))
	require.NoError(t, err)
	path := "/v1/claim/" + raw

	rec := a.do(http.MethodGet, path, nil, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[service.ClaimView](t, rec)
	assert.Len(t, view.Available, 46)
	assert.Nil(t, view.CurrentSeat)

	rec = a.do(http.MethodPost, path, map[string]int{"seat_number": 7}, false)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.NotContains(t, decode[struct {
		Available []int `json:"available"`
	}](t, rec).Available, 7)

	rec = a.do(http.MethodPost, path, map[string]int{"seat_number": 8}, false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[service.ClaimResult](t, rec)
	assert.Equal(t, 8, res.SeatNumber)
	assert.False(t, res.AlreadySeated)

	rec = a.do(http.MethodPost, path, map[string]int{"seat_number": 9}, false)
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[service.ClaimResult](t, rec)
	assert.Equal(t, 8, res.SeatNumber)
	assert.True(t, res.AlreadySeated)

	assert.Equal(t, http.StatusGone, a.do(http.MethodGet, "/v1/claim/not-a-real-link", nil, false).Code)

	expired, err := a.store.IssueToken(3, 5, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, http.StatusGone, a.do(http.MethodPost, "/v1/claim/"+expired, map[string]int{"seat_number": 9}, false).Code)
}

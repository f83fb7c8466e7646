package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-seating/internal/layout"
	"github.com/iliyamo/bus-seating/internal/model"
	"github.com/iliyamo/bus-seating/internal/repository/memory"
	"github.com/iliyamo/bus-seating/internal/service/ports"
)

func newTestLogger(t *testing.T) *log.Logger {
	t.Helper()
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

type recordedEvent struct {
	kind string
	seat int
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) add(kind string, a *model.SeatAssignment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{kind: kind, seat: a.SeatNumber})
}

func (n *recordingNotifier) SeatAssigned(_ context.Context, _ *model.BusConfig, a *model.SeatAssignment) {
	n.add("assigned", a)
}

func (n *recordingNotifier) SeatClaimed(_ context.Context, _ *model.BusConfig, a *model.SeatAssignment) {
	n.add("claimed", a)
}

func (n *recordingNotifier) SeatReleased(_ context.Context, a *model.SeatAssignment) {
	n.add("released", a)
}

func (n *recordingNotifier) all() []recordedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]recordedEvent(nil), n.events...)
}

// tokenOnly hides CommitClaim so the claim flow takes the two-step path.
type tokenOnly struct {
	s *memory.Store
}

func (t tokenOnly) GetByHash(ctx context.Context, hash string) (*model.ClaimToken, error) {
	return t.s.GetByHash(ctx, hash)
}

func (t tokenOnly) MarkUsed(ctx context.Context, id uint64, at time.Time) error {
	return t.s.MarkUsed(ctx, id, at)
}

type fixture struct {
	store     *memory.Store
	notifier  *recordingNotifier
	templates *TemplateService
	configs   *BusConfigService
	ledger    *LedgerService
	claims    *ClaimService
	now       time.Time
}

func newFixture(t *testing.T, twoStep bool) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.New(),
		notifier: &recordingNotifier{},
		now:      time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	l := newTestLogger(t)
	cs := f.store.Configs()
	as := f.store.Assignments()
	f.templates = NewTemplateService(f.store, cs, l)
	f.configs = NewBusConfigService(cs, f.store, l)
	f.ledger = NewLedgerService(cs, as, f.store, f.notifier, l)

	var tokens ports.ClaimTokenStore = f.store
	if twoStep {
		tokens = tokenOnly{f.store}
	}
	f.claims = NewClaimService(tokens, cs, as, f.notifier, l, WithClock(func() time.Time { return f.now }))
	return f
}

func ptr(v int) *int { return &v }

func coach47() layout.Params {
	return layout.Params{LeftRows: ptr(11), RightRows: ptr(10), DoorRowPosition: ptr(6), LastRowSeats: ptr(5)}
}

func (f *fixture) bus(t *testing.T, tripID uint64) *model.BusConfig {
	t.Helper()
	cfg, err := f.configs.Create(context.Background(), tripID, Manual{Params: coach47()})
	require.NoError(t, err)
	return cfg
}

func (f *fixture) token(t *testing.T, participantID, tripID uint64) string {
	t.Helper()
	raw, err := f.store.IssueToken(participantID, tripID, f.now.Add(48*time.Hour))
	require.NoError(t, err)
	return raw
}

package orchestrator_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/mcdev12/draftroom/go/internal/draft/memstore"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/models"
)

var positions = []string{"QB", "RB", "WR", "TE", "K", "DST"}

// recorder captures published envelopes.
type recorder struct {
	mu   sync.Mutex
	envs []events.Envelope
}

func (r *recorder) Publish(_ context.Context, env events.Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.envs = append(r.envs, env)
	return nil
}

func (r *recorder) count(t events.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.envs {
		if e.EventType == t {
			n++
		}
	}
	return n
}

func (r *recorder) last() events.Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.envs[len(r.envs)-1]
}

// ofType decodes every envelope of type t.
func (r *recorder) ofType(t *testing.T, typ events.Type) []events.Event {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.envs {
		if e.EventType != typ {
			continue
		}
		ev, err := e.Decode()
		if err != nil {
			t.Fatalf("decode %s: %v", typ, err)
		}
		out = append(out, ev)
	}
	return out
}

type fixture struct {
	t            *testing.T
	ctx          context.Context
	store        *memstore.Store
	clock        *clockwork.FakeClock
	pub          *recorder
	orch         *orchestrator.Orchestrator
	league       models.League
	commissioner uuid.UUID
	teams        []uuid.UUID
	players      []models.DraftablePlayer
}

type fixtureOpts struct {
	teams   int
	players int
	cfg     orchestrator.Config
}

func newFixture(t *testing.T, opts fixtureOpts) *fixture {
	t.Helper()
	if opts.teams == 0 {
		opts.teams = 4
	}

	store := memstore.New()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 9, 1, 19, 0, 0, 0, time.UTC))
	pub := &recorder{}

	commissioner := uuid.New()
	league := models.League{ID: uuid.New(), Name: "Test League", CommissionerID: commissioner, Season: "2025"}
	store.AddLeague(league)

	teams := make([]uuid.UUID, opts.teams)
	for i := range teams {
		teams[i] = uuid.New()
	}

	players := make([]models.DraftablePlayer, opts.players)
	for i := range players {
		players[i] = models.DraftablePlayer{
			ID:          uuid.New(),
			FullName:    fmt.Sprintf("Player %d", i+1),
			Position:    positions[i%len(positions)],
			ADP:         float64(i + 1),
			OverallRank: i + 1,
		}
	}
	store.AddPlayers(players...)

	o := orchestrator.NewOrchestrator(store, pub, orchestrator.NewNeedsStrategy(), opts.cfg, clock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = o.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return &fixture{
		t:            t,
		ctx:          context.Background(),
		store:        store,
		clock:        clock,
		pub:          pub,
		orch:         o,
		league:       league,
		commissioner: commissioner,
		teams:        teams,
		players:      players,
	}
}

func (f *fixture) request(format models.DraftFormat) orchestrator.CreateDraftRequest {
	req := orchestrator.CreateDraftRequest{
		LeagueID:       f.league.ID,
		Format:         format,
		Rounds:         3,
		TimePerPickSec: 60,
		StartDate:      f.clock.Now(),
		DraftOrder:     f.teams,
	}
	if format == models.DraftFormatAuction {
		budget := 200
		req.AuctionBudget = &budget
	}
	return req
}

func (f *fixture) create(req orchestrator.CreateDraftRequest) *models.DraftSettings {
	f.t.Helper()
	d, err := f.orch.CreateDraft(f.ctx, req)
	if err != nil {
		f.t.Fatalf("CreateDraft: %v", err)
	}
	return d
}

func (f *fixture) started(req orchestrator.CreateDraftRequest) *models.DraftSettings {
	f.t.Helper()
	d := f.create(req)
	d, err := f.orch.StartDraft(f.ctx, d.ID)
	if err != nil {
		f.t.Fatalf("StartDraft: %v", err)
	}
	return d
}

func (f *fixture) draft(id uuid.UUID) *models.DraftSettings {
	f.t.Helper()
	d, err := f.orch.GetDraft(f.ctx, id)
	if err != nil {
		f.t.Fatalf("GetDraft: %v", err)
	}
	return d
}

func (f *fixture) pick(draftID, teamID, playerID uuid.UUID) *models.DraftPick {
	f.t.Helper()
	p, err := f.orch.MakePick(f.ctx, draftID, teamID, playerID)
	if err != nil {
		f.t.Fatalf("MakePick: %v", err)
	}
	return p
}

func (f *fixture) picks(draftID uuid.UUID) []models.DraftPick {
	f.t.Helper()
	picks, err := f.store.ListPicks(f.ctx, draftID)
	if err != nil {
		f.t.Fatalf("ListPicks: %v", err)
	}
	return picks
}

// waitFor polls cond until it holds. Timer expiry runs on worker goroutines.
func (f *fixture) waitFor(what string, cond func() bool) {
	f.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			f.t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (f *fixture) waitForPick(draftID uuid.UUID, pick int) {
	f.t.Helper()
	f.waitFor(fmt.Sprintf("pick %d", pick), func() bool {
		d, err := f.orch.GetDraft(f.ctx, draftID)
		return err == nil && d.CurrentPick == pick
	})
}

func TestCreateDraftValidation(t *testing.T) {
	f := newFixture(t, fixtureOpts{})

	cases := []struct {
		name   string
		modify func(*orchestrator.CreateDraftRequest)
		want   error
	}{
		{"unknown format", func(r *orchestrator.CreateDraftRequest) { r.Format = "keeper" }, orchestrator.ErrInvalidArgument},
		{"no rounds", func(r *orchestrator.CreateDraftRequest) { r.Rounds = 0 }, orchestrator.ErrInvalidArgument},
		{"empty order", func(r *orchestrator.CreateDraftRequest) { r.DraftOrder = nil }, orchestrator.ErrInvalidArgument},
		{"repeated team", func(r *orchestrator.CreateDraftRequest) {
			r.DraftOrder = []uuid.UUID{f.teams[0], f.teams[0]}
		}, orchestrator.ErrInvalidArgument},
		{"negative timer", func(r *orchestrator.CreateDraftRequest) { r.TimePerPickSec = -1 }, orchestrator.ErrInvalidArgument},
		{"auction without budget", func(r *orchestrator.CreateDraftRequest) {
			r.Format = models.DraftFormatAuction
			r.AuctionBudget = nil
		}, orchestrator.ErrInvalidArgument},
		{"unknown league", func(r *orchestrator.CreateDraftRequest) { r.LeagueID = uuid.New() }, orchestrator.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.request(models.DraftFormatSnake)
			tc.modify(&req)
			if _, err := f.orch.CreateDraft(f.ctx, req); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}

	d := f.create(f.request(models.DraftFormatSnake))
	if d.Status != models.DraftStatusScheduled || d.CurrentPick != 1 || d.CurrentRound != 1 {
		t.Fatalf("new draft %+v", d)
	}
}

func TestLifecycleTransitions(t *testing.T) {
	f := newFixture(t, fixtureOpts{players: 20})
	d := f.create(f.request(models.DraftFormatSnake))

	if _, err := f.orch.PauseDraft(f.ctx, d.ID, f.commissioner); !errors.Is(err, orchestrator.ErrInvalidState) {
		t.Fatalf("pause before start: %v", err)
	}
	if _, err := f.orch.CompleteDraft(f.ctx, d.ID); !errors.Is(err, orchestrator.ErrInvalidState) {
		t.Fatalf("complete before start: %v", err)
	}

	started, err := f.orch.StartDraft(f.ctx, d.ID)
	if err != nil {
		t.Fatalf("StartDraft: %v", err)
	}
	if started.Status != models.DraftStatusInProgress || started.CurrentTeamID != f.teams[0] || started.StartedAt == nil {
		t.Fatalf("started draft %+v", started)
	}
	if _, err := f.orch.StartDraft(f.ctx, d.ID); !errors.Is(err, orchestrator.ErrInvalidState) {
		t.Fatalf("second start: %v", err)
	}
	if _, err := f.orch.ResumeDraft(f.ctx, d.ID, f.commissioner); !errors.Is(err, orchestrator.ErrInvalidState) {
		t.Fatalf("resume while running: %v", err)
	}

	if _, err := f.orch.PauseDraft(f.ctx, d.ID, f.teams[0]); !errors.Is(err, orchestrator.ErrPermissionDenied) {
		t.Fatalf("pause by a team owner: %v", err)
	}
	paused, err := f.orch.PauseDraft(f.ctx, d.ID, f.commissioner)
	if err != nil {
		t.Fatalf("PauseDraft: %v", err)
	}
	if paused.Status != models.DraftStatusPaused || paused.PausedAt == nil {
		t.Fatalf("paused draft %+v", paused)
	}
	if _, err := f.orch.MakePick(f.ctx, d.ID, f.teams[0], f.players[0].ID); !errors.Is(err, orchestrator.ErrInvalidState) {
		t.Fatalf("pick while paused: %v", err)
	}
	if _, err := f.orch.ResumeDraft(f.ctx, d.ID, uuid.New()); !errors.Is(err, orchestrator.ErrPermissionDenied) {
		t.Fatalf("resume by a stranger: %v", err)
	}

	resumed, err := f.orch.ResumeDraft(f.ctx, d.ID, f.commissioner)
	if err != nil {
		t.Fatalf("ResumeDraft: %v", err)
	}
	if resumed.Status != models.DraftStatusInProgress || resumed.PausedAt != nil {
		t.Fatalf("resumed draft %+v", resumed)
	}

	completed, err := f.orch.CompleteDraft(f.ctx, d.ID)
	if err != nil {
		t.Fatalf("CompleteDraft: %v", err)
	}
	if completed.Status != models.DraftStatusCompleted || completed.CompletedAt == nil {
		t.Fatalf("completed draft %+v", completed)
	}
	if n := f.orch.PendingTimers(d.ID); n != 0 {
		t.Fatalf("%d timers left after completion", n)
	}
	if _, err := f.orch.StartDraft(f.ctx, d.ID); !errors.Is(err, orchestrator.ErrInvalidState) {
		t.Fatalf("start after completion: %v", err)
	}

	want := []events.Type{events.TypeDraftStarted, events.TypeDraftPaused, events.TypeDraftResumed, events.TypeDraftCompleted}
	for _, typ := range want {
		if f.pub.count(typ) != 1 {
			t.Errorf("expected one %s event, got %d", typ, f.pub.count(typ))
		}
	}
}

func TestSnakeDraftRunsToCompletion(t *testing.T) {
	f := newFixture(t, fixtureOpts{teams: 4, players: 20})
	d := f.started(f.request(models.DraftFormatSnake))

	order := []int{0, 1, 2, 3, 3, 2, 1, 0, 0, 1, 2, 3}
	for i, idx := range order {
		cur := f.draft(d.ID)
		if cur.CurrentPick != i+1 || cur.CurrentTeamID != f.teams[idx] {
			t.Fatalf("pick %d: on clock %s at pick %d, want team %d", i+1, cur.CurrentTeamID, cur.CurrentPick, idx)
		}
		if want := i/4 + 1; cur.CurrentRound != want {
			t.Fatalf("pick %d: round %d, want %d", i+1, cur.CurrentRound, want)
		}
		p := f.pick(d.ID, f.teams[idx], f.players[i].ID)
		if p.PickNumber != i+1 || p.IsAutoPick {
			t.Fatalf("recorded pick %+v", p)
		}
	}

	final := f.draft(d.ID)
	if final.Status != models.DraftStatusCompleted || final.CompletedAt == nil {
		t.Fatalf("final draft %+v", final)
	}
	if final.CurrentPick != 12 {
		t.Fatalf("pointer %d after completion, want the last slot", final.CurrentPick)
	}
	if n := f.orch.PendingTimers(d.ID); n != 0 {
		t.Fatalf("%d timers left after completion", n)
	}
	if got := len(f.picks(d.ID)); got != 12 {
		t.Fatalf("%d picks recorded, want 12", got)
	}
	if f.pub.count(events.TypePickMade) != 12 || f.pub.last().EventType != events.TypeDraftCompleted {
		t.Fatalf("unexpected event stream ending in %s", f.pub.last().EventType)
	}

	if _, err := f.orch.MakePick(f.ctx, d.ID, f.teams[3], f.players[15].ID); !errors.Is(err, orchestrator.ErrInvalidState) {
		t.Fatalf("pick after completion: %v", err)
	}
}

func TestSnakeTurnKeepsTeamAcrossRoundBoundary(t *testing.T) {
	f := newFixture(t, fixtureOpts{teams: 12, players: 30})
	req := f.request(models.DraftFormatSnake)
	req.Rounds = 2
	d := f.started(req)

	for i := 0; i < 12; i++ {
		f.pick(d.ID, f.teams[i], f.players[i].ID)
	}

	cur := f.draft(d.ID)
	if cur.CurrentPick != 13 || cur.CurrentRound != 2 || cur.CurrentTeamID != f.teams[11] {
		t.Fatalf("after pick 12: pick %d round %d team %s", cur.CurrentPick, cur.CurrentRound, cur.CurrentTeamID)
	}

	f.pick(d.ID, f.teams[11], f.players[12].ID)
	if cur := f.draft(d.ID); cur.CurrentTeamID != f.teams[10] {
		t.Fatalf("pick 14 belongs to team 11, got %s", cur.CurrentTeamID)
	}
}

func TestLinearDraftOrder(t *testing.T) {
	f := newFixture(t, fixtureOpts{teams: 3, players: 10})
	req := f.request(models.DraftFormatLinear)
	req.Rounds = 2
	d := f.started(req)

	for i := 0; i < 6; i++ {
		cur := f.draft(d.ID)
		if cur.CurrentTeamID != f.teams[i%3] {
			t.Fatalf("pick %d on clock %s, want team %d", i+1, cur.CurrentTeamID, i%3)
		}
		f.pick(d.ID, cur.CurrentTeamID, f.players[i].ID)
	}
	if f.draft(d.ID).Status != models.DraftStatusCompleted {
		t.Fatal("linear draft did not complete")
	}
}

func TestMakePickRejections(t *testing.T) {
	f := newFixture(t, fixtureOpts{players: 10})
	d := f.create(f.request(models.DraftFormatSnake))
	before := f.draft(d.ID)

	if _, err := f.orch.MakePick(f.ctx, d.ID, f.teams[0], f.players[0].ID); !errors.Is(err, orchestrator.ErrInvalidState) {
		t.Fatalf("pick before start: %v", err)
	}
	if diff := cmp.Diff(before, f.draft(d.ID)); diff != "" {
		t.Fatalf("rejected pick changed the draft (-want +got):\n%s", diff)
	}
	if len(f.picks(d.ID)) != 0 || f.pub.count(events.TypePickMade) != 0 {
		t.Fatal("rejected pick left a trace")
	}

	if _, err := f.orch.StartDraft(f.ctx, d.ID); err != nil {
		t.Fatalf("StartDraft: %v", err)
	}
	f.pick(d.ID, f.teams[0], f.players[0].ID)

	cases := []struct {
		name    string
		draftID uuid.UUID
		teamID  uuid.UUID
		player  uuid.UUID
		want    error
	}{
		{"out of turn", d.ID, f.teams[0], f.players[1].ID, orchestrator.ErrNotYourTurn},
		{"already drafted", d.ID, f.teams[1], f.players[0].ID, orchestrator.ErrAlreadyDrafted},
		{"unknown player", d.ID, f.teams[1], uuid.New(), orchestrator.ErrNotFound},
		{"unknown draft", uuid.New(), f.teams[1], f.players[1].ID, orchestrator.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := f.draft(d.ID)
			if _, err := f.orch.MakePick(f.ctx, tc.draftID, tc.teamID, tc.player); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			if diff := cmp.Diff(before, f.draft(d.ID)); diff != "" {
				t.Fatalf("rejected pick changed the draft (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConcurrentPicksForOneSlot(t *testing.T) {
	f := newFixture(t, fixtureOpts{players: 20})
	d := f.started(f.request(models.DraftFormatSnake))

	const attempts = 10
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.orch.MakePick(f.ctx, d.ID, f.teams[0], f.players[i].ID)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, orchestrator.ErrNotYourTurn):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("%d picks succeeded for a single slot", ok)
	}
	if got := len(f.picks(d.ID)); got != 1 {
		t.Fatalf("%d picks recorded", got)
	}
	if cur := f.draft(d.ID); cur.CurrentPick != 2 || cur.CurrentTeamID != f.teams[1] {
		t.Fatalf("draft at pick %d with %s on the clock", cur.CurrentPick, cur.CurrentTeamID)
	}
}

func TestPersistenceFailureLeavesDraftUnchanged(t *testing.T) {
	f := newFixture(t, fixtureOpts{players: 10})
	d := f.started(f.request(models.DraftFormatSnake))
	before := f.draft(d.ID)

	f.store.FailWrites(errors.New("connection reset"))
	if _, err := f.orch.MakePick(f.ctx, d.ID, f.teams[0], f.players[0].ID); !errors.Is(err, orchestrator.ErrPersistence) {
		t.Fatalf("MakePick with failing store: %v", err)
	}
	f.store.FailWrites(nil)

	if diff := cmp.Diff(before, f.draft(d.ID)); diff != "" {
		t.Fatalf("failed pick changed the draft (-want +got):\n%s", diff)
	}
	if drafted, _ := f.store.IsPlayerDrafted(f.ctx, f.league.ID, f.players[0].ID); drafted {
		t.Fatal("failed pick rostered the player")
	}

	f.pick(d.ID, f.teams[0], f.players[0].ID)
	if cur := f.draft(d.ID); cur.CurrentPick != 2 {
		t.Fatalf("retry left draft at pick %d", cur.CurrentPick)
	}
}

func TestRecoverRearmsTimers(t *testing.T) {
	f := newFixture(t, fixtureOpts{players: 10})
	running := f.started(f.request(models.DraftFormatSnake))
	paused := f.started(f.request(models.DraftFormatSnake))
	if _, err := f.orch.PauseDraft(f.ctx, paused.ID, f.commissioner); err != nil {
		t.Fatalf("PauseDraft: %v", err)
	}
	f.create(f.request(models.DraftFormatSnake))

	restarted := orchestrator.NewOrchestrator(f.store, f.pub, orchestrator.NewNeedsStrategy(), orchestrator.Config{}, f.clock)
	n, err := restarted.Recover(f.ctx)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if n != 2 {
		t.Fatalf("recovered %d drafts, want 2", n)
	}
	if got := restarted.PendingTimers(running.ID); got != 1 {
		t.Fatalf("running draft has %d timers, want 1", got)
	}
	if got := restarted.PendingTimers(paused.ID); got != 0 {
		t.Fatalf("paused draft has %d timers, want 0", got)
	}

	board, err := restarted.GetDraftBoard(f.ctx, running.ID)
	if err != nil {
		t.Fatalf("GetDraftBoard: %v", err)
	}
	if board.Deadline == nil || !board.Deadline.Equal(f.clock.Now().Add(time.Minute)) {
		t.Fatalf("recovered deadline %v", board.Deadline)
	}
}

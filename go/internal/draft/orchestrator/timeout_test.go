package orchestrator_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/mcdev12/draftroom/go/internal/models"
)

// waitForClock waits until the draft sits at pick with a fresh timer armed.
func (f *fixture) waitForClock(draftID uuid.UUID, pick int) {
	f.t.Helper()
	f.waitFor(fmt.Sprintf("pick %d on the clock", pick), func() bool {
		d, err := f.orch.GetDraft(f.ctx, draftID)
		return err == nil && d.CurrentPick == pick && f.orch.PendingTimers(draftID) == 1
	})
}

func (f *fixture) deadline(draftID uuid.UUID) *time.Time {
	f.t.Helper()
	board, err := f.orch.GetDraftBoard(f.ctx, draftID)
	if err != nil {
		f.t.Fatalf("GetDraftBoard: %v", err)
	}
	return board.Deadline
}

func TestTimerExpiryAutoPicksForNeeds(t *testing.T) {
	f := newFixture(t, fixtureOpts{teams: 2})

	star := models.DraftablePlayer{ID: uuid.New(), FullName: "Star Receiver", Position: "WR", ADP: 1, OverallRank: 1}
	qb := models.DraftablePlayer{ID: uuid.New(), FullName: "Backup Passer", Position: "QB", ADP: 40, OverallRank: 40}
	kept := models.DraftablePlayer{ID: uuid.New(), FullName: "Kept Runner", Position: "RB", ADP: 0.5, OverallRank: 1}
	f.store.AddPlayers(star, qb, kept)

	// first team's roster is full except for both QB slots
	for _, pos := range []string{"RB", "RB", "RB", "RB", "WR", "WR", "WR", "WR", "TE", "TE", "DST", "K"} {
		f.store.AddRosterEntry(models.RosterEntry{
			ID: uuid.New(), LeagueID: f.league.ID, TeamID: f.teams[0], PlayerID: uuid.New(),
			Position: pos, AcquisitionType: models.AcquisitionTypeKeeper,
		})
	}
	f.store.AddRosterEntry(models.RosterEntry{
		ID: uuid.New(), LeagueID: f.league.ID, TeamID: f.teams[1], PlayerID: kept.ID,
		Position: "RB", AcquisitionType: models.AcquisitionTypeKeeper,
	})

	req := f.request(models.DraftFormatSnake)
	req.AutoPickEnabled = true
	d := f.started(req)

	f.clock.Advance(time.Minute)
	f.waitForClock(d.ID, 2)

	picks := f.picks(d.ID)
	if len(picks) != 1 {
		t.Fatalf("%d picks recorded, want 1", len(picks))
	}
	if picks[0].PlayerID != qb.ID || !picks[0].IsAutoPick || picks[0].TeamID != f.teams[0] {
		t.Fatalf("auto-pick %+v, want the QB for the first team", picks[0])
	}
	if picks[0].TimeTakenSec != 60 {
		t.Fatalf("time taken %d, want 60", picks[0].TimeTakenSec)
	}

	made := f.pub.ofType(t, events.TypePickMade)
	if len(made) != 1 || !made[0].(events.PickMadePayload).IsAutoPick {
		t.Fatalf("PickMade events %+v", made)
	}
	if cur := f.draft(d.ID); cur.CurrentTeamID != f.teams[1] {
		t.Fatalf("second team should be on the clock, got %s", cur.CurrentTeamID)
	}
}

func TestTimerExpiryWithoutAutoPickSkips(t *testing.T) {
	f := newFixture(t, fixtureOpts{players: 10})
	d := f.started(f.request(models.DraftFormatSnake))

	f.clock.Advance(time.Minute)
	f.waitForClock(d.ID, 2)

	if got := len(f.picks(d.ID)); got != 0 {
		t.Fatalf("dead pick recorded %d picks", got)
	}
	skipped := f.pub.ofType(t, events.TypePickSkipped)
	if len(skipped) != 1 {
		t.Fatalf("%d PickSkipped events", len(skipped))
	}
	ev := skipped[0].(events.PickSkippedPayload)
	if ev.PickNumber != 1 || ev.TeamID != f.teams[0] || ev.Reason != "time expired" {
		t.Fatalf("PickSkipped %+v", ev)
	}
	if cur := f.draft(d.ID); cur.CurrentTeamID != f.teams[1] {
		t.Fatalf("second team should be on the clock, got %s", cur.CurrentTeamID)
	}
}

func TestAutoPickWithEmptyPoolSkips(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	req := f.request(models.DraftFormatSnake)
	req.AutoPickEnabled = true
	d := f.started(req)

	f.clock.Advance(time.Minute)
	f.waitForClock(d.ID, 2)

	skipped := f.pub.ofType(t, events.TypePickSkipped)
	if len(skipped) != 1 || skipped[0].(events.PickSkippedPayload).Reason != "no eligible players" {
		t.Fatalf("PickSkipped events %+v", skipped)
	}
}

func TestPauseStopsPickTimer(t *testing.T) {
	f := newFixture(t, fixtureOpts{players: 10})
	d := f.started(f.request(models.DraftFormatSnake))
	if n := f.orch.PendingTimers(d.ID); n != 1 {
		t.Fatalf("%d timers after start, want 1", n)
	}

	f.clock.Advance(30 * time.Second)
	if _, err := f.orch.PauseDraft(f.ctx, d.ID, f.commissioner); err != nil {
		t.Fatalf("PauseDraft: %v", err)
	}
	if n := f.orch.PendingTimers(d.ID); n != 0 {
		t.Fatalf("%d timers while paused, want 0", n)
	}
	if f.deadline(d.ID) != nil {
		t.Fatal("paused draft still reports a deadline")
	}

	f.clock.Advance(10 * time.Minute)
	if cur := f.draft(d.ID); cur.CurrentPick != 1 || cur.Status != models.DraftStatusPaused {
		t.Fatalf("paused draft moved: pick %d status %s", cur.CurrentPick, cur.Status)
	}

	if _, err := f.orch.ResumeDraft(f.ctx, d.ID, f.commissioner); err != nil {
		t.Fatalf("ResumeDraft: %v", err)
	}
	want := f.clock.Now().Add(time.Minute)
	if got := f.deadline(d.ID); got == nil || !got.Equal(want) {
		t.Fatalf("deadline after resume %v, want a full %v", got, want)
	}

	f.clock.Advance(time.Minute)
	f.waitForClock(d.ID, 2)
	if f.pub.count(events.TypePickSkipped) != 1 {
		t.Fatal("expected the resumed clock to expire once")
	}
}

func TestGraceDelayExtendsDeadline(t *testing.T) {
	f := newFixture(t, fixtureOpts{players: 10})
	req := f.request(models.DraftFormatSnake)
	req.AutoPickEnabled = true
	req.AutoPickDelaySec = 10
	d := f.started(req)

	want := f.clock.Now().Add(70 * time.Second)
	if got := f.deadline(d.ID); got == nil || !got.Equal(want) {
		t.Fatalf("deadline %v, want %v", got, want)
	}
	next := f.pub.ofType(t, events.TypeNextOnClock)
	if len(next) != 1 {
		t.Fatalf("%d NextOnClock events", len(next))
	}
	if ev := next[0].(events.NextOnClockPayload); ev.TimeoutAt == nil || !ev.TimeoutAt.Equal(want) || ev.TimePerPickSec != 60 {
		t.Fatalf("NextOnClock %+v", ev)
	}

	f.clock.Advance(70 * time.Second)
	f.waitForClock(d.ID, 2)
	if picks := f.picks(d.ID); len(picks) != 1 || !picks[0].IsAutoPick {
		t.Fatalf("picks after grace delay %+v", picks)
	}
}

func TestManualPickRestartsClock(t *testing.T) {
	f := newFixture(t, fixtureOpts{players: 10})
	d := f.started(f.request(models.DraftFormatSnake))

	f.clock.Advance(45 * time.Second)
	p := f.pick(d.ID, f.teams[0], f.players[0].ID)
	if p.TimeTakenSec != 45 {
		t.Fatalf("time taken %d, want 45", p.TimeTakenSec)
	}

	if n := f.orch.PendingTimers(d.ID); n != 1 {
		t.Fatalf("%d timers after pick, want 1", n)
	}
	want := f.clock.Now().Add(time.Minute)
	if got := f.deadline(d.ID); got == nil || !got.Equal(want) {
		t.Fatalf("deadline %v, want %v", got, want)
	}
}

func TestNoTimerWithoutPickTime(t *testing.T) {
	f := newFixture(t, fixtureOpts{players: 10})
	req := f.request(models.DraftFormatSnake)
	req.TimePerPickSec = 0
	req.AutoPickEnabled = true
	d := f.started(req)

	if n := f.orch.PendingTimers(d.ID); n != 0 {
		t.Fatalf("%d timers for an untimed draft", n)
	}
	if f.deadline(d.ID) != nil {
		t.Fatal("untimed draft reports a deadline")
	}
}

func TestAutoPickedDraftRunsToCompletion(t *testing.T) {
	f := newFixture(t, fixtureOpts{teams: 2, players: 10})
	req := f.request(models.DraftFormatSnake)
	req.Rounds = 2
	req.AutoPickEnabled = true
	d := f.started(req)

	for pick := 2; pick <= 4; pick++ {
		f.clock.Advance(time.Minute)
		f.waitForClock(d.ID, pick)
	}
	f.clock.Advance(time.Minute)
	f.waitFor("completion", func() bool {
		return f.draft(d.ID).Status == models.DraftStatusCompleted
	})

	if n := f.orch.PendingTimers(d.ID); n != 0 {
		t.Fatalf("%d timers after completion", n)
	}
	picks := f.picks(d.ID)
	if len(picks) != 4 {
		t.Fatalf("%d picks, want 4", len(picks))
	}
	seen := make(map[uuid.UUID]bool)
	for _, p := range picks {
		if seen[p.PlayerID] {
			t.Fatalf("player %s drafted twice", p.PlayerID)
		}
		seen[p.PlayerID] = true
	}
}

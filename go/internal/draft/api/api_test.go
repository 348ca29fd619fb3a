package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/draftroom/go/internal/draft/api"
	"github.com/mcdev12/draftroom/go/internal/draft/broadcast"
	"github.com/mcdev12/draftroom/go/internal/draft/memstore"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/models"
)

type env struct {
	ctx          context.Context
	client       *api.Client
	league       models.League
	commissioner uuid.UUID
	teams        []uuid.UUID
	players      []models.DraftablePlayer
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memstore.New()
	commissioner := uuid.New()
	league := models.League{ID: uuid.New(), Name: "API League", CommissionerID: commissioner, Season: "2025"}
	store.AddLeague(league)

	positions := []string{"QB", "RB", "WR", "TE"}
	players := make([]models.DraftablePlayer, 8)
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

	clock := clockwork.NewFakeClockAt(time.Date(2025, 9, 1, 19, 0, 0, 0, time.UTC))
	engine := orchestrator.NewOrchestrator(store, broadcast.LogPublisher{}, orchestrator.NewNeedsStrategy(), orchestrator.Config{}, clock)

	mux := http.NewServeMux()
	mux.Handle(api.NewHandler(engine))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &env{
		ctx:          context.Background(),
		client:       api.NewClient(srv.Client(), srv.URL),
		league:       league,
		commissioner: commissioner,
		teams:        []uuid.UUID{uuid.New(), uuid.New()},
		players:      players,
	}
}

func (e *env) createDraft(t *testing.T) *models.DraftSettings {
	t.Helper()
	d, err := e.client.CreateDraft(e.ctx, api.CreateDraftRequest{
		LeagueID:   e.league.ID,
		Format:     models.DraftFormatSnake,
		Rounds:     2,
		StartDate:  time.Date(2025, 9, 1, 19, 0, 0, 0, time.UTC),
		DraftOrder: e.teams,
	})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	return d
}

func TestClientRoundTrip(t *testing.T) {
	e := newEnv(t)
	created := e.createDraft(t)
	if created.Status != models.DraftStatusScheduled {
		t.Fatalf("status = %s, want scheduled", created.Status)
	}

	started, err := e.client.StartDraft(e.ctx, created.ID)
	if err != nil {
		t.Fatalf("StartDraft: %v", err)
	}
	if started.CurrentTeamID != e.teams[0] {
		t.Fatalf("on the clock = %s, want %s", started.CurrentTeamID, e.teams[0])
	}

	pick, err := e.client.MakePick(e.ctx, created.ID, e.teams[0], e.players[0].ID)
	if err != nil {
		t.Fatalf("MakePick: %v", err)
	}
	if pick.PickNumber != 1 || pick.PlayerID != e.players[0].ID {
		t.Errorf("pick = %+v", pick)
	}

	board, err := e.client.GetDraftBoard(e.ctx, created.ID)
	if err != nil {
		t.Fatalf("GetDraftBoard: %v", err)
	}
	if board.Draft.CurrentPick != 2 || len(board.DraftedPlayers) != 1 {
		t.Errorf("board pick %d with %d drafted, want 2 with 1", board.Draft.CurrentPick, len(board.DraftedPlayers))
	}

	if _, err := e.client.PauseDraft(e.ctx, created.ID, e.commissioner); err != nil {
		t.Fatalf("PauseDraft: %v", err)
	}
	resumed, err := e.client.ResumeDraft(e.ctx, created.ID, e.commissioner)
	if err != nil {
		t.Fatalf("ResumeDraft: %v", err)
	}
	if resumed.Status != models.DraftStatusInProgress {
		t.Errorf("status after resume = %s", resumed.Status)
	}

	undone, err := e.client.UndoPick(e.ctx, created.ID, e.commissioner)
	if err != nil {
		t.Fatalf("UndoPick: %v", err)
	}
	if diff := cmp.Diff(pick.ID, undone.ID); diff != "" {
		t.Errorf("undone pick (-want +got):\n%s", diff)
	}

	completed, err := e.client.CompleteDraft(e.ctx, created.ID)
	if err != nil {
		t.Fatalf("CompleteDraft: %v", err)
	}
	got, err := e.client.GetDraft(e.ctx, created.ID)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if got.Status != models.DraftStatusCompleted || completed.Status != models.DraftStatusCompleted {
		t.Errorf("status = %s/%s, want completed", got.Status, completed.Status)
	}
}

func TestClientRestoresErrorKinds(t *testing.T) {
	e := newEnv(t)
	d := e.createDraft(t)
	if _, err := e.client.StartDraft(e.ctx, d.ID); err != nil {
		t.Fatalf("StartDraft: %v", err)
	}

	tests := []struct {
		name     string
		call     func() error
		wantErr  error
		wantCode connect.Code
	}{
		{
			name: "wrong team",
			call: func() error {
				_, err := e.client.MakePick(e.ctx, d.ID, e.teams[1], e.players[0].ID)
				return err
			},
			wantErr:  orchestrator.ErrNotYourTurn,
			wantCode: connect.CodeFailedPrecondition,
		},
		{
			name: "unknown draft",
			call: func() error {
				_, err := e.client.GetDraft(e.ctx, uuid.New())
				return err
			},
			wantErr:  orchestrator.ErrNotFound,
			wantCode: connect.CodeNotFound,
		},
		{
			name: "not commissioner",
			call: func() error {
				_, err := e.client.PauseDraft(e.ctx, d.ID, e.teams[0])
				return err
			},
			wantErr:  orchestrator.ErrPermissionDenied,
			wantCode: connect.CodePermissionDenied,
		},
		{
			name: "bad create",
			call: func() error {
				_, err := e.client.CreateDraft(e.ctx, api.CreateDraftRequest{LeagueID: e.league.ID, Format: "draft-lottery", Rounds: 1, DraftOrder: e.teams})
				return err
			},
			wantErr:  orchestrator.ErrInvalidArgument,
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name: "nominate in snake draft",
			call: func() error {
				_, err := e.client.NominatePlayer(e.ctx, d.ID, e.teams[0], e.players[0].ID)
				return err
			},
			wantErr:  orchestrator.ErrInvalidState,
			wantCode: connect.CodeFailedPrecondition,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got := connect.CodeOf(err); got != tt.wantCode {
				t.Errorf("code = %v, want %v", got, tt.wantCode)
			}
		})
	}
}

func TestPlaceBidOverRPC(t *testing.T) {
	e := newEnv(t)
	budget := 100
	d, err := e.client.CreateDraft(e.ctx, api.CreateDraftRequest{
		LeagueID:      e.league.ID,
		Format:        models.DraftFormatAuction,
		Rounds:        1,
		StartDate:     time.Date(2025, 9, 1, 19, 0, 0, 0, time.UTC),
		AuctionBudget: &budget,
		DraftOrder:    e.teams,
	})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if _, err := e.client.StartDraft(e.ctx, d.ID); err != nil {
		t.Fatalf("StartDraft: %v", err)
	}

	n, err := e.client.NominatePlayer(e.ctx, d.ID, e.teams[0], e.players[0].ID)
	if err != nil {
		t.Fatalf("NominatePlayer: %v", err)
	}
	bid, err := e.client.PlaceBid(e.ctx, n.ID, e.teams[1], 5)
	if err != nil {
		t.Fatalf("PlaceBid: %v", err)
	}
	if bid.CurrentBid != 5 || bid.Leader() != e.teams[1] {
		t.Errorf("nomination = bid %d by %s", bid.CurrentBid, bid.Leader())
	}

	_, err = e.client.PlaceBid(e.ctx, n.ID, e.teams[0], 5)
	if !errors.Is(err, orchestrator.ErrBidTooLow) {
		t.Errorf("equal bid err = %v, want %v", err, orchestrator.ErrBidTooLow)
	}
}

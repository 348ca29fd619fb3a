package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/turnorder"
	"github.com/mcdev12/draftroom/go/internal/models"
)

// GetDraftBoard assembles a read-only view of the draft. It never takes the
// draft lock, so it may trail an in-flight mutation.
func (o *Orchestrator) GetDraftBoard(ctx context.Context, draftID uuid.UUID) (*models.DraftBoard, error) {
	v, err := o.boardView(ctx, draftID)
	if err != nil {
		return nil, err
	}
	d := &v.draft

	available, err := o.repo.ListAvailablePlayers(ctx, d.LeagueID)
	if err != nil {
		return nil, repoErr("list available players", err)
	}
	for i := range available {
		available[i].Tier = models.TierForADP(available[i].ADP)
	}

	drafted, err := o.repo.ListDraftedPlayers(ctx, draftID)
	if err != nil {
		return nil, repoErr("list drafted players", err)
	}
	for i := range drafted {
		drafted[i].Player.Tier = models.TierForADP(drafted[i].Player.ADP)
		drafted[i].Player.IsDrafted = true
	}

	rosters, err := o.repo.ListRosters(ctx, d.LeagueID)
	if err != nil {
		return nil, repoErr("list rosters", err)
	}

	board := &models.DraftBoard{
		Draft:            d.Clone(),
		Deadline:         v.deadline,
		AvailablePlayers: available,
		DraftedPlayers:   drafted,
		ActiveNomination: v.nomination,
	}

	var budgets map[uuid.UUID]int
	if d.Format == models.DraftFormatAuction {
		picks := make([]models.DraftPick, 0, len(drafted))
		for _, dp := range drafted {
			picks = append(picks, dp.Pick)
		}
		budgets = budgetsFromPicks(d, picks)
	}

	needsByTeam := make(map[uuid.UUID]models.TeamNeedsAnalysis, d.TeamCount())
	for _, teamID := range d.DraftOrder {
		needs := AnalyzeNeeds(teamID, rosters, o.cfg.RosterTemplate)
		if budgets != nil {
			b := budgets[teamID]
			needs.RemainingBudget = &b
		}
		needsByTeam[teamID] = needs
		board.TeamNeeds = append(board.TeamNeeds, needs)
	}

	if d.Status == models.DraftStatusCompleted {
		return board, nil
	}

	board.UpcomingPicks = turnorder.Upcoming(d, d.CurrentPick, o.cfg.UpcomingWindow)
	if v.deadline != nil {
		per := d.PickDuration()
		for i := 1; i < len(board.UpcomingPicks); i++ {
			at := v.deadline.Add(per * time.Duration(i-1))
			board.UpcomingPicks[i].ProjectedAt = &at
		}
	}

	if d.Status != models.DraftStatusScheduled {
		if needs, ok := needsByTeam[d.CurrentTeamID]; ok {
			board.Recommendations = o.strat.Recommend(needs, available, o.cfg.RecommendationLimit)
		}
	}
	return board, nil
}

// boardView prefers the live snapshot and falls back to the repository for
// drafts that are not loaded.
func (o *Orchestrator) boardView(ctx context.Context, draftID uuid.UUID) (*draftView, error) {
	if v := o.sessions.view(draftID); v != nil {
		return v, nil
	}
	d, err := o.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, repoErr("get draft", err)
	}
	v := &draftView{draft: *d}
	if d.Format == models.DraftFormatAuction && d.Status != models.DraftStatusCompleted {
		n, err := o.repo.GetActiveNomination(ctx, draftID)
		switch {
		case errors.Is(err, models.ErrNotFound):
		case err != nil:
			return nil, repoErr("get active nomination", err)
		default:
			v.nomination = n
		}
	}
	return v, nil
}

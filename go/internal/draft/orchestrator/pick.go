package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// MakePick records teamID's selection of playerID and advances the draft.
func (o *Orchestrator) MakePick(ctx context.Context, draftID, teamID, playerID uuid.UUID) (*models.DraftPick, error) {
	var pick *models.DraftPick
	err := o.withDraft(ctx, draftID, func(s *session) error {
		p, err := o.commitPick(ctx, s, teamID, playerID, false)
		pick = p
		return err
	})
	if err != nil {
		return nil, err
	}
	return pick, nil
}

// commitPick is the single path for snake and linear selections, human or automatic.
func (o *Orchestrator) commitPick(ctx context.Context, s *session, teamID, playerID uuid.UUID, auto bool) (*models.DraftPick, error) {
	player, err := o.guard.checkPick(ctx, &s.draft, teamID, playerID)
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	next := s.draft.Clone()
	pick := models.DraftPick{
		ID:           uuid.New(),
		DraftID:      next.ID,
		TeamID:       teamID,
		PlayerID:     playerID,
		PickNumber:   next.CurrentPick,
		Round:        next.CurrentRound,
		PickedAt:     now,
		TimeTakenSec: elapsedSec(s.clockStartedAt, now),
		IsAutoPick:   auto,
	}
	completed := advance(&next, now)

	entry, err := rosterEntry(&next, pick, player, models.AcquisitionTypeDraft)
	if err != nil {
		return nil, err
	}
	if err := o.repo.RecordPick(ctx, RecordPickParams{Pick: pick, Roster: entry, Draft: next}); err != nil {
		return nil, repoErr("record pick", err)
	}
	o.apply(s, next)

	log.Info().
		Str("draft_id", pick.DraftID.String()).
		Str("team_id", teamID.String()).
		Str("player_id", playerID.String()).
		Int("pick_number", pick.PickNumber).
		Bool("auto_pick", auto).
		Msg("pick made")

	o.publish(ctx, pick.DraftID, pickMadeEvent(pick, player))
	o.afterAdvance(ctx, s, completed)
	return &pick, nil
}

// skipPick advances past the current slot without recording a selection.
func (o *Orchestrator) skipPick(ctx context.Context, s *session, reason string) error {
	now := o.clock.Now()
	skipped := s.draft.Clone()
	next := s.draft.Clone()
	completed := advance(&next, now)

	if err := o.repo.UpdateDraft(ctx, next); err != nil {
		return repoErr("skip pick", err)
	}
	o.apply(s, next)

	log.Warn().
		Str("draft_id", next.ID.String()).
		Str("team_id", skipped.CurrentTeamID.String()).
		Int("pick_number", skipped.CurrentPick).
		Str("reason", reason).
		Msg("dead pick - advancing without a selection")

	o.publish(ctx, next.ID, events.PickSkippedPayload{
		DraftID:    next.ID,
		TeamID:     skipped.CurrentTeamID,
		Round:      skipped.CurrentRound,
		PickNumber: skipped.CurrentPick,
		Reason:     reason,
		SkippedAt:  now,
	})
	o.afterAdvance(ctx, s, completed)
	return nil
}

// selectAutoPick asks the strategy for the best available player for teamID.
func (o *Orchestrator) selectAutoPick(ctx context.Context, d *models.DraftSettings, teamID uuid.UUID) (models.DraftablePlayer, error) {
	available, err := o.repo.ListAvailablePlayers(ctx, d.LeagueID)
	if err != nil {
		return models.DraftablePlayer{}, repoErr("list available players", err)
	}
	rosters, err := o.repo.ListRosters(ctx, d.LeagueID)
	if err != nil {
		return models.DraftablePlayer{}, repoErr("list rosters", err)
	}
	needs := AnalyzeNeeds(teamID, rosters, o.cfg.RosterTemplate)
	return o.strat.SelectPlayer(needs, available)
}

func rosterEntry(d *models.DraftSettings, pick models.DraftPick, player *models.DraftablePlayer, acq models.AcquisitionType) (models.RosterEntry, error) {
	meta, err := json.Marshal(models.AcquisitionMeta{
		DraftID:       pick.DraftID,
		PickNumber:    pick.PickNumber,
		Round:         pick.Round,
		AuctionAmount: pick.AuctionAmount,
	})
	if err != nil {
		return models.RosterEntry{}, fmt.Errorf("marshal acquisition meta: %w", err)
	}
	return models.RosterEntry{
		ID:              uuid.New(),
		LeagueID:        d.LeagueID,
		TeamID:          pick.TeamID,
		PlayerID:        pick.PlayerID,
		Position:        player.Position,
		AcquiredAt:      pick.PickedAt,
		AcquisitionType: acq,
		AcquisitionMeta: meta,
	}, nil
}

func pickMadeEvent(pick models.DraftPick, player *models.DraftablePlayer) events.PickMadePayload {
	return events.PickMadePayload{
		PickID:        pick.ID,
		DraftID:       pick.DraftID,
		TeamID:        pick.TeamID,
		PlayerID:      pick.PlayerID,
		PlayerName:    player.FullName,
		Position:      player.Position,
		Round:         pick.Round,
		PickNumber:    pick.PickNumber,
		IsAutoPick:    pick.IsAutoPick,
		AuctionAmount: pick.AuctionAmount,
		MadeAt:        pick.PickedAt,
	}
}

func elapsedSec(from, to time.Time) int {
	if from.IsZero() || to.Before(from) {
		return 0
	}
	return int(to.Sub(from) / time.Second)
}

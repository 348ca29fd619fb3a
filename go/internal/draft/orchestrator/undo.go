package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/mcdev12/draftroom/go/internal/draft/turnorder"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// UndoPick removes the most recent pick and rewinds the draft to the slot it
// was made in. A completed draft reopens. Commissioner only.
func (o *Orchestrator) UndoPick(ctx context.Context, draftID, commissionerID uuid.UUID) (*models.DraftPick, error) {
	var undone models.DraftPick
	err := o.withDraft(ctx, draftID, func(s *session) error {
		if err := o.guard.checkCommissioner(ctx, &s.draft, commissionerID); err != nil {
			return err
		}
		if s.nomination != nil {
			return fmt.Errorf("%w: close nomination %s before undoing", ErrInvalidState, s.nomination.ID)
		}

		last, err := o.repo.LastPick(ctx, draftID)
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: draft %s has no picks to undo", ErrInvalidState, draftID)
		}
		if err != nil {
			return repoErr("get last pick", err)
		}

		now := o.clock.Now()
		next := s.draft.Clone()
		next.CurrentPick = last.PickNumber
		next.CurrentRound = last.Round
		next.CurrentTeamID = turnorder.TeamForPick(next.Format, last.PickNumber, next.DraftOrder)
		next.UpdatedAt = now
		if next.Status == models.DraftStatusCompleted {
			next.Status = models.DraftStatusInProgress
			next.CompletedAt = nil
		}

		if err := o.repo.UndoPick(ctx, UndoPickParams{Pick: *last, Draft: next}); err != nil {
			return repoErr("undo pick", err)
		}
		if last.AuctionAmount != nil && s.budgets != nil {
			s.budgets[last.TeamID] += *last.AuctionAmount
		}
		o.apply(s, next)

		log.Info().
			Str("draft_id", draftID.String()).
			Str("pick_id", last.ID.String()).
			Int("pick_number", last.PickNumber).
			Msg("pick undone")
		o.publish(ctx, draftID, events.PickUndonePayload{
			DraftID:    draftID,
			PickID:     last.ID,
			TeamID:     last.TeamID,
			PlayerID:   last.PlayerID,
			Round:      last.Round,
			PickNumber: last.PickNumber,
			UndoneBy:   commissionerID,
			UndoneAt:   now,
		})

		if next.Status == models.DraftStatusInProgress {
			o.putOnClock(ctx, s)
		}

		undone = *last
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &undone, nil
}

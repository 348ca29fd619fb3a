package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// NominatePlayer opens bidding on playerID. The nominator holds the opening bid
// and the auction closes when the auction timer fires.
func (o *Orchestrator) NominatePlayer(ctx context.Context, draftID, teamID, playerID uuid.UUID) (*models.AuctionNomination, error) {
	var out models.AuctionNomination
	err := o.withDraft(ctx, draftID, func(s *session) error {
		n, err := o.openNomination(ctx, s, teamID, playerID, false)
		if err != nil {
			return err
		}
		out = *n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// openNomination is the single path for nominations, human or automatic. It
// stops the nomination clock and starts the auction timer.
func (o *Orchestrator) openNomination(ctx context.Context, s *session, teamID, playerID uuid.UUID, auto bool) (*models.AuctionNomination, error) {
	if _, err := o.guard.checkNomination(ctx, s, teamID, playerID, o.cfg.OpeningBid); err != nil {
		return nil, err
	}

	draftID := s.draft.ID
	now := o.clock.Now()
	dur := o.cfg.AuctionDuration
	n := models.AuctionNomination{
		ID:               uuid.New(),
		DraftID:          draftID,
		PlayerID:         playerID,
		NominatingTeamID: teamID,
		CurrentBid:       o.cfg.OpeningBid,
		TimeRemainingSec: int(dur / time.Second),
		IsActive:         true,
		CreatedAt:        now,
		ExpiresAt:        now.Add(dur),
	}
	if err := o.repo.CreateNomination(ctx, n); err != nil {
		return nil, repoErr("create nomination", err)
	}

	o.timers.cancel(pickKey(draftID))
	s.deadline = nil
	n.ExpiresAt = o.timers.schedule(auctionKey(n.ID), draftID, dur)
	s.nomination = &n
	s.publishView()

	log.Info().
		Str("draft_id", draftID.String()).
		Str("nomination_id", n.ID.String()).
		Str("team_id", teamID.String()).
		Str("player_id", playerID.String()).
		Bool("auto_nomination", auto).
		Msg("player nominated")
	o.publish(ctx, draftID, events.AuctionNominationPayload{
		NominationID:     n.ID,
		DraftID:          draftID,
		PlayerID:         playerID,
		NominatingTeamID: teamID,
		OpeningBid:       n.CurrentBid,
		ExpiresAt:        n.ExpiresAt,
	})
	return &n, nil
}

// PlaceBid raises the price of an open nomination. Budgets are only charged
// when the auction resolves.
func (o *Orchestrator) PlaceBid(ctx context.Context, nominationID, teamID uuid.UUID, amount int) (*models.AuctionNomination, error) {
	found, err := o.repo.GetNomination(ctx, nominationID)
	if err != nil {
		return nil, repoErr("get nomination", err)
	}

	var out models.AuctionNomination
	err = o.withDraft(ctx, found.DraftID, func(s *session) error {
		if err := checkBid(s, nominationID, teamID, amount); err != nil {
			return err
		}

		now := o.clock.Now()
		bidder := teamID
		n := *s.nomination
		n.CurrentBid = amount
		n.CurrentBidderID = &bidder
		if o.cfg.ResetAuctionOnBid {
			n.ExpiresAt = now.Add(o.cfg.AuctionDuration)
		}
		n.TimeRemainingSec = int(n.ExpiresAt.Sub(now) / time.Second)

		if err := o.repo.UpdateNomination(ctx, n); err != nil {
			return repoErr("update nomination", err)
		}
		if o.cfg.ResetAuctionOnBid {
			n.ExpiresAt = o.timers.schedule(auctionKey(n.ID), n.DraftID, o.cfg.AuctionDuration)
		}
		s.nomination = &n
		s.publishView()

		log.Debug().
			Str("draft_id", n.DraftID.String()).
			Str("nomination_id", n.ID.String()).
			Str("team_id", teamID.String()).
			Int("amount", amount).
			Msg("bid accepted")
		o.publish(ctx, n.DraftID, events.AuctionBidPayload{
			NominationID: n.ID,
			DraftID:      n.DraftID,
			TeamID:       teamID,
			Amount:       amount,
			PlacedAt:     now,
			ExpiresAt:    n.ExpiresAt,
		})

		out = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// resolveAuction awards the open nomination to the leader at the current bid.
// The result is recorded as the pick at the current slot.
func (o *Orchestrator) resolveAuction(ctx context.Context, s *session) error {
	n := *s.nomination
	now := o.clock.Now()

	player, err := o.repo.GetPlayer(ctx, n.PlayerID)
	if err != nil {
		return repoErr("get nominated player", err)
	}

	winner := n.Leader()
	amount := n.CurrentBid
	closed := n
	closed.IsActive = false
	closed.CompletedAt = &now
	closed.TimeRemainingSec = 0

	next := s.draft.Clone()
	pick := models.DraftPick{
		ID:            uuid.New(),
		DraftID:       next.ID,
		TeamID:        winner,
		PlayerID:      n.PlayerID,
		PickNumber:    next.CurrentPick,
		Round:         next.CurrentRound,
		PickedAt:      now,
		TimeTakenSec:  elapsedSec(n.CreatedAt, now),
		AuctionAmount: &amount,
	}
	completed := advance(&next, now)

	entry, err := rosterEntry(&next, pick, player, models.AcquisitionTypeAuction)
	if err != nil {
		return err
	}
	if err := o.repo.RecordPick(ctx, RecordPickParams{Pick: pick, Roster: entry, Draft: next, Nomination: &closed}); err != nil {
		return repoErr("record auction result", err)
	}

	s.budgets[winner] -= amount
	s.nomination = nil
	o.apply(s, next)

	log.Info().
		Str("draft_id", next.ID.String()).
		Str("nomination_id", n.ID.String()).
		Str("team_id", winner.String()).
		Int("amount", amount).
		Int("remaining_budget", s.budget(winner)).
		Msg("auction resolved")

	o.publish(ctx, next.ID,
		events.AuctionResolvedPayload{
			NominationID:    n.ID,
			DraftID:         next.ID,
			PlayerID:        n.PlayerID,
			WinningTeamID:   winner,
			Amount:          amount,
			RemainingBudget: s.budget(winner),
			PickNumber:      pick.PickNumber,
			ResolvedAt:      now,
		},
		pickMadeEvent(pick, player),
	)
	o.afterAdvance(ctx, s, completed)
	return nil
}

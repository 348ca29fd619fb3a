package orchestrator

import (
	"context"
	"errors"

	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// TimeoutOutcome is what a fired timer ended up doing.
type TimeoutOutcome int

const (
	// OutcomeStale means the timer was cancelled or replaced before it could run.
	OutcomeStale TimeoutOutcome = iota
	OutcomeAutoPicked
	OutcomeDeadPick
	OutcomeAuctionResolved
	OutcomeAutoNominated
	OutcomeRetry
)

func (o TimeoutOutcome) String() string {
	switch o {
	case OutcomeAutoPicked:
		return "auto_picked"
	case OutcomeDeadPick:
		return "dead_pick"
	case OutcomeAuctionResolved:
		return "auction_resolved"
	case OutcomeAutoNominated:
		return "auto_nominated"
	case OutcomeRetry:
		return "retry"
	default:
		return "stale"
	}
}

// handleTimeout runs a fired timer under the draft lock. Only the live task for
// a key may act; anything else is stale.
func (o *Orchestrator) handleTimeout(ctx context.Context, job timeoutJob) (TimeoutOutcome, error) {
	outcome := OutcomeStale
	claimed := false
	err := o.withDraft(ctx, job.draftID, func(s *session) error {
		if !o.timers.claim(job) {
			return nil
		}
		claimed = true

		var err error
		switch job.key.kind {
		case pickTimer:
			outcome, err = o.expirePick(ctx, s)
		case auctionTimer:
			outcome, err = o.expireAuction(ctx, s, job)
		}
		if errors.Is(err, ErrPersistence) {
			// the timer was claimed, so arm a fresh one to try again
			o.timers.schedule(job.key, job.draftID, o.cfg.RetryDelay)
			outcome = OutcomeRetry
		}
		return err
	})
	if !claimed && errors.Is(err, ErrPersistence) && o.timers.rearm(job, o.cfg.RetryDelay) {
		// the draft could not be loaded, so the task is still live
		return OutcomeRetry, err
	}
	return outcome, err
}

// expirePick handles a team running out of time: auto-pick when enabled,
// otherwise a dead pick.
func (o *Orchestrator) expirePick(ctx context.Context, s *session) (TimeoutOutcome, error) {
	d := &s.draft
	if d.Status != models.DraftStatusInProgress {
		return OutcomeStale, nil
	}
	if d.Format == models.DraftFormatAuction {
		return o.expireNomination(ctx, s)
	}

	teamID := d.CurrentTeamID
	if !d.AutoPickEnabled {
		if err := o.skipPick(ctx, s, "time expired"); err != nil {
			return OutcomeStale, err
		}
		return OutcomeDeadPick, nil
	}

	player, err := o.selectAutoPick(ctx, d, teamID)
	if err == nil {
		_, err = o.commitPick(ctx, s, teamID, player.ID, true)
		if err == nil {
			return OutcomeAutoPicked, nil
		}
	}
	if !isValidationErr(err) {
		return OutcomeStale, err
	}

	log.Warn().
		Err(err).
		Str("draft_id", d.ID.String()).
		Str("team_id", teamID.String()).
		Int("pick_number", d.CurrentPick).
		Msg("auto-pick failed")

	reason := "auto-pick failed"
	if errors.Is(err, ErrExhausted) {
		reason = "no eligible players"
	}
	if err := o.skipPick(ctx, s, reason); err != nil {
		return OutcomeStale, err
	}
	return OutcomeDeadPick, nil
}

// expireNomination ends a nomination turn. A team that cannot cover the opening
// bid passes at once; an idle team gets the recommended player nominated when
// auto-pick is on, otherwise its turn is a dead pick.
func (o *Orchestrator) expireNomination(ctx context.Context, s *session) (TimeoutOutcome, error) {
	d := &s.draft
	if s.nomination != nil {
		return OutcomeStale, nil
	}

	teamID := d.CurrentTeamID
	reason := "nomination time expired"
	switch {
	case s.budget(teamID) < o.cfg.OpeningBid:
		reason = "cannot cover opening bid"
	case d.AutoPickEnabled:
		player, err := o.selectAutoPick(ctx, d, teamID)
		if err == nil {
			_, err = o.openNomination(ctx, s, teamID, player.ID, true)
			if err == nil {
				return OutcomeAutoNominated, nil
			}
		}
		if !isValidationErr(err) {
			return OutcomeStale, err
		}
		log.Warn().
			Err(err).
			Str("draft_id", d.ID.String()).
			Str("team_id", teamID.String()).
			Int("pick_number", d.CurrentPick).
			Msg("auto-nomination failed")
		reason = "auto-nomination failed"
		if errors.Is(err, ErrExhausted) {
			reason = "no eligible players"
		}
	}

	if err := o.skipPick(ctx, s, reason); err != nil {
		return OutcomeStale, err
	}
	return OutcomeDeadPick, nil
}

// expireAuction closes the nomination the timer belongs to.
func (o *Orchestrator) expireAuction(ctx context.Context, s *session, job timeoutJob) (TimeoutOutcome, error) {
	if s.nomination == nil || s.nomination.ID != job.key.id {
		return OutcomeStale, nil
	}
	if err := o.resolveAuction(ctx, s); err != nil {
		return OutcomeStale, err
	}
	return OutcomeAuctionResolved, nil
}

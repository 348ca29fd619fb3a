package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/mcdev12/draftroom/go/internal/draft/turnorder"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// CreateDraftRequest holds the configuration for a new draft.
type CreateDraftRequest struct {
	LeagueID         uuid.UUID          `json:"league_id"`
	Format           models.DraftFormat `json:"format"`
	Rounds           int                `json:"rounds"`
	TimePerPickSec   int                `json:"time_per_pick_sec"`
	StartDate        time.Time          `json:"start_date"`
	AuctionBudget    *int               `json:"auction_budget,omitempty"`
	DraftOrder       []uuid.UUID        `json:"draft_order"`
	AutoPickEnabled  bool               `json:"auto_pick_enabled"`
	AutoPickDelaySec int                `json:"auto_pick_delay_sec"`
}

func (r CreateDraftRequest) validate() error {
	if !r.Format.Valid() {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidArgument, r.Format)
	}
	if r.Rounds <= 0 {
		return fmt.Errorf("%w: rounds must be positive", ErrInvalidArgument)
	}
	if len(r.DraftOrder) == 0 {
		return fmt.Errorf("%w: draft order is empty", ErrInvalidArgument)
	}
	seen := make(map[uuid.UUID]bool, len(r.DraftOrder))
	for _, id := range r.DraftOrder {
		if id == uuid.Nil || seen[id] {
			return fmt.Errorf("%w: draft order has a missing or repeated team", ErrInvalidArgument)
		}
		seen[id] = true
	}
	if r.TimePerPickSec < 0 || r.AutoPickDelaySec < 0 {
		return fmt.Errorf("%w: timers cannot be negative", ErrInvalidArgument)
	}
	if r.Format == models.DraftFormatAuction && (r.AuctionBudget == nil || *r.AuctionBudget <= 0) {
		return fmt.Errorf("%w: auction drafts need a positive budget", ErrInvalidArgument)
	}
	return nil
}

// CreateDraft stores a scheduled draft with its pointer at pick 1.
func (o *Orchestrator) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.DraftSettings, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if _, err := o.repo.GetLeague(ctx, req.LeagueID); err != nil {
		return nil, repoErr("get league", err)
	}

	now := o.clock.Now()
	d := models.DraftSettings{
		ID:               uuid.New(),
		LeagueID:         req.LeagueID,
		Format:           req.Format,
		Rounds:           req.Rounds,
		TimePerPickSec:   req.TimePerPickSec,
		StartDate:        req.StartDate,
		DraftOrder:       append([]uuid.UUID(nil), req.DraftOrder...),
		AutoPickEnabled:  req.AutoPickEnabled,
		AutoPickDelaySec: req.AutoPickDelaySec,
		Status:           models.DraftStatusScheduled,
		CurrentPick:      1,
		CurrentRound:     1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Format == models.DraftFormatAuction {
		budget := *req.AuctionBudget
		d.AuctionBudget = &budget
	}

	if err := o.repo.CreateDraft(ctx, d); err != nil {
		return nil, repoErr("create draft", err)
	}

	log.Info().
		Str("draft_id", d.ID.String()).
		Str("league_id", d.LeagueID.String()).
		Str("format", string(d.Format)).
		Int("rounds", d.Rounds).
		Int("teams", d.TeamCount()).
		Msg("draft created")
	return &d, nil
}

// StartDraft moves a scheduled draft to in_progress and puts the first team on the clock.
func (o *Orchestrator) StartDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftSettings, error) {
	var out models.DraftSettings
	err := o.withDraft(ctx, draftID, func(s *session) error {
		if err := requireStatus(&s.draft, models.DraftStatusScheduled); err != nil {
			return err
		}

		now := o.clock.Now()
		next := s.draft.Clone()
		next.Status = models.DraftStatusInProgress
		next.StartedAt = &now
		next.CurrentPick = 1
		next.CurrentRound = 1
		next.CurrentTeamID = turnorder.TeamForPick(next.Format, 1, next.DraftOrder)
		next.UpdatedAt = now

		if err := o.repo.UpdateDraft(ctx, next); err != nil {
			return repoErr("start draft", err)
		}
		o.apply(s, next)

		log.Info().Str("draft_id", draftID.String()).Str("format", string(next.Format)).Msg("draft started")
		o.publish(ctx, draftID, events.DraftStartedPayload{
			DraftID:     draftID,
			Format:      string(next.Format),
			StartedAt:   now,
			TotalRounds: next.Rounds,
			TotalPicks:  next.TotalPicks(),
		})
		o.putOnClock(ctx, s)

		out = s.draft.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PauseDraft stops the pick clock. Open auctions keep running.
func (o *Orchestrator) PauseDraft(ctx context.Context, draftID, userID uuid.UUID) (*models.DraftSettings, error) {
	var out models.DraftSettings
	err := o.withDraft(ctx, draftID, func(s *session) error {
		if err := o.guard.checkCommissioner(ctx, &s.draft, userID); err != nil {
			return err
		}
		if err := requireStatus(&s.draft, models.DraftStatusInProgress); err != nil {
			return err
		}

		now := o.clock.Now()
		next := s.draft.Clone()
		next.Status = models.DraftStatusPaused
		next.PausedAt = &now
		next.UpdatedAt = now

		if err := o.repo.UpdateDraft(ctx, next); err != nil {
			return repoErr("pause draft", err)
		}
		o.timers.cancel(pickKey(draftID))
		s.deadline = nil
		o.apply(s, next)

		log.Info().Str("draft_id", draftID.String()).Int("pick_number", next.CurrentPick).Msg("draft paused")
		o.publish(ctx, draftID, events.DraftPausedPayload{DraftID: draftID, PausedAt: now, PausedBy: userID})

		out = s.draft.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResumeDraft restarts a paused draft with a fresh, full pick clock.
func (o *Orchestrator) ResumeDraft(ctx context.Context, draftID, userID uuid.UUID) (*models.DraftSettings, error) {
	var out models.DraftSettings
	err := o.withDraft(ctx, draftID, func(s *session) error {
		if err := o.guard.checkCommissioner(ctx, &s.draft, userID); err != nil {
			return err
		}
		if err := requireStatus(&s.draft, models.DraftStatusPaused); err != nil {
			return err
		}

		now := o.clock.Now()
		next := s.draft.Clone()
		next.Status = models.DraftStatusInProgress
		next.PausedAt = nil
		next.UpdatedAt = now

		if err := o.repo.UpdateDraft(ctx, next); err != nil {
			return repoErr("resume draft", err)
		}
		o.apply(s, next)

		log.Info().Str("draft_id", draftID.String()).Int("pick_number", next.CurrentPick).Msg("draft resumed")
		o.publish(ctx, draftID, events.DraftResumedPayload{DraftID: draftID, ResumedAt: now, ResumedBy: userID})
		o.putOnClock(ctx, s)

		out = s.draft.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteDraft ends a running or paused draft early. An open nomination is
// closed without a winner.
func (o *Orchestrator) CompleteDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftSettings, error) {
	var out models.DraftSettings
	err := o.withDraft(ctx, draftID, func(s *session) error {
		if err := requireStatus(&s.draft, models.DraftStatusInProgress, models.DraftStatusPaused); err != nil {
			return err
		}

		now := o.clock.Now()
		if s.nomination != nil {
			closed := *s.nomination
			closed.IsActive = false
			closed.CompletedAt = &now
			closed.TimeRemainingSec = 0
			if err := o.repo.UpdateNomination(ctx, closed); err != nil {
				return repoErr("close nomination", err)
			}
			log.Info().
				Str("draft_id", draftID.String()).
				Str("nomination_id", closed.ID.String()).
				Msg("open nomination cancelled by draft completion")
			s.nomination = nil
		}

		next := s.draft.Clone()
		markCompleted(&next, now)
		if err := o.repo.UpdateDraft(ctx, next); err != nil {
			return repoErr("complete draft", err)
		}
		o.apply(s, next)
		o.finish(ctx, s)

		out = s.draft.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// apply makes next the session's draft and refreshes the read snapshot.
func (o *Orchestrator) apply(s *session, next models.DraftSettings) {
	s.draft = next
	s.publishView()
}

// advance moves d to the next slot, or completes it after the last slot.
// It reports whether the draft completed.
func advance(d *models.DraftSettings, now time.Time) bool {
	d.UpdatedAt = now
	if d.CurrentPick >= d.TotalPicks() {
		markCompleted(d, now)
		return true
	}
	d.CurrentPick++
	d.CurrentRound = turnorder.RoundForPick(d.CurrentPick, d.TeamCount())
	d.CurrentTeamID = turnorder.TeamForPick(d.Format, d.CurrentPick, d.DraftOrder)
	return false
}

func markCompleted(d *models.DraftSettings, now time.Time) {
	d.Status = models.DraftStatusCompleted
	d.CompletedAt = &now
	d.PausedAt = nil
	d.UpdatedAt = now
}

// afterAdvance either finishes the draft or puts the next team on the clock.
func (o *Orchestrator) afterAdvance(ctx context.Context, s *session, completed bool) {
	if completed {
		o.finish(ctx, s)
		return
	}
	o.putOnClock(ctx, s)
}

// putOnClock restarts the pick clock for the current team and announces it.
// In auction drafts the clock bounds the nomination turn and only runs while
// no nomination is open. A nominator who cannot cover the opening bid gets a
// zero-length clock so the turn passes at once. Drafts without a pick time
// have no pick timer.
func (o *Orchestrator) putOnClock(ctx context.Context, s *session) {
	d := &s.draft
	now := o.clock.Now()

	o.timers.cancel(pickKey(d.ID))
	s.clockStartedAt = now
	s.deadline = nil

	dur := d.PickDuration()
	arm := dur > 0
	if d.Format == models.DraftFormatAuction {
		switch {
		case s.nomination != nil:
			arm = false
		case s.budget(d.CurrentTeamID) < o.cfg.OpeningBid:
			arm, dur = true, 0
		}
	}
	if d.Status == models.DraftStatusInProgress && arm {
		deadline := o.timers.schedule(pickKey(d.ID), d.ID, dur)
		s.deadline = &deadline
	}
	s.publishView()

	o.publish(ctx, d.ID, events.NextOnClockPayload{
		DraftID:        d.ID,
		TeamID:         d.CurrentTeamID,
		Round:          d.CurrentRound,
		PickNumber:     d.CurrentPick,
		StartedAt:      now,
		TimeoutAt:      s.deadline,
		TimePerPickSec: d.TimePerPickSec,
	})
}

// finish clears every timer and announces completion.
func (o *Orchestrator) finish(ctx context.Context, s *session) {
	d := &s.draft
	o.timers.cancelDraft(d.ID)
	s.deadline = nil
	s.nomination = nil
	s.publishView()

	completedAt := o.clock.Now()
	if d.CompletedAt != nil {
		completedAt = *d.CompletedAt
	}
	var duration time.Duration
	if d.StartedAt != nil {
		duration = completedAt.Sub(*d.StartedAt)
	}

	log.Info().
		Str("draft_id", d.ID.String()).
		Dur("duration", duration).
		Msg("draft completed")
	o.publish(ctx, d.ID, events.DraftCompletedPayload{
		DraftID:     d.ID,
		CompletedAt: completedAt,
		Duration:    duration.String(),
		TotalPicks:  d.TotalPicks(),
	})
}

package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Recover loads every running or paused draft and re-arms its timers: a full
// pick clock for running drafts (the nomination clock for auctions with no
// open nomination), and the remaining time for open nominations. It returns
// the number of drafts recovered.
func (o *Orchestrator) Recover(ctx context.Context) (int, error) {
	recovered := 0
	for _, status := range []models.DraftStatus{models.DraftStatusInProgress, models.DraftStatusPaused} {
		drafts, err := o.repo.ListDraftsByStatus(ctx, status)
		if err != nil {
			return recovered, fmt.Errorf("list %s drafts: %w", status, err)
		}

		for _, d := range drafts {
			err := o.withDraft(ctx, d.ID, func(s *session) error {
				if s.draft.Status == models.DraftStatusInProgress {
					o.putOnClock(ctx, s)
				}
				if n := s.nomination; n != nil {
					remaining := n.ExpiresAt.Sub(o.clock.Now())
					if remaining < 0 {
						remaining = 0
					}
					o.timers.schedule(auctionKey(n.ID), s.id, remaining)
				}
				return nil
			})
			if err != nil {
				log.Error().Err(err).Str("draft_id", d.ID.String()).Msg("failed to recover draft")
				continue
			}
			recovered++
		}
	}

	log.Info().Int("drafts", recovered).Msg("recovered live drafts")
	return recovered, nil
}

// PendingTimers reports how many pick and auction timers are armed for draftID.
func (o *Orchestrator) PendingTimers(draftID uuid.UUID) int {
	return o.timers.pending(draftID)
}

package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
)

// guard runs the checks every mutation makes before anything is written.
type guard struct {
	repo Repository
}

func requireStatus(d *models.DraftSettings, allowed ...models.DraftStatus) error {
	for _, st := range allowed {
		if d.Status == st {
			return nil
		}
	}
	return fmt.Errorf("%w: draft %s is %s", ErrInvalidState, d.ID, d.Status)
}

func requireFormat(d *models.DraftSettings, auction bool) error {
	isAuction := d.Format == models.DraftFormatAuction
	if isAuction == auction {
		return nil
	}
	if auction {
		return fmt.Errorf("%w: draft %s is not an auction draft", ErrInvalidState, d.ID)
	}
	return fmt.Errorf("%w: auction draft %s selects players by nomination", ErrInvalidState, d.ID)
}

func requireOnClock(d *models.DraftSettings, teamID uuid.UUID) error {
	if d.CurrentTeamID != teamID {
		return fmt.Errorf("%w: team %s is on the clock for pick %d", ErrNotYourTurn, d.CurrentTeamID, d.CurrentPick)
	}
	return nil
}

// availablePlayer loads playerID and checks nobody in the league holds it.
func (g *guard) availablePlayer(ctx context.Context, d *models.DraftSettings, playerID uuid.UUID) (*models.DraftablePlayer, error) {
	player, err := g.repo.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, repoErr(fmt.Sprintf("get player %s", playerID), err)
	}
	drafted, err := g.repo.IsPlayerDrafted(ctx, d.LeagueID, playerID)
	if err != nil {
		return nil, repoErr("check player availability", err)
	}
	if drafted {
		return nil, fmt.Errorf("%w: %s (%s)", ErrAlreadyDrafted, player.FullName, playerID)
	}
	return player, nil
}

// checkPick validates a snake or linear selection.
func (g *guard) checkPick(ctx context.Context, d *models.DraftSettings, teamID, playerID uuid.UUID) (*models.DraftablePlayer, error) {
	if err := requireFormat(d, false); err != nil {
		return nil, err
	}
	if err := requireStatus(d, models.DraftStatusInProgress); err != nil {
		return nil, err
	}
	if err := requireOnClock(d, teamID); err != nil {
		return nil, err
	}
	return g.availablePlayer(ctx, d, playerID)
}

// checkCommissioner confirms userID runs the draft's league.
func (g *guard) checkCommissioner(ctx context.Context, d *models.DraftSettings, userID uuid.UUID) error {
	league, err := g.repo.GetLeague(ctx, d.LeagueID)
	if err != nil {
		return repoErr("get league", err)
	}
	if league.CommissionerID != userID {
		return fmt.Errorf("%w: only the league commissioner can do this", ErrPermissionDenied)
	}
	return nil
}

// checkNomination validates putting playerID up for auction.
func (g *guard) checkNomination(ctx context.Context, s *session, teamID, playerID uuid.UUID, openingBid int) (*models.DraftablePlayer, error) {
	d := &s.draft
	if err := requireFormat(d, true); err != nil {
		return nil, err
	}
	if err := requireStatus(d, models.DraftStatusInProgress); err != nil {
		return nil, err
	}
	if s.nomination != nil {
		return nil, fmt.Errorf("%w: nomination %s is still open", ErrInvalidState, s.nomination.ID)
	}
	if err := requireOnClock(d, teamID); err != nil {
		return nil, err
	}
	if s.budget(teamID) < openingBid {
		return nil, fmt.Errorf("%w: team %s cannot cover the opening bid of %d", ErrInsufficientBudget, teamID, openingBid)
	}
	return g.availablePlayer(ctx, d, playerID)
}

// checkBid validates a bid against the open nomination and the team's budget.
func checkBid(s *session, nominationID, teamID uuid.UUID, amount int) error {
	n := s.nomination
	if n == nil || n.ID != nominationID {
		return fmt.Errorf("%w: nomination %s is closed", ErrInvalidState, nominationID)
	}
	if !s.draft.HasTeam(teamID) {
		return fmt.Errorf("team %s is not in draft %s: %w", teamID, s.draft.ID, ErrNotFound)
	}
	if amount <= n.CurrentBid {
		return fmt.Errorf("%w: bid %d must beat %d", ErrBidTooLow, amount, n.CurrentBid)
	}
	if remaining := s.budget(teamID); amount > remaining {
		return fmt.Errorf("%w: bid %d exceeds remaining budget %d", ErrInsufficientBudget, amount, remaining)
	}
	return nil
}

// isValidationErr reports whether err is a caller mistake rather than a storage failure.
func isValidationErr(err error) bool {
	return err != nil && !errors.Is(err, ErrPersistence)
}

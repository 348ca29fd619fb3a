package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/db"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/mcdev12/draftroom/go/internal/sqlutil"
)

// RecordPick inserts the pick and roster entry, advances the draft and closes
// the nomination, all in one transaction.
func (r *Repository) RecordPick(ctx context.Context, p orchestrator.RecordPickParams) error {
	return r.run(ctx, func(q *db.Queries) error {
		if err := q.CreateDraftPick(ctx, pickToDB(p.Pick)); err != nil {
			if uniqueViolation(err) {
				return fmt.Errorf("pick %d of draft %s already recorded: %w: %w", p.Pick.PickNumber, p.Pick.DraftID, models.ErrConflict, err)
			}
			return fmt.Errorf("failed to create draft pick: %w", err)
		}
		if err := q.CreateRosterEntry(ctx, rosterToDB(p.Roster)); err != nil {
			if uniqueViolation(err) {
				return fmt.Errorf("player %s is already rostered: %w: %w", p.Roster.PlayerID, models.ErrConflict, err)
			}
			return fmt.Errorf("failed to create roster entry: %w", err)
		}
		if err := updateDraft(ctx, q, p.Draft); err != nil {
			return err
		}
		if p.Nomination != nil {
			if err := updateNomination(ctx, q, *p.Nomination); err != nil {
				return err
			}
		}
		return nil
	})
}

// UndoPick deletes the pick and its roster entry and rewinds the draft.
func (r *Repository) UndoPick(ctx context.Context, p orchestrator.UndoPickParams) error {
	return r.run(ctx, func(q *db.Queries) error {
		n, err := q.DeleteDraftPick(ctx, p.Pick.ID)
		if err != nil {
			return fmt.Errorf("failed to delete draft pick: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("pick %s: %w", p.Pick.ID, models.ErrNotFound)
		}

		if _, err := q.DeleteRosterEntry(ctx, db.DeleteRosterEntryParams{
			LeagueID: p.Draft.LeagueID,
			TeamID:   p.Pick.TeamID,
			PlayerID: p.Pick.PlayerID,
		}); err != nil {
			return fmt.Errorf("failed to delete roster entry: %w", err)
		}
		return updateDraft(ctx, q, p.Draft)
	})
}

func (r *Repository) ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	rows, err := r.queries.ListDraftPicks(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list draft picks: %w", err)
	}
	out := make([]models.DraftPick, 0, len(rows))
	for _, row := range rows {
		out = append(out, dbPickToModel(row))
	}
	return out, nil
}

func (r *Repository) LastPick(ctx context.Context, draftID uuid.UUID) (*models.DraftPick, error) {
	row, err := r.queries.GetLastDraftPick(ctx, draftID)
	if err != nil {
		return nil, notFound(fmt.Sprintf("last pick of draft %s", draftID), err)
	}
	p := dbPickToModel(row)
	return &p, nil
}

func (r *Repository) IsPlayerDrafted(ctx context.Context, leagueID, playerID uuid.UUID) (bool, error) {
	drafted, err := r.queries.IsPlayerRostered(ctx, db.IsPlayerRosteredParams{LeagueID: leagueID, PlayerID: playerID})
	if err != nil {
		return false, fmt.Errorf("failed to check roster: %w", err)
	}
	return drafted, nil
}

func (r *Repository) CreateNomination(ctx context.Context, n models.AuctionNomination) error {
	if err := r.queries.CreateNomination(ctx, nominationToDB(n)); err != nil {
		if uniqueViolation(err) {
			return fmt.Errorf("draft %s already has an active nomination: %w: %w", n.DraftID, models.ErrConflict, err)
		}
		return fmt.Errorf("failed to create nomination: %w", err)
	}
	return nil
}

func (r *Repository) UpdateNomination(ctx context.Context, n models.AuctionNomination) error {
	return updateNomination(ctx, r.queries, n)
}

func (r *Repository) GetNomination(ctx context.Context, id uuid.UUID) (*models.AuctionNomination, error) {
	row, err := r.queries.GetNomination(ctx, id)
	if err != nil {
		return nil, notFound(fmt.Sprintf("nomination %s", id), err)
	}
	n := dbNominationToModel(row)
	return &n, nil
}

func (r *Repository) GetActiveNomination(ctx context.Context, draftID uuid.UUID) (*models.AuctionNomination, error) {
	row, err := r.queries.GetActiveNomination(ctx, draftID)
	if err != nil {
		return nil, notFound(fmt.Sprintf("active nomination for draft %s", draftID), err)
	}
	n := dbNominationToModel(row)
	return &n, nil
}

func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.DraftablePlayer, error) {
	row, err := r.queries.GetDraftablePlayer(ctx, id)
	if err != nil {
		return nil, notFound(fmt.Sprintf("player %s", id), err)
	}
	p := dbPlayerToModel(row)
	return &p, nil
}

func (r *Repository) ListAvailablePlayers(ctx context.Context, leagueID uuid.UUID) ([]models.DraftablePlayer, error) {
	rows, err := r.queries.ListAvailablePlayers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list available players: %w", err)
	}
	out := make([]models.DraftablePlayer, 0, len(rows))
	for _, row := range rows {
		out = append(out, dbPlayerToModel(row))
	}
	return out, nil
}

func (r *Repository) ListDraftedPlayers(ctx context.Context, draftID uuid.UUID) ([]models.DraftedPlayer, error) {
	rows, err := r.queries.ListDraftedPlayers(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafted players: %w", err)
	}
	out := make([]models.DraftedPlayer, 0, len(rows))
	for _, row := range rows {
		player := dbPlayerToModel(row.DraftablePlayer)
		player.IsDrafted = true
		out = append(out, models.DraftedPlayer{Pick: dbPickToModel(row.DraftPick), Player: player})
	}
	return out, nil
}

func (r *Repository) ListRosters(ctx context.Context, leagueID uuid.UUID) ([]models.RosterEntry, error) {
	rows, err := r.queries.ListRosterEntries(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rosters: %w", err)
	}
	out := make([]models.RosterEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.RosterEntry{
			ID:              row.ID,
			LeagueID:        row.LeagueID,
			TeamID:          row.TeamID,
			PlayerID:        row.PlayerID,
			Position:        row.Position,
			AcquiredAt:      row.AcquiredAt,
			AcquisitionType: models.AcquisitionType(row.AcquisitionType),
			AcquisitionMeta: row.AcquisitionMeta.RawMessage,
		})
	}
	return out, nil
}

func updateNomination(ctx context.Context, q *db.Queries, n models.AuctionNomination) error {
	affected, err := q.UpdateNomination(ctx, nominationToDB(n))
	if err != nil {
		return fmt.Errorf("failed to update nomination: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("nomination %s: %w", n.ID, models.ErrNotFound)
	}
	return nil
}

func pickToDB(p models.DraftPick) db.DraftPick {
	return db.DraftPick{
		ID:            p.ID,
		DraftID:       p.DraftID,
		TeamID:        p.TeamID,
		PlayerID:      p.PlayerID,
		PickNumber:    int32(p.PickNumber),
		Round:         int32(p.Round),
		PickedAt:      p.PickedAt,
		TimeTakenSec:  int32(p.TimeTakenSec),
		IsKeeper:      p.IsKeeper,
		IsAutoPick:    p.IsAutoPick,
		AuctionAmount: sqlutil.ToSqlInt32(p.AuctionAmount),
	}
}

func dbPickToModel(row db.DraftPick) models.DraftPick {
	return models.DraftPick{
		ID:            row.ID,
		DraftID:       row.DraftID,
		TeamID:        row.TeamID,
		PlayerID:      row.PlayerID,
		PickNumber:    int(row.PickNumber),
		Round:         int(row.Round),
		PickedAt:      row.PickedAt,
		TimeTakenSec:  int(row.TimeTakenSec),
		IsKeeper:      row.IsKeeper,
		IsAutoPick:    row.IsAutoPick,
		AuctionAmount: sqlutil.FromSqlInt32(row.AuctionAmount),
	}
}

func rosterToDB(e models.RosterEntry) db.Roster {
	return db.Roster{
		ID:              e.ID,
		LeagueID:        e.LeagueID,
		TeamID:          e.TeamID,
		PlayerID:        e.PlayerID,
		Position:        e.Position,
		AcquiredAt:      e.AcquiredAt,
		AcquisitionType: string(e.AcquisitionType),
		AcquisitionMeta: db.NullMeta(e.AcquisitionMeta),
	}
}

func nominationToDB(n models.AuctionNomination) db.AuctionNomination {
	return db.AuctionNomination{
		ID:               n.ID,
		DraftID:          n.DraftID,
		PlayerID:         n.PlayerID,
		NominatingTeamID: n.NominatingTeamID,
		CurrentBid:       int32(n.CurrentBid),
		CurrentBidderID:  sqlutil.ToNullUUID(n.CurrentBidderID),
		TimeRemainingSec: int32(n.TimeRemainingSec),
		IsActive:         n.IsActive,
		CreatedAt:        n.CreatedAt,
		ExpiresAt:        n.ExpiresAt,
		CompletedAt:      sqlutil.ToSqlTime(n.CompletedAt),
	}
}

func dbNominationToModel(row db.AuctionNomination) models.AuctionNomination {
	return models.AuctionNomination{
		ID:               row.ID,
		DraftID:          row.DraftID,
		PlayerID:         row.PlayerID,
		NominatingTeamID: row.NominatingTeamID,
		CurrentBid:       int(row.CurrentBid),
		CurrentBidderID:  sqlutil.FromNullUUID(row.CurrentBidderID),
		TimeRemainingSec: int(row.TimeRemainingSec),
		IsActive:         row.IsActive,
		CreatedAt:        row.CreatedAt,
		ExpiresAt:        row.ExpiresAt,
		CompletedAt:      sqlutil.FromSqlTime(row.CompletedAt),
	}
}

func dbPlayerToModel(row db.DraftablePlayer) models.DraftablePlayer {
	return models.DraftablePlayer{
		ID:              row.ID,
		FullName:        row.FullName,
		Position:        row.Position,
		NFLTeam:         sqlutil.FromSqlString(row.NflTeam, ""),
		ByeWeek:         sqlutil.FromSqlInt32Value(row.ByeWeek),
		ADP:             row.Adp,
		OverallRank:     int(row.OverallRank),
		AuctionValue:    int(row.AuctionValue),
		ProjectedPoints: row.ProjectedPoints,
	}
}

package db

import (
	"context"

	"github.com/google/uuid"
)

const pickColumns = `id, draft_id, team_id, player_id, pick_number, round, picked_at, time_taken_sec,
	is_keeper, is_auto_pick, auction_amount`

func scanPick(row scanner) (DraftPick, error) {
	var i DraftPick
	err := row.Scan(
		&i.ID,
		&i.DraftID,
		&i.TeamID,
		&i.PlayerID,
		&i.PickNumber,
		&i.Round,
		&i.PickedAt,
		&i.TimeTakenSec,
		&i.IsKeeper,
		&i.IsAutoPick,
		&i.AuctionAmount,
	)
	return i, err
}

const createDraftPick = `-- name: CreateDraftPick :exec
INSERT INTO draft_picks (` + pickColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

func (q *Queries) CreateDraftPick(ctx context.Context, arg DraftPick) error {
	_, err := q.db.ExecContext(ctx, createDraftPick,
		arg.ID,
		arg.DraftID,
		arg.TeamID,
		arg.PlayerID,
		arg.PickNumber,
		arg.Round,
		arg.PickedAt,
		arg.TimeTakenSec,
		arg.IsKeeper,
		arg.IsAutoPick,
		arg.AuctionAmount,
	)
	return err
}

const deleteDraftPick = `-- name: DeleteDraftPick :execrows
DELETE FROM draft_picks WHERE id = $1
`

func (q *Queries) DeleteDraftPick(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteDraftPick, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listDraftPicks = `-- name: ListDraftPicks :many
SELECT ` + pickColumns + ` FROM draft_picks WHERE draft_id = $1 ORDER BY pick_number
`

func (q *Queries) ListDraftPicks(ctx context.Context, draftID uuid.UUID) ([]DraftPick, error) {
	rows, err := q.db.QueryContext(ctx, listDraftPicks, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DraftPick
	for rows.Next() {
		i, err := scanPick(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getLastDraftPick = `-- name: GetLastDraftPick :one
SELECT ` + pickColumns + ` FROM draft_picks WHERE draft_id = $1 ORDER BY pick_number DESC LIMIT 1
`

func (q *Queries) GetLastDraftPick(ctx context.Context, draftID uuid.UUID) (DraftPick, error) {
	return scanPick(q.db.QueryRowContext(ctx, getLastDraftPick, draftID))
}

const listDraftedPlayers = `-- name: ListDraftedPlayers :many
SELECT p.id, p.draft_id, p.team_id, p.player_id, p.pick_number, p.round, p.picked_at,
       p.time_taken_sec, p.is_keeper, p.is_auto_pick, p.auction_amount,
       dp.id, dp.full_name, dp.position, dp.nfl_team, dp.bye_week, dp.adp, dp.overall_rank,
       dp.auction_value, dp.projected_points
FROM draft_picks p
JOIN draftable_players dp ON dp.id = p.player_id
WHERE p.draft_id = $1
ORDER BY p.pick_number
`

type ListDraftedPlayersRow struct {
	DraftPick       DraftPick
	DraftablePlayer DraftablePlayer
}

func (q *Queries) ListDraftedPlayers(ctx context.Context, draftID uuid.UUID) ([]ListDraftedPlayersRow, error) {
	rows, err := q.db.QueryContext(ctx, listDraftedPlayers, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListDraftedPlayersRow
	for rows.Next() {
		var i ListDraftedPlayersRow
		if err := rows.Scan(
			&i.DraftPick.ID,
			&i.DraftPick.DraftID,
			&i.DraftPick.TeamID,
			&i.DraftPick.PlayerID,
			&i.DraftPick.PickNumber,
			&i.DraftPick.Round,
			&i.DraftPick.PickedAt,
			&i.DraftPick.TimeTakenSec,
			&i.DraftPick.IsKeeper,
			&i.DraftPick.IsAutoPick,
			&i.DraftPick.AuctionAmount,
			&i.DraftablePlayer.ID,
			&i.DraftablePlayer.FullName,
			&i.DraftablePlayer.Position,
			&i.DraftablePlayer.NflTeam,
			&i.DraftablePlayer.ByeWeek,
			&i.DraftablePlayer.Adp,
			&i.DraftablePlayer.OverallRank,
			&i.DraftablePlayer.AuctionValue,
			&i.DraftablePlayer.ProjectedPoints,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

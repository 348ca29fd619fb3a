package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const playerColumns = `id, full_name, position, nfl_team, bye_week, adp, overall_rank, auction_value, projected_points`

func scanPlayer(row scanner) (DraftablePlayer, error) {
	var i DraftablePlayer
	err := row.Scan(
		&i.ID,
		&i.FullName,
		&i.Position,
		&i.NflTeam,
		&i.ByeWeek,
		&i.Adp,
		&i.OverallRank,
		&i.AuctionValue,
		&i.ProjectedPoints,
	)
	return i, err
}

const getDraftablePlayer = `-- name: GetDraftablePlayer :one
SELECT ` + playerColumns + ` FROM draftable_players WHERE id = $1
`

func (q *Queries) GetDraftablePlayer(ctx context.Context, id uuid.UUID) (DraftablePlayer, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, getDraftablePlayer, id))
}

const listAvailablePlayers = `-- name: ListAvailablePlayers :many
SELECT ` + playerColumns + `
FROM draftable_players dp
WHERE NOT EXISTS (
    SELECT 1 FROM rosters r WHERE r.league_id = $1 AND r.player_id = dp.id
)
ORDER BY adp, id
`

func (q *Queries) ListAvailablePlayers(ctx context.Context, leagueID uuid.UUID) ([]DraftablePlayer, error) {
	rows, err := q.db.QueryContext(ctx, listAvailablePlayers, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DraftablePlayer
	for rows.Next() {
		i, err := scanPlayer(rows)
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

const createRosterEntry = `-- name: CreateRosterEntry :exec
INSERT INTO rosters (id, league_id, team_id, player_id, position, acquired_at, acquisition_type, acquisition_meta)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func (q *Queries) CreateRosterEntry(ctx context.Context, arg Roster) error {
	_, err := q.db.ExecContext(ctx, createRosterEntry,
		arg.ID,
		arg.LeagueID,
		arg.TeamID,
		arg.PlayerID,
		arg.Position,
		arg.AcquiredAt,
		arg.AcquisitionType,
		arg.AcquisitionMeta,
	)
	return err
}

const deleteRosterEntry = `-- name: DeleteRosterEntry :execrows
DELETE FROM rosters WHERE league_id = $1 AND team_id = $2 AND player_id = $3
`

type DeleteRosterEntryParams struct {
	LeagueID uuid.UUID
	TeamID   uuid.UUID
	PlayerID uuid.UUID
}

func (q *Queries) DeleteRosterEntry(ctx context.Context, arg DeleteRosterEntryParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteRosterEntry, arg.LeagueID, arg.TeamID, arg.PlayerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const isPlayerRostered = `-- name: IsPlayerRostered :one
SELECT EXISTS (SELECT 1 FROM rosters WHERE league_id = $1 AND player_id = $2)
`

type IsPlayerRosteredParams struct {
	LeagueID uuid.UUID
	PlayerID uuid.UUID
}

func (q *Queries) IsPlayerRostered(ctx context.Context, arg IsPlayerRosteredParams) (bool, error) {
	row := q.db.QueryRowContext(ctx, isPlayerRostered, arg.LeagueID, arg.PlayerID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listRosterEntries = `-- name: ListRosterEntries :many
SELECT id, league_id, team_id, player_id, position, acquired_at, acquisition_type, acquisition_meta
FROM rosters
WHERE league_id = $1
ORDER BY acquired_at, id
`

func (q *Queries) ListRosterEntries(ctx context.Context, leagueID uuid.UUID) ([]Roster, error) {
	rows, err := q.db.QueryContext(ctx, listRosterEntries, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Roster
	for rows.Next() {
		var i Roster
		if err := rows.Scan(
			&i.ID,
			&i.LeagueID,
			&i.TeamID,
			&i.PlayerID,
			&i.Position,
			&i.AcquiredAt,
			&i.AcquisitionType,
			&i.AcquisitionMeta,
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

// NullMeta wraps raw acquisition metadata, treating an empty message as NULL.
func NullMeta(raw []byte) pqtype.NullRawMessage {
	return pqtype.NullRawMessage{RawMessage: raw, Valid: len(raw) > 0}
}

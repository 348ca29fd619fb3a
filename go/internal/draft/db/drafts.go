package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const draftColumns = `id, league_id, format, rounds, time_per_pick_sec, start_date, auction_budget,
	draft_order, auto_pick_enabled, auto_pick_delay_sec, status, current_pick, current_round,
	current_team_id, started_at, paused_at, completed_at, created_at, updated_at`

func scanDraft(row scanner) (Draft, error) {
	var i Draft
	err := row.Scan(
		&i.ID,
		&i.LeagueID,
		&i.Format,
		&i.Rounds,
		&i.TimePerPickSec,
		&i.StartDate,
		&i.AuctionBudget,
		&i.DraftOrder,
		&i.AutoPickEnabled,
		&i.AutoPickDelaySec,
		&i.Status,
		&i.CurrentPick,
		&i.CurrentRound,
		&i.CurrentTeamID,
		&i.StartedAt,
		&i.PausedAt,
		&i.CompletedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createDraft = `-- name: CreateDraft :exec
INSERT INTO drafts (` + draftColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
`

func (q *Queries) CreateDraft(ctx context.Context, arg Draft) error {
	_, err := q.db.ExecContext(ctx, createDraft,
		arg.ID,
		arg.LeagueID,
		arg.Format,
		arg.Rounds,
		arg.TimePerPickSec,
		arg.StartDate,
		arg.AuctionBudget,
		arg.DraftOrder,
		arg.AutoPickEnabled,
		arg.AutoPickDelaySec,
		arg.Status,
		arg.CurrentPick,
		arg.CurrentRound,
		arg.CurrentTeamID,
		arg.StartedAt,
		arg.PausedAt,
		arg.CompletedAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getDraft = `-- name: GetDraft :one
SELECT ` + draftColumns + ` FROM drafts WHERE id = $1
`

func (q *Queries) GetDraft(ctx context.Context, id uuid.UUID) (Draft, error) {
	return scanDraft(q.db.QueryRowContext(ctx, getDraft, id))
}

const listDraftsByStatus = `-- name: ListDraftsByStatus :many
SELECT ` + draftColumns + ` FROM drafts WHERE status = $1 ORDER BY created_at
`

func (q *Queries) ListDraftsByStatus(ctx context.Context, status string) ([]Draft, error) {
	rows, err := q.db.QueryContext(ctx, listDraftsByStatus, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Draft
	for rows.Next() {
		i, err := scanDraft(rows)
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

const updateDraftState = `-- name: UpdateDraftState :execrows
UPDATE drafts
SET status = $2,
    current_pick = $3,
    current_round = $4,
    current_team_id = $5,
    started_at = $6,
    paused_at = $7,
    completed_at = $8,
    updated_at = $9
WHERE id = $1
`

type UpdateDraftStateParams struct {
	ID            uuid.UUID
	Status        string
	CurrentPick   int32
	CurrentRound  int32
	CurrentTeamID uuid.NullUUID
	StartedAt     sql.NullTime
	PausedAt      sql.NullTime
	CompletedAt   sql.NullTime
	UpdatedAt     time.Time
}

// UpdateDraftState writes the lifecycle status and pick pointer. Configuration
// columns are fixed at creation.
func (q *Queries) UpdateDraftState(ctx context.Context, arg UpdateDraftStateParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateDraftState,
		arg.ID,
		arg.Status,
		arg.CurrentPick,
		arg.CurrentRound,
		arg.CurrentTeamID,
		arg.StartedAt,
		arg.PausedAt,
		arg.CompletedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getLeague = `-- name: GetLeague :one
SELECT id, name, commissioner_id, season, created_at FROM leagues WHERE id = $1
`

func (q *Queries) GetLeague(ctx context.Context, id uuid.UUID) (League, error) {
	row := q.db.QueryRowContext(ctx, getLeague, id)
	var i League
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.CommissionerID,
		&i.Season,
		&i.CreatedAt,
	)
	return i, err
}

// Order decodes the stored team order.
func (d Draft) Order() ([]uuid.UUID, error) {
	var order []uuid.UUID
	if err := json.Unmarshal(d.DraftOrder, &order); err != nil {
		return nil, err
	}
	return order, nil
}

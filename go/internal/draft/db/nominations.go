package db

import (
	"context"

	"github.com/google/uuid"
)

const nominationColumns = `id, draft_id, player_id, nominating_team_id, current_bid, current_bidder_id,
	time_remaining_sec, is_active, created_at, expires_at, completed_at`

func scanNomination(row scanner) (AuctionNomination, error) {
	var i AuctionNomination
	err := row.Scan(
		&i.ID,
		&i.DraftID,
		&i.PlayerID,
		&i.NominatingTeamID,
		&i.CurrentBid,
		&i.CurrentBidderID,
		&i.TimeRemainingSec,
		&i.IsActive,
		&i.CreatedAt,
		&i.ExpiresAt,
		&i.CompletedAt,
	)
	return i, err
}

const createNomination = `-- name: CreateNomination :exec
INSERT INTO auction_nominations (` + nominationColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

func (q *Queries) CreateNomination(ctx context.Context, arg AuctionNomination) error {
	_, err := q.db.ExecContext(ctx, createNomination,
		arg.ID,
		arg.DraftID,
		arg.PlayerID,
		arg.NominatingTeamID,
		arg.CurrentBid,
		arg.CurrentBidderID,
		arg.TimeRemainingSec,
		arg.IsActive,
		arg.CreatedAt,
		arg.ExpiresAt,
		arg.CompletedAt,
	)
	return err
}

const updateNomination = `-- name: UpdateNomination :execrows
UPDATE auction_nominations
SET current_bid = $2,
    current_bidder_id = $3,
    time_remaining_sec = $4,
    is_active = $5,
    expires_at = $6,
    completed_at = $7
WHERE id = $1
`

func (q *Queries) UpdateNomination(ctx context.Context, arg AuctionNomination) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateNomination,
		arg.ID,
		arg.CurrentBid,
		arg.CurrentBidderID,
		arg.TimeRemainingSec,
		arg.IsActive,
		arg.ExpiresAt,
		arg.CompletedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getNomination = `-- name: GetNomination :one
SELECT ` + nominationColumns + ` FROM auction_nominations WHERE id = $1
`

func (q *Queries) GetNomination(ctx context.Context, id uuid.UUID) (AuctionNomination, error) {
	return scanNomination(q.db.QueryRowContext(ctx, getNomination, id))
}

const getActiveNomination = `-- name: GetActiveNomination :one
SELECT ` + nominationColumns + ` FROM auction_nominations WHERE draft_id = $1 AND is_active
`

func (q *Queries) GetActiveNomination(ctx context.Context, draftID uuid.UUID) (AuctionNomination, error) {
	return scanNomination(q.db.QueryRowContext(ctx, getActiveNomination, draftID))
}

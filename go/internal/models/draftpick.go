package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftPick is a committed selection. Picks are immutable except through undo.
type DraftPick struct {
	ID            uuid.UUID `json:"id"`
	DraftID       uuid.UUID `json:"draft_id"`
	TeamID        uuid.UUID `json:"team_id"`
	PlayerID      uuid.UUID `json:"player_id"`
	PickNumber    int       `json:"pick_number"` // overall, 1-based
	Round         int       `json:"round"`
	PickedAt      time.Time `json:"picked_at"`
	TimeTakenSec  int       `json:"time_taken_sec"`
	IsKeeper      bool      `json:"is_keeper"`
	IsAutoPick    bool      `json:"is_auto_pick"`
	AuctionAmount *int      `json:"auction_amount,omitempty"` // auction
}

// DraftedPlayer joins a pick with the catalog entry it selected.
type DraftedPlayer struct {
	Pick   DraftPick       `json:"pick"`
	Player DraftablePlayer `json:"player"`
}

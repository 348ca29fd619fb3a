package models

import (
	"time"

	"github.com/google/uuid"
)

// AuctionNomination is a player put up for bidding. At most one nomination per
// draft is active at a time.
type AuctionNomination struct {
	ID               uuid.UUID  `json:"id"`
	DraftID          uuid.UUID  `json:"draft_id"`
	PlayerID         uuid.UUID  `json:"player_id"`
	NominatingTeamID uuid.UUID  `json:"nominating_team_id"`
	CurrentBid       int        `json:"current_bid"`
	CurrentBidderID  *uuid.UUID `json:"current_bidder_id,omitempty"`
	TimeRemainingSec int        `json:"time_remaining_sec"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	ExpiresAt        time.Time  `json:"expires_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// Leader is the team currently winning the nomination. With no bids placed the
// nominator holds it at the opening price.
func (n *AuctionNomination) Leader() uuid.UUID {
	if n.CurrentBidderID != nil {
		return *n.CurrentBidderID
	}
	return n.NominatingTeamID
}

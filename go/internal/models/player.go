package models

import (
	"github.com/google/uuid"
)

// DraftablePlayer is a read-only catalog entry with draft rankings.
type DraftablePlayer struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"full_name"`
	Position        string    `json:"position"` // 'QB', 'RB', 'WR', 'TE', 'DST', 'K'
	NFLTeam         string    `json:"nfl_team"`
	ByeWeek         int       `json:"bye_week"`
	ADP             float64   `json:"adp"`
	OverallRank     int       `json:"overall_rank"`
	AuctionValue    int       `json:"auction_value"`
	ProjectedPoints float64   `json:"projected_points"`
	Tier            int       `json:"tier"`
	IsDrafted       bool      `json:"is_drafted"`
}

// TierForADP buckets an average draft position into a 1-6 tier.
func TierForADP(adp float64) int {
	switch {
	case adp <= 12:
		return 1
	case adp <= 24:
		return 2
	case adp <= 36:
		return 3
	case adp <= 60:
		return 4
	case adp <= 84:
		return 5
	default:
		return 6
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// PositionQuota is how many players of a position a full roster carries.
type PositionQuota struct {
	Position string `json:"position" yaml:"position"`
	Count    int    `json:"count" yaml:"count"`
}

// RosterTemplate is an ordered list of position quotas.
type RosterTemplate []PositionQuota

// DefaultRosterTemplate is the standard starting roster: QB 2, RB 4, WR 4, TE 2, DST 1, K 1.
func DefaultRosterTemplate() RosterTemplate {
	return RosterTemplate{
		{Position: "QB", Count: 2},
		{Position: "RB", Count: 4},
		{Position: "WR", Count: 4},
		{Position: "TE", Count: 2},
		{Position: "DST", Count: 1},
		{Position: "K", Count: 1},
	}
}

// TeamNeedsAnalysis compares a team's roster against the template.
type TeamNeedsAnalysis struct {
	TeamID          uuid.UUID      `json:"team_id"`
	FilledPositions map[string]int `json:"filled_positions"`
	RemainingNeeds  []string       `json:"remaining_needs"`
	RosterCount     int            `json:"roster_count"`
	RemainingBudget *int           `json:"remaining_budget,omitempty"` // auction
}

// Needs reports whether position is still under quota.
func (a *TeamNeedsAnalysis) Needs(position string) bool {
	for _, p := range a.RemainingNeeds {
		if p == position {
			return true
		}
	}
	return false
}

// UpcomingPick is a future slot and the team that will be on the clock.
type UpcomingPick struct {
	PickNumber  int        `json:"pick_number"`
	Round       int        `json:"round"`
	TeamID      uuid.UUID  `json:"team_id"`
	ProjectedAt *time.Time `json:"projected_at,omitempty"`
}

// PlayerRecommendation is a scored suggestion for the team on the clock.
type PlayerRecommendation struct {
	Player DraftablePlayer `json:"player"`
	Score  float64         `json:"score"`
	Reason string          `json:"reason"`
	Value  string          `json:"value"` // "value" or "average"
}

// DraftBoard is a read-only snapshot of a draft for display.
type DraftBoard struct {
	Draft            DraftSettings          `json:"draft"`
	Deadline         *time.Time             `json:"deadline,omitempty"`
	AvailablePlayers []DraftablePlayer      `json:"available_players"`
	DraftedPlayers   []DraftedPlayer        `json:"drafted_players"`
	TeamNeeds        []TeamNeedsAnalysis    `json:"team_needs"`
	UpcomingPicks    []UpcomingPick         `json:"upcoming_picks"`
	Recommendations  []PlayerRecommendation `json:"recommendations"`
	ActiveNomination *AuctionNomination     `json:"active_nomination,omitempty"`
}

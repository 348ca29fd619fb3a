package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RosterEntry is a player held by a fantasy team.
type RosterEntry struct {
	ID              uuid.UUID       `json:"id"`
	LeagueID        uuid.UUID       `json:"league_id"`
	TeamID          uuid.UUID       `json:"team_id"`
	PlayerID        uuid.UUID       `json:"player_id"`
	Position        string          `json:"position"`
	AcquiredAt      time.Time       `json:"acquired_at"`
	AcquisitionType AcquisitionType `json:"acquisition_type"`
	AcquisitionMeta json.RawMessage `json:"acquisition_meta,omitempty"`
}

// AcquisitionType represents how a player was acquired
type AcquisitionType string

const (
	AcquisitionTypeDraft     AcquisitionType = "draft"
	AcquisitionTypeAuction   AcquisitionType = "auction"
	AcquisitionTypeWaiver    AcquisitionType = "waiver"
	AcquisitionTypeTrade     AcquisitionType = "trade"
	AcquisitionTypeFreeAgent AcquisitionType = "free_agent"
	AcquisitionTypeKeeper    AcquisitionType = "keeper"
)

// AcquisitionMeta records where in the draft a player was acquired.
type AcquisitionMeta struct {
	DraftID       uuid.UUID `json:"draft_id"`
	PickNumber    int       `json:"pick_number"`
	Round         int       `json:"round"`
	AuctionAmount *int      `json:"auction_amount,omitempty"`
}

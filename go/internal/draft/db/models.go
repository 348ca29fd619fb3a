package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type League struct {
	ID             uuid.UUID
	Name           string
	CommissionerID uuid.UUID
	Season         string
	CreatedAt      time.Time
}

type Draft struct {
	ID               uuid.UUID
	LeagueID         uuid.UUID
	Format           string
	Rounds           int32
	TimePerPickSec   int32
	StartDate        time.Time
	AuctionBudget    sql.NullInt32
	DraftOrder       json.RawMessage
	AutoPickEnabled  bool
	AutoPickDelaySec int32
	Status           string
	CurrentPick      int32
	CurrentRound     int32
	CurrentTeamID    uuid.NullUUID
	StartedAt        sql.NullTime
	PausedAt         sql.NullTime
	CompletedAt      sql.NullTime
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type DraftPick struct {
	ID            uuid.UUID
	DraftID       uuid.UUID
	TeamID        uuid.UUID
	PlayerID      uuid.UUID
	PickNumber    int32
	Round         int32
	PickedAt      time.Time
	TimeTakenSec  int32
	IsKeeper      bool
	IsAutoPick    bool
	AuctionAmount sql.NullInt32
}

type AuctionNomination struct {
	ID               uuid.UUID
	DraftID          uuid.UUID
	PlayerID         uuid.UUID
	NominatingTeamID uuid.UUID
	CurrentBid       int32
	CurrentBidderID  uuid.NullUUID
	TimeRemainingSec int32
	IsActive         bool
	CreatedAt        time.Time
	ExpiresAt        time.Time
	CompletedAt      sql.NullTime
}

type DraftablePlayer struct {
	ID              uuid.UUID
	FullName        string
	Position        string
	NflTeam         sql.NullString
	ByeWeek         sql.NullInt32
	Adp             float64
	OverallRank     int32
	AuctionValue    int32
	ProjectedPoints float64
}

type Roster struct {
	ID              uuid.UUID
	LeagueID        uuid.UUID
	TeamID          uuid.UUID
	PlayerID        uuid.UUID
	Position        string
	AcquiredAt      time.Time
	AcquisitionType string
	AcquisitionMeta pqtype.NullRawMessage
}

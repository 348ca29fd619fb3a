package events

import (
	"time"

	"github.com/google/uuid"
)

// Type names a draft event on the wire and in subjects.
type Type string

const (
	TypeDraftStarted      Type = "DraftStarted"
	TypePickMade          Type = "PickMade"
	TypePickSkipped       Type = "PickSkipped"
	TypeNextOnClock       Type = "NextOnClock"
	TypeAuctionNomination Type = "AuctionNomination"
	TypeAuctionBid        Type = "AuctionBid"
	TypeAuctionResolved   Type = "AuctionResolved"
	TypeDraftPaused       Type = "DraftPaused"
	TypeDraftResumed      Type = "DraftResumed"
	TypeDraftCompleted    Type = "DraftCompleted"
	TypePickUndone        Type = "PickUndone"
)

// Event is a draft state change. The set is closed: only payload types in this
// package implement it, so consumers can switch exhaustively.
type Event interface {
	Type() Type
	isEvent()
}

// DraftStartedPayload is the payload for a DraftStarted event
type DraftStartedPayload struct {
	DraftID     uuid.UUID `json:"draft_id"`
	Format      string    `json:"format"`
	StartedAt   time.Time `json:"started_at"`
	TotalRounds int       `json:"total_rounds"`
	TotalPicks  int       `json:"total_picks"`
}

// PickMadePayload is the payload for a PickMade event
type PickMadePayload struct {
	PickID        uuid.UUID `json:"pick_id"`
	DraftID       uuid.UUID `json:"draft_id"`
	TeamID        uuid.UUID `json:"team_id"`
	PlayerID      uuid.UUID `json:"player_id"`
	PlayerName    string    `json:"player_name"`
	Position      string    `json:"position"`
	Round         int       `json:"round"`
	PickNumber    int       `json:"pick_number"`
	IsAutoPick    bool      `json:"is_auto_pick"`
	AuctionAmount *int      `json:"auction_amount,omitempty"`
	MadeAt        time.Time `json:"made_at"`
}

// PickSkippedPayload is the payload for a PickSkipped event. A skipped pick
// advances the draft without recording a selection.
type PickSkippedPayload struct {
	DraftID    uuid.UUID `json:"draft_id"`
	TeamID     uuid.UUID `json:"team_id"`
	Round      int       `json:"round"`
	PickNumber int       `json:"pick_number"`
	Reason     string    `json:"reason"`
	SkippedAt  time.Time `json:"skipped_at"`
}

// NextOnClockPayload is the payload for a NextOnClock event
type NextOnClockPayload struct {
	DraftID        uuid.UUID  `json:"draft_id"`
	TeamID         uuid.UUID  `json:"team_id"`
	Round          int        `json:"round"`
	PickNumber     int        `json:"pick_number"`
	StartedAt      time.Time  `json:"started_at"`
	TimeoutAt      *time.Time `json:"timeout_at,omitempty"`
	TimePerPickSec int        `json:"time_per_pick_sec"`
}

// AuctionNominationPayload is the payload for an AuctionNomination event
type AuctionNominationPayload struct {
	NominationID     uuid.UUID `json:"nomination_id"`
	DraftID          uuid.UUID `json:"draft_id"`
	PlayerID         uuid.UUID `json:"player_id"`
	NominatingTeamID uuid.UUID `json:"nominating_team_id"`
	OpeningBid       int       `json:"opening_bid"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// AuctionBidPayload is the payload for an AuctionBid event
type AuctionBidPayload struct {
	NominationID uuid.UUID `json:"nomination_id"`
	DraftID      uuid.UUID `json:"draft_id"`
	TeamID       uuid.UUID `json:"team_id"`
	Amount       int       `json:"amount"`
	PlacedAt     time.Time `json:"placed_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuctionResolvedPayload is the payload for an AuctionResolved event
type AuctionResolvedPayload struct {
	NominationID    uuid.UUID `json:"nomination_id"`
	DraftID         uuid.UUID `json:"draft_id"`
	PlayerID        uuid.UUID `json:"player_id"`
	WinningTeamID   uuid.UUID `json:"winning_team_id"`
	Amount          int       `json:"amount"`
	RemainingBudget int       `json:"remaining_budget"`
	PickNumber      int       `json:"pick_number"`
	ResolvedAt      time.Time `json:"resolved_at"`
}

// DraftPausedPayload is the payload for a DraftPaused event
type DraftPausedPayload struct {
	DraftID  uuid.UUID `json:"draft_id"`
	PausedAt time.Time `json:"paused_at"`
	PausedBy uuid.UUID `json:"paused_by"`
}

// DraftResumedPayload is the payload for a DraftResumed event
type DraftResumedPayload struct {
	DraftID   uuid.UUID `json:"draft_id"`
	ResumedAt time.Time `json:"resumed_at"`
	ResumedBy uuid.UUID `json:"resumed_by"`
}

// DraftCompletedPayload is the payload for a DraftCompleted event
type DraftCompletedPayload struct {
	DraftID     uuid.UUID `json:"draft_id"`
	CompletedAt time.Time `json:"completed_at"`
	Duration    string    `json:"duration"`
	TotalPicks  int       `json:"total_picks"`
}

// PickUndonePayload is the payload for a PickUndone event
type PickUndonePayload struct {
	DraftID    uuid.UUID `json:"draft_id"`
	PickID     uuid.UUID `json:"pick_id"`
	TeamID     uuid.UUID `json:"team_id"`
	PlayerID   uuid.UUID `json:"player_id"`
	Round      int       `json:"round"`
	PickNumber int       `json:"pick_number"`
	UndoneBy   uuid.UUID `json:"undone_by"`
	UndoneAt   time.Time `json:"undone_at"`
}

func (DraftStartedPayload) Type() Type      { return TypeDraftStarted }
func (PickMadePayload) Type() Type          { return TypePickMade }
func (PickSkippedPayload) Type() Type       { return TypePickSkipped }
func (NextOnClockPayload) Type() Type       { return TypeNextOnClock }
func (AuctionNominationPayload) Type() Type { return TypeAuctionNomination }
func (AuctionBidPayload) Type() Type        { return TypeAuctionBid }
func (AuctionResolvedPayload) Type() Type   { return TypeAuctionResolved }
func (DraftPausedPayload) Type() Type       { return TypeDraftPaused }
func (DraftResumedPayload) Type() Type      { return TypeDraftResumed }
func (DraftCompletedPayload) Type() Type    { return TypeDraftCompleted }
func (PickUndonePayload) Type() Type        { return TypePickUndone }

func (DraftStartedPayload) isEvent()      {}
func (PickMadePayload) isEvent()          {}
func (PickSkippedPayload) isEvent()       {}
func (NextOnClockPayload) isEvent()       {}
func (AuctionNominationPayload) isEvent() {}
func (AuctionBidPayload) isEvent()        {}
func (AuctionResolvedPayload) isEvent()   {}
func (DraftPausedPayload) isEvent()       {}
func (DraftResumedPayload) isEvent()      {}
func (DraftCompletedPayload) isEvent()    {}
func (PickUndonePayload) isEvent()        {}

package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftFormat defines how the on-the-clock team is chosen.
type DraftFormat string

const (
	DraftFormatSnake   DraftFormat = "snake"
	DraftFormatLinear  DraftFormat = "linear"
	DraftFormatAuction DraftFormat = "auction"
)

// Valid reports whether f is a known format.
func (f DraftFormat) Valid() bool {
	switch f {
	case DraftFormatSnake, DraftFormatLinear, DraftFormatAuction:
		return true
	}
	return false
}

// DraftStatus defines the lifecycle state of a draft.
type DraftStatus string

const (
	DraftStatusScheduled  DraftStatus = "scheduled"
	DraftStatusInProgress DraftStatus = "in_progress"
	DraftStatusPaused     DraftStatus = "paused"
	DraftStatusCompleted  DraftStatus = "completed"
)

// DraftSettings is the live, authoritative record of a draft: its configuration
// plus the pick pointer (current pick, round and team on the clock).
type DraftSettings struct {
	ID               uuid.UUID   `json:"id"`
	LeagueID         uuid.UUID   `json:"league_id"`
	Format           DraftFormat `json:"format"`
	Rounds           int         `json:"rounds"`
	TimePerPickSec   int         `json:"time_per_pick_sec"`
	StartDate        time.Time   `json:"start_date"`
	AuctionBudget    *int        `json:"auction_budget,omitempty"` // auction
	DraftOrder       []uuid.UUID `json:"draft_order"`
	AutoPickEnabled  bool        `json:"auto_pick_enabled"`
	AutoPickDelaySec int         `json:"auto_pick_delay_sec"`

	Status        DraftStatus `json:"status"`
	CurrentPick   int         `json:"current_pick"`
	CurrentRound  int         `json:"current_round"`
	CurrentTeamID uuid.UUID   `json:"current_team_id"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	PausedAt    *time.Time `json:"paused_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TeamCount is the number of participants in the draft order.
func (d *DraftSettings) TeamCount() int {
	return len(d.DraftOrder)
}

// TotalPicks is the number of pick slots in the draft (rounds × teams).
func (d *DraftSettings) TotalPicks() int {
	return d.Rounds * len(d.DraftOrder)
}

// HasTeam reports whether teamID is part of the draft order.
func (d *DraftSettings) HasTeam(teamID uuid.UUID) bool {
	for _, id := range d.DraftOrder {
		if id == teamID {
			return true
		}
	}
	return false
}

// PickDuration is how long a team may stay on the clock. When auto-pick is
// enabled the grace delay is added before the auto-pick fires.
func (d *DraftSettings) PickDuration() time.Duration {
	if d.TimePerPickSec <= 0 {
		return 0
	}
	sec := d.TimePerPickSec
	if d.AutoPickEnabled && d.AutoPickDelaySec > 0 {
		sec += d.AutoPickDelaySec
	}
	return time.Duration(sec) * time.Second
}

// Clone returns a deep copy so callers can mutate it without touching shared state.
func (d *DraftSettings) Clone() DraftSettings {
	c := *d
	c.DraftOrder = append([]uuid.UUID(nil), d.DraftOrder...)
	c.AuctionBudget = cloneInt(d.AuctionBudget)
	c.StartedAt = cloneTime(d.StartedAt)
	c.PausedAt = cloneTime(d.PausedAt)
	c.CompletedAt = cloneTime(d.CompletedAt)
	return c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	i := *v
	return &i
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

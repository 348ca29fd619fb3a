// Package turnorder maps overall pick numbers to draft-order positions.
//
// Pick numbers are 1-based. Linear drafts repeat the same order every round;
// snake drafts reverse it on even rounds. Auction drafts rotate nominations in
// linear order.
package turnorder

import (
	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
)

// RoundForPick returns ceil(pick/teams).
func RoundForPick(pick, teams int) int {
	if teams <= 0 || pick <= 0 {
		return 0
	}
	return (pick-1)/teams + 1
}

// PickInRound returns the 1-based position of pick within its round.
func PickInRound(pick, teams int) int {
	if teams <= 0 || pick <= 0 {
		return 0
	}
	return (pick-1)%teams + 1
}

// LinearIndex returns the draft-order index for pick in a linear draft.
func LinearIndex(pick, teams int) int {
	return (pick - 1) % teams
}

// SnakeIndex returns the draft-order index for pick in a snake draft.
func SnakeIndex(pick, teams int) int {
	pos := PickInRound(pick, teams)
	if RoundForPick(pick, teams)%2 == 1 {
		return pos - 1
	}
	return teams - pos
}

// IndexForPick returns the draft-order index of the team on the clock for pick,
// or -1 when the inputs are out of range.
func IndexForPick(format models.DraftFormat, pick, teams int) int {
	if teams <= 0 || pick <= 0 {
		return -1
	}
	if format == models.DraftFormatSnake {
		return SnakeIndex(pick, teams)
	}
	return LinearIndex(pick, teams)
}

// TeamForPick returns the team on the clock for pick, or uuid.Nil when order is empty.
func TeamForPick(format models.DraftFormat, pick int, order []uuid.UUID) uuid.UUID {
	idx := IndexForPick(format, pick, len(order))
	if idx < 0 {
		return uuid.Nil
	}
	return order[idx]
}

// Upcoming lists up to n slots starting at from, stopping at the last slot of the draft.
func Upcoming(d *models.DraftSettings, from, n int) []models.UpcomingPick {
	total := d.TotalPicks()
	teams := d.TeamCount()
	var out []models.UpcomingPick
	for p := from; p <= total && len(out) < n; p++ {
		out = append(out, models.UpcomingPick{
			PickNumber: p,
			Round:      RoundForPick(p, teams),
			TeamID:     TeamForPick(d.Format, p, d.DraftOrder),
		})
	}
	return out
}

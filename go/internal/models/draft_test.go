package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPickDuration(t *testing.T) {
	cases := []struct {
		name string
		d    DraftSettings
		want time.Duration
	}{
		{"untimed", DraftSettings{TimePerPickSec: 0, AutoPickEnabled: true, AutoPickDelaySec: 10}, 0},
		{"plain clock", DraftSettings{TimePerPickSec: 90}, 90 * time.Second},
		{"delay ignored without auto-pick", DraftSettings{TimePerPickSec: 90, AutoPickDelaySec: 10}, 90 * time.Second},
		{"grace delay", DraftSettings{TimePerPickSec: 90, AutoPickEnabled: true, AutoPickDelaySec: 10}, 100 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.d.PickDuration(); got != tc.want {
				t.Fatalf("PickDuration() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	budget := 200
	started := time.Date(2025, 9, 1, 19, 0, 0, 0, time.UTC)
	d := DraftSettings{
		ID:            uuid.New(),
		Rounds:        2,
		DraftOrder:    []uuid.UUID{uuid.New(), uuid.New()},
		AuctionBudget: &budget,
		StartedAt:     &started,
	}

	c := d.Clone()
	c.DraftOrder[0] = uuid.Nil
	*c.AuctionBudget = 1
	*c.StartedAt = started.Add(time.Hour)

	if d.DraftOrder[0] == uuid.Nil || *d.AuctionBudget != 200 || !d.StartedAt.Equal(started) {
		t.Fatal("mutating the clone changed the original")
	}
	if d.TotalPicks() != 4 || !d.HasTeam(d.DraftOrder[1]) || d.HasTeam(uuid.New()) {
		t.Fatal("unexpected pick count or membership")
	}
}

func TestTierForADP(t *testing.T) {
	cases := map[float64]int{1: 1, 12: 1, 12.5: 2, 30: 3, 60: 4, 70: 5, 150: 6}
	for adp, want := range cases {
		if got := TierForADP(adp); got != want {
			t.Errorf("TierForADP(%v) = %d, want %d", adp, got, want)
		}
	}
}

func TestFormatValid(t *testing.T) {
	for _, f := range []DraftFormat{DraftFormatSnake, DraftFormatLinear, DraftFormatAuction} {
		if !f.Valid() {
			t.Errorf("%s should be valid", f)
		}
	}
	if DraftFormat("keeper").Valid() {
		t.Error("unknown format reported valid")
	}
}

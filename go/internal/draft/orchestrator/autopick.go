package orchestrator

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
)

// AutoPickStrategy chooses players for a team that ran out of time and ranks
// suggestions for the board.
type AutoPickStrategy interface {
	// SelectPlayer returns the best candidate or ErrExhausted.
	SelectPlayer(needs models.TeamNeedsAnalysis, available []models.DraftablePlayer) (models.DraftablePlayer, error)
	// Recommend returns up to limit candidates at positions the team still needs.
	Recommend(needs models.TeamNeedsAnalysis, available []models.DraftablePlayer, limit int) []models.PlayerRecommendation
}

// NeedsStrategy scores players as (Baseline - ADP), plus NeedBonus when the
// team is still short at the player's position.
type NeedsStrategy struct {
	Baseline  float64 `yaml:"baseline"`
	NeedBonus float64 `yaml:"need_bonus"`
	// ValueRank is the overall rank under which a recommendation is labelled "value".
	ValueRank int `yaml:"value_rank"`
}

// NewNeedsStrategy returns the standard weights: baseline 100, need bonus 50.
func NewNeedsStrategy() *NeedsStrategy {
	return &NeedsStrategy{Baseline: 100, NeedBonus: 50, ValueRank: 50}
}

// Score rates p for a team with the given needs.
func (s *NeedsStrategy) Score(needs models.TeamNeedsAnalysis, p models.DraftablePlayer) float64 {
	score := s.Baseline - p.ADP
	if needs.Needs(p.Position) {
		score += s.NeedBonus
	}
	return score
}

type scored struct {
	player models.DraftablePlayer
	score  float64
}

// rank orders candidates by score, then lower ADP, then id for a stable result.
func (s *NeedsStrategy) rank(needs models.TeamNeedsAnalysis, available []models.DraftablePlayer) []scored {
	out := make([]scored, 0, len(available))
	for _, p := range available {
		if p.IsDrafted {
			continue
		}
		out = append(out, scored{player: p, score: s.Score(needs, p)})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.player.ADP != b.player.ADP {
			return a.player.ADP < b.player.ADP
		}
		return a.player.ID.String() < b.player.ID.String()
	})
	return out
}

func (s *NeedsStrategy) SelectPlayer(needs models.TeamNeedsAnalysis, available []models.DraftablePlayer) (models.DraftablePlayer, error) {
	ranked := s.rank(needs, available)
	if len(ranked) == 0 {
		return models.DraftablePlayer{}, fmt.Errorf("%w: team %s", ErrExhausted, needs.TeamID)
	}
	return ranked[0].player, nil
}

func (s *NeedsStrategy) Recommend(needs models.TeamNeedsAnalysis, available []models.DraftablePlayer, limit int) []models.PlayerRecommendation {
	var out []models.PlayerRecommendation
	for _, c := range s.rank(needs, available) {
		if len(out) >= limit {
			break
		}
		if !needs.Needs(c.player.Position) {
			continue
		}
		value := "average"
		if c.player.OverallRank > 0 && c.player.OverallRank < s.ValueRank {
			value = "value"
		}
		out = append(out, models.PlayerRecommendation{
			Player: c.player,
			Score:  c.score,
			Reason: "Fills need at " + c.player.Position,
			Value:  value,
		})
	}
	return out
}

// AnalyzeNeeds counts a team's roster by position and lists the positions
// still under the template quota, in template order.
func AnalyzeNeeds(teamID uuid.UUID, roster []models.RosterEntry, template models.RosterTemplate) models.TeamNeedsAnalysis {
	filled := make(map[string]int)
	count := 0
	for _, e := range roster {
		if e.TeamID != teamID {
			continue
		}
		filled[e.Position]++
		count++
	}

	var needs []string
	for _, q := range template {
		if filled[q.Position] < q.Count {
			needs = append(needs, q.Position)
		}
	}

	return models.TeamNeedsAnalysis{
		TeamID:          teamID,
		FilledPositions: filled,
		RemainingNeeds:  needs,
		RosterCount:     count,
	}
}

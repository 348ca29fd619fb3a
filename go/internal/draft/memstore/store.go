// Package memstore is an in-memory draft repository. It backs tests and the
// "memory" store mode of draftd.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/models"
)

var _ orchestrator.Repository = (*Store)(nil)

type Store struct {
	mu          sync.RWMutex
	leagues     map[uuid.UUID]models.League
	drafts      map[uuid.UUID]models.DraftSettings
	picks       map[uuid.UUID][]models.DraftPick // by draft
	nominations map[uuid.UUID]models.AuctionNomination
	players     map[uuid.UUID]models.DraftablePlayer
	rosters     map[uuid.UUID][]models.RosterEntry // by league

	writeErr error
}

func New() *Store {
	return &Store{
		leagues:     make(map[uuid.UUID]models.League),
		drafts:      make(map[uuid.UUID]models.DraftSettings),
		picks:       make(map[uuid.UUID][]models.DraftPick),
		nominations: make(map[uuid.UUID]models.AuctionNomination),
		players:     make(map[uuid.UUID]models.DraftablePlayer),
		rosters:     make(map[uuid.UUID][]models.RosterEntry),
	}
}

// FailWrites makes every write return err until called again with nil.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// AddLeague registers a league.
func (s *Store) AddLeague(l models.League) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leagues[l.ID] = l
}

// AddPlayers loads catalog entries.
func (s *Store) AddPlayers(players ...models.DraftablePlayer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range players {
		p.IsDrafted = false
		s.players[p.ID] = p
	}
}

// AddRosterEntry adds a player acquired outside the draft, such as a keeper.
func (s *Store) AddRosterEntry(e models.RosterEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rosters[e.LeagueID] = append(s.rosters[e.LeagueID], e)
}

func (s *Store) CreateDraft(_ context.Context, d models.DraftSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if _, ok := s.drafts[d.ID]; ok {
		return fmt.Errorf("draft %s already exists: %w", d.ID, models.ErrConflict)
	}
	s.drafts[d.ID] = d.Clone()
	return nil
}

func (s *Store) GetDraft(_ context.Context, id uuid.UUID) (*models.DraftSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", id, models.ErrNotFound)
	}
	c := d.Clone()
	return &c, nil
}

func (s *Store) UpdateDraft(_ context.Context, d models.DraftSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if _, ok := s.drafts[d.ID]; !ok {
		return fmt.Errorf("draft %s: %w", d.ID, models.ErrNotFound)
	}
	s.drafts[d.ID] = d.Clone()
	return nil
}

func (s *Store) ListDraftsByStatus(_ context.Context, status models.DraftStatus) ([]models.DraftSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.DraftSettings
	for _, d := range s.drafts {
		if d.Status == status {
			out = append(out, d.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) RecordPick(_ context.Context, p orchestrator.RecordPickParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}

	d, ok := s.drafts[p.Pick.DraftID]
	if !ok {
		return fmt.Errorf("draft %s: %w", p.Pick.DraftID, models.ErrNotFound)
	}
	if s.rosteredLocked(d.LeagueID, p.Pick.PlayerID) {
		return fmt.Errorf("player %s is already rostered in league %s: %w", p.Pick.PlayerID, d.LeagueID, models.ErrConflict)
	}
	for _, existing := range s.picks[d.ID] {
		if existing.PickNumber == p.Pick.PickNumber {
			return fmt.Errorf("pick %d of draft %s already recorded: %w", p.Pick.PickNumber, d.ID, models.ErrConflict)
		}
	}

	s.picks[d.ID] = append(s.picks[d.ID], clonePick(p.Pick))
	s.rosters[d.LeagueID] = append(s.rosters[d.LeagueID], p.Roster)
	s.drafts[d.ID] = p.Draft.Clone()
	if p.Nomination != nil {
		s.nominations[p.Nomination.ID] = cloneNomination(*p.Nomination)
	}
	return nil
}

func (s *Store) UndoPick(_ context.Context, p orchestrator.UndoPickParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}

	d, ok := s.drafts[p.Pick.DraftID]
	if !ok {
		return fmt.Errorf("draft %s: %w", p.Pick.DraftID, models.ErrNotFound)
	}
	picks := s.picks[d.ID]
	pi := -1
	for i, existing := range picks {
		if existing.ID == p.Pick.ID {
			pi = i
			break
		}
	}
	if pi < 0 {
		return fmt.Errorf("pick %s: %w", p.Pick.ID, models.ErrNotFound)
	}

	roster := s.rosters[d.LeagueID]
	ri := -1
	for i, e := range roster {
		if e.TeamID == p.Pick.TeamID && e.PlayerID == p.Pick.PlayerID {
			ri = i
			break
		}
	}

	s.picks[d.ID] = append(picks[:pi:pi], picks[pi+1:]...)
	if ri >= 0 {
		s.rosters[d.LeagueID] = append(roster[:ri:ri], roster[ri+1:]...)
	}
	s.drafts[d.ID] = p.Draft.Clone()
	return nil
}

func (s *Store) ListPicks(_ context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DraftPick, 0, len(s.picks[draftID]))
	for _, p := range s.picks[draftID] {
		out = append(out, clonePick(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PickNumber < out[j].PickNumber })
	return out, nil
}

func (s *Store) LastPick(_ context.Context, draftID uuid.UUID) (*models.DraftPick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var last *models.DraftPick
	for _, p := range s.picks[draftID] {
		if last == nil || p.PickNumber > last.PickNumber {
			c := clonePick(p)
			last = &c
		}
	}
	if last == nil {
		return nil, fmt.Errorf("picks for draft %s: %w", draftID, models.ErrNotFound)
	}
	return last, nil
}

func (s *Store) IsPlayerDrafted(_ context.Context, leagueID, playerID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rosteredLocked(leagueID, playerID), nil
}

func (s *Store) CreateNomination(_ context.Context, n models.AuctionNomination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	for _, existing := range s.nominations {
		if existing.DraftID == n.DraftID && existing.IsActive {
			return fmt.Errorf("draft %s already has an active nomination: %w", n.DraftID, models.ErrConflict)
		}
	}
	s.nominations[n.ID] = cloneNomination(n)
	return nil
}

func (s *Store) UpdateNomination(_ context.Context, n models.AuctionNomination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if _, ok := s.nominations[n.ID]; !ok {
		return fmt.Errorf("nomination %s: %w", n.ID, models.ErrNotFound)
	}
	s.nominations[n.ID] = cloneNomination(n)
	return nil
}

func (s *Store) GetNomination(_ context.Context, id uuid.UUID) (*models.AuctionNomination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nominations[id]
	if !ok {
		return nil, fmt.Errorf("nomination %s: %w", id, models.ErrNotFound)
	}
	c := cloneNomination(n)
	return &c, nil
}

func (s *Store) GetActiveNomination(_ context.Context, draftID uuid.UUID) (*models.AuctionNomination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.nominations {
		if n.DraftID == draftID && n.IsActive {
			c := cloneNomination(n)
			return &c, nil
		}
	}
	return nil, fmt.Errorf("active nomination for draft %s: %w", draftID, models.ErrNotFound)
}

func (s *Store) GetPlayer(_ context.Context, id uuid.UUID) (*models.DraftablePlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, models.ErrNotFound)
	}
	return &p, nil
}

// ListAvailablePlayers returns catalog players nobody in the league holds,
// ordered by ADP.
func (s *Store) ListAvailablePlayers(_ context.Context, leagueID uuid.UUID) ([]models.DraftablePlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	taken := make(map[uuid.UUID]bool)
	for _, e := range s.rosters[leagueID] {
		taken[e.PlayerID] = true
	}
	out := make([]models.DraftablePlayer, 0, len(s.players))
	for _, p := range s.players {
		if !taken[p.ID] {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ADP != out[j].ADP {
			return out[i].ADP < out[j].ADP
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Store) ListDraftedPlayers(_ context.Context, draftID uuid.UUID) ([]models.DraftedPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DraftedPlayer, 0, len(s.picks[draftID]))
	for _, p := range s.picks[draftID] {
		player := s.players[p.PlayerID]
		player.IsDrafted = true
		out = append(out, models.DraftedPlayer{Pick: clonePick(p), Player: player})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pick.PickNumber < out[j].Pick.PickNumber })
	return out, nil
}

func (s *Store) ListRosters(_ context.Context, leagueID uuid.UUID) ([]models.RosterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RosterEntry(nil), s.rosters[leagueID]...), nil
}

func (s *Store) GetLeague(_ context.Context, id uuid.UUID) (*models.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.leagues[id]
	if !ok {
		return nil, fmt.Errorf("league %s: %w", id, models.ErrNotFound)
	}
	return &l, nil
}

func (s *Store) rosteredLocked(leagueID, playerID uuid.UUID) bool {
	for _, e := range s.rosters[leagueID] {
		if e.PlayerID == playerID {
			return true
		}
	}
	return false
}

func clonePick(p models.DraftPick) models.DraftPick {
	if p.AuctionAmount != nil {
		a := *p.AuctionAmount
		p.AuctionAmount = &a
	}
	return p
}

func cloneNomination(n models.AuctionNomination) models.AuctionNomination {
	if n.CurrentBidderID != nil {
		b := *n.CurrentBidderID
		n.CurrentBidderID = &b
	}
	if n.CompletedAt != nil {
		t := *n.CompletedAt
		n.CompletedAt = &t
	}
	return n
}

// Package catalog reads the JSON league and player catalog used to seed a
// store. The same file feeds the postgres seed tool and the in-memory store.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
)

var validPositions = map[string]bool{"QB": true, "RB": true, "WR": true, "TE": true, "DST": true, "K": true}

type Catalog struct {
	Leagues []models.League          `json:"leagues"`
	Players []models.DraftablePlayer `json:"players"`
}

// Load reads and validates the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects missing or duplicate ids and unknown positions.
func (c *Catalog) Validate() error {
	seen := make(map[uuid.UUID]bool, len(c.Leagues)+len(c.Players))
	for i, l := range c.Leagues {
		if l.ID == uuid.Nil || l.CommissionerID == uuid.Nil {
			return fmt.Errorf("league %d (%s): id and commissioner_id are required", i, l.Name)
		}
		if seen[l.ID] {
			return fmt.Errorf("league %s: duplicate id", l.ID)
		}
		seen[l.ID] = true
	}
	for i, p := range c.Players {
		if p.ID == uuid.Nil {
			return fmt.Errorf("player %d (%s): id is required", i, p.FullName)
		}
		if seen[p.ID] {
			return fmt.Errorf("player %s: duplicate id", p.ID)
		}
		seen[p.ID] = true
		if !validPositions[p.Position] {
			return fmt.Errorf("player %s (%s): unknown position %q", p.ID, p.FullName, p.Position)
		}
	}
	return nil
}

// Store is what the catalog can be loaded into.
type Store interface {
	AddLeague(l models.League)
	AddPlayers(players ...models.DraftablePlayer)
}

// Fill copies the catalog into s.
func (c *Catalog) Fill(s Store) {
	for _, l := range c.Leagues {
		s.AddLeague(l)
	}
	s.AddPlayers(c.Players...)
}

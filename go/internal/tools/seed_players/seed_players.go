package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/draftroom/go/internal/dbconfig"
	"github.com/mcdev12/draftroom/go/internal/draft/catalog"
)

// Seeds leagues and draftable players from a catalog file. Existing rows are
// updated so ADP and projections can be refreshed between seasons.
func main() {
	ctx := context.Background()

	path := "go/internal/assets/catalog.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// 1) Load the catalog
	c, err := catalog.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load catalog: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect to DB
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Seed leagues
	total, inserted, updated, errs := len(c.Leagues), 0, 0, 0
	for _, l := range c.Leagues {
		var wasInsert bool
		err := pool.QueryRow(ctx, `
            INSERT INTO leagues (id, name, commissioner_id, season)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (id) DO UPDATE
              SET name = EXCLUDED.name,
                  commissioner_id = EXCLUDED.commissioner_id,
                  season = EXCLUDED.season
            RETURNING (xmax = 0)
        `, l.ID, l.Name, l.CommissionerID, l.Season).Scan(&wasInsert)
		if err != nil {
			fmt.Fprintf(os.Stderr, "league %s: %v\n", l.ID, err)
			errs++
			continue
		}
		if wasInsert {
			inserted++
		} else {
			updated++
		}
	}
	fmt.Printf("Leagues seed: total=%d inserted=%d updated=%d errors=%d\n", total, inserted, updated, errs)

	// 4) Seed players
	total, inserted, updated, errs = len(c.Players), 0, 0, 0
	for _, p := range c.Players {
		var nflTeam *string
		if p.NFLTeam != "" {
			nflTeam = &p.NFLTeam
		}
		var byeWeek *int
		if p.ByeWeek > 0 {
			byeWeek = &p.ByeWeek
		}

		var wasInsert bool
		err := pool.QueryRow(ctx, `
            INSERT INTO draftable_players (
              id, full_name, position, nfl_team, bye_week,
              adp, overall_rank, auction_value, projected_points
            ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
            ON CONFLICT (id) DO UPDATE
              SET full_name = EXCLUDED.full_name,
                  position = EXCLUDED.position,
                  nfl_team = EXCLUDED.nfl_team,
                  bye_week = EXCLUDED.bye_week,
                  adp = EXCLUDED.adp,
                  overall_rank = EXCLUDED.overall_rank,
                  auction_value = EXCLUDED.auction_value,
                  projected_points = EXCLUDED.projected_points
            RETURNING (xmax = 0)
        `,
			p.ID, p.FullName, p.Position, nflTeam, byeWeek,
			p.ADP, p.OverallRank, p.AuctionValue, p.ProjectedPoints,
		).Scan(&wasInsert)
		if err != nil {
			fmt.Fprintf(os.Stderr, "player %s: %v\n", p.ID, err)
			errs++
			continue
		}
		if wasInsert {
			inserted++
		} else {
			updated++
		}
	}
	fmt.Printf("Players seed: total=%d inserted=%d updated=%d errors=%d\n", total, inserted, updated, errs)
}

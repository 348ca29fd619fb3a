package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mcdev12/draftroom/go/internal/draft/db"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/mcdev12/draftroom/go/internal/sqlutil"
)

var _ orchestrator.Repository = (*Repository)(nil)

// Repository stores drafts in Postgres. Multi-row writes run in one transaction.
type Repository struct {
	queries *db.Queries
	db      *sql.DB
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		queries: db.New(conn),
		db:      conn,
	}
}

// Migrate applies the draft schema.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, db.Schema); err != nil {
		return fmt.Errorf("failed to apply draft schema: %w", err)
	}
	return nil
}

func (r *Repository) CreateDraft(ctx context.Context, d models.DraftSettings) error {
	row, err := draftToDB(d)
	if err != nil {
		return err
	}
	if err := r.queries.CreateDraft(ctx, row); err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}
	return nil
}

func (r *Repository) GetDraft(ctx context.Context, id uuid.UUID) (*models.DraftSettings, error) {
	row, err := r.queries.GetDraft(ctx, id)
	if err != nil {
		return nil, notFound(fmt.Sprintf("draft %s", id), err)
	}
	return dbDraftToModel(row)
}

func (r *Repository) UpdateDraft(ctx context.Context, d models.DraftSettings) error {
	return updateDraft(ctx, r.queries, d)
}

func (r *Repository) ListDraftsByStatus(ctx context.Context, status models.DraftStatus) ([]models.DraftSettings, error) {
	rows, err := r.queries.ListDraftsByStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s drafts: %w", status, err)
	}
	out := make([]models.DraftSettings, 0, len(rows))
	for _, row := range rows {
		d, err := dbDraftToModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *Repository) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	row, err := r.queries.GetLeague(ctx, id)
	if err != nil {
		return nil, notFound(fmt.Sprintf("league %s", id), err)
	}
	return &models.League{
		ID:             row.ID,
		Name:           row.Name,
		CommissionerID: row.CommissionerID,
		Season:         row.Season,
		CreatedAt:      row.CreatedAt,
	}, nil
}

// run executes fn inside a transaction.
func (r *Repository) run(ctx context.Context, fn func(q *db.Queries) error) error {
	return sqlutil.Run(ctx, r.db, r.queries.WithTx, fn)
}

func updateDraft(ctx context.Context, q *db.Queries, d models.DraftSettings) error {
	n, err := q.UpdateDraftState(ctx, db.UpdateDraftStateParams{
		ID:            d.ID,
		Status:        string(d.Status),
		CurrentPick:   int32(d.CurrentPick),
		CurrentRound:  int32(d.CurrentRound),
		CurrentTeamID: nullTeam(d.CurrentTeamID),
		StartedAt:     sqlutil.ToSqlTime(d.StartedAt),
		PausedAt:      sqlutil.ToSqlTime(d.PausedAt),
		CompletedAt:   sqlutil.ToSqlTime(d.CompletedAt),
		UpdatedAt:     d.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to update draft: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("draft %s: %w", d.ID, models.ErrNotFound)
	}
	return nil
}

// notFound maps a missing row to models.ErrNotFound.
func notFound(what string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// uniqueViolation reports whether err is a Postgres unique-constraint failure.
func uniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func nullTeam(id uuid.UUID) uuid.NullUUID {
	if id == uuid.Nil {
		return uuid.NullUUID{}
	}
	return sqlutil.ToNullUUID(&id)
}

func draftToDB(d models.DraftSettings) (db.Draft, error) {
	order, err := json.Marshal(d.DraftOrder)
	if err != nil {
		return db.Draft{}, fmt.Errorf("failed to marshal draft order: %w", err)
	}
	return db.Draft{
		ID:               d.ID,
		LeagueID:         d.LeagueID,
		Format:           string(d.Format),
		Rounds:           int32(d.Rounds),
		TimePerPickSec:   int32(d.TimePerPickSec),
		StartDate:        d.StartDate,
		AuctionBudget:    sqlutil.ToSqlInt32(d.AuctionBudget),
		DraftOrder:       order,
		AutoPickEnabled:  d.AutoPickEnabled,
		AutoPickDelaySec: int32(d.AutoPickDelaySec),
		Status:           string(d.Status),
		CurrentPick:      int32(d.CurrentPick),
		CurrentRound:     int32(d.CurrentRound),
		CurrentTeamID:    nullTeam(d.CurrentTeamID),
		StartedAt:        sqlutil.ToSqlTime(d.StartedAt),
		PausedAt:         sqlutil.ToSqlTime(d.PausedAt),
		CompletedAt:      sqlutil.ToSqlTime(d.CompletedAt),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}, nil
}

func dbDraftToModel(row db.Draft) (*models.DraftSettings, error) {
	order, err := row.Order()
	if err != nil {
		return nil, fmt.Errorf("failed to decode draft order for %s: %w", row.ID, err)
	}

	d := &models.DraftSettings{
		ID:               row.ID,
		LeagueID:         row.LeagueID,
		Format:           models.DraftFormat(row.Format),
		Rounds:           int(row.Rounds),
		TimePerPickSec:   int(row.TimePerPickSec),
		StartDate:        row.StartDate,
		AuctionBudget:    sqlutil.FromSqlInt32(row.AuctionBudget),
		DraftOrder:       order,
		AutoPickEnabled:  row.AutoPickEnabled,
		AutoPickDelaySec: int(row.AutoPickDelaySec),
		Status:           models.DraftStatus(row.Status),
		CurrentPick:      int(row.CurrentPick),
		CurrentRound:     int(row.CurrentRound),
		StartedAt:        sqlutil.FromSqlTime(row.StartedAt),
		PausedAt:         sqlutil.FromSqlTime(row.PausedAt),
		CompletedAt:      sqlutil.FromSqlTime(row.CompletedAt),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if team := sqlutil.FromNullUUID(row.CurrentTeamID); team != nil {
		d.CurrentTeamID = *team
	}
	return d, nil
}

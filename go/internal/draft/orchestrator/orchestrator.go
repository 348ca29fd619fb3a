package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

/*
The orchestrator owns every live draft in the process.

Each draft has a session holding the authoritative DraftSettings, team budgets
and the active nomination. Mutations lock the session, validate, persist through
the Repository, then update the session, re-arm timers and publish events.
Persistence happens before the cache changes; when it fails the session is
dropped and reloaded on next use.

Timers never touch a session directly. When one fires it queues a timeoutJob;
a worker takes the draft lock and claims the job with its token. A pause, pick
or undo that cancelled or replaced the timer in the meantime makes the claim
fail, so a late callback is a no-op.
*/

// Repository defines what the orchestrator needs from storage. Multi-row
// writes (RecordPick, UndoPick) must be atomic.
type Repository interface {
	CreateDraft(ctx context.Context, draft models.DraftSettings) error
	GetDraft(ctx context.Context, id uuid.UUID) (*models.DraftSettings, error)
	UpdateDraft(ctx context.Context, draft models.DraftSettings) error
	ListDraftsByStatus(ctx context.Context, status models.DraftStatus) ([]models.DraftSettings, error)

	RecordPick(ctx context.Context, params RecordPickParams) error
	UndoPick(ctx context.Context, params UndoPickParams) error
	ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error)
	LastPick(ctx context.Context, draftID uuid.UUID) (*models.DraftPick, error)
	IsPlayerDrafted(ctx context.Context, leagueID, playerID uuid.UUID) (bool, error)

	CreateNomination(ctx context.Context, nomination models.AuctionNomination) error
	UpdateNomination(ctx context.Context, nomination models.AuctionNomination) error
	GetNomination(ctx context.Context, id uuid.UUID) (*models.AuctionNomination, error)
	GetActiveNomination(ctx context.Context, draftID uuid.UUID) (*models.AuctionNomination, error)

	GetPlayer(ctx context.Context, id uuid.UUID) (*models.DraftablePlayer, error)
	ListAvailablePlayers(ctx context.Context, leagueID uuid.UUID) ([]models.DraftablePlayer, error)
	ListDraftedPlayers(ctx context.Context, draftID uuid.UUID) ([]models.DraftedPlayer, error)
	ListRosters(ctx context.Context, leagueID uuid.UUID) ([]models.RosterEntry, error)

	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
}

// RecordPickParams is one committed selection: the pick, the roster entry it
// creates, the advanced draft pointer and, for auctions, the closed nomination.
type RecordPickParams struct {
	Pick       models.DraftPick
	Roster     models.RosterEntry
	Draft      models.DraftSettings
	Nomination *models.AuctionNomination
}

// UndoPickParams removes Pick and its roster entry and stores the rewound draft.
type UndoPickParams struct {
	Pick  models.DraftPick
	Draft models.DraftSettings
}

// Publisher defines what the orchestrator needs from a broadcast transport.
// Delivery is fire-and-forget; errors are logged and never fail an operation.
type Publisher interface {
	Publish(ctx context.Context, env events.Envelope) error
}

type Orchestrator struct {
	repo       Repository
	publisher  Publisher
	strat      AutoPickStrategy
	clock      clockwork.Clock
	cfg        Config
	guard      *guard
	sessions   *sessionStore
	timers     *scheduler
	instanceID string

	// Worker pool configuration
	numWorkers int
	workCh     chan timeoutJob
	done       chan struct{}
}

// NewOrchestrator creates a new draft orchestrator. A nil clock uses the real clock.
func NewOrchestrator(repo Repository, publisher Publisher, strat AutoPickStrategy, cfg Config, clock clockwork.Clock) *Orchestrator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	cfg = cfg.withDefaults()

	o := &Orchestrator{
		repo:       repo,
		publisher:  publisher,
		strat:      strat,
		clock:      clock,
		cfg:        cfg,
		guard:      &guard{repo: repo},
		sessions:   newSessionStore(),
		instanceID: uuid.New().String()[:8], // short ID for logging
		numWorkers: cfg.Workers,
		workCh:     make(chan timeoutJob, cfg.Workers*2),
		done:       make(chan struct{}),
	}
	o.timers = newScheduler(clock, o.enqueue)
	return o
}

// GetDraft returns the live draft, falling back to the repository for drafts
// not held in memory.
func (o *Orchestrator) GetDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftSettings, error) {
	if v := o.sessions.view(draftID); v != nil {
		d := v.draft.Clone()
		return &d, nil
	}
	d, err := o.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, repoErr("get draft", err)
	}
	return d, nil
}

// withDraft runs fn with the draft's session locked and loaded.
func (o *Orchestrator) withDraft(ctx context.Context, draftID uuid.UUID, fn func(s *session) error) error {
	s := o.sessions.acquire(draftID)
	defer s.mu.Unlock()

	if !s.loaded {
		if err := o.load(ctx, s); err != nil {
			o.sessions.evict(s)
			return err
		}
	}

	err := fn(s)
	switch {
	case errors.Is(err, ErrPersistence):
		log.Error().Err(err).Str("draft_id", draftID.String()).Msg("dropping cached draft after persistence failure")
		o.sessions.evict(s)
	case s.draft.Status == models.DraftStatusCompleted:
		o.sessions.evict(s)
	}
	return err
}

// load fills a session from the repository.
func (o *Orchestrator) load(ctx context.Context, s *session) error {
	d, err := o.repo.GetDraft(ctx, s.id)
	if err != nil {
		return repoErr("load draft", err)
	}

	s.draft = *d
	s.budgets = nil
	s.nomination = nil
	s.deadline = nil
	s.clockStartedAt = o.clock.Now()

	if d.Format == models.DraftFormatAuction {
		picks, err := o.repo.ListPicks(ctx, d.ID)
		if err != nil {
			return repoErr("load picks", err)
		}
		s.budgets = budgetsFromPicks(d, picks)

		n, err := o.repo.GetActiveNomination(ctx, d.ID)
		switch {
		case errors.Is(err, models.ErrNotFound):
		case err != nil:
			return repoErr("load nomination", err)
		default:
			s.nomination = n
		}
	}

	s.loaded = true
	s.publishView()
	return nil
}

// publish wraps each event in an envelope and hands it to the publisher.
func (o *Orchestrator) publish(ctx context.Context, draftID uuid.UUID, evs ...events.Event) {
	if o.publisher == nil {
		return
	}
	for _, ev := range evs {
		env, err := events.NewEnvelope(draftID, ev, o.clock.Now())
		if err != nil {
			log.Error().Err(err).Str("draft_id", draftID.String()).Msg("failed to build event envelope")
			continue
		}
		if err := o.publisher.Publish(ctx, env); err != nil {
			log.Error().
				Err(err).
				Str("draft_id", draftID.String()).
				Str("event_type", string(env.EventType)).
				Msg("failed to publish draft event")
		}
	}
}

// repoErr classifies a repository error: missing rows stay NotFound, anything
// else is a persistence failure.
func repoErr(op string, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

func budgetsFromPicks(d *models.DraftSettings, picks []models.DraftPick) map[uuid.UUID]int {
	budgets := make(map[uuid.UUID]int, len(d.DraftOrder))
	start := 0
	if d.AuctionBudget != nil {
		start = *d.AuctionBudget
	}
	for _, id := range d.DraftOrder {
		budgets[id] = start
	}
	for _, p := range picks {
		if p.AuctionAmount != nil {
			budgets[p.TeamID] -= *p.AuctionAmount
		}
	}
	return budgets
}

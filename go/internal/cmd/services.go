package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mcdev12/draftroom/go/internal/draft/broadcast"
	"github.com/mcdev12/draftroom/go/internal/draft/catalog"
	"github.com/mcdev12/draftroom/go/internal/draft/gateway"
	"github.com/mcdev12/draftroom/go/internal/draft/memstore"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Engine *orchestrator.Orchestrator
	// Hub serves websocket clients connected to this process.
	Hub *gateway.ConnectionManager

	database  *sql.DB
	jetstream *broadcast.JetStreamPublisher
}

// setupServices wires store → engine → publishers.
func setupServices(ctx context.Context, cfg *Config) (*Services, error) {
	s := &Services{}

	repo, err := s.setupStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s.Hub = gateway.NewConnectionManager(cfg.WebSocket)
	publishers := []broadcast.Publisher{s.Hub, broadcast.LogPublisher{}}

	if cfg.NATS.Enabled {
		js, err := broadcast.NewJetStreamPublisher(ctx, cfg.NATS.JetStreamConfig)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to set up JetStream publisher: %w", err)
		}
		s.jetstream = js
		publishers = append(publishers, js)
		log.Info().Str("url", cfg.NATS.URL).Str("stream", cfg.NATS.StreamName).Msg("publishing draft events to JetStream")
	}

	strategy := cfg.AutoPick.NeedsStrategy
	s.Engine = orchestrator.NewOrchestrator(
		repo,
		broadcast.NewFanoutPublisher(publishers...),
		&strategy,
		cfg.Engine,
		nil,
	)
	return s, nil
}

func (s *Services) setupStore(ctx context.Context, cfg *Config) (orchestrator.Repository, error) {
	if cfg.Store.Driver == storeMemory {
		store := memstore.New()
		if cfg.Store.Catalog != "" {
			c, err := catalog.Load(cfg.Store.Catalog)
			if err != nil {
				return nil, err
			}
			c.Fill(store)
			log.Info().
				Int("leagues", len(c.Leagues)).
				Int("players", len(c.Players)).
				Msg("loaded catalog into memory store")
		}
		log.Warn().Msg("using in-memory draft store; state is lost on exit")
		return store, nil
	}

	database, repo, err := setupDatabase(ctx)
	if err != nil {
		return nil, err
	}
	s.database = database
	return repo, nil
}

// Close releases transports after the engine has stopped.
func (s *Services) Close() {
	if s.jetstream != nil {
		if err := s.jetstream.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close JetStream publisher")
		}
	}
	if s.database != nil {
		if err := s.database.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
}

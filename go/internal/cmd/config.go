package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/mcdev12/draftroom/go/internal/draft/broadcast"
	"github.com/mcdev12/draftroom/go/internal/draft/gateway"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	storePostgres = "postgres"
	storeMemory   = "memory"
)

type Config struct {
	Server struct {
		Port            string        `yaml:"port"`
		LogLevel        string        `yaml:"log_level"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		AllowedOrigins  []string      `yaml:"allowed_origins"`
	} `yaml:"server"`

	Engine   orchestrator.Config `yaml:"engine"`
	AutoPick AutoPickConfig      `yaml:"autopick"`

	NATS struct {
		Enabled                   bool `yaml:"enabled"`
		broadcast.JetStreamConfig `yaml:",inline"`
	} `yaml:"nats"`

	Store struct {
		Driver string `yaml:"driver"` // postgres | memory
		// Catalog seeds the memory store with leagues and players.
		Catalog string `yaml:"catalog"`
	} `yaml:"store"`

	WebSocket gateway.ConnectionConfig `yaml:"websocket"`
}

// AutoPickConfig weights the needs-based strategy. RosterTemplate is shared
// with the engine's needs analysis.
type AutoPickConfig struct {
	orchestrator.NeedsStrategy `yaml:",inline"`
	RosterTemplate             models.RosterTemplate `yaml:"roster_template"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.Server.LogLevel = "info"
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Engine = orchestrator.DefaultConfig()
	cfg.AutoPick.NeedsStrategy = *orchestrator.NewNeedsStrategy()
	cfg.AutoPick.RosterTemplate = models.DefaultRosterTemplate()
	cfg.NATS.JetStreamConfig = broadcast.DefaultJetStreamConfig()
	cfg.Store.Driver = storePostgres
	cfg.WebSocket = gateway.DefaultConnectionConfig()
	return cfg
}

// loadConfig layers defaults, the YAML file at path (optional) and env
// overrides, in that order.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", cfg.Server.LogLevel)
	cfg.NATS.URL = getEnv("NATS_URL", cfg.NATS.URL)
	cfg.NATS.Enabled = getEnvAsBool("NATS_ENABLED", cfg.NATS.Enabled)
	cfg.Store.Driver = getEnv("DRAFT_STORE", cfg.Store.Driver)
	cfg.Engine.Workers = getEnvAsInt("ENGINE_WORKERS", cfg.Engine.Workers)

	if len(cfg.AutoPick.RosterTemplate) > 0 {
		cfg.Engine.RosterTemplate = cfg.AutoPick.RosterTemplate
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Store.Driver != storePostgres && c.Store.Driver != storeMemory {
		return fmt.Errorf("store.driver must be %q or %q, got %q", storePostgres, storeMemory, c.Store.Driver)
	}
	if _, err := zerolog.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("server.log_level: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

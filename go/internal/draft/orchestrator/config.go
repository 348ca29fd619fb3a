package orchestrator

import (
	"time"

	"github.com/mcdev12/draftroom/go/internal/models"
)

// Config tunes the orchestrator. Zero values are replaced by DefaultConfig.
type Config struct {
	// Workers is the number of goroutines handling timer expiry.
	Workers int `yaml:"workers"`

	// AuctionDuration is the fixed countdown for a nomination.
	AuctionDuration time.Duration `yaml:"auction_duration"`
	// ResetAuctionOnBid restarts the countdown on every accepted bid. Off by
	// default: auctions end at a hard stop.
	ResetAuctionOnBid bool `yaml:"reset_auction_on_bid"`
	// OpeningBid is the nominator's automatic first bid.
	OpeningBid int `yaml:"opening_bid"`

	// RetryDelay re-arms a timer whose expiry could not be persisted.
	RetryDelay time.Duration `yaml:"retry_delay"`

	UpcomingWindow      int                   `yaml:"upcoming_window"`
	RecommendationLimit int                   `yaml:"recommendation_limit"`
	RosterTemplate      models.RosterTemplate `yaml:"roster_template"`
}

// DefaultConfig returns the standard engine settings.
func DefaultConfig() Config {
	return Config{
		Workers:             10,
		AuctionDuration:     30 * time.Second,
		OpeningBid:          1,
		RetryDelay:          5 * time.Second,
		UpcomingWindow:      5,
		RecommendationLimit: 10,
		RosterTemplate:      models.DefaultRosterTemplate(),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.AuctionDuration <= 0 {
		c.AuctionDuration = def.AuctionDuration
	}
	if c.OpeningBid <= 0 {
		c.OpeningBid = def.OpeningBid
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = def.RetryDelay
	}
	if c.UpcomingWindow <= 0 {
		c.UpcomingWindow = def.UpcomingWindow
	}
	if c.RecommendationLimit <= 0 {
		c.RecommendationLimit = def.RecommendationLimit
	}
	if len(c.RosterTemplate) == 0 {
		c.RosterTemplate = def.RosterTemplate
	}
	return c
}

package broadcast

import (
	"context"
	"errors"

	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/rs/zerolog/log"
)

// Publisher matches orchestrator.Publisher.
type Publisher interface {
	Publish(ctx context.Context, env events.Envelope) error
}

// FanoutPublisher hands every envelope to each publisher in order. One
// publisher failing does not stop the rest.
type FanoutPublisher struct {
	pubs []Publisher
}

func NewFanoutPublisher(pubs ...Publisher) *FanoutPublisher {
	return &FanoutPublisher{pubs: pubs}
}

func (f *FanoutPublisher) Publish(ctx context.Context, env events.Envelope) error {
	var errs []error
	for _, p := range f.pubs {
		if err := p.Publish(ctx, env); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogPublisher writes each envelope to the debug log.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, env events.Envelope) error {
	log.Debug().
		Str("draft_id", env.DraftID.String()).
		Str("event_type", string(env.EventType)).
		Str("event_id", env.EventID.String()).
		RawJSON("payload", env.Payload).
		Msg("draft event")
	return nil
}

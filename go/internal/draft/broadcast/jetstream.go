package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// Header keys set on every published message.
const (
	HeaderEventType = "Event-Type"
	HeaderDraftID   = "Draft-ID"
	HeaderEventID   = "Event-ID"
)

type JetStreamConfig struct {
	URL             string        `yaml:"url"`
	StreamName      string        `yaml:"stream"`
	SubjectPrefix   string        `yaml:"subject_prefix"`
	MaxAge          time.Duration `yaml:"max_age"`  // how long to keep messages
	MaxMsgs         int64         `yaml:"max_msgs"` // -1 for no limit
	Replicas        int           `yaml:"replicas"`
	DuplicateWindow time.Duration `yaml:"duplicate_window"` // message id dedupe window
	FlushTimeout    time.Duration `yaml:"flush_timeout"`    // Close waits this long for pending acks
}

func DefaultJetStreamConfig() JetStreamConfig {
	return JetStreamConfig{
		URL:             nats.DefaultURL,
		StreamName:      "DRAFT_EVENTS",
		SubjectPrefix:   events.DefaultSubjectPrefix,
		MaxAge:          7 * 24 * time.Hour,
		MaxMsgs:         -1,
		Replicas:        1,
		DuplicateWindow: 2 * time.Hour,
		FlushTimeout:    5 * time.Second,
	}
}

// StreamConfig is the DRAFT_EVENTS stream definition shared by the publisher
// and the gateway consumer.
func (c JetStreamConfig) StreamConfig() jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:        c.StreamName,
		Description: "Draft engine event stream",
		Subjects:    []string{c.SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      c.MaxAge,
		MaxMsgs:     c.MaxMsgs,
		Storage:     jetstream.FileStorage,
		Replicas:    c.Replicas,
		Duplicates:  c.DuplicateWindow,
	}
}

// JetStreamPublisher publishes envelopes asynchronously. The event id is the
// JetStream message id, so a retried publish is dropped by the server.
type JetStreamPublisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	config JetStreamConfig
}

func NewJetStreamPublisher(ctx context.Context, cfg JetStreamConfig) (*JetStreamPublisher, error) {
	nc, js, err := Connect(cfg.URL, "draftroom-publisher")
	if err != nil {
		return nil, err
	}

	p := &JetStreamPublisher{nc: nc, js: js, config: cfg}
	if err := EnsureStream(ctx, js, cfg.StreamConfig()); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}
	return p, nil
}

// EnsureStream creates the stream, or updates it when its limits changed.
func EnsureStream(ctx context.Context, js jetstream.JetStream, sc jetstream.StreamConfig) error {
	stream, err := js.Stream(ctx, sc.Name)
	if errors.Is(err, jetstream.ErrStreamNotFound) {
		if _, err := js.CreateStream(ctx, sc); err != nil {
			return fmt.Errorf("create stream: %w", err)
		}
		log.Info().Str("stream", sc.Name).Msg("created JetStream stream")
		return nil
	}
	if err != nil {
		return fmt.Errorf("get stream: %w", err)
	}

	info, err := stream.Info(ctx)
	if err != nil {
		return fmt.Errorf("get stream info: %w", err)
	}
	if sameLimits(info.Config, sc) {
		return nil
	}
	if _, err := js.UpdateStream(ctx, sc); err != nil {
		return fmt.Errorf("update stream: %w", err)
	}
	log.Info().Str("stream", sc.Name).Msg("updated JetStream stream")
	return nil
}

func (p *JetStreamPublisher) Publish(ctx context.Context, env events.Envelope) error {
	msg, err := NewMsg(p.config.SubjectPrefix, env)
	if err != nil {
		return err
	}

	future, err := p.js.PublishMsgAsync(msg,
		jetstream.WithMsgID(env.EventID.String()),
		jetstream.WithExpectStream(p.config.StreamName),
	)
	if err != nil {
		return fmt.Errorf("publish to JetStream: %w", err)
	}

	go func() {
		select {
		case ack := <-future.Ok():
			log.Debug().
				Str("subject", msg.Subject).
				Str("event_id", env.EventID.String()).
				Uint64("sequence", ack.Sequence).
				Bool("duplicate", ack.Duplicate).
				Msg("published to JetStream")
		case err := <-future.Err():
			log.Error().
				Err(err).
				Str("subject", msg.Subject).
				Str("event_id", env.EventID.String()).
				Msg("JetStream publish not acknowledged")
		}
	}()
	return nil
}

// Close waits for outstanding acks, then drains the connection.
func (p *JetStreamPublisher) Close() error {
	select {
	case <-p.js.PublishAsyncComplete():
	case <-time.After(p.config.FlushTimeout):
		log.Warn().Int("pending", p.js.PublishAsyncPending()).Msg("closing with unacknowledged publishes")
	}
	return p.nc.Drain()
}

// NewMsg builds the NATS message for env on its draft-scoped subject.
func NewMsg(prefix string, env events.Envelope) (*nats.Msg, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	msg := nats.NewMsg(env.Subject(prefix))
	msg.Data = data
	msg.Header.Set(HeaderEventType, string(env.EventType))
	msg.Header.Set(HeaderDraftID, env.DraftID.String())
	msg.Header.Set(HeaderEventID, env.EventID.String())
	return msg, nil
}

func sameLimits(a, b jetstream.StreamConfig) bool {
	return a.Name == b.Name &&
		a.MaxAge == b.MaxAge &&
		a.MaxMsgs == b.MaxMsgs &&
		a.Replicas == b.Replicas &&
		a.Duplicates == b.Duplicates
}

package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
)

type capture struct {
	got []events.Envelope
	err error
}

func (c *capture) Publish(_ context.Context, env events.Envelope) error {
	c.got = append(c.got, env)
	return c.err
}

func pausedEnvelope(t *testing.T) events.Envelope {
	t.Helper()
	draftID := uuid.New()
	env, err := events.NewEnvelope(draftID, events.DraftPausedPayload{
		DraftID:  draftID,
		PausedAt: time.Date(2025, 9, 1, 19, 30, 0, 0, time.UTC),
		PausedBy: uuid.New(),
	}, time.Date(2025, 9, 1, 19, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	return env
}

func TestFanoutPublisherDeliversToEveryPublisher(t *testing.T) {
	boom := errors.New("boom")
	first := &capture{err: boom}
	second := &capture{}
	fan := NewFanoutPublisher(first, second, LogPublisher{})

	env := pausedEnvelope(t)
	err := fan.Publish(context.Background(), env)
	if !errors.Is(err, boom) {
		t.Fatalf("Publish error = %v, want %v", err, boom)
	}
	if len(first.got) != 1 || len(second.got) != 1 {
		t.Fatalf("deliveries = %d, %d; want 1, 1", len(first.got), len(second.got))
	}
	if diff := cmp.Diff(env, second.got[0]); diff != "" {
		t.Errorf("envelope mismatch (-want +got):\n%s", diff)
	}
}

func TestFanoutPublisherWithoutFailures(t *testing.T) {
	fan := NewFanoutPublisher(&capture{}, &capture{})
	if err := fan.Publish(context.Background(), pausedEnvelope(t)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func TestNewMsgUsesDraftScopedSubject(t *testing.T) {
	env := pausedEnvelope(t)

	msg, err := NewMsg("draft.events", env)
	if err != nil {
		t.Fatalf("NewMsg: %v", err)
	}

	wantSubject := "draft.events." + env.DraftID.String() + ".DraftPaused"
	if msg.Subject != wantSubject {
		t.Errorf("subject = %q, want %q", msg.Subject, wantSubject)
	}

	headers := map[string]string{
		HeaderEventType: msg.Header.Get(HeaderEventType),
		HeaderDraftID:   msg.Header.Get(HeaderDraftID),
		HeaderEventID:   msg.Header.Get(HeaderEventID),
	}
	wantHeaders := map[string]string{
		HeaderEventType: "DraftPaused",
		HeaderDraftID:   env.DraftID.String(),
		HeaderEventID:   env.EventID.String(),
	}
	if diff := cmp.Diff(wantHeaders, headers); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}

	var decoded events.Envelope
	if err := json.Unmarshal(msg.Data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.EventID != env.EventID || decoded.EventType != env.EventType {
		t.Errorf("decoded header = %v/%v, want %v/%v", decoded.EventID, decoded.EventType, env.EventID, env.EventType)
	}
}

func TestStreamConfigCoversPrefix(t *testing.T) {
	sc := DefaultJetStreamConfig().StreamConfig()
	if sc.Name != "DRAFT_EVENTS" {
		t.Errorf("stream name = %q", sc.Name)
	}
	if diff := cmp.Diff([]string{"draft.events.>"}, sc.Subjects); diff != "" {
		t.Errorf("subjects mismatch (-want +got):\n%s", diff)
	}
	if !sameLimits(sc, sc) {
		t.Error("config should match itself")
	}
	changed := sc
	changed.MaxAge = time.Hour
	if sameLimits(sc, changed) {
		t.Error("changed max age should not match")
	}
}

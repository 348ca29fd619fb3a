package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/mcdev12/draftroom/go/internal/models"
)

func pickEnvelope(t *testing.T, draftID uuid.UUID) events.Envelope {
	t.Helper()
	at := time.Date(2025, 9, 1, 19, 0, 0, 0, time.UTC)
	env, err := events.NewEnvelope(draftID, events.PickMadePayload{
		PickID:     uuid.New(),
		DraftID:    draftID,
		TeamID:     uuid.New(),
		PlayerID:   uuid.New(),
		PlayerName: "Bijan Robinson",
		Position:   "RB",
		Round:      1,
		PickNumber: 1,
		MadeAt:     at,
	}, at)
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	return env
}

func startManager(t *testing.T) (*ConnectionManager, *httptest.Server) {
	t.Helper()
	cm := NewConnectionManager(DefaultConnectionConfig())
	ctx, cancel := context.WithCancel(context.Background())
	go cm.Start(ctx)

	mux := http.NewServeMux()
	NewWebSocketHandler(cm).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return cm, srv
}

func dial(t *testing.T, srv *httptest.Server, draftID uuid.UUID) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/draft?draft_id=" + draftID.String() + "&user_id=u1"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForConnections(t *testing.T, cm *ConnectionManager, draftID uuid.UUID, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for cm.ConnectionCount(draftID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("connections for %s = %d, want %d", draftID, cm.ConnectionCount(draftID), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublishReachesOnlyThatDraftsClients(t *testing.T) {
	cm, srv := startManager(t)
	draftID := uuid.New()
	otherID := uuid.New()

	watcher := dial(t, srv, draftID)
	bystander := dial(t, srv, otherID)
	waitForConnections(t, cm, draftID, 1)
	waitForConnections(t, cm, otherID, 1)

	env := pickEnvelope(t, draftID)
	if err := cm.Publish(context.Background(), env); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	_ = watcher.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := watcher.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var got events.Envelope
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.EventID != env.EventID || got.EventType != events.TypePickMade {
		t.Fatalf("got %s/%s, want %s/%s", got.EventID, got.EventType, env.EventID, env.EventType)
	}
	decoded, err := got.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p := decoded.(events.PickMadePayload); p.PlayerName != "Bijan Robinson" {
		t.Errorf("player = %q", p.PlayerName)
	}

	// a follow-up event for the other draft is the first thing the bystander sees
	other := pickEnvelope(t, otherID)
	if err := cm.Publish(context.Background(), other); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	_ = bystander.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err = bystander.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.EventID != other.EventID {
		t.Errorf("bystander received %s, want %s", got.EventID, other.EventID)
	}
}

func TestClosedClientIsUnregistered(t *testing.T) {
	cm, srv := startManager(t)
	draftID := uuid.New()

	conn := dial(t, srv, draftID)
	waitForConnections(t, cm, draftID, 1)

	conn.Close()
	waitForConnections(t, cm, draftID, 0)

	if got := cm.Stats(); got.TotalConnections != 0 || got.ActiveDrafts != 0 {
		t.Errorf("stats after close = %+v", got)
	}
}

func TestDraftConnectionRequiresDraftID(t *testing.T) {
	_, srv := startManager(t)

	for _, query := range []string{"", "?draft_id=nope"} {
		resp, err := http.Get(srv.URL + "/ws/draft" + query)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("query %q: status = %d, want 400", query, resp.StatusCode)
		}
	}
}

type capture struct {
	got []events.Envelope
}

func (c *capture) Publish(_ context.Context, env events.Envelope) error {
	c.got = append(c.got, env)
	return nil
}

func TestProcessMessage(t *testing.T) {
	sink := &capture{}
	ec := &EventConsumer{sink: sink}
	env := pickEnvelope(t, uuid.New())
	valid, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	tests := []struct {
		name      string
		data      []byte
		malformed bool
	}{
		{name: "valid envelope", data: valid},
		{name: "not json", data: []byte("{"), malformed: true},
		{name: "unknown type", data: []byte(`{"eventId":"` + uuid.NewString() + `","eventType":"Nope","draftId":"` + uuid.NewString() + `","payload":{}}`), malformed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ec.processMessage(context.Background(), tt.data)
			if got := errors.Is(err, errMalformed); got != tt.malformed {
				t.Fatalf("malformed = %v (err %v), want %v", got, err, tt.malformed)
			}
		})
	}

	if len(sink.got) != 1 || sink.got[0].EventID != env.EventID {
		t.Fatalf("sink received %d envelopes, want only the valid one", len(sink.got))
	}
}

type boardStub struct {
	board *models.DraftBoard
	err   error
}

func (s boardStub) GetDraftBoard(context.Context, uuid.UUID) (*models.DraftBoard, error) {
	return s.board, s.err
}

func TestDraftStateEndpoint(t *testing.T) {
	now := time.Date(2025, 9, 1, 19, 0, 0, 0, time.UTC)
	deadline := now.Add(45 * time.Second)
	draftID := uuid.New()
	board := &models.DraftBoard{
		Draft:    models.DraftSettings{ID: draftID, Status: models.DraftStatusInProgress, CurrentPick: 3},
		Deadline: &deadline,
	}

	tests := []struct {
		name       string
		path       string
		provider   StateProvider
		wantStatus int
	}{
		{name: "live draft", path: "/api/drafts/" + draftID.String() + "/state", provider: boardStub{board: board}, wantStatus: http.StatusOK},
		{name: "unknown draft", path: "/api/drafts/" + draftID.String() + "/state", provider: boardStub{err: models.ErrNotFound}, wantStatus: http.StatusNotFound},
		{name: "bad id", path: "/api/drafts/nope/state", provider: boardStub{board: board}, wantStatus: http.StatusBadRequest},
		{name: "engine error", path: "/api/drafts/" + draftID.String() + "/state", provider: boardStub{err: errors.New("down")}, wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewStateHandler(tt.provider)
			h.now = func() time.Time { return now }
			mux := http.NewServeMux()
			h.RegisterStateRoutes(mux)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var got struct {
				Draft            models.DraftSettings `json:"draft"`
				TimeRemainingSec *int                 `json:"time_remaining_sec"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Draft.ID != draftID || got.Draft.CurrentPick != 3 {
				t.Errorf("draft = %+v", got.Draft)
			}
			if diff := cmp.Diff(45, *got.TimeRemainingSec); diff != "" {
				t.Errorf("time remaining (-want +got):\n%s", diff)
			}
		})
	}
}

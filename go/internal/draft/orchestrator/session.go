package orchestrator

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
)

// session is the in-memory state of one live draft. All fields except view are
// guarded by mu.
type session struct {
	mu      sync.Mutex
	id      uuid.UUID
	loaded  bool
	evicted bool

	draft      models.DraftSettings
	budgets    map[uuid.UUID]int
	nomination *models.AuctionNomination

	clockStartedAt time.Time
	deadline       *time.Time

	view atomic.Pointer[draftView]
}

// draftView is an immutable snapshot for lock-free reads.
type draftView struct {
	draft      models.DraftSettings
	deadline   *time.Time
	nomination *models.AuctionNomination
}

func (s *session) publishView() {
	v := &draftView{draft: s.draft.Clone()}
	if s.deadline != nil {
		d := *s.deadline
		v.deadline = &d
	}
	if s.nomination != nil {
		n := *s.nomination
		v.nomination = &n
	}
	s.view.Store(v)
}

func (s *session) budget(teamID uuid.UUID) int {
	return s.budgets[teamID]
}

// sessionStore hands out one session per draft id.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[uuid.UUID]*session)}
}

// acquire returns the draft's session with its lock held. The session may not
// be loaded yet.
func (st *sessionStore) acquire(draftID uuid.UUID) *session {
	for {
		st.mu.Lock()
		s, ok := st.sessions[draftID]
		if !ok {
			s = &session{id: draftID}
			st.sessions[draftID] = s
		}
		st.mu.Unlock()

		s.mu.Lock()
		if !s.evicted {
			return s
		}
		// lost a race with evict; the next lookup creates a fresh session
		s.mu.Unlock()
	}
}

// evict drops s from the store. The caller must hold s.mu.
func (st *sessionStore) evict(s *session) {
	st.mu.Lock()
	if st.sessions[s.id] == s {
		delete(st.sessions, s.id)
	}
	st.mu.Unlock()
	s.evicted = true
}

// view returns the latest snapshot of a loaded draft, or nil.
func (st *sessionStore) view(draftID uuid.UUID) *draftView {
	st.mu.Lock()
	s, ok := st.sessions[draftID]
	st.mu.Unlock()
	if !ok {
		return nil
	}
	return s.view.Load()
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

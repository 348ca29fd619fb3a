package orchestrator

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

type timerKind int

const (
	pickTimer timerKind = iota
	auctionTimer
)

func (k timerKind) String() string {
	if k == auctionTimer {
		return "auction"
	}
	return "pick"
}

// timerKey identifies a timer: the draft id for pick timers, the nomination id
// for auction timers.
type timerKey struct {
	kind timerKind
	id   uuid.UUID
}

func pickKey(draftID uuid.UUID) timerKey         { return timerKey{kind: pickTimer, id: draftID} }
func auctionKey(nominationID uuid.UUID) timerKey { return timerKey{kind: auctionTimer, id: nominationID} }

// timeoutJob is queued when a timer fires. token ties it to the task that
// produced it.
type timeoutJob struct {
	key     timerKey
	draftID uuid.UUID
	token   uint64
}

type scheduledTask struct {
	timer    clockwork.Timer
	draftID  uuid.UUID
	token    uint64
	deadline time.Time
}

// scheduler owns every pending timer. A task is live while it is in the map;
// claim removes it, so each task is handled at most once.
type scheduler struct {
	clock clockwork.Clock
	fire  func(timeoutJob)

	mu    sync.Mutex
	tasks map[timerKey]*scheduledTask
	seq   uint64
}

func newScheduler(clock clockwork.Clock, fire func(timeoutJob)) *scheduler {
	return &scheduler{
		clock: clock,
		fire:  fire,
		tasks: make(map[timerKey]*scheduledTask),
	}
}

// schedule arms key to fire after d, replacing any existing timer for key.
// It returns the deadline.
func (s *scheduler) schedule(key timerKey, draftID uuid.UUID, d time.Duration) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.tasks[key]; ok {
		existing.timer.Stop()
		log.Debug().Str("draft_id", draftID.String()).Str("timer", key.kind.String()).Msg("replaced existing timer")
	}

	s.seq++
	job := timeoutJob{key: key, draftID: draftID, token: s.seq}
	deadline := s.clock.Now().Add(d)
	s.tasks[key] = &scheduledTask{
		timer:    s.clock.AfterFunc(d, func() { s.fire(job) }),
		draftID:  draftID,
		token:    job.token,
		deadline: deadline,
	}

	log.Debug().
		Str("draft_id", draftID.String()).
		Str("timer", key.kind.String()).
		Time("deadline", deadline).
		Dur("duration", d).
		Msg("scheduled one-shot timer")
	return deadline
}

// rearm reschedules job's task after d if it is still the live task for its key.
func (s *scheduler) rearm(job timeoutJob, d time.Duration) bool {
	s.mu.Lock()
	task, ok := s.tasks[job.key]
	live := ok && task.token == job.token
	s.mu.Unlock()
	if !live {
		return false
	}
	s.schedule(job.key, job.draftID, d)
	return true
}

// cancel stops and removes the timer for key.
func (s *scheduler) cancel(key timerKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[key]
	if !ok {
		return false
	}
	task.timer.Stop()
	delete(s.tasks, key)
	log.Debug().Str("draft_id", task.draftID.String()).Str("timer", key.kind.String()).Msg("cancelled timer")
	return true
}

// cancelDraft stops every timer belonging to draftID, pick and auction alike.
func (s *scheduler) cancelDraft(draftID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for key, task := range s.tasks {
		if task.draftID != draftID {
			continue
		}
		task.timer.Stop()
		delete(s.tasks, key)
		n++
	}
	if n > 0 {
		log.Debug().Str("draft_id", draftID.String()).Int("timers", n).Msg("cancelled all draft timers")
	}
	return n
}

// claim removes job's task if it is still live. A false result means the
// timer was cancelled or replaced after it fired.
func (s *scheduler) claim(job timeoutJob) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[job.key]
	if !ok || task.token != job.token {
		return false
	}
	delete(s.tasks, job.key)
	return true
}

// deadline reports when key fires.
func (s *scheduler) deadline(key timerKey) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[key]
	if !ok {
		return time.Time{}, false
	}
	return task.deadline, true
}

// pending counts live timers for draftID.
func (s *scheduler) pending(draftID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, task := range s.tasks {
		if task.draftID == draftID {
			n++
		}
	}
	return n
}

// stopAll cancels every timer, used on shutdown.
func (s *scheduler) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, task := range s.tasks {
		task.timer.Stop()
		log.Debug().Str("draft_id", task.draftID.String()).Str("timer", key.kind.String()).Msg("cancelled timer on shutdown")
	}
	s.tasks = make(map[timerKey]*scheduledTask)
}

package orchestrator

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Run starts the worker pool that handles timer expiry and blocks until ctx is
// cancelled. Timers armed before Run queue their jobs until workers start.
func (o *Orchestrator) Run(ctx context.Context) error {
	log.Info().
		Str("instance", o.instanceID).
		Int("workers", o.numWorkers).
		Msg("draft orchestrator started")

	var wg sync.WaitGroup
	for i := 0; i < o.numWorkers; i++ {
		wg.Add(1)
		go o.worker(ctx, &wg, i)
	}

	<-ctx.Done()
	log.Info().Str("instance", o.instanceID).Msg("orchestrator shutdown requested")

	close(o.done)
	o.timers.stopAll()
	wg.Wait()

	log.Info().Str("instance", o.instanceID).Msg("all workers shut down")
	return nil
}

// enqueue is the timer callback. It blocks until a worker has room or the
// orchestrator stops, so an expiry is never dropped while running.
func (o *Orchestrator) enqueue(job timeoutJob) {
	select {
	case o.workCh <- job:
		log.Debug().Str("draft_id", job.draftID.String()).Str("timer", job.key.kind.String()).Msg("timer fired - enqueued for processing")
	case <-o.done:
		log.Debug().Str("draft_id", job.draftID.String()).Msg("timer fired after shutdown - dropped")
	}
}

// worker processes draft timeouts from the work channel
func (o *Orchestrator) worker(ctx context.Context, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	log.Debug().
		Str("instance", o.instanceID).
		Int("worker_id", workerID).
		Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().
				Str("instance", o.instanceID).
				Int("worker_id", workerID).
				Msg("worker shutting down")
			return
		case job := <-o.workCh:
			outcome, err := o.handleTimeout(ctx, job)
			if err != nil {
				log.Error().
					Err(err).
					Str("draft_id", job.draftID.String()).
					Str("instance", o.instanceID).
					Int("worker_id", workerID).
					Msg("worker timeout handling failed")
				continue
			}
			log.Info().
				Str("draft_id", job.draftID.String()).
				Str("timer", job.key.kind.String()).
				Str("outcome", outcome.String()).
				Int("worker_id", workerID).
				Msg("worker handled timeout")
		}
	}
}

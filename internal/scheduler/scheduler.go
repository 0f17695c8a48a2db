// Package scheduler drives every parsed endpoint through the probe
// executor on a bounded worker pool, with cooperative pause/resume/cancel
// and fire-and-forget progress notification.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dennis-web-tech-hub/proxy-checker/internal/analytics"
	"github.com/dennis-web-tech-hub/proxy-checker/internal/model"
)

// Prober runs one connectivity test. Implemented by probe.Executor; tests
// substitute their own.
type Prober interface {
	Probe(ctx context.Context, ep model.Endpoint) model.ProbeResult
}

// Enricher completes successful results with anonymity/location data.
type Enricher interface {
	Enrich(ctx context.Context, res model.ProbeResult) model.ProbeResult
}

// Progress is the snapshot pushed to the observer after each recorded
// result. Counts only ever grow within a run.
type Progress struct {
	Checked int
	Working int
	Status  model.RunStatus
}

// Observer receives progress snapshots. Delivery is coalesced and happens
// on a dedicated goroutine, so a slow observer never blocks a worker.
type Observer func(Progress)

// Scheduler owns the run state for a single run. Create a fresh one per
// run; terminal states are never left.
type Scheduler struct {
	cfg    model.Config
	prober Prober
	store  *analytics.Store
	log    *slog.Logger

	// Optional collaborators, set before Run.
	Enricher   Enricher
	OnProgress Observer

	mu        sync.Mutex
	cond      *sync.Cond // broadcast on every status change
	status    model.RunStatus
	startTime time.Time

	notify chan struct{}
}

// New builds a scheduler for one run. The store receives exactly one
// result per dispatched endpoint.
func New(cfg model.Config, prober Prober, store *analytics.Store, log *slog.Logger) *Scheduler {
	s := &Scheduler{
		cfg:    cfg,
		prober: prober,
		store:  store,
		log:    log,
		status: model.StatusIdle,
		notify: make(chan struct{}, 1),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Status returns the current run state.
func (s *Scheduler) Status() model.RunStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Run drains the endpoint queue through cfg.MaxWorkers workers and blocks
// until the run reaches a terminal state. Cancellation of ctx behaves like
// Cancel(): in-flight probes complete and are recorded, queued endpoints
// are discarded.
func (s *Scheduler) Run(ctx context.Context, endpoints []model.Endpoint) (model.Summary, error) {
	if err := s.transition(model.StatusRunning); err != nil {
		return model.Summary{}, err
	}

	s.mu.Lock()
	s.startTime = time.Now()
	s.mu.Unlock()

	// Pre-load the whole queue and close it; workers never block on the
	// pull itself, only on the pause gate.
	queue := make(chan model.Endpoint, len(endpoints))
	for _, ep := range endpoints {
		queue <- ep
	}
	close(queue)

	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			_ = s.Cancel()
		case <-done:
		}
	}()

	var notifierWG sync.WaitGroup
	if s.OnProgress != nil {
		notifierWG.Add(1)
		go s.runNotifier(done, &notifierWG)
	}

	var wg sync.WaitGroup
	for i := 0; i < s.cfg.MaxWorkers; i++ {
		wg.Add(1)
		go s.worker(ctx, queue, &wg)
	}
	wg.Wait()

	// Queue drained or cancelled; settle the terminal state.
	s.mu.Lock()
	if !s.status.Terminal() {
		s.status = model.StatusCompleted
		s.cond.Broadcast()
	}
	final := s.status
	elapsed := time.Since(s.startTime)
	s.mu.Unlock()

	close(done)
	notifierWG.Wait()

	summary := s.store.Summary(elapsed, final)
	s.log.Info("run finished",
		"status", final,
		"checked", summary.TotalChecked,
		"working", summary.TotalWorking,
		"elapsed_ms", elapsed.Milliseconds(),
	)
	return summary, nil
}

// worker pulls queued endpoints until the queue is empty or the run is
// cancelled. Pause blocks between pulls, never mid-probe: a dispatched
// probe always completes and its result is always recorded.
func (s *Scheduler) worker(ctx context.Context, queue <-chan model.Endpoint, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		if !s.awaitRunnable() {
			return
		}

		ep, ok := <-queue
		if !ok {
			return
		}

		res := s.prober.Probe(ctx, ep)
		if res.Working() && s.Enricher != nil {
			res = s.Enricher.Enrich(ctx, res)
		}

		s.store.Record(res)
		s.signalProgress()
	}
}

// awaitRunnable blocks while the run is paused and reports whether the
// worker should keep pulling work.
func (s *Scheduler) awaitRunnable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.status == model.StatusPaused {
		s.cond.Wait()
	}
	return s.status == model.StatusRunning
}

// Pause stops workers from pulling new work after their in-flight probe.
func (s *Scheduler) Pause() error {
	return s.transition(model.StatusPaused)
}

// Resume lets paused workers pull from the queue again.
func (s *Scheduler) Resume() error {
	return s.transition(model.StatusRunning)
}

// Cancel discards all queued endpoints. In-flight probes still complete
// and their results are still recorded; cancellation is cooperative and
// never interrupts a network call.
func (s *Scheduler) Cancel() error {
	return s.transition(model.StatusCancelled)
}

// transition applies the run state machine, rejecting anything outside
//
//	idle -> running, running <-> paused, {running,paused} -> cancelled
//
// and broadcasting to workers parked on the pause gate.
func (s *Scheduler) transition(to model.RunStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := false
	switch to {
	case model.StatusRunning:
		ok = s.status == model.StatusIdle || s.status == model.StatusPaused
	case model.StatusPaused:
		ok = s.status == model.StatusRunning
	case model.StatusCancelled:
		ok = s.status == model.StatusRunning || s.status == model.StatusPaused
	}
	if !ok {
		return fmt.Errorf("invalid state transition %s -> %s", s.status, to)
	}

	s.log.Debug("run state change", "from", s.status, "to", to)
	s.status = to
	s.cond.Broadcast()
	return nil
}

// signalProgress coalesces progress notifications onto the notifier
// goroutine. The buffered send never blocks a worker.
func (s *Scheduler) signalProgress() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// runNotifier forwards coalesced progress snapshots to the observer until
// the run ends, then pushes one final snapshot.
func (s *Scheduler) runNotifier(done <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-done:
			s.emitProgress()
			return
		case <-s.notify:
			s.emitProgress()
		}
	}
}

func (s *Scheduler) emitProgress() {
	checked, working := s.store.Counts()
	s.OnProgress(Progress{
		Checked: checked,
		Working: working,
		Status:  s.Status(),
	})
}

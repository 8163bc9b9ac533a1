package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sdigrader/gradeforge/pkg/services"
)

// WorkerStatus represents the current state of a worker.
type WorkerStatus string

const (
	WorkerStatusIdle    WorkerStatus = "idle"
	WorkerStatusWorking WorkerStatus = "working"
)

// WorkerHealth is a point-in-time snapshot of one worker's state.
type WorkerHealth struct {
	ID                  string
	Status              WorkerStatus
	CurrentSubmissionID string
	Processed           int
	LastActivity        time.Time
}

// Worker polls for queued submissions and runs them through the Driver.
// Grounded on the teacher's pkg/queue.Worker: a default-case select loop
// that polls, handles "nothing to do" as a sleep rather than an error, and
// backs off briefly on an unexpected error. Narrowed from the teacher's
// FOR-UPDATE-SKIP-LOCKED session claim down to peek-then-let-the-driver-
// claim, since Driver.Run already performs the atomic queued→processing
// transition via SubmissionService.ClaimSpecific.
type Worker struct {
	id           string
	submissions  *services.SubmissionService
	driver       *Driver
	pollInterval time.Duration
	pollJitter   time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu                  sync.RWMutex
	status              WorkerStatus
	currentSubmissionID string
	processed           int
	lastActivity        time.Time
}

func newWorker(id string, submissions *services.SubmissionService, driver *Driver, pollInterval, pollJitter time.Duration) *Worker {
	return &Worker{
		id:           id,
		submissions:  submissions,
		driver:       driver,
		pollInterval: pollInterval,
		pollJitter:   pollJitter,
		stopCh:       make(chan struct{}),
		status:       WorkerStatusIdle,
		lastActivity: time.Now(),
	}
}

// Start begins the worker's polling loop in a goroutine.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop signals the worker to stop and waits for its current run to finish.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

// Health returns the worker's current health snapshot.
func (w *Worker) Health() WorkerHealth {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return WorkerHealth{
		ID:                  w.id,
		Status:              w.status,
		CurrentSubmissionID: w.currentSubmissionID,
		Processed:           w.processed,
		LastActivity:        w.lastActivity,
	}
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	log := slog.With("worker_id", w.id)
	log.Info("grading worker started")

	for {
		select {
		case <-w.stopCh:
			log.Info("grading worker shutting down")
			return
		case <-ctx.Done():
			log.Info("context cancelled, grading worker shutting down")
			return
		default:
			if err := w.pollAndProcess(ctx); err != nil {
				if errors.Is(err, services.ErrNoSubmissionsQueued) {
					w.sleep(w.jitteredInterval())
					continue
				}
				log.Error("error processing submission", "error", err)
				w.sleep(time.Second)
			}
		}
	}
}

func (w *Worker) sleep(d time.Duration) {
	select {
	case <-w.stopCh:
	case <-time.After(d):
	}
}

func (w *Worker) pollAndProcess(ctx context.Context) error {
	submissionID, err := w.submissions.PeekNextQueued(ctx)
	if err != nil {
		return err
	}

	log := slog.With("submission_id", submissionID, "worker_id", w.id)
	log.Info("submission claimed")

	w.setStatus(WorkerStatusWorking, submissionID)
	defer w.setStatus(WorkerStatusIdle, "")

	if err := w.driver.Run(ctx, submissionID); err != nil {
		if errors.Is(err, errAlreadyRunning) || errors.Is(err, services.ErrSubmissionNotQueued) {
			// Lost the claim race to another worker between peek and run;
			// not an error, just nothing for this worker to do this cycle.
			return nil
		}
		log.Error("submission run failed", "error", err)
		w.bumpProcessed()
		return fmt.Errorf("submission %q: %w", submissionID, err)
	}

	w.bumpProcessed()
	log.Info("submission run complete")
	return nil
}

func (w *Worker) bumpProcessed() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.processed++
}

func (w *Worker) setStatus(status WorkerStatus, submissionID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = status
	w.currentSubmissionID = submissionID
	w.lastActivity = time.Now()
}

func (w *Worker) jitteredInterval() time.Duration {
	if w.pollJitter <= 0 {
		return w.pollInterval
	}
	offset := time.Duration(rand.Int64N(int64(2 * w.pollJitter)))
	return w.pollInterval - w.pollJitter + offset
}

// WorkerPool runs a fixed number of Workers against the same Driver.
type WorkerPool struct {
	submissions  *services.SubmissionService
	driver       *Driver
	workerCount  int
	pollInterval time.Duration
	pollJitter   time.Duration

	mu      sync.Mutex
	workers []*Worker
	started bool
}

// NewWorkerPool creates a WorkerPool. pollJitter of zero disables jitter.
func NewWorkerPool(submissions *services.SubmissionService, driver *Driver, workerCount int, pollInterval, pollJitter time.Duration) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &WorkerPool{
		submissions:  submissions,
		driver:       driver,
		workerCount:  workerCount,
		pollInterval: pollInterval,
		pollJitter:   pollJitter,
	}
}

// Start spawns the pool's worker goroutines. Safe to call once; subsequent
// calls are no-ops.
func (p *WorkerPool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		slog.Warn("worker pool already started, ignoring duplicate Start call")
		return
	}
	p.started = true

	slog.Info("starting grading worker pool", "worker_count", p.workerCount)
	p.workers = make([]*Worker, 0, p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		w := newWorker(fmt.Sprintf("grading-worker-%d", i), p.submissions, p.driver, p.pollInterval, p.pollJitter)
		p.workers = append(p.workers, w)
		w.Start(ctx)
	}
}

// Stop signals every worker to stop and waits for in-flight runs to
// finish.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	workers := p.workers
	p.mu.Unlock()

	slog.Info("stopping grading worker pool")
	for _, w := range workers {
		w.Stop()
	}
	slog.Info("grading worker pool stopped")
}

// Health returns a snapshot of every worker in the pool.
func (p *WorkerPool) Health() []WorkerHealth {
	p.mu.Lock()
	workers := p.workers
	p.mu.Unlock()

	out := make([]WorkerHealth, len(workers))
	for i, w := range workers {
		out[i] = w.Health()
	}
	return out
}

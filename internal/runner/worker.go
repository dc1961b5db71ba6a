package runner

import (
	"context"
	"errors"
	"sync"

	"github.com/mycontracts/backend/internal/catalog"
	"github.com/mycontracts/backend/internal/models"
)

// ErrQueueFull is returned by Submit when the deployment queue cannot
// accept more work.
var ErrQueueFull = errors.New("deployment queue is full")

// ErrWorkerClosed is returned by Submit after Close.
var ErrWorkerClosed = errors.New("deployment worker is shut down")

type job struct {
	record   *models.ContractDeployment
	template catalog.ContractTemplate
}

// Worker runs deployments off the request path on a fixed pool of
// goroutines. Each in-flight deployment gets its own cancelable
// context, so callers can abort a running script by record ID.
type Worker struct {
	runner *Runner
	jobs   chan job
	wg     sync.WaitGroup

	mu      sync.Mutex
	cancels map[uint]context.CancelFunc
	closed  bool
}

// NewWorker starts workers goroutines consuming a queue of queueSize
// pending deployments.
func NewWorker(runner *Runner, workers, queueSize int) *Worker {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 16
	}

	w := &Worker{
		runner:  runner,
		jobs:    make(chan job, queueSize),
		cancels: make(map[uint]context.CancelFunc),
	}

	w.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go w.loop()
	}
	return w
}

// Submit enqueues a queued deployment for execution. It never blocks:
// a full queue is reported to the caller instead. The closed check and
// the send share one critical section so a concurrent Close cannot
// close the channel between them.
func (w *Worker) Submit(record *models.ContractDeployment, template catalog.ContractTemplate) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorkerClosed
	}

	select {
	case w.jobs <- job{record: record, template: template}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Cancel aborts an in-flight deployment. It reports whether a running
// deployment with that ID was found; queued-but-not-started work cannot
// be cancelled here and simply runs to a terminal state.
func (w *Worker) Cancel(recordID uint) bool {
	w.mu.Lock()
	cancel, ok := w.cancels[recordID]
	w.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// Close stops accepting work and waits for in-flight deployments to
// reach a terminal state.
func (w *Worker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.jobs)
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for job := range w.jobs {
		w.runOne(job)
	}
}

func (w *Worker) runOne(job job) {
	ctx, cancel := context.WithCancel(context.Background())

	w.mu.Lock()
	w.cancels[job.record.ID] = cancel
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		delete(w.cancels, job.record.ID)
		w.mu.Unlock()
		cancel()
	}()

	w.runner.Run(ctx, job.record, job.template)
}
